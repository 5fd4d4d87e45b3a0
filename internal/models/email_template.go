package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MentorEmailTemplate is a per-mentor override of one of the built-in
// mentorship email templates.
type MentorEmailTemplate struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	MentorID   primitive.ObjectID `bson:"mentor_id" json:"mentor_id"`
	TemplateID string             `bson:"template_id" json:"template_id"`
	Content    string             `bson:"content" json:"content"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// EmailTemplateInfo describes a template without its content.
type EmailTemplateInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Placeholders []string `json:"placeholders"`
}

// EmailTemplate is a template with its current content.
type EmailTemplate struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Placeholders []string `json:"placeholders"`
	Content      string   `json:"content"`
}

// GlobalEmailTemplate is an admin-managed override of one of the built-in
// team request email templates.
type GlobalEmailTemplate struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	TemplateID string             `bson:"template_id" json:"template_id"`
	Content    string             `bson:"content" json:"content"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
