package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nyahub/nya-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MentorEmailTemplateRepository stores per-mentor template overrides
type MentorEmailTemplateRepository struct {
	c *mongo.Collection
}

// NewMentorEmailTemplateRepository creates a new mentor template repository
func NewMentorEmailTemplateRepository(db *mongo.Database) *MentorEmailTemplateRepository {
	return &MentorEmailTemplateRepository{c: db.Collection("mentor_email_templates")}
}

func (r *MentorEmailTemplateRepository) Find(ctx context.Context, mentorID primitive.ObjectID, templateID string) (*models.MentorEmailTemplate, error) {
	start := time.Now()
	var tpl models.MentorEmailTemplate
	err := r.c.FindOne(ctx, bson.M{"mentor_id": mentorID, "template_id": templateID}).Decode(&tpl)
	observe("mentor_email_templates", "findOne", start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find mentor template: %w", err)
	}
	return &tpl, nil
}

func (r *MentorEmailTemplateRepository) Upsert(ctx context.Context, mentorID primitive.ObjectID, templateID, content string) error {
	start := time.Now()
	_, err := r.c.UpdateOne(ctx,
		bson.M{"mentor_id": mentorID, "template_id": templateID},
		bson.M{"$set": bson.M{"content": content, "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(true))
	observe("mentor_email_templates", "updateOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to upsert mentor template: %w", err)
	}
	return nil
}

// GlobalEmailTemplateRepository stores admin-managed template overrides
type GlobalEmailTemplateRepository struct {
	c *mongo.Collection
}

// NewGlobalEmailTemplateRepository creates a new global template repository
func NewGlobalEmailTemplateRepository(db *mongo.Database) *GlobalEmailTemplateRepository {
	return &GlobalEmailTemplateRepository{c: db.Collection("email_templates")}
}

func (r *GlobalEmailTemplateRepository) Find(ctx context.Context, templateID string) (*models.GlobalEmailTemplate, error) {
	start := time.Now()
	var tpl models.GlobalEmailTemplate
	err := r.c.FindOne(ctx, bson.M{"template_id": templateID}).Decode(&tpl)
	observe("email_templates", "findOne", start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find email template: %w", err)
	}
	return &tpl, nil
}

func (r *GlobalEmailTemplateRepository) Upsert(ctx context.Context, templateID, content string) error {
	start := time.Now()
	_, err := r.c.UpdateOne(ctx,
		bson.M{"template_id": templateID},
		bson.M{"$set": bson.M{"content": content, "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(true))
	observe("email_templates", "updateOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to upsert email template: %w", err)
	}
	return nil
}
