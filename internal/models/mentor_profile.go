package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MentorProfile is the one-to-one mentor profile for a MENTOR-role account.
// Every upsert by the owner resets approval and sends the profile back to
// the moderation queue.
type MentorProfile struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Domain          string             `bson:"domain" json:"domain"`
	ExperienceYears int                `bson:"experience_years" json:"experience_years"`
	Expertise       []string           `bson:"expertise" json:"expertise"`
	Links           []string           `bson:"links" json:"links"`
	Bio             string             `bson:"bio" json:"bio"`
	Availability    string             `bson:"availability" json:"availability"`
	ApprovedByAdmin bool               `bson:"approved_by_admin" json:"approved_by_admin"`
}

// MentorListing is the public card shape for the approved mentor directory.
type MentorListing struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id"`
	Name            string   `json:"name"`
	Domain          string   `json:"domain"`
	ExperienceYears int      `json:"experience_years"`
	Expertise       []string `json:"expertise"`
	Bio             string   `json:"bio"`
	Availability    string   `json:"availability"`
	AvatarURL       string   `json:"avatar_url,omitempty"`
}
