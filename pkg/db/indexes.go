package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes declares the indexes every collection relies on. Safe to
// call on every startup; Mongo treats existing identical indexes as no-ops.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
			{Keys: bson.D{{Key: "role", Value: 1}}, Options: options.Index().SetName("role_idx")},
		},
		"capstone_profiles": {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_user_id")},
			{Keys: bson.D{{Key: "skills", Value: 1}}, Options: options.Index().SetName("skills_idx")},
			{Keys: bson.D{{Key: "required_skills", Value: 1}}, Options: options.Index().SetName("required_skills_idx")},
			{Keys: bson.D{{Key: "looking_for", Value: 1}}, Options: options.Index().SetName("looking_for_idx")},
			{Keys: bson.D{{Key: "mentor_assigned", Value: 1}}, Options: options.Index().SetName("mentor_assigned_idx")},
		},
		"mentor_profiles": {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_user_id")},
			{Keys: bson.D{{Key: "approved_by_admin", Value: 1}}, Options: options.Index().SetName("approved_idx")},
			{Keys: bson.D{{Key: "domain", Value: 1}}, Options: options.Index().SetName("domain_idx")},
		},
		"requests": {
			{Keys: bson.D{{Key: "from_user_id", Value: 1}, {Key: "to_user_id", Value: 1}, {Key: "status", Value: 1}}, Options: options.Index().SetName("request_pair_status_idx")},
			{Keys: bson.D{{Key: "to_user_id", Value: 1}, {Key: "status", Value: 1}}, Options: options.Index().SetName("incoming_status_idx")},
			{Keys: bson.D{{Key: "from_user_id", Value: 1}, {Key: "status", Value: 1}}, Options: options.Index().SetName("outgoing_status_idx")},
			{Keys: bson.D{{Key: "type", Value: 1}}, Options: options.Index().SetName("type_idx")},
		},
		"mentor_email_templates": {
			{Keys: bson.D{{Key: "mentor_id", Value: 1}, {Key: "template_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_mentor_template")},
		},
	}

	for collection, models := range indexes {
		if _, err := database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
	}
	return nil
}
