package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/nyahub/nya-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository handles user account data access
type UserRepository struct {
	c *mongo.Collection
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{c: db.Collection("users")}
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	start := time.Now()
	var user models.User
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	observe("users", "findOne", start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	start := time.Now()
	var user models.User
	err := r.c.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	observe("users", "findOne", start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	start := time.Now()
	user.Email = strings.ToLower(user.Email)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.LastLogin.IsZero() {
		user.LastLogin = user.CreatedAt
	}
	res, err := r.c.InsertOne(ctx, user)
	observe("users", "insertOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (r *UserRepository) TouchLogin(ctx context.Context, id primitive.ObjectID) error {
	start := time.Now()
	_, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_login": time.Now().UTC()}})
	observe("users", "updateOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func (r *UserRepository) SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	start := time.Now()
	update := bson.M{"$set": bson.M{"role": role, "role_selected": true}}
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	observe("users", "updateOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) error {
	start := time.Now()
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"blocked": blocked}})
	observe("users", "updateOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to set blocked flag: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetAvatarURL(ctx context.Context, id primitive.ObjectID, url string) error {
	start := time.Now()
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"avatar_url": url}})
	observe("users", "updateOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to set avatar url: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	start := time.Now()
	cursor, err := r.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	observe("users", "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// FindAdmins returns all non-blocked ADMIN accounts.
func (r *UserRepository) FindAdmins(ctx context.Context) ([]*models.User, error) {
	start := time.Now()
	query := bson.M{"role": models.RoleAdmin, "blocked": bson.M{"$ne": true}}
	cursor, err := r.c.Find(ctx, query)
	observe("users", "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode admins: %w", err)
	}
	return users, nil
}

// FindIDsByName returns ids of users whose display name contains the search
// text, case-insensitively.
func (r *UserRepository) FindIDsByName(ctx context.Context, search string) ([]primitive.ObjectID, error) {
	start := time.Now()
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	cursor, err := r.c.Find(ctx, bson.M{"name": pattern},
		options.Find().SetProjection(bson.M{"_id": 1}))
	observe("users", "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to search users by name: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode user ids: %w", err)
	}
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	if len(ids) == 0 {
		return map[primitive.ObjectID]*models.User{}, nil
	}
	start := time.Now()
	cursor, err := r.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	observe("users", "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to find users by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	byID := make(map[primitive.ObjectID]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}
