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

// RequestRepository handles connection request data access
type RequestRepository struct {
	c *mongo.Collection
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{c: db.Collection("requests")}
}

func (r *RequestRepository) Create(ctx context.Context, req *models.Request) (*models.Request, error) {
	start := time.Now()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	req.Status = models.RequestStatusPending
	res, err := r.c.InsertOne(ctx, req)
	observe("requests", "insertOne", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		req.ID = oid
	}
	return req, nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	start := time.Now()
	var req models.Request
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	observe("requests", "findOne", start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find request: %w", err)
	}
	return &req, nil
}

// FindPendingBetween looks for a PENDING request of any type in either
// direction between the two users. A pending request blocks new ones for
// the pair regardless of type.
func (r *RequestRepository) FindPendingBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Request, error) {
	start := time.Now()
	query := bson.M{
		"status": models.RequestStatusPending,
		"$or": []bson.M{
			{"from_user_id": a, "to_user_id": b},
			{"from_user_id": b, "to_user_id": a},
		},
	}
	var req models.Request
	err := r.c.FindOne(ctx, query).Decode(&req)
	observe("requests", "findOne", start, err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pending request: %w", err)
	}
	return &req, nil
}

// CountAcceptedCapstone counts accepted capstone connections where the user
// appears on either side.
func (r *RequestRepository) CountAcceptedCapstone(ctx context.Context, userID primitive.ObjectID) (int, error) {
	start := time.Now()
	query := bson.M{
		"status": models.RequestStatusAccepted,
		"type":   models.RequestTypeCapstone,
		"$or": []bson.M{
			{"from_user_id": userID},
			{"to_user_id": userID},
		},
	}
	count, err := r.c.CountDocuments(ctx, query)
	observe("requests", "countDocuments", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to count accepted connections: %w", err)
	}
	return int(count), nil
}

func (r *RequestRepository) ListIncoming(ctx context.Context, userID primitive.ObjectID, status models.RequestStatus) ([]*models.Request, error) {
	return r.list(ctx, bson.M{"to_user_id": userID}, status)
}

func (r *RequestRepository) ListOutgoing(ctx context.Context, userID primitive.ObjectID, status models.RequestStatus) ([]*models.Request, error) {
	return r.list(ctx, bson.M{"from_user_id": userID}, status)
}

func (r *RequestRepository) list(ctx context.Context, query bson.M, status models.RequestStatus) ([]*models.Request, error) {
	if status != "" {
		query["status"] = status
	}
	start := time.Now()
	cursor, err := r.c.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	observe("requests", "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*models.Request
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode requests: %w", err)
	}
	return requests, nil
}

// TransitionFromPending atomically flips a PENDING request to the target
// status. The status guard lives in the filter, so two concurrent transitions
// cannot both win.
func (r *RequestRepository) TransitionFromPending(ctx context.Context, id primitive.ObjectID, to models.RequestStatus) (*models.Request, error) {
	start := time.Now()
	filter := bson.M{"_id": id, "status": models.RequestStatusPending}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Request
	err := r.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"status": to}}, opts).Decode(&updated)
	observe("requests", "findOneAndUpdate", start, err)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to transition request: %w", err)
	}

	// Either the request is gone or it already left PENDING.
	existsStart := time.Now()
	countErr := r.c.FindOne(ctx, bson.M{"_id": id}).Err()
	observe("requests", "findOne", existsStart, countErr)
	if errors.Is(countErr, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if countErr != nil {
		return nil, fmt.Errorf("failed to check request state: %w", countErr)
	}
	return nil, ErrStatusConflict
}
