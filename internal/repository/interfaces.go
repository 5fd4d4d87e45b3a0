package repository

import (
	"context"
	"errors"

	"github.com/nyahub/nya-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrStatusConflict is returned when a conditional status transition finds
// the request no longer in PENDING state.
var ErrStatusConflict = errors.New("request not in pending state")

// UserDataSource defines user account persistence.
type UserDataSource interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	TouchLogin(ctx context.Context, id primitive.ObjectID) error
	SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) error
	SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) error
	SetAvatarURL(ctx context.Context, id primitive.ObjectID, url string) error
	List(ctx context.Context) ([]*models.User, error)
	FindAdmins(ctx context.Context) ([]*models.User, error)
	FindIDsByName(ctx context.Context, search string) ([]primitive.ObjectID, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
}

// CapstoneProfileDataSource defines capstone profile persistence.
type CapstoneProfileDataSource interface {
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.CapstoneProfile, error)
	Upsert(ctx context.Context, profile *models.CapstoneProfile) (*models.CapstoneProfile, error)
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error
	FindPage(ctx context.Context, filter models.DiscoveryQuery, excludeUserID primitive.ObjectID, limit int) ([]*models.CapstoneProfile, error)
	FindBySkills(ctx context.Context, skills []string, filter models.DiscoveryQuery, excludeUserID primitive.ObjectID, limit int) ([]*models.CapstoneProfile, error)
	FindByUserIDs(ctx context.Context, userIDs []primitive.ObjectID, filter models.DiscoveryQuery, excludeUserID primitive.ObjectID, limit int) ([]*models.CapstoneProfile, error)
	Sample(ctx context.Context, excludeUserID primitive.ObjectID, size int) ([]*models.CapstoneProfile, error)
}

// MentorProfileDataSource defines mentor profile persistence.
type MentorProfileDataSource interface {
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.MentorProfile, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.MentorProfile, error)
	Upsert(ctx context.Context, profile *models.MentorProfile) (*models.MentorProfile, error)
	ListByApproval(ctx context.Context, approved bool) ([]*models.MentorProfile, error)
	SearchApproved(ctx context.Context, domain, search string, userIDs []primitive.ObjectID) ([]*models.MentorProfile, error)
	SetApproval(ctx context.Context, id primitive.ObjectID, approved bool) (*models.MentorProfile, error)
}

// RequestDataSource defines connection request persistence.
type RequestDataSource interface {
	Create(ctx context.Context, req *models.Request) (*models.Request, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error)
	FindPendingBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Request, error)
	CountAcceptedCapstone(ctx context.Context, userID primitive.ObjectID) (int, error)
	ListIncoming(ctx context.Context, userID primitive.ObjectID, status models.RequestStatus) ([]*models.Request, error)
	ListOutgoing(ctx context.Context, userID primitive.ObjectID, status models.RequestStatus) ([]*models.Request, error)
	// TransitionFromPending atomically moves a PENDING request to the target
	// status and returns the updated document. ErrStatusConflict is returned
	// when the request exists but is no longer PENDING.
	TransitionFromPending(ctx context.Context, id primitive.ObjectID, to models.RequestStatus) (*models.Request, error)
}

// MentorEmailTemplateDataSource defines per-mentor template overrides.
type MentorEmailTemplateDataSource interface {
	Find(ctx context.Context, mentorID primitive.ObjectID, templateID string) (*models.MentorEmailTemplate, error)
	Upsert(ctx context.Context, mentorID primitive.ObjectID, templateID, content string) error
}

// GlobalEmailTemplateDataSource defines admin-managed template overrides.
type GlobalEmailTemplateDataSource interface {
	Find(ctx context.Context, templateID string) (*models.GlobalEmailTemplate, error)
	Upsert(ctx context.Context, templateID, content string) error
}

// StoryDataSource defines the singleton dashboard story document.
type StoryDataSource interface {
	Get(ctx context.Context) (*models.StorySet, error)
	Replace(ctx context.Context, items []models.Story) (*models.StorySet, error)
}
