package services

import (
	"context"

	"github.com/nyahub/nya-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthServiceInterface defines the interface for authentication operations
type AuthServiceInterface interface {
	LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error)
	DevLogin(ctx context.Context, email, name string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
}

// UserServiceInterface defines the interface for user and onboarding operations
type UserServiceInterface interface {
	OnboardingStatus(ctx context.Context, user *models.User) (*models.OnboardingStatus, error)
	SelectRole(ctx context.Context, user *models.User, role models.Role) (*models.OnboardingStatus, error)
	UploadAvatar(ctx context.Context, user *models.User, imageData, contentType string) (string, error)
}

// ProfileServiceInterface defines the interface for capstone profile operations
type ProfileServiceInterface interface {
	GetMyProfile(ctx context.Context, userID primitive.ObjectID) (*models.CapstoneProfile, error)
	UpsertMyProfile(ctx context.Context, userID primitive.ObjectID, req *models.ProfileUpsertRequest) (*models.CapstoneProfile, error)
	GetPublicProfile(ctx context.Context, rawUserID string) (*models.PublicProfile, error)
}

// MentorServiceInterface defines the interface for the public mentor directory
type MentorServiceInterface interface {
	ListMentors(ctx context.Context, domain, search string) ([]models.MentorListing, error)
	GetMentor(ctx context.Context, rawID string) (*models.MentorListing, error)
}

// MentorProfileServiceInterface defines the interface for mentor profile management
type MentorProfileServiceInterface interface {
	GetMyProfile(ctx context.Context, userID primitive.ObjectID) (*models.MentorProfile, error)
	UpsertMyProfile(ctx context.Context, user *models.User, req *models.MentorUpsertRequest) (*models.MentorProfile, error)
	ListPending(ctx context.Context) ([]models.PendingMentor, error)
	Approve(ctx context.Context, rawProfileID string) error
	Reject(ctx context.Context, rawProfileID string) error
}

// DiscoveryServiceInterface defines the interface for discovery and recommendations
type DiscoveryServiceInterface interface {
	DiscoverUsers(ctx context.Context, currentUserID primitive.ObjectID, query models.DiscoveryQuery) ([]models.DiscoveryResult, error)
	RecommendedUsers(ctx context.Context, currentUserID primitive.ObjectID, limit int) ([]models.DiscoveryResult, error)
}

// RequestServiceInterface defines the interface for the request lifecycle
type RequestServiceInterface interface {
	CreateRequest(ctx context.Context, from *models.User, payload *models.RequestCreate) (*models.RequestSummary, error)
	ListIncoming(ctx context.Context, userID primitive.ObjectID) ([]models.RequestListItem, error)
	ListOutgoing(ctx context.Context, userID primitive.ObjectID) ([]models.RequestListItem, error)
	AcceptRequest(ctx context.Context, rawRequestID string, recipientID primitive.ObjectID) (*models.RequestSummary, error)
	RejectRequest(ctx context.Context, rawRequestID string, recipientID primitive.ObjectID) (*models.RequestSummary, error)
}

// AdminUserServiceInterface defines the interface for account moderation
type AdminUserServiceInterface interface {
	ListUsers(ctx context.Context) ([]models.AdminUserView, error)
	UpdateUser(ctx context.Context, rawUserID, action string) error
}

// StoryServiceInterface defines the interface for the dashboard stories
type StoryServiceInterface interface {
	ListStories(ctx context.Context) (*models.StorySet, error)
	UpdateStories(ctx context.Context, items []models.Story) (*models.StorySet, error)
}

// IdeaServiceInterface defines the interface for idea generation
type IdeaServiceInterface interface {
	GenerateCapstoneIdea(ctx context.Context, req *models.IdeaRequest) (string, error)
}

// MentorEmailTemplateServiceInterface defines per-mentor template management
type MentorEmailTemplateServiceInterface interface {
	ListTemplates() []models.EmailTemplateInfo
	GetTemplate(ctx context.Context, mentorID primitive.ObjectID, templateID string) (*models.EmailTemplate, error)
	UpdateTemplate(ctx context.Context, mentorID primitive.ObjectID, templateID, content string) error
	RenderPreview(ctx context.Context, mentorID primitive.ObjectID, templateID string, content *string) (string, error)
	RenderWithContext(ctx context.Context, mentorID primitive.ObjectID, templateID string, context map[string]string) (string, error)
}

// GlobalEmailTemplateServiceInterface defines admin template management
type GlobalEmailTemplateServiceInterface interface {
	ListTemplates() []models.EmailTemplateInfo
	GetTemplate(ctx context.Context, templateID string) (*models.EmailTemplate, error)
	UpdateTemplate(ctx context.Context, templateID, content string) error
	RenderPreview(ctx context.Context, templateID string, content *string) (string, error)
	RenderWithContext(ctx context.Context, templateID string, context map[string]string) (string, error)
}

// NotificationDispatcher is the best-effort email fan-out used by the
// request and mentor services. Implementations must never return errors
// to the caller's request path.
type NotificationDispatcher interface {
	RequestCreated(ctx context.Context, from, to *models.User, message string)
	RequestAccepted(ctx context.Context, req *models.Request)
	MentorRequestCreated(ctx context.Context, from, to *models.User, message string)
	MentorRequestAccepted(ctx context.Context, req *models.Request)
	MentorApplicationCreated(ctx context.Context, applicant *models.User, profile *models.MentorProfile)
	MentorApplicationApproved(ctx context.Context, user *models.User)
}

// Ensure services implement their interfaces
var _ AuthServiceInterface = (*AuthService)(nil)
var _ UserServiceInterface = (*UserService)(nil)
var _ ProfileServiceInterface = (*ProfileService)(nil)
var _ MentorServiceInterface = (*MentorService)(nil)
var _ MentorProfileServiceInterface = (*MentorProfileService)(nil)
var _ DiscoveryServiceInterface = (*DiscoveryService)(nil)
var _ RequestServiceInterface = (*RequestService)(nil)
var _ AdminUserServiceInterface = (*AdminUserService)(nil)
var _ StoryServiceInterface = (*StoryService)(nil)
var _ IdeaServiceInterface = (*IdeaService)(nil)
var _ MentorEmailTemplateServiceInterface = (*MentorEmailTemplateService)(nil)
var _ GlobalEmailTemplateServiceInterface = (*GlobalEmailTemplateService)(nil)
var _ NotificationDispatcher = (*EmailNotifier)(nil)
