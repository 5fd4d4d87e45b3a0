package services_test

import (
	"context"
	"net/http"
	"sync"

	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/pkg/googleauth"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserRepository is a mock implementation of repository.UserDataSource
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) TouchLogin(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) error {
	args := m.Called(ctx, id, blocked)
	return args.Error(0)
}

func (m *MockUserRepository) SetAvatarURL(ctx context.Context, id primitive.ObjectID, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) FindAdmins(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) FindIDsByName(ctx context.Context, search string) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]*models.User), args.Error(1)
}

// MockCapstoneProfileRepository is a mock implementation of repository.CapstoneProfileDataSource
type MockCapstoneProfileRepository struct {
	mock.Mock
}

func (m *MockCapstoneProfileRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.CapstoneProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CapstoneProfile), args.Error(1)
}

func (m *MockCapstoneProfileRepository) Upsert(ctx context.Context, profile *models.CapstoneProfile) (*models.CapstoneProfile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CapstoneProfile), args.Error(1)
}

func (m *MockCapstoneProfileRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCapstoneProfileRepository) FindPage(ctx context.Context, filter models.DiscoveryQuery, excludeUserID primitive.ObjectID, limit int) ([]*models.CapstoneProfile, error) {
	args := m.Called(ctx, filter, excludeUserID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CapstoneProfile), args.Error(1)
}

func (m *MockCapstoneProfileRepository) FindBySkills(ctx context.Context, skills []string, filter models.DiscoveryQuery, excludeUserID primitive.ObjectID, limit int) ([]*models.CapstoneProfile, error) {
	args := m.Called(ctx, skills, filter, excludeUserID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CapstoneProfile), args.Error(1)
}

func (m *MockCapstoneProfileRepository) FindByUserIDs(ctx context.Context, userIDs []primitive.ObjectID, filter models.DiscoveryQuery, excludeUserID primitive.ObjectID, limit int) ([]*models.CapstoneProfile, error) {
	args := m.Called(ctx, userIDs, filter, excludeUserID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CapstoneProfile), args.Error(1)
}

func (m *MockCapstoneProfileRepository) Sample(ctx context.Context, excludeUserID primitive.ObjectID, size int) ([]*models.CapstoneProfile, error) {
	args := m.Called(ctx, excludeUserID, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CapstoneProfile), args.Error(1)
}

// MockMentorProfileRepository is a mock implementation of repository.MentorProfileDataSource
type MockMentorProfileRepository struct {
	mock.Mock
}

func (m *MockMentorProfileRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.MentorProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentorProfile), args.Error(1)
}

func (m *MockMentorProfileRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.MentorProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentorProfile), args.Error(1)
}

func (m *MockMentorProfileRepository) Upsert(ctx context.Context, profile *models.MentorProfile) (*models.MentorProfile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentorProfile), args.Error(1)
}

func (m *MockMentorProfileRepository) ListByApproval(ctx context.Context, approved bool) ([]*models.MentorProfile, error) {
	args := m.Called(ctx, approved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MentorProfile), args.Error(1)
}

func (m *MockMentorProfileRepository) SearchApproved(ctx context.Context, domain, search string, userIDs []primitive.ObjectID) ([]*models.MentorProfile, error) {
	args := m.Called(ctx, domain, search, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MentorProfile), args.Error(1)
}

func (m *MockMentorProfileRepository) SetApproval(ctx context.Context, id primitive.ObjectID, approved bool) (*models.MentorProfile, error) {
	args := m.Called(ctx, id, approved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentorProfile), args.Error(1)
}

// MockRequestRepository is a mock implementation of repository.RequestDataSource
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, req *models.Request) (*models.Request, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRequestRepository) FindPendingBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Request, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRequestRepository) CountAcceptedCapstone(ctx context.Context, userID primitive.ObjectID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockRequestRepository) ListIncoming(ctx context.Context, userID primitive.ObjectID, status models.RequestStatus) ([]*models.Request, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Request), args.Error(1)
}

func (m *MockRequestRepository) ListOutgoing(ctx context.Context, userID primitive.ObjectID, status models.RequestStatus) ([]*models.Request, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Request), args.Error(1)
}

func (m *MockRequestRepository) TransitionFromPending(ctx context.Context, id primitive.ObjectID, to models.RequestStatus) (*models.Request, error) {
	args := m.Called(ctx, id, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

// MockMentorTemplateRepository is a mock implementation of repository.MentorEmailTemplateDataSource
type MockMentorTemplateRepository struct {
	mock.Mock
}

func (m *MockMentorTemplateRepository) Find(ctx context.Context, mentorID primitive.ObjectID, templateID string) (*models.MentorEmailTemplate, error) {
	args := m.Called(ctx, mentorID, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentorEmailTemplate), args.Error(1)
}

func (m *MockMentorTemplateRepository) Upsert(ctx context.Context, mentorID primitive.ObjectID, templateID, content string) error {
	args := m.Called(ctx, mentorID, templateID, content)
	return args.Error(0)
}

// MockGlobalTemplateRepository is a mock implementation of repository.GlobalEmailTemplateDataSource
type MockGlobalTemplateRepository struct {
	mock.Mock
}

func (m *MockGlobalTemplateRepository) Find(ctx context.Context, templateID string) (*models.GlobalEmailTemplate, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GlobalEmailTemplate), args.Error(1)
}

func (m *MockGlobalTemplateRepository) Upsert(ctx context.Context, templateID, content string) error {
	args := m.Called(ctx, templateID, content)
	return args.Error(0)
}

// MockStoryRepository is a mock implementation of repository.StoryDataSource
type MockStoryRepository struct {
	mock.Mock
}

func (m *MockStoryRepository) Get(ctx context.Context) (*models.StorySet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StorySet), args.Error(1)
}

func (m *MockStoryRepository) Replace(ctx context.Context, items []models.Story) (*models.StorySet, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StorySet), args.Error(1)
}

// MockVerifier is a mock implementation of googleauth.Verifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, rawToken string) (*googleauth.Identity, error) {
	args := m.Called(ctx, rawToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*googleauth.Identity), args.Error(1)
}

// MockHTTPClient is a mock implementation of httpclient.Client
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

// MockImageStore is a mock implementation of services.ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) UploadImage(ctx context.Context, imageData, key, contentType string) (string, error) {
	args := m.Called(ctx, imageData, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) ValidateImageType(contentType string) error {
	args := m.Called(contentType)
	return args.Error(0)
}

func (m *MockImageStore) ValidateImageSize(imageData string) error {
	args := m.Called(imageData)
	return args.Error(0)
}

// MockMailer is a mock implementation of services.MailSender
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMailer) Send(to, subject, htmlBody string) error {
	args := m.Called(to, subject, htmlBody)
	return args.Error(0)
}

// stubNotifier counts dispatches so tests can assert that the fast paths
// never trigger emails. Safe across the goroutines services spawn.
type stubNotifier struct {
	mu                  sync.Mutex
	requestCreated      int
	requestAccepted     int
	mentorCreated       int
	mentorAccepted      int
	applicationCreated  int
	applicationApproved int
}

func (n *stubNotifier) RequestCreated(ctx context.Context, from, to *models.User, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requestCreated++
}

func (n *stubNotifier) RequestAccepted(ctx context.Context, req *models.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requestAccepted++
}

func (n *stubNotifier) MentorRequestCreated(ctx context.Context, from, to *models.User, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mentorCreated++
}

func (n *stubNotifier) MentorRequestAccepted(ctx context.Context, req *models.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mentorAccepted++
}

func (n *stubNotifier) MentorApplicationCreated(ctx context.Context, applicant *models.User, profile *models.MentorProfile) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.applicationCreated++
}

func (n *stubNotifier) MentorApplicationApproved(ctx context.Context, user *models.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.applicationApproved++
}

func (n *stubNotifier) counts() (int, int, int, int, int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.requestCreated, n.requestAccepted, n.mentorCreated, n.mentorAccepted, n.applicationCreated, n.applicationApproved
}
