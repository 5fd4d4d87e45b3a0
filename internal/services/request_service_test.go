package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/repository"
	"github.com/nyahub/nya-api/internal/services"
	"github.com/nyahub/nya-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newRequestService() (*services.RequestService, *MockRequestRepository, *MockUserRepository, *MockMentorProfileRepository, *stubNotifier) {
	requests := new(MockRequestRepository)
	users := new(MockUserRepository)
	mentors := new(MockMentorProfileRepository)
	notifier := &stubNotifier{}
	return services.NewRequestService(requests, users, mentors, notifier), requests, users, mentors, notifier
}

func TestRequestService_CreateRequest(t *testing.T) {
	service, requests, users, _, _ := newRequestService()
	ctx := context.Background()

	from := &models.User{ID: primitive.NewObjectID(), Name: "Aarav", Role: models.RoleUser}
	to := &models.User{ID: primitive.NewObjectID(), Name: "Riya", Role: models.RoleUser}

	users.On("FindByID", ctx, to.ID).Return(to, nil).Once()
	requests.On("FindPendingBetween", ctx, from.ID, to.ID).
		Return(nil, repository.ErrNotFound).Once()
	requests.On("Create", ctx, mock.AnythingOfType("*models.Request")).
		Return(&models.Request{
			ID:         primitive.NewObjectID(),
			FromUserID: from.ID,
			ToUserID:   to.ID,
			Type:       models.RequestTypeCapstone,
			Message:    "join us",
			Status:     models.RequestStatusPending,
			CreatedAt:  time.Now(),
		}, nil).Once()

	summary, err := service.CreateRequest(ctx, from, &models.RequestCreate{
		ToUserID: to.ID.Hex(),
		Type:     "CAPSTONE",
		Message:  "join us",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, summary.Status)
	assert.Equal(t, from.ID.Hex(), summary.FromUserID)
	requests.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestRequestService_CreateRequest_Self(t *testing.T) {
	service, _, _, _, _ := newRequestService()

	from := &models.User{ID: primitive.NewObjectID()}
	_, err := service.CreateRequest(context.Background(), from, &models.RequestCreate{
		ToUserID: from.ID.Hex(),
		Type:     "CAPSTONE",
		Message:  "hi",
	})
	assert.True(t, apperror.IsCode(err, "self_request"))
}

func TestRequestService_CreateRequest_InvalidUserID(t *testing.T) {
	service, _, _, _, _ := newRequestService()

	from := &models.User{ID: primitive.NewObjectID()}
	_, err := service.CreateRequest(context.Background(), from, &models.RequestCreate{
		ToUserID: "not-an-id",
		Type:     "CAPSTONE",
		Message:  "hi",
	})
	assert.True(t, apperror.IsCode(err, "invalid_user_id"))
}

func TestRequestService_CreateRequest_DuplicatePending(t *testing.T) {
	service, requests, users, _, notifier := newRequestService()
	ctx := context.Background()

	from := &models.User{ID: primitive.NewObjectID()}
	to := &models.User{ID: primitive.NewObjectID()}

	// The stored pending request points the other way; it still blocks.
	users.On("FindByID", ctx, to.ID).Return(to, nil).Once()
	requests.On("FindPendingBetween", ctx, from.ID, to.ID).
		Return(&models.Request{
			FromUserID: to.ID,
			ToUserID:   from.ID,
			Type:       models.RequestTypeMentorship,
			Status:     models.RequestStatusPending,
		}, nil).Once()

	_, err := service.CreateRequest(ctx, from, &models.RequestCreate{
		ToUserID: to.ID.Hex(),
		Type:     "CAPSTONE",
		Message:  "hi",
	})
	assert.True(t, apperror.IsCode(err, "request_exists"))
	created, _, _, _, _, _ := notifier.counts()
	assert.Zero(t, created)
	requests.AssertExpectations(t)
}

func TestRequestService_CreateRequest_MentorNotAvailable(t *testing.T) {
	service, _, users, mentors, _ := newRequestService()
	ctx := context.Background()

	from := &models.User{ID: primitive.NewObjectID()}
	to := &models.User{ID: primitive.NewObjectID()}

	users.On("FindByID", ctx, to.ID).Return(to, nil).Once()
	mentors.On("FindByUserID", ctx, to.ID).
		Return(&models.MentorProfile{UserID: to.ID, ApprovedByAdmin: false}, nil).Once()

	_, err := service.CreateRequest(ctx, from, &models.RequestCreate{
		ToUserID: to.ID.Hex(),
		Type:     "MENTORSHIP",
		Message:  "guide me",
	})
	assert.True(t, apperror.IsCode(err, "mentor_not_available"))
	mentors.AssertExpectations(t)
}

func TestRequestService_AcceptRequest(t *testing.T) {
	service, requests, _, _, _ := newRequestService()
	ctx := context.Background()

	recipient := primitive.NewObjectID()
	sender := primitive.NewObjectID()
	requestID := primitive.NewObjectID()

	pending := &models.Request{
		ID:         requestID,
		FromUserID: sender,
		ToUserID:   recipient,
		Type:       models.RequestTypeCapstone,
		Status:     models.RequestStatusPending,
	}
	accepted := &models.Request{
		ID:         requestID,
		FromUserID: sender,
		ToUserID:   recipient,
		Type:       models.RequestTypeCapstone,
		Status:     models.RequestStatusAccepted,
	}

	requests.On("FindByID", ctx, requestID).Return(pending, nil).Once()
	requests.On("CountAcceptedCapstone", ctx, recipient).Return(2, nil).Once()
	requests.On("CountAcceptedCapstone", ctx, sender).Return(0, nil).Once()
	requests.On("TransitionFromPending", ctx, requestID, models.RequestStatusAccepted).
		Return(accepted, nil).Once()

	summary, err := service.AcceptRequest(ctx, requestID.Hex(), recipient)
	assert.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, summary.Status)
	requests.AssertExpectations(t)
}

func TestRequestService_AcceptRequest_Idempotent(t *testing.T) {
	service, requests, _, _, _ := newRequestService()
	ctx := context.Background()

	recipient := primitive.NewObjectID()
	requestID := primitive.NewObjectID()

	requests.On("FindByID", ctx, requestID).Return(&models.Request{
		ID:       requestID,
		ToUserID: recipient,
		Type:     models.RequestTypeCapstone,
		Status:   models.RequestStatusAccepted,
	}, nil).Once()

	summary, err := service.AcceptRequest(ctx, requestID.Hex(), recipient)
	assert.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, summary.Status)
	// No capacity check, no transition, no email on the repeat call.
	requests.AssertNotCalled(t, "TransitionFromPending", mock.Anything, mock.Anything, mock.Anything)
	requests.AssertNotCalled(t, "CountAcceptedCapstone", mock.Anything, mock.Anything)
}

func TestRequestService_AcceptRequest_Rejected(t *testing.T) {
	service, requests, _, _, _ := newRequestService()
	ctx := context.Background()

	recipient := primitive.NewObjectID()
	requestID := primitive.NewObjectID()

	requests.On("FindByID", ctx, requestID).Return(&models.Request{
		ID:       requestID,
		ToUserID: recipient,
		Status:   models.RequestStatusRejected,
	}, nil).Once()

	_, err := service.AcceptRequest(ctx, requestID.Hex(), recipient)
	assert.True(t, apperror.IsCode(err, "invalid_status"))
}

func TestRequestService_AcceptRequest_NotRecipient(t *testing.T) {
	service, requests, _, _, _ := newRequestService()
	ctx := context.Background()

	requestID := primitive.NewObjectID()
	requests.On("FindByID", ctx, requestID).Return(&models.Request{
		ID:       requestID,
		ToUserID: primitive.NewObjectID(),
		Status:   models.RequestStatusPending,
	}, nil).Once()

	_, err := service.AcceptRequest(ctx, requestID.Hex(), primitive.NewObjectID())
	assert.True(t, apperror.IsCode(err, "request_not_found"))
}

func TestRequestService_AcceptRequest_TeamFull(t *testing.T) {
	tests := []struct {
		name           string
		recipientCount int
		senderCount    int
	}{
		{"recipient at capacity", 5, 0},
		{"sender at capacity", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, requests, _, _, _ := newRequestService()
			ctx := context.Background()

			recipient := primitive.NewObjectID()
			sender := primitive.NewObjectID()
			requestID := primitive.NewObjectID()

			requests.On("FindByID", ctx, requestID).Return(&models.Request{
				ID:         requestID,
				FromUserID: sender,
				ToUserID:   recipient,
				Type:       models.RequestTypeCapstone,
				Status:     models.RequestStatusPending,
			}, nil).Once()
			requests.On("CountAcceptedCapstone", ctx, recipient).Return(tt.recipientCount, nil).Once()
			if tt.recipientCount < 5 {
				requests.On("CountAcceptedCapstone", ctx, sender).Return(tt.senderCount, nil).Once()
			}

			_, err := service.AcceptRequest(ctx, requestID.Hex(), recipient)
			assert.True(t, apperror.IsCode(err, "team_full"))
			requests.AssertNotCalled(t, "TransitionFromPending", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRequestService_AcceptRequest_MentorshipSkipsCapacity(t *testing.T) {
	service, requests, _, _, _ := newRequestService()
	ctx := context.Background()

	recipient := primitive.NewObjectID()
	requestID := primitive.NewObjectID()

	pending := &models.Request{
		ID:       requestID,
		ToUserID: recipient,
		Type:     models.RequestTypeMentorship,
		Status:   models.RequestStatusPending,
	}
	accepted := &models.Request{
		ID:       requestID,
		ToUserID: recipient,
		Type:     models.RequestTypeMentorship,
		Status:   models.RequestStatusAccepted,
	}

	requests.On("FindByID", ctx, requestID).Return(pending, nil).Once()
	requests.On("TransitionFromPending", ctx, requestID, models.RequestStatusAccepted).
		Return(accepted, nil).Once()

	_, err := service.AcceptRequest(ctx, requestID.Hex(), recipient)
	assert.NoError(t, err)
	requests.AssertNotCalled(t, "CountAcceptedCapstone", mock.Anything, mock.Anything)
}

func TestRequestService_AcceptRequest_LostRace(t *testing.T) {
	service, requests, _, _, _ := newRequestService()
	ctx := context.Background()

	recipient := primitive.NewObjectID()
	requestID := primitive.NewObjectID()

	pending := &models.Request{
		ID:       requestID,
		ToUserID: recipient,
		Type:     models.RequestTypeMentorship,
		Status:   models.RequestStatusPending,
	}

	// Another caller accepted between our read and the guarded update.
	requests.On("FindByID", ctx, requestID).Return(pending, nil).Once()
	requests.On("TransitionFromPending", ctx, requestID, models.RequestStatusAccepted).
		Return(nil, repository.ErrStatusConflict).Once()
	requests.On("FindByID", ctx, requestID).Return(&models.Request{
		ID:       requestID,
		ToUserID: recipient,
		Type:     models.RequestTypeMentorship,
		Status:   models.RequestStatusAccepted,
	}, nil).Once()

	summary, err := service.AcceptRequest(ctx, requestID.Hex(), recipient)
	assert.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, summary.Status)
}

func TestRequestService_RejectRequest_Idempotent(t *testing.T) {
	service, requests, _, _, _ := newRequestService()
	ctx := context.Background()

	recipient := primitive.NewObjectID()
	requestID := primitive.NewObjectID()

	requests.On("FindByID", ctx, requestID).Return(&models.Request{
		ID:       requestID,
		ToUserID: recipient,
		Status:   models.RequestStatusRejected,
	}, nil).Once()

	summary, err := service.RejectRequest(ctx, requestID.Hex(), recipient)
	assert.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, summary.Status)
	requests.AssertNotCalled(t, "TransitionFromPending", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestService_ListIncoming_HidesEmailUntilAccepted(t *testing.T) {
	service, requests, users, _, _ := newRequestService()
	ctx := context.Background()

	me := primitive.NewObjectID()
	peer := primitive.NewObjectID()

	stored := []*models.Request{
		{ID: primitive.NewObjectID(), FromUserID: peer, ToUserID: me, Type: models.RequestTypeCapstone, Status: models.RequestStatusAccepted},
		{ID: primitive.NewObjectID(), FromUserID: peer, ToUserID: me, Type: models.RequestTypeCapstone, Status: models.RequestStatusPending},
	}
	requests.On("ListIncoming", ctx, me, models.RequestStatus("")).Return(stored, nil).Once()
	users.On("FindByIDs", ctx, mock.Anything).Return(map[primitive.ObjectID]*models.User{
		peer: {ID: peer, Name: "Riya", Email: "riya@thapar.edu", Role: models.RoleUser},
	}, nil).Once()

	items, err := service.ListIncoming(ctx, me)
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "riya@thapar.edu", items[0].CounterpartEmail)
	assert.Empty(t, items[1].CounterpartEmail)
	assert.Equal(t, "Riya", items[1].CounterpartName)
}
