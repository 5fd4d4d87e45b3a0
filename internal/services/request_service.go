package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/repository"
	"github.com/nyahub/nya-api/pkg/apperror"
	"github.com/nyahub/nya-api/pkg/logger"
	"github.com/nyahub/nya-api/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	errRequestNotFound = apperror.NotFound("request_not_found", "Request not found")
	errInvalidStatus   = apperror.BadRequest("invalid_status", "Request is not pending")
)

// RequestService implements the connection request lifecycle.
type RequestService struct {
	requests repository.RequestDataSource
	users    repository.UserDataSource
	mentors  repository.MentorProfileDataSource
	notifier NotificationDispatcher
}

// NewRequestService creates a new request service.
func NewRequestService(
	requests repository.RequestDataSource,
	users repository.UserDataSource,
	mentors repository.MentorProfileDataSource,
	notifier NotificationDispatcher,
) *RequestService {
	return &RequestService{
		requests: requests,
		users:    users,
		mentors:  mentors,
		notifier: notifier,
	}
}

// CreateRequest sends a new PENDING request. Only one pending request may
// exist per user pair, regardless of type or direction.
func (s *RequestService) CreateRequest(ctx context.Context, from *models.User, payload *models.RequestCreate) (*models.RequestSummary, error) {
	toUserID, err := primitive.ObjectIDFromHex(payload.ToUserID)
	if err != nil {
		return nil, apperror.BadRequest("invalid_user_id", "Invalid user id")
	}
	if toUserID == from.ID {
		return nil, apperror.BadRequest("self_request", "Users cannot message themselves")
	}

	toUser, err := s.users.FindByID(ctx, toUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("user_not_found", "User not found")
		}
		return nil, fmt.Errorf("failed to load recipient: %w", err)
	}

	reqType := models.RequestType(payload.Type)
	if reqType == models.RequestTypeMentorship {
		profile, err := s.mentors.FindByUserID(ctx, toUserID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load mentor profile: %w", err)
		}
		if profile == nil || !profile.ApprovedByAdmin {
			return nil, apperror.BadRequest("mentor_not_available", "Mentor is not available")
		}
	}

	if _, err := s.requests.FindPendingBetween(ctx, from.ID, toUserID); err == nil {
		return nil, apperror.Conflict("request_exists", "An active request already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}

	created, err := s.requests.Create(ctx, &models.Request{
		FromUserID: from.ID,
		ToUserID:   toUserID,
		Type:       reqType,
		Message:    payload.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	metrics.RequestsCreated.WithLabelValues(string(reqType)).Inc()

	if reqType == models.RequestTypeMentorship {
		go s.notifier.MentorRequestCreated(context.Background(), from, toUser, payload.Message)
	} else {
		go s.notifier.RequestCreated(context.Background(), from, toUser, payload.Message)
	}

	logger.Info("Connection request created",
		zap.String("request_id", created.ID.Hex()),
		zap.String("type", string(reqType)))
	summary := created.ToSummary()
	return &summary, nil
}

// ListIncoming returns requests addressed to the user, newest first.
func (s *RequestService) ListIncoming(ctx context.Context, userID primitive.ObjectID) ([]models.RequestListItem, error) {
	requests, err := s.requests.ListIncoming(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list incoming requests: %w", err)
	}
	return s.decorate(ctx, requests, true)
}

// ListOutgoing returns requests sent by the user, newest first.
func (s *RequestService) ListOutgoing(ctx context.Context, userID primitive.ObjectID) ([]models.RequestListItem, error) {
	requests, err := s.requests.ListOutgoing(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list outgoing requests: %w", err)
	}
	return s.decorate(ctx, requests, false)
}

// AcceptRequest moves a pending request to ACCEPTED. Re-accepting an
// accepted request returns it unchanged with no side effects. CAPSTONE
// acceptance enforces the team cap on both endpoints.
func (s *RequestService) AcceptRequest(ctx context.Context, rawRequestID string, recipientID primitive.ObjectID) (*models.RequestSummary, error) {
	request, err := s.forRecipient(ctx, rawRequestID, recipientID)
	if err != nil {
		return nil, err
	}

	if request.Status == models.RequestStatusAccepted {
		summary := request.ToSummary()
		return &summary, nil
	}
	if request.Status != models.RequestStatusPending {
		return nil, errInvalidStatus
	}

	if request.Type == models.RequestTypeCapstone {
		if err := s.ensureTeamCapacity(ctx, request, recipientID); err != nil {
			return nil, err
		}
	}

	updated, err := s.transition(ctx, request.ID, models.RequestStatusAccepted)
	if err != nil {
		return nil, err
	}
	metrics.RequestTransitions.WithLabelValues(string(updated.Type), string(models.RequestStatusAccepted)).Inc()

	if updated.Type == models.RequestTypeMentorship {
		go s.notifier.MentorRequestAccepted(context.Background(), updated)
	} else {
		go s.notifier.RequestAccepted(context.Background(), updated)
	}

	summary := updated.ToSummary()
	return &summary, nil
}

// RejectRequest moves a pending request to REJECTED. Idempotent on an
// already rejected request; no email is sent.
func (s *RequestService) RejectRequest(ctx context.Context, rawRequestID string, recipientID primitive.ObjectID) (*models.RequestSummary, error) {
	request, err := s.forRecipient(ctx, rawRequestID, recipientID)
	if err != nil {
		return nil, err
	}

	if request.Status == models.RequestStatusRejected {
		summary := request.ToSummary()
		return &summary, nil
	}
	if request.Status != models.RequestStatusPending {
		return nil, errInvalidStatus
	}

	updated, err := s.transition(ctx, request.ID, models.RequestStatusRejected)
	if err != nil {
		return nil, err
	}
	metrics.RequestTransitions.WithLabelValues(string(updated.Type), string(models.RequestStatusRejected)).Inc()

	summary := updated.ToSummary()
	return &summary, nil
}

func (s *RequestService) forRecipient(ctx context.Context, rawRequestID string, recipientID primitive.ObjectID) (*models.Request, error) {
	requestID, err := primitive.ObjectIDFromHex(rawRequestID)
	if err != nil {
		return nil, apperror.BadRequest("invalid_request_id", "Invalid request id")
	}
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errRequestNotFound
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	if request.ToUserID != recipientID {
		return nil, errRequestNotFound
	}
	return request, nil
}

// transition applies the conditional status update. When a concurrent
// caller won the race, the stored terminal state decides the outcome.
func (s *RequestService) transition(ctx context.Context, requestID primitive.ObjectID, to models.RequestStatus) (*models.Request, error) {
	updated, err := s.requests.TransitionFromPending(ctx, requestID, to)
	if err == nil {
		return updated, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errRequestNotFound
	}
	if errors.Is(err, repository.ErrStatusConflict) {
		current, findErr := s.requests.FindByID(ctx, requestID)
		if findErr == nil && current.Status == to {
			return current, nil
		}
		return nil, errInvalidStatus
	}
	return nil, fmt.Errorf("failed to transition request: %w", err)
}

func (s *RequestService) ensureTeamCapacity(ctx context.Context, request *models.Request, recipientID primitive.ObjectID) error {
	recipientCount, err := s.requests.CountAcceptedCapstone(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("failed to count team connections: %w", err)
	}
	if recipientCount >= models.TeamCapacity {
		return apperror.BadRequest("team_full", "Your team already has 5 members")
	}

	senderCount, err := s.requests.CountAcceptedCapstone(ctx, request.FromUserID)
	if err != nil {
		return fmt.Errorf("failed to count team connections: %w", err)
	}
	if senderCount >= models.TeamCapacity {
		return apperror.BadRequest("team_full", "This member already has a full team")
	}
	return nil
}

func (s *RequestService) decorate(ctx context.Context, requests []*models.Request, incoming bool) ([]models.RequestListItem, error) {
	ids := make([]primitive.ObjectID, 0, len(requests))
	for _, request := range requests {
		if incoming {
			ids = append(ids, request.FromUserID)
		} else {
			ids = append(ids, request.ToUserID)
		}
	}
	counterparts, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load counterparts: %w", err)
	}

	items := make([]models.RequestListItem, 0, len(requests))
	for _, request := range requests {
		counterpartID := request.FromUserID
		if !incoming {
			counterpartID = request.ToUserID
		}
		counterpart, ok := counterparts[counterpartID]
		if !ok {
			continue
		}
		item := models.RequestListItem{
			RequestSummary:  request.ToSummary(),
			CounterpartName: counterpart.Name,
			CounterpartRole: counterpart.Role,
		}
		// Contact details stay hidden until both sides agree.
		if request.Status == models.RequestStatusAccepted {
			item.CounterpartEmail = counterpart.Email
		}
		items = append(items, item)
	}
	return items, nil
}
