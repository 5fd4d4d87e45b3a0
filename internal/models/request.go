package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestType distinguishes team formation from mentorship proposals.
type RequestType string

const (
	RequestTypeCapstone   RequestType = "CAPSTONE"
	RequestTypeMentorship RequestType = "MENTORSHIP"
)

// IsValid reports whether the type is CAPSTONE or MENTORSHIP.
func (t RequestType) IsValid() bool {
	return t == RequestTypeCapstone || t == RequestTypeMentorship
}

// RequestStatus is the lifecycle state of a connection request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusAccepted RequestStatus = "ACCEPTED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// IsValid reports whether the status is a known lifecycle state.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status permits no further transitions.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusAccepted || s == RequestStatusRejected
}

// Request is a directed connection proposal between two users.
type Request struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FromUserID primitive.ObjectID `bson:"from_user_id" json:"from_user_id"`
	ToUserID   primitive.ObjectID `bson:"to_user_id" json:"to_user_id"`
	Type       RequestType        `bson:"type" json:"type"`
	Message    string             `bson:"message" json:"message"`
	Status     RequestStatus      `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// RequestSummary is the API shape of a request.
type RequestSummary struct {
	ID         string        `json:"id"`
	FromUserID string        `json:"from_user_id"`
	ToUserID   string        `json:"to_user_id"`
	Type       RequestType   `json:"type"`
	Message    string        `json:"message"`
	Status     RequestStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
}

// ToSummary converts a stored request into its API shape.
func (r *Request) ToSummary() RequestSummary {
	return RequestSummary{
		ID:         r.ID.Hex(),
		FromUserID: r.FromUserID.Hex(),
		ToUserID:   r.ToUserID.Hex(),
		Type:       r.Type,
		Message:    r.Message,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
}

// RequestListItem is a request decorated with the counterpart's display data.
type RequestListItem struct {
	RequestSummary
	CounterpartName  string `json:"counterpart_name"`
	CounterpartRole  Role   `json:"counterpart_role"`
	CounterpartEmail string `json:"counterpart_email,omitempty"`
}
