package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser   Role = "USER"
	RoleMentor Role = "MENTOR"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole validates a raw role string against the closed role set.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleUser, RoleMentor, RoleAdmin:
		return Role(raw), true
	default:
		return "", false
	}
}

// IsValid reports whether the role belongs to the closed role set.
func (r Role) IsValid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// User represents an account document in the users collection.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Role         Role               `bson:"role" json:"role"`
	RoleSelected bool               `bson:"role_selected,omitempty" json:"role_selected"`
	Blocked      bool               `bson:"blocked,omitempty" json:"blocked"`
	AvatarURL    string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	LastLogin    time.Time          `bson:"last_login" json:"last_login"`
}

// PublicUser is the user shape returned to authenticated callers.
type PublicUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ToPublic converts a User document to its API representation.
func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
	}
}

// AdminUserView is the row shape for the admin user listing.
type AdminUserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Blocked   bool      `json:"blocked"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

// OnboardingStatus describes how far an account has progressed through onboarding.
type OnboardingStatus struct {
	Role           Role `json:"role"`
	RoleSelected   bool `json:"role_selected"`
	HasProfile     bool `json:"has_profile"`
	MentorApproved bool `json:"mentor_approved"`
}
