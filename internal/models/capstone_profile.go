package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LookingFor is what a capstone profile owner is searching for.
type LookingFor string

const (
	LookingForTeam   LookingFor = "TEAM"
	LookingForMember LookingFor = "MEMBER"
)

// IsValid reports whether the value is one of TEAM or MEMBER.
func (l LookingFor) IsValid() bool {
	return l == LookingForTeam || l == LookingForMember
}

// CapstoneProfile is the one-to-one capstone profile for a USER-role account.
type CapstoneProfile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	Skills         []string           `bson:"skills" json:"skills"`
	RequiredSkills []string           `bson:"required_skills" json:"required_skills"`
	Links          []string           `bson:"links" json:"links"`
	LookingFor     LookingFor         `bson:"looking_for" json:"looking_for"`
	MentorAssigned bool               `bson:"mentor_assigned" json:"mentor_assigned"`
	Bio            string             `bson:"bio" json:"bio"`
	Availability   string             `bson:"availability" json:"availability"`
}

// IsComplete reports whether the profile satisfies the onboarding completeness
// rules: skills, required_skills, links, bio and availability all non-empty
// after trimming, and looking_for one of TEAM or MEMBER.
func (p *CapstoneProfile) IsComplete() bool {
	if p == nil {
		return false
	}
	if !hasNonEmpty(p.Skills) || !hasNonEmpty(p.RequiredSkills) || !hasNonEmpty(p.Links) {
		return false
	}
	if strings.TrimSpace(p.Bio) == "" || strings.TrimSpace(p.Availability) == "" {
		return false
	}
	return p.LookingFor.IsValid()
}

func hasNonEmpty(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// TeamStatus is derived from the number of accepted capstone connections.
type TeamStatus string

const (
	TeamStatusAvailable TeamStatus = "AVAILABLE"
	TeamStatusInTeam    TeamStatus = "IN_TEAM"
	TeamStatusBooked    TeamStatus = "BOOKED"
)

// TeamCapacity is the maximum simultaneous accepted capstone connections per user.
const TeamCapacity = 5

// TeamStatusForCount maps an accepted capstone connection count to a status.
func TeamStatusForCount(count int) TeamStatus {
	switch {
	case count == 0:
		return TeamStatusAvailable
	case count >= TeamCapacity:
		return TeamStatusBooked
	default:
		return TeamStatusInTeam
	}
}
