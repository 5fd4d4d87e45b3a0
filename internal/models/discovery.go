package models

// DiscoveryResult is one ranked candidate in discovery and recommendations.
type DiscoveryResult struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Skills     []string   `json:"skills"`
	LookingFor LookingFor `json:"looking_for"`
	TeamStatus TeamStatus `json:"team_status"`
	TeamCount  int        `json:"team_count"`
}

// DiscoveryQuery carries the discovery filter parameters.
type DiscoveryQuery struct {
	Skills         []string
	Search         string
	LookingFor     string
	MentorAssigned *bool
	Limit          int
	Page           int
}
