package models

// GoogleLoginRequest carries the Google ID token from the frontend.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// DevLoginRequest is the development-only password-less login payload.
type DevLoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// AuthResponse wraps the session user returned by login and refresh.
type AuthResponse struct {
	User PublicUser `json:"user"`
}

// RoleSelectRequest picks USER or MENTOR during onboarding.
type RoleSelectRequest struct {
	Role string `json:"role" binding:"required,oneof=USER MENTOR"`
}

// ProfileUpsertRequest replaces the caller's capstone profile wholesale.
type ProfileUpsertRequest struct {
	Skills         []string `json:"skills"`
	RequiredSkills []string `json:"required_skills"`
	Links          []string `json:"links"`
	LookingFor     string   `json:"looking_for" binding:"required,oneof=TEAM MEMBER"`
	Bio            string   `json:"bio" binding:"max=1000"`
	Availability   string   `json:"availability"`
}

// MentorUpsertRequest replaces the caller's mentor profile wholesale.
type MentorUpsertRequest struct {
	Domain          string   `json:"domain" binding:"required"`
	ExperienceYears int      `json:"experience_years" binding:"gte=0,lte=60"`
	Expertise       []string `json:"expertise"`
	Links           []string `json:"links"`
	Bio             string   `json:"bio" binding:"max=1000"`
	Availability    string   `json:"availability"`
}

// PublicProfile is the profile shape returned for any user id.
type PublicProfile struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Name           string     `json:"name"`
	Role           Role       `json:"role"`
	Skills         []string   `json:"skills"`
	LookingFor     LookingFor `json:"looking_for"`
	MentorAssigned bool       `json:"mentor_assigned"`
	Bio            string     `json:"bio"`
	Availability   string     `json:"availability"`
}

// RequestCreate is the payload for a new connection request.
type RequestCreate struct {
	ToUserID string `json:"to_user_id" binding:"required"`
	Type     string `json:"type" binding:"required,oneof=CAPSTONE MENTORSHIP"`
	Message  string `json:"message" binding:"required,max=1000"`
}

// AdminUserUpdate selects a moderation action for one user.
type AdminUserUpdate struct {
	Action string `json:"action" binding:"required"`
}

// PendingMentor is one row in the admin moderation queue.
type PendingMentor struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Domain          string   `json:"domain"`
	ExperienceYears int      `json:"experience_years"`
	Expertise       []string `json:"expertise"`
	Links           []string `json:"links"`
	Bio             string   `json:"bio"`
	Availability    string   `json:"availability"`
}

// StoryUpdateRequest replaces the dashboard story set.
type StoryUpdateRequest struct {
	Items []Story `json:"items" binding:"required,dive"`
}

// EmailTemplateUpdate replaces a template's content.
type EmailTemplateUpdate struct {
	Content string `json:"content" binding:"required"`
}

// EmailTemplatePreviewRequest optionally carries unsaved content to preview.
type EmailTemplatePreviewRequest struct {
	Content *string `json:"content"`
}

// EmailTemplatePreview is a rendered template preview.
type EmailTemplatePreview struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

// AvatarUploadRequest carries a base64 avatar image.
type AvatarUploadRequest struct {
	ImageData   string `json:"image_data" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// IdeaRequest is the capstone idea generation payload.
type IdeaRequest struct {
	Field string `json:"field" binding:"required"`
	Focus string `json:"focus" binding:"required"`
	Notes string `json:"notes"`
}

// IdeaResponse carries the normalized generated idea text.
type IdeaResponse struct {
	Idea string `json:"idea"`
}

// PublicConfig is the unauthenticated frontend bootstrap config.
type PublicConfig struct {
	GoogleClientID string `json:"google_client_id"`
}
