package models

import "time"

// Story is one card on the dashboard carousel.
type Story struct {
	Title       string `bson:"title" json:"title" binding:"required"`
	Image       string `bson:"image" json:"image" binding:"required"`
	Description string `bson:"description" json:"description" binding:"required"`
	Link        string `bson:"link" json:"link"`
}

// StorySet is the singleton stories document.
type StorySet struct {
	ID        string    `bson:"_id" json:"-"`
	Items     []Story   `bson:"items" json:"items"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// StoryCount is the fixed number of dashboard stories.
const StoryCount = 4

// DefaultStories is served whenever no stories document has been saved.
func DefaultStories() []Story {
	return []Story{
		{
			Title:       "The Big Boy on The Sofa",
			Image:       "/assets/yooo.jpeg",
			Description: "A new wave of capstone leaders are forming circles across the community. Review mentor profiles and step into a team that matches your momentum.",
			Link:        "/mentors",
		},
		{
			Title:       "Mentor Dispatch",
			Image:       "/assets/nya_logo_nobg.png",
			Description: "Freshly approved prefects are now live. Scan their focus areas and align with collaborators for the next sprint.",
			Link:        "/mentor/dashboard",
		},
		{
			Title:       "Project Pulse",
			Image:       "/assets/nya_logo_nobg.png",
			Description: "Teams are assembling across product, AI, and design. Capture the brief, map your skill stack, and claim your seat.",
			Link:        "/dashboard",
		},
		{
			Title:       "Studio Open Calls",
			Image:       "/assets/nya_logo_nobg.png",
			Description: "Shortlist hackathons, check deadlines, and commit to the build cycle that fits your timeline.",
			Link:        "/hackathons",
		},
	}
}

// NormalizeStories pads or trims a story list to exactly StoryCount entries,
// filling gaps from the defaults and defaulting empty links to /mentors.
func NormalizeStories(items []Story) []Story {
	if len(items) == 0 {
		return DefaultStories()
	}
	normalized := make([]Story, 0, StoryCount)
	normalized = append(normalized, items...)
	if len(normalized) > StoryCount {
		normalized = normalized[:StoryCount]
	}
	for _, d := range DefaultStories() {
		if len(normalized) >= StoryCount {
			break
		}
		normalized = append(normalized, d)
	}
	for i := range normalized {
		if normalized[i].Link == "" {
			normalized[i].Link = "/mentors"
		}
	}
	return normalized
}
