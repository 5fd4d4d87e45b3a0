package cache

import (
	"testing"

	"github.com/nyahub/nya-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMentorCache_SetGet(t *testing.T) {
	mc := NewMentorCache(60, false)

	assert.Nil(t, mc.Get())

	listings := []models.MentorListing{{ID: "a", Name: "Riya", Domain: "AI"}}
	mc.Set(listings)

	got := mc.Get()
	assert.Equal(t, listings, got)
}

func TestMentorCache_Invalidate(t *testing.T) {
	mc := NewMentorCache(60, false)
	mc.Set([]models.MentorListing{{ID: "a"}})

	mc.Invalidate()
	assert.Nil(t, mc.Get())
}

func TestMentorCache_Disabled(t *testing.T) {
	mc := NewMentorCache(60, true)
	mc.Set([]models.MentorListing{{ID: "a"}})
	assert.Nil(t, mc.Get())
}
