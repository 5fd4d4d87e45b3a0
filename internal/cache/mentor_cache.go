package cache

import (
	"time"

	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
)

const (
	listingsKey      = "mentors:approved"
	cacheCheckPeriod = 10 * time.Second
	cacheName        = "mentor_listings"
)

// MentorCache holds the approved mentor directory between rebuilds. Approval
// changes and profile rewrites invalidate it so moderation takes effect on
// the next read.
type MentorCache struct {
	cache    *gocache.Cache
	ttl      time.Duration
	disabled bool
}

// NewMentorCache creates a mentor listing cache with the given TTL in seconds.
func NewMentorCache(ttlSeconds int, disabled bool) *MentorCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &MentorCache{
		cache:    gocache.New(ttl, cacheCheckPeriod),
		ttl:      ttl,
		disabled: disabled,
	}
}

// Get returns the cached listing, or nil when absent or the cache is disabled.
func (mc *MentorCache) Get() []models.MentorListing {
	if mc.disabled {
		return nil
	}
	if cached, found := mc.cache.Get(listingsKey); found {
		metrics.CacheHits.WithLabelValues(cacheName).Inc()
		if listings, ok := cached.([]models.MentorListing); ok {
			return listings
		}
	}
	metrics.CacheMisses.WithLabelValues(cacheName).Inc()
	return nil
}

// Set stores the listing until the TTL expires.
func (mc *MentorCache) Set(listings []models.MentorListing) {
	if mc.disabled {
		return
	}
	mc.cache.Set(listingsKey, listings, mc.ttl)
}

// Invalidate drops the cached listing.
func (mc *MentorCache) Invalidate() {
	mc.cache.Delete(listingsKey)
}
