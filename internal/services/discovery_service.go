package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/repository"
	"github.com/nyahub/nya-api/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DiscoveryService ranks capstone profiles for team formation.
type DiscoveryService struct {
	profiles repository.CapstoneProfileDataSource
	users    repository.UserDataSource
	requests repository.RequestDataSource
}

// NewDiscoveryService creates a new discovery service.
func NewDiscoveryService(
	profiles repository.CapstoneProfileDataSource,
	users repository.UserDataSource,
	requests repository.RequestDataSource,
) *DiscoveryService {
	return &DiscoveryService{profiles: profiles, users: users, requests: requests}
}

// DiscoverUsers returns one page of candidates ranked by skill overlap.
// Free-text search matches names and doubles as extra skill terms. The
// caller and ADMIN accounts never appear.
func (s *DiscoveryService) DiscoverUsers(ctx context.Context, currentUserID primitive.ObjectID, query models.DiscoveryQuery) ([]models.DiscoveryResult, error) {
	terms := append([]string{}, query.Skills...)
	nameQuery := strings.TrimSpace(query.Search)
	if nameQuery != "" {
		terms = mergeTerms(terms, tokenize(nameQuery))
	}

	// Overfetch so that ranking and admin filtering still fill the page.
	fetchMultiplier := query.Page + 2
	if fetchMultiplier < 3 {
		fetchMultiplier = 3
	}
	fetchLimit := query.Limit * fetchMultiplier

	byUser := make(map[primitive.ObjectID]*models.CapstoneProfile)
	if len(terms) == 0 && nameQuery == "" {
		page, err := s.profiles.FindPage(ctx, query, currentUserID, fetchLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to browse profiles: %w", err)
		}
		for _, profile := range page {
			byUser[profile.UserID] = profile
		}
		metrics.DiscoverySearches.WithLabelValues("browse").Inc()
	} else {
		if nameQuery != "" {
			userIDs, err := s.users.FindIDsByName(ctx, nameQuery)
			if err != nil {
				return nil, fmt.Errorf("failed to search users by name: %w", err)
			}
			if len(userIDs) > 0 {
				matches, err := s.profiles.FindByUserIDs(ctx, userIDs, query, currentUserID, fetchLimit)
				if err != nil {
					return nil, fmt.Errorf("failed to load profiles by name: %w", err)
				}
				for _, profile := range matches {
					byUser[profile.UserID] = profile
				}
			}
		}
		if len(terms) > 0 {
			matches, err := s.profiles.FindBySkills(ctx, terms, query, currentUserID, fetchLimit)
			if err != nil {
				return nil, fmt.Errorf("failed to load profiles by skills: %w", err)
			}
			for _, profile := range matches {
				byUser[profile.UserID] = profile
			}
		}
		metrics.DiscoverySearches.WithLabelValues("search").Inc()
	}

	candidates := make([]*models.CapstoneProfile, 0, len(byUser))
	for _, profile := range byUser {
		candidates = append(candidates, profile)
	}
	rankBySkillMatch(candidates, terms)

	start := (query.Page - 1) * query.Limit
	if start >= len(candidates) {
		return []models.DiscoveryResult{}, nil
	}
	end := start + query.Limit
	if end > len(candidates) {
		end = len(candidates)
	}
	return s.decorate(ctx, candidates[start:end])
}

// RecommendedUsers ranks candidates against the caller's required skills,
// falling back to a random sample when none are set.
func (s *DiscoveryService) RecommendedUsers(ctx context.Context, currentUserID primitive.ObjectID, limit int) ([]models.DiscoveryResult, error) {
	own, err := s.profiles.FindByUserID(ctx, currentUserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load caller profile: %w", err)
	}

	var required []string
	if own != nil {
		required = own.RequiredSkills
	}

	var picks []*models.CapstoneProfile
	if len(required) > 0 {
		candidates, err := s.profiles.FindBySkills(ctx, required, models.DiscoveryQuery{}, currentUserID, limit*3)
		if err != nil {
			return nil, fmt.Errorf("failed to load recommendations: %w", err)
		}
		rankBySkillMatch(candidates, required)
		if len(candidates) > limit {
			candidates = candidates[:limit]
		}
		picks = candidates
	} else {
		picks, err = s.profiles.Sample(ctx, currentUserID, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to sample profiles: %w", err)
		}
	}

	metrics.DiscoverySearches.WithLabelValues("recommended").Inc()
	return s.decorate(ctx, picks)
}

// TeamStatus reports the accepted capstone connection count and the
// derived availability bucket for one user.
func (s *DiscoveryService) TeamStatus(ctx context.Context, userID primitive.ObjectID) (int, models.TeamStatus, error) {
	count, err := s.requests.CountAcceptedCapstone(ctx, userID)
	if err != nil {
		return 0, "", fmt.Errorf("failed to count team connections: %w", err)
	}
	return count, models.TeamStatusForCount(count), nil
}

func (s *DiscoveryService) decorate(ctx context.Context, profiles []*models.CapstoneProfile) ([]models.DiscoveryResult, error) {
	ids := make([]primitive.ObjectID, 0, len(profiles))
	for _, profile := range profiles {
		ids = append(ids, profile.UserID)
	}
	owners, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate accounts: %w", err)
	}

	results := make([]models.DiscoveryResult, 0, len(profiles))
	for _, profile := range profiles {
		owner, ok := owners[profile.UserID]
		if !ok || owner.Role == models.RoleAdmin {
			continue
		}
		count, status, err := s.TeamStatus(ctx, profile.UserID)
		if err != nil {
			return nil, err
		}
		results = append(results, models.DiscoveryResult{
			ID:         profile.UserID.Hex(),
			Name:       owner.Name,
			Skills:     profile.Skills,
			LookingFor: profile.LookingFor,
			TeamStatus: status,
			TeamCount:  count,
		})
	}
	return results, nil
}

// rankBySkillMatch orders by exact case-insensitive overlap count, highest
// first, breaking ties by user id so pagination stays stable.
func rankBySkillMatch(profiles []*models.CapstoneProfile, terms []string) {
	normalized := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		if trimmed := strings.TrimSpace(term); trimmed != "" {
			normalized[strings.ToLower(trimmed)] = struct{}{}
		}
	}

	score := func(profile *models.CapstoneProfile) int {
		matched := 0
		for _, skill := range profile.Skills {
			if _, ok := normalized[strings.ToLower(skill)]; ok {
				matched++
			}
		}
		return matched
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		if len(normalized) > 0 {
			si, sj := score(profiles[i]), score(profiles[j])
			if si != sj {
				return si > sj
			}
		}
		return profiles[i].UserID.Hex() < profiles[j].UserID.Hex()
	})
}

func tokenize(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			terms = append(terms, trimmed)
		}
	}
	return terms
}

func mergeTerms(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	merged := make([]string, 0, len(base)+len(extra))
	for _, term := range append(base, extra...) {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		merged = append(merged, term)
	}
	return merged
}
