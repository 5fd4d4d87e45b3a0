package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nyahub/nya-api/internal/middleware"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubDiscoveryService struct {
	lastQuery models.DiscoveryQuery
	lastLimit int
}

func (s *stubDiscoveryService) DiscoverUsers(ctx context.Context, currentUserID primitive.ObjectID, query models.DiscoveryQuery) ([]models.DiscoveryResult, error) {
	s.lastQuery = query
	return []models.DiscoveryResult{}, nil
}

func (s *stubDiscoveryService) RecommendedUsers(ctx context.Context, currentUserID primitive.ObjectID, limit int) ([]models.DiscoveryResult, error) {
	s.lastLimit = limit
	return []models.DiscoveryResult{}, nil
}

func newUserRouter(service *stubDiscoveryService, user *models.User) *gin.Engine {
	handler := NewUserHandler(service)
	router := gin.New()
	if user != nil {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.CurrentUserContextKey, user)
		})
	}
	router.GET("/users/me", handler.Me)
	router.GET("/users/discover", handler.Discover)
	router.GET("/users/recommended", handler.Recommended)
	return router
}

func sessionUser() *models.User {
	return &models.User{ID: primitive.NewObjectID(), Email: "aarav@thapar.edu", Name: "Aarav", Role: models.RoleUser}
}

func TestUserHandler_Me(t *testing.T) {
	router := newUserRouter(&stubDiscoveryService{}, sessionUser())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/users/me", http.NoBody)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "aarav@thapar.edu")
}

func TestUserHandler_Me_Unauthenticated(t *testing.T) {
	router := newUserRouter(&stubDiscoveryService{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/users/me", http.NoBody)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "auth_required")
}

func TestUserHandler_Discover_ParsesQuery(t *testing.T) {
	service := &stubDiscoveryService{}
	router := newUserRouter(service, sessionUser())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/users/discover?skills=Go,%20ML%20,&search=%20riya%20&looking_for=TEAMMATE&mentor_assigned=false&limit=40&page=2", http.NoBody)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Go", "ML"}, service.lastQuery.Skills)
	assert.Equal(t, "riya", service.lastQuery.Search)
	assert.Equal(t, "TEAMMATE", service.lastQuery.LookingFor)
	assert.Equal(t, 40, service.lastQuery.Limit)
	assert.Equal(t, 2, service.lastQuery.Page)
	if assert.NotNil(t, service.lastQuery.MentorAssigned) {
		assert.False(t, *service.lastQuery.MentorAssigned)
	}
}

func TestUserHandler_Discover_ClampsLimits(t *testing.T) {
	service := &stubDiscoveryService{}
	router := newUserRouter(service, sessionUser())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/users/discover?limit=9999&page=0", http.NoBody)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 500, service.lastQuery.Limit)
	assert.Equal(t, 1, service.lastQuery.Page)
	assert.Nil(t, service.lastQuery.MentorAssigned)
}

func TestUserHandler_Discover_Defaults(t *testing.T) {
	service := &stubDiscoveryService{}
	router := newUserRouter(service, sessionUser())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/users/discover", http.NoBody)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, service.lastQuery.Limit)
	assert.Equal(t, 1, service.lastQuery.Page)
	assert.Empty(t, service.lastQuery.Skills)
	assert.Contains(t, w.Body.String(), `"page":1`)
	assert.Contains(t, w.Body.String(), `"limit":20`)
}

func TestUserHandler_Recommended_ClampsLimit(t *testing.T) {
	service := &stubDiscoveryService{}
	router := newUserRouter(service, sessionUser())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/users/recommended?limit=100", http.NoBody)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 30, service.lastLimit)
}
