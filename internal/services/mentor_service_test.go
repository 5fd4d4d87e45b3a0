package services_test

import (
	"context"
	"testing"

	"github.com/nyahub/nya-api/internal/cache"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/internal/repository"
	"github.com/nyahub/nya-api/internal/services"
	"github.com/nyahub/nya-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newMentorService() (*services.MentorService, *MockMentorProfileRepository, *MockUserRepository) {
	mentors := new(MockMentorProfileRepository)
	users := new(MockUserRepository)
	mentorCache := cache.NewMentorCache(60, false)
	return services.NewMentorService(mentors, users, mentorCache), mentors, users
}

func approvedMentorProfile(userID primitive.ObjectID, domain string) *models.MentorProfile {
	return &models.MentorProfile{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		Domain:          domain,
		Expertise:       []string{"Systems"},
		ApprovedByAdmin: true,
	}
}

func TestMentorService_ListMentors_CachesUnfiltered(t *testing.T) {
	service, mentors, users := newMentorService()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	mentors.On("SearchApproved", ctx, "", "", []primitive.ObjectID(nil)).
		Return([]*models.MentorProfile{approvedMentorProfile(userID, "AI")}, nil).Once()
	users.On("FindByIDs", ctx, mock.Anything).Return(map[primitive.ObjectID]*models.User{
		userID: {ID: userID, Name: "Dr. Kaur"},
	}, nil).Once()

	first, err := service.ListMentors(ctx, "", "")
	assert.NoError(t, err)
	assert.Len(t, first, 1)

	// Second call is served from the cache.
	second, err := service.ListMentors(ctx, "", "")
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	mentors.AssertNumberOfCalls(t, "SearchApproved", 1)
}

func TestMentorService_ListMentors_SearchBypassesCache(t *testing.T) {
	service, mentors, users := newMentorService()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	users.On("FindIDsByName", ctx, "kaur").Return([]primitive.ObjectID{userID}, nil).Twice()
	mentors.On("SearchApproved", ctx, "", "kaur", []primitive.ObjectID{userID}).
		Return([]*models.MentorProfile{approvedMentorProfile(userID, "AI")}, nil).Twice()
	users.On("FindByIDs", ctx, mock.Anything).Return(map[primitive.ObjectID]*models.User{
		userID: {ID: userID, Name: "Dr. Kaur"},
	}, nil).Twice()

	_, err := service.ListMentors(ctx, "", "kaur")
	assert.NoError(t, err)
	_, err = service.ListMentors(ctx, "", "kaur")
	assert.NoError(t, err)
	mentors.AssertExpectations(t)
}

func TestMentorService_ListMentors_SkipsOrphanProfiles(t *testing.T) {
	service, mentors, users := newMentorService()
	ctx := context.Background()
	known := primitive.NewObjectID()
	orphan := primitive.NewObjectID()

	mentors.On("SearchApproved", ctx, "Web", "", []primitive.ObjectID(nil)).
		Return([]*models.MentorProfile{
			approvedMentorProfile(known, "Web"),
			approvedMentorProfile(orphan, "Web"),
		}, nil).Once()
	users.On("FindByIDs", ctx, mock.Anything).Return(map[primitive.ObjectID]*models.User{
		known: {ID: known, Name: "Present"},
	}, nil).Once()

	listings, err := service.ListMentors(ctx, "Web", "")
	assert.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Equal(t, "Present", listings[0].Name)
}

func TestMentorService_GetMentor_FallsBackToUserID(t *testing.T) {
	service, mentors, users := newMentorService()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	profile := approvedMentorProfile(userID, "AI")

	// The id is a user id, not a profile id.
	mentors.On("FindByID", ctx, userID).Return(nil, repository.ErrNotFound).Once()
	mentors.On("FindByUserID", ctx, userID).Return(profile, nil).Once()
	users.On("FindByID", ctx, userID).Return(&models.User{ID: userID, Name: "Dr. Kaur"}, nil).Once()

	listing, err := service.GetMentor(ctx, userID.Hex())
	assert.NoError(t, err)
	assert.Equal(t, profile.ID.Hex(), listing.ID)
	assert.Equal(t, "Dr. Kaur", listing.Name)
}

func TestMentorService_GetMentor_UnapprovedHidden(t *testing.T) {
	service, mentors, _ := newMentorService()
	ctx := context.Background()
	profileID := primitive.NewObjectID()
	profile := &models.MentorProfile{ID: profileID, UserID: primitive.NewObjectID()}

	mentors.On("FindByID", ctx, profileID).Return(profile, nil).Once()
	mentors.On("FindByUserID", ctx, profileID).Return(nil, repository.ErrNotFound).Once()

	_, err := service.GetMentor(ctx, profileID.Hex())
	appErr, ok := apperror.As(err)
	assert.True(t, ok)
	assert.Equal(t, "mentor_not_found", appErr.Code)
}

func TestMentorService_GetMentor_InvalidID(t *testing.T) {
	service, _, _ := newMentorService()

	_, err := service.GetMentor(context.Background(), "zzz")
	appErr, ok := apperror.As(err)
	assert.True(t, ok)
	assert.Equal(t, "invalid_mentor_id", appErr.Code)
}
