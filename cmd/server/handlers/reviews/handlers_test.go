package reviews

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"trailbook/cmd/server/handlers/handlerutil"
	"trailbook/cmd/server/testutil"
	"trailbook/internal/services/auth"
	"trailbook/internal/services/reviews"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// MockReviewsService mocks the reviews service
type MockReviewsService struct {
	mock.Mock
}

func (m *MockReviewsService) Create(ctx context.Context, userID bson.ObjectID, req reviews.CreateReviewRequest) (*reviews.ReviewResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reviews.ReviewResponse), args.Error(1)
}

func (m *MockReviewsService) List(ctx context.Context, tourID *bson.ObjectID) (*reviews.ListReviewsResponse, error) {
	args := m.Called(ctx, tourID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reviews.ListReviewsResponse), args.Error(1)
}

func (m *MockReviewsService) Get(ctx context.Context, id bson.ObjectID) (*reviews.ReviewResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reviews.ReviewResponse), args.Error(1)
}

func (m *MockReviewsService) Update(ctx context.Context, id bson.ObjectID, req reviews.UpdateReviewRequest) (*reviews.ReviewResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reviews.ReviewResponse), args.Error(1)
}

func (m *MockReviewsService) Delete(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// injectUser fakes the protect middleware by placing a user in Locals.
func injectUser(user *auth.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(handlerutil.CurrentUserKey, user)
		return c.Next()
	}
}

func setupReviewsTest(t *testing.T, user *auth.User) (*MockReviewsService, *fiber.App) {
	t.Helper()

	mockService := &MockReviewsService{}
	app := testutil.CreateTestApp(t)
	v := testutil.CreateTestValidator(t)

	h := NewHandlers(mockService, v)

	grp := app.Group("/api/v1/reviews")
	grp.Get("/", h.List)
	grp.Get("/:id", h.Get)
	if user != nil {
		grp.Use(injectUser(user))
	}
	grp.Post("/", h.Create)
	grp.Patch("/:id", h.Update)
	grp.Delete("/:id", h.Delete)

	return mockService, app
}

func TestListFiltersByTour(t *testing.T) {
	tourID := bson.NewObjectID()
	mockService, app := setupReviewsTest(t, nil)
	mockService.On("List", mock.Anything, &tourID).
		Return(&reviews.ListReviewsResponse{Status: "success", Results: 1, Reviews: []*reviews.Review{{TourID: tourID}}}, nil)

	req := testutil.CreateJSONRequest("GET", "/api/v1/reviews?tourId="+tourID.Hex(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	mockService.AssertExpectations(t)
}

func TestListRejectsMalformedTourID(t *testing.T) {
	mockService, app := setupReviewsTest(t, nil)

	req := testutil.CreateJSONRequest("GET", "/api/v1/reviews?tourId=not-a-hex-id", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	mockService.AssertNotCalled(t, "List")
}

func TestCreateStampsAuthorFromContext(t *testing.T) {
	user := &auth.User{ID: bson.NewObjectID(), Role: auth.RoleUser}
	tourID := bson.NewObjectID()

	mockService, app := setupReviewsTest(t, user)
	mockService.On("Create", mock.Anything, user.ID, mock.MatchedBy(func(req reviews.CreateReviewRequest) bool {
		return req.TourID == tourID.Hex() && req.Rating == 5
	})).Return(&reviews.ReviewResponse{Status: "success", Review: &reviews.Review{UserID: user.ID}}, nil)

	req := testutil.CreateJSONRequest("POST", "/api/v1/reviews", map[string]any{
		"review": "Best trip of my life",
		"rating": 5,
		"tourId": tourID.Hex(),
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	mockService.AssertExpectations(t)
}

func TestCreateValidatesRatingBounds(t *testing.T) {
	user := &auth.User{ID: bson.NewObjectID(), Role: auth.RoleUser}
	mockService, app := setupReviewsTest(t, user)

	req := testutil.CreateJSONRequest("POST", "/api/v1/reviews", map[string]any{
		"review": "way too good",
		"rating": 6,
		"tourId": bson.NewObjectID().Hex(),
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	mockService.AssertNotCalled(t, "Create")
}

func TestUpdateUnknownReviewReturns404(t *testing.T) {
	user := &auth.User{ID: bson.NewObjectID(), Role: auth.RoleUser}
	id := bson.NewObjectID()

	mockService, app := setupReviewsTest(t, user)
	mockService.On("Update", mock.Anything, id, mock.Anything).Return(nil, reviews.ErrReviewNotFound)

	req := testutil.CreateJSONRequest("PATCH", "/api/v1/reviews/"+id.Hex(), map[string]any{"rating": 3})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]string
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, "fail", parsed["status"])
}

func TestDeleteReturns204(t *testing.T) {
	user := &auth.User{ID: bson.NewObjectID(), Role: auth.RoleAdmin}
	id := bson.NewObjectID()

	mockService, app := setupReviewsTest(t, user)
	mockService.On("Delete", mock.Anything, id).Return(nil)

	req := testutil.CreateJSONRequest("DELETE", "/api/v1/reviews/"+id.Hex(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)

	mockService.AssertExpectations(t)
}
