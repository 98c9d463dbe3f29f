package tours

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"trailbook/cmd/server/testutil"
	"trailbook/internal/services/tours"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// MockToursService mocks the tours service
type MockToursService struct {
	mock.Mock
}

func (m *MockToursService) Create(ctx context.Context, req tours.CreateTourRequest) (*tours.TourResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tours.TourResponse), args.Error(1)
}

func (m *MockToursService) Get(ctx context.Context, id bson.ObjectID) (*tours.TourResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tours.TourResponse), args.Error(1)
}

func (m *MockToursService) List(ctx context.Context, req tours.ListToursRequest) (*tours.ListToursResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tours.ListToursResponse), args.Error(1)
}

func (m *MockToursService) TopCheap(ctx context.Context) (*tours.ListToursResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tours.ListToursResponse), args.Error(1)
}

func (m *MockToursService) Update(ctx context.Context, id bson.ObjectID, req tours.UpdateTourRequest) (*tours.TourResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tours.TourResponse), args.Error(1)
}

func (m *MockToursService) Delete(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockToursService) Stats(ctx context.Context) (*tours.StatsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tours.StatsResponse), args.Error(1)
}

func setupToursTest(t *testing.T) (*MockToursService, *fiber.App) {
	t.Helper()

	mockService := &MockToursService{}
	app := testutil.CreateTestApp(t)
	v := testutil.CreateTestValidator(t)

	h := NewHandlers(mockService, v)

	grp := app.Group("/api/v1/tours")
	grp.Get("/", h.List)
	grp.Get("/top-5-cheap", h.TopCheap)
	grp.Get("/stats", h.Stats)
	grp.Get("/:id", h.Get)
	grp.Post("/", h.Create)
	grp.Patch("/:id", h.Update)
	grp.Delete("/:id", h.Delete)

	return mockService, app
}

func TestListPassesParsedFilters(t *testing.T) {
	mockService, app := setupToursTest(t)

	mockService.On("List", mock.Anything, mock.MatchedBy(func(req tours.ListToursRequest) bool {
		return req.Difficulty == tours.DifficultyEasy &&
			req.Price.Lt != nil && *req.Price.Lt == 1000 &&
			req.Sort == "-ratingsAverage"
	})).Return(&tours.ListToursResponse{Status: "success", Tours: []*tours.Tour{}}, nil)

	req := testutil.CreateJSONRequest("GET", "/api/v1/tours?difficulty=easy&price[lt]=1000&sort=-ratingsAverage", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	mockService.AssertExpectations(t)
}

func TestListRejectsMalformedFilter(t *testing.T) {
	mockService, app := setupToursTest(t)

	req := testutil.CreateJSONRequest("GET", "/api/v1/tours?price[lt]=cheap", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	mockService.AssertNotCalled(t, "List")
}

func TestGetMapsMalformedIDToNotFound(t *testing.T) {
	mockService, app := setupToursTest(t)

	req := testutil.CreateJSONRequest("GET", "/api/v1/tours/not-a-hex-id", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]string
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, "fail", parsed["status"])

	mockService.AssertNotCalled(t, "Get")
}

func TestGetUnknownTourReturns404(t *testing.T) {
	mockService, app := setupToursTest(t)

	id := bson.NewObjectID()
	mockService.On("Get", mock.Anything, id).Return(nil, tours.ErrTourNotFound)

	req := testutil.CreateJSONRequest("GET", "/api/v1/tours/"+id.Hex(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestCreateValidatesBody(t *testing.T) {
	mockService, app := setupToursTest(t)

	// Missing required fields
	body := map[string]any{"name": "The Forest Hiker"}
	resp, err := app.Test(testutil.CreateJSONRequest("POST", "/api/v1/tours", body))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	mockService.AssertNotCalled(t, "Create")
}

func TestDeleteReturns204(t *testing.T) {
	mockService, app := setupToursTest(t)

	id := bson.NewObjectID()
	mockService.On("Delete", mock.Anything, id).Return(nil)

	req := testutil.CreateJSONRequest("DELETE", "/api/v1/tours/"+id.Hex(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}

func TestTopCheapDelegates(t *testing.T) {
	mockService, app := setupToursTest(t)

	mockService.On("TopCheap", mock.Anything).Return(&tours.ListToursResponse{
		Status:  "success",
		Results: 5,
	}, nil)

	resp, err := app.Test(testutil.CreateJSONRequest("GET", "/api/v1/tours/top-5-cheap", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	mockService.AssertExpectations(t)
}
