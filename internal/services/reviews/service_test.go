package reviews

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var silentLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, r *Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id bson.ObjectID) (*Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Review), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, tourID *bson.ObjectID) ([]*Review, error) {
	args := m.Called(ctx, tourID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Review), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id bson.ObjectID, patch *UpdateReview) (*Review, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Review), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestService_Create(t *testing.T) {
	userID := bson.NewObjectID()
	tourID := bson.NewObjectID()

	repo := new(MockRepository)
	var created *Review
	repo.On("Create", mock.Anything, mock.AnythingOfType("*reviews.Review")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*Review)
		}).Return(nil)

	svc := NewService(repo, silentLogger)
	resp, err := svc.Create(context.Background(), userID, CreateReviewRequest{
		Review: "Best <script>alert(1)</script>trip of my life",
		Rating: 5,
		TourID: tourID.Hex(),
	})
	require.NoError(t, err)

	assert.Equal(t, "Best trip of my life", created.Review, "review text is sanitized")
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, tourID, created.TourID)
	assert.Equal(t, "success", resp.Status)
}

func TestService_CreateInvalidTourID(t *testing.T) {
	svc := NewService(new(MockRepository), silentLogger)
	_, err := svc.Create(context.Background(), bson.NewObjectID(), CreateReviewRequest{
		Review: "ok",
		Rating: 4,
		TourID: "not-a-hex-id",
	})
	assert.Error(t, err)
}

func TestService_UpdateSanitizesText(t *testing.T) {
	id := bson.NewObjectID()
	text := "Fine <img src=x onerror=alert(1)>trip"
	rating := 4.0

	repo := new(MockRepository)
	var patched *UpdateReview
	repo.On("Update", mock.Anything, id, mock.AnythingOfType("*reviews.UpdateReview")).
		Run(func(args mock.Arguments) {
			patched = args.Get(2).(*UpdateReview)
		}).Return(&Review{ID: id, Review: "Fine trip", Rating: rating}, nil)

	svc := NewService(repo, silentLogger)
	resp, err := svc.Update(context.Background(), id, UpdateReviewRequest{Review: &text, Rating: &rating})
	require.NoError(t, err)

	require.NotNil(t, patched.Review)
	assert.Equal(t, "Fine trip", *patched.Review)
	assert.Equal(t, "success", resp.Status)
}

func TestService_UpdateNotFound(t *testing.T) {
	id := bson.NewObjectID()
	repo := new(MockRepository)
	repo.On("Update", mock.Anything, id, mock.Anything).Return(nil, ErrReviewNotFound)

	svc := NewService(repo, silentLogger)
	_, err := svc.Update(context.Background(), id, UpdateReviewRequest{})
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestService_List(t *testing.T) {
	tourID := bson.NewObjectID()
	repo := new(MockRepository)
	repo.On("List", mock.Anything, &tourID).Return([]*Review{{Rating: 5}, {Rating: 4}}, nil)

	svc := NewService(repo, silentLogger)
	resp, err := svc.List(context.Background(), &tourID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Results)
}
