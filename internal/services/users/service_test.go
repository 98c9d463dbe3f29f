package users

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"trailbook/internal/services/auth"

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

func (m *MockRepository) List(ctx context.Context) ([]*auth.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auth.User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id bson.ObjectID) (*auth.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, id bson.ObjectID, patch UpdateProfile) (*auth.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockRepository) Deactivate(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

func TestService_UpdateMeRejectsPasswordFields(t *testing.T) {
	svc := NewService(new(MockRepository), silentLogger)

	_, err := svc.UpdateMe(context.Background(), bson.NewObjectID(), UpdateMeRequest{
		Name:     strPtr("Jonas"),
		Password: strPtr("NewPassword123"),
	})
	assert.ErrorIs(t, err, ErrPasswordUpdateNotAllowed)

	_, err = svc.UpdateMe(context.Background(), bson.NewObjectID(), UpdateMeRequest{
		ConfirmPassword: strPtr("NewPassword123"),
	})
	assert.ErrorIs(t, err, ErrPasswordUpdateNotAllowed)
}

func TestService_UpdateMeNormalizesInput(t *testing.T) {
	id := bson.NewObjectID()
	repo := new(MockRepository)
	var captured UpdateProfile
	repo.On("UpdateProfile", mock.Anything, id, mock.AnythingOfType("users.UpdateProfile")).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(UpdateProfile)
		}).
		Return(&auth.User{ID: id, Name: "Jonas Miller"}, nil)

	svc := NewService(repo, silentLogger)
	_, err := svc.UpdateMe(context.Background(), id, UpdateMeRequest{
		Name:  strPtr("<b>Jonas</b> Miller"),
		Email: strPtr("  Jonas@Example.COM "),
	})
	require.NoError(t, err)

	require.NotNil(t, captured.Name)
	assert.Equal(t, "Jonas Miller", *captured.Name)
	require.NotNil(t, captured.Email)
	assert.Equal(t, "jonas@example.com", *captured.Email)
	assert.Nil(t, captured.Role, "updateMe can never change roles")
}

func TestService_DeleteMeSoftDeletes(t *testing.T) {
	id := bson.NewObjectID()
	repo := new(MockRepository)
	repo.On("Deactivate", mock.Anything, id).Return(nil)

	svc := NewService(repo, silentLogger)
	require.NoError(t, svc.DeleteMe(context.Background(), id))

	repo.AssertCalled(t, "Deactivate", mock.Anything, id)
	repo.AssertNotCalled(t, "Delete", mock.Anything, id)
}

func TestService_AdminUpdateCanChangeRole(t *testing.T) {
	id := bson.NewObjectID()
	repo := new(MockRepository)
	var captured UpdateProfile
	repo.On("UpdateProfile", mock.Anything, id, mock.AnythingOfType("users.UpdateProfile")).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(UpdateProfile)
		}).
		Return(&auth.User{ID: id, Role: auth.RoleGuide}, nil)

	svc := NewService(repo, silentLogger)
	_, err := svc.AdminUpdate(context.Background(), id, AdminUpdateUserRequest{
		Role: strPtr(auth.RoleGuide),
	})
	require.NoError(t, err)

	require.NotNil(t, captured.Role)
	assert.Equal(t, auth.RoleGuide, *captured.Role)
}

func TestService_List(t *testing.T) {
	repo := new(MockRepository)
	repo.On("List", mock.Anything).Return([]*auth.User{{Name: "a"}, {Name: "b"}}, nil)

	svc := NewService(repo, silentLogger)
	resp, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Results)
}
