package users

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"trailbook/internal/services/auth"
	"trailbook/internal/utils/sanitize"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrPasswordUpdateNotAllowed is returned when a profile update tries to
// smuggle in a password change; that belongs to the updateMyPassword flow.
var ErrPasswordUpdateNotAllowed = errors.New("this route is not for password updates, please use /updateMyPassword")

// UpdateProfile represents the persistable profile fields
type UpdateProfile struct {
	Name  *string `bson:"name,omitempty"`
	Email *string `bson:"email,omitempty"`
	Photo *string `bson:"photo,omitempty"`
	Role  *string `bson:"role,omitempty"`
}

// Repository defines user profile persistence beyond the auth flows.
// Reads exclude soft-deleted users.
type Repository interface {
	List(ctx context.Context) ([]*auth.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*auth.User, error)
	UpdateProfile(ctx context.Context, id bson.ObjectID, patch UpdateProfile) (*auth.User, error)
	// Deactivate soft-deletes: the record stays, reads stop returning it.
	Deactivate(ctx context.Context, id bson.ObjectID) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

// Service handles user profile and admin operations
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService creates a new users service
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// UpdateMeRequest represents a self-service profile update. The password
// fields exist only so their presence can be rejected explicitly.
type UpdateMeRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Photo           *string `json:"photo,omitempty"`
	Password        *string `json:"password,omitempty"`
	ConfirmPassword *string `json:"confirmPassword,omitempty"`
}

// AdminUpdateUserRequest represents an admin-side user update
type AdminUpdateUserRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Photo *string `json:"photo,omitempty"`
	Role  *string `json:"role,omitempty" validate:"omitempty,oneof=user guide lead-guide admin"`
}

// UserResponse represents a single user response
type UserResponse struct {
	Status string     `json:"status" example:"success"`
	User   *auth.User `json:"user"`
}

// ListUsersResponse represents a list of users
type ListUsersResponse struct {
	Status  string       `json:"status" example:"success"`
	Results int          `json:"results" example:"7"`
	Users   []*auth.User `json:"users"`
}

// List returns all active users
func (s *Service) List(ctx context.Context) (*ListUsersResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("failed to list users", "error", err)
		return nil, errors.New("failed to list users")
	}
	return &ListUsersResponse{
		Status:  "success",
		Results: len(list),
		Users:   list,
	}, nil
}

// Get returns a single active user
func (s *Service) Get(ctx context.Context, id bson.ObjectID) (*UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UserResponse{Status: "success", User: user}, nil
}

// UpdateMe updates the calling user's own profile. Password changes are
// rejected here; roles can never be self-assigned.
func (s *Service) UpdateMe(ctx context.Context, userID bson.ObjectID, req UpdateMeRequest) (*UserResponse, error) {
	if req.Password != nil || req.ConfirmPassword != nil {
		return nil, ErrPasswordUpdateNotAllowed
	}

	patch := UpdateProfile{Photo: req.Photo}
	if req.Name != nil {
		name := sanitize.Clean(*req.Name)
		patch.Name = &name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		patch.Email = &email
	}

	user, err := s.repo.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return nil, err
	}
	return &UserResponse{Status: "success", User: user}, nil
}

// DeleteMe soft-deletes the calling user's account
func (s *Service) DeleteMe(ctx context.Context, userID bson.ObjectID) error {
	return s.repo.Deactivate(ctx, userID)
}

// AdminUpdate updates any user, including their role
func (s *Service) AdminUpdate(ctx context.Context, id bson.ObjectID, req AdminUpdateUserRequest) (*UserResponse, error) {
	patch := UpdateProfile{Photo: req.Photo, Role: req.Role}
	if req.Name != nil {
		name := sanitize.Clean(*req.Name)
		patch.Name = &name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		patch.Email = &email
	}

	user, err := s.repo.UpdateProfile(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return &UserResponse{Status: "success", User: user}, nil
}

// AdminDelete removes a user record entirely
func (s *Service) AdminDelete(ctx context.Context, id bson.ObjectID) error {
	return s.repo.Delete(ctx, id)
}
