package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trailbook/internal/config"
	"trailbook/internal/utils/crypto"
	"trailbook/internal/utils/sanitize"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// passwordChangeSkew is subtracted from the password-change timestamp so a
// token issued in the same second as the change still counts as pre-change.
const passwordChangeSkew = time.Second

// Service handles authentication business logic
type Service struct {
	repo   UsersRepo
	mailer Mailer
	config config.Config
	log    *slog.Logger
}

// NewService creates a new auth service
func NewService(repo UsersRepo, mailer Mailer, cfg config.Config, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		mailer: mailer,
		config: cfg,
		log:    log,
	}
}

// SignUpRequest represents a user registration request
type SignUpRequest struct {
	Name            string `json:"name" validate:"required" example:"Jonas Miller"`
	Email           string `json:"email" validate:"required,email" example:"jonas@example.com"`
	Password        string `json:"password" validate:"required,password" example:"Password123"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password" example:"Password123"`
}

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"jonas@example.com"`
	Password string `json:"password" validate:"required" example:"Password123"`
}

// ForgotPasswordRequest carries the email to send a reset link to
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email" example:"jonas@example.com"`
}

// ResetPasswordRequest carries the new password for a reset-token flow
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,password" example:"NewPassword123"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password" example:"NewPassword123"`
}

// UpdatePasswordRequest carries a password change for a logged-in user
type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" validate:"required" example:"Password123"`
	Password        string `json:"password" validate:"required,password" example:"NewPassword123"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password" example:"NewPassword123"`
}

// AuthResponse represents the response for successful authentication
type AuthResponse struct {
	Status string `json:"status" example:"success"`
	Token  string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User   *User  `json:"user"`
}

// SignUp registers a new user
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrDuplicate
	}

	hashedPassword, err := crypto.HashPassword(req.Password, s.config.BcryptCost)
	if err != nil {
		return nil, errors.New("failed to process password")
	}

	now := time.Now()
	user := &User{
		ID:           bson.NewObjectID(),
		Name:         sanitize.Clean(req.Name),
		Email:        email,
		Role:         RoleUser,
		PasswordHash: hashedPassword,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, errors.New("failed to create user")
	}

	return s.respondWithToken(user)
}

// Login authenticates a user by email and password
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.log.Info("login failed: unknown email", "email", email)
		return nil, ErrInvalidCredentials
	}

	if err := crypto.CheckPassword(req.Password, user.PasswordHash); err != nil {
		s.log.Info("login failed: password mismatch", "email", email)
		return nil, ErrInvalidCredentials
	}

	return s.respondWithToken(user)
}

// CurrentUser resolves a verified token's claims to a live user: the user
// must still exist (and be active), and the token must have been issued
// after the most recent password change.
func (s *Service) CurrentUser(ctx context.Context, userIDHex string, issuedAt time.Time) (*User, error) {
	userID, err := bson.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, ErrTokenUserGone
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrTokenUserGone
	}

	if user.ChangedPasswordAfter(issuedAt) {
		return nil, ErrPasswordChanged
	}

	return user, nil
}

// ForgotPassword generates a single-use reset token, persists its digest, and
// emails the raw token embedded in resetURLBase+token. On dispatch failure
// the persisted token state is rolled back so no dangling valid token
// survives an email the user never received.
func (s *Service) ForgotPassword(ctx context.Context, email, resetURLBase string) error {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return ErrUserNotFound
	}

	rawToken, err := crypto.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expires := time.Now().Add(time.Duration(s.config.ResetTokenMinutes) * time.Minute)
	if err := s.repo.SetResetToken(ctx, user.ID, crypto.HashResetToken(rawToken), expires); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := resetURLBase + rawToken
	body := fmt.Sprintf(
		"Forgot your password? Submit a PATCH request with your new password and confirmPassword to: %s\nIf you didn't forget your password, please ignore this email!",
		resetURL,
	)
	subject := fmt.Sprintf("Your password reset token (valid for %d minutes)", s.config.ResetTokenMinutes)

	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		s.log.Error("reset email dispatch failed", "email", user.Email, "error", err)
		if clearErr := s.repo.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.log.Error("reset token rollback failed", "user_id", user.ID.Hex(), "error", clearErr)
		}
		return ErrEmailSend
	}

	return nil
}

// ResetPassword consumes a raw reset token and sets a new password. The
// token digest match and the clearing of the reset fields happen in one
// document update, so a token can be used at most once.
func (s *Service) ResetPassword(ctx context.Context, rawToken string, req ResetPasswordRequest) (*AuthResponse, error) {
	hashedPassword, err := crypto.HashPassword(req.Password, s.config.BcryptCost)
	if err != nil {
		return nil, errors.New("failed to process password")
	}

	changedAt := time.Now().Add(-passwordChangeSkew)
	user, err := s.repo.ResetPasswordByToken(ctx, crypto.HashResetToken(rawToken), hashedPassword, changedAt)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrResetTokenInvalid
		}
		return nil, err
	}

	return s.respondWithToken(user)
}

// UpdatePassword changes the password of an already-authenticated user and
// re-issues a token, since the change invalidates all previously issued ones.
func (s *Service) UpdatePassword(ctx context.Context, user *User, req UpdatePasswordRequest) (*AuthResponse, error) {
	if err := crypto.CheckPassword(req.PasswordCurrent, user.PasswordHash); err != nil {
		return nil, ErrCurrentPasswordWrong
	}

	hashedPassword, err := crypto.HashPassword(req.Password, s.config.BcryptCost)
	if err != nil {
		return nil, errors.New("failed to process password")
	}

	changedAt := time.Now().Add(-passwordChangeSkew)
	if err := s.repo.UpdatePassword(ctx, user.ID, hashedPassword, changedAt); err != nil {
		return nil, errors.New("failed to update password")
	}

	user.PasswordHash = hashedPassword
	user.PasswordChangedAt = changedAt

	return s.respondWithToken(user)
}

func (s *Service) respondWithToken(user *User) (*AuthResponse, error) {
	token, err := s.issueToken(user)
	if err != nil {
		s.log.Error(ErrGenToken.Error(), "user_id", user.ID.Hex(), "error", err)
		return nil, ErrGenToken
	}
	return &AuthResponse{
		Status: "success",
		Token:  token,
		User:   user,
	}, nil
}

func (s *Service) issueToken(user *User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"iat":     now.Unix(),
		"exp":     now.Add(time.Duration(s.config.JWTExpiresMinutes) * time.Minute).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
