package reviews

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"trailbook/internal/utils/sanitize"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrReviewNotFound - review not found in DB
var ErrReviewNotFound = errors.New("review not found")

// ErrCreateReview - failed to create review
var ErrCreateReview = errors.New("failed to create review")

// Service handles reviews business logic
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService creates a new reviews service
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// CreateReviewRequest represents a review creation request
type CreateReviewRequest struct {
	Review string  `json:"review" validate:"required" example:"Best trip of my life"`
	Rating float64 `json:"rating" validate:"required,min=1,max=5" example:"5"`
	TourID string  `json:"tourId" validate:"required,hexadecimal,len=24" example:"683cdb8aa96ad71e8e075bd1"`
}

// ReviewResponse represents a single review response
type ReviewResponse struct {
	Status string  `json:"status" example:"success"`
	Review *Review `json:"review"`
}

// ListReviewsResponse represents a list of reviews
type ListReviewsResponse struct {
	Status  string    `json:"status" example:"success"`
	Results int       `json:"results" example:"12"`
	Reviews []*Review `json:"reviews"`
}

// Create creates a new review authored by userID
func (s *Service) Create(ctx context.Context, userID bson.ObjectID, req CreateReviewRequest) (*ReviewResponse, error) {
	tourID, err := bson.ObjectIDFromHex(req.TourID)
	if err != nil {
		return nil, errors.New("invalid tour id")
	}

	review := &Review{
		ID:        bson.NewObjectID(),
		Review:    sanitize.Clean(req.Review),
		Rating:    req.Rating,
		TourID:    tourID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, review); err != nil {
		s.log.Error(ErrCreateReview.Error(), "error", err, "user_id", userID.Hex())
		return nil, ErrCreateReview
	}

	return &ReviewResponse{Status: "success", Review: review}, nil
}

// List retrieves reviews, optionally restricted to a single tour
func (s *Service) List(ctx context.Context, tourID *bson.ObjectID) (*ListReviewsResponse, error) {
	list, err := s.repo.List(ctx, tourID)
	if err != nil {
		s.log.Error("failed to list reviews", "error", err)
		return nil, errors.New("failed to list reviews")
	}

	return &ListReviewsResponse{
		Status:  "success",
		Results: len(list),
		Reviews: list,
	}, nil
}

// Get retrieves a single review
func (s *Service) Get(ctx context.Context, id bson.ObjectID) (*ReviewResponse, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ReviewResponse{Status: "success", Review: review}, nil
}

// UpdateReviewRequest represents a review update request
type UpdateReviewRequest struct {
	Review *string  `json:"review" validate:"omitempty,min=1" example:"Changed my mind, great trip"`
	Rating *float64 `json:"rating" validate:"omitempty,min=1,max=5" example:"4"`
}

// Update modifies the text or rating of a review
func (s *Service) Update(ctx context.Context, id bson.ObjectID, req UpdateReviewRequest) (*ReviewResponse, error) {
	patch := &UpdateReview{Rating: req.Rating}
	if req.Review != nil {
		clean := sanitize.Clean(*req.Review)
		patch.Review = &clean
	}

	review, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return &ReviewResponse{Status: "success", Review: review}, nil
}

// Delete removes a review
func (s *Service) Delete(ctx context.Context, id bson.ObjectID) error {
	return s.repo.Delete(ctx, id)
}
