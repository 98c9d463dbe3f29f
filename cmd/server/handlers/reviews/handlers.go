package reviews

import (
	"context"

	"trailbook/cmd/server/handlers/handlerutil"
	"trailbook/cmd/server/handlers/httperr"
	"trailbook/internal/logger"
	"trailbook/internal/services/reviews"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ReviewsService defines the interface for reviews service
type ReviewsService interface {
	Create(ctx context.Context, userID bson.ObjectID, req reviews.CreateReviewRequest) (*reviews.ReviewResponse, error)
	List(ctx context.Context, tourID *bson.ObjectID) (*reviews.ListReviewsResponse, error)
	Get(ctx context.Context, id bson.ObjectID) (*reviews.ReviewResponse, error)
	Update(ctx context.Context, id bson.ObjectID, req reviews.UpdateReviewRequest) (*reviews.ReviewResponse, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

// Handlers contains the reviews HTTP handlers
type Handlers struct {
	reviewsService ReviewsService
	validator      *validator.Validate
}

// NewHandlers creates new reviews handlers
func NewHandlers(reviewsService ReviewsService, validator *validator.Validate) *Handlers {
	return &Handlers{
		reviewsService: reviewsService,
		validator:      validator,
	}
}

// List returns reviews, optionally restricted to one tour
// @Summary List reviews
// @Tags reviews
// @Produce json
// @Param tourId query string false "Restrict to one tour"
// @Success 200 {object} reviews.ListReviewsResponse
// @Failure 400 {object} httperr.E
// @Router /reviews [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	var tourID *bson.ObjectID
	if raw := c.Query("tourId"); raw != "" {
		id, err := bson.ObjectIDFromHex(raw)
		if err != nil {
			logger.L().Warn("invalid tourId query param", "handler", "List", "tourId", raw)
			return httperr.Fail(httperr.ErrInvalidID)
		}
		tourID = &id
	}

	resp, err := h.reviewsService.List(c.Context(), tourID)
	if err != nil {
		return handlerutil.HandleServiceError(err, "List", nil)
	}

	return c.JSON(resp)
}

// Get returns a single review
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} reviews.ReviewResponse
// @Failure 404 {object} httperr.E
// @Router /reviews/{id} [get]
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := handlerutil.ExtractID(c, "Get", reviews.ErrReviewNotFound)
	if err != nil {
		return err
	}

	resp, err := h.reviewsService.Get(c.Context(), id)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Get", reviews.ErrReviewNotFound)
	}

	return c.JSON(resp)
}

// Create creates a review authored by the authenticated user
// @Summary Create a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body reviews.CreateReviewRequest true "Create review request"
// @Success 201 {object} reviews.ReviewResponse
// @Failure 400 {object} httperr.E
// @Router /reviews [post]
func (h *Handlers) Create(c *fiber.Ctx) error {
	user, err := handlerutil.CurrentUser(c)
	if err != nil {
		return err
	}

	var req reviews.CreateReviewRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Create"); err != nil {
		return err
	}

	resp, err := h.reviewsService.Create(c.Context(), user.ID, req)
	if err != nil {
		return httperr.Fail(httperr.E{Status: 400, Message: err.Error()})
	}

	return c.Status(201).JSON(resp)
}

// Update modifies a review's text or rating
// @Summary Update a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Review ID"
// @Param request body reviews.UpdateReviewRequest true "Update review request"
// @Success 200 {object} reviews.ReviewResponse
// @Failure 404 {object} httperr.E
// @Router /reviews/{id} [patch]
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := handlerutil.ExtractID(c, "Update", reviews.ErrReviewNotFound)
	if err != nil {
		return err
	}

	var req reviews.UpdateReviewRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Update"); err != nil {
		return err
	}

	resp, err := h.reviewsService.Update(c.Context(), id, req)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Update", reviews.ErrReviewNotFound)
	}

	return c.JSON(resp)
}

// Delete removes a review
// @Summary Delete a review
// @Tags reviews
// @Security Bearer
// @Param id path string true "Review ID"
// @Success 204
// @Failure 404 {object} httperr.E
// @Router /reviews/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := handlerutil.ExtractID(c, "Delete", reviews.ErrReviewNotFound)
	if err != nil {
		return err
	}

	if err := h.reviewsService.Delete(c.Context(), id); err != nil {
		return handlerutil.HandleServiceError(err, "Delete", reviews.ErrReviewNotFound)
	}

	return c.SendStatus(204)
}
