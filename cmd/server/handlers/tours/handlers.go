package tours

import (
	"context"
	"errors"

	"trailbook/cmd/server/handlers/handlerutil"
	"trailbook/cmd/server/handlers/httperr"
	"trailbook/internal/logger"
	"trailbook/internal/services/tours"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ToursService defines the interface for tours service
type ToursService interface {
	Create(ctx context.Context, req tours.CreateTourRequest) (*tours.TourResponse, error)
	Get(ctx context.Context, id bson.ObjectID) (*tours.TourResponse, error)
	List(ctx context.Context, req tours.ListToursRequest) (*tours.ListToursResponse, error)
	TopCheap(ctx context.Context) (*tours.ListToursResponse, error)
	Update(ctx context.Context, id bson.ObjectID, req tours.UpdateTourRequest) (*tours.TourResponse, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	Stats(ctx context.Context) (*tours.StatsResponse, error)
}

// Handlers contains the tours HTTP handlers
type Handlers struct {
	toursService ToursService
	validator    *validator.Validate
}

// NewHandlers creates new tours handlers
func NewHandlers(toursService ToursService, validator *validator.Validate) *Handlers {
	return &Handlers{
		toursService: toursService,
		validator:    validator,
	}
}

// List returns a filtered, sorted, paginated page of tours
// @Summary List tours
// @Tags tours
// @Produce json
// @Param difficulty query string false "Difficulty filter"
// @Param sort query string false "Comma-separated sort fields, - prefix for descending"
// @Param fields query string false "Comma-separated fields to include"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} tours.ListToursResponse
// @Failure 400 {object} httperr.E
// @Router /tours [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	req, err := tours.ParseListQuery(c.Queries())
	if err != nil {
		logger.L().Warn("failed to parse list query", "handler", "List", "error", err)
		return httperr.InvalidInput(err)
	}

	resp, err := h.toursService.List(c.Context(), req)
	if err != nil {
		if errors.Is(err, tours.ErrInvalidLimit) || errors.Is(err, tours.ErrInvalidPage) || errors.Is(err, tours.ErrInvalidFilter) {
			return httperr.InvalidInput(err)
		}
		return handlerutil.HandleServiceError(err, "List", nil)
	}

	return c.JSON(resp)
}

// TopCheap returns the five best-rated cheap tours
// @Summary Top five cheap tours
// @Tags tours
// @Produce json
// @Success 200 {object} tours.ListToursResponse
// @Router /tours/top-5-cheap [get]
func (h *Handlers) TopCheap(c *fiber.Ctx) error {
	resp, err := h.toursService.TopCheap(c.Context())
	if err != nil {
		return handlerutil.HandleServiceError(err, "TopCheap", nil)
	}
	return c.JSON(resp)
}

// Stats returns per-difficulty aggregate statistics
// @Summary Tour statistics grouped by difficulty
// @Tags tours
// @Produce json
// @Success 200 {object} tours.StatsResponse
// @Router /tours/stats [get]
func (h *Handlers) Stats(c *fiber.Ctx) error {
	resp, err := h.toursService.Stats(c.Context())
	if err != nil {
		return handlerutil.HandleServiceError(err, "Stats", nil)
	}
	return c.JSON(resp)
}

// Get returns a single tour with its guides populated
// @Summary Get a tour
// @Tags tours
// @Produce json
// @Param id path string true "Tour ID"
// @Success 200 {object} tours.TourResponse
// @Failure 404 {object} httperr.E
// @Router /tours/{id} [get]
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := handlerutil.ExtractID(c, "Get", tours.ErrTourNotFound)
	if err != nil {
		return err
	}

	resp, err := h.toursService.Get(c.Context(), id)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Get", tours.ErrTourNotFound)
	}

	return c.JSON(resp)
}

// Create creates a new tour
// @Summary Create a tour
// @Tags tours
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body tours.CreateTourRequest true "Create tour request"
// @Success 201 {object} tours.TourResponse
// @Failure 400 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Router /tours [post]
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req tours.CreateTourRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Create"); err != nil {
		return err
	}

	resp, err := h.toursService.Create(c.Context(), req)
	if err != nil {
		if errors.Is(err, tours.ErrDuplicateName) {
			return httperr.Fail(httperr.E{Status: 400, Message: err.Error()})
		}
		return handlerutil.HandleServiceError(err, "Create", nil)
	}

	return c.Status(201).JSON(resp)
}

// Update applies a partial update to a tour
// @Summary Update a tour
// @Tags tours
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Tour ID"
// @Param request body tours.UpdateTourRequest true "Update tour request"
// @Success 200 {object} tours.TourResponse
// @Failure 404 {object} httperr.E
// @Router /tours/{id} [patch]
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := handlerutil.ExtractID(c, "Update", tours.ErrTourNotFound)
	if err != nil {
		return err
	}

	var req tours.UpdateTourRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Update"); err != nil {
		return err
	}

	resp, err := h.toursService.Update(c.Context(), id, req)
	if err != nil {
		if errors.Is(err, tours.ErrDuplicateName) {
			return httperr.Fail(httperr.E{Status: 400, Message: err.Error()})
		}
		return handlerutil.HandleServiceError(err, "Update", tours.ErrTourNotFound)
	}

	return c.JSON(resp)
}

// Delete removes a tour
// @Summary Delete a tour
// @Tags tours
// @Security Bearer
// @Param id path string true "Tour ID"
// @Success 204
// @Failure 404 {object} httperr.E
// @Router /tours/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := handlerutil.ExtractID(c, "Delete", tours.ErrTourNotFound)
	if err != nil {
		return err
	}

	if err := h.toursService.Delete(c.Context(), id); err != nil {
		return handlerutil.HandleServiceError(err, "Delete", tours.ErrTourNotFound)
	}

	return c.SendStatus(204)
}
