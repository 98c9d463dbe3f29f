package tours

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"trailbook/internal/utils/sanitize"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	defaultLimit = 100
	maxLimit     = 100
)

// Service handles tours business logic
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService creates a new tours service
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// CreateTourRequest represents a tour creation request
type CreateTourRequest struct {
	Name          string      `json:"name" validate:"required,min=10,max=40" example:"The Forest Hiker"`
	Duration      int         `json:"duration" validate:"required,min=1" example:"5"`
	MaxGroupSize  int         `json:"maxGroupSize" validate:"required,min=1" example:"25"`
	Difficulty    string      `json:"difficulty" validate:"required,oneof=easy medium difficult" example:"easy"`
	Price         float64     `json:"price" validate:"required,gt=0" example:"397"`
	PriceDiscount float64     `json:"priceDiscount" validate:"omitempty,gt=0,ltfield=Price" example:"297"`
	Summary       string      `json:"summary" validate:"required" example:"Breathtaking hike"`
	Description   string      `json:"description" example:"Long form description"`
	ImageCover    string      `json:"imageCover" validate:"required" example:"tour-1-cover.jpg"`
	Images        []string    `json:"images"`
	StartDates    []time.Time `json:"startDates"`
	Secret        bool        `json:"secret"`
	StartLocation *Location   `json:"startLocation"`
	Locations     []Location  `json:"locations"`
	Guides        []string    `json:"guides" validate:"omitempty,dive,hexadecimal,len=24"`
}

// UpdateTourRequest represents a tour update request
type UpdateTourRequest struct {
	Name          *string     `json:"name,omitempty" validate:"omitempty,min=10,max=40"`
	Duration      *int        `json:"duration,omitempty" validate:"omitempty,min=1"`
	MaxGroupSize  *int        `json:"maxGroupSize,omitempty" validate:"omitempty,min=1"`
	Difficulty    *string     `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium difficult"`
	Price         *float64    `json:"price,omitempty" validate:"omitempty,gt=0"`
	PriceDiscount *float64    `json:"priceDiscount,omitempty" validate:"omitempty,gt=0"`
	Summary       *string     `json:"summary,omitempty"`
	Description   *string     `json:"description,omitempty"`
	ImageCover    *string     `json:"imageCover,omitempty"`
	Images        []string    `json:"images,omitempty"`
	StartDates    []time.Time `json:"startDates,omitempty"`
	Secret        *bool       `json:"secret,omitempty"`
}

// TourResponse represents a single tour response
type TourResponse struct {
	Status string `json:"status" example:"success"`
	Tour   *Tour  `json:"tour"`
}

// StatsResponse represents the tour stats aggregation response
type StatsResponse struct {
	Status string            `json:"status" example:"success"`
	Stats  []DifficultyStats `json:"stats"`
}

// Create creates a new tour
func (s *Service) Create(ctx context.Context, req CreateTourRequest) (*TourResponse, error) {
	guideIDs, err := parseGuideIDs(req.Guides)
	if err != nil {
		return nil, err
	}

	name := sanitize.Clean(req.Name)
	now := time.Now()
	tour := &Tour{
		ID:             bson.NewObjectID(),
		Name:           name,
		Slug:           slug.Make(name),
		Duration:       req.Duration,
		MaxGroupSize:   req.MaxGroupSize,
		Difficulty:     req.Difficulty,
		RatingsAverage: 4.5,
		Price:          req.Price,
		PriceDiscount:  req.PriceDiscount,
		Summary:        sanitize.Clean(req.Summary),
		Description:    sanitize.Clean(req.Description),
		ImageCover:     req.ImageCover,
		Images:         req.Images,
		StartDates:     req.StartDates,
		Secret:         req.Secret,
		StartLocation:  req.StartLocation,
		Locations:      req.Locations,
		GuideIDs:       guideIDs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, tour); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return nil, ErrDuplicateName
		}
		s.log.Error(ErrCreateTour.Error(), "error", err, "name", tour.Name)
		return nil, ErrCreateTour
	}

	if err := s.populateGuides(ctx, tour); err != nil {
		s.log.Warn("guide population failed", "tour_id", tour.ID.Hex(), "error", err)
	}

	return &TourResponse{Status: "success", Tour: tour}, nil
}

// Get retrieves a single tour by id with its guides populated
func (s *Service) Get(ctx context.Context, id bson.ObjectID) (*TourResponse, error) {
	tour, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.populateGuides(ctx, tour); err != nil {
		s.log.Warn("guide population failed", "tour_id", tour.ID.Hex(), "error", err)
	}

	return &TourResponse{Status: "success", Tour: tour}, nil
}

// List retrieves tours with filtering, sorting, projection, and pagination.
// Secret tours never appear, no matter what filters the caller supplies.
func (s *Service) List(ctx context.Context, req ListToursRequest) (*ListToursResponse, error) {
	if err := s.validateListRequest(&req); err != nil {
		return nil, err
	}

	list, total, err := s.repo.List(ctx, req)
	if err != nil {
		s.log.Error(ErrListTours.Error(), "error", err)
		return nil, ErrListTours
	}

	if err := s.populateGuidesAll(ctx, list); err != nil {
		s.log.Warn("guide population failed", "error", err)
	}

	return &ListToursResponse{
		Status:  "success",
		Results: len(list),
		Total:   total,
		Tours:   list,
	}, nil
}

// TopCheap lists the five best-rated cheapest tours; a canned List call.
func (s *Service) TopCheap(ctx context.Context) (*ListToursResponse, error) {
	return s.List(ctx, ListToursRequest{
		Limit:  5,
		Sort:   "-ratingsAverage,price",
		Fields: "name,price,ratingsAverage,summary,difficulty",
	})
}

// Update applies a partial update to a tour
func (s *Service) Update(ctx context.Context, id bson.ObjectID, req UpdateTourRequest) (*TourResponse, error) {
	patch := UpdateTour{
		Duration:      req.Duration,
		MaxGroupSize:  req.MaxGroupSize,
		Difficulty:    req.Difficulty,
		Price:         req.Price,
		PriceDiscount: req.PriceDiscount,
		ImageCover:    req.ImageCover,
		Images:        req.Images,
		StartDates:    req.StartDates,
		Secret:        req.Secret,
	}

	if req.Name != nil {
		name := sanitize.Clean(*req.Name)
		slugged := slug.Make(name)
		patch.Name = &name
		patch.Slug = &slugged
	}
	if req.Summary != nil {
		cleaned := sanitize.Clean(*req.Summary)
		patch.Summary = &cleaned
	}
	if req.Description != nil {
		cleaned := sanitize.Clean(*req.Description)
		patch.Description = &cleaned
	}

	tour, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if err := s.populateGuides(ctx, tour); err != nil {
		s.log.Warn("guide population failed", "tour_id", tour.ID.Hex(), "error", err)
	}

	return &TourResponse{Status: "success", Tour: tour}, nil
}

// Delete removes a tour
func (s *Service) Delete(ctx context.Context, id bson.ObjectID) error {
	return s.repo.Delete(ctx, id)
}

// Stats runs the per-difficulty aggregation over non-secret tours
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		s.log.Error("tour stats aggregation failed", "error", err)
		return nil, err
	}
	return &StatsResponse{Status: "success", Stats: stats}, nil
}

func (s *Service) validateListRequest(req *ListToursRequest) error {
	if req.Limit == 0 {
		req.Limit = defaultLimit
	}
	if req.Limit < 1 || req.Limit > maxLimit {
		return ErrInvalidLimit
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.Page < 1 {
		return ErrInvalidPage
	}
	if req.Difficulty != "" {
		switch req.Difficulty {
		case DifficultyEasy, DifficultyMedium, DifficultyDifficult:
		default:
			return ErrInvalidFilter
		}
	}
	for _, field := range splitCommaList(req.Sort) {
		if _, ok := FieldToBSON[strings.TrimPrefix(field, "-")]; !ok {
			return ErrInvalidFilter
		}
	}
	for _, field := range splitCommaList(req.Fields) {
		if _, ok := FieldToBSON[field]; !ok {
			return ErrInvalidFilter
		}
	}
	return nil
}

// populateGuides attaches the public guide projections to a single tour
func (s *Service) populateGuides(ctx context.Context, tour *Tour) error {
	return s.populateGuidesAll(ctx, []*Tour{tour})
}

// populateGuidesAll resolves guide users for a batch of tours with one query
func (s *Service) populateGuidesAll(ctx context.Context, list []*Tour) error {
	idSet := make(map[bson.ObjectID]struct{})
	for _, t := range list {
		for _, id := range t.GuideIDs {
			idSet[id] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return nil
	}

	ids := make([]bson.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	guides, err := s.repo.GuidesByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[bson.ObjectID]*Guide, len(guides))
	for _, g := range guides {
		byID[g.ID] = g
	}

	for _, t := range list {
		if len(t.GuideIDs) == 0 {
			continue
		}
		t.Guides = make([]*Guide, 0, len(t.GuideIDs))
		for _, id := range t.GuideIDs {
			if g, ok := byID[id]; ok {
				t.Guides = append(t.Guides, g)
			}
		}
	}
	return nil
}

func parseGuideIDs(hexIDs []string) ([]bson.ObjectID, error) {
	if len(hexIDs) == 0 {
		return nil, nil
	}
	ids := make([]bson.ObjectID, 0, len(hexIDs))
	for _, h := range hexIDs {
		id, err := bson.ObjectIDFromHex(h)
		if err != nil {
			return nil, ErrInvalidFilter
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitCommaList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
