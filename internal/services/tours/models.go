package tours

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Tour difficulties
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// Location is a GeoJSON point with tour-specific metadata
type Location struct {
	Type        string    `bson:"type" json:"type" example:"Point"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates" example:"-80.185942,25.774772"`
	Address     string    `bson:"address,omitempty" json:"address,omitempty" example:"301 Biscayne Blvd, Miami"`
	Description string    `bson:"description,omitempty" json:"description,omitempty" example:"Lummus Park Beach"`
	Day         int       `bson:"day,omitempty" json:"day,omitempty" example:"1"`
}

// Guide is the public projection of a guide user attached to a tour.
// Credential fields of the underlying user are never part of it.
type Guide struct {
	ID    bson.ObjectID `bson:"_id" json:"id" example:"683cdb8aa96ad71e8e075bd0"`
	Name  string        `bson:"name" json:"name" example:"Kate Morrison"`
	Email string        `bson:"email" json:"email" example:"kate@example.com"`
	Role  string        `bson:"role" json:"role" example:"guide"`
	Photo string        `bson:"photo,omitempty" json:"photo,omitempty" example:"kate.jpg"`
}

// Tour represents a bookable tour product
type Tour struct {
	ID              bson.ObjectID   `bson:"_id,omitempty" json:"id,omitempty" example:"683cdb8aa96ad71e8e075bd1"`
	Name            string          `bson:"name" json:"name" example:"The Forest Hiker"`
	Slug            string          `bson:"slug" json:"slug" example:"the-forest-hiker"`
	Duration        int             `bson:"duration" json:"duration" example:"5"`
	MaxGroupSize    int             `bson:"max_group_size" json:"maxGroupSize" example:"25"`
	Difficulty      string          `bson:"difficulty" json:"difficulty" example:"easy"`
	RatingsAverage  float64         `bson:"ratings_average" json:"ratingsAverage" example:"4.7"`
	RatingsQuantity int             `bson:"ratings_quantity" json:"ratingsQuantity" example:"37"`
	Price           float64         `bson:"price" json:"price" example:"397"`
	PriceDiscount   float64         `bson:"price_discount,omitempty" json:"priceDiscount,omitempty" example:"297"`
	Summary         string          `bson:"summary" json:"summary" example:"Breathtaking hike through the Canadian Banff National Park"`
	Description     string          `bson:"description,omitempty" json:"description,omitempty"`
	ImageCover      string          `bson:"image_cover" json:"imageCover" example:"tour-1-cover.jpg"`
	Images          []string        `bson:"images,omitempty" json:"images,omitempty"`
	StartDates      []time.Time     `bson:"start_dates,omitempty" json:"startDates,omitempty"`
	Secret          bool            `bson:"secret,omitempty" json:"-"`
	StartLocation   *Location       `bson:"start_location,omitempty" json:"startLocation,omitempty"`
	Locations       []Location      `bson:"locations,omitempty" json:"locations,omitempty"`
	GuideIDs        []bson.ObjectID `bson:"guides,omitempty" json:"-"`
	Guides          []*Guide        `bson:"-" json:"guides,omitempty"`
	CreatedAt       time.Time       `bson:"created_at" json:"-"`
	UpdatedAt       time.Time       `bson:"updated_at" json:"-"`
}

// UpdateTour represents the fields that can be updated on a tour
type UpdateTour struct {
	Name          *string     `bson:"name,omitempty"`
	Slug          *string     `bson:"slug,omitempty"`
	Duration      *int        `bson:"duration,omitempty"`
	MaxGroupSize  *int        `bson:"max_group_size,omitempty"`
	Difficulty    *string     `bson:"difficulty,omitempty"`
	Price         *float64    `bson:"price,omitempty"`
	PriceDiscount *float64    `bson:"price_discount,omitempty"`
	Summary       *string     `bson:"summary,omitempty"`
	Description   *string     `bson:"description,omitempty"`
	ImageCover    *string     `bson:"image_cover,omitempty"`
	Images        []string    `bson:"images,omitempty"`
	StartDates    []time.Time `bson:"start_dates,omitempty"`
	Secret        *bool       `bson:"secret,omitempty"`
}

// DifficultyStats is one bucket of the tour stats aggregation
type DifficultyStats struct {
	Difficulty string  `bson:"_id" json:"difficulty" example:"easy"`
	NumTours   int64   `bson:"num_tours" json:"numTours" example:"4"`
	NumRatings int64   `bson:"num_ratings" json:"numRatings" example:"159"`
	AvgRating  float64 `bson:"avg_rating" json:"avgRating" example:"4.68"`
	AvgPrice   float64 `bson:"avg_price" json:"avgPrice" example:"497"`
	MinPrice   float64 `bson:"min_price" json:"minPrice" example:"397"`
	MaxPrice   float64 `bson:"max_price" json:"maxPrice" example:"997"`
}
