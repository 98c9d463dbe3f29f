package reviews

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Review represents a user-authored rating tied to a tour
type Review struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty" example:"683cdb8aa96ad71e8e075bd3"`
	Review    string        `bson:"review" json:"review" example:"Best trip of my life"`
	Rating    float64       `bson:"rating" json:"rating" example:"5"`
	TourID    bson.ObjectID `bson:"tour_id" json:"tourId" example:"683cdb8aa96ad71e8e075bd1"`
	UserID    bson.ObjectID `bson:"user_id" json:"userId" example:"683cdb8aa96ad71e8e075bd0"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt" example:"2025-06-01T23:00:26.005703677Z"`
}

// UpdateReview represents the fields that can be updated on a review
type UpdateReview struct {
	Review *string  `bson:"review,omitempty"`
	Rating *float64 `bson:"rating,omitempty"`
}
