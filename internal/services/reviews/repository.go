package reviews

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository defines the interface for reviews repository operations
type Repository interface {
	Create(ctx context.Context, r *Review) error
	FindByID(ctx context.Context, id bson.ObjectID) (*Review, error)
	// List returns reviews, optionally restricted to one tour when tourID is
	// non-nil.
	List(ctx context.Context, tourID *bson.ObjectID) ([]*Review, error)
	// Update applies the non-nil patch fields and returns the updated review.
	Update(ctx context.Context, id bson.ObjectID, patch *UpdateReview) (*Review, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}
