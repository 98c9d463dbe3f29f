package tours

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository defines the interface for tours repository operations.
// Every read transparently excludes tours flagged secret.
type Repository interface {
	Create(ctx context.Context, t *Tour) error
	FindByID(ctx context.Context, id bson.ObjectID) (*Tour, error)
	List(ctx context.Context, req ListToursRequest) ([]*Tour, int64, error)
	Update(ctx context.Context, id bson.ObjectID, patch UpdateTour) (*Tour, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	Stats(ctx context.Context) ([]DifficultyStats, error)

	// GuidesByIDs loads the public projection of the given guide users,
	// in support of guide population on tour reads.
	GuidesByIDs(ctx context.Context, ids []bson.ObjectID) ([]*Guide, error)
}
