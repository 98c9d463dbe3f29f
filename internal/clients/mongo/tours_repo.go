package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trailbook/internal/logger"
	"trailbook/internal/services/tours"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ToursRepo implements the tours.Repository interface for MongoDB
type ToursRepo struct {
	collection *mongo.Collection
	users      *mongo.Collection
}

// translateTourNotFound maps the driver ErrNoDocuments to the domain-level ErrTourNotFound.
func translateTourNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return tours.ErrTourNotFound
	}
	return err
}

// NewToursRepo creates a new tours repository
func NewToursRepo(parentCtx context.Context, db *mongo.Database) (*ToursRepo, error) {
	collection := db.Collection("tours")

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "slug", Value: 1}},
		},
		// Compound index backs the common price/rating list queries.
		{
			Keys: bson.D{
				{Key: "price", Value: 1},
				{Key: "ratings_average", Value: -1},
			},
		},
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	for _, indexModel := range indexes {
		_, err := collection.Indexes().CreateOne(ctx, indexModel)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				logger.L().Debug("index already exists, continuing", "collection", "tours")
			} else {
				logger.L().Error("failed to create index", "collection", "tours", "error", err)
				return nil, fmt.Errorf("failed to create tours collection index: %w", err)
			}
		}
	}

	return &ToursRepo{
		collection: collection,
		users:      db.Collection("users"),
	}, nil
}

// rangeToBSON turns a RangeFilter into its operator document. An Eq bound
// wins over the others because Mongo treats a bare value as equality.
func rangeToBSON(f tours.RangeFilter) any {
	if f.Eq != nil {
		return *f.Eq
	}
	ops := bson.M{}
	if f.Gte != nil {
		ops["$gte"] = *f.Gte
	}
	if f.Gt != nil {
		ops["$gt"] = *f.Gt
	}
	if f.Lte != nil {
		ops["$lte"] = *f.Lte
	}
	if f.Lt != nil {
		ops["$lt"] = *f.Lt
	}
	return ops
}

// buildListFilter builds the find filter for a list query. Secret tours are
// excluded unconditionally; no combination of caller-supplied filters can
// bring them back.
func buildListFilter(req tours.ListToursRequest) bson.M {
	filter := bson.M{"secret": notSecret}

	if req.Difficulty != "" {
		filter["difficulty"] = req.Difficulty
	}
	if !req.Duration.IsZero() {
		filter["duration"] = rangeToBSON(req.Duration)
	}
	if !req.Price.IsZero() {
		filter["price"] = rangeToBSON(req.Price)
	}
	if !req.RatingsAverage.IsZero() {
		filter["ratings_average"] = rangeToBSON(req.RatingsAverage)
	}
	if !req.MaxGroupSize.IsZero() {
		filter["max_group_size"] = rangeToBSON(req.MaxGroupSize)
	}

	return filter
}

// buildSort translates a comma-separated API sort spec ("-price,name") into
// a BSON sort document. Unknown fields were already rejected by the service.
func buildSort(spec string) bson.D {
	if spec == "" {
		// Newest first, matching the created_at default ordering.
		return bson.D{{Key: "created_at", Value: -1}}
	}

	var sort bson.D
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		dir := 1
		if strings.HasPrefix(field, "-") {
			dir = -1
			field = field[1:]
		}
		if name, ok := tours.FieldToBSON[field]; ok {
			sort = append(sort, bson.E{Key: name, Value: dir})
		}
	}
	if len(sort) == 0 {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	return sort
}

// buildProjection translates a comma-separated API field spec into a BSON
// projection, or nil when no projection was requested.
func buildProjection(spec string) bson.D {
	if spec == "" {
		return nil
	}

	var projection bson.D
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		if name, ok := tours.FieldToBSON[field]; ok {
			projection = append(projection, bson.E{Key: name, Value: 1})
		}
	}
	return projection
}

// Create creates a new tour
func (r *ToursRepo) Create(ctx context.Context, t *tours.Tour) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, t)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return tours.ErrDuplicateName
		}
		return err
	}

	return nil
}

// FindByID finds a non-secret tour by id
func (r *ToursRepo) FindByID(ctx context.Context, id bson.ObjectID) (*tours.Tour, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var t tours.Tour
	filter := bson.M{"_id": id, "secret": notSecret}
	if err := r.collection.FindOne(ctx, filter).Decode(&t); err != nil {
		return nil, translateTourNotFound(err)
	}

	return &t, nil
}

// List returns a page of non-secret tours plus the total match count
func (r *ToursRepo) List(ctx context.Context, req tours.ListToursRequest) ([]*tours.Tour, int64, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := buildListFilter(req)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(buildSort(req.Sort)).
		SetSkip(int64(req.Page-1) * int64(req.Limit)).
		SetLimit(int64(req.Limit))
	if projection := buildProjection(req.Fields); projection != nil {
		opts = opts.SetProjection(projection)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if cerr := cursor.Close(ctx); cerr != nil {
			logger.L().Warn("failed to close cursor", "collection", "tours", "error", cerr)
		}
	}()

	var list []*tours.Tour
	if err := cursor.All(ctx, &list); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

// Update applies a partial update and returns the new document
func (r *ToursRepo) Update(ctx context.Context, id bson.ObjectID, patch tours.UpdateTour) (*tours.Tour, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	// Pointer fields with omitempty: only the supplied fields make it
	// into the $set document.
	raw, err := bson.Marshal(patch)
	if err != nil {
		return nil, err
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, err
	}
	set["updated_at"] = time.Now().UTC()

	filter := bson.M{"_id": id, "secret": notSecret}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var t tours.Tour
	err = r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&t)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, tours.ErrDuplicateName
		}
		return nil, translateTourNotFound(err)
	}

	return &t, nil
}

// Delete removes a tour
func (r *ToursRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return tours.ErrTourNotFound
	}
	return nil
}

// Stats aggregates per-difficulty tour statistics over non-secret tours
func (r *ToursRepo) Stats(ctx context.Context) ([]tours.DifficultyStats, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"secret": notSecret}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$difficulty",
			"num_tours":   bson.M{"$sum": 1},
			"num_ratings": bson.M{"$sum": "$ratings_quantity"},
			"avg_rating":  bson.M{"$avg": "$ratings_average"},
			"avg_price":   bson.M{"$avg": "$price"},
			"min_price":   bson.M{"$min": "$price"},
			"max_price":   bson.M{"$max": "$price"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "avg_price", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := cursor.Close(ctx); cerr != nil {
			logger.L().Warn("failed to close cursor", "collection", "tours", "error", cerr)
		}
	}()

	var stats []tours.DifficultyStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}

	return stats, nil
}

// GuidesByIDs loads the public projection of the given guide users
func (r *ToursRepo) GuidesByIDs(ctx context.Context, ids []bson.ObjectID) ([]*tours.Guide, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{"_id": bson.M{"$in": ids}, "active": activeOnly}
	opts := options.Find().SetProjection(bson.D{
		{Key: "_id", Value: 1},
		{Key: "name", Value: 1},
		{Key: "email", Value: 1},
		{Key: "role", Value: 1},
		{Key: "photo", Value: 1},
	})

	cursor, err := r.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := cursor.Close(ctx); cerr != nil {
			logger.L().Warn("failed to close cursor", "collection", "users", "error", cerr)
		}
	}()

	var guides []*tours.Guide
	if err := cursor.All(ctx, &guides); err != nil {
		return nil, err
	}

	return guides, nil
}
