package mongo

import (
	"context"
	"errors"
	"fmt"

	"trailbook/internal/logger"
	"trailbook/internal/services/reviews"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ReviewsRepo implements the reviews.Repository interface for MongoDB
type ReviewsRepo struct {
	collection *mongo.Collection
}

// NewReviewsRepo creates a new reviews repository
func NewReviewsRepo(parentCtx context.Context, db *mongo.Database) (*ReviewsRepo, error) {
	collection := db.Collection("reviews")

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "tour_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logger.L().Debug("index already exists, continuing", "collection", "reviews")
		} else {
			logger.L().Error("failed to create index", "collection", "reviews", "error", err)
			return nil, fmt.Errorf("failed to create reviews collection index: %w", err)
		}
	}

	return &ReviewsRepo{
		collection: collection,
	}, nil
}

// Create creates a new review
func (r *ReviewsRepo) Create(ctx context.Context, review *reviews.Review) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, review)
	return err
}

// FindByID finds a review by id
func (r *ReviewsRepo) FindByID(ctx context.Context, id bson.ObjectID) (*reviews.Review, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var review reviews.Review
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reviews.ErrReviewNotFound
		}
		return nil, err
	}

	return &review, nil
}

// List returns reviews newest-first, restricted to one tour when tourID is non-nil
func (r *ReviewsRepo) List(ctx context.Context, tourID *bson.ObjectID) ([]*reviews.Review, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{}
	if tourID != nil {
		filter["tour_id"] = *tourID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := cursor.Close(ctx); cerr != nil {
			logger.L().Warn("failed to close cursor", "collection", "reviews", "error", cerr)
		}
	}()

	var list []*reviews.Review
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}

	return list, nil
}

// Update applies the non-nil patch fields and returns the updated review
func (r *ReviewsRepo) Update(ctx context.Context, id bson.ObjectID, patch *reviews.UpdateReview) (*reviews.Review, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	set := bson.M{}
	if patch.Review != nil {
		set["review"] = *patch.Review
	}
	if patch.Rating != nil {
		set["rating"] = *patch.Rating
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var review reviews.Review
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reviews.ErrReviewNotFound
		}
		return nil, err
	}

	return &review, nil
}

// Delete removes a review
func (r *ReviewsRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return reviews.ErrReviewNotFound
	}
	return nil
}
