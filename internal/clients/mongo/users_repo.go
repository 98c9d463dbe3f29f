package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trailbook/internal/logger"
	"trailbook/internal/services/auth"
	"trailbook/internal/services/users"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UsersRepo implements auth.UsersRepo and users.Repository for MongoDB
type UsersRepo struct {
	collection *mongo.Collection
}

// translateUserNotFound maps the driver ErrNoDocuments to the domain-level ErrUserNotFound.
func translateUserNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return auth.ErrUserNotFound
	}
	return err
}

// NewUsersRepo creates a new users repository
func NewUsersRepo(parentCtx context.Context, db *mongo.Database) (*UsersRepo, error) {
	collection := db.Collection("users")

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		// Partial index keeps reset-token lookups off a collection scan
		// without indexing the many users that have no pending reset.
		{
			Keys: bson.D{{Key: "password_reset_token", Value: 1}},
			Options: options.Index().SetPartialFilterExpression(
				bson.M{"password_reset_token": bson.M{"$exists": true}},
			),
		},
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	for _, indexModel := range indexes {
		_, err := collection.Indexes().CreateOne(ctx, indexModel)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				logger.L().Debug("index already exists, continuing", "collection", "users")
			} else {
				logger.L().Error("failed to create index", "collection", "users", "error", err)
				return nil, fmt.Errorf("failed to create users collection index: %w", err)
			}
		}
	}

	return &UsersRepo{
		collection: collection,
	}, nil
}

// Create creates a new user in the database
func (r *UsersRepo) Create(ctx context.Context, user *auth.User) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrDuplicate
		}
		return err
	}

	return nil
}

// FindByEmail finds an active user by email address
func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var user auth.User
	filter := bson.M{"email": email, "active": activeOnly}
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translateUserNotFound(err)
	}

	return &user, nil
}

// FindByID finds an active user by id
func (r *UsersRepo) FindByID(ctx context.Context, id bson.ObjectID) (*auth.User, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var user auth.User
	filter := bson.M{"_id": id, "active": activeOnly}
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translateUserNotFound(err)
	}

	return &user, nil
}

// SetResetToken stores the reset-token digest and expiry on the user
func (r *UsersRepo) SetResetToken(ctx context.Context, id bson.ObjectID, tokenHash string, expires time.Time) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{"_id": id, "active": activeOnly}
	update := bson.M{"$set": bson.M{
		"password_reset_token":   tokenHash,
		"password_reset_expires": expires,
		"updated_at":             time.Now().UTC(),
	}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// ClearResetToken removes the reset-token digest and expiry from the user
func (r *UsersRepo) ClearResetToken(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	update := bson.M{"$unset": bson.M{
		"password_reset_token":   "",
		"password_reset_expires": "",
	}}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// ResetPasswordByToken consumes an unexpired reset token in a single
// filtered update: the token digest and expiry live in the filter, so two
// concurrent resets with the same token can never both succeed.
func (r *UsersRepo) ResetPasswordByToken(ctx context.Context, tokenHash, passwordHash string, changedAt time.Time) (*auth.User, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{
		"password_reset_token":   tokenHash,
		"password_reset_expires": bson.M{"$gt": time.Now().UTC()},
		"active":                 activeOnly,
	}
	update := bson.M{
		"$set": bson.M{
			"password_hash":       passwordHash,
			"password_changed_at": changedAt,
			"updated_at":          time.Now().UTC(),
		},
		"$unset": bson.M{
			"password_reset_token":   "",
			"password_reset_expires": "",
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user auth.User
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		return nil, translateUserNotFound(err)
	}

	return &user, nil
}

// UpdatePassword replaces the password hash and change timestamp
func (r *UsersRepo) UpdatePassword(ctx context.Context, id bson.ObjectID, passwordHash string, changedAt time.Time) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{"_id": id, "active": activeOnly}
	update := bson.M{"$set": bson.M{
		"password_hash":       passwordHash,
		"password_changed_at": changedAt,
		"updated_at":          time.Now().UTC(),
	}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// List returns all active users sorted by name
func (r *UsersRepo) List(ctx context.Context) ([]*auth.User, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"active": activeOnly}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := cursor.Close(ctx); cerr != nil {
			logger.L().Warn("failed to close cursor", "collection", "users", "error", cerr)
		}
	}()

	var list []*auth.User
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}

	return list, nil
}

// UpdateProfile applies a partial profile update and returns the new document
func (r *UsersRepo) UpdateProfile(ctx context.Context, id bson.ObjectID, patch users.UpdateProfile) (*auth.User, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Photo != nil {
		set["photo"] = *patch.Photo
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}

	filter := bson.M{"_id": id, "active": activeOnly}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user auth.User
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, auth.ErrDuplicate
		}
		return nil, translateUserNotFound(err)
	}

	return &user, nil
}

// Deactivate soft-deletes a user: the record stays, reads stop returning it
func (r *UsersRepo) Deactivate(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"active":     false,
		"updated_at": time.Now().UTC(),
	}}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// Delete permanently removes a user record
func (r *UsersRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}
