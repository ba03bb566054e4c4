package store

import (
	"context"
	"errors"
	"time"

	"github.com/coursedb/apiserver/types"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollection = "users"

// UserRepository handles persistence for users.
type UserRepository struct {
	coll *mongo.Collection
	log  zerolog.Logger
}

func NewUserRepository(db *mongo.Database, log zerolog.Logger) *UserRepository {
	return &UserRepository{
		coll: db.Collection(userCollection),
		log:  log.With().Str("repo", "users").Logger(),
	}
}

// UpdateUserParams holds the mutable user fields for a partial update.
// Only non-nil fields are applied.
type UpdateUserParams struct {
	Username     *string
	PasswordHash *string
	Role         *string
}

// List returns all users with the password field projected out.
func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	opts := options.Find().SetProjection(bson.M{"password_hash": 0})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.log.Error().Err(err).Msg("unable to query users")
		return nil, err
	}

	users := make([]types.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		r.log.Error().Err(err).Msg("unable to decode users")
		return nil, err
	}
	return users, nil
}

// GetByUsername returns the full user document, including the password
// hash. For internal use only; public lookups go through
// GetByUsernamePublic.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	var user types.User
	err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.User{}, ErrNotFound
		}
		r.log.Error().Err(err).Str("username", username).Msg("unable to query user")
		return types.User{}, err
	}
	return user, nil
}

// GetByUsernamePublic returns the public profile projection of a user,
// with the identifier, credentials, and internal fields stripped.
func (r *UserRepository) GetByUsernamePublic(ctx context.Context, username string) (types.PublicUser, error) {
	opts := options.FindOne().SetProjection(bson.M{
		"_id":           0,
		"password_hash": 0,
		"role":          0,
	})

	var user types.PublicUser
	err := r.coll.FindOne(ctx, bson.M{"username": username}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.PublicUser{}, ErrNotFound
		}
		r.log.Error().Err(err).Str("username", username).Msg("unable to query user")
		return types.PublicUser{}, err
	}
	return user, nil
}

// Create inserts a new user. A duplicate username is rejected by the
// unique index on the collection and reported as ErrDuplicateUser.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return types.User{}, ErrDuplicateUser
		}
		r.log.Error().Err(err).Str("username", user.Username).Msg("unable to insert user")
		return types.User{}, err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return user, nil
}

// Update applies the provided fields to an existing user and returns
// the post-update document.
func (r *UserRepository) Update(ctx context.Context, id string, params UpdateUserParams) (types.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return types.User{}, err
	}

	set := bson.M{"updated_at": time.Now()}
	if params.Username != nil {
		set["username"] = *params.Username
	}
	if params.PasswordHash != nil {
		set["password_hash"] = *params.PasswordHash
	}
	if params.Role != nil {
		set["role"] = *params.Role
	}

	var user types.User
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.User{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return types.User{}, ErrDuplicateUser
		}
		r.log.Error().Err(err).Str("id", id).Msg("unable to update user")
		return types.User{}, err
	}
	return user, nil
}

// Delete removes a user and returns its prior state.
func (r *UserRepository) Delete(ctx context.Context, id string) (types.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return types.User{}, err
	}

	var user types.User
	err = r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.User{}, ErrNotFound
		}
		r.log.Error().Err(err).Str("id", id).Msg("unable to delete user")
		return types.User{}, err
	}
	return user, nil
}
