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

const courseCollection = "courses"

// CourseRepository handles persistence for courses.
type CourseRepository struct {
	coll *mongo.Collection
	log  zerolog.Logger
}

func NewCourseRepository(db *mongo.Database, log zerolog.Logger) *CourseRepository {
	return &CourseRepository{
		coll: db.Collection(courseCollection),
		log:  log.With().Str("repo", "courses").Logger(),
	}
}

// UpdateCourseParams holds the mutable course fields for a partial
// update. Only non-nil fields are applied.
type UpdateCourseParams struct {
	Name        *string
	Author      *string
	Tags        *[]string
	Price       *float64
	IsPublished *bool
}

func (r *CourseRepository) List(ctx context.Context) ([]types.Course, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		r.log.Error().Err(err).Msg("unable to query courses")
		return nil, err
	}

	courses := make([]types.Course, 0)
	if err := cursor.All(ctx, &courses); err != nil {
		r.log.Error().Err(err).Msg("unable to decode courses")
		return nil, err
	}
	return courses, nil
}

func (r *CourseRepository) Get(ctx context.Context, id string) (types.Course, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return types.Course{}, err
	}

	var course types.Course
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Course{}, ErrNotFound
		}
		r.log.Error().Err(err).Str("id", id).Msg("unable to query course")
		return types.Course{}, err
	}
	return course, nil
}

// GetByName returns every course with exactly the given name. Course
// names are not unique.
func (r *CourseRepository) GetByName(ctx context.Context, name string) ([]types.Course, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"name": name})
	if err != nil {
		r.log.Error().Err(err).Str("name", name).Msg("unable to query courses")
		return nil, err
	}

	courses := make([]types.Course, 0)
	if err := cursor.All(ctx, &courses); err != nil {
		r.log.Error().Err(err).Msg("unable to decode courses")
		return nil, err
	}
	return courses, nil
}

func (r *CourseRepository) Create(ctx context.Context, course types.Course) (types.Course, error) {
	if course.Date.IsZero() {
		course.Date = time.Now()
	}

	result, err := r.coll.InsertOne(ctx, course)
	if err != nil {
		r.log.Error().Err(err).Msg("unable to insert course")
		return types.Course{}, err
	}
	course.ID = result.InsertedID.(primitive.ObjectID)
	return course, nil
}

// Update applies the provided fields to an existing course and returns
// the post-update document.
func (r *CourseRepository) Update(ctx context.Context, id string, params UpdateCourseParams) (types.Course, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return types.Course{}, err
	}

	set := bson.M{}
	if params.Name != nil {
		set["name"] = *params.Name
	}
	if params.Author != nil {
		set["author"] = *params.Author
	}
	if params.Tags != nil {
		set["tags"] = *params.Tags
	}
	if params.Price != nil {
		set["price"] = *params.Price
	}
	if params.IsPublished != nil {
		set["is_published"] = *params.IsPublished
	}
	if len(set) == 0 {
		return r.Get(ctx, id)
	}

	var course types.Course
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Course{}, ErrNotFound
		}
		r.log.Error().Err(err).Str("id", id).Msg("unable to update course")
		return types.Course{}, err
	}
	return course, nil
}

// Delete removes a course and returns its prior state.
func (r *CourseRepository) Delete(ctx context.Context, id string) (types.Course, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return types.Course{}, err
	}

	var course types.Course
	err = r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Course{}, ErrNotFound
		}
		r.log.Error().Err(err).Str("id", id).Msg("unable to delete course")
		return types.Course{}, err
	}
	return course, nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
