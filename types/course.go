package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course represents a single course document in the coursedb system.
type Course struct {
	// ID is the store-assigned unique identifier of the course.
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// Name is the human-readable name of the course. Names are not
	// unique; several courses may share one.
	Name string `json:"name" bson:"name"`

	// Author is the name of the course author.
	Author string `json:"author" bson:"author"`

	// Tags are free-form labels associated with the course, used for
	// categorization and search. Order is preserved.
	Tags []string `json:"tags" bson:"tags"`

	// Date is the timestamp at which the course was created. Defaults
	// to the creation time when not supplied.
	Date time.Time `json:"date" bson:"date"`

	// Price is the course price. Required only for published courses.
	Price float64 `json:"price" bson:"price"`

	// IsPublished indicates whether the course is visible for sale.
	IsPublished bool `json:"is_published" bson:"is_published"`
}
