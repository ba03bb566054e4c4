package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account in the system.
type User struct {
	// ID is the store-assigned unique identifier of the user.
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// Username is the unique login name chosen by the user. Uniqueness
	// is enforced by a unique index on the users collection.
	Username string `json:"username" bson:"username"`

	// PasswordHash stores the bcrypt digest of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" bson:"password_hash"`

	// Role is a free-form role label (e.g., "teacher", "student").
	Role string `json:"role,omitempty" bson:"role,omitempty"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// PublicUser is the projection of a user exposed on public profile
// lookups. The identifier, credentials, and internal fields are stripped.
type PublicUser struct {
	Username  string    `json:"username" bson:"username"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
