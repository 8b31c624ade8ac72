// internal/domain/models/user.go
package models

// Terminology: User Identifiers
//   - UserID / userID / _id: The MongoDB ObjectID that threads store in "author"
//   - IdentityID / identityID / id: The identity provider's id for the account

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a profile in the directory. It is created on the first profile
// save and updated on later edits; it is never deleted.
//
// NOTE:
//   - Field names are camelCase to match documents already in the store.
//   - Threads holds ids only. It is appended to by thread creation, never
//     rewritten by profile updates.
type User struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	IdentityID  string               `bson:"id" json:"id"`
	Username    string               `bson:"username" json:"username"` // stored lowercase
	Name        string               `bson:"name" json:"name"`
	Image       string               `bson:"image,omitempty" json:"image,omitempty"`
	Bio         string               `bson:"bio,omitempty" json:"bio,omitempty"`
	Onboarded   bool                 `bson:"onboarded" json:"onboarded"`
	Threads     []primitive.ObjectID `bson:"threads,omitempty" json:"threads"`
	Communities []primitive.ObjectID `bson:"communities,omitempty" json:"communities,omitempty"`

	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt"`
}

// UserSummary is the projection of a User used when it is populated into
// another document (thread authors, reply authors).
type UserSummary struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	IdentityID string             `bson:"id" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"`
}

// UserSummaryProjection selects the UserSummary fields.
var UserSummaryProjection = map[string]int{"_id": 1, "id": 1, "name": 1, "image": 1}

// UserPosts is a user with its authored threads populated.
// The embedded User.Threads keeps the raw ids; Threads holds the views.
type UserPosts struct {
	User
	Threads []ThreadView `json:"threads"`
}
