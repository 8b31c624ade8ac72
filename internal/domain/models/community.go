// internal/domain/models/community.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Community groups threads. Threads reference a community; the community
// keeps the ids of threads posted into it.
type Community struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	IdentityID string               `bson:"id" json:"id"`
	Username   string               `bson:"username,omitempty" json:"username,omitempty"`
	Name       string               `bson:"name" json:"name"`
	Image      string               `bson:"image,omitempty" json:"image,omitempty"`
	Bio        string               `bson:"bio,omitempty" json:"bio,omitempty"`
	CreatedBy  *primitive.ObjectID  `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	Threads    []primitive.ObjectID `bson:"threads" json:"threads"`
	Members    []primitive.ObjectID `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt"`
}

// CommunitySummary is the projection of a Community populated into threads.
type CommunitySummary struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	IdentityID string             `bson:"id" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"`
}

// CommunitySummaryProjection selects the CommunitySummary fields.
var CommunitySummaryProjection = map[string]int{"_id": 1, "id": 1, "name": 1, "image": 1}
