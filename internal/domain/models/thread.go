// internal/domain/models/thread.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thread is a post. A thread without ParentID is a top-level post; a thread
// with ParentID is a reply and its id is listed in the parent's Children.
type Thread struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Text      string               `bson:"text" json:"text"`
	Author    primitive.ObjectID   `bson:"author" json:"author"`
	Community *primitive.ObjectID  `bson:"community" json:"community"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	ParentID  *primitive.ObjectID  `bson:"parentId,omitempty" json:"parentId,omitempty"`
	Children  []primitive.ObjectID `bson:"children" json:"children"`
}

// IsReply reports whether the thread was created as a reply.
func (t Thread) IsReply() bool {
	return t.ParentID != nil
}

// ThreadView is a Thread with its references populated.
//
// Author and Community are nil when they were not requested or when the
// stored reference no longer resolves. Children holds populated replies when
// the read expanded them; otherwise ChildIDs carries the raw reply ids.
type ThreadView struct {
	ID        primitive.ObjectID   `json:"_id"`
	Text      string               `json:"text"`
	AuthorID  primitive.ObjectID   `json:"authorId"`
	Author    *UserSummary         `json:"author"`
	Community *CommunitySummary    `json:"community"`
	CreatedAt time.Time            `json:"createdAt"`
	ParentID  *primitive.ObjectID  `json:"parentId,omitempty"`
	Children  []ThreadView         `json:"children,omitempty"`
	ChildIDs  []primitive.ObjectID `json:"childIds,omitempty"`
}
