package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures inserts documents directly, bypassing the stores, so tests of a
// store or service do not depend on the code under test for setup.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts an onboarded user. createdAt is offset by the number of
// users already present so search ordering is deterministic.
func (f *Fixtures) CreateUser(ctx context.Context, identityID, username, name string) models.User {
	f.t.Helper()

	n, err := f.db.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		f.t.Fatalf("count users: %v", err)
	}
	u := models.User{
		ID:          primitive.NewObjectID(),
		IdentityID:  identityID,
		Username:    username,
		Name:        name,
		Image:       "https://img.example/" + username + ".png",
		Onboarded:   true,
		Threads:     []primitive.ObjectID{},
		Communities: []primitive.ObjectID{},
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Minute),
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateCommunity inserts a community with the given external id.
func (f *Fixtures) CreateCommunity(ctx context.Context, identityID, name string) models.Community {
	f.t.Helper()

	c := models.Community{
		ID:         primitive.NewObjectID(),
		IdentityID: identityID,
		Name:       name,
		Image:      "https://img.example/c/" + identityID + ".png",
		Threads:    []primitive.ObjectID{},
		Members:    []primitive.ObjectID{},
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := f.db.Collection("communities").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test community: %v", err)
	}
	return c
}

// CreateThread inserts a top-level thread and links it to its author.
func (f *Fixtures) CreateThread(ctx context.Context, author primitive.ObjectID, text string, community *primitive.ObjectID) models.Thread {
	f.t.Helper()

	th := models.Thread{
		ID:        primitive.NewObjectID(),
		Text:      text,
		Author:    author,
		Community: community,
		CreatedAt: time.Now().UTC(),
		Children:  []primitive.ObjectID{},
	}
	if _, err := f.db.Collection("threads").InsertOne(ctx, th); err != nil {
		f.t.Fatalf("failed to create test thread: %v", err)
	}
	if _, err := f.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": author}, bson.M{"$push": bson.M{"threads": th.ID}}); err != nil {
		f.t.Fatalf("failed to link thread to author: %v", err)
	}
	return th
}

// CreateReply inserts a reply to parent and appends it to parent.children.
func (f *Fixtures) CreateReply(ctx context.Context, parent primitive.ObjectID, author primitive.ObjectID, text string) models.Thread {
	f.t.Helper()

	th := models.Thread{
		ID:        primitive.NewObjectID(),
		Text:      text,
		Author:    author,
		CreatedAt: time.Now().UTC(),
		ParentID:  &parent,
		Children:  []primitive.ObjectID{},
	}
	if _, err := f.db.Collection("threads").InsertOne(ctx, th); err != nil {
		f.t.Fatalf("failed to create test reply: %v", err)
	}
	if _, err := f.db.Collection("threads").UpdateOne(ctx,
		bson.M{"_id": parent}, bson.M{"$push": bson.M{"children": th.ID}}); err != nil {
		f.t.Fatalf("failed to link reply to parent: %v", err)
	}
	return th
}

// CountThreads returns the number of thread documents.
func (f *Fixtures) CountThreads(ctx context.Context) int64 {
	f.t.Helper()
	n, err := f.db.Collection("threads").CountDocuments(ctx, bson.M{})
	if err != nil {
		f.t.Fatalf("count threads: %v", err)
	}
	return n
}
