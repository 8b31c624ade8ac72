package communitystore_test

import (
	"testing"

	communitystore "github.com/dalemusser/threadhub/internal/app/store/communities"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"github.com/dalemusser/threadhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := communitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := store.Create(ctx, models.Community{IdentityID: "org_1", Name: "Gophers"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByIdentityID(ctx, "org_1")
	if err != nil {
		t.Fatalf("GetByIdentityID failed: %v", err)
	}
	if got.ID != c.ID || got.Name != "Gophers" {
		t.Errorf("unexpected community %+v", got)
	}

	if _, err := store.Create(ctx, models.Community{IdentityID: "org_1", Name: "Again"}); err != communitystore.ErrDuplicateID {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
	if _, err := store.GetByIdentityID(ctx, "org_missing"); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_AppendThreadAndSummaries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := communitystore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := fixtures.CreateCommunity(ctx, "org_1", "Gophers")
	threadID := primitive.NewObjectID()
	if err := store.AppendThread(ctx, c.ID, threadID); err != nil {
		t.Fatalf("AppendThread failed: %v", err)
	}
	got, _ := store.GetByIdentityID(ctx, "org_1")
	if len(got.Threads) != 1 || got.Threads[0] != threadID {
		t.Errorf("threads = %v", got.Threads)
	}

	sums, err := store.SummariesByIDs(ctx, []primitive.ObjectID{c.ID})
	if err != nil {
		t.Fatalf("SummariesByIDs failed: %v", err)
	}
	if s := sums[c.ID]; s.Name != "Gophers" || s.IdentityID != "org_1" {
		t.Errorf("unexpected summary %+v", s)
	}
}
