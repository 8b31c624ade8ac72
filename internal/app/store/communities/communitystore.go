package communitystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/threadhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateID is returned when a community with the same external id exists.
var ErrDuplicateID = errors.New("a community with this id already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("communities")}
}

// Create inserts c. Communities are provisioned outside the feed core; this
// exists for seeding and tests.
func (s *Store) Create(ctx context.Context, c models.Community) (models.Community, error) {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	if c.Threads == nil {
		c.Threads = []primitive.ObjectID{}
	}
	if c.Members == nil {
		c.Members = []primitive.ObjectID{}
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Community{}, ErrDuplicateID
		}
		return models.Community{}, err
	}
	return c, nil
}

// GetByIdentityID looks a community up by its external id. Returns
// mongo.ErrNoDocuments when absent.
func (s *Store) GetByIdentityID(ctx context.Context, identityID string) (*models.Community, error) {
	var c models.Community
	if err := s.c.FindOne(ctx, bson.M{"id": identityID}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// AppendThread records threadID as posted into the community.
func (s *Store) AppendThread(ctx context.Context, communityID, threadID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": communityID},
		bson.M{"$push": bson.M{"threads": threadID}},
	)
	return err
}

// SummariesByIDs loads the populated projection of each community in ids.
func (s *Store) SummariesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.CommunitySummary, error) {
	out := make(map[primitive.ObjectID]models.CommunitySummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(models.CommunitySummaryProjection),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var c models.CommunitySummary
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out[c.ID] = c
	}
	return out, cur.Err()
}
