package threadstore

import (
	"context"
	"time"

	"github.com/dalemusser/threadhub/internal/app/system/paging"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("threads")}
}

// Create inserts t with a fresh id and creation time. Children is always
// stored as an array so replies can be $push-ed onto it.
func (s *Store) Create(ctx context.Context, t models.Thread) (models.Thread, error) {
	t.ID = primitive.NewObjectID()
	t.CreatedAt = time.Now().UTC()
	t.Children = []primitive.ObjectID{}

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Thread{}, err
	}
	return t, nil
}

// GetByID returns mongo.ErrNoDocuments when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Thread, error) {
	var t models.Thread
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// AppendChild atomically adds childID to the parent's children. It reports
// whether the parent exists.
func (s *Store) AppendChild(ctx context.Context, parentID, childID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": parentID},
		bson.M{"$push": bson.M{"children": childID}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// FindByIDs returns the threads in ids, in the order of ids. Ids that do
// not resolve are skipped; a repeated id yields the thread once.
func (s *Store) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Thread, error) {
	return s.findOrdered(ctx, ids, bson.M{"_id": bson.M{"$in": ids}})
}

// FindByAuthor returns every thread (top-level and replies) authored by
// author, in natural order.
func (s *Store) FindByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Thread, error) {
	cur, err := s.c.Find(ctx, bson.M{"author": author})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Thread{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindRepliesExcludingAuthor returns the threads in ids not written by
// author, ordered by first occurrence in ids.
func (s *Store) FindRepliesExcludingAuthor(ctx context.Context, ids []primitive.ObjectID, author primitive.ObjectID) ([]models.Thread, error) {
	return s.findOrdered(ctx, ids, bson.M{
		"_id":    bson.M{"$in": ids},
		"author": bson.M{"$ne": author},
	})
}

func (s *Store) findOrdered(ctx context.Context, ids []primitive.ObjectID, filter bson.M) ([]models.Thread, error) {
	out := []models.Thread{}
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	byID := make(map[primitive.ObjectID]models.Thread, len(ids))
	for cur.Next(ctx) {
		var t models.Thread
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		byID[t.ID] = t
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
			delete(byID, id)
		}
	}
	return out, nil
}

var topLevel = bson.M{"parentId": nil}

// ListTopLevel returns one page of top-level threads, newest first.
func (s *Store) ListTopLevel(ctx context.Context, page paging.Page) ([]models.Thread, error) {
	cur, err := s.c.Find(ctx, topLevel, page.ApplyToFind(options.Find(), "createdAt", -1))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Thread{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountTopLevel counts threads that are not replies.
func (s *Store) CountTopLevel(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, topLevel)
}
