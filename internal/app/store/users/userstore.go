package userstore

// Terminology: User Identifiers
//   - UserID / _id: the ObjectID threads store in "author"
//   - IdentityID / id: the identity provider's id; the upsert key

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/threadhub/internal/app/system/normalize"
	"github.com/dalemusser/threadhub/internal/app/system/paging"
	"github.com/dalemusser/threadhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateUsername is returned when a profile save collides with another
// user's username.
var ErrDuplicateUsername = errors.New("a user with this username already exists")

// duplicateUsernameError keeps the driver's message and matches
// ErrDuplicateUsername via errors.Is.
type duplicateUsernameError struct {
	err error
}

func (e *duplicateUsernameError) Error() string   { return e.err.Error() }
func (e *duplicateUsernameError) Unwrap() []error { return []error{ErrDuplicateUsername, e.err} }

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Profile holds the fields a profile save writes.
type Profile struct {
	IdentityID string
	Username   string
	Name       string
	Bio        string
	Image      string
}

// Upsert updates the user keyed by IdentityID or inserts it. Every save
// marks the user onboarded. createdAt and the empty reference arrays are
// written only on insert so later $push calls never meet a null field.
func (s *Store) Upsert(ctx context.Context, p Profile) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"username":  normalize.Username(p.Username),
			"name":      normalize.Name(p.Name),
			"bio":       p.Bio,
			"image":     p.Image,
			"onboarded": true,
		},
		"$setOnInsert": bson.M{
			"createdAt":   now,
			"threads":     bson.A{},
			"communities": bson.A{},
		},
	}
	_, err := s.c.UpdateOne(ctx,
		bson.M{"id": normalize.IdentityID(p.IdentityID)},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if wafflemongo.IsDup(err) && strings.Contains(err.Error(), "username") {
			return &duplicateUsernameError{err: err}
		}
		return err
	}
	return nil
}

// GetByIdentityID returns mongo.ErrNoDocuments when absent.
func (s *Store) GetByIdentityID(ctx context.Context, identityID string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"id": normalize.IdentityID(identityID)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// AppendThread records threadID as authored by userID. A missing user is
// not an error; the thread keeps its dangling author reference.
func (s *Store) AppendThread(ctx context.Context, userID, threadID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"threads": threadID}},
	)
	return err
}

// SummariesByIDs loads the populated projection of each user in ids.
// Ids that do not resolve are absent from the map.
func (s *Store) SummariesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	out := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(models.UserSummaryProjection),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var u models.UserSummary
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, cur.Err()
}

// SearchFilter matches every user except excludeIdentityID and, when q is
// non-blank, whose username or name contains q (case-insensitive, q taken
// literally).
func SearchFilter(excludeIdentityID, q string) bson.M {
	filter := bson.M{"id": bson.M{"$ne": normalize.IdentityID(excludeIdentityID)}}
	if q = strings.TrimSpace(q); q != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"username": re},
			bson.M{"name": re},
		}
	}
	return filter
}

// Find returns one page of users matching filter ordered by createdAt
// (order 1 or -1, ties broken by _id).
func (s *Store) Find(ctx context.Context, filter bson.M, page paging.Page, order int) ([]models.User, error) {
	cur, err := s.c.Find(ctx, filter, page.ApplyToFind(options.Find(), "createdAt", order))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the number of users matching filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
