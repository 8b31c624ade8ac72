// internal/app/system/validators/validators.go
package validators

// Terminology: Identifiers
//   - ID / _id: the MongoDB ObjectID of a document; threads reference users
//     and communities by this value.
//   - IdentityID / id: the string issued by the external identity provider
//     (users) or the community provider (communities).

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the collections (if missing) and attaches JSON-Schema
// validators. Deployments that reject collMod/validators are logged and
// skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("threads", threadsSchema())
	ensure("communities", communitiesSchema())

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection returns created==true only if this call created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	if exists, listErr := collectionExists(ctx, db, name); listErr == nil && exists {
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandErrorMatches(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErrorMatches(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandErrorMatches(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandErrorMatches(err, 115, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func idArray() bson.M {
	return bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"id", "username"},
			"properties": bson.M{
				"id":          nonBlank,
				"username":    nonBlank,
				"name":        bson.M{"bsonType": "string"},
				"image":       bson.M{"bsonType": bson.A{"string", "null"}},
				"bio":         bson.M{"bsonType": bson.A{"string", "null"}},
				"onboarded":   bson.M{"bsonType": "bool"},
				"threads":     idArray(),
				"communities": idArray(),
				"createdAt":   bson.M{"bsonType": "date"},
			},
		},
	}
}

func threadsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"text", "author"},
			"properties": bson.M{
				"text":      nonBlank,
				"author":    bson.M{"bsonType": "objectId"},
				"community": bson.M{"bsonType": bson.A{"objectId", "null"}},
				"parentId":  bson.M{"bsonType": bson.A{"objectId", "null"}},
				"children":  idArray(),
				"createdAt": bson.M{"bsonType": "date"},
			},
		},
	}
}

func communitiesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"id", "name"},
			"properties": bson.M{
				"id":        nonBlank,
				"name":      nonBlank,
				"username":  bson.M{"bsonType": "string"},
				"image":     bson.M{"bsonType": bson.A{"string", "null"}},
				"createdBy": bson.M{"bsonType": bson.A{"objectId", "null"}},
				"threads":   idArray(),
				"members":   idArray(),
			},
		},
	}
}
