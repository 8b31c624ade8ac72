// Package activity derives a user's activity feed: replies written by other
// people on any thread the user authored.
package activity

import (
	"context"

	threadstore "github.com/dalemusser/threadhub/internal/app/store/threads"
	"github.com/dalemusser/threadhub/internal/app/store/queries/populate"
	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"github.com/dalemusser/threadhub/internal/app/system/timeouts"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const opActivity = "Error fetching activity"

type Service struct {
	threads  *threadstore.Store
	populate *populate.Populator
	log      *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Service {
	return &Service{
		threads:  threadstore.New(db),
		populate: populate.New(db),
		log:      log,
	}
}

// GetActivity returns replies by others to threads authored by userID, each
// with its author populated.
//
// Phase one loads every thread userID wrote (top-level and replies) and
// concatenates their children ids in the order found. Phase two loads those
// ids, dropping any userID wrote. Results follow the phase-one order.
func (s *Service) GetActivity(ctx context.Context, userID primitive.ObjectID) ([]models.ThreadView, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	mine, err := s.threads.FindByAuthor(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence(opActivity, err)
	}

	var childIDs []primitive.ObjectID
	for _, t := range mine {
		childIDs = append(childIDs, t.Children...)
	}
	if len(childIDs) == 0 {
		return []models.ThreadView{}, nil
	}

	replies, err := s.threads.FindRepliesExcludingAuthor(ctx, childIDs, userID)
	if err != nil {
		return nil, apperr.Persistence(opActivity, err)
	}
	views, err := s.populate.Threads(ctx, replies, populate.AuthorsOnly)
	if err != nil {
		return nil, apperr.Persistence(opActivity, err)
	}
	s.log.Debug("activity loaded",
		zap.String("user_id", userID.Hex()),
		zap.Int("own_threads", len(mine)),
		zap.Int("replies", len(views)))
	return views, nil
}
