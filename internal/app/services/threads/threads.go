// Package threads implements thread creation, replies, and thread reads.
package threads

import (
	"context"
	"errors"

	communitystore "github.com/dalemusser/threadhub/internal/app/store/communities"
	threadstore "github.com/dalemusser/threadhub/internal/app/store/threads"
	"github.com/dalemusser/threadhub/internal/app/store/queries/populate"
	userstore "github.com/dalemusser/threadhub/internal/app/store/users"
	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"github.com/dalemusser/threadhub/internal/app/system/normalize"
	"github.com/dalemusser/threadhub/internal/app/system/paging"
	"github.com/dalemusser/threadhub/internal/app/system/revalidate"
	"github.com/dalemusser/threadhub/internal/app/system/timeouts"
	"github.com/dalemusser/threadhub/internal/app/system/txn"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	opCreate  = "Failed to create thread"
	opComment = "Error adding comment to thread"
	opFetch   = "Error fetching thread"
	opList    = "Error fetching threads"
)

var (
	errThreadNotFound    = apperr.NotFound("thread", "Thread not found")
	errCommunityNotFound = apperr.NotFound("community", "Community not found")
)

type Service struct {
	client      *mongo.Client
	threads     *threadstore.Store
	users       *userstore.Store
	communities *communitystore.Store
	populate    *populate.Populator
	notify      revalidate.Notifier
	log         *zap.Logger
}

func New(db *mongo.Database, notify revalidate.Notifier, log *zap.Logger) *Service {
	return &Service{
		client:      db.Client(),
		threads:     threadstore.New(db),
		users:       userstore.New(db),
		communities: communitystore.New(db),
		populate:    populate.New(db),
		notify:      notify,
		log:         log,
	}
}

// CreateThreadParams is a new top-level post.
type CreateThreadParams struct {
	Text        string
	AuthorID    primitive.ObjectID // the author's _id
	CommunityID string             // external community id; empty for none
	Path        string             // page to revalidate
}

// CreateThread stores a top-level thread and links it to its author (and
// community, when given). The author is not checked for existence.
func (s *Service) CreateThread(ctx context.Context, p CreateThreadParams) (*models.Thread, error) {
	if normalize.Text(p.Text) == "" {
		return nil, apperr.Invalid("thread text is required")
	}
	if p.AuthorID.IsZero() {
		return nil, apperr.Invalid("author id is required")
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), s.log, "create thread")
	defer cancel()

	var community *models.Community
	if p.CommunityID != "" {
		c, err := s.communities.GetByIdentityID(ctx, p.CommunityID)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errCommunityNotFound
		}
		if err != nil {
			return nil, apperr.Persistence(opCreate, err)
		}
		community = c
	}

	var created models.Thread
	err := txn.Run(ctx, s.client, s.log, func(ctx context.Context) error {
		t := models.Thread{Text: p.Text, Author: p.AuthorID}
		if community != nil {
			t.Community = &community.ID
		}
		var err error
		if created, err = s.threads.Create(ctx, t); err != nil {
			return err
		}
		if err := s.users.AppendThread(ctx, p.AuthorID, created.ID); err != nil {
			return err
		}
		if community != nil {
			return s.communities.AppendThread(ctx, community.ID, created.ID)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Persistence(opCreate, err)
	}

	s.log.Debug("thread created",
		zap.String("thread_id", created.ID.Hex()),
		zap.String("author", p.AuthorID.Hex()))
	s.notify.Revalidate(ctx, p.Path)
	return &created, nil
}

// AddCommentToThread stores a reply to threadID and appends it to the
// parent's children. A missing parent is a NotFoundError and nothing is
// written.
func (s *Service) AddCommentToThread(ctx context.Context, threadID primitive.ObjectID, text string, authorID primitive.ObjectID, path string) (*models.Thread, error) {
	if normalize.Text(text) == "" {
		return nil, apperr.Invalid("comment text is required")
	}
	if authorID.IsZero() {
		return nil, apperr.Invalid("author id is required")
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), s.log, "add comment")
	defer cancel()

	if _, err := s.threads.GetByID(ctx, threadID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errThreadNotFound
		}
		return nil, apperr.Persistence(opComment, err)
	}

	var reply models.Thread
	err := txn.Run(ctx, s.client, s.log, func(ctx context.Context) error {
		parent := threadID
		var err error
		if reply, err = s.threads.Create(ctx, models.Thread{Text: text, Author: authorID, ParentID: &parent}); err != nil {
			return err
		}
		ok, err := s.threads.AppendChild(ctx, threadID, reply.ID)
		if err != nil {
			return err
		}
		if !ok {
			return errThreadNotFound
		}
		return nil
	})
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, apperr.Persistence(opComment, err)
	}

	s.log.Debug("comment added",
		zap.String("thread_id", threadID.Hex()),
		zap.String("reply_id", reply.ID.Hex()))
	s.notify.Revalidate(ctx, path)
	return &reply, nil
}

// FetchThreadByID returns the thread with its author, community, and direct
// replies populated (each reply with its own author and community). Deeper
// replies are left as ids. (nil, nil) when absent.
func (s *Service) FetchThreadByID(ctx context.Context, threadID primitive.ObjectID) (*models.ThreadView, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	t, err := s.threads.GetByID(ctx, threadID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Persistence(opFetch, err)
	}
	v, err := s.populate.Thread(ctx, *t, populate.OneLevel)
	if err != nil {
		return nil, apperr.Persistence(opFetch, err)
	}
	return v, nil
}

// ThreadPage is one page of the top-level feed.
type ThreadPage struct {
	Threads     []models.ThreadView `json:"threads"`
	HasNextPage bool                `json:"hasNextPage"`
}

// FetchThreads pages through top-level threads, newest first, populated
// like FetchThreadByID.
func (s *Service) FetchThreads(ctx context.Context, pageNumber, pageSize int) (ThreadPage, error) {
	page := paging.New(pageNumber, pageSize)

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	var (
		docs  []models.Thread
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		docs, err = s.threads.ListTopLevel(gctx, page)
		return err
	})
	g.Go(func() (err error) {
		total, err = s.threads.CountTopLevel(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return ThreadPage{}, apperr.Persistence(opList, err)
	}

	views, err := s.populate.Threads(ctx, docs, populate.OneLevel)
	if err != nil {
		return ThreadPage{}, apperr.Persistence(opList, err)
	}
	return ThreadPage{Threads: views, HasNextPage: paging.HasNext(total, page, len(docs))}, nil
}
