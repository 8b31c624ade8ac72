// Package directory implements the user directory: profile upsert, profile
// reads (plain and with authored threads populated), and paged search.
package directory

// Terminology: User Identifiers
//   - IdentityID / identityID: the identity provider's id; every operation
//     here addresses users by it.
//   - UserID / _id: the ObjectID threads store in "author".

import (
	"context"
	"errors"

	threadstore "github.com/dalemusser/threadhub/internal/app/store/threads"
	"github.com/dalemusser/threadhub/internal/app/store/queries/populate"
	userstore "github.com/dalemusser/threadhub/internal/app/store/users"
	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"github.com/dalemusser/threadhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/threadhub/internal/app/system/normalize"
	"github.com/dalemusser/threadhub/internal/app/system/paging"
	"github.com/dalemusser/threadhub/internal/app/system/revalidate"
	"github.com/dalemusser/threadhub/internal/app/system/timeouts"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Error prefixes. The full message is "<prefix>: <original failure>".
const (
	opUpsertUser = "Failed to update/create user"
	opFetchUser  = "Failed to fetch user"
	opUserPosts  = "Error fetching user threads"
	opSearch     = "Error fetching users"
)

type Service struct {
	users    *userstore.Store
	threads  *threadstore.Store
	populate *populate.Populator
	notify   revalidate.Notifier
	log      *zap.Logger
}

func New(db *mongo.Database, notify revalidate.Notifier, log *zap.Logger) *Service {
	return &Service{
		users:    userstore.New(db),
		threads:  threadstore.New(db),
		populate: populate.New(db),
		notify:   notify,
		log:      log,
	}
}

// UpsertUserParams is a profile save. Path is the page the save came from.
type UpsertUserParams struct {
	IdentityID string
	Username   string
	Name       string
	Bio        string
	Image      string
	Path       string
}

// UpsertUser creates or updates the profile keyed by IdentityID and marks it
// onboarded. Only saves made from the profile edit page trigger a
// revalidation signal.
func (s *Service) UpsertUser(ctx context.Context, p UpsertUserParams) error {
	if normalize.IdentityID(p.IdentityID) == "" {
		return apperr.Invalid("identity id is required")
	}
	if normalize.Username(p.Username) == "" {
		return apperr.Invalid("username is required")
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	err := s.users.Upsert(ctx, userstore.Profile{
		IdentityID: p.IdentityID,
		Username:   p.Username,
		Name:       p.Name,
		Bio:        htmlsanitize.Bio(p.Bio),
		Image:      p.Image,
	})
	if err != nil {
		return apperr.Persistence(opUpsertUser, err)
	}

	if p.Path == revalidate.ProfileEditPath {
		s.notify.Revalidate(ctx, p.Path)
	}
	return nil
}

// FetchUser returns the user or (nil, nil) when none has identityID.
func (s *Service) FetchUser(ctx context.Context, identityID string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	u, err := s.users.GetByIdentityID(ctx, identityID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Persistence(opFetchUser, err)
	}
	return u, nil
}

// FetchUserPosts returns the user with each authored thread's community and
// each reply's author populated, or (nil, nil) when the user is absent.
func (s *Service) FetchUserPosts(ctx context.Context, identityID string) (*models.UserPosts, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	u, err := s.users.GetByIdentityID(ctx, identityID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Persistence(opUserPosts, err)
	}

	docs, err := s.threads.FindByIDs(ctx, u.Threads)
	if err != nil {
		return nil, apperr.Persistence(opUserPosts, err)
	}
	views, err := s.populate.Threads(ctx, docs, populate.UserPosts)
	if err != nil {
		return nil, apperr.Persistence(opUserPosts, err)
	}
	return &models.UserPosts{User: *u, Threads: views}, nil
}

// SearchParams selects a page of users. Zero values take the defaults:
// SearchString "", PageNumber 1, PageSize 20, SortDirection "desc".
type SearchParams struct {
	IdentityID    string // the viewer; never included in results
	SearchString  string
	PageNumber    int
	PageSize      int
	SortDirection string // "asc" or "desc"
}

func (p SearchParams) withDefaults() SearchParams {
	if p.SortDirection == "" {
		p.SortDirection = "desc"
	}
	page := paging.New(p.PageNumber, p.PageSize)
	p.PageNumber, p.PageSize = page.Number, page.Size
	return p
}

// SearchResult is one page of users.
type SearchResult struct {
	Users       []models.User `json:"users"`
	HasNextPage bool          `json:"hasNextPage"`
}

// SearchUsers pages through users other than the viewer whose username or
// name contains SearchString. HasNextPage comes from a separate count of all
// matches, run concurrently with the page query.
func (s *Service) SearchUsers(ctx context.Context, p SearchParams) (SearchResult, error) {
	p = p.withDefaults()
	page := paging.New(p.PageNumber, p.PageSize)
	filter := userstore.SearchFilter(p.IdentityID, p.SearchString)

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	var (
		users []models.User
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.users.Find(gctx, filter, page, normalize.SortDirection(p.SortDirection))
		return err
	})
	g.Go(func() (err error) {
		total, err = s.users.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return SearchResult{}, apperr.Persistence(opSearch, err)
	}

	return SearchResult{
		Users:       users,
		HasNextPage: paging.HasNext(total, page, len(users)),
	}, nil
}
