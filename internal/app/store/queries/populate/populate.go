// internal/app/store/queries/populate/populate.go
//
// Package populate turns stored threads into views by resolving their
// author and community references (and, when asked, their replies). Each
// call builds its own batched loaders, so one call issues at most one users
// query and one communities query per tree level, and nothing is cached
// across calls.
package populate

import (
	"context"
	"time"

	communitystore "github.com/dalemusser/threadhub/internal/app/store/communities"
	threadstore "github.com/dalemusser/threadhub/internal/app/store/threads"
	userstore "github.com/dalemusser/threadhub/internal/app/store/users"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"github.com/graph-gophers/dataloader"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// Plan says which references to resolve. A nil Children leaves replies as
// raw ids (ThreadView.ChildIDs).
type Plan struct {
	Author    bool
	Community bool
	Children  *Plan
}

// OneLevel is the thread-page shape: author and community on the thread and
// on each direct reply; grandchildren stay as ids.
var OneLevel = Plan{Author: true, Community: true, Children: &Plan{Author: true, Community: true}}

// UserPosts is the profile shape: community on each authored thread, and
// each reply with its author.
var UserPosts = Plan{Community: true, Children: &Plan{Author: true}}

// AuthorsOnly resolves only the author.
var AuthorsOnly = Plan{Author: true}

type Populator struct {
	users       *userstore.Store
	communities *communitystore.Store
	threads     *threadstore.Store
}

func New(db *mongo.Database) *Populator {
	return &Populator{
		users:       userstore.New(db),
		communities: communitystore.New(db),
		threads:     threadstore.New(db),
	}
}

// Threads returns one view per thread, in input order.
func (p *Populator) Threads(ctx context.Context, threads []models.Thread, plan Plan) ([]models.ThreadView, error) {
	r := &run{
		p:           p,
		users:       dataloader.NewBatchedLoader(p.userBatch, dataloader.WithWait(time.Millisecond)),
		communities: dataloader.NewBatchedLoader(p.communityBatch, dataloader.WithWait(time.Millisecond)),
	}
	return r.views(ctx, threads, plan)
}

// Thread is Threads for a single thread.
func (p *Populator) Thread(ctx context.Context, t models.Thread, plan Plan) (*models.ThreadView, error) {
	views, err := p.Threads(ctx, []models.Thread{t}, plan)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

type run struct {
	p           *Populator
	users       *dataloader.Loader
	communities *dataloader.Loader
}

func (r *run) views(ctx context.Context, threads []models.Thread, plan Plan) ([]models.ThreadView, error) {
	out := make([]models.ThreadView, len(threads))
	for i, t := range threads {
		out[i] = models.ThreadView{
			ID:        t.ID,
			Text:      t.Text,
			AuthorID:  t.Author,
			CreatedAt: t.CreatedAt,
			ParentID:  t.ParentID,
		}
	}

	var (
		authors     map[primitive.ObjectID]models.UserSummary
		communities map[primitive.ObjectID]models.CommunitySummary
		children    map[primitive.ObjectID]models.ThreadView
	)

	g, gctx := errgroup.WithContext(ctx)
	if plan.Author {
		g.Go(func() (err error) {
			authors, err = loadSummaries[models.UserSummary](gctx, r.users, authorIDs(threads))
			return err
		})
	}
	if plan.Community {
		g.Go(func() (err error) {
			communities, err = loadSummaries[models.CommunitySummary](gctx, r.communities, communityIDs(threads))
			return err
		})
	}
	if plan.Children != nil {
		g.Go(func() (err error) {
			children, err = r.children(gctx, threads, *plan.Children)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, t := range threads {
		v := &out[i]
		if a, ok := authors[t.Author]; ok {
			v.Author = &a
		}
		if t.Community != nil {
			if c, ok := communities[*t.Community]; ok {
				v.Community = &c
			}
		}
		if plan.Children == nil {
			v.ChildIDs = t.Children
			continue
		}
		v.Children = make([]models.ThreadView, 0, len(t.Children))
		for _, id := range t.Children {
			if cv, ok := children[id]; ok {
				v.Children = append(v.Children, cv)
			}
		}
	}
	return out, nil
}

// children loads every reply of threads in one query and populates them
// with plan.
func (r *run) children(ctx context.Context, threads []models.Thread, plan Plan) (map[primitive.ObjectID]models.ThreadView, error) {
	var ids []primitive.ObjectID
	for _, t := range threads {
		ids = append(ids, t.Children...)
	}
	docs, err := r.p.threads.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	views, err := r.views(ctx, docs, plan)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]models.ThreadView, len(views))
	for _, v := range views {
		out[v.ID] = v
	}
	return out, nil
}

func authorIDs(threads []models.Thread) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(threads))
	for _, t := range threads {
		ids = append(ids, t.Author)
	}
	return ids
}

func communityIDs(threads []models.Thread) []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, t := range threads {
		if t.Community != nil {
			ids = append(ids, *t.Community)
		}
	}
	return ids
}

func keys(ids []primitive.ObjectID) dataloader.Keys {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	hex := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			hex = append(hex, id.Hex())
		}
	}
	return dataloader.NewKeysFromStrings(hex)
}

// loadSummaries resolves ids through l. Unresolved ids are absent from the
// result.
func loadSummaries[T any](ctx context.Context, l *dataloader.Loader, ids []primitive.ObjectID) (map[primitive.ObjectID]T, error) {
	out := map[primitive.ObjectID]T{}
	ks := keys(ids)
	if len(ks) == 0 {
		return out, nil
	}
	data, errs := l.LoadMany(ctx, ks)()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	for i, d := range data {
		s, ok := d.(T)
		if !ok {
			continue
		}
		id, _ := primitive.ObjectIDFromHex(ks[i].String())
		out[id] = s
	}
	return out, nil
}

/* ------------------------------ batch functions ------------------------------ */

func batchIDs(ks dataloader.Keys) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(ks))
	for _, k := range ks {
		if id, err := primitive.ObjectIDFromHex(k.String()); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func failAll(n int, err error) []*dataloader.Result {
	results := make([]*dataloader.Result, n)
	for i := range results {
		results[i] = &dataloader.Result{Error: err}
	}
	return results
}

func (p *Populator) userBatch(ctx context.Context, ks dataloader.Keys) []*dataloader.Result {
	found, err := p.users.SummariesByIDs(ctx, batchIDs(ks))
	if err != nil {
		return failAll(len(ks), err)
	}
	results := make([]*dataloader.Result, len(ks))
	for i, k := range ks {
		results[i] = &dataloader.Result{}
		if id, err := primitive.ObjectIDFromHex(k.String()); err == nil {
			if s, ok := found[id]; ok {
				results[i].Data = s
			}
		}
	}
	return results
}

func (p *Populator) communityBatch(ctx context.Context, ks dataloader.Keys) []*dataloader.Result {
	found, err := p.communities.SummariesByIDs(ctx, batchIDs(ks))
	if err != nil {
		return failAll(len(ks), err)
	}
	results := make([]*dataloader.Result, len(ks))
	for i, k := range ks {
		results[i] = &dataloader.Result{}
		if id, err := primitive.ObjectIDFromHex(k.String()); err == nil {
			if c, ok := found[id]; ok {
				results[i].Data = c
			}
		}
	}
	return results
}
