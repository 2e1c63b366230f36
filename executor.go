// Package usergrid executes compiled entity queries against the sharded
// index store, one page at a time, resumable through opaque page tokens.
package usergrid

import (
	"context"
	"time"

	"github.com/apache/usergrid-sub013/cursor"
	"github.com/apache/usergrid-sub013/entities"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/plan"
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/apache/usergrid-sub013/results"
	"github.com/apache/usergrid-sub013/shard"
	"github.com/apache/usergrid-sub013/store"
	"github.com/apache/usergrid-sub013/utils"
	"github.com/pkg/errors"
)

// Query is one page request over a collection of Owner or, with
// Connection set, over the entities Owner is connected to by Name.
type Query struct {
	App        ids.ID
	Owner      ids.ID
	Name       string
	Connection bool
	// connections to entities of this type only
	TargetType string
	Root       plan.Node
	// page size, Options.DefaultLimit when zero
	Limit int
	// token of the previous page, empty for the first one
	Cursor string
}

func (q *Query) scope() store.Scope {
	typ := shard.IndexCollection
	if q.Connection {
		typ = shard.IndexConnection
	}
	return store.Scope{App: q.App, Owner: q.Owner, Type: typ, Name: q.Name}
}

type Page struct {
	IDs []ids.ID
	// empty on the last page
	Cursor string
}

type Executor struct {
	store   *store.Store
	locator *shard.Locator
	opts    Options
	log     utils.Logger
}

func NewExecutor(s *store.Store, opts Options) *Executor {
	opts.SetDefaults()
	return &Executor{
		store:   s,
		locator: shard.NewLocator(opts.Buckets),
		opts:    opts,
		log:     opts.Logger,
	}
}

// Locator is the bucket function queries are built with; writers must share it.
func (e *Executor) Locator() *shard.Locator {
	return e.locator
}

func (e *Executor) limit(q *Query) int {
	switch {
	case q.Limit <= 0:
		return e.opts.DefaultLimit
	case q.Limit > e.opts.MaxLimit:
		return e.opts.MaxLimit
	}
	return q.Limit
}

// Execute returns the next page of q. Each call builds and owns its own
// iterator tree.
func (e *Executor) Execute(ctx context.Context, q Query) (page *Page, err error) {
	if q.Root == nil {
		return nil, errors.Wrap(query_errors.ErrBadQuery, "query without a root node")
	}
	ctx = utils.WithDefaultArgs(ctx, "app", q.App.String(), "scope", q.Name)
	started := time.Now()
	kind := "none"
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		QueryDuration.WithLabelValues(kind, result).Observe(time.Since(started).Seconds())
	}()

	inbound, err := cursor.Decode(q.Cursor)
	if err != nil {
		return nil, err
	}
	limit := e.limit(&q)
	b := plan.NewBuilder(plan.Env{
		Scope:      q.scope(),
		TargetType: q.TargetType,
		PageSize:   limit,
		Cursors:    inbound,
		Store:      e.store,
		Locator:    e.locator,
		Loader:     entities.NewStoreLoader(e.store, q.App, e.opts.FieldCacheSize),
	})
	root, how, err := e.tree(ctx, b, q.Root, limit)
	if err != nil {
		return nil, err
	}
	kind = how
	list, err := collect(ctx, root, limit)
	if err != nil {
		return nil, err
	}
	page = &Page{IDs: list}
	if len(list) == limit {
		outbound := cursor.NewCache()
		if err = root.FinalizeCursor(outbound, list[len(list)-1]); err != nil {
			return nil, err
		}
		page.Cursor = cursor.Encode(outbound)
	}
	QueryPages.WithLabelValues(kind, cursorLabel(page.Cursor)).Inc()
	e.log.DebugCtx(ctx, "query executed", "plan", kind, "limit", limit, "ids", len(list),
		"resumed", q.Cursor != "", "more", page.Cursor != "", "took", time.Since(started))
	return page, nil
}

func cursorLabel(token string) string {
	if token == "" {
		return "last"
	}
	return "more"
}

// tree builds the root iterator: the bucket tree itself for a single
// bucket, otherwise one tree per bucket under an OrderBy over their union
// or under the gather stage.
func (e *Executor) tree(ctx context.Context, b *plan.Builder, n plan.Node, limit int) (results.Iterator, string, error) {
	buckets := e.locator.All()
	if len(buckets) == 1 {
		root, err := b.Build(n, buckets[0])
		return root, "single", err
	}
	if ob, ok := n.(*plan.OrderBy); ok {
		candidates := make([]results.Iterator, 0, len(buckets))
		for _, bucket := range buckets {
			it, err := b.Candidates(ob, bucket)
			if err != nil {
				return nil, "", err
			}
			candidates = append(candidates, it)
		}
		root, err := b.OrderBy(ob, results.NewUnion(candidates, limit, plan.GatherHash(), false, nil))
		return root, "order_by", err
	}
	trees := make([]results.Iterator, 0, len(buckets))
	for _, bucket := range buckets {
		it, err := b.Build(n, bucket)
		if err != nil {
			return nil, "", err
		}
		trees = append(trees, it)
	}
	after, err := b.IDCursor(plan.GatherHash())
	if err != nil {
		return nil, "", err
	}
	return results.NewGather(ctx, trees, limit, plan.GatherHash(), plan.Reversed(n), e.opts.GatherParallelism, after, e.log), "gather", nil
}

// collect pulls pages until limit ids are in. Only a leaf can hand out a
// short page before it is exhausted, and cutting a leaf page is safe for
// its cursor.
func collect(ctx context.Context, root results.Iterator, limit int) ([]ids.ID, error) {
	list := make([]ids.ID, 0, limit)
	for len(list) < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := root.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		page, err := root.Next()
		if err != nil {
			return nil, err
		}
		for _, id := range page.IDs() {
			if len(list) == limit {
				break
			}
			list = append(list, id)
		}
	}
	return list, nil
}
