package results

import (
	"context"
	"sync"

	"github.com/apache/usergrid-sub013/cursor"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/apache/usergrid-sub013/scan"
	"github.com/apache/usergrid-sub013/utils"
	"golang.org/x/sync/errgroup"
)

// GatherIterator runs one tree per shard bucket concurrently and merges
// their output by id like a union, ascending or descending. Each child is owned by one goroutine.
// It is the top of a query and cannot be reset.
type GatherIterator struct {
	mergeIterator
	ctx         context.Context
	children    []Iterator
	hash        int32
	parallelism int
	log         utils.Logger

	mu   sync.Mutex
	list *sortedList
}

// NewGather starts after min when it is set, in descending id order when
// reversed. parallelism caps how many child trees are drained at once; zero
// means all of them.
func NewGather(ctx context.Context, children []Iterator, pageSize int, hash int32, reversed bool, parallelism int, min *ids.ID, log utils.Logger) *GatherIterator {
	if log == nil {
		log = utils.NewDiscardLogger()
	}
	g := &GatherIterator{
		ctx:         ctx,
		children:    children,
		hash:        hash,
		parallelism: parallelism,
		log:         log,
		list:        newSortedList(pageSize, reversed, min),
	}
	g.init("gather", g)
	return g
}

func (g *GatherIterator) drain(ctx context.Context, child Iterator) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := child.HasNext()
		if err != nil {
			return err
		}
		if !ok {
			return child.Reset()
		}
		page, err := child.Next()
		if err != nil {
			return err
		}
		g.mu.Lock()
		g.list.addAll(page)
		g.mu.Unlock()
	}
}

func (g *GatherIterator) advance() (*scan.Set, error) {
	if len(g.children) == 0 {
		return nil, nil
	}
	g.list.clear()
	eg, ctx := errgroup.WithContext(g.ctx)
	if g.parallelism > 0 {
		eg.SetLimit(g.parallelism)
	}
	for i, child := range g.children {
		i, child := i, child
		eg.Go(func() error {
			err := g.drain(ctx, child)
			if err != nil {
				gatherFailures.Inc()
				g.log.WarnCtx(ctx, "gather: bucket tree failed", "bucket", i, "err", err)
			}
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	g.list.advanceMark()
	return g.list.set(), nil
}

func (g *GatherIterator) doReset() error {
	return query_errors.ErrUnsupported
}

// Reset always fails: the children were consumed concurrently.
func (g *GatherIterator) Reset() error {
	return query_errors.ErrUnsupported
}

func (g *GatherIterator) FinalizeCursor(c *cursor.Cache, last ids.ID) error {
	c.Set(g.hash, cursor.KindID, last[:])
	return nil
}
