package results

import (
	"context"
	"testing"

	"github.com/apache/usergrid-sub013/cursor"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/apache/usergrid-sub013/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buckets(n, total, pageSize int) []Iterator {
	var trees []Iterator
	for b := 0; b < n; b++ {
		tree, _ := leaf(int32(b), pageSize, nil, rangeIDs(b, total, n))
		trees = append(trees, tree)
	}
	return trees
}

func TestGatherMergesBuckets(t *testing.T) {
	for _, parallelism := range []int{0, 1, 3} {
		g := NewGather(context.Background(), buckets(4, 30, 3), 5, 1, false, parallelism, nil, utils.NewDiscardLogger())
		pp := pages(t, g)
		assertPageSizes(t, pp, 5)
		assert.Equal(t, rangeIDs(0, 30, 1), flatten(pp))
	}
}

func TestGatherResume(t *testing.T) {
	g := NewGather(context.Background(), buckets(3, 10, 2), 4, 1, false, 2, nil, nil)
	page, err := g.Next()
	require.NoError(t, err)
	assert.Equal(t, seqIDs(0, 1, 2, 3), page.IDs())

	c := cursor.NewCache()
	require.NoError(t, g.FinalizeCursor(c, page.Last().ID()))
	e, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, cursor.KindID, e.Kind)
	start, err := ids.FromBytes(e.Value)
	require.NoError(t, err)

	next := NewGather(context.Background(), buckets(3, 10, 2), 4, 1, false, 2, &start, nil)
	assert.Equal(t, [][]ids.ID{seqIDs(4, 5, 6, 7), seqIDs(8, 9)}, pages(t, next))
}

func TestGatherDescending(t *testing.T) {
	g := NewGather(context.Background(), buckets(3, 10, 2), 4, 1, true, 2, nil, nil)
	assert.Equal(t, [][]ids.ID{seqIDs(9, 8, 7, 6), seqIDs(5, 4, 3, 2), seqIDs(1, 0)}, pages(t, g))

	start := seqID(6)
	next := NewGather(context.Background(), buckets(3, 10, 2), 4, 1, true, 2, &start, nil)
	assert.Equal(t, [][]ids.ID{seqIDs(5, 4, 3, 2), seqIDs(1, 0)}, pages(t, next))
}

func TestGatherCannotReset(t *testing.T) {
	g := NewGather(context.Background(), buckets(2, 4, 2), 10, 1, false, 0, nil, nil)
	_, err := g.Next()
	require.NoError(t, err)
	assert.ErrorIs(t, g.Reset(), query_errors.ErrUnsupported)
}

func TestGatherFailure(t *testing.T) {
	trees := append(buckets(2, 10, 2), failing{})
	g := NewGather(context.Background(), trees, 5, 1, false, 0, nil, nil)
	_, err := g.HasNext()
	assert.ErrorIs(t, err, query_errors.ErrScan)
}

func TestGatherCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGather(ctx, buckets(2, 10, 2), 5, 1, false, 0, nil, nil)
	_, err := g.HasNext()
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, pages(t, NewGather(context.Background(), nil, 5, 1, false, 0, nil, nil)))
}
