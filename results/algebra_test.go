package results

import (
	"slices"
	"testing"

	"github.com/apache/usergrid-sub013/cursor"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/apache/usergrid-sub013/shard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPageSizes(t *testing.T, pp [][]ids.ID, pageSize int) {
	for _, p := range pp {
		assert.LessOrEqual(t, len(p), pageSize)
	}
}

func TestIntersection(t *testing.T) {
	evens, _ := leaf(1, 3, nil, rangeIDs(0, 40, 2))
	threes, _ := leaf(2, 4, nil, rangeIDs(0, 40, 3))
	pp := pages(t, NewIntersection([]Iterator{evens, threes}, 4))
	assertPageSizes(t, pp, 4)
	assert.Equal(t, rangeIDs(0, 40, 6), flatten(pp))
}

func TestIntersectionIgnoresChildOrder(t *testing.T) {
	others := rangeIDs(0, 40, 3)
	slices.Reverse(others)
	driver, _ := leaf(1, 5, nil, rangeIDs(0, 40, 2))
	other, _ := leaf(2, 2, nil, others)
	pp := pages(t, NewIntersection([]Iterator{driver, other}, 3))
	assertPageSizes(t, pp, 3)
	assert.Equal(t, rangeIDs(0, 40, 6), flatten(pp))
}

func TestIntersectionCarriesSurplus(t *testing.T) {
	a, _ := leaf(1, 10, nil, rangeIDs(0, 10, 1))
	b, _ := leaf(2, 10, nil, rangeIDs(0, 10, 1))
	it := NewIntersection([]Iterator{a, b}, 3)

	page, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, seqIDs(0, 1, 2), page.IDs())
	c := cursor.NewCache()
	require.NoError(t, it.FinalizeCursor(c, seqID(2)))
	assert.Equal(t, seqID(2).Bytes(), c.Value(1))

	rest := pages(t, it)
	assert.Equal(t, [][]ids.ID{seqIDs(3, 4, 5), seqIDs(6, 7, 8), seqIDs(9)}, rest)
}

func TestIntersectionShortCircuits(t *testing.T) {
	a, _ := leaf(1, 3, nil, seqIDs(1, 2, 3))
	b, _ := leaf(2, 3, nil, seqIDs(4, 5))
	c, sc := leaf(3, 3, nil, seqIDs(1, 2, 3))
	assert.Empty(t, pages(t, NewIntersection([]Iterator{a, b, c}, 3)))
	assert.Equal(t, 0, sc.nexts)
}

func TestIntersectionSingleChild(t *testing.T) {
	a, _ := leaf(1, 2, nil, seqIDs(1, 2, 3))
	assert.Equal(t, [][]ids.ID{seqIDs(1, 2), seqIDs(3)}, pages(t, NewIntersection([]Iterator{a}, 2)))
	assert.Empty(t, pages(t, NewIntersection(nil, 2)))
}

func TestUnionBounded(t *testing.T) {
	a, _ := leaf(1, 2, nil, rangeIDs(0, 20, 2))
	b, _ := leaf(2, 3, nil, rangeIDs(0, 20, 3))
	c, _ := leaf(3, 4, nil, rangeIDs(15, 25, 1))
	pp := pages(t, NewUnion([]Iterator{a, b, c}, 4, 9, false, nil))
	assertPageSizes(t, pp, 4)

	var want []ids.ID
	for i := 0; i < 25; i++ {
		if i%2 == 0 || i%3 == 0 || i >= 15 {
			want = append(want, seqID(i))
		}
	}
	assert.Equal(t, want, flatten(pp))
}

func TestUnionReversedAndBound(t *testing.T) {
	a, _ := leaf(1, 2, nil, seqIDs(1, 3, 5))
	b, _ := leaf(2, 2, nil, seqIDs(2, 4))
	min := seqID(4)
	pp := pages(t, NewUnion([]Iterator{a, b}, 2, 9, true, &min))
	assert.Equal(t, [][]ids.ID{seqIDs(3, 2), seqIDs(1)}, pp)

	assert.Empty(t, pages(t, NewUnion(nil, 2, 9, false, nil)))
}

func TestUnionCursor(t *testing.T) {
	a, _ := leaf(1, 2, nil, seqIDs(1, 3, 5))
	u := NewUnion([]Iterator{a}, 2, 9, false, nil)
	page, err := u.Next()
	require.NoError(t, err)
	c := cursor.NewCache()
	require.NoError(t, u.FinalizeCursor(c, page.Last().ID()))
	e, ok := c.Get(9)
	require.True(t, ok)
	assert.Equal(t, cursor.KindID, e.Kind)
	assert.Equal(t, seqID(3).Bytes(), e.Value)
	assert.False(t, c.Has(1))
}

func TestSubtraction(t *testing.T) {
	keep, _ := leaf(1, 3, nil, rangeIDs(0, 30, 1))
	sub, subScan := leaf(2, 4, nil, rangeIDs(0, 30, 3))
	pp := pages(t, NewSubtraction(keep, sub, 5))
	assertPageSizes(t, pp, 5)

	var want []ids.ID
	for i := 0; i < 30; i++ {
		if i%3 != 0 {
			want = append(want, seqID(i))
		}
	}
	assert.Equal(t, want, flatten(pp))
	// one reset per keep page
	assert.Equal(t, 10, subScan.resets)
}

func TestSubtractionCursorFromKeep(t *testing.T) {
	keep, _ := leaf(1, 10, nil, seqIDs(1, 2, 3, 4, 5))
	sub, _ := leaf(2, 10, nil, seqIDs(2))
	it := NewSubtraction(keep, sub, 2)
	page, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, seqIDs(1, 3), page.IDs())
	c := cursor.NewCache()
	require.NoError(t, it.FinalizeCursor(c, seqID(3)))
	assert.Equal(t, seqID(3).Bytes(), c.Value(1))
	assert.False(t, c.Has(2))
}

func TestNestedAlgebra(t *testing.T) {
	// (evens AND threes) OR fives, minus sevens
	evens, _ := leaf(1, 4, nil, rangeIDs(0, 60, 2))
	threes, _ := leaf(2, 4, nil, rangeIDs(0, 60, 3))
	fives, _ := leaf(3, 4, nil, rangeIDs(0, 60, 5))
	sevens, _ := leaf(4, 4, nil, rangeIDs(0, 60, 7))
	tree := NewSubtraction(
		NewUnion([]Iterator{NewIntersection([]Iterator{evens, threes}, 4), fives}, 4, 5, false, nil),
		sevens, 4)
	var want []ids.ID
	for i := 0; i < 60; i++ {
		if (i%6 == 0 || i%5 == 0) && i%7 != 0 {
			want = append(want, seqID(i))
		}
	}
	assert.Equal(t, want, flatten(pages(t, tree)))
}

type failing struct{ EmptyIterator }

func (failing) HasNext() (bool, error) { return false, query_errors.ErrScan }

func TestChildErrorsPropagate(t *testing.T) {
	a, _ := leaf(1, 2, nil, seqIDs(1))
	for _, it := range []Iterator{
		NewIntersection([]Iterator{a, failing{}}, 2),
		NewUnion([]Iterator{failing{}}, 2, 1, false, nil),
		NewSubtraction(failing{}, a, 2),
		NewShardFilter(failing{}, shard.AcceptAll{}, 2),
	} {
		_, err := it.HasNext()
		assert.ErrorIs(t, err, query_errors.ErrScan)
	}
}

type oddIDs struct{}

func (oddIDs) Valid(id ids.ID) bool { return id[15]%2 == 1 }

func TestShardFilter(t *testing.T) {
	src, _ := leaf(1, 3, nil, rangeIDs(0, 20, 1))
	it := NewShardFilter(src, oddIDs{}, 4)
	pp := pages(t, it)
	assert.Equal(t, [][]ids.ID{seqIDs(1, 3, 5, 7), seqIDs(9, 11, 13, 15), seqIDs(17, 19)}, pp)

	require.NoError(t, it.Reset())
	again := pages(t, NewShardFilter(it, oddIDs{}, 4))
	assert.Equal(t, pp, again)
}

func TestShardFilterCursorFromSource(t *testing.T) {
	src, _ := leaf(1, 10, nil, rangeIDs(0, 10, 1))
	it := NewShardFilter(src, oddIDs{}, 2)
	page, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, seqIDs(1, 3), page.IDs())
	c := cursor.NewCache()
	require.NoError(t, it.FinalizeCursor(c, seqID(3)))
	assert.Equal(t, seqID(3).Bytes(), c.Value(1))
}
