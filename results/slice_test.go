package results

import (
	"encoding/binary"
	"testing"

	"github.com/apache/usergrid-sub013/cursor"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/apache/usergrid-sub013/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetAfterOnePageReplays(t *testing.T) {
	it, sc := leaf(1, 5, nil, seqIDs(1, 2, 3, 4, 5, 6, 7))
	assert.Equal(t, NotStarted, it.State())

	ok, err := it.HasNext()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, PageBuffered, it.State())
	first, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, PageTaken, it.State())
	assert.Equal(t, 1, sc.nexts)

	require.NoError(t, it.Reset())
	again, err := it.Next()
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, sc.nexts)
	assert.Equal(t, 0, sc.resets)

	// the scan continues where it was
	rest, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, seqIDs(6, 7), rest.IDs())
	assert.Equal(t, 2, sc.nexts)

	require.NoError(t, it.Reset())
	assert.Equal(t, 1, sc.resets)
	assert.Equal(t, [][]ids.ID{seqIDs(1, 2, 3, 4, 5), seqIDs(6, 7)}, pages(t, it))
	assert.Equal(t, Exhausted, it.State())
}

func TestHasNextIsIdempotent(t *testing.T) {
	it, sc := leaf(1, 2, nil, seqIDs(1, 2, 3))
	for i := 0; i < 3; i++ {
		ok, err := it.HasNext()
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, 1, sc.nexts)
}

func TestNextWithoutPage(t *testing.T) {
	it, _ := leaf(1, 2, nil, nil)
	_, err := it.Next()
	assert.ErrorIs(t, err, query_errors.ErrNoPage)
	_, err = EmptyIterator{}.Next()
	assert.ErrorIs(t, err, query_errors.ErrNoPage)
}

// rejects even sequence numbers
type oddParser struct{}

func (oddParser) Parse(e scan.Entry) (scan.Column, bool, error) {
	col, _, err := scan.IDParser{}.Parse(e)
	if err != nil {
		return nil, false, err
	}
	id := col.ID()
	if binary.BigEndian.Uint64(id[8:])%2 == 0 {
		return nil, false, nil
	}
	return col, true, nil
}

func TestRejectedEntriesDoNotEndScan(t *testing.T) {
	sc := newMemScanner(2, nil, seqIDs(1, 2, 4, 6, 8, 9))
	it := NewSliceIterator((&scan.QuerySlice{Property: "p"}).Bind(1, nil), sc, oddParser{})
	// the second and third physical pages parse to nothing
	assert.Equal(t, [][]ids.ID{seqIDs(1), seqIDs(9)}, pages(t, it))
	assert.Equal(t, 3, sc.nexts)
}

func TestSliceFinalizeCursor(t *testing.T) {
	it, _ := leaf(7, 3, nil, seqIDs(1, 2, 3, 4, 5))
	page, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, seqIDs(1, 2, 3), page.IDs())

	c := cursor.NewCache()
	require.NoError(t, it.FinalizeCursor(c, seqID(2)))
	assert.Equal(t, seqID(2).Bytes(), c.Value(7))

	// an id the current page never had while the scan has more
	err = it.FinalizeCursor(cursor.NewCache(), seqID(5))
	assert.ErrorIs(t, err, query_errors.ErrIterationConsistency)

	pages(t, it)
	c = cursor.NewCache()
	require.NoError(t, it.FinalizeCursor(c, seqID(99)))
	assert.Equal(t, seqID(5).Bytes(), c.Value(7))
}

func TestSliceFinalizeWithoutData(t *testing.T) {
	inbound := seqID(9).Bytes()
	it, _ := leaf(3, 3, inbound, seqIDs(1, 9))
	ok, err := it.HasNext()
	require.NoError(t, err)
	assert.False(t, ok)

	c := cursor.NewCache()
	require.NoError(t, it.FinalizeCursor(c, seqID(9)))
	assert.Equal(t, inbound, c.Value(3))

	fresh, _ := leaf(3, 3, nil, nil)
	c = cursor.NewCache()
	require.NoError(t, fresh.FinalizeCursor(c, seqID(1)))
	assert.False(t, c.Has(3))
}

func TestStaticIterator(t *testing.T) {
	s := NewStatic(scan.SetOf(scan.NewIDColumn(seqID(4), nil)))
	assert.Equal(t, [][]ids.ID{seqIDs(4)}, pages(t, s))
	require.NoError(t, s.Reset())
	assert.Equal(t, [][]ids.ID{seqIDs(4)}, pages(t, s))
	require.NoError(t, s.FinalizeCursor(cursor.NewCache(), seqID(4)))

	empty := NewStatic(scan.NewSet(0))
	assert.Empty(t, pages(t, empty))
}
