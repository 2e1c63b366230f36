package results

import (
	"github.com/apache/usergrid-sub013/cursor"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/apache/usergrid-sub013/scan"
)

// StaticIterator yields a fixed set once, e.g. the result of an
// identifier lookup.
type StaticIterator struct {
	mergeIterator
	set  *scan.Set
	done bool
}

func NewStatic(set *scan.Set) *StaticIterator {
	it := &StaticIterator{set: set}
	it.init("static", it)
	return it
}

func (it *StaticIterator) advance() (*scan.Set, error) {
	if it.done {
		return nil, nil
	}
	it.done = true
	return it.set, nil
}

func (it *StaticIterator) doReset() error {
	it.done = false
	return nil
}

func (it *StaticIterator) FinalizeCursor(*cursor.Cache, ids.ID) error {
	return nil
}

// EmptyIterator never yields.
type EmptyIterator struct{}

func (EmptyIterator) HasNext() (bool, error)                    { return false, nil }
func (EmptyIterator) Next() (*scan.Set, error)                  { return nil, query_errors.ErrNoPage }
func (EmptyIterator) Reset() error                              { return nil }
func (EmptyIterator) FinalizeCursor(*cursor.Cache, ids.ID) error { return nil }
