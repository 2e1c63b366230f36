package results

import (
	"github.com/apache/usergrid-sub013/cursor"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/apache/usergrid-sub013/scan"
	"github.com/pkg/errors"
)

// SliceIterator pages one physical scan, one parsed set per physical page.
// Entries the parser rejects are dropped and do not count.
type SliceIterator struct {
	mergeIterator
	slice   *scan.QuerySlice
	scanner scan.Scanner
	parser  scan.Parser
	// position of the last physical entry read, parsed or not
	lastPos []byte
}

func NewSliceIterator(slice *scan.QuerySlice, scanner scan.Scanner, parser scan.Parser) *SliceIterator {
	it := &SliceIterator{slice: slice, scanner: scanner, parser: parser}
	it.init("slice", it)
	return it
}

func (it *SliceIterator) advance() (*scan.Set, error) {
	for {
		ok, err := it.scanner.HasNext()
		if err != nil {
			return nil, scanErr(err)
		}
		if !ok {
			return nil, nil
		}
		entries, err := it.scanner.Next()
		if err != nil {
			return nil, scanErr(err)
		}
		page := scan.NewSet(len(entries))
		for _, e := range entries {
			it.lastPos = e.Name
			col, ok, err := it.parser.Parse(e)
			if err != nil {
				return nil, err
			}
			if !ok {
				parserRejects.Inc()
				continue
			}
			page.Add(col)
		}
		if !page.Empty() {
			return page, nil
		}
	}
}

func (it *SliceIterator) doReset() error {
	it.lastPos = nil
	return it.scanner.Reset()
}

func (it *SliceIterator) Slice() *scan.QuerySlice {
	return it.slice
}

func (it *SliceIterator) FinalizeCursor(c *cursor.Cache, last ids.ID) error {
	if col := it.current().Get(last); col != nil {
		c.Set(it.slice.Hash(), cursor.KindColumn, col.CursorValue())
		return nil
	}
	more, err := it.scanner.HasNext()
	if err != nil {
		return scanErr(err)
	}
	if more {
		return errors.Wrapf(query_errors.ErrIterationConsistency,
			"slice %s: id %s is not in the current page", it.slice.Property, last)
	}
	switch {
	case it.lastPos != nil:
		c.Set(it.slice.Hash(), cursor.KindColumn, it.lastPos)
	case it.slice.HasCursor():
		c.Set(it.slice.Hash(), cursor.KindColumn, it.slice.Cursor())
	}
	return nil
}
