package results

import (
	"github.com/apache/usergrid-sub013/cursor"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/scan"
)

// SubtractionIterator yields the ids of keep that subtract does not have.
// Every keep page is checked against the whole subtract side, which is
// reset after each one and never paginated on its own.
type SubtractionIterator struct {
	mergeIterator
	keep     Iterator
	subtract Iterator
	pageSize int
	carry    carry
}

func NewSubtraction(keep, subtract Iterator, pageSize int) *SubtractionIterator {
	it := &SubtractionIterator{keep: keep, subtract: subtract, pageSize: max(pageSize, 1)}
	it.init("subtraction", it)
	return it
}

func (it *SubtractionIterator) advance() (*scan.Set, error) {
	result, full := it.carry.fill(it.pageSize)
	for !full {
		// keep goes first so the subtract side never runs ahead of it
		ok, err := it.keep.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		page, err := it.keep.Next()
		if err != nil {
			return nil, err
		}
		for !page.Empty() {
			ok, err := it.subtract.HasNext()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			sub, err := it.subtract.Next()
			if err != nil {
				return nil, err
			}
			page = page.Difference(sub)
		}
		if err = it.subtract.Reset(); err != nil {
			return nil, err
		}
		full = it.carry.add(result, page, it.pageSize)
	}
	return result, nil
}

func (it *SubtractionIterator) doReset() error {
	it.carry.clear()
	if err := it.keep.Reset(); err != nil {
		return err
	}
	return it.subtract.Reset()
}

func (it *SubtractionIterator) FinalizeCursor(c *cursor.Cache, last ids.ID) error {
	return it.keep.FinalizeCursor(c, last)
}
