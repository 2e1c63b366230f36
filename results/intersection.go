package results

import (
	"github.com/apache/usergrid-sub013/cursor"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/scan"
)

// IntersectionIterator yields the ids every child has, in the order of
// the first child (the driver). Each driver page is matched against the
// full extent of every other child, so the children need not share the
// driver's order.
type IntersectionIterator struct {
	mergeIterator
	children []Iterator
	pageSize int
	carry    carry
}

func NewIntersection(children []Iterator, pageSize int) *IntersectionIterator {
	it := &IntersectionIterator{children: children, pageSize: max(pageSize, 1)}
	it.init("intersection", it)
	return it
}

func (it *IntersectionIterator) advance() (*scan.Set, error) {
	if len(it.children) == 0 {
		return nil, nil
	}
	result, full := it.carry.fill(it.pageSize)
	driver := it.children[0]
	for !full {
		ok, err := driver.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		page, err := driver.Next()
		if err != nil {
			return nil, err
		}
		for _, child := range it.children[1:] {
			if page, err = matchIn(child, page); err != nil {
				return nil, err
			}
			if page.Empty() {
				break
			}
		}
		full = it.carry.add(result, page, it.pageSize)
	}
	return result, nil
}

// matchIn keeps the candidates found anywhere in child, then resets child
// for the next driver page.
func matchIn(child Iterator, candidates *scan.Set) (*scan.Set, error) {
	found := scan.NewSet(candidates.Len())
	for found.Len() < candidates.Len() {
		ok, err := child.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		page, err := child.Next()
		if err != nil {
			return nil, err
		}
		found.AddAll(candidates.Intersect(page))
	}
	if err := child.Reset(); err != nil {
		return nil, err
	}
	return candidates.Intersect(found), nil
}

func (it *IntersectionIterator) doReset() error {
	it.carry.clear()
	for _, child := range it.children {
		if err := child.Reset(); err != nil {
			return err
		}
	}
	return nil
}

func (it *IntersectionIterator) FinalizeCursor(c *cursor.Cache, last ids.ID) error {
	if len(it.children) == 0 {
		return nil
	}
	return it.children[0].FinalizeCursor(c, last)
}
