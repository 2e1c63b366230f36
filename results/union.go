package results

import (
	"github.com/apache/usergrid-sub013/cursor"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/scan"
)

// UnionIterator merges any number of children without assuming anything
// about how their pages interleave: every pass drains each child, resets
// it, and keeps the page size lowest ids past the previous page.
type UnionIterator struct {
	mergeIterator
	children []Iterator
	list     *sortedList
	start    *ids.ID
	hash     int32
}

// NewUnion starts after min when it is set, e.g. the id a previous page
// ended with.
func NewUnion(children []Iterator, pageSize int, hash int32, reversed bool, min *ids.ID) *UnionIterator {
	u := &UnionIterator{
		children: children,
		list:     newSortedList(pageSize, reversed, min),
		start:    min,
		hash:     hash,
	}
	u.init("union", u)
	return u
}

func (u *UnionIterator) advance() (*scan.Set, error) {
	if len(u.children) == 0 {
		return nil, nil
	}
	u.list.clear()
	for _, child := range u.children {
		for {
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
			u.list.addAll(page)
		}
		if err := child.Reset(); err != nil {
			return nil, err
		}
	}
	u.list.advanceMark()
	return u.list.set(), nil
}

func (u *UnionIterator) doReset() error {
	u.list.clear()
	u.list.mark = u.start
	return nil
}

func (u *UnionIterator) FinalizeCursor(c *cursor.Cache, last ids.ID) error {
	c.Set(u.hash, cursor.KindID, last[:])
	return nil
}
