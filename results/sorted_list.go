package results

import (
	"sort"

	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/scan"
)

// sortedList keeps the capacity smallest ids it is offered (largest when
// reversed) in order. Ids not past the mark are refused, so successive
// passes over the same sources continue where the last one stopped.
type sortedList struct {
	capacity int
	reversed bool
	cols     []scan.Column
	mark     *ids.ID
}

func newSortedList(capacity int, reversed bool, mark *ids.ID) *sortedList {
	if capacity < 1 {
		capacity = 1
	}
	return &sortedList{capacity: capacity, reversed: reversed, mark: mark}
}

func (l *sortedList) before(a, b ids.ID) bool {
	if l.reversed {
		return b.Less(a)
	}
	return a.Less(b)
}

func (l *sortedList) add(c scan.Column) {
	id := c.ID()
	if l.mark != nil && !l.before(*l.mark, id) {
		return
	}
	n := len(l.cols)
	if n >= l.capacity && !l.before(id, l.cols[n-1].ID()) {
		return
	}
	i := sort.Search(n, func(i int) bool { return !l.before(l.cols[i].ID(), id) })
	if i < n && l.cols[i].ID() == id {
		return
	}
	l.cols = append(l.cols, nil)
	copy(l.cols[i+1:], l.cols[i:])
	l.cols[i] = c
	if len(l.cols) > l.capacity {
		l.cols = l.cols[:l.capacity]
	}
}

func (l *sortedList) addAll(s *scan.Set) {
	for _, c := range s.Columns() {
		l.add(c)
	}
}

// advanceMark moves the mark to the current last id.
func (l *sortedList) advanceMark() {
	if n := len(l.cols); n > 0 {
		id := l.cols[n-1].ID()
		l.mark = &id
	}
}

// clear empties the list and keeps the mark.
func (l *sortedList) clear() {
	l.cols = l.cols[:0]
}

func (l *sortedList) len() int {
	return len(l.cols)
}

func (l *sortedList) set() *scan.Set {
	return scan.SetOf(l.cols...)
}
