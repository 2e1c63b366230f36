package scan

import "github.com/apache/usergrid-sub013/ids"

// Set is an insertion ordered set of columns keyed by entity id.
type Set struct {
	cols  []Column
	index map[ids.ID]int
}

func NewSet(capacity int) *Set {
	return &Set{
		cols:  make([]Column, 0, capacity),
		index: make(map[ids.ID]int, capacity),
	}
}

func SetOf(cols ...Column) *Set {
	s := NewSet(len(cols))
	for _, c := range cols {
		s.Add(c)
	}
	return s
}

// Add appends c unless a column with the same id is already present.
func (s *Set) Add(c Column) bool {
	if _, ok := s.index[c.ID()]; ok {
		return false
	}
	s.index[c.ID()] = len(s.cols)
	s.cols = append(s.cols, c)
	return true
}

func (s *Set) AddAll(o *Set) {
	if o == nil {
		return
	}
	for _, c := range o.cols {
		s.Add(c)
	}
}

func (s *Set) Get(id ids.ID) Column {
	if s == nil {
		return nil
	}
	if i, ok := s.index[id]; ok {
		return s.cols[i]
	}
	return nil
}

func (s *Set) Contains(id ids.ID) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.cols)
}

func (s *Set) Empty() bool {
	return s.Len() == 0
}

func (s *Set) Columns() []Column {
	if s == nil {
		return nil
	}
	return s.cols
}

func (s *Set) IDs() []ids.ID {
	ret := make([]ids.ID, 0, s.Len())
	for _, c := range s.Columns() {
		ret = append(ret, c.ID())
	}
	return ret
}

// Last is the most recently added column, nil for an empty set.
func (s *Set) Last() Column {
	if s.Len() == 0 {
		return nil
	}
	return s.cols[len(s.cols)-1]
}

// Intersect keeps the receiver's columns, in the receiver's order, whose
// ids are also in o.
func (s *Set) Intersect(o *Set) *Set {
	ret := NewSet(min(s.Len(), o.Len()))
	for _, c := range s.Columns() {
		if o.Contains(c.ID()) {
			ret.Add(c)
		}
	}
	return ret
}

// Difference keeps the receiver's columns whose ids are not in o.
func (s *Set) Difference(o *Set) *Set {
	ret := NewSet(s.Len())
	for _, c := range s.Columns() {
		if !o.Contains(c.ID()) {
			ret.Add(c)
		}
	}
	return ret
}

// Truncate keeps the first n columns and returns the rest as a new set.
func (s *Set) Truncate(n int) (tail *Set) {
	if n < 0 {
		n = 0
	}
	if s.Len() <= n {
		return NewSet(0)
	}
	tail = SetOf(s.cols[n:]...)
	for _, c := range s.cols[n:] {
		delete(s.index, c.ID())
	}
	s.cols = s.cols[:n:n]
	return tail
}
