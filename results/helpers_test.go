package results

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/apache/usergrid-sub013/entities"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/scan"
	"github.com/stretchr/testify/require"
)

func seqID(n int) (id ids.ID) {
	binary.BigEndian.PutUint64(id[8:], uint64(n))
	return
}

func seqIDs(ns ...int) []ids.ID {
	ret := make([]ids.ID, 0, len(ns))
	for _, n := range ns {
		ret = append(ret, seqID(n))
	}
	return ret
}

func rangeIDs(from, to, step int) []ids.ID {
	var ret []ids.ID
	for i := from; i < to; i += step {
		ret = append(ret, seqID(i))
	}
	return ret
}

// memScanner serves id columns in the order given, counting calls.
type memScanner struct {
	names    [][]byte
	startIdx int
	pos      int
	pageSize int
	nexts    int
	resets   int
}

func newMemScanner(pageSize int, cursor []byte, list []ids.ID) *memScanner {
	s := &memScanner{pageSize: pageSize}
	for _, id := range list {
		s.names = append(s.names, id.Bytes())
	}
	if cursor != nil {
		for i, n := range s.names {
			if bytes.Equal(n, cursor) {
				s.startIdx = i + 1
			}
		}
	}
	s.pos = s.startIdx
	return s
}

func (s *memScanner) HasNext() (bool, error) { return s.pos < len(s.names), nil }
func (s *memScanner) PageSize() int          { return s.pageSize }
func (s *memScanner) Reversed() bool         { return false }

func (s *memScanner) Next() ([]scan.Entry, error) {
	s.nexts++
	end := min(s.pos+s.pageSize, len(s.names))
	page := make([]scan.Entry, 0, end-s.pos)
	for _, n := range s.names[s.pos:end] {
		page = append(page, scan.Entry{Name: n})
	}
	s.pos = end
	return page, nil
}

func (s *memScanner) Reset() error {
	s.resets++
	s.pos = s.startIdx
	return nil
}

func leaf(hash int32, pageSize int, cursor []byte, list []ids.ID) (*SliceIterator, *memScanner) {
	sc := newMemScanner(pageSize, cursor, list)
	sl := (&scan.QuerySlice{Property: "p"}).Bind(hash, cursor)
	return NewSliceIterator(sl, sc, scan.IDParser{}), sc
}

func pages(t *testing.T, it Iterator) (ret [][]ids.ID) {
	for {
		ok, err := it.HasNext()
		require.NoError(t, err)
		if !ok {
			return
		}
		page, err := it.Next()
		require.NoError(t, err)
		require.False(t, page.Empty())
		ret = append(ret, page.IDs())
	}
}

func flatten(pp [][]ids.ID) (ret []ids.ID) {
	for _, p := range pp {
		ret = append(ret, p...)
	}
	return
}

type mapLoader struct {
	data  map[ids.ID]map[string]any
	fail  error
	calls int
}

func (m *mapLoader) LoadEntity(id ids.ID, fields []string) (*entities.PartialEntity, error) {
	m.calls++
	if m.fail != nil {
		return nil, m.fail
	}
	e, ok := m.data[id]
	if !ok {
		return nil, nil
	}
	ret := &entities.PartialEntity{ID: id, Fields: map[string]any{}}
	for _, f := range fields {
		if v, ok := e[f]; ok {
			ret.Fields[f] = v
		}
	}
	return ret, nil
}

func (m *mapLoader) LoadFields(list []ids.ID, fields []string) ([]entities.PartialEntity, error) {
	var ret []entities.PartialEntity
	for _, id := range list {
		e, err := m.LoadEntity(id, fields)
		if err != nil {
			return nil, err
		}
		if e != nil {
			ret = append(ret, *e)
		}
	}
	return ret, nil
}
