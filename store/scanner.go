package store

import (
	"bytes"

	"github.com/apache/usergrid-sub013/codec"
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/apache/usergrid-sub013/scan"
	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
)

// RangeScanner pages the columns of one row between two column bounds.
// Resuming is strictly after the last column handed out.
type RangeScanner struct {
	store    *Store
	prefix   []byte
	lower    []byte
	upper    []byte
	start    []byte
	position []byte
	pageSize int
	reversed bool
	done     bool
	pages    int
}

// NewScanner scans the row of key for columns in [lower, upper); nil bounds
// are open. cursor, if set, is the column to resume after.
func (s *Store) NewScanner(key IndexKey, lower, upper, cursor []byte, pageSize int, reversed bool) *RangeScanner {
	if pageSize <= 0 {
		pageSize = 1
	}
	return &RangeScanner{
		store:    s,
		prefix:   key.RowPrefix(),
		lower:    lower,
		upper:    upper,
		start:    cursor,
		position: cursor,
		pageSize: pageSize,
		reversed: reversed,
	}
}

func (r *RangeScanner) PageSize() int  { return r.pageSize }
func (r *RangeScanner) Reversed() bool { return r.reversed }

// Pages counts the physical pages read since creation.
func (r *RangeScanner) Pages() int { return r.pages }

func (r *RangeScanner) HasNext() (bool, error) {
	return !r.done, nil
}

func (r *RangeScanner) Reset() error {
	r.position = r.start
	r.done = false
	return nil
}

func (r *RangeScanner) bounds() (lower, upper []byte) {
	lower = append(bytes.Clone(r.prefix), r.lower...)
	if r.upper != nil {
		upper = append(bytes.Clone(r.prefix), r.upper...)
	} else {
		upper = prefixEnd(r.prefix)
	}
	return
}

func (r *RangeScanner) Next() (page []scan.Entry, err error) {
	if r.done {
		return nil, nil
	}
	if r.store.db == nil {
		return nil, errors.Wrap(query_errors.ErrScan, ErrClosed.Error())
	}
	lower, upper := r.bounds()
	if bytes.Compare(lower, upper) >= 0 {
		r.done = true
		r.pages++
		return []scan.Entry{}, nil
	}
	iter, err := r.store.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return nil, errors.Wrap(query_errors.ErrScan, err.Error())
	}
	defer closeIter(iter, &err)

	var valid bool
	switch {
	case r.position == nil && !r.reversed:
		valid = iter.First()
	case r.position == nil:
		valid = iter.Last()
	case !r.reversed:
		// the immediate successor of position
		valid = iter.SeekGE(append(append(bytes.Clone(r.prefix), r.position...), 0))
	default:
		valid = iter.SeekLT(append(bytes.Clone(r.prefix), r.position...))
	}
	page = make([]scan.Entry, 0, r.pageSize)
	for ; valid && len(page) < r.pageSize; valid = r.step(iter) {
		page = append(page, scan.Entry{
			Name:  bytes.Clone(iter.Key()[len(r.prefix):]),
			Value: bytes.Clone(iter.Value()),
		})
	}
	if err = iter.Error(); err != nil {
		return nil, errors.Wrap(query_errors.ErrScan, err.Error())
	}
	r.done = !valid
	if len(page) > 0 {
		r.position = page[len(page)-1].Name
	}
	r.pages++
	scanPages.Inc()
	return page, nil
}

func (r *RangeScanner) step(iter *pebble.Iterator) bool {
	if r.reversed {
		return iter.Prev()
	}
	return iter.Next()
}

// SliceBounds turns the value range of a slice into column bounds of a
// secondary index row.
func SliceBounds(s *scan.QuerySlice) (lower, upper []byte, err error) {
	if s.Start != nil {
		enc, err := codec.EncodeBound(s.Start.Value)
		if err != nil {
			return nil, nil, errors.Wrap(query_errors.ErrBadQuery, err.Error())
		}
		if s.Start.Inclusive {
			lower = enc
		} else {
			lower = codec.PrefixEnd(enc)
		}
	}
	if s.Finish != nil {
		enc, err := codec.EncodeBound(s.Finish.Value)
		if err != nil {
			return nil, nil, errors.Wrap(query_errors.ErrBadQuery, err.Error())
		}
		if s.Finish.Inclusive {
			upper = codec.PrefixEnd(enc)
		} else {
			upper = enc
		}
	}
	return
}

// HasColumn reports whether the row of key has a column starting with
// prefix.
func (s *Store) HasColumn(key IndexKey, prefix []byte) (found bool, err error) {
	if s.db == nil {
		return false, errors.Wrap(query_errors.ErrScan, ErrClosed.Error())
	}
	lower := append(key.RowPrefix(), prefix...)
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: prefixEnd(lower)})
	if err != nil {
		return false, errors.Wrap(query_errors.ErrScan, err.Error())
	}
	defer closeIter(iter, &err)
	found = iter.First()
	return found, nil
}
