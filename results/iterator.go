// Package results implements the paged result iterators a query tree is
// executed with: leaf scans, set algebra over child iterators, in-memory
// ordering and the bucket fan-out stage.
//
// Iterators are pulled synchronously by their parent and are not safe for
// concurrent use. Every call may block on storage.
package results

import (
	"github.com/apache/usergrid-sub013/cursor"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/apache/usergrid-sub013/scan"
	"github.com/pkg/errors"
)

type Iterator interface {
	// HasNext loads the next page if none is buffered. Repeated calls do
	// not advance.
	HasNext() (bool, error)
	// Next hands out the buffered page, never empty. Returns
	// query_errors.ErrNoPage when HasNext would be false.
	Next() (*scan.Set, error)
	// Reset replays the only page ever loaded, or restarts from the
	// original start.
	Reset() error
	// FinalizeCursor records in c where to resume after last, the last id
	// the consumer actually returned.
	FinalizeCursor(c *cursor.Cache, last ids.ID) error
}

type State byte

const (
	NotStarted State = iota
	// a page is loaded and not handed out yet
	PageBuffered
	// the loaded page was handed out
	PageTaken
	Exhausted
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case PageBuffered:
		return "page-buffered"
	case PageTaken:
		return "page-taken"
	case Exhausted:
		return "exhausted"
	}
	return "invalid"
}

// Drain pulls every remaining page of it into one set.
func Drain(it Iterator) (*scan.Set, error) {
	all := scan.NewSet(0)
	for {
		ok, err := it.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			return all, nil
		}
		page, err := it.Next()
		if err != nil {
			return nil, err
		}
		all.AddAll(page)
	}
}

// scanErr marks a storage failure as query_errors.ErrScan once.
func scanErr(err error) error {
	if errors.Is(err, query_errors.ErrScan) {
		return err
	}
	return errors.Wrap(query_errors.ErrScan, err.Error())
}
