package results

import (
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/apache/usergrid-sub013/scan"
)

// advancer is what an iterator built on mergeIterator supplies.
type advancer interface {
	// advance produces the next page; nil or empty means exhausted.
	advance() (*scan.Set, error)
	// doReset restarts from the original start.
	doReset() error
}

// mergeIterator drives an advancer through the State machine. It keeps
// the latest page so Next after HasNext never advances twice, and the
// first page so a Reset after a single load replays it instead of
// rescanning.
type mergeIterator struct {
	impl  advancer
	kind  string
	state State
	page  *scan.Set
	first *scan.Set
	loads int
}

func (m *mergeIterator) init(kind string, impl advancer) {
	m.kind = kind
	m.impl = impl
}

func (m *mergeIterator) HasNext() (bool, error) {
	switch m.state {
	case PageBuffered:
		return true, nil
	case Exhausted:
		return false, nil
	}
	page, err := m.impl.advance()
	if err != nil {
		return false, err
	}
	if page.Empty() {
		// the last page stays current so its cursors can be finalized
		m.state = Exhausted
		return false, nil
	}
	m.loads++
	if m.loads == 1 {
		m.first = page
	}
	m.page = page
	m.state = PageBuffered
	pagesLoaded.WithLabelValues(m.kind).Inc()
	return true, nil
}

func (m *mergeIterator) Next() (*scan.Set, error) {
	ok, err := m.HasNext()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, query_errors.ErrNoPage
	}
	m.state = PageTaken
	return m.page, nil
}

func (m *mergeIterator) Reset() error {
	if m.loads == 1 {
		m.page = m.first
		m.state = PageBuffered
		return nil
	}
	if err := m.impl.doReset(); err != nil {
		return err
	}
	m.loads = 0
	m.page = nil
	m.first = nil
	m.state = NotStarted
	return nil
}

// State reports where the iterator is in its page cycle.
func (m *mergeIterator) State() State {
	return m.state
}

// current is the latest loaded page, kept after exhaustion.
func (m *mergeIterator) current() *scan.Set {
	return m.page
}

// carry is the surplus a page-size bounded iterator cut off its last
// page; it opens the next page.
type carry struct {
	rest *scan.Set
}

// fill starts a fresh page from the carried surplus. full reports the page
// is complete already.
func (c *carry) fill(pageSize int) (page *scan.Set, full bool) {
	page = scan.NewSet(pageSize)
	page.AddAll(c.rest)
	c.rest = page.Truncate(pageSize)
	return page, page.Len() >= pageSize
}

// add appends more columns to page, carrying whatever overflows. full
// reports the page is complete.
func (c *carry) add(page, more *scan.Set, pageSize int) (full bool) {
	page.AddAll(more)
	if page.Len() < pageSize {
		return false
	}
	c.rest = page.Truncate(pageSize)
	return true
}

func (c *carry) clear() {
	c.rest = nil
}
