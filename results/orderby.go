package results

import (
	"github.com/apache/usergrid-sub013/codec"
	"github.com/apache/usergrid-sub013/cursor"
	"github.com/apache/usergrid-sub013/entities"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/apache/usergrid-sub013/scan"
	"github.com/apache/usergrid-sub013/utils"
	"github.com/pkg/errors"
)

type SortField struct {
	Property   string
	Descending bool
}

// OrderByIterator ranks its candidates by entity field values. Every page
// drains all candidates, since entities sharing a primary value can only be
// ranked against each other once all of them are seen; memory stays at one
// page through a bounded heap. Entities missing from storage are skipped.
type OrderByIterator struct {
	mergeIterator
	candidates Iterator
	loader     entities.Loader
	sorts      []SortField
	fields     []string
	pageSize   int
	hash       int32

	startID *ids.ID
	start   *entities.PartialEntity
	loaded  bool
	// exclusive lower bound of the next page
	bound *entities.PartialEntity
}

// NewOrderBy ranks by sorts in order, then by id. startID is the last
// entity of the previous page, if any.
func NewOrderBy(candidates Iterator, loader entities.Loader, sorts []SortField, pageSize int, hash int32, startID *ids.ID) *OrderByIterator {
	fields := make([]string, 0, len(sorts))
	for _, s := range sorts {
		fields = append(fields, s.Property)
	}
	it := &OrderByIterator{
		candidates: candidates,
		loader:     loader,
		sorts:      sorts,
		fields:     fields,
		pageSize:   max(pageSize, 1),
		hash:       hash,
		startID:    startID,
	}
	it.init("order_by", it)
	return it
}

// Compare is the composite order: each sort field in turn, then id.
func (it *OrderByIterator) Compare(a, b *entities.PartialEntity) int {
	for _, s := range it.sorts {
		c := codec.CompareValues(a.Field(s.Property), b.Field(s.Property))
		if s.Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return a.ID.Compare(b.ID)
}

func (it *OrderByIterator) loadStart() error {
	if it.loaded {
		return nil
	}
	it.loaded = true
	if it.startID == nil {
		return nil
	}
	e, err := it.loader.LoadEntity(*it.startID, it.fields)
	if err != nil {
		return fieldErr(err)
	}
	if e == nil {
		return errors.Wrapf(query_errors.ErrFieldLoad, "cursor entity %s not found", *it.startID)
	}
	it.start = e
	it.bound = e
	return nil
}

func (it *OrderByIterator) advance() (*scan.Set, error) {
	if err := it.loadStart(); err != nil {
		return nil, err
	}
	// worst on top, so eviction pops it
	top := utils.NewHeap(func(a, b *entities.PartialEntity) bool { return it.Compare(a, b) > 0 })
	seen := make(map[ids.ID]struct{})
	for {
		ok, err := it.candidates.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		page, err := it.candidates.Next()
		if err != nil {
			return nil, err
		}
		fresh := make([]ids.ID, 0, page.Len())
		for _, id := range page.IDs() {
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				fresh = append(fresh, id)
			}
		}
		ents, err := it.loader.LoadFields(fresh, it.fields)
		if err != nil {
			return nil, fieldErr(err)
		}
		orderByCandidates.Add(float64(len(ents)))
		for i := range ents {
			e := &ents[i]
			if it.bound != nil && it.Compare(e, it.bound) <= 0 {
				continue
			}
			top.Push(e)
			if top.Len() > it.pageSize {
				top.Pop()
			}
		}
	}
	if err := it.candidates.Reset(); err != nil {
		return nil, err
	}
	ranked := top.Drain()
	if len(ranked) == 0 {
		return nil, nil
	}
	page := scan.NewSet(len(ranked))
	for i := len(ranked) - 1; i >= 0; i-- {
		page.Add(scan.NewIDColumn(ranked[i].ID, ranked[i].ID.Bytes()))
	}
	it.bound = ranked[0]
	return page, nil
}

func (it *OrderByIterator) doReset() error {
	it.bound = it.start
	return it.candidates.Reset()
}

func (it *OrderByIterator) FinalizeCursor(c *cursor.Cache, last ids.ID) error {
	c.Set(it.hash, cursor.KindID, last[:])
	return nil
}

func fieldErr(err error) error {
	if errors.Is(err, query_errors.ErrFieldLoad) {
		return err
	}
	return errors.Wrap(query_errors.ErrFieldLoad, err.Error())
}
