package results

import (
	"github.com/apache/usergrid-sub013/cursor"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/scan"
	"github.com/apache/usergrid-sub013/shard"
)

// ShardFilterIterator drops ids that do not belong to the bucket being
// scanned under the current bucket function, pulling from its source
// until a page is full.
type ShardFilterIterator struct {
	mergeIterator
	source    Iterator
	validator shard.Validator
	pageSize  int
	carry     carry
}

func NewShardFilter(source Iterator, v shard.Validator, pageSize int) *ShardFilterIterator {
	it := &ShardFilterIterator{source: source, validator: v, pageSize: max(pageSize, 1)}
	it.init("shard_filter", it)
	return it
}

func (it *ShardFilterIterator) advance() (*scan.Set, error) {
	result, full := it.carry.fill(it.pageSize)
	for !full {
		ok, err := it.source.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		page, err := it.source.Next()
		if err != nil {
			return nil, err
		}
		valid := scan.NewSet(page.Len())
		for _, col := range page.Columns() {
			if it.validator.Valid(col.ID()) {
				valid.Add(col)
			} else {
				shardDiscards.Inc()
			}
		}
		full = it.carry.add(result, valid, it.pageSize)
	}
	return result, nil
}

func (it *ShardFilterIterator) doReset() error {
	it.carry.clear()
	return it.source.Reset()
}

func (it *ShardFilterIterator) FinalizeCursor(c *cursor.Cache, last ids.ID) error {
	return it.source.FinalizeCursor(c, last)
}
