// Package cursor holds the per-node resumption state of a query: the
// Cache filled while a page is finalized, the page token it is shipped
// to the client as, and the geo position sub-format.
package cursor

import (
	"bytes"
	"slices"
)

// Kind tags what an entry's bytes hold.
type Kind byte

const (
	// physical column name a scan resumes just past
	KindColumn Kind = 'C'
	// 16 byte id of the last entity a combinator returned
	KindID Kind = 'I'
	// encoded GeoPosition
	KindGeo Kind = 'G'
)

type Entry struct {
	Kind  Kind
	Value []byte
}

// Cache maps stable node hashes to their resumption entries. It is filled
// by a single FinalizeCursor pass and is not safe for concurrent writers.
type Cache struct {
	entries map[int32]Entry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[int32]Entry)}
}

func (c *Cache) Set(hash int32, kind Kind, value []byte) {
	c.entries[hash] = Entry{Kind: kind, Value: bytes.Clone(value)}
}

func (c *Cache) Get(hash int32) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	e, ok := c.entries[hash]
	return e, ok
}

// Value returns the bytes stored for hash, nil when there are none.
func (c *Cache) Value(hash int32) []byte {
	e, _ := c.Get(hash)
	return e.Value
}

func (c *Cache) Has(hash int32) bool {
	_, ok := c.Get(hash)
	return ok
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Hashes lists the stored hashes in ascending order.
func (c *Cache) Hashes() []int32 {
	ret := make([]int32, 0, c.Len())
	if c == nil {
		return ret
	}
	for h := range c.entries {
		ret = append(ret, h)
	}
	slices.Sort(ret)
	return ret
}
