// Package shard assigns index entries to physical buckets and decides which
// index rows must be re-validated against the current assignment.
package shard

import (
	"github.com/apache/usergrid-sub013/ids"
	"github.com/cespare/xxhash"
)

type IndexType byte

const (
	IndexCollection IndexType = 'c'
	IndexConnection IndexType = 'n'
	IndexGeo        IndexType = 'g'
)

func (t IndexType) String() string {
	switch t {
	case IndexCollection:
		return "collection"
	case IndexConnection:
		return "connection"
	case IndexGeo:
		return "geo"
	}
	return "unknown"
}

const DefaultBuckets = 1

// Locator is the bucket function. It is pure: equal inputs always land in
// the same bucket for the same bucket count.
type Locator struct {
	buckets uint32
}

func NewLocator(buckets uint32) *Locator {
	if buckets == 0 {
		buckets = DefaultBuckets
	}
	return &Locator{buckets: buckets}
}

func (l *Locator) Count() uint32 {
	return l.buckets
}

// All lists every bucket id.
func (l *Locator) All() []uint32 {
	ret := make([]uint32, l.buckets)
	for i := range ret {
		ret[i] = uint32(i)
	}
	return ret
}

// BucketOf is the current assignment rule.
func (l *Locator) BucketOf(app ids.ID, typ IndexType, id ids.ID, components ...string) uint32 {
	d := xxhash.New()
	_, _ = d.Write(app[:])
	_, _ = d.Write([]byte{byte(typ)})
	_, _ = d.Write(id[:])
	for _, c := range components {
		_, _ = d.Write([]byte{0})
		_, _ = d.Write([]byte(c))
	}
	return uint32(d.Sum64() % uint64(l.buckets))
}

// LegacyBucketOf is the rule older connection and geo rows were written
// under: the entity id alone.
func (l *Locator) LegacyBucketOf(id ids.ID) uint32 {
	return uint32(xxhash.Sum64(id[:]) % uint64(l.buckets))
}
