package scan

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
)

// Bound is one end of a range predicate.
type Bound struct {
	Value     any
	Inclusive bool
}

// QuerySlice is one leaf range predicate over a property. The zero Start
// and Finish mean unbounded. A template is bound to a bucket with Bind,
// which fixes its cursor hash and inbound cursor.
type QuerySlice struct {
	Property string
	Start    *Bound
	Finish   *Bound
	Reversed bool

	hash   int32
	cursor []byte
}

func (s *QuerySlice) Bind(hash int32, cursor []byte) *QuerySlice {
	bound := *s
	bound.hash = hash
	bound.cursor = cursor
	return &bound
}

func (s *QuerySlice) Hash() int32 { return s.hash }

// Cursor is the inbound position or nil when the scan starts afresh.
func (s *QuerySlice) Cursor() []byte { return s.cursor }

func (s *QuerySlice) HasCursor() bool { return len(s.cursor) > 0 }

// PathHash derives a node hash from the node's position path in the query
// tree and its property, so recompiling the same tree yields the same hash.
func PathHash(path, property string) int32 {
	d := xxhash.New()
	_, _ = d.Write([]byte(path))
	_, _ = d.Write([]byte{0})
	_, _ = d.Write([]byte(property))
	return fold(d.Sum64())
}

// MixHash derives a per bucket hash from a node hash.
func MixHash(hash int32, bucket uint32) int32 {
	var buf [8]byte
	binary.BigEndian.PutUint32(buf[:4], uint32(hash))
	binary.BigEndian.PutUint32(buf[4:], bucket)
	return fold(xxhash.Sum64(buf[:]))
}

func fold(h uint64) int32 {
	return int32(uint32(h) ^ uint32(h>>32))
}
