package store

import (
	"encoding/binary"

	"github.com/apache/usergrid-sub013/codec"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/shard"
	"github.com/cespare/xxhash"
)

const (
	prefixIndex  = 'I'
	prefixGeo    = 'G'
	prefixEntity = 'E'
	prefixAlias  = 'A'
	prefixFormat = 'M'
)

// Scope is the set of entities an index row covers: a collection of Owner,
// or the targets of Owner's connections of type Name.
type Scope struct {
	App   ids.ID
	Owner ids.ID
	// shard.IndexCollection or shard.IndexConnection
	Type shard.IndexType
	Name string
}

// Components are the extra bucket function inputs for rows of this scope.
func (s Scope) Components() []string {
	return []string{s.Name}
}

// IndexKey names one physical row.
type IndexKey struct {
	Scope
	Property string
	Bucket   uint32
}

func rowHash(owner ids.ID, typ shard.IndexType, name, property string) uint64 {
	d := xxhash.New()
	_, _ = d.Write(owner[:])
	_, _ = d.Write([]byte{byte(typ)})
	_, _ = d.Write([]byte(name))
	_, _ = d.Write([]byte{0})
	_, _ = d.Write([]byte(property))
	return d.Sum64()
}

func rowPrefix(lit byte, app ids.ID, bucket uint32, row uint64) []byte {
	key := make([]byte, 0, 1+ids.Len+4+8+32)
	key = append(key, lit)
	key = append(key, app[:]...)
	key = binary.BigEndian.AppendUint32(key, bucket)
	key = binary.BigEndian.AppendUint64(key, row)
	return key
}

// RowPrefix is the key prefix shared by every column of the row.
func (k IndexKey) RowPrefix() []byte {
	return rowPrefix(prefixIndex, k.App, k.Bucket, rowHash(k.Owner, k.Type, k.Name, k.Property))
}

func (k IndexKey) geoPrefix() []byte {
	return rowPrefix(prefixGeo, k.App, k.Bucket, rowHash(k.Owner, k.Type, k.Name, k.Property))
}

func entityPrefix(app, id ids.ID) []byte {
	key := make([]byte, 0, 1+2*ids.Len+16)
	key = append(key, prefixEntity)
	key = append(key, app[:]...)
	key = append(key, id[:]...)
	return key
}

func entityFieldKey(app, id ids.ID, field string) []byte {
	return append(entityPrefix(app, id), field...)
}

func aliasKey(app ids.ID, collection, name string) []byte {
	key := make([]byte, 0, 1+ids.Len+len(collection)+1+len(name))
	key = append(key, prefixAlias)
	key = append(key, app[:]...)
	key = append(key, collection...)
	key = append(key, 0)
	key = append(key, name...)
	return key
}

func formatKey(s Scope, typ shard.IndexType, property string) []byte {
	key := make([]byte, 0, 1+ids.Len+8)
	key = append(key, prefixFormat)
	key = append(key, s.App[:]...)
	key = binary.BigEndian.AppendUint64(key, rowHash(s.Owner, typ, s.Name, property))
	return key
}

func prefixEnd(prefix []byte) []byte {
	return codec.PrefixEnd(prefix)
}
