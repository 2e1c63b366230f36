package store

import (
	"github.com/apache/usergrid-sub013/geo"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/scan"
	"github.com/apache/usergrid-sub013/shard"
)

// Writer puts index rows into the buckets the Locator assigns them to.
type Writer struct {
	store   *Store
	locator *shard.Locator
}

func NewWriter(s *Store, l *shard.Locator) *Writer {
	return &Writer{store: s, locator: l}
}

// buckets lists the physical buckets a row of the scope goes to: the
// current one, plus the legacy one for legacy connection and geo indexes.
func (w *Writer) buckets(scope Scope, typ shard.IndexType, property string, entity ids.ID) ([]uint32, error) {
	current := w.locator.BucketOf(scope.App, scope.Type, entity, scope.Components()...)
	f, err := w.store.FormatOf(scope, typ, property)
	if err != nil {
		return nil, err
	}
	if shard.StrategyFor(f, typ) == shard.Revalidate {
		if legacy := w.locator.LegacyBucketOf(entity); legacy != current {
			return []uint32{current, legacy}, nil
		}
	}
	return []uint32{current}, nil
}

func (w *Writer) membershipType(scope Scope) shard.IndexType {
	if scope.Type == shard.IndexConnection {
		return shard.IndexConnection
	}
	return shard.IndexCollection
}

func (w *Writer) put(scope Scope, typ shard.IndexType, property string, entity ids.ID, key func(b uint32) []byte, value []byte) error {
	buckets, err := w.buckets(scope, typ, property, entity)
	if err != nil {
		return err
	}
	db := w.store.db
	if db == nil {
		return ErrClosed
	}
	b := db.NewBatch()
	for _, bucket := range buckets {
		if err := b.Set(key(bucket), value, nil); err != nil {
			b.Close()
			return err
		}
	}
	return w.store.commit(b)
}

// AddMember puts entity into the membership row of a collection scope.
func (w *Writer) AddMember(scope Scope, entity ids.ID) error {
	return w.put(scope, w.membershipType(scope), "", entity, func(b uint32) []byte {
		k := IndexKey{Scope: scope, Bucket: b}
		return append(k.RowPrefix(), entity[:]...)
	}, nil)
}

// Connect puts target, of type targetType, into the membership row of a
// connection scope.
func (w *Writer) Connect(scope Scope, target ids.ID, targetType string) error {
	return w.put(scope, shard.IndexConnection, "", target, func(b uint32) []byte {
		k := IndexKey{Scope: scope, Bucket: b}
		return append(k.RowPrefix(), scan.ConnectionName(target, targetType)...)
	}, nil)
}

// IndexProperty puts entity into the secondary index row of property
// under value.
func (w *Writer) IndexProperty(scope Scope, property string, value any, entity ids.ID) error {
	name, err := scan.IndexName(value, entity)
	if err != nil {
		return err
	}
	return w.put(scope, w.membershipType(scope), "", entity, func(b uint32) []byte {
		k := IndexKey{Scope: scope, Property: property, Bucket: b}
		return append(k.RowPrefix(), name...)
	}, nil)
}

// IndexLocation puts entity into the geo row of property.
func (w *Writer) IndexLocation(scope Scope, property string, entity ids.ID, p geo.Point) error {
	if err := p.Validate(); err != nil {
		return err
	}
	cell := geo.Cell(p, geo.MaxResolution)
	return w.put(scope, shard.IndexGeo, property, entity, func(b uint32) []byte {
		return geoColumnKey(IndexKey{Scope: scope, Property: property, Bucket: b}, cell, entity)
	}, encodePoint(p))
}
