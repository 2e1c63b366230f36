// Package entities loads the few entity fields the query engine needs for
// in-memory ordering.
package entities

import (
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/query_errors"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// PartialEntity is an entity with only the requested fields loaded. A field
// the entity does not have is absent from Fields.
type PartialEntity struct {
	ID     ids.ID
	Fields map[string]any
}

// Field returns the value of name, nil if absent.
func (e *PartialEntity) Field(name string) any {
	return e.Fields[name]
}

type Loader interface {
	// LoadFields returns the entities that exist, in the order of ids.
	LoadFields(ids []ids.ID, fields []string) ([]PartialEntity, error)
	// LoadEntity returns nil for an entity that does not exist.
	LoadEntity(id ids.ID, fields []string) (*PartialEntity, error)
}

// FieldSource is the entity storage the StoreLoader reads from.
type FieldSource interface {
	EntityFields(app, id ids.ID, fields []string) (values map[string]any, exists bool, err error)
}

const DefaultCacheSize = 4096

type fieldKey struct {
	id    ids.ID
	field string
}

type fieldValue struct {
	value   any
	present bool
}

// StoreLoader reads fields of one application's entities, caching each
// (entity, field) pair. The empty field name caches existence.
type StoreLoader struct {
	src   FieldSource
	app   ids.ID
	cache *lru.Cache[fieldKey, fieldValue]
}

func NewStoreLoader(src FieldSource, app ids.ID, cacheSize int) *StoreLoader {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, _ := lru.New[fieldKey, fieldValue](cacheSize)
	return &StoreLoader{src: src, app: app, cache: cache}
}

func (l *StoreLoader) LoadEntity(id ids.ID, fields []string) (*PartialEntity, error) {
	if exists, ok := l.cache.Get(fieldKey{id: id}); ok && !exists.present {
		return nil, nil
	}
	e := &PartialEntity{ID: id, Fields: make(map[string]any, len(fields))}
	var missing []string
	for _, f := range fields {
		if v, ok := l.cache.Get(fieldKey{id, f}); ok {
			if v.present {
				e.Fields[f] = v.value
			}
			continue
		}
		missing = append(missing, f)
	}
	if _, known := l.cache.Get(fieldKey{id: id}); known && len(missing) == 0 {
		return e, nil
	}
	values, exists, err := l.src.EntityFields(l.app, id, missing)
	if err != nil {
		return nil, errors.Wrapf(query_errors.ErrFieldLoad, "entity %s: %v", id, err)
	}
	l.cache.Add(fieldKey{id: id}, fieldValue{present: exists})
	if !exists {
		return nil, nil
	}
	for _, f := range missing {
		v, ok := values[f]
		l.cache.Add(fieldKey{id, f}, fieldValue{value: v, present: ok})
		if ok {
			e.Fields[f] = v
		}
	}
	return e, nil
}

func (l *StoreLoader) LoadFields(list []ids.ID, fields []string) ([]PartialEntity, error) {
	ret := make([]PartialEntity, 0, len(list))
	for _, id := range list {
		e, err := l.LoadEntity(id, fields)
		if err != nil {
			return nil, err
		}
		if e != nil {
			ret = append(ret, *e)
		}
	}
	return ret, nil
}
