package store

import (
	"strings"

	"github.com/apache/usergrid-sub013/ids"
	"github.com/pkg/errors"
)

// PutAlias makes name resolve to id within a collection. Names are case
// insensitive.
func (s *Store) PutAlias(app ids.ID, collection, name string, id ids.ID) error {
	if s.db == nil {
		return ErrClosed
	}
	return s.db.Set(aliasKey(app, collection, strings.ToLower(name)), id[:], s.writeOptions())
}

// ResolveName returns the id the name is an alias for, ok=false if none.
func (s *Store) ResolveName(app ids.ID, collection, name string) (id ids.ID, ok bool, err error) {
	v, ok, err := s.get(aliasKey(app, collection, strings.ToLower(name)))
	if err != nil || !ok {
		return ids.Nil, false, err
	}
	if id, err = ids.FromBytes(v); err != nil {
		return ids.Nil, false, errors.Wrap(ErrCorrupt, err.Error())
	}
	return id, true, nil
}
