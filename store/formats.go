package store

import (
	"github.com/apache/usergrid-sub013/shard"
	"github.com/pkg/errors"
)

// SetFormat records the layout version the rows of an index are written
// with. property is only meaningful for geo indexes.
func (s *Store) SetFormat(scope Scope, typ shard.IndexType, property string, f shard.Format) error {
	if s.db == nil {
		return ErrClosed
	}
	key := formatKey(scope, typ, property)
	if err := s.db.Set(key, []byte{byte(f)}, s.writeOptions()); err != nil {
		return err
	}
	s.formats.Store(string(key), f)
	return nil
}

// FormatOf returns the recorded layout version of an index, or
// shard.DefaultFormat when none was recorded.
func (s *Store) FormatOf(scope Scope, typ shard.IndexType, property string) (shard.Format, error) {
	key := formatKey(scope, typ, property)
	if f, ok := s.formats.Load(string(key)); ok {
		return f, nil
	}
	v, ok, err := s.get(key)
	if err != nil {
		return 0, err
	}
	f := shard.DefaultFormat(typ)
	if ok {
		if len(v) != 1 {
			return 0, errors.Wrap(ErrCorrupt, "index format")
		}
		f = shard.Format(v[0])
	}
	s.formats.Store(string(key), f)
	return f, nil
}
