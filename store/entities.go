package store

import (
	"github.com/apache/usergrid-sub013/codec"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/pkg/errors"
)

// PutEntity stores the given field values of an entity and marks it as
// existing. Fields not named are left as they are.
func (s *Store) PutEntity(app, id ids.ID, fields map[string]any) error {
	if s.db == nil {
		return ErrClosed
	}
	b := s.db.NewBatch()
	if err := b.Set(entityFieldKey(app, id, ""), nil, nil); err != nil {
		b.Close()
		return err
	}
	for name, v := range fields {
		if name == "" {
			b.Close()
			return errors.New("store: empty field name")
		}
		enc, err := codec.Encode(v)
		if err != nil {
			b.Close()
			return errors.Wrapf(err, "field %s", name)
		}
		if err = b.Set(entityFieldKey(app, id, name), enc, nil); err != nil {
			b.Close()
			return err
		}
	}
	return s.commit(b)
}

// EntityFields reads the named fields of an entity. Fields it does not have
// are absent from the map; exists is false if the entity was never stored.
func (s *Store) EntityFields(app, id ids.ID, fields []string) (values map[string]any, exists bool, err error) {
	entityLoads.Inc()
	if _, exists, err = s.get(entityFieldKey(app, id, "")); err != nil || !exists {
		return nil, exists, err
	}
	values = make(map[string]any, len(fields))
	for _, name := range fields {
		if name == "" {
			continue
		}
		raw, ok, err := s.get(entityFieldKey(app, id, name))
		if err != nil {
			return nil, true, err
		}
		if !ok {
			continue
		}
		v, _, err := codec.Decode(raw)
		if err != nil {
			return nil, true, errors.Wrapf(ErrCorrupt, "field %s: %v", name, err)
		}
		values[name] = v
	}
	return values, true, nil
}
