package entities

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqID(n int) (id ids.ID) {
	binary.BigEndian.PutUint64(id[8:], uint64(n))
	return
}

type mapSource struct {
	data  map[ids.ID]map[string]any
	calls int
	err   error
}

func (m *mapSource) EntityFields(_ ids.ID, id ids.ID, fields []string) (map[string]any, bool, error) {
	m.calls++
	if m.err != nil {
		return nil, false, m.err
	}
	e, ok := m.data[id]
	if !ok {
		return nil, false, nil
	}
	ret := map[string]any{}
	for _, f := range fields {
		if v, ok := e[f]; ok {
			ret[f] = v
		}
	}
	return ret, true, nil
}

func TestLoadFieldsSkipsMissing(t *testing.T) {
	src := &mapSource{data: map[ids.ID]map[string]any{
		seqID(1): {"name": "b", "age": int64(3)},
		seqID(3): {"name": "a"},
	}}
	l := NewStoreLoader(src, ids.Nil, 0)
	got, err := l.LoadFields([]ids.ID{seqID(3), seqID(2), seqID(1)}, []string{"name", "age"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, seqID(3), got[0].ID)
	assert.Equal(t, "a", got[0].Field("name"))
	assert.Nil(t, got[0].Field("age"))
	assert.Equal(t, int64(3), got[1].Field("age"))
}

func TestLoaderCaches(t *testing.T) {
	src := &mapSource{data: map[ids.ID]map[string]any{seqID(1): {"name": "x"}}}
	l := NewStoreLoader(src, ids.Nil, 16)
	for i := 0; i < 3; i++ {
		e, err := l.LoadEntity(seqID(1), []string{"name"})
		require.NoError(t, err)
		assert.Equal(t, "x", e.Field("name"))
		e, err = l.LoadEntity(seqID(9), []string{"name"})
		require.NoError(t, err)
		assert.Nil(t, e)
	}
	assert.Equal(t, 2, src.calls)
}

func TestLoaderErrorIsFieldLoad(t *testing.T) {
	src := &mapSource{err: errors.New("disk on fire")}
	_, err := NewStoreLoader(src, ids.Nil, 0).LoadFields([]ids.ID{seqID(1)}, []string{"name"})
	assert.ErrorIs(t, err, query_errors.ErrFieldLoad)
}
