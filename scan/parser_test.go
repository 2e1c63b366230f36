package scan

import (
	"testing"

	"github.com/apache/usergrid-sub013/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDParser(t *testing.T) {
	col, ok, err := IDParser{}.Parse(Entry{Name: seqID(4).Bytes()})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, seqID(4), col.ID())
	assert.Equal(t, seqID(4).Bytes(), col.CursorValue())

	_, _, err = IDParser{}.Parse(Entry{Name: []byte{1, 2}})
	assert.ErrorIs(t, err, ErrBadEntry)
}

func TestIndexParser(t *testing.T) {
	name, err := IndexName("Berlin", seqID(9))
	require.NoError(t, err)
	col, ok, err := IndexParser{}.Parse(Entry{Name: name})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, seqID(9), col.ID())
	assert.Equal(t, "Berlin", col.(*IndexColumn).Value)
	assert.Equal(t, name, col.CursorValue())
}

func TestConnectionParserFilters(t *testing.T) {
	p := ConnectionParser{TargetType: "device"}

	col, ok, err := p.Parse(Entry{Name: ConnectionName(seqID(1), "device")})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "device", col.(*ConnectionColumn).TargetType)

	_, ok, err = p.Parse(Entry{Name: ConnectionName(seqID(2), "user")})
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = p.Parse(Entry{Name: ConnectionName(ids.Nil, "device")})
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = ConnectionParser{}.Parse(Entry{Name: ConnectionName(seqID(2), "user")})
	require.NoError(t, err)
	assert.True(t, ok)

	_, _, err = p.Parse(Entry{Name: seqID(1).Bytes()[:5]})
	assert.ErrorIs(t, err, ErrBadEntry)
}
