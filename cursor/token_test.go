package cursor

import (
	"testing"

	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	c := NewCache()
	c.Set(-17, KindColumn, []byte("column-name"))
	c.Set(4, KindID, make([]byte, 16))
	c.Set(99, KindGeo, []byte{})

	token := Encode(c)
	assert.NotContains(t, token, "=")
	assert.NotContains(t, token, "/")

	back, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, []int32{-17, 4, 99}, back.Hashes())
	e, ok := back.Get(-17)
	require.True(t, ok)
	assert.Equal(t, KindColumn, e.Kind)
	assert.Equal(t, []byte("column-name"), e.Value)
	e, _ = back.Get(4)
	assert.Equal(t, KindID, e.Kind)
	assert.Len(t, e.Value, 16)
	assert.True(t, back.Has(99))
	assert.Empty(t, back.Value(99))
}

func TestEmptyToken(t *testing.T) {
	assert.Equal(t, "", Encode(NewCache()))
	c, err := Decode("")
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestLegacyToken(t *testing.T) {
	c := NewCache()
	c.Set(123456, KindColumn, []byte{0, 1, 2, 0xff})
	c.Set(-5, KindColumn, []byte("abc"))

	back, err := Decode(EncodeLegacy(c))
	require.NoError(t, err)
	assert.Equal(t, []int32{-5, 123456}, back.Hashes())
	assert.Equal(t, []byte{0, 1, 2, 0xff}, back.Value(123456))
	assert.Equal(t, []byte("abc"), back.Value(-5))
}

func TestMalformedTokens(t *testing.T) {
	for _, tok := range []string{
		"!!!",
		tokenEncoding.EncodeToString([]byte("12:abc|nocolon")),
		tokenEncoding.EncodeToString([]byte("notanumber:YWJj")),
		tokenEncoding.EncodeToString([]byte{'v', 1, 2}),
		tokenEncoding.EncodeToString([]byte{'v', 1, 1, 'c', 2, 0, 0}),
	} {
		_, err := Decode(tok)
		assert.ErrorIs(t, err, query_errors.ErrMalformedCursor, tok)
	}
}
