package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderForms(t *testing.T) {
	buf := Append(nil, 'A', []byte{'A'})
	buf = Append(buf, 'b', []byte{'B', 'B'})
	assert.Equal(t, []byte{'a', 1, 'A', '2', 'B', 'B'}, buf)

	long := bytes.Repeat([]byte{'c'}, 256)
	rec := Record('C', long)
	assert.Equal(t, []byte{'C', 0, 1, 0, 0}, rec[:5])
	assert.Len(t, rec, 5+256)

	body, rest, err := TakeWary('A', buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{'A'}, body)
	// tiny records match any type
	body, rest, err = TakeWary('Z', rest)
	require.NoError(t, err)
	assert.Equal(t, []byte{'B', 'B'}, body)
	assert.Empty(t, rest)

	body, _, err = TakeWary('C', rec)
	require.NoError(t, err)
	assert.Equal(t, long, body)
}

func TestSplit(t *testing.T) {
	buf := Concat(Record('V', []byte{1}), Record('C', []byte("abc")), Record('c', []byte("x")))
	recs, err := Split(buf)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []byte{'v', 1, 1}, recs[0])
	assert.Equal(t, []byte{'1', 'x'}, recs[2])

	_, err = Split(buf[:len(buf)-1])
	assert.ErrorIs(t, err, ErrIncomplete)

	_, err = Split([]byte{'#', 1, 2})
	assert.ErrorIs(t, err, ErrBadRecord)
}

func TestTakeWaryTruncated(t *testing.T) {
	rec := Record('G', []byte("0123456789ab"))
	_, rest, err := TakeWary('G', rec[:5])
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, rec[:5], rest)

	_, _, err = TakeWary('H', rec)
	assert.ErrorIs(t, err, ErrBadRecord)

	_, _, err = TakeWary('G', []byte{'G', 0, 0, 0, 0x80})
	assert.ErrorIs(t, err, ErrBadRecord)
}
