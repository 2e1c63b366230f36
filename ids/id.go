package ids

import (
	"bytes"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

/*
ID identifies one stored entity. It is a 16 byte UUID; ids minted
by New are version 7, so the byte order is the creation time order.

	0...............48......52..............64.......................128
	+-------+-------+-------+-------+-------+-------+-------+-------+
	|....unix.ms.(48.bits)...|ver|..rand(12)..|var|.....rand.(62)....|
*/
type ID [16]byte

const Len = 16

var Nil ID

var ErrBadID = errors.New("ids: bad entity id")

// New mints a fresh time-ordered id.
func New() ID {
	return ID(uuid.Must(uuid.NewV7()))
}

func FromUUID(u uuid.UUID) ID {
	return ID(u)
}

func FromBytes(b []byte) (id ID, err error) {
	if len(b) != Len {
		return Nil, errors.Wrapf(ErrBadID, "length %d", len(b))
	}
	copy(id[:], b)
	return
}

func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, errors.Wrap(ErrBadID, err.Error())
	}
	return ID(u), nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) UUID() uuid.UUID {
	return uuid.UUID(id)
}

func (id ID) Bytes() []byte {
	ret := make([]byte, Len)
	copy(ret, id[:])
	return ret
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

func (id ID) IsNil() bool {
	return id == Nil
}

func (id ID) Compare(other ID) int {
	return bytes.Compare(id[:], other[:])
}

func (id ID) Less(other ID) bool {
	return id.Compare(other) < 0
}
