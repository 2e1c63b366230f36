// Protocol format is based on ToyTLV (MIT licence) written by Victor Grishchenko in 2024
// Original project: https://github.com/learn-decentralized-systems/toytlv

/*
Package protocol frames page tokens and geo cursors as TLV
(type, length, value) records.

A record type is a letter A-Z. The header takes one of three forms,
picked by body length:

	tiny   ['0'+len]                 len < 10, lowercase type requested
	short  [lowercase type, len]     len <= 0xff
	long   [uppercase type, len:u32] little endian, len < 2^31

A tiny record does not keep its type and reads back as type '0', which
any expected type accepts.
*/
package protocol

import (
	"encoding/binary"
	"errors"
)

const caseBit byte = 'a' - 'A'

var (
	ErrIncomplete = errors.New("protocol: incomplete record")
	ErrBadRecord  = errors.New("protocol: bad record")
)

// header reads the record header at the start of data. typ is 0 when the
// header is cut short and '-' when it is malformed.
func header(data []byte) (typ byte, hlen, blen int) {
	if len(data) == 0 {
		return 0, 0, 0
	}
	b := data[0]
	switch {
	case b >= '0' && b <= '9':
		return '0', 1, int(b - '0')
	case b >= 'a' && b <= 'z':
		if len(data) < 2 {
			return 0, 0, 0
		}
		return b - caseBit, 2, int(data[1])
	case b >= 'A' && b <= 'Z':
		if len(data) < 5 {
			return 0, 0, 0
		}
		n := binary.LittleEndian.Uint32(data[1:5])
		if n > 0x7fffffff {
			return '-', 0, 0
		}
		return b, 5, int(n)
	}
	return '-', 0, 0
}

func appendHeader(into []byte, typ byte, blen int) []byte {
	upper := typ &^ caseBit
	if upper < 'A' || upper > 'Z' {
		panic("protocol: record type must be a letter")
	}
	switch {
	case blen < 10 && typ&caseBit != 0:
		return append(into, byte('0'+blen))
	case blen <= 0xff:
		return append(into, upper|caseBit, byte(blen))
	case blen <= 0x7fffffff:
		into = append(into, upper)
		return binary.LittleEndian.AppendUint32(into, uint32(blen))
	}
	panic("protocol: record too long")
}

func bodyLen(parts [][]byte) (n int) {
	for _, p := range parts {
		n += len(p)
	}
	return
}

// Append appends one record of type typ whose body is the concatenation
// of parts. A lowercase typ allows the tiny header.
func Append(into []byte, typ byte, parts ...[]byte) []byte {
	into = appendHeader(into, typ, bodyLen(parts))
	for _, p := range parts {
		into = append(into, p...)
	}
	return into
}

// Record is Append into a fresh buffer.
func Record(typ byte, parts ...[]byte) []byte {
	n := bodyLen(parts)
	return Append(make([]byte, 0, n+5), typ, parts...)
}

func Concat(parts ...[]byte) []byte {
	ret := make([]byte, 0, bodyLen(parts))
	for _, p := range parts {
		ret = append(ret, p...)
	}
	return ret
}

// TakeWary reads a record of type typ off the front of data. On
// ErrIncomplete rest is data unchanged.
func TakeWary(typ byte, data []byte) (body, rest []byte, err error) {
	got, hlen, blen := header(data)
	switch {
	case got == '-':
		return nil, nil, ErrBadRecord
	case got == 0 || hlen+blen > len(data):
		return nil, data, ErrIncomplete
	case got != typ && got != '0':
		return nil, nil, ErrBadRecord
	}
	return data[hlen : hlen+blen], data[hlen+blen:], nil
}

// Split cuts data into whole records. A truncated or malformed record
// anywhere fails the whole buffer.
func Split(data []byte) (recs [][]byte, err error) {
	for len(data) > 0 {
		typ, hlen, blen := header(data)
		if typ == '-' {
			return nil, ErrBadRecord
		}
		if typ == 0 || hlen+blen > len(data) {
			return nil, ErrIncomplete
		}
		recs = append(recs, data[:hlen+blen])
		data = data[hlen+blen:]
	}
	return recs, nil
}
