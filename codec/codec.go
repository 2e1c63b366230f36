// Package codec implements the order-preserving value encoding used in
// secondary index column names. Byte-wise comparison of two encoded values
// matches CompareValues on the decoded ones, except that an int and a float
// of equal value stay distinct.
//
//	nil     -> 0x01
//	false   -> 0x02
//	true    -> 0x03
//	number  -> 0x04 float64(8, order flipped) 'f'
//	        -> 0x04 float64(8, order flipped) 'i' int64(8, sign flipped)
//	string  -> 0x05 bytes(0x00 escaped as 0x00 0xff) 0x00 0x01
package codec

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

const (
	TagNil    = 0x01
	TagFalse  = 0x02
	TagTrue   = 0x03
	TagNumber = 0x04
	TagString = 0x05
)

const (
	numFloat = 'f'
	numInt   = 'i'
)

var (
	ErrUnsupportedType = errors.New("codec: unsupported value type")
	ErrCorrupt         = errors.New("codec: corrupt encoded value")
)

// Normalize maps every supported Go value onto one of nil, bool, int64,
// float64 or string.
func Normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case float32:
		return float64(x), nil
	case float64:
		if math.IsNaN(x) {
			return nil, errors.Wrap(ErrUnsupportedType, "NaN")
		}
		return x, nil
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedType, "%T", v)
}

func orderedFloat(f float64) uint64 {
	bits := math.Float64bits(f)
	if bits&(1<<63) == 0 {
		return bits ^ (1 << 63)
	}
	return ^bits
}

func unorderedFloat(u uint64) float64 {
	if u&(1<<63) != 0 {
		return math.Float64frombits(u ^ (1 << 63))
	}
	return math.Float64frombits(^u)
}

// Append encodes v onto dst.
func Append(dst []byte, v any) ([]byte, error) {
	n, err := Normalize(v)
	if err != nil {
		return dst, err
	}
	switch x := n.(type) {
	case nil:
		dst = append(dst, TagNil)
	case bool:
		if x {
			dst = append(dst, TagTrue)
		} else {
			dst = append(dst, TagFalse)
		}
	case int64:
		dst = append(dst, TagNumber)
		dst = binary.BigEndian.AppendUint64(dst, orderedFloat(float64(x)))
		dst = append(dst, numInt)
		dst = binary.BigEndian.AppendUint64(dst, uint64(x)^(1<<63))
	case float64:
		dst = append(dst, TagNumber)
		dst = binary.BigEndian.AppendUint64(dst, orderedFloat(x))
		dst = append(dst, numFloat)
	case string:
		dst = append(dst, TagString)
		for i := 0; i < len(x); i++ {
			if x[i] == 0 {
				dst = append(dst, 0, 0xff)
			} else {
				dst = append(dst, x[i])
			}
		}
		dst = append(dst, 0, 1)
	}
	return dst, nil
}

func Encode(v any) ([]byte, error) {
	return Append(nil, v)
}

// EncodeBound encodes v as a range bound: numbers keep only their numeric
// part so an int and a float of equal value fall on the same side.
func EncodeBound(v any) ([]byte, error) {
	enc, err := Encode(v)
	if err != nil {
		return nil, err
	}
	if enc[0] == TagNumber {
		enc = enc[:9]
	}
	return enc, nil
}

// Decode reads one value off the front of b and reports how many bytes it took.
func Decode(b []byte) (v any, n int, err error) {
	if len(b) == 0 {
		return nil, 0, errors.Wrap(ErrCorrupt, "empty")
	}
	switch b[0] {
	case TagNil:
		return nil, 1, nil
	case TagFalse:
		return false, 1, nil
	case TagTrue:
		return true, 1, nil
	case TagNumber:
		if len(b) < 10 {
			return nil, 0, errors.Wrap(ErrCorrupt, "short number")
		}
		switch b[9] {
		case numFloat:
			return unorderedFloat(binary.BigEndian.Uint64(b[1:9])), 10, nil
		case numInt:
			if len(b) < 18 {
				return nil, 0, errors.Wrap(ErrCorrupt, "short int")
			}
			return int64(binary.BigEndian.Uint64(b[10:18]) ^ (1 << 63)), 18, nil
		}
		return nil, 0, errors.Wrapf(ErrCorrupt, "number subtype %x", b[9])
	case TagString:
		var sb bytes.Buffer
		for i := 1; i+1 < len(b); i++ {
			if b[i] != 0 {
				sb.WriteByte(b[i])
				continue
			}
			switch b[i+1] {
			case 0xff:
				sb.WriteByte(0)
				i++
			case 1:
				return sb.String(), i + 2, nil
			default:
				return nil, 0, errors.Wrap(ErrCorrupt, "bad string escape")
			}
		}
		return nil, 0, errors.Wrap(ErrCorrupt, "unterminated string")
	}
	return nil, 0, errors.Wrapf(ErrCorrupt, "tag %x", b[0])
}

// PrefixEnd returns the smallest key greater than every key that starts
// with prefix, or nil if there is none.
func PrefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case int64, float64:
		return 2
	case string:
		return 3
	}
	return 4
}

// CompareValues orders normalized values: nil, then booleans, then numbers
// (ints and floats compared numerically), then strings.
func CompareValues(a, b any) int {
	a, _ = Normalize(a)
	b, _ = Normalize(b)
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch x := a.(type) {
	case bool:
		y := b.(bool)
		if x == y {
			return 0
		} else if !x {
			return -1
		}
		return 1
	case int64:
		if y, ok := b.(int64); ok {
			return cmp3(x < y, x > y)
		}
		return compareFloat(float64(x), b.(float64))
	case float64:
		if y, ok := b.(int64); ok {
			return compareFloat(x, float64(y))
		}
		return compareFloat(x, b.(float64))
	case string:
		return cmp3(x < b.(string), x > b.(string))
	}
	return 0
}

func compareFloat(x, y float64) int {
	return cmp3(x < y, x > y)
}

func cmp3(less, greater bool) int {
	if less {
		return -1
	} else if greater {
		return 1
	}
	return 0
}
