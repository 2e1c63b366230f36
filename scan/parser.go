package scan

import (
	"github.com/apache/usergrid-sub013/codec"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/pkg/errors"
)

// Parser turns a raw entry into a Column. ok=false drops the entry; that is
// filtering, not failure. Errors mean the entry cannot be read at all.
type Parser interface {
	Parse(e Entry) (col Column, ok bool, err error)
}

var ErrBadEntry = errors.New("scan: unreadable index entry")

// IDParser reads collection membership rows, whose column name is the
// member id itself.
type IDParser struct{}

func (IDParser) Parse(e Entry) (Column, bool, error) {
	id, err := ids.FromBytes(e.Name)
	if err != nil {
		return nil, false, errors.Wrap(ErrBadEntry, err.Error())
	}
	return NewIDColumn(id, e.Name), true, nil
}

// IndexParser reads secondary index rows: encoded value followed by id.
type IndexParser struct{}

func (IndexParser) Parse(e Entry) (Column, bool, error) {
	v, n, err := codec.Decode(e.Name)
	if err != nil {
		return nil, false, errors.Wrap(ErrBadEntry, err.Error())
	}
	id, err := ids.FromBytes(e.Name[n:])
	if err != nil {
		return nil, false, errors.Wrap(ErrBadEntry, err.Error())
	}
	return &IndexColumn{IDColumn: IDColumn{EntityID: id, Position: e.Name}, Value: v}, true, nil
}

// ConnectionParser reads connection rows: connected id then the encoded
// type of the connected entity. A non-empty TargetType keeps only
// connections to that type. Rows pointing at the nil id mark a loopback
// and are dropped.
type ConnectionParser struct {
	TargetType string
}

func (p ConnectionParser) Parse(e Entry) (Column, bool, error) {
	if len(e.Name) < ids.Len {
		return nil, false, errors.Wrap(ErrBadEntry, "short connection column")
	}
	id, _ := ids.FromBytes(e.Name[:ids.Len])
	v, _, err := codec.Decode(e.Name[ids.Len:])
	if err != nil {
		return nil, false, errors.Wrap(ErrBadEntry, err.Error())
	}
	typ, ok := v.(string)
	if !ok {
		return nil, false, errors.Wrap(ErrBadEntry, "connection type is not a string")
	}
	if id.IsNil() {
		return nil, false, nil
	}
	if p.TargetType != "" && p.TargetType != typ {
		return nil, false, nil
	}
	return &ConnectionColumn{IDColumn: IDColumn{EntityID: id, Position: e.Name}, TargetType: typ}, true, nil
}

// ConnectionName builds the column name ConnectionParser reads.
func ConnectionName(id ids.ID, targetType string) []byte {
	name := id.Bytes()
	name, _ = codec.Append(name, targetType)
	return name
}

// IndexName builds the column name IndexParser reads.
func IndexName(value any, id ids.ID) ([]byte, error) {
	name, err := codec.Encode(value)
	if err != nil {
		return nil, err
	}
	return append(name, id[:]...), nil
}
