package scan

import "github.com/apache/usergrid-sub013/ids"

// Column is one entity id flowing through the iterator tree, together with
// the physical position a scan resumes just past. Identity is the id alone.
type Column interface {
	ID() ids.ID
	CursorValue() []byte
	Child() Column
}

type IDColumn struct {
	EntityID ids.ID
	Position []byte
	Chained  Column
}

func (c *IDColumn) ID() ids.ID          { return c.EntityID }
func (c *IDColumn) CursorValue() []byte { return c.Position }
func (c *IDColumn) Child() Column       { return c.Chained }

func NewIDColumn(id ids.ID, position []byte) *IDColumn {
	return &IDColumn{EntityID: id, Position: position}
}

// IndexColumn carries the secondary index value the entry was found under.
type IndexColumn struct {
	IDColumn
	Value any
}

// ConnectionColumn carries the type of the connected entity.
type ConnectionColumn struct {
	IDColumn
	TargetType string
}

type GeoColumn struct {
	IDColumn
	Lat, Lon float64
	// meters from the search center
	Distance float64
}
