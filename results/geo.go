package results

import (
	"github.com/apache/usergrid-sub013/cursor"
	"github.com/apache/usergrid-sub013/geo"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/apache/usergrid-sub013/scan"
	"github.com/pkg/errors"
)

// GeoQuery is one proximity predicate.
type GeoQuery struct {
	Property    string
	Center      geo.Point
	MinDistance float64
	MaxDistance float64
}

// GeoIterator pages a proximity search, nearest first. Its cursor is the
// last hit plus the cells that were searched, not a scan position.
type GeoIterator struct {
	mergeIterator
	searcher geo.Searcher
	query    GeoQuery
	pageSize int
	hash     int32
	start    *cursor.GeoPosition

	last  *geo.Location
	cells []string
	done  bool
	byID  map[ids.ID]*scan.GeoColumn
}

// NewGeoIterator resumes from start when it is set.
func NewGeoIterator(s geo.Searcher, q GeoQuery, pageSize int, hash int32, start *cursor.GeoPosition) *GeoIterator {
	it := &GeoIterator{searcher: s, query: q, pageSize: max(pageSize, 1), hash: hash, start: start}
	it.init("geo", it)
	it.restart()
	return it
}

func (it *GeoIterator) restart() {
	it.last, it.cells, it.done, it.byID = nil, nil, false, nil
	if it.start == nil {
		return
	}
	if it.start.Done {
		it.done = true
		return
	}
	it.last = &geo.Location{ID: it.start.ID, Point: geo.Point{Lat: it.start.Lat, Lon: it.start.Lon}}
	it.cells = it.start.Cells
}

func (it *GeoIterator) position(loc geo.Location) cursor.GeoPosition {
	cells := it.cells
	if cells == nil {
		cells = []string{}
	}
	return cursor.GeoPosition{ID: loc.ID, Lat: loc.Point.Lat, Lon: loc.Point.Lon, Cells: cells}
}

func (it *GeoIterator) advance() (*scan.Set, error) {
	if it.done {
		return nil, nil
	}
	q := it.query
	res, err := it.searcher.ProximitySearch(it.last, it.cells, q.Center, q.Property, q.MinDistance, q.MaxDistance, it.pageSize)
	if err != nil {
		return nil, scanErr(err)
	}
	it.cells = res.Cells
	if len(res.Hits) < it.pageSize {
		it.done = true
	}
	page := scan.NewSet(len(res.Hits))
	it.byID = make(map[ids.ID]*scan.GeoColumn, len(res.Hits))
	for _, h := range res.Hits {
		col := &scan.GeoColumn{
			IDColumn: scan.IDColumn{EntityID: h.ID, Position: cursor.EncodeGeo(it.position(h.Location))},
			Lat:      h.Point.Lat,
			Lon:      h.Point.Lon,
			Distance: h.Distance,
		}
		page.Add(col)
		it.byID[h.ID] = col
	}
	if len(res.Hits) > 0 {
		last := res.Hits[len(res.Hits)-1].Location
		it.last = &last
	}
	return page, nil
}

func (it *GeoIterator) doReset() error {
	it.restart()
	return nil
}

func (it *GeoIterator) FinalizeCursor(c *cursor.Cache, last ids.ID) error {
	if col, ok := it.byID[last]; ok {
		pos := it.position(geo.Location{ID: last, Point: geo.Point{Lat: col.Lat, Lon: col.Lon}})
		c.Set(it.hash, cursor.KindGeo, cursor.EncodeGeo(pos))
		return nil
	}
	if !it.done {
		return errors.Wrapf(query_errors.ErrIterationConsistency, "geo %s: id %s is not in the current page", it.query.Property, last)
	}
	c.Set(it.hash, cursor.KindGeo, cursor.EncodeGeo(cursor.GeoPosition{Done: true}))
	return nil
}
