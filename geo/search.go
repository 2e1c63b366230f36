package geo

import (
	"slices"

	"github.com/apache/usergrid-sub013/ids"
	"github.com/pkg/errors"
)

// Location is one indexed point.
type Location struct {
	ID    ids.ID
	Point Point
}

type Hit struct {
	Location
	// meters from the search center
	Distance float64
}

// Result is one page of a proximity search and the cells it covered.
type Result struct {
	Hits  []Hit
	Cells []string
}

// CellReader lists the locations stored under a cell prefix.
type CellReader interface {
	Locations(property, cell string) ([]Location, error)
}

// Searcher pages a proximity search. last is the last hit of the previous
// page (nil to start), lastCells the cells that page covered.
type Searcher interface {
	ProximitySearch(last *Location, lastCells []string, center Point, property string,
		minDistance, maxDistance float64, limit int) (Result, error)
}

// IndexSearcher orders hits by distance then id over the cells picked by
// SearchCells.
type IndexSearcher struct {
	Reader CellReader
}

func NewIndexSearcher(r CellReader) *IndexSearcher {
	return &IndexSearcher{Reader: r}
}

func compareHits(a, b Hit) int {
	if a.Distance < b.Distance {
		return -1
	} else if a.Distance > b.Distance {
		return 1
	}
	return a.ID.Compare(b.ID)
}

func (s *IndexSearcher) ProximitySearch(last *Location, lastCells []string, center Point, property string,
	minDistance, maxDistance float64, limit int) (res Result, err error) {
	if err = center.Validate(); err != nil {
		return
	}
	cells := lastCells
	if len(cells) == 0 {
		cells = SearchCells(center, maxDistance)
	}
	var after *Hit
	if last != nil {
		after = &Hit{Location: *last, Distance: Distance(center, last.Point)}
	}
	seen := make(map[ids.ID]struct{})
	for _, cell := range cells {
		if !ValidCell(cell) {
			return res, errors.Wrapf(ErrBadPoint, "cell %q", cell)
		}
		locs, err := s.Reader.Locations(property, cell)
		if err != nil {
			return res, err
		}
		for _, loc := range locs {
			if _, dup := seen[loc.ID]; dup {
				continue
			}
			seen[loc.ID] = struct{}{}
			hit := Hit{Location: loc, Distance: Distance(center, loc.Point)}
			if hit.Distance < minDistance || hit.Distance > maxDistance {
				continue
			}
			if after != nil && compareHits(hit, *after) <= 0 {
				continue
			}
			res.Hits = append(res.Hits, hit)
		}
	}
	slices.SortFunc(res.Hits, compareHits)
	if limit > 0 && len(res.Hits) > limit {
		res.Hits = res.Hits[:limit]
	}
	res.Cells = cells
	return res, nil
}
