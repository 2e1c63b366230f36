package geo

import (
	"math"
	"slices"
	"strings"
)

/*
Geocells split the globe into a 4x4 grid per level; every character of a
cell names one of the 16 sub-cells of its parent, so a cell is the prefix of
every cell inside it.

	lat ^  a b e f
	    |  8 9 c d
	    |  2 3 6 7
	    |  0 1 4 5
	    +----------> lon
*/

const (
	gridSize = 4
	alphabet = "0123456789abcdef"
	// MaxResolution is the length of the cells location rows are stored under.
	MaxResolution = 13
)

type box struct {
	north, east, south, west float64
}

func subdivChar(x, y int) byte {
	return alphabet[(y&2)<<2|(x&2)<<1|(y&1)<<1|(x&1)]
}

func subdivPos(c byte) (x, y int, ok bool) {
	i := strings.IndexByte(alphabet, c)
	if i < 0 {
		return 0, 0, false
	}
	x = (i & 1) | (i&4)>>1
	y = (i&2)>>1 | (i&8)>>2
	return x, y, true
}

// Cell computes the cell of the given resolution containing p.
func Cell(p Point, resolution int) string {
	resolution = clamp(resolution, 1, MaxResolution)
	b := box{north: 90, east: 180, south: -90, west: -180}
	cell := make([]byte, 0, resolution)
	for len(cell) < resolution {
		lonSpan := (b.east - b.west) / gridSize
		latSpan := (b.north - b.south) / gridSize
		x := min(int(gridSize*(p.Lon-b.west)/(b.east-b.west)), gridSize-1)
		y := min(int(gridSize*(p.Lat-b.south)/(b.north-b.south)), gridSize-1)
		cell = append(cell, subdivChar(x, y))
		b.south += latSpan * float64(y)
		b.north = b.south + latSpan
		b.west += lonSpan * float64(x)
		b.east = b.west + lonSpan
	}
	return string(cell)
}

func cellBox(cell string) (b box, ok bool) {
	b = box{north: 90, east: 180, south: -90, west: -180}
	for i := 0; i < len(cell); i++ {
		x, y, valid := subdivPos(cell[i])
		if !valid {
			return b, false
		}
		lonSpan := (b.east - b.west) / gridSize
		latSpan := (b.north - b.south) / gridSize
		b.south += latSpan * float64(y)
		b.north = b.south + latSpan
		b.west += lonSpan * float64(x)
		b.east = b.west + lonSpan
	}
	return b, true
}

// ValidCell reports whether s is a well formed cell.
func ValidCell(s string) bool {
	if s == "" || len(s) > MaxResolution {
		return false
	}
	_, ok := cellBox(s)
	return ok
}

// spans returns the height and width in meters of a cell of the given
// resolution around latitude lat.
func spans(resolution int, lat float64) (height, width float64) {
	latDeg := 180 / math.Pow(gridSize, float64(resolution))
	lonDeg := 360 / math.Pow(gridSize, float64(resolution))
	perDeg := math.Pi * EarthRadius / 180
	return latDeg * perDeg, lonDeg * perDeg * math.Cos(radians(clamp(math.Abs(lat), 0, 89)))
}

// SearchCells picks the cells to scan for points within radius meters of
// center: the finest resolution whose cells are at least radius across,
// the center cell plus its eight neighbours. Radii wider than a first
// level cell scan the whole grid.
func SearchCells(center Point, radius float64) []string {
	res := 0
	for r := MaxResolution; r >= 1; r-- {
		h, w := spans(r, center.Lat)
		if h >= radius && w >= radius {
			res = r
			break
		}
	}
	if res <= 1 {
		cells := make([]string, 0, len(alphabet))
		for i := 0; i < len(alphabet); i++ {
			cells = append(cells, alphabet[i:i+1])
		}
		return cells
	}
	latDeg := 180 / math.Pow(gridSize, float64(res))
	lonDeg := 360 / math.Pow(gridSize, float64(res))
	var cells []string
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			lat := center.Lat + float64(dy)*latDeg
			if lat > 90 || lat < -90 {
				continue
			}
			lon := center.Lon + float64(dx)*lonDeg
			if lon > 180 {
				lon -= 360
			} else if lon < -180 {
				lon += 360
			}
			cell := Cell(Point{Lat: lat, Lon: lon}, res)
			if !slices.Contains(cells, cell) {
				cells = append(cells, cell)
			}
		}
	}
	slices.Sort(cells)
	return cells
}
