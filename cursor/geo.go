package cursor

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/protocol"
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/pkg/errors"
)

// GeoPosition is where a proximity search resumes: the last entity
// returned, its coordinates and the cells searched so far. Cells nil
// means no cell list was recorded; an empty non-nil slice is an empty one.
// Done marks a finished search.
type GeoPosition struct {
	ID    ids.ID
	Lat   float64
	Lon   float64
	Cells []string
	Done  bool
}

const (
	legacyDelim    = "+"
	legacyCellSep  = "~"
	legacyMinParts = 3
)

/*
EncodeGeo renders the binary layout:

	G( I(id) L(lat:float64be lon:float64be) [C( S(cell) S(cell)... )] )

A finished search encodes to no bytes.
*/
func EncodeGeo(p GeoPosition) []byte {
	if p.Done {
		return []byte{}
	}
	var ll [16]byte
	binary.BigEndian.PutUint64(ll[:8], math.Float64bits(p.Lat))
	binary.BigEndian.PutUint64(ll[8:], math.Float64bits(p.Lon))
	body := protocol.Concat(protocol.Record('I', p.ID[:]), protocol.Record('L', ll[:]))
	if p.Cells != nil {
		var cells []byte
		for _, cell := range p.Cells {
			cells = protocol.Append(cells, 'S', []byte(cell))
		}
		body = protocol.Append(body, 'C', cells)
	}
	return protocol.Record('G', body)
}

// DecodeGeo reads both the binary layout and the older delimited string
// "id+lat+lon[+cell~cell...]".
func DecodeGeo(b []byte) (GeoPosition, error) {
	if len(b) == 0 {
		return GeoPosition{Done: true}, nil
	}
	if b[0] == 'g' || b[0] == 'G' {
		return decodeGeoBinary(b)
	}
	return DecodeGeoLegacy(string(b))
}

func decodeGeoBinary(b []byte) (p GeoPosition, err error) {
	body, rest, err := protocol.TakeWary('G', b)
	if err != nil || len(rest) != 0 {
		return p, errors.Wrap(query_errors.ErrMalformedCursor, "geo cursor framing")
	}
	idb, body, err := protocol.TakeWary('I', body)
	if err != nil {
		return p, errors.Wrap(query_errors.ErrMalformedCursor, "geo cursor id")
	}
	if p.ID, err = ids.FromBytes(idb); err != nil {
		return p, errors.Wrap(query_errors.ErrMalformedCursor, err.Error())
	}
	ll, body, err := protocol.TakeWary('L', body)
	if err != nil || len(ll) != 16 {
		return p, errors.Wrap(query_errors.ErrMalformedCursor, "geo cursor coordinates")
	}
	p.Lat = math.Float64frombits(binary.BigEndian.Uint64(ll[:8]))
	p.Lon = math.Float64frombits(binary.BigEndian.Uint64(ll[8:]))
	if len(body) == 0 {
		return p, nil
	}
	cells, body, err := protocol.TakeWary('C', body)
	if err != nil || len(body) != 0 {
		return p, errors.Wrap(query_errors.ErrMalformedCursor, "geo cursor cells")
	}
	p.Cells = []string{}
	for len(cells) > 0 {
		var cell []byte
		cell, cells, err = protocol.TakeWary('S', cells)
		if err != nil {
			return p, errors.Wrap(query_errors.ErrMalformedCursor, "geo cursor cell")
		}
		p.Cells = append(p.Cells, string(cell))
	}
	return p, nil
}

// DecodeGeoLegacy parses "id+lat+lon[+cell~cell...]". A trailing "+" with
// nothing after it is an empty cell list; blank cells are skipped.
func DecodeGeoLegacy(s string) (p GeoPosition, err error) {
	if s == "" {
		return GeoPosition{Done: true}, nil
	}
	parts := strings.SplitN(s, legacyDelim, legacyMinParts+1)
	if len(parts) < legacyMinParts {
		return p, errors.Wrapf(query_errors.ErrMalformedCursor, "geo cursor %q has %d parts", s, len(parts))
	}
	if p.ID, err = ids.Parse(parts[0]); err != nil {
		return p, errors.Wrap(query_errors.ErrMalformedCursor, err.Error())
	}
	if p.Lat, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return p, errors.Wrap(query_errors.ErrMalformedCursor, "geo cursor latitude")
	}
	if p.Lon, err = strconv.ParseFloat(parts[2], 64); err != nil {
		return p, errors.Wrap(query_errors.ErrMalformedCursor, "geo cursor longitude")
	}
	if len(parts) > legacyMinParts {
		p.Cells = []string{}
		for _, cell := range strings.Split(parts[3], legacyCellSep) {
			if cell != "" {
				p.Cells = append(p.Cells, cell)
			}
		}
	}
	return p, nil
}

// EncodeGeoLegacy renders the delimited string form.
func EncodeGeoLegacy(p GeoPosition) string {
	if p.Done {
		return ""
	}
	s := p.ID.String() + legacyDelim +
		strconv.FormatFloat(p.Lat, 'f', -1, 64) + legacyDelim +
		strconv.FormatFloat(p.Lon, 'f', -1, 64)
	if p.Cells != nil {
		s += legacyDelim + strings.Join(p.Cells, legacyCellSep)
	}
	return s
}
