package store

import (
	"encoding/binary"
	"math"

	"github.com/apache/usergrid-sub013/geo"
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/query_errors"
	"github.com/pkg/errors"
)

func geoColumnKey(key IndexKey, cell string, id ids.ID) []byte {
	k := key.geoPrefix()
	k = append(k, cell...)
	return append(k, id[:]...)
}

func encodePoint(p geo.Point) []byte {
	var v [16]byte
	binary.BigEndian.PutUint64(v[:8], math.Float64bits(p.Lat))
	binary.BigEndian.PutUint64(v[8:], math.Float64bits(p.Lon))
	return v[:]
}

func decodePoint(v []byte) (geo.Point, error) {
	if len(v) != 16 {
		return geo.Point{}, errors.Wrap(ErrCorrupt, "geo value")
	}
	return geo.Point{
		Lat: math.Float64frombits(binary.BigEndian.Uint64(v[:8])),
		Lon: math.Float64frombits(binary.BigEndian.Uint64(v[8:])),
	}, nil
}

// GeoReader reads the geo rows of one scope and bucket.
type GeoReader struct {
	store  *Store
	scope  Scope
	bucket uint32
}

func (s *Store) GeoReader(scope Scope, bucket uint32) *GeoReader {
	return &GeoReader{store: s, scope: scope, bucket: bucket}
}

func (g *GeoReader) Locations(property, cell string) (locs []geo.Location, err error) {
	geoCellScans.Inc()
	key := IndexKey{Scope: g.scope, Property: property, Bucket: g.bucket}
	prefix := append(key.geoPrefix(), cell...)
	plen := len(key.geoPrefix())
	err = g.store.prefixScan(prefix, func(k, v []byte) error {
		if len(k) != plen+geo.MaxResolution+ids.Len {
			return errors.Wrap(ErrCorrupt, "geo key")
		}
		id, _ := ids.FromBytes(k[plen+geo.MaxResolution:])
		p, err := decodePoint(v)
		if err != nil {
			return err
		}
		locs = append(locs, geo.Location{ID: id, Point: p})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(query_errors.ErrScan, err.Error())
	}
	return locs, nil
}
