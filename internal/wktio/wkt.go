// Package wktio is the WKT boundary between the repository and the
// outside world: parsing query lines into geographic points, and
// rendering a reconstructed journey back out as a single
// GEOMETRYCOLLECTION, per the external interface.
package wktio

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"transitraptor/internal/journey"
	"transitraptor/internal/network"
)

// ParsePoint parses a single WKT POINT into a network coordinate. orb
// stores points as (X, Y), i.e. (lon, lat); network.Point is (Lat,
// Lon), so the axes are swapped on the way in.
func ParsePoint(s string) (network.Point, error) {
	geom, err := wkt.Unmarshal(strings.TrimSpace(s))
	if err != nil {
		return network.Point{}, fmt.Errorf("wktio: parse point %q: %w", s, err)
	}
	p, ok := geom.(orb.Point)
	if !ok {
		return network.Point{}, fmt.Errorf("wktio: expected a POINT, got %T", geom)
	}
	return network.Point{Lat: p.Y(), Lon: p.X()}, nil
}

// ParseQueryLine parses one query-file line of the form
// "WKT_POINT,WKT_POINT" into its origin and finish coordinates.
func ParseQueryLine(line string) (origin, finish network.Point, err error) {
	parts := strings.SplitN(line, ",", 2)
	if len(parts) != 2 {
		return network.Point{}, network.Point{}, fmt.Errorf("wktio: query line must have exactly one comma: %q", line)
	}
	origin, err = ParsePoint(parts[0])
	if err != nil {
		return network.Point{}, network.Point{}, err
	}
	finish, err = ParsePoint(parts[1])
	if err != nil {
		return network.Point{}, network.Point{}, err
	}
	return origin, finish, nil
}

// EncodeJourney renders a journey as a WKT GEOMETRYCOLLECTION: for
// each segment, in travel order, a LINESTRING tracing its points plus
// a POINT at its last coordinate.
func EncodeJourney(j journey.Journey) string {
	collection := make(orb.Collection, 0, 2*len(j.Segments))
	for _, seg := range j.Segments {
		ls := make(orb.LineString, len(seg.Points))
		for i, p := range seg.Points {
			ls[i] = orb.Point{p.Lon, p.Lat}
		}
		collection = append(collection, ls, ls[len(ls)-1])
	}
	return wkt.MarshalString(collection)
}
