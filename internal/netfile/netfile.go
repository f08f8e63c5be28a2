// Package netfile loads and saves the opaque binary network file that
// internal/network.Network is built from and persisted to. There is no
// database behind this tool — a network snapshot is just a gob blob on
// disk, playing the same role the teacher's Postgres loader once did.
package netfile

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"os"

	"transitraptor/internal/network"
)

// platform, passage and schedule mirror the conceptual schema a
// network file encodes (platforms, routes, passages) without exposing
// network.Network's internal route/ordinal bookkeeping, which is
// rebuilt on load via network.Builder.
type platform struct {
	Lat  float64
	Lon  float64
}

type schedule struct {
	ID        string
	ServiceID string
	Stops     []int
}

type routeRecord struct {
	Circle bool
	Stops  []int
	Trips  []schedule
}

type passage struct {
	From     int
	To       int
	Duration int
}

type document struct {
	Platforms []platform
	Routes    []routeRecord
	Passages  []passage
}

// Load reads a network file from path and rebuilds a *network.Network
// from it, re-minting trip IDs is avoided entirely: Save already
// captured each trip's stable ID, so Load replays it through the
// builder unchanged via a trip ID override.
func Load(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("netfile: open %s: %w", path, err)
	}
	defer f.Close()

	var doc document
	if err := gob.NewDecoder(bufio.NewReader(f)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("netfile: decode %s: %w", path, err)
	}

	b := network.NewBuilder()
	for _, p := range doc.Platforms {
		b.AddStop(network.Point{Lat: p.Lat, Lon: p.Lon})
	}

	for _, r := range doc.Routes {
		stops := make([]network.StopIndex, len(r.Stops))
		for i, s := range r.Stops {
			stops[i] = network.StopIndex(s)
		}
		rb := b.AddRoute(r.Circle, stops)
		for _, tr := range r.Trips {
			rb.AddTripWithID(tr.ID, tr.Stops, tr.ServiceID)
		}
		rb.Done()
	}

	footpaths := make(map[network.StopIndex][]network.Footpath, len(doc.Passages))
	for _, p := range doc.Passages {
		from := network.StopIndex(p.From)
		footpaths[from] = append(footpaths[from], network.Footpath{
			From:     from,
			To:       network.StopIndex(p.To),
			Duration: p.Duration,
		})
	}

	net, err := b.Build(footpaths)
	if err != nil {
		return nil, fmt.Errorf("netfile: rebuild network from %s: %w", path, err)
	}
	return net, nil
}

// Save encodes net into the opaque binary format Load reads back.
func Save(path string, net *network.Network) error {
	doc := document{
		Platforms: make([]platform, len(net.Stops)),
	}
	for i, s := range net.Stops {
		doc.Platforms[i] = platform{Lat: s.Point.Lat, Lon: s.Point.Lon}
	}

	for _, r := range net.Routes {
		rec := routeRecord{Circle: r.Circle, Stops: toInts(r.DistinctStops())}
		for _, t := range r.Trips() {
			rec.Trips = append(rec.Trips, schedule{ID: t.ID, ServiceID: t.ServiceID, Stops: t.Stops})
		}
		doc.Routes = append(doc.Routes, rec)
	}

	for from, fps := range net.AllFootpaths() {
		for _, fp := range fps {
			doc.Passages = append(doc.Passages, passage{From: int(from), To: int(fp.To), Duration: fp.Duration})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("netfile: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := gob.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("netfile: encode %s: %w", path, err)
	}
	return w.Flush()
}

func toInts(stops []network.StopIndex) []int {
	out := make([]int, len(stops))
	for i, s := range stops {
		out[i] = int(s)
	}
	return out
}
