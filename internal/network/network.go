// Package network is the immutable, indexed representation of a
// public-transport timetable: stops, routes, trips and footpaths,
// referenced throughout the searcher by dense integer indices.
package network

import (
	"fmt"

	"github.com/google/uuid"
)

// StopIndex and RouteIndex are dense, zero-based positions into
// Network.Stops and Network.Routes respectively.
type StopIndex int

type RouteIndex int

// Ordinal is a stop's position within a route's (possibly doubled)
// stop sequence.
type Ordinal int

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Stop is a boarding position: a Point plus the routes that serve it.
type Stop struct {
	Point  Point
	Routes []RouteIndex
}

// Trip is one concrete timetabled run of a vehicle along a route.
// ID is a stable identifier minted once by Builder.Build; two trips
// are equal iff their IDs are equal, never by comparing their Stops.
type Trip struct {
	ID    string
	Stops []int // arrival time in seconds since midnight, one per ordinal
	// ServiceID groups trips into same-day service variants (e.g.
	// "weekday", "saturday"). Empty means the trip runs every day.
	ServiceID string
}

// Equal reports whether two trips are the same timetabled run.
func (t Trip) Equal(other Trip) bool {
	return t.ID == other.ID
}

// Footpath is a one-way pedestrian transfer between two stops.
type Footpath struct {
	From     StopIndex
	To       StopIndex
	Duration int // walking seconds, non-negative
}

// Network is the immutable tuple (Stops, Routes, Footpaths-by-source).
// It is built once and is read-only for the lifetime of every query.
type Network struct {
	Stops     []Stop
	Routes    []Route
	Footpaths [][]Footpath // indexed by source StopIndex
}

// StopCount returns the number of stops in the network.
func (n *Network) StopCount() int { return len(n.Stops) }

// FootpathsFrom returns the footpaths originating at s, or nil if
// none are recorded.
func (n *Network) FootpathsFrom(s StopIndex) []Footpath {
	if int(s) < 0 || int(s) >= len(n.Footpaths) {
		return nil
	}
	return n.Footpaths[s]
}

// AllFootpaths returns every recorded footpath keyed by its source
// stop, for callers (internal/netfile) that need to serialize the
// whole transfer graph rather than look up one stop at a time.
func (n *Network) AllFootpaths() map[StopIndex][]Footpath {
	out := make(map[StopIndex][]Footpath)
	for i, fps := range n.Footpaths {
		if len(fps) > 0 {
			out[StopIndex(i)] = fps
		}
	}
	return out
}

// ErrInvariant names a structural invariant the network builder
// discovered was violated. It is never swallowed: callers
// surface it as a fatal, invariant-naming error (spec error kind 5).
type ErrInvariant struct {
	Invariant string
	Detail    string
}

func (e *ErrInvariant) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("network invariant violated: %s", e.Invariant)
	}
	return fmt.Sprintf("network invariant violated: %s: %s", e.Invariant, e.Detail)
}

// Builder assembles a Network from records supplied by an external
// loader (see internal/netfile), minting trip IDs itself rather than
// relying on any process-global counter.
type Builder struct {
	stops  []Stop
	routes []routeSpec
}

type routeSpec struct {
	circle  bool
	stops   []StopIndex
	trips   []tripSpec
}

type tripSpec struct {
	id        string // non-empty overrides the minted UUID, used when replaying a saved network
	arrivals  []int
	serviceID string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddStop appends a stop and returns its dense StopIndex. The
// Routes field is filled in lazily by AddRoute.
func (b *Builder) AddStop(p Point) StopIndex {
	b.stops = append(b.stops, Stop{Point: p})
	return StopIndex(len(b.stops) - 1)
}

// RouteBuilder accumulates trips for a single route before Build.
type RouteBuilder struct {
	parent *Builder
	circle bool
	stops  []StopIndex
	trips  []tripSpec
}

// AddRoute starts a new route over the given ordered stop sequence.
// For a circular route (circle=true), stops should list each distinct
// stop exactly once; the doubled sequence is constructed in Build.
func (b *Builder) AddRoute(circle bool, stops []StopIndex) *RouteBuilder {
	return &RouteBuilder{parent: b, circle: circle, stops: append([]StopIndex(nil), stops...)}
}

// AddTrip records one trip's arrival times, one per stop in route
// order (N entries for a non-circular route, N+1 for a circular one,
// the last being the seam arrival back at the first stop). The trip's
// stable ID is minted later by Build via uuid, never from a shared
// counter.
func (rb *RouteBuilder) AddTrip(arrivals []int, serviceID string) *RouteBuilder {
	rb.trips = append(rb.trips, tripSpec{arrivals: append([]int(nil), arrivals...), serviceID: serviceID})
	return rb
}

// AddTripWithID records a trip whose ID is already known — used only
// by internal/netfile when reloading a previously saved network, so a
// trip's identity survives a save/load round trip instead of being
// re-minted.
func (rb *RouteBuilder) AddTripWithID(id string, arrivals []int, serviceID string) *RouteBuilder {
	rb.trips = append(rb.trips, tripSpec{id: id, arrivals: append([]int(nil), arrivals...), serviceID: serviceID})
	return rb
}

// Done finishes this route and returns its dense RouteIndex once the
// whole network is finalized by Build. The index is reserved now so
// callers can reference it (e.g. for stop.Routes) before Build runs.
func (rb *RouteBuilder) Done() RouteIndex {
	idx := RouteIndex(len(rb.parent.routes))
	rb.parent.routes = append(rb.parent.routes, routeSpec{circle: rb.circle, stops: rb.stops, trips: rb.trips})
	for _, s := range rb.stops {
		rb.parent.stops[s].Routes = appendUnique(rb.parent.stops[s].Routes, idx)
	}
	return idx
}

func appendUnique(routes []RouteIndex, r RouteIndex) []RouteIndex {
	for _, existing := range routes {
		if existing == r {
			return routes
		}
	}
	return append(routes, r)
}

// Build validates and finalizes the network. It mints a fresh, stable
// UUID for every trip added without an ID (trips added through
// AddTripWithID keep theirs) — the only place trip identity is created — and
// checks the structural invariants from spec §3 before returning.
func (b *Builder) Build(footpaths map[StopIndex][]Footpath) (*Network, error) {
	routes := make([]Route, len(b.routes))
	for i, spec := range b.routes {
		expected := len(spec.stops)
		if spec.circle {
			expected++
		}
		trips := make([]Trip, len(spec.trips))
		for j, ts := range spec.trips {
			if len(ts.arrivals) != expected {
				return nil, &ErrInvariant{
					Invariant: "trip stop count matches route length",
					Detail:    fmt.Sprintf("route %d trip %d: got %d stops, want %d", i, j, len(ts.arrivals), expected),
				}
			}
			id := ts.id
			if id == "" {
				id = uuid.NewString()
			}
			trips[j] = Trip{ID: id, Stops: ts.arrivals, ServiceID: ts.serviceID}
		}
		route, err := newRoute(RouteIndex(i), spec.circle, spec.stops, trips)
		if err != nil {
			return nil, err
		}
		routes[i] = route
	}

	fp := make([][]Footpath, len(b.stops))
	for from, list := range footpaths {
		if int(from) < 0 || int(from) >= len(b.stops) {
			return nil, &ErrInvariant{Invariant: "footpath source stop in range", Detail: fmt.Sprintf("stop %d", from)}
		}
		for _, f := range list {
			if f.Duration < 0 {
				return nil, &ErrInvariant{Invariant: "footpath duration non-negative", Detail: fmt.Sprintf("%d -> %d", f.From, f.To)}
			}
		}
		fp[from] = list
	}

	for si, s := range b.stops {
		for _, ri := range s.Routes {
			if int(ri) < 0 || int(ri) >= len(routes) {
				return nil, &ErrInvariant{Invariant: "stop references valid route", Detail: fmt.Sprintf("stop %d -> route %d", si, ri)}
			}
			if _, ok := routes[ri].ordinal[StopIndex(si)]; !ok {
				return nil, &ErrInvariant{Invariant: "route stop sequence contains every stop that claims it", Detail: fmt.Sprintf("stop %d, route %d", si, ri)}
			}
		}
	}

	return &Network{Stops: b.stops, Routes: routes, Footpaths: fp}, nil
}
