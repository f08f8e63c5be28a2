package network

import "sort"

// Route is a set of trips sharing the same ordered stop sequence. The
// timetable primitives below (IsBefore, IsSeam, StopAt, StopTime, Tail,
// Range, EarliestCatchableTrip) are the only contact surface the searcher
// needs — everything else about a route's internal layout is private.
type Route struct {
	ID     RouteIndex
	Circle bool

	n       int // number of distinct stops (un-doubled length)
	stops   []StopIndex
	trips   []Trip
	ordinal map[StopIndex]Ordinal
}

// newRoute builds a Route from its distinct stop sequence and trips.
// Circular routes get their sequence doubled to length 2n; the
// ordinal map always records only the first appearance of a stop, so
// a route loop (the same stop twice) orders by its earlier position.
func newRoute(id RouteIndex, circle bool, stops []StopIndex, trips []Trip) (Route, error) {
	n := len(stops)
	if n == 0 {
		return Route{}, &ErrInvariant{Invariant: "route has at least one stop", Detail: ""}
	}

	ordinal := make(map[StopIndex]Ordinal, n)
	for i := n - 1; i >= 0; i-- {
		ordinal[stops[i]] = Ordinal(i)
	}

	full := stops
	if circle {
		full = make([]StopIndex, 0, 2*n)
		full = append(full, stops...)
		full = append(full, stops...)
	}

	sorted := append([]Trip(nil), trips...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Stops[0] < sorted[j].Stops[0] })

	return Route{ID: id, Circle: circle, n: n, stops: full, trips: sorted, ordinal: ordinal}, nil
}

// NumStops returns the number of distinct stops N served by this
// route (the un-doubled sequence length).
func (r *Route) NumStops() int { return r.n }

// DistinctStops returns the route's un-doubled stop sequence, as
// originally supplied to AddRoute — used by internal/netfile to
// serialize a route without its doubled internal layout.
func (r *Route) DistinctStops() []StopIndex { return r.stops[:r.n] }

// Trips returns the route's trips, sorted ascending by their
// departure time from the route's first stop.
func (r *Route) Trips() []Trip { return r.trips }

// StopAt returns the stop at the given ordinal of the (possibly
// doubled) internal sequence.
func (r *Route) StopAt(o Ordinal) StopIndex { return r.stops[o] }

// IsBefore reports whether a's first-appearance ordinal on this route
// precedes b's.
func (r *Route) IsBefore(a, b StopIndex) bool { return r.ordinal[a] < r.ordinal[b] }

// Ordinal returns a stop's first-appearance ordinal on this route.
func (r *Route) Ordinal(s StopIndex) Ordinal { return r.ordinal[s] }

// IsSeam reports whether ordinal is the final position of one
// revolution of a circular route (ordinal N-1).
func (r *Route) IsSeam(o Ordinal) bool {
	return r.Circle && int(o) == r.n-1
}

// Tail returns the half-open ordinal range [from, to) to scan when
// boarding at stop: from its first appearance to the end of the
// sequence, or — for a circular route — exactly one full revolution
// starting at the boarding ordinal.
func (r *Route) Tail(stop StopIndex) (from, to Ordinal) {
	from = r.ordinal[stop]
	if r.Circle {
		return from, from + Ordinal(r.n)
	}
	return from, Ordinal(len(r.stops))
}

// Range returns the inclusive sub-sequence of stops from one ordinal
// to another, used for geometry emission.
func (r *Route) Range(from, to Ordinal) []StopIndex {
	return r.stops[from : to+1]
}

// StopTime returns trip t's scheduled time at ordinal o. For a
// circular route, ordinals >= N wrap by ordinal mod N into
// trip.Stops[0..N). The trip's seam entry (Stops[N]) is never read
// here — it is read directly by the seam-catching logic below, which
// uses it to decide which trip continues into the next revolution.
func (r *Route) StopTime(t Trip, o Ordinal) int {
	if !r.Circle {
		return t.Stops[o]
	}
	return t.Stops[int(o)%r.n]
}

// EarliestCatchableTrip returns the earliest trip that can be boarded
// at ordinal o no earlier than time, upgrading from currentTrip only
// if currentTrip does not already cover this ordinal at time.
// serviceFilter, when non-empty, restricts the search to trips whose
// ServiceID matches it or is empty (runs every day).
//
// On the seam ordinal of a circular route, the question changes: the
// caller wants to continue into the next revolution, so this returns
// the earliest trip whose departure from the route's first stop is at
// or after the current trip's seam entry (Stops[N]). Since a trip's
// seam entry is later than its own first-stop departure, this is a
// later trip, never the current one; nil means no trip continues.
func (r *Route) EarliestCatchableTrip(time int, o Ordinal, currentTrip *Trip, serviceFilter string) *Trip {
	if r.IsSeam(o) {
		return r.catchOnSeam(time, currentTrip, serviceFilter)
	}
	if currentTrip != nil && r.StopTime(*currentTrip, o) >= time {
		return nil
	}
	return r.search(time, o, serviceFilter)
}

func (r *Route) catchOnSeam(time int, currentTrip *Trip, serviceFilter string) *Trip {
	if currentTrip != nil {
		seamArrival := currentTrip.Stops[r.n]
		return r.search(seamArrival, 0, serviceFilter)
	}
	boarding := r.search(time, Ordinal(r.n-1), serviceFilter)
	if boarding == nil {
		return nil
	}
	return r.search(boarding.Stops[r.n], 0, serviceFilter)
}

// search returns the earliest trip (by sorted departure order) whose
// StopTime at o is >= time and which runs under serviceFilter (if
// set), or nil if none does.
func (r *Route) search(time int, o Ordinal, serviceFilter string) *Trip {
	i := sort.Search(len(r.trips), func(i int) bool {
		return r.StopTime(r.trips[i], o) >= time
	})
	if serviceFilter == "" {
		if i == len(r.trips) {
			return nil
		}
		return &r.trips[i]
	}
	for ; i < len(r.trips); i++ {
		if r.trips[i].ServiceID == "" || r.trips[i].ServiceID == serviceFilter {
			return &r.trips[i]
		}
	}
	return nil
}
