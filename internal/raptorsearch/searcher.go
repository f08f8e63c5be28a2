package raptorsearch

import (
	"context"

	"transitraptor/internal/network"
)

// StopLabels is one round's best label per stop, indexed by
// network.StopIndex.
type StopLabels []Label

// Query is one earliest-arrival request: the walking footprints of
// the geographic start and finish (computed by internal/nearby), a
// departure time in seconds since midnight, and an optional same-day
// service selector.
type Query struct {
	Origin        map[network.StopIndex]int
	Finish        map[network.StopIndex]int
	Departure     int
	ServiceFilter string
}

// Result is everything the journey reconstructor needs: the labels
// produced by every completed round, and the query's walking
// footprints (carried through so reconstruction doesn't need the
// query again).
type Result struct {
	Rounds []StopLabels
	Target Label
	Origin map[network.StopIndex]int
	Finish map[network.StopIndex]int
}

// Searcher runs the round-based labelling search against one
// immutable Network. It is safe to share a *network.Network across
// many Searchers and many concurrent Run calls; a Searcher carries no
// state between calls.
type Searcher struct {
	net *network.Network
}

// NewSearcher returns a Searcher bound to net.
func NewSearcher(net *network.Network) *Searcher {
	return &Searcher{net: net}
}

// Run executes rounds 1, 2, 3, … until no stop's label improves.
// Round 0 is the seeded origin set. ctx is checked at round
// boundaries only (a clean suspension point); on cancellation, Run
// returns the labels produced by the last fully completed round
// rather than an error, since those are a well-defined, possibly
// suboptimal, result.
func (s *Searcher) Run(ctx context.Context, q Query) (*Result, error) {
	n := s.net.StopCount()

	if len(q.Origin) == 0 || len(q.Finish) == 0 {
		return &Result{Origin: q.Origin, Finish: q.Finish, Target: InfinityLabel()}, nil
	}

	best := make([]Label, n)
	for i := range best {
		best[i] = InfinityLabel()
	}

	round0 := make(StopLabels, n)
	copy(round0, best)

	marked := make(map[network.StopIndex]bool, len(q.Origin))
	for stop, walk := range q.Origin {
		lbl := originLabel(q.Departure + walk)
		best[stop] = lbl
		round0[stop] = lbl
		marked[stop] = true
	}

	rounds := []StopLabels{round0}
	target := InfinityLabel()

	for len(marked) > 0 {
		if ctx.Err() != nil {
			break
		}

		prev := rounds[len(rounds)-1]
		current := make(StopLabels, n)
		copy(current, prev)

		routes := s.accumulate(marked)
		vehicleMarked := s.traverse(q, routes, best, current, prev, &target)
		footMarked := s.relaxFootpaths(vehicleMarked, best, current)

		next := make(map[network.StopIndex]bool, len(vehicleMarked)+len(footMarked))
		for stop := range vehicleMarked {
			next[stop] = true
		}
		for stop := range footMarked {
			next[stop] = true
		}

		rounds = append(rounds, current)
		marked = next
	}

	return &Result{Rounds: rounds, Target: target, Origin: q.Origin, Finish: q.Finish}, nil
}

// accumulate builds route -> earliest-ordinal marked stop, so each
// route is scanned at most once per round from its most useful
// boarding point.
func (s *Searcher) accumulate(marked map[network.StopIndex]bool) map[network.RouteIndex]network.StopIndex {
	routes := make(map[network.RouteIndex]network.StopIndex)
	for stop := range marked {
		for _, r := range s.net.Stops[stop].Routes {
			route := &s.net.Routes[r]
			existing, ok := routes[r]
			if !ok || route.IsBefore(stop, existing) {
				routes[r] = stop
			}
		}
	}
	return routes
}

// traverse scans every accumulated route's tail once, carrying a
// single boarded vehicle forward (catching earlier trips as they
// become reachable, and continuing across circle seams), and returns
// the set of stops whose label improved this round.
func (s *Searcher) traverse(q Query, routes map[network.RouteIndex]network.StopIndex, best []Label, current StopLabels, prev StopLabels, target *Label) map[network.StopIndex]bool {
	marked := make(map[network.StopIndex]bool)

	for r, boardAt := range routes {
		route := &s.net.Routes[r]
		from, to := route.Tail(boardAt)

		var currentTrip *network.Trip
		var boardStop network.StopIndex
		var boardOrdinal network.Ordinal

		for o := from; o < to; o++ {
			stop := route.StopAt(o)

			if currentTrip != nil {
				arrival := route.StopTime(*currentTrip, o)
				bound := best[stop].Arrival
				if target.Arrival < bound {
					bound = target.Arrival
				}
				if arrival < bound {
					lbl := vehicleLabel(arrival, boardStop, r, boardOrdinal, o)
					best[stop] = lbl
					current[stop] = lbl
					marked[stop] = true

					if walk, ok := q.Finish[stop]; ok {
						if candidate := arrival + walk; candidate < target.Arrival {
							target.Arrival = candidate
						}
					}
				}
			}

			candidate := route.EarliestCatchableTrip(prev[stop].Arrival, o, currentTrip, q.ServiceFilter)
			if candidate != nil {
				currentTrip = candidate
				boardStop = stop
				boardOrdinal = o
			} else if route.IsSeam(o) {
				// No trip continues into the next revolution: the
				// boarded trip has no times past the seam.
				currentTrip = nil
			}
		}
	}

	return marked
}

// relaxFootpaths performs the single-hop transfer relaxation from
// every stop marked by the vehicle scan, updating both the round's
// labels and the all-time best. The base arrival at each marked stop
// is snapshotted before any relaxation runs, so a stop that is itself
// a footpath's destination never chains a second hop within the same
// round regardless of map iteration order.
func (s *Searcher) relaxFootpaths(marked map[network.StopIndex]bool, best []Label, current StopLabels) map[network.StopIndex]bool {
	also := make(map[network.StopIndex]bool)

	base := make(map[network.StopIndex]int, len(marked))
	for from := range marked {
		base[from] = current[from].Arrival
	}

	for from := range marked {
		for _, fp := range s.net.FootpathsFrom(from) {
			candidate := base[from] + fp.Duration
			if candidate < current[fp.To].Arrival {
				lbl := footLabel(candidate, from)
				current[fp.To] = lbl
				best[fp.To] = lbl
				also[fp.To] = true
			}
		}
	}

	return also
}
