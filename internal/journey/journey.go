// Package journey turns the per-round labels produced by
// internal/raptorsearch into earliest-arrival journeys: one arrival
// time, one round count, and a geometry made of walking and riding
// segments. One journey is emitted per (round, finish stop)
// improvement; journeys dominated by another are not removed.
package journey

import (
	"sort"

	"transitraptor/internal/network"
	"transitraptor/internal/raptorsearch"
)

// Segment is one leg of a journey, already resolved to concrete
// geographic points so a renderer never has to touch the network
// again. A segment with HasRoute false is a walk (origin/finish access
// or a footpath transfer); otherwise it names the route ridden.
type Segment struct {
	HasRoute bool
	Route    network.RouteIndex
	Points   []network.Point
}

// Journey is one earliest-arrival option: its arrival time, the search
// round whose label produced it, and its ordered segments from the
// geographic start to the geographic finish. A circle-seam crossing
// adds a ride segment within the same round, so a journey can have
// more ride segments than rounds.
type Journey struct {
	Arrival  int
	Rounds   int
	Segments []Segment
}

// Reconstruct walks every round's labels at every finish stop and
// emits one Journey per (round, finish stop) improvement, each wrapped
// with a pseudo-walking segment from the geographic start point and to
// the geographic finish point. Journeys are returned sorted by
// ascending arrival time. A finish stop whose best label in a round
// carries no route (its last hop was a footpath, or it is unreached or
// an origin seed) is skipped: a walking tail onto a transit stop isn't
// an interesting transit journey.
func Reconstruct(net *network.Network, result *raptorsearch.Result, start, finish network.Point) []Journey {
	var journeys []Journey

	for k := 0; k < len(result.Rounds); k++ {
		for stop, walk := range result.Finish {
			current := result.Rounds[k][stop]

			if k > 0 && current.Equal(result.Rounds[k-1][stop]) {
				continue
			}
			if !current.HasRoute {
				continue
			}

			segments, origin, ok := walkChain(net, result.Rounds[k], result.Origin, stop, current)
			if !ok {
				continue
			}

			full := make([]Segment, 0, len(segments)+2)
			full = append(full, Segment{Points: []network.Point{start, net.Stops[origin].Point}})
			full = append(full, segments...)
			full = append(full, Segment{Points: []network.Point{net.Stops[stop].Point, finish}})

			journeys = append(journeys, Journey{
				Arrival:  current.Arrival + walk,
				Rounds:   k,
				Segments: full,
			})
		}
	}

	sort.SliceStable(journeys, func(i, j int) bool { return journeys[i].Arrival < journeys[j].Arrival })
	return journeys
}

// walkChain follows a label's predecessor chain back to a label with
// no predecessor, emitting one segment per hop (in travel order) and
// returning the stop the chain terminates at. It reports false if that
// terminal stop was not one of the query's origin stops: such a chain
// is unreachable from the query's actual starting points and must be
// discarded.
func walkChain(net *network.Network, round raptorsearch.StopLabels, origin map[network.StopIndex]int, stop network.StopIndex, label raptorsearch.Label) ([]Segment, network.StopIndex, bool) {
	var reversed []Segment
	cur := stop
	lbl := label

	for lbl.HasPredecessor {
		pred := lbl.Predecessor
		reversed = append(reversed, buildSegment(net, pred, cur, lbl))
		cur = pred
		lbl = round[pred]
	}

	_, isOrigin := origin[cur]
	if !isOrigin {
		return nil, cur, false
	}

	segments := make([]Segment, len(reversed))
	for i, s := range reversed {
		segments[len(reversed)-1-i] = s
	}
	return segments, cur, true
}

func buildSegment(net *network.Network, from, to network.StopIndex, lbl raptorsearch.Label) Segment {
	if !lbl.HasRoute {
		return Segment{Points: []network.Point{net.Stops[from].Point, net.Stops[to].Point}}
	}

	route := &net.Routes[lbl.Route]
	ridden := route.Range(lbl.BoardOrdinal, lbl.ArrivalOrdinal)
	points := make([]network.Point, len(ridden))
	for i, s := range ridden {
		points[i] = net.Stops[s].Point
	}
	return Segment{HasRoute: true, Route: lbl.Route, Points: points}
}
