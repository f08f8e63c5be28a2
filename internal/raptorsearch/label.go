// Package raptorsearch runs the round-based labelling search: the
// dominant component of this repository. It owns all per-query state
// (best-known labels per round, the marked set, the target bound) and
// never mutates the network it is handed.
package raptorsearch

import (
	"math"

	"transitraptor/internal/network"
)

// infinityArrival stands in for "unreached" — large enough that any
// real arrival time dominates it, but finite so labels remain
// ordinary comparable values.
const infinityArrival = math.MaxInt32

// Label records the best known journey to a stop: its arrival time,
// the predecessor stop it was reached from (if any), and whether it
// was reached by vehicle (naming the route) or on foot/origin.
//
// BoardOrdinal and ArrivalOrdinal are only meaningful when HasRoute is
// true: they are the global (possibly doubled, for a circular route)
// ordinals of the boarding and alighting stops on this one ride, and
// exist purely so journey reconstruction can ask the route for the
// exact intermediate stop sequence via Route.Range, even when the ride
// crosses a seam.
type Label struct {
	Arrival        int
	HasPredecessor bool
	Predecessor    network.StopIndex
	HasRoute       bool
	Route          network.RouteIndex
	BoardOrdinal   network.Ordinal
	ArrivalOrdinal network.Ordinal
}

// InfinityLabel is the "unreached" label every stop starts at.
func InfinityLabel() Label {
	return Label{Arrival: infinityArrival}
}

// Dominates reports whether a is strictly better than b.
func (a Label) Dominates(b Label) bool {
	return a.Arrival < b.Arrival
}

// Equal reports whether two labels describe the same journey state,
// used by the Pareto filter to detect a round with no improvement.
func (a Label) Equal(b Label) bool {
	return a.Arrival == b.Arrival &&
		a.HasPredecessor == b.HasPredecessor &&
		a.Predecessor == b.Predecessor &&
		a.HasRoute == b.HasRoute &&
		a.Route == b.Route &&
		a.BoardOrdinal == b.BoardOrdinal &&
		a.ArrivalOrdinal == b.ArrivalOrdinal
}

func originLabel(arrival int) Label {
	return Label{Arrival: arrival}
}

func footLabel(arrival int, from network.StopIndex) Label {
	return Label{Arrival: arrival, HasPredecessor: true, Predecessor: from}
}

func vehicleLabel(arrival int, boardedAt network.StopIndex, route network.RouteIndex, boardOrdinal, arrivalOrdinal network.Ordinal) Label {
	return Label{
		Arrival:        arrival,
		HasPredecessor: true,
		Predecessor:    boardedAt,
		HasRoute:       true,
		Route:          route,
		BoardOrdinal:   boardOrdinal,
		ArrivalOrdinal: arrivalOrdinal,
	}
}
