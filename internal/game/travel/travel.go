// Package travel finds and walks routes over the connections a player has
// discovered. Unknown connections do not exist as far as routing is
// concerned, so a shorter road the player hasn't found yet is never taken.
package travel

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/cory-johannsen/frontier/internal/game/world"
)

var (
	// ErrNoKnownPath means no sequence of known connections joins the two
	// areas.
	ErrNoKnownPath = errors.New("no route over known connections")
	// ErrSessionExhausted means the session cannot cover the route's cost.
	ErrSessionExhausted = errors.New("session has no time left to travel")
)

// Path is a route over known connections, endpoints inclusive.
type Path struct {
	// Areas lists the route's areas in walking order; Areas[0] is the
	// origin.
	Areas []world.AreaID
	// TotalTicks is the summed travel cost of the route's connections.
	TotalTicks float64
}

// Hops returns the number of connections the path traverses.
func (p Path) Hops() int {
	if len(p.Areas) == 0 {
		return 0
	}
	return len(p.Areas) - 1
}

// MoveResult reports a completed move.
type MoveResult struct {
	Path          Path
	TicksConsumed float64
}

// FindPath returns the cheapest route from one area to another over the
// player's known connections.
//
// Cost ties resolve by connection insertion order, so identical worlds
// answer identically. ok is false when no known route exists; a route to an
// undiscovered area never exists, because every known connection has known
// endpoints.
func FindPath(w *world.World, from, to world.AreaID) (Path, bool) {
	if from == to {
		return Path{Areas: []world.AreaID{from}, TotalTicks: 0}, true
	}

	dist := map[world.AreaID]float64{from: 0}
	prev := make(map[world.AreaID]world.AreaID)
	done := make(map[world.AreaID]bool)

	pq := &travelQueue{}
	heap.Init(pq)
	pushOrder := 0
	heap.Push(pq, &travelStop{area: from, cost: 0, order: pushOrder})

	for pq.Len() > 0 {
		stop := heap.Pop(pq).(*travelStop)
		if done[stop.area] {
			continue
		}
		done[stop.area] = true
		if stop.area == to {
			break
		}
		for _, c := range w.ConnectionsOf(stop.area) {
			if !w.Player.KnowsConnection(c.ID) {
				continue
			}
			next := c.Other(stop.area)
			cost := stop.cost + c.TravelTicks()
			if best, seen := dist[next]; !seen || cost < best {
				dist[next] = cost
				prev[next] = stop.area
				pushOrder++
				heap.Push(pq, &travelStop{area: next, cost: cost, order: pushOrder})
			}
		}
	}

	if !done[to] {
		return Path{}, false
	}

	var areas []world.AreaID
	for at := to; ; at = prev[at] {
		areas = append(areas, at)
		if at == from {
			break
		}
	}
	for i, j := 0, len(areas)-1; i < j; i, j = i+1, j-1 {
		areas[i], areas[j] = areas[j], areas[i]
	}
	return Path{Areas: areas, TotalTicks: dist[to]}, true
}

// Move walks the player to the target area along the cheapest known route,
// charging the whole cost atomically: either the full path is paid and the
// player arrives, or nothing changes.
//
// Postcondition: on success the player stands in the target area, the area
// is generated (arriving inspects it), and exactly Path.TotalTicks were
// charged.
func Move(w *world.World, to world.AreaID) (MoveResult, error) {
	if w.Session == nil {
		panic("travel: Move without a started session")
	}

	path, ok := FindPath(w, w.Player.CurrentArea, to)
	if !ok {
		return MoveResult{}, fmt.Errorf("to %s: %w", to, ErrNoKnownPath)
	}
	if !w.Session.CanAfford(path.TotalTicks) {
		return MoveResult{}, fmt.Errorf("route to %s needs %.1f ticks with %.1f left: %w",
			to, path.TotalTicks, w.Session.Remaining(), ErrSessionExhausted)
	}
	if err := w.Session.Spend(path.TotalTicks); err != nil {
		return MoveResult{}, fmt.Errorf("charging travel time: %w", err)
	}

	w.Player.CurrentArea = to
	w.EnsureGenerated(to)
	return MoveResult{Path: path, TicksConsumed: path.TotalTicks}, nil
}

// travelStop is a priority queue entry. order preserves insertion sequence
// among equal costs.
type travelStop struct {
	area  world.AreaID
	cost  float64
	order int
	index int
}

// travelQueue implements heap.Interface ordered by cost, then push order.
type travelQueue []*travelStop

func (q travelQueue) Len() int { return len(q) }

func (q travelQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].order < q[j].order
}

func (q travelQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *travelQueue) Push(x any) {
	stop := x.(*travelStop)
	stop.index = len(*q)
	*q = append(*q, stop)
}

func (q *travelQueue) Pop() any {
	old := *q
	n := len(old)
	stop := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return stop
}
