package discovery

import "github.com/cory-johannsen/frontier/internal/game/world"

// surveyCandidate is one undiscovered area reachable from known ground.
type surveyCandidate struct {
	area *world.Area
	// via is the first connection (in insertion order) linking the candidate
	// to a known area; surveying the candidate reveals this connection.
	via *world.Connection
	// weight decays by half per band beyond the nearest candidate band.
	weight float64
}

// surveyCandidates walks the connection list in insertion order and collects
// every unknown area with an existing connection to a known one. Alongside
// the candidates it reports the nearest candidate band and how many distinct
// known areas border the candidate set, both inputs to the survey chance.
//
// Iteration order is the global connection insertion order, never map order,
// so the weighted pick downstream is deterministic.
func surveyCandidates(w *world.World) (cands []surveyCandidate, nearestBand, knownAdjacent int) {
	p := w.Player
	seen := make(map[world.AreaID]int)
	adjacent := make(map[world.AreaID]bool)

	for _, c := range w.Connections() {
		var known, unknown world.AreaID
		switch {
		case p.KnowsArea(c.A) && !p.KnowsArea(c.B):
			known, unknown = c.A, c.B
		case p.KnowsArea(c.B) && !p.KnowsArea(c.A):
			known, unknown = c.B, c.A
		default:
			continue
		}
		adjacent[known] = true
		if _, ok := seen[unknown]; ok {
			continue
		}
		area, ok := w.GetArea(unknown)
		if !ok {
			continue
		}
		seen[unknown] = len(cands)
		cands = append(cands, surveyCandidate{area: area, via: c})
	}

	if len(cands) == 0 {
		return nil, 0, 0
	}

	nearestBand = cands[0].area.Distance
	for _, c := range cands[1:] {
		if c.area.Distance < nearestBand {
			nearestBand = c.area.Distance
		}
	}
	for i := range cands {
		cands[i].weight = 1.0
		for d := cands[i].area.Distance; d > nearestBand; d-- {
			cands[i].weight *= surveyBandDecay
		}
	}
	return cands, nearestBand, len(adjacent)
}

// discoverable is one thing explore can still find in an area: an unknown
// location, or an unknown connection touching the area.
type discoverable struct {
	weight float64
	// location is set for location finds; conn for connection finds.
	location *world.Location
	conn     *world.Connection
	// toUnknownArea marks a connection whose far end is undiscovered;
	// finding it reveals the far area too.
	toUnknownArea bool
}

// TargetCounts reports how much work the two actions have left: the number
// of undiscovered areas survey can reach from known ground, and the number of
// undiscovered locations and connections explore can find in the player's
// current area.
func TargetCounts(w *world.World) (survey, explore int) {
	cands, _, _ := surveyCandidates(w)
	area := w.EnsureGenerated(w.Player.CurrentArea)
	if !w.Player.IsFullyExplored(area.ID) {
		explore = len(discoverables(w, area))
	}
	return len(cands), explore
}

// discoverables lists what remains undiscovered in an area, locations first
// in generation order, then connections in insertion order.
func discoverables(w *world.World, area *world.Area) []discoverable {
	p := w.Player
	var out []discoverable

	for _, l := range area.Locations {
		if p.KnowsLocation(l.ID) {
			continue
		}
		weight := weightLocation
		if l.Kind == world.KindGatheringNode && p.SkillLevel(l.Skill) < l.RequiredLevel() {
			weight = weightHardLocation
		}
		out = append(out, discoverable{weight: weight, location: l})
	}

	for _, c := range w.ConnectionsOf(area.ID) {
		if p.KnowsConnection(c.ID) {
			continue
		}
		if p.KnowsArea(c.Other(area.ID)) {
			out = append(out, discoverable{weight: weightConnKnown, conn: c})
		} else {
			out = append(out, discoverable{weight: weightConnUnknown, conn: c, toUnknownArea: true})
		}
	}
	return out
}
