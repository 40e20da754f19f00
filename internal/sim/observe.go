package sim

import (
	"github.com/cory-johannsen/frontier/internal/game/discovery"
	"github.com/cory-johannsen/frontier/internal/game/world"
	"github.com/cory-johannsen/frontier/internal/scripting"
)

// BuildObservation flattens the player's current view of the world into the
// structure policies decide on. Chances come from action previews and are
// zero whenever the action would be refused, so a policy can read "chance
// zero" as "not worth asking". Exits list the known connections of the
// current area in discovery order.
//
// Precondition: the world must have a started session.
// Postcondition: the live randomness state and the session are untouched.
func BuildObservation(w *world.World, eng *discovery.Engine) scripting.Observation {
	if w.Session == nil {
		panic("sim: observation without a started session")
	}
	area := w.EnsureGenerated(w.Player.CurrentArea)

	obs := scripting.Observation{
		Tick:          w.Session.Elapsed(),
		Remaining:     w.Session.Remaining(),
		Level:         w.Player.SkillLevel(world.SkillSurveying),
		AreaID:        string(area.ID),
		AreaName:      area.Name,
		Distance:      area.Distance,
		KnownAreas:    w.Player.KnownAreaCount(),
		FullyExplored: w.Player.IsFullyExplored(area.ID),
	}
	obs.SurveyTargets, obs.ExploreTargets = discovery.TargetCounts(w)
	if pv, _, err := eng.PreviewSurvey(w); err == nil {
		obs.SurveyChance = pv.Chance
	}
	if pv, _, err := eng.PreviewExplore(w); err == nil {
		obs.ExploreChance = pv.Chance
	}

	for _, c := range w.ConnectionsOf(area.ID) {
		if !w.Player.KnowsConnection(c.ID) {
			continue
		}
		far := c.Other(area.ID)
		farArea, ok := w.GetArea(far)
		if !ok {
			continue
		}
		obs.Exits = append(obs.Exits, scripting.Exit{
			AreaID:   string(far),
			Name:     farArea.Name,
			Distance: farArea.Distance,
			Ticks:    c.TravelTicks(),
			Explored: w.Player.IsFullyExplored(far),
		})
	}
	return obs
}
