package discovery

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/frontier/internal/game/world"
)

// ExploreOnce runs one explore action in the player's current area: roll
// until a find or the session stalls, charge the rolled time, and on a find
// reveal a location or connection. A connection to an unknown area reveals
// and generates that area in the same find. Exhausting the area's last
// discoverable banks its one-time completion bonus.
//
// Postcondition: TicksConsumed equals the session's elapsed delta. A stalled
// session is Success=false with the rolled ticks charged, not an error; the
// error cases all charge nothing.
func (e *Engine) ExploreOnce(w *world.World) (ExploreResult, error) {
	area, chance, interval, ds, err := exploreSetup(w)
	if err != nil {
		return ExploreResult{}, err
	}

	out := rollUntil(w.Rand, "explore-roll", chance, interval, w.Session.Remaining())
	if out.attempts == 0 {
		return ExploreResult{}, ErrSessionExhausted
	}
	recordAttempts(w.Player, "explore-roll", chance, out)
	if err := w.Session.Spend(out.ticks); err != nil {
		return ExploreResult{}, fmt.Errorf("charging explore time: %w", err)
	}

	res := ExploreResult{TicksConsumed: out.ticks}
	if !out.success {
		e.logger.Debug("explore stalled out",
			zap.String("area", string(area.ID)),
			zap.Int("attempts", out.attempts),
			zap.Float64("ticks", out.ticks),
		)
		return res, nil
	}

	weights := make([]float64, len(ds))
	for i, d := range ds {
		weights[i] = d.weight
	}
	d := ds[w.Rand.WeightedIndex("explore-pick", weights)]

	switch {
	case d.location != nil:
		w.Player.MarkLocationKnown(d.location.ID)
		res.LocationID = d.location.ID
		e.logger.Info("location discovered",
			zap.String("location", string(d.location.ID)),
			zap.String("name", d.location.Name),
			zap.String("kind", string(d.location.Kind)),
		)
	default:
		w.Player.MarkConnectionKnown(d.conn.ID)
		res.ConnectionID = d.conn.ID
		if d.toUnknownArea {
			far := d.conn.Other(area.ID)
			w.Player.MarkAreaKnown(far)
			w.EnsureGenerated(far)
			res.ToUnknownArea = true
		}
		e.logger.Info("connection discovered",
			zap.String("connection", string(d.conn.ID)),
			zap.Bool("to_unknown_area", d.toUnknownArea),
		)
	}
	res.Success = true

	if len(discoverables(w, area)) == 0 && w.Player.MarkFullyExplored(area.ID) {
		res.BonusAwarded = true
		e.logger.Info("area fully explored", zap.String("area", string(area.ID)))
	}
	return res, nil
}

// PreviewExplore runs the identical roll loop against a fork of the live
// state. The returned ok is false when the session would stall before a
// find; the error taxonomy matches ExploreOnce exactly.
//
// Postcondition: the live randomness counter and the session are untouched,
// and an ExploreOnce immediately after a successful preview consumes exactly
// Preview.TicksNeeded.
func (e *Engine) PreviewExplore(w *world.World) (Preview, bool, error) {
	_, chance, interval, _, err := exploreSetup(w)
	if err != nil {
		return Preview{}, false, err
	}
	out := rollUntil(w.Rand.Fork(), "explore-roll", chance, interval, w.Session.Remaining())
	if out.attempts == 0 {
		return Preview{}, false, ErrSessionExhausted
	}
	return Preview{
		TicksNeeded: out.ticks,
		Attempts:    out.attempts,
		Chance:      chance,
		Interval:    interval,
	}, out.success, nil
}

// exploreSetup validates an explore and computes its parameters. An area
// whose discoverables were all consumed from elsewhere (connections found
// from their far ends) gets closed here without a bonus; the bonus belongs
// to a final find made by exploring.
func exploreSetup(w *world.World) (area *world.Area, chance, interval float64, ds []discoverable, err error) {
	if w.Session == nil {
		panic("discovery: explore without a started session")
	}
	level := w.Player.SkillLevel(world.SkillSurveying)
	if level < 1 {
		return nil, 0, 0, nil, ErrSkillRequired
	}
	area = w.EnsureGenerated(w.Player.CurrentArea)
	if w.Player.IsFullyExplored(area.ID) {
		return nil, 0, 0, nil, ErrAreaFullyExplored
	}
	ds = discoverables(w, area)
	if len(ds) == 0 {
		w.Player.MarkFullyExplored(area.ID)
		return nil, 0, 0, nil, ErrAreaFullyExplored
	}
	return area, exploreChance(level, area.Distance), rollInterval(level), ds, nil
}
