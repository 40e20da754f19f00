package discovery

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/frontier/internal/game/world"
)

// SurveyOnce runs one survey action to completion: roll until a find or the
// session stalls, charge the rolled time, and on a find mark the area and
// its revealing connection known and generate the area's content.
//
// Postcondition: TicksConsumed equals the session's elapsed delta. A stalled
// session is Success=false with the rolled ticks charged, not an error; the
// error cases all charge nothing.
func (e *Engine) SurveyOnce(w *world.World) (SurveyResult, error) {
	chance, interval, cands, err := surveySetup(w)
	if err != nil {
		return SurveyResult{}, err
	}

	out := rollUntil(w.Rand, "survey-roll", chance, interval, w.Session.Remaining())
	if out.attempts == 0 {
		return SurveyResult{}, ErrSessionExhausted
	}
	recordAttempts(w.Player, "survey-roll", chance, out)
	if err := w.Session.Spend(out.ticks); err != nil {
		return SurveyResult{}, fmt.Errorf("charging survey time: %w", err)
	}

	res := SurveyResult{
		TicksConsumed: out.ticks,
		ExpectedTicks: interval / chance,
		ActualTicks:   out.ticks,
	}
	if !out.success {
		e.logger.Debug("survey stalled out",
			zap.Int("attempts", out.attempts),
			zap.Float64("ticks", out.ticks),
		)
		return res, nil
	}

	weights := make([]float64, len(cands))
	for i, c := range cands {
		weights[i] = c.weight
	}
	pick := cands[w.Rand.WeightedIndex("survey-pick", weights)]

	w.Player.MarkAreaKnown(pick.area.ID)
	w.Player.MarkConnectionKnown(pick.via.ID)
	w.EnsureGenerated(pick.area.ID)

	res.Success = true
	res.AreaID = pick.area.ID
	res.ConnectionID = pick.via.ID
	e.logger.Info("area surveyed",
		zap.String("area", string(pick.area.ID)),
		zap.String("name", pick.area.Name),
		zap.Float64("expected_ticks", res.ExpectedTicks),
		zap.Float64("actual_ticks", res.ActualTicks),
	)
	return res, nil
}

// PreviewSurvey runs the identical roll loop against a fork of the live
// state. The returned ok is false when the session would stall before a
// find; the error taxonomy matches SurveyOnce exactly.
//
// Postcondition: the live randomness counter and the session are untouched,
// and a SurveyOnce immediately after a successful preview consumes exactly
// Preview.TicksNeeded.
func (e *Engine) PreviewSurvey(w *world.World) (Preview, bool, error) {
	chance, interval, _, err := surveySetup(w)
	if err != nil {
		return Preview{}, false, err
	}
	out := rollUntil(w.Rand.Fork(), "survey-roll", chance, interval, w.Session.Remaining())
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

// surveySetup validates a survey and computes its parameters.
func surveySetup(w *world.World) (chance, interval float64, cands []surveyCandidate, err error) {
	if w.Session == nil {
		panic("discovery: survey without a started session")
	}
	level := w.Player.SkillLevel(world.SkillSurveying)
	if level < 1 {
		return 0, 0, nil, ErrSkillRequired
	}
	cands, nearest, adjacent := surveyCandidates(w)
	if len(cands) == 0 {
		return 0, 0, nil, ErrNothingToSurvey
	}
	return surveyChance(level, nearest, adjacent), rollInterval(level), cands, nil
}
