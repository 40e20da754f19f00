// Package discovery implements the survey and explore actions: the roll loops
// that turn session time into new knowledge of the world, and the previews
// that let a caller watch an action's outcome before committing to it.
//
// Both actions share one timing model: attempts repeat at a fixed interval,
// each succeeding with a fixed per-attempt chance, until a success lands or
// the session cannot cover another attempt. A preview runs the identical loop
// against a fork of the live randomness state, so a real call made
// immediately after a successful preview consumes exactly the previewed
// ticks and finds exactly the previewed thing.
package discovery

import (
	"errors"

	"go.uber.org/zap"

	"github.com/cory-johannsen/frontier/internal/game/rng"
	"github.com/cory-johannsen/frontier/internal/game/world"
)

// Failure taxonomy. All of these are returned before any time is charged;
// running out of time mid-roll is a charged non-success, not an error.
var (
	// ErrSessionExhausted means the session cannot cover even one attempt.
	ErrSessionExhausted = errors.New("session has no time left for an attempt")
	// ErrNothingToSurvey means no undiscovered area connects to known ground.
	ErrNothingToSurvey = errors.New("nothing left to survey from known areas")
	// ErrAreaFullyExplored means the player has exhausted the current area.
	ErrAreaFullyExplored = errors.New("area is fully explored")
	// ErrSkillRequired means the player lacks the surveying skill entirely.
	ErrSkillRequired = errors.New("surveying skill required")
)

// SurveyResult reports one survey action.
type SurveyResult struct {
	// Success is false when the session ran dry before a find.
	Success bool
	// TicksConsumed is the time charged, successful or not.
	TicksConsumed float64
	// AreaID and ConnectionID identify the discovered area and the
	// connection that revealed it. Set only on success.
	AreaID       world.AreaID
	ConnectionID world.ConnectionID
	// ExpectedTicks is interval/chance, the statistical estimate before
	// rolling. ActualTicks is what the find really took; comparing the two
	// is the raw material of luck.
	ExpectedTicks float64
	ActualTicks   float64
}

// ExploreResult reports one explore action.
type ExploreResult struct {
	// Success is false when the session ran dry before a find.
	Success bool
	// TicksConsumed is the time charged, successful or not.
	TicksConsumed float64
	// Exactly one of LocationID and ConnectionID is set on success.
	LocationID   world.LocationID
	ConnectionID world.ConnectionID
	// ToUnknownArea reports that the discovered connection led somewhere new;
	// the target area is revealed as part of the same find.
	ToUnknownArea bool
	// BonusAwarded reports that this find exhausted the area's discoverables
	// and banked its one-time completion bonus.
	BonusAwarded bool
}

// Preview is the dry-run answer for one action: how long it will take and at
// what odds, computed without moving the live randomness state or the
// session clock.
type Preview struct {
	// TicksNeeded is the time the action will consume. When the preview
	// reports the action would not succeed, it is the time the doomed run
	// would consume before stalling.
	TicksNeeded float64
	// Attempts is the number of rolls the run makes.
	Attempts int
	// Chance and Interval are the per-attempt odds and spacing.
	Chance   float64
	Interval float64
}

// Engine runs discovery actions against a world. It is stateless; everything
// lives in the world, which keeps previews trivially cheap.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an Engine. A nil logger disables logging.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// rollOutcome is what the shared roll loop produces.
type rollOutcome struct {
	success  bool
	attempts int
	ticks    float64
}

// driftEpsilon absorbs float accumulation when checking whether another
// interval fits; it mirrors the session's own tolerance so the loop and the
// final charge agree.
const driftEpsilon = 1e-9

// rollUntil draws from src at the given interval until a draw lands under
// chance or the remaining budget cannot cover another attempt. It spends
// nothing and records nothing; callers charge the session and log the rolls
// from the outcome. Running it on a fork of the live state is exactly a
// preview.
func rollUntil(src *rng.State, label string, chance, interval, remaining float64) rollOutcome {
	var out rollOutcome
	for remaining-out.ticks+driftEpsilon >= interval {
		out.attempts++
		out.ticks += interval
		if src.Draw(label) < chance {
			out.success = true
			break
		}
	}
	return out
}

// recordAttempts appends the loop's rolls to the player's log: every attempt
// but the last failed, and the last one matches the outcome.
func recordAttempts(p *world.Player, label string, chance float64, out rollOutcome) {
	for i := 0; i < out.attempts; i++ {
		p.RecordRoll(label, chance, out.success && i == out.attempts-1)
	}
}
