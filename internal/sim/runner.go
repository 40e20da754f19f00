package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/frontier/internal/game/discovery"
	"github.com/cory-johannsen/frontier/internal/game/luck"
	"github.com/cory-johannsen/frontier/internal/game/travel"
	"github.com/cory-johannsen/frontier/internal/game/world"
	"github.com/cory-johannsen/frontier/internal/replay"
	"github.com/cory-johannsen/frontier/internal/scripting"
)

// maxSessionSteps is the safety valve against policies that spin without
// spending time, such as travel to the current area in a loop. Real sessions
// end on budget long before this.
const maxSessionSteps = 10_000

// Runner drives one batch: a fixed world, one policy, consecutive sessions.
// It is confined to a single goroutine, like the world it mutates.
type Runner struct {
	world   *world.World
	engine  *discovery.Engine
	decider Decider
	batchID uuid.UUID
	rec     *replay.Writer
	logger  *zap.Logger
}

// NewRunner creates a runner over an existing world. rec may be nil to skip
// replay recording; a nil logger disables logging.
func NewRunner(w *world.World, d Decider, batchID uuid.UUID, rec *replay.Writer, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		world:   w,
		engine:  discovery.NewEngine(logger),
		decider: d,
		batchID: batchID,
		rec:     rec,
		logger:  logger,
	}
}

// RunBatch simulates runs consecutive sessions of budget ticks each and
// returns one record per session. Knowledge and roll history persist from
// session to session; only the clock resets. Cancelling ctx stops the batch
// after the session in progress; the records completed so far are returned
// either way. The error is non-nil only for replay write failures, which
// abort the batch.
//
// Precondition: runs must be at least 1 and budget positive.
func (r *Runner) RunBatch(ctx context.Context, runs int, budget float64) ([]RunRecord, error) {
	if runs < 1 {
		panic("sim: RunBatch needs at least one run")
	}
	if budget <= 0 {
		panic("sim: RunBatch needs a positive budget")
	}

	records := make([]RunRecord, 0, runs)
	for i := 0; i < runs; i++ {
		if ctx.Err() != nil {
			r.logger.Info("batch interrupted",
				zap.Int("completed", len(records)), zap.Int("planned", runs))
			break
		}
		rec, err := r.runSession(i, budget)
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *Runner) runSession(idx int, budget float64) (RunRecord, error) {
	w := r.world
	w.StartSession(budget)

	rollsBefore := len(w.Player.Rolls())
	areasBefore := w.Player.KnownAreaCount()
	locsBefore := w.Player.KnownLocationCount()
	connsBefore := w.Player.KnownConnectionCount()

	rec := RunRecord{
		ID:           uuid.New(),
		BatchID:      r.batchID,
		SessionIndex: idx,
		Seed:         w.Seed,
		Policy:       r.decider.Name(),
		Budget:       budget,
	}

	stop := StopError
	for rec.Steps < maxSessionSteps {
		obs := BuildObservation(w, r.engine)
		d, err := r.decider.Decide(obs)
		if err != nil {
			r.logger.Warn("policy failed to decide",
				zap.Int("session", idx), zap.Error(err))
			stop = StopError
			break
		}
		if d.Action == scripting.ActionStop {
			stop = StopPolicy
			break
		}

		st, err := r.apply(d)
		st.Session = idx
		st.Step = rec.Steps
		st.Elapsed = w.Session.Elapsed()
		if err != nil {
			st.Error = err.Error()
		}
		rec.Steps++
		if st.Bonus {
			rec.BonusesEarned++
		}
		if werr := r.record(st); werr != nil {
			return rec, werr
		}

		if err != nil {
			if errors.Is(err, discovery.ErrSessionExhausted) || errors.Is(err, travel.ErrSessionExhausted) {
				stop = StopExhausted
			} else {
				r.logger.Warn("policy made an invalid move",
					zap.Int("session", idx), zap.String("action", d.Action), zap.Error(err))
				stop = StopError
			}
			break
		}
		if !st.Success {
			// A stalled roll leaves less than one interval on the clock,
			// so nothing else is affordable.
			stop = StopExhausted
			break
		}
	}

	rec.TicksUsed = w.Session.Elapsed()
	rec.AreasFound = w.Player.KnownAreaCount() - areasBefore
	rec.LocationsFound = w.Player.KnownLocationCount() - locsBefore
	rec.ConnectionsFound = w.Player.KnownConnectionCount() - connsBefore
	rec.StopReason = stop

	report := luck.Summarize(w.Player.Rolls()[rollsBefore:])
	rec.LuckZ = report.Z
	rec.LuckPercentile = report.Percentile
	rec.LuckVerdict = report.Verdict

	r.logger.Info("session complete",
		zap.Int("session", idx),
		zap.String("stop", stop),
		zap.Float64("ticks", rec.TicksUsed),
		zap.Int("steps", rec.Steps),
		zap.Int("areas", rec.AreasFound),
		zap.Int("locations", rec.LocationsFound),
		zap.Int("connections", rec.ConnectionsFound),
		zap.String("luck", rec.LuckVerdict))
	return rec, nil
}

// apply runs one decision against the world and reports it as a replay step.
// The step carries the outcome even when the action was refused; refusals
// come back as the error with nothing charged.
func (r *Runner) apply(d scripting.Decision) (replay.Step, error) {
	w := r.world
	st := replay.Step{
		Action: d.Action,
		Target: d.Target,
		Area:   string(w.Player.CurrentArea),
	}

	switch d.Action {
	case scripting.ActionSurvey:
		res, err := r.engine.SurveyOnce(w)
		if err != nil {
			return st, err
		}
		st.Success = res.Success
		st.Ticks = res.TicksConsumed
		if res.Success {
			st.Found = string(res.AreaID)
			st.FoundKind = replay.FoundArea
		}

	case scripting.ActionExplore:
		res, err := r.engine.ExploreOnce(w)
		if err != nil {
			return st, err
		}
		st.Success = res.Success
		st.Ticks = res.TicksConsumed
		st.Bonus = res.BonusAwarded
		if res.Success {
			if res.LocationID != "" {
				st.Found = string(res.LocationID)
				st.FoundKind = replay.FoundLocation
			} else {
				st.Found = string(res.ConnectionID)
				st.FoundKind = replay.FoundConnection
			}
		}

	case scripting.ActionTravel:
		res, err := travel.Move(w, world.AreaID(d.Target))
		if err != nil {
			return st, err
		}
		st.Success = true
		st.Ticks = res.TicksConsumed
		st.Area = string(w.Player.CurrentArea)

	default:
		return st, fmt.Errorf("%w: %q", ErrUnknownAction, d.Action)
	}
	return st, nil
}

func (r *Runner) record(st replay.Step) error {
	if r.rec == nil {
		return nil
	}
	if err := r.rec.WriteStep(st); err != nil {
		return fmt.Errorf("recording step %d of session %d: %w", st.Step, st.Session, err)
	}
	return nil
}
