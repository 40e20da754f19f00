package sim_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/frontier/internal/game/catalog"
	"github.com/cory-johannsen/frontier/internal/game/world"
	"github.com/cory-johannsen/frontier/internal/replay"
	"github.com/cory-johannsen/frontier/internal/scripting"
	"github.com/cory-johannsen/frontier/internal/sim"
)

// scriptedDecider lets a test hand the runner exact decisions.
type scriptedDecider struct {
	name string
	next func(scripting.Observation) (scripting.Decision, error)
}

func (s scriptedDecider) Name() string { return s.name }

func (s scriptedDecider) Decide(obs scripting.Observation) (scripting.Decision, error) {
	return s.next(obs)
}

func newBatchWorld(t *testing.T, seed string) *world.World {
	t.Helper()
	return world.New(seed, catalog.Default(), nil)
}

func autoRunner(t *testing.T, w *world.World) *sim.Runner {
	t.Helper()
	auto, err := sim.NewBuiltin(sim.PolicyAuto)
	require.NoError(t, err)
	return sim.NewRunner(w, auto, uuid.New(), nil, nil)
}

func TestRunBatchProducesOneRecordPerSession(t *testing.T) {
	w := newBatchWorld(t, "batch-records-seed")
	r := autoRunner(t, w)

	records, err := r.RunBatch(context.Background(), 3, 200)
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i, rec := range records {
		assert.Equal(t, i, rec.SessionIndex)
		assert.Equal(t, records[0].BatchID, rec.BatchID)
		assert.Equal(t, "batch-records-seed", rec.Seed)
		assert.Equal(t, sim.PolicyAuto, rec.Policy)
		assert.Equal(t, 200.0, rec.Budget)
		assert.NotEqual(t, uuid.Nil, rec.ID)

		// An endless frontier always leaves something to survey, so auto
		// sessions only ever end on the clock.
		assert.Equal(t, sim.StopExhausted, rec.StopReason)
		assert.Greater(t, rec.Steps, 0)
		assert.Greater(t, rec.TicksUsed, 0.0)
		assert.LessOrEqual(t, rec.TicksUsed, 200.0)
		assert.True(t, rec.CreatedAt.IsZero(), "CreatedAt belongs to storage")
	}
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func stripIdentity(records []sim.RunRecord) []sim.RunRecord {
	out := make([]sim.RunRecord, len(records))
	for i, rec := range records {
		rec.ID = uuid.Nil
		rec.BatchID = uuid.Nil
		out[i] = rec
	}
	return out
}

func TestRunBatchIsDeterministicForASeed(t *testing.T) {
	first := autoRunner(t, newBatchWorld(t, "det-batch-seed"))
	second := autoRunner(t, newBatchWorld(t, "det-batch-seed"))

	records1, err := first.RunBatch(context.Background(), 2, 150)
	require.NoError(t, err)
	records2, err := second.RunBatch(context.Background(), 2, 150)
	require.NoError(t, err)

	assert.Equal(t, stripIdentity(records1), stripIdentity(records2))
}

func TestDifferentSeedsDiverge(t *testing.T) {
	records1, err := autoRunner(t, newBatchWorld(t, "diverge-seed-one")).RunBatch(context.Background(), 1, 150)
	require.NoError(t, err)
	records2, err := autoRunner(t, newBatchWorld(t, "diverge-seed-two")).RunBatch(context.Background(), 1, 150)
	require.NoError(t, err)

	assert.NotEqual(t, stripIdentity(records1), stripIdentity(records2))
}

func TestKnowledgeAccumulatesAcrossSessions(t *testing.T) {
	w := newBatchWorld(t, "accumulate-seed")
	areasBefore := w.Player.KnownAreaCount()
	locsBefore := w.Player.KnownLocationCount()
	connsBefore := w.Player.KnownConnectionCount()

	records, err := autoRunner(t, w).RunBatch(context.Background(), 3, 300)
	require.NoError(t, err)

	var areas, locs, conns int
	for _, rec := range records {
		areas += rec.AreasFound
		locs += rec.LocationsFound
		conns += rec.ConnectionsFound
	}
	assert.Equal(t, w.Player.KnownAreaCount()-areasBefore, areas)
	assert.Equal(t, w.Player.KnownLocationCount()-locsBefore, locs)
	assert.Equal(t, w.Player.KnownConnectionCount()-connsBefore, conns)
	assert.Greater(t, areas+locs+conns, 0, "900 ticks of auto play finds something")
}

func TestRunnerRecordsAReplay(t *testing.T) {
	w := newBatchWorld(t, "replay-batch-seed")
	auto, err := sim.NewBuiltin(sim.PolicyAuto)
	require.NoError(t, err)

	batchID := uuid.New()
	writer, err := replay.Create(t.TempDir(), replay.Header{
		RunID:    batchID.String(),
		Seed:     "replay-batch-seed",
		Policy:   sim.PolicyAuto,
		Sessions: 2,
		Budget:   60,
		Created:  time.Now().UTC(),
	})
	require.NoError(t, err)

	r := sim.NewRunner(w, auto, batchID, writer, nil)
	records, err := r.RunBatch(context.Background(), 2, 60)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	header, steps, err := replay.Read(writer.Path())
	require.NoError(t, err)
	assert.Equal(t, batchID.String(), header.RunID)

	total := 0
	for _, rec := range records {
		total += rec.Steps
	}
	require.Len(t, steps, total)

	wantSession, wantStep := 0, 0
	for _, st := range steps {
		if st.Session != wantSession {
			wantSession, wantStep = st.Session, 0
		}
		assert.Equal(t, wantSession, st.Session)
		assert.Equal(t, wantStep, st.Step)
		assert.NotEmpty(t, st.Action)
		assert.NotEmpty(t, st.Area)
		wantStep++
	}
}

func TestTinyBudgetExhaustsImmediately(t *testing.T) {
	records, err := autoRunner(t, newBatchWorld(t, "tiny-budget-seed")).RunBatch(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, sim.StopExhausted, rec.StopReason)
	assert.GreaterOrEqual(t, rec.Steps, 1)
	assert.LessOrEqual(t, rec.TicksUsed, 3.0)
}

func TestUnusableSkillEndsTheSessionAsAnError(t *testing.T) {
	w := newBatchWorld(t, "skill-zero-seed")
	w.Player.SetSkill(world.SkillSurveying, 0)

	records, err := autoRunner(t, w).RunBatch(context.Background(), 1, 100)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, sim.StopError, rec.StopReason)
	assert.Equal(t, 1, rec.Steps)
	assert.Zero(t, rec.TicksUsed)
	assert.Equal(t, "average", rec.LuckVerdict, "no rolls were made")
	assert.InDelta(t, 50.0, rec.LuckPercentile, 1e-9)
}

func TestPolicyStopEndsTheSessionCleanly(t *testing.T) {
	idle := scriptedDecider{name: "idle", next: func(scripting.Observation) (scripting.Decision, error) {
		return scripting.Decision{Action: scripting.ActionStop}, nil
	}}

	records, err := sim.NewRunner(newBatchWorld(t, "idle-seed"), idle, uuid.New(), nil, nil).RunBatch(context.Background(), 2, 100)
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, rec := range records {
		assert.Equal(t, sim.StopPolicy, rec.StopReason)
		assert.Zero(t, rec.Steps)
		assert.Zero(t, rec.TicksUsed)
		assert.Equal(t, "idle", rec.Policy)
	}
}

func TestDecideErrorEndsTheSessionWithoutAStep(t *testing.T) {
	broken := scriptedDecider{name: "broken", next: func(scripting.Observation) (scripting.Decision, error) {
		return scripting.Decision{}, errors.New("script blew up")
	}}

	records, err := sim.NewRunner(newBatchWorld(t, "broken-seed"), broken, uuid.New(), nil, nil).RunBatch(context.Background(), 1, 100)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, sim.StopError, records[0].StopReason)
	assert.Zero(t, records[0].Steps)
}

func TestUnknownActionIsRecordedAndEndsTheSession(t *testing.T) {
	digger := scriptedDecider{name: "digger", next: func(scripting.Observation) (scripting.Decision, error) {
		return scripting.Decision{Action: "dig"}, nil
	}}

	batchID := uuid.New()
	writer, err := replay.Create(t.TempDir(), replay.Header{RunID: batchID.String(), Created: time.Now().UTC()})
	require.NoError(t, err)

	records, err := sim.NewRunner(newBatchWorld(t, "digger-seed"), digger, batchID, writer, nil).RunBatch(context.Background(), 1, 100)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	require.Len(t, records, 1)

	assert.Equal(t, sim.StopError, records[0].StopReason)
	assert.Equal(t, 1, records[0].Steps)

	_, steps, err := replay.Read(writer.Path())
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "dig", steps[0].Action)
	assert.False(t, steps[0].Success)
	assert.Contains(t, steps[0].Error, "unknown action")
}

func TestCancelledBatchReturnsCompletedRecords(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, err := autoRunner(t, newBatchWorld(t, "cancel-seed")).RunBatch(ctx, 5, 100)
	require.NoError(t, err)
	assert.Empty(t, records, "a cancelled batch starts no new sessions")
}

func TestProperty_SessionsNeverOverspendTheBudget(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.StringMatching(`[a-z]{4,12}`).Draw(rt, "seed")
		budget := rapid.Float64Range(5, 300).Draw(rt, "budget")
		runs := rapid.IntRange(1, 3).Draw(rt, "runs")

		w := world.New(seed, catalog.Default(), nil)
		auto, err := sim.NewBuiltin(sim.PolicyAuto)
		require.NoError(rt, err)

		records, err := sim.NewRunner(w, auto, uuid.New(), nil, nil).RunBatch(context.Background(), runs, budget)
		require.NoError(rt, err)
		require.Len(rt, records, runs)
		for _, rec := range records {
			require.LessOrEqual(rt, rec.TicksUsed, budget+1e-9)
		}
	})
}
