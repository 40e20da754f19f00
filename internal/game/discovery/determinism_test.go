package discovery_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/frontier/internal/game/catalog"
	"github.com/cory-johannsen/frontier/internal/game/discovery"
	"github.com/cory-johannsen/frontier/internal/game/world"
)

func TestIdenticalSeedsReplayIdentically(t *testing.T) {
	// Three surveys reveal three of the five hub connections, so two explores
	// can never run the hub out of discoverables.
	runScript := func(seed string) (results []discovery.SurveyResult, finds []discovery.ExploreResult, elapsed float64, known []world.AreaID) {
		w := world.New(seed, catalog.Default(), nil)
		w.StartSession(2000)
		e := discovery.NewEngine(nil)

		for i := 0; i < 3; i++ {
			res, err := e.SurveyOnce(w)
			require.NoError(t, err)
			results = append(results, res)
		}
		for i := 0; i < 2; i++ {
			res, err := e.ExploreOnce(w)
			require.NoError(t, err)
			finds = append(finds, res)
		}
		return results, finds, w.Session.Elapsed(), w.Player.KnownAreas()
	}

	s1, x1, e1, k1 := runScript("replay-seed")
	s2, x2, e2, k2 := runScript("replay-seed")

	assert.Equal(t, s1, s2)
	assert.Equal(t, x1, x2)
	assert.Equal(t, e1, e2)
	assert.Equal(t, k1, k2)

	s3, _, _, _ := runScript("a-different-seed")
	assert.NotEqual(t, s1, s3, "a different seed writes a different history")
}

func TestAnyActionScriptIsDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.StringMatching(`[a-z0-9]{4,12}`).Draw(t, "seed")
		script := rapid.SliceOfN(rapid.IntRange(0, 1), 1, 30).Draw(t, "script")

		a := world.New(seed, catalog.Default(), nil)
		b := world.New(seed, catalog.Default(), nil)
		a.StartSession(300)
		b.StartSession(300)
		ea := discovery.NewEngine(nil)
		eb := discovery.NewEngine(nil)

		for step, action := range script {
			switch action {
			case 0:
				ra, errA := ea.SurveyOnce(a)
				rb, errB := eb.SurveyOnce(b)
				if !errors.Is(errA, errB) {
					t.Fatalf("step %d: errors diverged: %v vs %v", step, errA, errB)
				}
				if ra != rb {
					t.Fatalf("step %d: survey results diverged: %+v vs %+v", step, ra, rb)
				}
			case 1:
				ra, errA := ea.ExploreOnce(a)
				rb, errB := eb.ExploreOnce(b)
				if !errors.Is(errA, errB) {
					t.Fatalf("step %d: errors diverged: %v vs %v", step, errA, errB)
				}
				if ra != rb {
					t.Fatalf("step %d: explore results diverged: %+v vs %+v", step, ra, rb)
				}
			}
			if a.Session.Elapsed() != b.Session.Elapsed() {
				t.Fatalf("step %d: elapsed diverged", step)
			}
			if a.Rand.Counter() != b.Rand.Counter() {
				t.Fatalf("step %d: live counters diverged", step)
			}
		}

		if a.Player.KnownAreaCount() != b.Player.KnownAreaCount() ||
			a.Player.KnownConnectionCount() != b.Player.KnownConnectionCount() ||
			a.Player.KnownLocationCount() != b.Player.KnownLocationCount() {
			t.Fatalf("knowledge diverged after %d steps", len(script))
		}
	})
}

func TestKnowledgeNeverShrinksUnderActions(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.StringMatching(`[a-z0-9]{4,12}`).Draw(t, "seed")
		script := rapid.SliceOfN(rapid.IntRange(0, 1), 1, 40).Draw(t, "script")

		w := world.New(seed, catalog.Default(), nil)
		w.StartSession(400)
		e := discovery.NewEngine(nil)

		areas, conns, locs := w.Player.KnownAreaCount(), w.Player.KnownConnectionCount(), w.Player.KnownLocationCount()
		for step, action := range script {
			if action == 0 {
				_, _ = e.SurveyOnce(w)
			} else {
				_, _ = e.ExploreOnce(w)
			}
			if w.Player.KnownAreaCount() < areas ||
				w.Player.KnownConnectionCount() < conns ||
				w.Player.KnownLocationCount() < locs {
				t.Fatalf("knowledge shrank at step %d", step)
			}
			areas, conns, locs = w.Player.KnownAreaCount(), w.Player.KnownConnectionCount(), w.Player.KnownLocationCount()
		}
	})
}
