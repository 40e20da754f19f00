package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/frontier/internal/scripting"
)

func writePolicy(t testing.TB, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.lua")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func loadPolicy(t testing.TB, src string) *scripting.Policy {
	t.Helper()
	p, err := scripting.LoadPolicy(writePolicy(t, src), 0, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func testObservation() scripting.Observation {
	return scripting.Observation{
		Tick:           12,
		Remaining:      88,
		Level:          3,
		AreaID:         "a1-2",
		AreaName:       "Foggy Hollow",
		Distance:       1,
		SurveyChance:   0.07,
		ExploreChance:  0.12,
		SurveyTargets:  2,
		ExploreTargets: 3,
		KnownAreas:     4,
		Exits: []scripting.Exit{
			{AreaID: "a0-0", Name: "Basecamp", Distance: 0, Ticks: 20, Explored: true},
			{AreaID: "a2-1", Name: "Shattered Ridge", Distance: 2, Ticks: 30},
		},
	}
}

func TestLoadPolicy_FileNotFound_ReturnsError(t *testing.T) {
	_, err := scripting.LoadPolicy(filepath.Join(t.TempDir(), "missing.lua"), 0, zap.NewNop())
	assert.Error(t, err)
}

func TestLoadPolicy_InvalidLua_ReturnsError(t *testing.T) {
	_, err := scripting.LoadPolicy(writePolicy(t, `this is not valid lua @@@@`), 0, zap.NewNop())
	assert.Error(t, err)
}

func TestLoadPolicy_MissingDecide_ReturnsError(t *testing.T) {
	_, err := scripting.LoadPolicy(writePolicy(t, `helper = 42`), 0, zap.NewNop())
	assert.ErrorIs(t, err, scripting.ErrNoDecide)
}

func TestLoadPolicy_DecideNotAFunction_ReturnsError(t *testing.T) {
	_, err := scripting.LoadPolicy(writePolicy(t, `decide = "not a function"`), 0, zap.NewNop())
	assert.ErrorIs(t, err, scripting.ErrNoDecide)
}

func TestLoadPolicy_Name(t *testing.T) {
	p, err := scripting.LoadPolicy(writePolicy(t, `function decide(obs) return { action = "stop" } end`), 0, zap.NewNop())
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, "policy.lua", p.Name())
}

func TestPolicy_Decide_ReturnsAction(t *testing.T) {
	p := loadPolicy(t, `function decide(obs) return { action = "survey" } end`)
	d, err := p.Decide(testObservation())
	require.NoError(t, err)
	assert.Equal(t, scripting.ActionSurvey, d.Action)
	assert.Empty(t, d.Target)
}

func TestPolicy_Decide_TravelCarriesTarget(t *testing.T) {
	p := loadPolicy(t, `function decide(obs) return { action = "travel", target = obs.exits[2].area_id } end`)
	d, err := p.Decide(testObservation())
	require.NoError(t, err)
	assert.Equal(t, scripting.ActionTravel, d.Action)
	assert.Equal(t, "a2-1", d.Target)
}

func TestPolicy_Decide_SeesObservationFields(t *testing.T) {
	p := loadPolicy(t, `
		function decide(obs)
			if obs.tick ~= 12 then error("tick") end
			if obs.remaining ~= 88 then error("remaining") end
			if obs.level ~= 3 then error("level") end
			if obs.area_id ~= "a1-2" then error("area_id") end
			if obs.area_name ~= "Foggy Hollow" then error("area_name") end
			if obs.distance ~= 1 then error("distance") end
			if obs.survey_targets ~= 2 then error("survey_targets") end
			if obs.explore_targets ~= 3 then error("explore_targets") end
			if obs.known_areas ~= 4 then error("known_areas") end
			if obs.fully_explored then error("fully_explored") end
			if #obs.exits ~= 2 then error("exits") end
			if obs.exits[1].ticks ~= 20 then error("exit ticks") end
			if not obs.exits[1].explored then error("exit explored") end
			if obs.exits[2].explored then error("exit unexplored") end
			return { action = "stop" }
		end
	`)
	d, err := p.Decide(testObservation())
	require.NoError(t, err)
	assert.Equal(t, scripting.ActionStop, d.Action)
}

func TestPolicy_Decide_NonTableReturn_Error(t *testing.T) {
	p := loadPolicy(t, `function decide(obs) return "survey" end`)
	_, err := p.Decide(testObservation())
	assert.ErrorIs(t, err, scripting.ErrBadDecision)
}

func TestPolicy_Decide_MissingAction_Error(t *testing.T) {
	p := loadPolicy(t, `function decide(obs) return { target = "a1-0" } end`)
	_, err := p.Decide(testObservation())
	assert.ErrorIs(t, err, scripting.ErrBadDecision)
}

func TestPolicy_Decide_UnknownAction_Error(t *testing.T) {
	p := loadPolicy(t, `function decide(obs) return { action = "teleport" } end`)
	_, err := p.Decide(testObservation())
	assert.ErrorIs(t, err, scripting.ErrBadDecision)
}

func TestPolicy_Decide_TravelWithoutTarget_Error(t *testing.T) {
	p := loadPolicy(t, `function decide(obs) return { action = "travel" } end`)
	_, err := p.Decide(testObservation())
	assert.ErrorIs(t, err, scripting.ErrBadDecision)
}

func TestPolicy_Decide_RuntimeError_Propagates(t *testing.T) {
	p := loadPolicy(t, `function decide(obs) error("boom") end`)
	_, err := p.Decide(testObservation())
	require.Error(t, err)
	assert.NotErrorIs(t, err, scripting.ErrBadDecision)
}

func TestPolicy_Decide_FreshInstructionBudgetPerCall(t *testing.T) {
	p, err := scripting.LoadPolicy(writePolicy(t, `
		function decide(obs)
			if obs.level > 5 then
				while true do end
			end
			return { action = "stop" }
		end
	`), 5000, zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	obs := testObservation()
	obs.Level = 10
	_, err = p.Decide(obs)
	require.Error(t, err, "runaway branch must hit the instruction limit")

	obs.Level = 1
	d, err := p.Decide(obs)
	require.NoError(t, err, "budget must reset between calls")
	assert.Equal(t, scripting.ActionStop, d.Action)
}

func TestPolicy_Decide_KeepsScriptState(t *testing.T) {
	// Scripts may keep state between calls; determinism is the script
	// author's contract, not an engine restriction.
	p := loadPolicy(t, `
		calls = 0
		function decide(obs)
			calls = calls + 1
			if calls < 3 then
				return { action = "explore" }
			end
			return { action = "stop" }
		end
	`)
	for i := 0; i < 2; i++ {
		d, err := p.Decide(testObservation())
		require.NoError(t, err)
		assert.Equal(t, scripting.ActionExplore, d.Action)
	}
	d, err := p.Decide(testObservation())
	require.NoError(t, err)
	assert.Equal(t, scripting.ActionStop, d.Action)
}

func TestSimLog_WritesToLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p, err := scripting.LoadPolicy(writePolicy(t, `
		function decide(obs)
			sim.log.info("scouting")
			return { action = "stop" }
		end
	`), 0, zap.New(core))
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Decide(testObservation())
	require.NoError(t, err)

	found := false
	for _, e := range logs.All() {
		if e.Level == zap.InfoLevel && e.Message == "scouting" {
			found = true
			break
		}
	}
	assert.True(t, found, "expected Info log entry from sim.log")
}

func TestSimLog_AllLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p, err := scripting.LoadPolicy(writePolicy(t, `
		function decide(obs)
			sim.log.debug("d")
			sim.log.info("i")
			sim.log.warn("w")
			sim.log.error("e")
			return { action = "stop" }
		end
	`), 0, zap.New(core))
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Decide(testObservation())
	require.NoError(t, err)

	levels := map[string]bool{}
	for _, e := range logs.All() {
		levels[e.Level.String()] = true
	}
	assert.True(t, levels["debug"], "expected debug log")
	assert.True(t, levels["info"], "expected info log")
	assert.True(t, levels["warn"], "expected warn log")
	assert.True(t, levels["error"], "expected error log")
}

func TestProperty_ActionRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		action := rapid.SampledFrom([]string{"survey", "explore", "stop"}).Draw(rt, "action")
		p, err := scripting.LoadPolicy(writePolicy(t, `
			function decide(obs) return { action = "`+action+`" } end
		`), 0, zap.NewNop())
		require.NoError(rt, err)
		defer p.Close()

		d, err := p.Decide(testObservation())
		require.NoError(rt, err)
		assert.Equal(rt, action, d.Action)
	})
}

func TestProperty_TargetRoundTrip(t *testing.T) {
	p := loadPolicy(t, `function decide(obs) return { action = "travel", target = obs.area_id } end`)
	rapid.Check(t, func(rt *rapid.T) {
		obs := testObservation()
		obs.AreaID = rapid.StringMatching(`a[0-9]-[0-9]{1,3}`).Draw(rt, "area_id")
		d, err := p.Decide(obs)
		require.NoError(rt, err)
		assert.Equal(rt, obs.AreaID, d.Target)
	})
}
