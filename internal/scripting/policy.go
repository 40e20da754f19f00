package scripting

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Actions a policy's decide function may return.
const (
	ActionSurvey  = "survey"
	ActionExplore = "explore"
	ActionTravel  = "travel"
	ActionStop    = "stop"
)

var (
	// ErrNoDecide means the script never defined a global decide function.
	ErrNoDecide = errors.New("scripting: policy does not define decide")
	// ErrBadDecision means decide returned something other than a well-formed
	// decision table.
	ErrBadDecision = errors.New("scripting: invalid decision")
)

// Observation is the world snapshot handed to decide. Fields map to
// snake_case keys in the Lua table.
type Observation struct {
	// Tick and Remaining are the session clock: ticks spent and ticks left.
	Tick      float64
	Remaining float64
	// Level is the player's surveying skill level.
	Level int
	// AreaID, AreaName and Distance describe the player's current area.
	AreaID   string
	AreaName string
	Distance int
	// SurveyChance and ExploreChance are the per-attempt odds here, zero when
	// the action has no targets.
	SurveyChance  float64
	ExploreChance float64
	// SurveyTargets and ExploreTargets count the finds each action has left.
	SurveyTargets  int
	ExploreTargets int
	// KnownAreas is the size of the player's discovered map.
	KnownAreas int
	// FullyExplored reports that the current area has nothing left to find.
	FullyExplored bool
	// Exits lists the known connections out of the current area.
	Exits []Exit
}

// Exit describes one known connection out of the current area. Known
// connections always lead to known areas, so every field is populated.
type Exit struct {
	AreaID   string
	Name     string
	Distance int
	// Ticks is the travel cost of taking this exit directly.
	Ticks float64
	// Explored reports that the destination is already fully explored.
	Explored bool
}

// Decision is a policy's chosen next step.
type Decision struct {
	Action string
	// Target is the destination area ID; set only for ActionTravel.
	Target string
}

// Policy wraps a sandboxed Lua VM holding one loaded policy script. A Policy
// is bound to a single goroutine; runners must not share one across
// concurrent sessions.
type Policy struct {
	name   string
	limit  int
	logger *zap.Logger

	state  *lua.LState
	cancel context.CancelFunc
}

// LoadPolicy executes the script at path in a fresh sandboxed VM and
// verifies it defines a global decide function.
//
// Precondition: path must reference a readable Lua file.
// Postcondition: Returns a ready Policy; the caller must call Close when done.
func LoadPolicy(path string, instLimit int, logger *zap.Logger) (*Policy, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := instLimit
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}

	L, cancel := NewSandboxedState(limit)
	RegisterModules(L, logger)

	if err := L.DoFile(path); err != nil {
		cancel()
		L.Close()
		return nil, fmt.Errorf("scripting: loading policy %q: %w", path, err)
	}
	if L.GetGlobal("decide").Type() != lua.LTFunction {
		cancel()
		L.Close()
		return nil, fmt.Errorf("%w: %s", ErrNoDecide, path)
	}

	return &Policy{
		name:   filepath.Base(path),
		limit:  limit,
		logger: logger,
		state:  L,
		cancel: cancel,
	}, nil
}

// Name returns the policy's script filename.
func (p *Policy) Name() string { return p.name }

// Decide calls the script's decide function with obs and parses the returned
// decision table. Every call runs under a fresh instruction budget, so a call
// that hits the limit errors but leaves the Policy usable.
//
// Postcondition: On success the Decision carries a recognized Action, with a
// non-empty Target exactly when the Action is ActionTravel.
func (p *Policy) Decide(obs Observation) (Decision, error) {
	// Re-arm the opcode budget. This also clears a context cancelled by a
	// previous over-limit call.
	p.cancel()
	ctx, cancel := newCountingContext(p.limit)
	p.cancel = cancel
	p.state.SetContext(ctx)

	if err := p.state.CallByParam(lua.P{
		Fn:      p.state.GetGlobal("decide"),
		NRet:    1,
		Protect: true,
	}, observationToTable(p.state, obs)); err != nil {
		return Decision{}, fmt.Errorf("scripting: policy %s: %w", p.name, err)
	}

	ret := p.state.Get(-1)
	p.state.Pop(1)
	d, err := parseDecision(ret)
	if err != nil {
		return Decision{}, err
	}
	p.logger.Debug("policy decision",
		zap.String("policy", p.name),
		zap.String("action", d.Action),
		zap.String("target", d.Target),
	)
	return d, nil
}

// Close releases the VM. The Policy must not be used afterwards.
func (p *Policy) Close() {
	p.cancel()
	p.state.Close()
}

// observationToTable converts obs into the Lua table decide receives.
func observationToTable(L *lua.LState, obs Observation) *lua.LTable {
	tbl := L.NewTable()
	L.SetField(tbl, "tick", lua.LNumber(obs.Tick))
	L.SetField(tbl, "remaining", lua.LNumber(obs.Remaining))
	L.SetField(tbl, "level", lua.LNumber(obs.Level))
	L.SetField(tbl, "area_id", lua.LString(obs.AreaID))
	L.SetField(tbl, "area_name", lua.LString(obs.AreaName))
	L.SetField(tbl, "distance", lua.LNumber(obs.Distance))
	L.SetField(tbl, "survey_chance", lua.LNumber(obs.SurveyChance))
	L.SetField(tbl, "explore_chance", lua.LNumber(obs.ExploreChance))
	L.SetField(tbl, "survey_targets", lua.LNumber(obs.SurveyTargets))
	L.SetField(tbl, "explore_targets", lua.LNumber(obs.ExploreTargets))
	L.SetField(tbl, "known_areas", lua.LNumber(obs.KnownAreas))
	L.SetField(tbl, "fully_explored", lua.LBool(obs.FullyExplored))

	exits := L.NewTable()
	for i, e := range obs.Exits {
		et := L.NewTable()
		L.SetField(et, "area_id", lua.LString(e.AreaID))
		L.SetField(et, "name", lua.LString(e.Name))
		L.SetField(et, "distance", lua.LNumber(e.Distance))
		L.SetField(et, "ticks", lua.LNumber(e.Ticks))
		L.SetField(et, "explored", lua.LBool(e.Explored))
		exits.RawSetInt(i+1, et)
	}
	L.SetField(tbl, "exits", exits)
	return tbl
}

// parseDecision validates decide's return value.
func parseDecision(v lua.LValue) (Decision, error) {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return Decision{}, fmt.Errorf("%w: expected table, got %s", ErrBadDecision, v.Type())
	}

	action, ok := tbl.RawGetString("action").(lua.LString)
	if !ok {
		return Decision{}, fmt.Errorf("%w: missing action field", ErrBadDecision)
	}
	d := Decision{Action: string(action)}
	if target, ok := tbl.RawGetString("target").(lua.LString); ok {
		d.Target = string(target)
	}

	switch d.Action {
	case ActionSurvey, ActionExplore, ActionStop:
		return d, nil
	case ActionTravel:
		if d.Target == "" {
			return Decision{}, fmt.Errorf("%w: travel requires a target", ErrBadDecision)
		}
		return d, nil
	default:
		return Decision{}, fmt.Errorf("%w: unknown action %q", ErrBadDecision, d.Action)
	}
}
