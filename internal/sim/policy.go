package sim

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/frontier/internal/game/ai"
	"github.com/cory-johannsen/frontier/internal/scripting"
)

// Built-in policy names.
const (
	// PolicyAuto surveys first, explores second, and pushes outward when the
	// local area is done.
	PolicyAuto = "auto"
	// PolicySurveyor only surveys, which makes its records a clean read on
	// the survey roll stream.
	PolicySurveyor = "surveyor"
	// PolicyExplorer empties nearby areas before opening new ground.
	PolicyExplorer = "explorer"
)

// ErrUnknownPolicy means the policy spec named no built-in.
var ErrUnknownPolicy = errors.New("unknown builtin policy")

type builtin struct {
	name   string
	decide func(scripting.Observation) (scripting.Decision, error)
}

func (b builtin) Name() string { return b.name }

func (b builtin) Decide(obs scripting.Observation) (scripting.Decision, error) {
	return b.decide(obs)
}

// NewBuiltin returns the named built-in policy.
func NewBuiltin(name string) (Decider, error) {
	switch name {
	case PolicyAuto:
		return builtin{name: PolicyAuto, decide: decideAuto}, nil
	case PolicySurveyor:
		return builtin{name: PolicySurveyor, decide: decideSurveyor}, nil
	case PolicyExplorer:
		return builtin{name: PolicyExplorer, decide: decideExplorer}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// ResolveDecider turns a policy spec into a Decider. A spec ending in .lua
// is loaded as a sandboxed script, one ending in .yaml as an HTN planner
// domain; anything else must name a built-in. The returned closer releases
// script resources and is non-nil in every case, so callers can defer it
// unconditionally.
func ResolveDecider(spec string, instLimit int, logger *zap.Logger) (Decider, func(), error) {
	switch {
	case strings.HasSuffix(spec, ".lua"):
		p, err := scripting.LoadPolicy(spec, instLimit, logger)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	case strings.HasSuffix(spec, ".yaml"):
		d, err := NewPlannerPolicy(spec)
		if err != nil {
			return nil, nil, err
		}
		return d, func() {}, nil
	}
	d, err := NewBuiltin(spec)
	if err != nil {
		return nil, nil, err
	}
	return d, func() {}, nil
}

// plannerPolicy drives sessions from an HTN domain: every step it replans
// and takes the first usable action.
type plannerPolicy struct {
	name    string
	planner *ai.Planner
}

// NewPlannerPolicy loads an HTN domain file and wraps it as a Decider.
func NewPlannerPolicy(path string) (Decider, error) {
	d, err := ai.LoadDomain(path)
	if err != nil {
		return nil, err
	}
	p, err := ai.NewPlanner(d)
	if err != nil {
		return nil, err
	}
	return plannerPolicy{name: filepath.Base(path), planner: p}, nil
}

func (p plannerPolicy) Name() string { return p.name }

func (p plannerPolicy) Decide(obs scripting.Observation) (scripting.Decision, error) {
	for _, pa := range p.planner.Plan(obs) {
		if pa.Action == scripting.ActionTravel && pa.Target == "" {
			// The domain named a target token nothing currently matches.
			continue
		}
		return scripting.Decision{Action: pa.Action, Target: pa.Target}, nil
	}
	return scripting.Decision{Action: scripting.ActionStop}, nil
}

func decideAuto(obs scripting.Observation) (scripting.Decision, error) {
	if obs.SurveyTargets > 0 {
		return scripting.Decision{Action: scripting.ActionSurvey}, nil
	}
	if obs.ExploreTargets > 0 {
		return scripting.Decision{Action: scripting.ActionExplore}, nil
	}
	if target, ok := ai.FarthestOutwardExit(obs); ok {
		return scripting.Decision{Action: scripting.ActionTravel, Target: target}, nil
	}
	return scripting.Decision{Action: scripting.ActionStop}, nil
}

func decideSurveyor(obs scripting.Observation) (scripting.Decision, error) {
	if obs.SurveyTargets > 0 {
		return scripting.Decision{Action: scripting.ActionSurvey}, nil
	}
	return scripting.Decision{Action: scripting.ActionStop}, nil
}

func decideExplorer(obs scripting.Observation) (scripting.Decision, error) {
	if obs.ExploreTargets > 0 {
		return scripting.Decision{Action: scripting.ActionExplore}, nil
	}
	if target, ok := ai.CheapestUnexploredExit(obs); ok {
		return scripting.Decision{Action: scripting.ActionTravel, Target: target}, nil
	}
	if obs.SurveyTargets > 0 {
		return scripting.Decision{Action: scripting.ActionSurvey}, nil
	}
	return scripting.Decision{Action: scripting.ActionStop}, nil
}
