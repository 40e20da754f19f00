package ai

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/frontier/internal/scripting"
)

// RootTask is the task every plan decomposes from. Domains without it plan
// nothing.
const RootTask = "expedition"

// PlannedAction is one primitive action produced by the planner.
type PlannedAction struct {
	Action string // "survey", "explore", "travel", "stop"
	Target string // resolved area ID; empty for non-travel actions or when the token resolved to nothing
}

// Planner evaluates an HTN domain against a session observation and produces
// an ordered action plan.
//
// Invariant: domain is non-nil and every method precondition names a known
// condition.
type Planner struct {
	domain *Domain
}

// NewPlanner constructs a Planner.
//
// Precondition: domain must not be nil and must have passed Validate.
// Postcondition: returns an error when the domain lacks the root task or a
// method precondition names an unknown condition.
func NewPlanner(domain *Domain) (*Planner, error) {
	if domain == nil {
		panic("ai.NewPlanner: domain must not be nil")
	}
	rootFound := false
	for _, t := range domain.Tasks {
		if t.ID == RootTask {
			rootFound = true
			break
		}
	}
	if !rootFound {
		return nil, fmt.Errorf("ai.NewPlanner: domain %q has no root task %q", domain.ID, RootTask)
	}
	for _, m := range domain.Methods {
		if m.Precondition == "" {
			continue
		}
		if _, ok := conditions[m.Precondition]; !ok {
			return nil, fmt.Errorf("ai.NewPlanner: domain %q method %q: unknown condition %q (have %s)",
				domain.ID, m.ID, m.Precondition, strings.Join(ConditionNames(), ", "))
		}
	}
	return &Planner{domain: domain}, nil
}

// Plan evaluates the HTN domain against obs and returns an ordered plan.
//
// Postcondition: returns non-nil slice (may be empty); travel actions carry
// their resolved target, empty when the token resolved to nothing.
func (p *Planner) Plan(obs scripting.Observation) []PlannedAction {
	// Begin with the root task.
	taskQueue := []string{RootTask}
	result := []PlannedAction{}

	const maxDepth = 32 // guard against infinite loops
	steps := 0

	for len(taskQueue) > 0 && steps < maxDepth {
		steps++
		current := taskQueue[0]
		taskQueue = taskQueue[1:]

		// Primitive operator: resolve and emit.
		if op, ok := p.domain.OperatorByID(current); ok {
			target := ""
			if op.Action == scripting.ActionTravel {
				target = ResolveTarget(obs, op.Target)
			}
			result = append(result, PlannedAction{Action: op.Action, Target: target})
			continue
		}

		// Abstract task: find applicable method.
		method := p.findApplicableMethod(current, obs)
		if method == nil {
			// No applicable method; skip this branch.
			continue
		}

		// Prepend subtasks (preserves ordered decomposition).
		taskQueue = append(method.Subtasks, taskQueue...)
	}

	return result
}

// findApplicableMethod returns the first Method for taskID whose precondition
// holds, or nil if none applies.
//
// Methods are tried in declaration order. An empty Precondition always passes.
func (p *Planner) findApplicableMethod(taskID string, obs scripting.Observation) *Method {
	for _, m := range p.domain.MethodsForTask(taskID) {
		if m.Precondition == "" {
			return m
		}
		if conditions[m.Precondition](obs) {
			return m
		}
	}
	return nil
}
