package ai

import (
	"sort"

	"github.com/cory-johannsen/frontier/internal/game/world"
	"github.com/cory-johannsen/frontier/internal/scripting"
)

// Condition is a named predicate a method precondition can reference.
type Condition func(obs scripting.Observation) bool

// conditions is the closed set of precondition names domains may use. A
// survey or explore counts as possible only when it has targets left and at
// least one attempt still fits the remaining budget.
var conditions = map[string]Condition{
	"can-survey": func(obs scripting.Observation) bool {
		return obs.SurveyTargets > 0 && obs.SurveyChance > 0
	},
	"can-explore": func(obs scripting.Observation) bool {
		return obs.ExploreTargets > 0 && obs.ExploreChance > 0
	},
	"area-explored": func(obs scripting.Observation) bool {
		return obs.FullyExplored
	},
	"has-outward-exit": func(obs scripting.Observation) bool {
		_, ok := FarthestOutwardExit(obs)
		return ok
	},
	"has-unexplored-exit": func(obs scripting.Observation) bool {
		_, ok := CheapestUnexploredExit(obs)
		return ok
	},
	"at-hub": func(obs scripting.Observation) bool {
		return obs.Distance == 0
	},
}

// ConditionNames returns the known precondition names, sorted.
func ConditionNames() []string {
	names := make([]string, 0, len(conditions))
	for name := range conditions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FarthestOutwardExit picks the affordable exit that gains the most distance.
// Ties keep the first exit in discovery order.
//
// Postcondition: ok is false when no known exit leads outward within the
// remaining budget.
func FarthestOutwardExit(obs scripting.Observation) (string, bool) {
	best := -1
	for i, e := range obs.Exits {
		if e.Distance <= obs.Distance || e.Ticks > obs.Remaining {
			continue
		}
		if best < 0 || e.Distance > obs.Exits[best].Distance {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return obs.Exits[best].AreaID, true
}

// CheapestUnexploredExit picks the affordable exit into an area that still
// has something to find. Ties keep the first exit in discovery order.
//
// Postcondition: ok is false when every affordable exit leads to a fully
// explored area.
func CheapestUnexploredExit(obs scripting.Observation) (string, bool) {
	best := -1
	for i, e := range obs.Exits {
		if e.Explored || e.Ticks > obs.Remaining {
			continue
		}
		if best < 0 || e.Ticks < obs.Exits[best].Ticks {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return obs.Exits[best].AreaID, true
}

// ResolveTarget maps a travel target token to an area ID.
//
// Postcondition: tokens "farthest-outward"/"cheapest-unexplored"/"hub" are
// resolved against the observation; unknown tokens are returned as-is so
// domains can name literal area IDs; empty string returned when a token
// resolves to nothing.
func ResolveTarget(obs scripting.Observation, token string) string {
	switch token {
	case "farthest-outward":
		if id, ok := FarthestOutwardExit(obs); ok {
			return id
		}
		return ""
	case "cheapest-unexplored":
		if id, ok := CheapestUnexploredExit(obs); ok {
			return id
		}
		return ""
	case "hub":
		return string(world.HubID)
	default:
		return token
	}
}
