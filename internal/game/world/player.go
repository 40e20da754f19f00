package world

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/frontier/internal/game/catalog"
	"github.com/cory-johannsen/frontier/internal/game/luck"
)

// SkillSurveying is the skill that governs survey and explore attempts.
// Gathering skills come from the catalog.
const SkillSurveying = "surveying"

// Player is the single explorer of a world: position, skill levels, the
// monotonically growing record of what they know, and the roll log that
// feeds luck reports.
//
// Knowledge only ever grows. There is deliberately no API to forget an area,
// connection, or location; replay correctness depends on it.
type Player struct {
	// CurrentArea is where the player stands.
	CurrentArea AreaID

	skills        map[string]int
	knownAreas    map[AreaID]bool
	knownConns    map[ConnectionID]bool
	knownLocs     map[LocationID]bool
	fullyExplored map[AreaID]bool
	rolls         []luck.Roll
}

// NewPlayer creates a player at the given start area with surveying and every
// catalog gathering skill at level 1.
func NewPlayer(cat *catalog.Catalog, start AreaID) *Player {
	skills := map[string]int{SkillSurveying: 1}
	for _, s := range cat.Skills() {
		skills[s] = 1
	}
	return &Player{
		CurrentArea:   start,
		skills:        skills,
		knownAreas:    make(map[AreaID]bool),
		knownConns:    make(map[ConnectionID]bool),
		knownLocs:     make(map[LocationID]bool),
		fullyExplored: make(map[AreaID]bool),
	}
}

// SkillLevel returns the player's level in a skill, 0 if untrained.
func (p *Player) SkillLevel(name string) int {
	return p.skills[name]
}

// SetSkill sets a skill to the given level.
//
// Precondition: level must be non-negative.
func (p *Player) SetSkill(name string, level int) {
	if level < 0 {
		panic(fmt.Sprintf("world: SetSkill(%s, %d) negative level", name, level))
	}
	p.skills[name] = level
}

// KnowsArea reports whether the player has discovered an area.
func (p *Player) KnowsArea(id AreaID) bool { return p.knownAreas[id] }

// KnowsConnection reports whether the player has discovered a connection.
func (p *Player) KnowsConnection(id ConnectionID) bool { return p.knownConns[id] }

// KnowsLocation reports whether the player has discovered a location.
func (p *Player) KnowsLocation(id LocationID) bool { return p.knownLocs[id] }

// MarkAreaKnown records an area as discovered.
//
// Postcondition: Returns true if this call newly discovered the area.
func (p *Player) MarkAreaKnown(id AreaID) bool {
	if p.knownAreas[id] {
		return false
	}
	p.knownAreas[id] = true
	return true
}

// MarkConnectionKnown records a connection as discovered.
//
// Postcondition: Returns true if this call newly discovered the connection.
func (p *Player) MarkConnectionKnown(id ConnectionID) bool {
	if p.knownConns[id] {
		return false
	}
	p.knownConns[id] = true
	return true
}

// MarkLocationKnown records a location as discovered.
//
// Postcondition: Returns true if this call newly discovered the location.
func (p *Player) MarkLocationKnown(id LocationID) bool {
	if p.knownLocs[id] {
		return false
	}
	p.knownLocs[id] = true
	return true
}

// KnownAreaCount returns the number of discovered areas.
func (p *Player) KnownAreaCount() int { return len(p.knownAreas) }

// KnownConnectionCount returns the number of discovered connections.
func (p *Player) KnownConnectionCount() int { return len(p.knownConns) }

// KnownLocationCount returns the number of discovered locations.
func (p *Player) KnownLocationCount() int { return len(p.knownLocs) }

// KnownAreas returns the discovered area IDs in sorted order.
func (p *Player) KnownAreas() []AreaID {
	out := make([]AreaID, 0, len(p.knownAreas))
	for id := range p.knownAreas {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsFullyExplored reports whether the player has exhausted an area's
// discoverables and banked its completion bonus.
func (p *Player) IsFullyExplored(id AreaID) bool { return p.fullyExplored[id] }

// MarkFullyExplored records an area as fully explored.
//
// Postcondition: Returns true if this call newly completed the area, which
// is what gates the one-time completion bonus.
func (p *Player) MarkFullyExplored(id AreaID) bool {
	if p.fullyExplored[id] {
		return false
	}
	p.fullyExplored[id] = true
	return true
}

// RecordRoll appends one outcome to the player's roll log.
func (p *Player) RecordRoll(label string, probability float64, success bool) {
	p.rolls = append(p.rolls, luck.Roll{Label: label, Probability: probability, Success: success})
}

// Rolls returns the full roll log, oldest first. The slice is the player's
// own; callers must not mutate it.
func (p *Player) Rolls() []luck.Roll { return p.rolls }
