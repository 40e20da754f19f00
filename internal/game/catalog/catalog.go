// Package catalog defines the content catalog that drives world generation:
// gathering node types (with their skills, tier caps, and band minimums),
// name pools for special locations, and the word lists areas are named from.
package catalog

import "fmt"

// NodeType describes one kind of gathering node the generator can place.
type NodeType struct {
	// ID uniquely identifies the node type (e.g., "copper-vein").
	ID string
	// Skill is the gathering skill that works this node type.
	Skill string
	// MinDistance is the first distance band the type appears in.
	MinDistance int
	// MaxTier caps the node tier regardless of distance.
	MaxTier int
	// MinPerBand is the guaranteed minimum number of nodes of this type in
	// every band at or beyond MinDistance, once the band is fully generated.
	MinPerBand int
	// Names is the display-name pool nodes of this type draw from.
	Names []string
}

// TierCap returns the highest tier a node of this type may roll at the given
// distance band. Tiers deepen with distance but never exceed MaxTier.
func (n NodeType) TierCap(distance int) int {
	cap := distance - n.MinDistance + 1
	if cap < 1 {
		cap = 1
	}
	if cap > n.MaxTier {
		cap = n.MaxTier
	}
	return cap
}

// Catalog is the full content catalog. Ordering is significant: generation
// iterates NodeTypes in declaration order, so two worlds sharing a catalog
// and a seed place identical content.
type Catalog struct {
	// NodeTypes lists all gathering node types in declaration order.
	NodeTypes []NodeType
	// GuildHallNames is the name pool for guild-hall locations.
	GuildHallNames []string
	// MobCampNames is the name pool for mob-camp locations.
	MobCampNames []string
	// AreaAdjectives and AreaNouns combine into area display names.
	AreaAdjectives []string
	AreaNouns      []string
}

// NodeTypesAt returns the node types available in the given distance band,
// in declaration order.
//
// Postcondition: Returns a non-nil slice; may be empty for distance 0.
func (c *Catalog) NodeTypesAt(distance int) []NodeType {
	available := make([]NodeType, 0, len(c.NodeTypes))
	for _, nt := range c.NodeTypes {
		if nt.MinDistance <= distance {
			available = append(available, nt)
		}
	}
	return available
}

// NodeTypeByID returns the node type with the given ID.
//
// Postcondition: Returns (type, true) if found, or (NodeType{}, false) otherwise.
func (c *Catalog) NodeTypeByID(id string) (NodeType, bool) {
	for _, nt := range c.NodeTypes {
		if nt.ID == id {
			return nt, true
		}
	}
	return NodeType{}, false
}

// Skills returns the distinct gathering skills referenced by the catalog, in
// first-appearance order. Players are initialized with these plus surveying.
func (c *Catalog) Skills() []string {
	seen := make(map[string]bool, len(c.NodeTypes))
	var skills []string
	for _, nt := range c.NodeTypes {
		if !seen[nt.Skill] {
			seen[nt.Skill] = true
			skills = append(skills, nt.Skill)
		}
	}
	return skills
}

// Validate checks catalog invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (c *Catalog) Validate() error {
	if len(c.NodeTypes) == 0 {
		return fmt.Errorf("catalog must define at least one node type")
	}
	seen := make(map[string]bool, len(c.NodeTypes))
	for _, nt := range c.NodeTypes {
		if nt.ID == "" {
			return fmt.Errorf("node type with empty ID")
		}
		if seen[nt.ID] {
			return fmt.Errorf("duplicate node type ID: %q", nt.ID)
		}
		seen[nt.ID] = true
		if nt.Skill == "" {
			return fmt.Errorf("node type %q: skill must not be empty", nt.ID)
		}
		if nt.MinDistance < 1 {
			return fmt.Errorf("node type %q: min_distance must be >= 1, got %d", nt.ID, nt.MinDistance)
		}
		if nt.MaxTier < 1 {
			return fmt.Errorf("node type %q: max_tier must be >= 1, got %d", nt.ID, nt.MaxTier)
		}
		if nt.MinPerBand < 0 {
			return fmt.Errorf("node type %q: min_per_band must be >= 0, got %d", nt.ID, nt.MinPerBand)
		}
		if len(nt.Names) == 0 {
			return fmt.Errorf("node type %q: names pool must not be empty", nt.ID)
		}
	}
	if len(c.GuildHallNames) == 0 {
		return fmt.Errorf("guild_halls name pool must not be empty")
	}
	if len(c.MobCampNames) == 0 {
		return fmt.Errorf("mob_camps name pool must not be empty")
	}
	if len(c.AreaAdjectives) == 0 || len(c.AreaNouns) == 0 {
		return fmt.Errorf("area name word pools must not be empty")
	}
	return nil
}
