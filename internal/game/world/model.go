// Package world models the explorable frontier: a hub-centered graph of areas
// arranged in concentric distance bands, the locations inside them, and the
// connections between them. Areas exist as unnamed placeholders until first
// touched, then generate their content deterministically from the world seed,
// so two worlds sharing a seed are the same world no matter how they are
// explored.
package world

import "fmt"

// LocationKind distinguishes the three things the generator places in areas.
type LocationKind string

const (
	// KindGatheringNode is a workable resource node of some catalog type.
	KindGatheringNode LocationKind = "gathering-node"
	// KindGuildHall is a service location; the hub is made of these.
	KindGuildHall LocationKind = "guild-hall"
	// KindMobCamp is a hostile point of interest.
	KindMobCamp LocationKind = "mob-camp"
)

// Location is a single point of interest inside an area.
type Location struct {
	// ID uniquely identifies this location.
	ID LocationID
	// AreaID identifies the containing area.
	AreaID AreaID
	// Kind is the location's category.
	Kind LocationKind
	// Name is the deterministic display name.
	Name string
	// NodeType is the catalog node type ID. Set only for gathering nodes.
	NodeType string
	// Skill is the gathering skill that works the node. Set only for
	// gathering nodes.
	Skill string
	// Tier is the node's depth tier, from 1 up to the type's cap at this
	// distance. Set only for gathering nodes.
	Tier int
}

// RequiredLevel returns the skill level needed to work this location without
// it counting as a hard find. Non-node locations require nothing.
func (l *Location) RequiredLevel() int {
	if l.Kind != KindGatheringNode {
		return 0
	}
	return l.Tier
}

// Area is one region of the world graph.
type Area struct {
	// ID uniquely identifies this area.
	ID AreaID
	// Distance is the band the area sits in; 0 is the hub.
	Distance int
	// Index is the area's position within its band.
	Index int
	// Name is empty until the area is generated.
	Name string
	// Generated reports whether the area's content has been rolled. An area
	// is generated at most once, ever.
	Generated bool
	// Locations holds the area's content in generation order. Empty until
	// generated.
	Locations []*Location
}

// HasNodeType reports whether any location in the area is a gathering node
// of the given catalog type.
func (a *Area) HasNodeType(nodeType string) bool {
	for _, l := range a.Locations {
		if l.Kind == KindGatheringNode && l.NodeType == nodeType {
			return true
		}
	}
	return false
}

// BaseTravelTicks is the tick cost of traversing a connection with
// multiplier 1.
const BaseTravelTicks = 10.0

// Connection joins two areas. Connections are undirected and immutable once
// created; the world keeps them in a global insertion order that downstream
// tie-breaking relies on.
type Connection struct {
	// ID is the canonical unordered pair ID.
	ID ConnectionID
	// A and B are the endpoints in canonical (lexicographic) order.
	A, B AreaID
	// Multiplier scales travel time, in [1, 4]. Rolled from the connection's
	// own derived stream so both endpoints agree on it regardless of which
	// generated first.
	Multiplier int
	// Seq is the connection's position in the global insertion order.
	Seq int
}

// TravelTicks returns the cost in ticks of traversing this connection. This
// is the single authoritative travel cost formula; path totals and any
// display of travel time must read it rather than recomputing.
func (c *Connection) TravelTicks() float64 {
	return BaseTravelTicks * float64(c.Multiplier)
}

// Other returns the endpoint opposite the given area.
//
// Precondition: from must be one of the connection's endpoints.
func (c *Connection) Other(from AreaID) AreaID {
	switch from {
	case c.A:
		return c.B
	case c.B:
		return c.A
	}
	panic(fmt.Sprintf("world: area %s is not an endpoint of %s", from, c.ID))
}
