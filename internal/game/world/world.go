package world

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/frontier/internal/game/catalog"
	"github.com/cory-johannsen/frontier/internal/game/rng"
	"github.com/cory-johannsen/frontier/internal/game/session"
)

// HubName is the fixed display name of the band-0 area.
const HubName = "Basecamp"

// World is the complete mutable state of one simulated run: the seed and live
// randomness state, the area graph, the player, and the current session.
//
// A World is confined to a single goroutine. Engines take it by reference and
// mutate it through their entry points; nothing else writes to it.
type World struct {
	// Seed is the world seed every piece of content derives from.
	Seed string
	// Rand is the live randomness state. Action rolls draw from it directly;
	// generated content uses derived child streams so it never moves this
	// counter.
	Rand *rng.State
	// Catalog is the content catalog generation reads from.
	Catalog *catalog.Catalog
	// Player is the single explorer of this world.
	Player *Player
	// Session is the current tick budget. Nil until StartSession.
	Session *session.Session

	areas       map[AreaID]*Area
	connections map[ConnectionID]*Connection
	connOrder   []*Connection
	adjacency   map[AreaID][]*Connection
	bandsReady  int
	logger      *zap.Logger
}

// New creates a world from a seed and catalog: it materializes the hub and
// the first placeholder band, generates the hub (guild halls plus latent
// connections to every first-band area), and stations the player there with
// the hub and its locations already known.
//
// Precondition: seed must be non-empty and cat must be a validated catalog.
// Postcondition: Returns a world whose hub is generated and whose player can
// immediately survey for first-band areas.
func New(seed string, cat *catalog.Catalog, logger *zap.Logger) *World {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &World{
		Seed:        seed,
		Rand:        rng.New(seed),
		Catalog:     cat,
		areas:       make(map[AreaID]*Area),
		connections: make(map[ConnectionID]*Connection),
		adjacency:   make(map[AreaID][]*Connection),
		bandsReady:  -1,
		logger:      logger,
	}
	w.materializeBands(1)
	w.EnsureGenerated(HubID)

	w.Player = NewPlayer(cat, HubID)
	w.Player.MarkAreaKnown(HubID)
	for _, l := range w.areas[HubID].Locations {
		w.Player.MarkLocationKnown(l.ID)
	}

	logger.Debug("world created",
		zap.String("seed", seed),
		zap.Int("hub_locations", len(w.areas[HubID].Locations)),
	)
	return w
}

// StartSession replaces the current session with a fresh budget. Knowledge
// and position persist; only time resets.
//
// Precondition: budget must be positive.
func (w *World) StartSession(budget float64) {
	w.Session = session.New(budget)
	w.logger.Debug("session started", zap.Float64("budget", budget))
}

// GetArea returns the area with the given ID.
//
// Postcondition: Returns (area, true) if materialized, or (nil, false)
// otherwise.
func (w *World) GetArea(id AreaID) (*Area, bool) {
	a, ok := w.areas[id]
	return a, ok
}

// GetConnection returns the connection with the given ID.
//
// Postcondition: Returns (connection, true) if it exists, or (nil, false)
// otherwise.
func (w *World) GetConnection(id ConnectionID) (*Connection, bool) {
	c, ok := w.connections[id]
	return c, ok
}

// ConnectionBetween returns the connection joining two areas, if one exists.
func (w *World) ConnectionBetween(a, b AreaID) (*Connection, bool) {
	c, ok := w.connections[NewConnectionID(a, b)]
	return c, ok
}

// ConnectionsOf returns the connections touching an area, in insertion order.
//
// Postcondition: Returns the world's own slice; callers must not mutate it.
func (w *World) ConnectionsOf(id AreaID) []*Connection {
	return w.adjacency[id]
}

// Connections returns all connections in global insertion order.
//
// Postcondition: Returns a fresh slice safe for the caller to keep.
func (w *World) Connections() []*Connection {
	out := make([]*Connection, len(w.connOrder))
	copy(out, w.connOrder)
	return out
}

// AreasInBand returns the band's areas ordered by index.
//
// Postcondition: Returns a non-nil slice; empty if the band is not yet
// materialized.
func (w *World) AreasInBand(distance int) []*Area {
	out := make([]*Area, 0, BandCount(distance))
	for i := 0; i < BandCount(distance); i++ {
		if a, ok := w.areas[NewAreaID(distance, i)]; ok {
			out = append(out, a)
		}
	}
	return out
}

// GeneratedAreas returns every generated area, ordered by ID.
func (w *World) GeneratedAreas() []*Area {
	var out []*Area
	for _, a := range w.areas {
		if a.Generated {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AreaCount returns the number of materialized areas, placeholders included.
func (w *World) AreaCount() int {
	return len(w.areas)
}

// materializeBands creates placeholder areas for every band up to and
// including the given distance. Idempotent.
func (w *World) materializeBands(distance int) {
	for d := w.bandsReady + 1; d <= distance; d++ {
		for i := 0; i < BandCount(d); i++ {
			id := NewAreaID(d, i)
			w.areas[id] = &Area{ID: id, Distance: d, Index: i}
		}
		w.bandsReady = d
	}
}

// connectIfAbsent creates the connection between two areas unless it already
// exists, rolling its multiplier from the connection's own derived stream.
//
// Precondition: both endpoints must be materialized; a dangling endpoint is
// generator corruption and panics.
func (w *World) connectIfAbsent(a, b AreaID) *Connection {
	id := NewConnectionID(a, b)
	if c, ok := w.connections[id]; ok {
		return c
	}
	if _, ok := w.areas[a]; !ok {
		panic(fmt.Sprintf("world: connection %s endpoint %s not materialized", id, a))
	}
	if _, ok := w.areas[b]; !ok {
		panic(fmt.Sprintf("world: connection %s endpoint %s not materialized", id, b))
	}

	low, high := id.Endpoints()
	c := &Connection{
		ID:         id,
		A:          low,
		B:          high,
		Multiplier: 1 + w.Rand.Derived("conn:"+string(id)).Intn("multiplier", 4),
		Seq:        len(w.connOrder),
	}
	w.connections[id] = c
	w.connOrder = append(w.connOrder, c)
	w.adjacency[low] = append(w.adjacency[low], c)
	w.adjacency[high] = append(w.adjacency[high], c)
	return c
}
