package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/frontier/internal/game/catalog"
	"github.com/cory-johannsen/frontier/internal/game/rng"
)

// Location-kind weights for procedural interior rolls. Gathering nodes
// dominate; the occasional guild hall or mob camp breaks them up.
var kindWeights = []float64{0.70, 0.20, 0.10}

const (
	kindIndexNode = iota
	kindIndexMobCamp
	kindIndexGuildHall
)

// EnsureGenerated promotes a placeholder area to generated content and
// returns it. Idempotent: a generated area is returned as-is, and no call
// ever moves the world's live randomness counter. All generation rolls come
// from streams derived purely from the seed, so content is identical no
// matter when or in what order areas are first touched.
//
// Precondition: the area must be materialized (hub generation and outward
// edge creation keep one band of placeholders ahead of every generated area).
// Postcondition: the area has a name, 2-5 rolled locations (plus any band-plan
// backfill), and at least one connection; band-0 excepted, at least one
// connection reaches the next band out.
func (w *World) EnsureGenerated(id AreaID) *Area {
	a, ok := w.areas[id]
	if !ok {
		panic(fmt.Sprintf("world: EnsureGenerated on unmaterialized area %s", id))
	}
	if a.Generated {
		return a
	}

	gen := w.Rand.Derived("area:" + string(id))
	if a.Distance == 0 {
		w.generateHub(a, gen)
	} else {
		w.generateArea(a, gen)
	}
	a.Generated = true

	w.logger.Debug("area generated",
		zap.String("area", string(id)),
		zap.String("name", a.Name),
		zap.Int("locations", len(a.Locations)),
		zap.Int("connections", len(w.adjacency[id])),
	)
	return a
}

// generateHub builds the fixed band-0 area: a pair of guild halls and latent
// connections to every first-band area. The hub is the survey frontier's
// starting point, so it connects to all of band 1 rather than rolling edges.
func (w *World) generateHub(a *Area, gen *rng.State) {
	a.Name = HubName
	for n := 1; n <= 2; n++ {
		pool := w.Catalog.GuildHallNames
		a.Locations = append(a.Locations, &Location{
			ID:     NewLocationID(a.ID, n),
			AreaID: a.ID,
			Kind:   KindGuildHall,
			Name:   pool[gen.Intn("location-name", len(pool))],
		})
	}

	w.materializeBands(1)
	for i := 0; i < BandCount(1); i++ {
		w.connectIfAbsent(a.ID, NewAreaID(1, i))
	}
}

// generateArea rolls an outer area's name, interior, and edges from its
// derived stream.
func (w *World) generateArea(a *Area, gen *rng.State) {
	a.Name = w.rollAreaName(gen)

	types := w.Catalog.NodeTypesAt(a.Distance)
	count := 2 + gen.Intn("location-count", 4)
	for n := 1; n <= count; n++ {
		a.Locations = append(a.Locations, w.rollLocation(a, gen, n, types))
	}
	w.backfillBandMinimums(a, gen, types)
	w.rollEdges(a, gen)
}

// rollAreaName combines one adjective and one noun from the catalog pools.
func (w *World) rollAreaName(gen *rng.State) string {
	adj := w.Catalog.AreaAdjectives[gen.Intn("name-adjective", len(w.Catalog.AreaAdjectives))]
	noun := w.Catalog.AreaNouns[gen.Intn("name-noun", len(w.Catalog.AreaNouns))]
	return adj + " " + noun
}

// rollLocation rolls the n-th location of an area: kind first, then the
// kind's specifics. When no node types reach this band yet, the kind roll
// falls back to camps and halls.
func (w *World) rollLocation(a *Area, gen *rng.State, n int, types []catalog.NodeType) *Location {
	weights := kindWeights
	if len(types) == 0 {
		weights = []float64{0, kindWeights[kindIndexMobCamp], kindWeights[kindIndexGuildHall]}
	}

	loc := &Location{
		ID:     NewLocationID(a.ID, n),
		AreaID: a.ID,
	}
	switch gen.WeightedIndex("location-kind", weights) {
	case kindIndexNode:
		nt := types[gen.Intn("node-type", len(types))]
		loc.Kind = KindGatheringNode
		loc.NodeType = nt.ID
		loc.Skill = nt.Skill
		loc.Tier = 1 + gen.Intn("node-tier", nt.TierCap(a.Distance))
		loc.Name = nt.Names[gen.Intn("location-name", len(nt.Names))]
	case kindIndexMobCamp:
		loc.Kind = KindMobCamp
		loc.Name = w.Catalog.MobCampNames[gen.Intn("location-name", len(w.Catalog.MobCampNames))]
	case kindIndexGuildHall:
		loc.Kind = KindGuildHall
		loc.Name = w.Catalog.GuildHallNames[gen.Intn("location-name", len(w.Catalog.GuildHallNames))]
	}
	return loc
}

// backfillBandMinimums appends one node of each catalog type the band plan
// anchors on this area but the procedural rolls missed. This is what makes
// the per-band minimum guarantee hold once a band is fully generated.
func (w *World) backfillBandMinimums(a *Area, gen *rng.State, types []catalog.NodeType) {
	for _, nt := range types {
		if nt.MinPerBand <= 0 {
			continue
		}
		if !w.bandAnchors(a.Distance, nt)[a.Index] {
			continue
		}
		if a.HasNodeType(nt.ID) {
			continue
		}
		a.Locations = append(a.Locations, &Location{
			ID:       NewLocationID(a.ID, len(a.Locations)+1),
			AreaID:   a.ID,
			Kind:     KindGatheringNode,
			NodeType: nt.ID,
			Skill:    nt.Skill,
			Tier:     1 + gen.Intn("backfill-tier", nt.TierCap(a.Distance)),
			Name:     nt.Names[gen.Intn("backfill-name", len(nt.Names))],
		})
	}
}

// bandAnchors returns the set of area indexes in a band that guarantee the
// given node type. The plan stream derives purely from the seed, so every
// area in the band computes the same anchor set.
func (w *World) bandAnchors(distance int, nt catalog.NodeType) map[int]bool {
	want := nt.MinPerBand
	if count := BandCount(distance); want > count {
		want = count
	}
	plan := w.Rand.Derived(fmt.Sprintf("bandplan:%d:%s", distance, nt.ID))
	anchors := make(map[int]bool, want)
	for len(anchors) < want {
		anchors[plan.Intn("anchor", BandCount(distance))] = true
	}
	return anchors
}

// rollEdges creates the area's latent connections: one guaranteed edge to the
// next band out, then up to two extras within one band of home. Edges roll
// against placeholders, which is what extends the frontier.
func (w *World) rollEdges(a *Area, gen *rng.State) {
	w.materializeBands(a.Distance + 1)

	out := NewAreaID(a.Distance+1, gen.Intn("edge-out", BandCount(a.Distance+1)))
	w.connectIfAbsent(a.ID, out)

	extras := gen.Intn("edge-extra-count", 3)
	for k := 0; k < extras; k++ {
		band := a.Distance - 1 + gen.Intn("edge-extra-band", 3)
		target := NewAreaID(band, gen.Intn("edge-extra-index", BandCount(band)))
		if target == a.ID {
			continue
		}
		w.connectIfAbsent(a.ID, target)
	}
}
