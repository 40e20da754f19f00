package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/frontier/internal/game/catalog"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	require.NoError(t, catalog.Default().Validate())
}

func TestLoadFromBytes(t *testing.T) {
	data := []byte(`
catalog:
  node_types:
    - id: tin-vein
      skill: mining
      min_distance: 1
      max_tier: 2
      min_per_band: 1
      names: ["Tin Vein", "Grey Seam"]
  guild_halls: ["Miners' Rest"]
  mob_camps: ["Goblin Camp"]
  area_names:
    adjectives: ["Dusty"]
    nouns: ["Flats"]
`)
	c, err := catalog.LoadFromBytes(data)
	require.NoError(t, err)
	require.Len(t, c.NodeTypes, 1)
	assert.Equal(t, "tin-vein", c.NodeTypes[0].ID)
	assert.Equal(t, "mining", c.NodeTypes[0].Skill)
	assert.Equal(t, []string{"Tin Vein", "Grey Seam"}, c.NodeTypes[0].Names)
	assert.Equal(t, []string{"Miners' Rest"}, c.GuildHallNames)
}

func TestLoadFromBytesRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "no node types",
			yaml: `
catalog:
  guild_halls: ["A"]
  mob_camps: ["B"]
  area_names: {adjectives: ["C"], nouns: ["D"]}
`,
		},
		{
			name: "duplicate node type",
			yaml: `
catalog:
  node_types:
    - {id: x, skill: s, min_distance: 1, max_tier: 1, min_per_band: 0, names: ["N"]}
    - {id: x, skill: s, min_distance: 1, max_tier: 1, min_per_band: 0, names: ["N"]}
  guild_halls: ["A"]
  mob_camps: ["B"]
  area_names: {adjectives: ["C"], nouns: ["D"]}
`,
		},
		{
			name: "zero min distance",
			yaml: `
catalog:
  node_types:
    - {id: x, skill: s, min_distance: 0, max_tier: 1, min_per_band: 0, names: ["N"]}
  guild_halls: ["A"]
  mob_camps: ["B"]
  area_names: {adjectives: ["C"], nouns: ["D"]}
`,
		},
		{
			name: "empty names pool",
			yaml: `
catalog:
  node_types:
    - {id: x, skill: s, min_distance: 1, max_tier: 1, min_per_band: 0, names: []}
  guild_halls: ["A"]
  mob_camps: ["B"]
  area_names: {adjectives: ["C"], nouns: ["D"]}
`,
		},
		{
			name: "missing area nouns",
			yaml: `
catalog:
  node_types:
    - {id: x, skill: s, min_distance: 1, max_tier: 1, min_per_band: 0, names: ["N"]}
  guild_halls: ["A"]
  mob_camps: ["B"]
  area_names: {adjectives: ["C"], nouns: []}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.LoadFromBytes([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestTierCap(t *testing.T) {
	nt := catalog.NodeType{ID: "x", MinDistance: 2, MaxTier: 4}

	assert.Equal(t, 1, nt.TierCap(1), "below min distance clamps to 1")
	assert.Equal(t, 1, nt.TierCap(2))
	assert.Equal(t, 3, nt.TierCap(4))
	assert.Equal(t, 4, nt.TierCap(9), "deep bands cap at MaxTier")
}

func TestNodeTypesAt(t *testing.T) {
	c := catalog.Default()

	assert.Empty(t, c.NodeTypesAt(0), "the hub band holds no gathering nodes")

	band1 := c.NodeTypesAt(1)
	for _, nt := range band1 {
		assert.LessOrEqual(t, nt.MinDistance, 1)
	}
	assert.Less(t, len(band1), len(c.NodeTypesAt(3)), "deeper bands unlock more types")
}

func TestSkillsAreDistinctAndOrdered(t *testing.T) {
	c := &catalog.Catalog{
		NodeTypes: []catalog.NodeType{
			{ID: "a", Skill: "mining", MinDistance: 1, MaxTier: 1, Names: []string{"A"}},
			{ID: "b", Skill: "logging", MinDistance: 1, MaxTier: 1, Names: []string{"B"}},
			{ID: "c", Skill: "mining", MinDistance: 1, MaxTier: 1, Names: []string{"C"}},
		},
		GuildHallNames: []string{"G"},
		MobCampNames:   []string{"M"},
		AreaAdjectives: []string{"X"},
		AreaNouns:      []string{"Y"},
	}
	assert.Equal(t, []string{"mining", "logging"}, c.Skills())
}
