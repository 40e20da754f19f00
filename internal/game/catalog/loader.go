package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlCatalogFile is the top-level YAML structure for catalog files.
type yamlCatalogFile struct {
	Catalog yamlCatalog `yaml:"catalog"`
}

// yamlCatalog is the YAML representation of a catalog.
type yamlCatalog struct {
	NodeTypes  []yamlNodeType `yaml:"node_types"`
	GuildHalls []string       `yaml:"guild_halls"`
	MobCamps   []string       `yaml:"mob_camps"`
	AreaNames  yamlAreaNames  `yaml:"area_names"`
}

// yamlNodeType is the YAML representation of a gathering node type.
type yamlNodeType struct {
	ID          string   `yaml:"id"`
	Skill       string   `yaml:"skill"`
	MinDistance int      `yaml:"min_distance"`
	MaxTier     int      `yaml:"max_tier"`
	MinPerBand  int      `yaml:"min_per_band"`
	Names       []string `yaml:"names"`
}

// yamlAreaNames holds the word pools areas are named from.
type yamlAreaNames struct {
	Adjectives []string `yaml:"adjectives"`
	Nouns      []string `yaml:"nouns"`
}

// LoadFromFile reads and validates a catalog YAML file.
//
// Precondition: path must point to a valid YAML catalog file.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates a catalog from YAML bytes.
//
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadFromBytes(data []byte) (*Catalog, error) {
	var file yamlCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}

	c := convertYAMLCatalog(file.Catalog)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}

	return c, nil
}

// convertYAMLCatalog converts the parsed YAML structures into domain types.
func convertYAMLCatalog(yc yamlCatalog) *Catalog {
	c := &Catalog{
		GuildHallNames: yc.GuildHalls,
		MobCampNames:   yc.MobCamps,
		AreaAdjectives: yc.AreaNames.Adjectives,
		AreaNouns:      yc.AreaNames.Nouns,
	}
	for _, ynt := range yc.NodeTypes {
		c.NodeTypes = append(c.NodeTypes, NodeType{
			ID:          ynt.ID,
			Skill:       ynt.Skill,
			MinDistance: ynt.MinDistance,
			MaxTier:     ynt.MaxTier,
			MinPerBand:  ynt.MinPerBand,
			Names:       ynt.Names,
		})
	}
	return c
}
