package catalog

// Default returns the built-in catalog used by tests and zero-config runs.
// Content files on disk (configs/catalog.yaml) take precedence when provided.
func Default() *Catalog {
	return &Catalog{
		NodeTypes: []NodeType{
			{
				ID:          "copper-vein",
				Skill:       "mining",
				MinDistance: 1,
				MaxTier:     3,
				MinPerBand:  2,
				Names: []string{
					"Copper Vein",
					"Weathered Copper Seam",
					"Green-Streaked Outcrop",
					"Shallow Copper Pit",
				},
			},
			{
				ID:          "iron-lode",
				Skill:       "mining",
				MinDistance: 2,
				MaxTier:     4,
				MinPerBand:  1,
				Names: []string{
					"Iron Lode",
					"Rust-Stained Scarp",
					"Magnetite Shelf",
				},
			},
			{
				ID:          "timber-stand",
				Skill:       "logging",
				MinDistance: 1,
				MaxTier:     3,
				MinPerBand:  2,
				Names: []string{
					"Timber Stand",
					"Old-Growth Grove",
					"Windfall Thicket",
					"Straight-Bole Pines",
				},
			},
			{
				ID:          "herb-patch",
				Skill:       "herbalism",
				MinDistance: 1,
				MaxTier:     3,
				MinPerBand:  1,
				Names: []string{
					"Herb Patch",
					"Mossy Hollow",
					"Feverleaf Clearing",
				},
			},
			{
				ID:          "crystal-seam",
				Skill:       "prospecting",
				MinDistance: 3,
				MaxTier:     5,
				MinPerBand:  1,
				Names: []string{
					"Crystal Seam",
					"Glimmering Fissure",
					"Geode Cluster",
				},
			},
		},
		GuildHallNames: []string{
			"Surveyors' Lodge",
			"Wayfarers' Guildhall",
			"Prospectors' Commons",
			"Cartographers' Annex",
		},
		MobCampNames: []string{
			"Bandit Camp",
			"Wolf Den",
			"Raider Bivouac",
			"Harpy Roost",
			"Troll Warren",
		},
		AreaAdjectives: []string{
			"Ashen", "Bramble", "Cinder", "Dun", "Fallow", "Gloaming",
			"Hollow", "Iron", "Juniper", "Keening", "Lichen", "Misty",
			"Pale", "Quiet", "Ragged", "Silent", "Thorn", "Umber",
			"Verdant", "Windswept",
		},
		AreaNouns: []string{
			"Barrens", "Bluffs", "Copse", "Dale", "Expanse", "Fells",
			"Gorge", "Heath", "Knolls", "Lowlands", "Marsh", "Moor",
			"Pines", "Ridge", "Scrubland", "Tangle", "Uplands", "Vale",
			"Wash", "Weald",
		},
	}
}
