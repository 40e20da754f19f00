package discovery

import "math"

// The chance and interval formulas are part of the game's math contract:
// changing any constant here changes every world's history. They are
// compile-time constants rather than configuration for exactly that reason.
const (
	// surveyBaseChance is the per-attempt success chance for a level-1
	// surveyor working the first band with no adjacency help.
	surveyBaseChance = 0.05
	// exploreBaseChance is the per-attempt success chance for a level-1
	// surveyor exploring the hub.
	exploreBaseChance = 0.10
	// levelStep is the chance gained per surveying level above 1.
	levelStep = 0.01
	// distanceStep is the chance lost per band of depth.
	distanceStep = 0.02
	// adjacencyBonus is the chance gained per known area adjacent to the
	// survey candidate set.
	adjacencyBonus = 0.05
	// minChance and maxChance clamp every per-attempt chance: no attempt is
	// ever hopeless or certain.
	minChance = 0.01
	maxChance = 0.95
)

// Explore pick weights.
const (
	// weightLocation is the base weight of an undiscovered location.
	weightLocation = 1.0
	// weightHardLocation replaces it when the player's skill is below the
	// node's tier; hard finds hide better.
	weightHardLocation = 0.15
	// weightConnKnown is the weight of an undiscovered connection to an
	// already-known area.
	weightConnKnown = 1.5
	// weightConnUnknown is the weight of an undiscovered connection leading
	// somewhere entirely new.
	weightConnUnknown = 0.4
)

// surveyBandDecay halves a survey candidate's pick weight per band beyond
// the nearest candidate band.
const surveyBandDecay = 0.5

// clampChance bounds a per-attempt chance to [minChance, maxChance].
func clampChance(c float64) float64 {
	if c < minChance {
		return minChance
	}
	if c > maxChance {
		return maxChance
	}
	return c
}

// surveyChance computes the per-attempt chance of a survey find.
//
// level is the player's surveying level, nearestBand the lowest distance
// among candidates, knownAdjacent the number of distinct known areas with a
// connection into the candidate set.
func surveyChance(level, nearestBand, knownAdjacent int) float64 {
	c := surveyBaseChance +
		levelStep*float64(level-1) -
		distanceStep*float64(nearestBand-1) +
		adjacencyBonus*float64(knownAdjacent)
	return clampChance(c)
}

// exploreChance computes the per-attempt chance of an explore find in an
// area at the given distance band.
func exploreChance(level, distance int) float64 {
	c := exploreBaseChance +
		levelStep*float64(level-1) -
		distanceStep*float64(distance)
	return clampChance(c)
}

// rollInterval returns the ticks between attempts for a surveying level:
// 2.8 at level 1, tightening by a tenth per level to a floor of 1.0.
// Computed over tenths so round levels produce exact tick values.
func rollInterval(level int) float64 {
	return math.Max(1.0, float64(29-level)/10.0)
}
