package world

import "fmt"

// BandCount returns the number of areas in a distance band. The hub band
// holds exactly one area; outer bands grow 5, 8, 13, 21, 34, ... with each
// count the sum of the previous two, so the world widens without bound.
func BandCount(distance int) int {
	if distance < 0 {
		panic(fmt.Sprintf("world: BandCount(%d) negative distance", distance))
	}
	if distance == 0 {
		return 1
	}
	a, b := 5, 8
	for d := 1; d < distance; d++ {
		a, b = b, a+b
	}
	return a
}
