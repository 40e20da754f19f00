package world

import (
	"fmt"
	"strings"
)

// AreaID identifies an area as "a<distance>-<index>", where distance is the
// band the area sits in and index is its position within the band.
type AreaID string

// HubID is the single area of band 0, where every player starts.
const HubID = AreaID("a0-0")

// NewAreaID builds the canonical ID for a band position.
//
// Precondition: distance and index must be non-negative.
func NewAreaID(distance, index int) AreaID {
	if distance < 0 || index < 0 {
		panic(fmt.Sprintf("world: NewAreaID(%d, %d) out of range", distance, index))
	}
	return AreaID(fmt.Sprintf("a%d-%d", distance, index))
}

// ParseAreaID extracts the band position from an area ID.
//
// Postcondition: Returns (distance, index, nil) for a canonical ID, or an
// error for anything else.
func ParseAreaID(id AreaID) (distance, index int, err error) {
	var d, i int
	if _, err := fmt.Sscanf(string(id), "a%d-%d", &d, &i); err != nil {
		return 0, 0, fmt.Errorf("malformed area ID %q: %w", id, err)
	}
	if d < 0 || i < 0 || NewAreaID(d, i) != id {
		return 0, 0, fmt.Errorf("malformed area ID %q", id)
	}
	return d, i, nil
}

// LocationID identifies a location as "<areaID>.L<n>", with n starting at 1
// in generation order.
type LocationID string

// NewLocationID builds the canonical ID for the n-th location of an area.
//
// Precondition: n must be >= 1.
func NewLocationID(area AreaID, n int) LocationID {
	if n < 1 {
		panic(fmt.Sprintf("world: NewLocationID(%s, %d) out of range", area, n))
	}
	return LocationID(fmt.Sprintf("%s.L%d", area, n))
}

// Area returns the ID of the area the location belongs to.
func (id LocationID) Area() AreaID {
	if i := strings.LastIndex(string(id), "."); i >= 0 {
		return AreaID(id[:i])
	}
	return AreaID(id)
}

// ConnectionID identifies a connection as "c:<low>|<high>" with the endpoint
// IDs in lexicographic order, so both directions name the same connection.
type ConnectionID string

// NewConnectionID builds the canonical unordered ID for an area pair.
//
// Precondition: a and b must differ; the world has no self-connections.
func NewConnectionID(a, b AreaID) ConnectionID {
	if a == b {
		panic(fmt.Sprintf("world: NewConnectionID(%s, %s) self-connection", a, b))
	}
	if b < a {
		a, b = b, a
	}
	return ConnectionID(fmt.Sprintf("c:%s|%s", a, b))
}

// Endpoints returns the two area IDs the connection joins, low first.
func (id ConnectionID) Endpoints() (AreaID, AreaID) {
	s := strings.TrimPrefix(string(id), "c:")
	parts := strings.SplitN(s, "|", 2)
	if len(parts) != 2 {
		panic(fmt.Sprintf("world: malformed connection ID %q", id))
	}
	return AreaID(parts[0]), AreaID(parts[1])
}
