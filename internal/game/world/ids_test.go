package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/frontier/internal/game/world"
)

func TestAreaIDRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := rapid.IntRange(0, 50).Draw(t, "distance")
		i := rapid.IntRange(0, 10000).Draw(t, "index")
		id := world.NewAreaID(d, i)
		pd, pi, err := world.ParseAreaID(id)
		if err != nil {
			t.Fatalf("round trip failed for %s: %v", id, err)
		}
		if pd != d || pi != i {
			t.Fatalf("round trip %s: got (%d, %d), want (%d, %d)", id, pd, pi, d, i)
		}
	})
}

func TestParseAreaIDRejectsMalformed(t *testing.T) {
	for _, bad := range []world.AreaID{"", "a", "a1", "a1-", "x1-2", "a1-2x", "a01-2", "a1--2", "1-2"} {
		_, _, err := world.ParseAreaID(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestHubID(t *testing.T) {
	d, i, err := world.ParseAreaID(world.HubID)
	require.NoError(t, err)
	assert.Zero(t, d)
	assert.Zero(t, i)
}

func TestNewAreaIDPanicsOnNegative(t *testing.T) {
	require.Panics(t, func() { world.NewAreaID(-1, 0) })
	require.Panics(t, func() { world.NewAreaID(0, -1) })
}

func TestLocationID(t *testing.T) {
	id := world.NewLocationID("a2-3", 4)
	assert.Equal(t, world.LocationID("a2-3.L4"), id)
	assert.Equal(t, world.AreaID("a2-3"), id.Area())

	require.Panics(t, func() { world.NewLocationID("a2-3", 0) })
}

func TestConnectionIDIsCanonical(t *testing.T) {
	ab := world.NewConnectionID("a0-0", "a1-2")
	ba := world.NewConnectionID("a1-2", "a0-0")
	assert.Equal(t, ab, ba)
	assert.Equal(t, world.ConnectionID("c:a0-0|a1-2"), ab)

	low, high := ab.Endpoints()
	assert.Equal(t, world.AreaID("a0-0"), low)
	assert.Equal(t, world.AreaID("a1-2"), high)
}

func TestConnectionIDRejectsSelfConnection(t *testing.T) {
	require.Panics(t, func() { world.NewConnectionID("a1-1", "a1-1") })
}
