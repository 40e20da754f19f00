package replay_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/frontier/internal/replay"
)

func testHeader() replay.Header {
	return replay.Header{
		RunID:    "4492b8b2-3f71-4a3e-9f6a-0a2a8f9f2d11",
		Seed:     "test-seed",
		Policy:   "frontier.lua",
		Sessions: 3,
		Budget:   100,
		Created:  time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestWriteAndRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	h := testHeader()

	w, err := replay.Create(dir, h)
	require.NoError(t, err)

	steps := []replay.Step{
		{Session: 0, Step: 0, Action: "survey", Area: "a0-0", Success: true, Ticks: 26, Elapsed: 26, Found: "a1-2", FoundKind: "area"},
		{Session: 0, Step: 1, Action: "travel", Target: "a1-2", Area: "a1-2", Success: true, Ticks: 30, Elapsed: 56},
		{Session: 0, Step: 2, Action: "explore", Area: "a1-2", Success: false, Ticks: 44, Elapsed: 100},
	}
	for _, s := range steps {
		require.NoError(t, w.WriteStep(s))
	}
	require.NoError(t, w.Close())

	gotHeader, gotSteps, err := replay.Read(w.Path())
	require.NoError(t, err)
	assert.Equal(t, h.RunID, gotHeader.RunID)
	assert.Equal(t, h.Seed, gotHeader.Seed)
	assert.Equal(t, h.Policy, gotHeader.Policy)
	assert.Equal(t, h.Sessions, gotHeader.Sessions)
	assert.Equal(t, h.Budget, gotHeader.Budget)
	assert.True(t, h.Created.Equal(gotHeader.Created), "created timestamp must survive the round trip")
	assert.Equal(t, steps, gotSteps)
}

func TestCreate_MakesNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "replays", "nested")
	w, err := replay.Create(dir, testHeader())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, filepath.Join(dir, testHeader().RunID+".jsonl.zst"), w.Path())
	_, err = os.Stat(w.Path())
	assert.NoError(t, err)
}

func TestCreate_EmptyRunID_Panics(t *testing.T) {
	assert.Panics(t, func() {
		replay.Create(t.TempDir(), replay.Header{}) //nolint:errcheck
	})
}

func TestRead_FileNotFound(t *testing.T) {
	_, _, err := replay.Read(filepath.Join(t.TempDir(), "missing.jsonl.zst"))
	assert.Error(t, err)
}

func TestRead_EmptyFile_MissingHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jsonl.zst")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	_, _, err = replay.Read(path)
	assert.ErrorIs(t, err, replay.ErrMissingHeader)
}

func TestRead_CorruptStepLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.jsonl.zst")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = enc.Write([]byte(`{"run_id":"r1","seed":"s","policy":"p","sessions":1,"budget":10,"created":"2026-03-14T09:00:00Z"}` + "\n"))
	require.NoError(t, err)
	_, err = enc.Write([]byte("not json\n"))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	_, _, err = replay.Read(path)
	assert.Error(t, err)
}

func TestWriteAndRead_NoSteps(t *testing.T) {
	w, err := replay.Create(t.TempDir(), testHeader())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	h, steps, err := replay.Read(w.Path())
	require.NoError(t, err)
	assert.Equal(t, testHeader().RunID, h.RunID)
	assert.Empty(t, steps)
}

func TestProperty_StepOrderPreserved(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 50).Draw(rt, "steps")
		h := testHeader()
		h.RunID = fmt.Sprintf("run-%d", n)

		w, err := replay.Create(t.TempDir(), h)
		require.NoError(rt, err)
		for i := 0; i < n; i++ {
			require.NoError(rt, w.WriteStep(replay.Step{
				Step:   i,
				Action: rapid.SampledFrom([]string{"survey", "explore", "travel"}).Draw(rt, "action"),
				Area:   "a0-0",
				Ticks:  rapid.Float64Range(0, 100).Draw(rt, "ticks"),
			}))
		}
		require.NoError(rt, w.Close())

		_, steps, err := replay.Read(w.Path())
		require.NoError(rt, err)
		require.Len(rt, steps, n)
		for i, s := range steps {
			assert.Equal(rt, i, s.Step, "step order must be preserved")
		}
	})
}
