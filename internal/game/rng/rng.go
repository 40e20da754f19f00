// Package rng provides the deterministic randomness core for the Frontier
// discovery engine.
//
// A State is a (seed, stream, counter) triple. Drawing a value hashes the
// triple plus a caller-supplied label and advances the counter by exactly one.
// Two states with identical seed, stream, and counter produce bit-identical
// draw sequences, which is the foundation of world replay: the engine never
// reads wall-clock time or external entropy.
package rng

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// rootStream is the stream label assigned to a freshly created State.
const rootStream = "root"

// State is a deterministic, counter-based random source.
//
// Invariant: identical (seed, stream, counter) states yield identical
// subsequent draws. Every draw consumes the counter; no draw may be skipped,
// reordered, or retried without consuming it.
type State struct {
	seed    string
	stream  string
	counter uint64
	key     [32]byte
	logger  *zap.Logger
}

// New creates the root State for the given seed string.
//
// Precondition: seed must be non-empty.
// Postcondition: Returns a State at counter 0 on the root stream.
func New(seed string) *State {
	if seed == "" {
		panic("rng: New called with empty seed")
	}
	return &State{
		seed:   seed,
		stream: rootStream,
		key:    blake2b.Sum256([]byte(seed)),
	}
}

// Restore reconstructs a State from previously recorded seed, stream, and
// counter values. Collaborators that persist world models use this to resume
// a run at the exact point it stopped.
//
// Precondition: seed must be non-empty; stream must come from a prior State.
func Restore(seed, stream string, counter uint64) *State {
	s := New(seed)
	s.stream = stream
	s.counter = counter
	return s
}

// WithLogger attaches a logger that records every draw at debug level and
// returns the receiver. Forked and derived states inherit the logger.
func (s *State) WithLogger(logger *zap.Logger) *State {
	s.logger = logger
	return s
}

// Seed returns the seed string the state was created from.
func (s *State) Seed() string { return s.seed }

// Stream returns the stream label.
func (s *State) Stream() string { return s.stream }

// Counter returns the number of draws consumed so far on this stream.
func (s *State) Counter() uint64 { return s.counter }

// Fork returns an independent copy of the state. Draws on the fork diverge
// from this point without advancing the original's counter. Shadow rolls
// (previews) must operate exclusively on forks.
//
// Postcondition: fork.Counter() == s.Counter() and both produce identical
// draws until one of them is advanced.
func (s *State) Fork() *State {
	cp := *s
	return &cp
}

// Derived returns a child stream at counter 0. Derived streams decouple
// static content (area interiors, connection multipliers, band plans) from
// the live action counter, so generated content does not depend on the order
// in which the world is touched.
//
// Precondition: label must be non-empty.
func (s *State) Derived(label string) *State {
	if label == "" {
		panic("rng: Derived called with empty label")
	}
	cp := *s
	cp.stream = s.stream + "/" + label
	cp.counter = 0
	return &cp
}

// Draw returns the next value in [0, 1) and advances the counter.
//
// The label tags the draw for later statistical grouping (see the luck
// package) and is mixed into the hash, so replays must present the same
// label sequence. They do by construction, since the label is fixed per
// call site.
//
// Precondition: label must be non-empty.
func (s *State) Draw(label string) float64 {
	if label == "" {
		panic("rng: Draw called with empty label")
	}

	h, err := blake2b.New256(s.key[:])
	if err != nil {
		panic("rng: blake2b init failure: " + err.Error())
	}
	var ctr [8]byte
	binary.LittleEndian.PutUint64(ctr[:], s.counter)
	h.Write([]byte(s.stream))
	h.Write([]byte{'\n'})
	h.Write([]byte(label))
	h.Write([]byte{'\n'})
	h.Write(ctr[:])

	sum := h.Sum(nil)
	v := float64(binary.LittleEndian.Uint64(sum[:8])>>11) / (1 << 53)
	s.counter++

	if s.logger != nil {
		s.logger.Debug("rng draw",
			zap.String("stream", s.stream),
			zap.String("label", label),
			zap.Uint64("counter", s.counter-1),
			zap.Float64("value", v),
		)
	}
	return v
}

// Intn returns a value in [0, n), consuming one draw.
//
// Precondition: n > 0. Panics with "rng: Intn called with n <= 0" otherwise.
func (s *State) Intn(label string, n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	return int(s.Draw(label) * float64(n))
}

// WeightedIndex picks an index with probability proportional to its weight,
// consuming one draw. Non-positive weights are never selected.
//
// Precondition: weights must contain at least one positive entry. Panics
// otherwise, since a caller offering nothing to pick is a programming error.
// Postcondition: the returned index satisfies weights[i] > 0.
func (s *State) WeightedIndex(label string, weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		panic(fmt.Sprintf("rng: WeightedIndex requires a positive total weight, got %v", weights))
	}

	target := s.Draw(label) * total
	var cum float64
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cum += w
		last = i
		if target < cum {
			return i
		}
	}
	// Floating-point accumulation can leave target a hair past cum.
	return last
}
