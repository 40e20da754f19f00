// Package sim drives unattended simulation batches: it hands a policy an
// observation of the world, applies the decision the policy returns, and
// keeps doing that until the session budget runs out or the policy stops.
// One batch is one world and a fixed number of consecutive sessions; player
// knowledge and roll history carry across the sessions, so later records
// show the compounding value of earlier discoveries.
package sim

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/frontier/internal/scripting"
)

// ErrUnknownAction means a policy returned an action the runner cannot apply.
var ErrUnknownAction = errors.New("policy returned an unknown action")

// Reasons a session can end.
const (
	// StopPolicy means the policy returned a stop decision.
	StopPolicy = "policy"
	// StopExhausted means the session budget ran out.
	StopExhausted = "exhausted"
	// StopError means the policy errored or made an invalid move.
	StopError = "error"
)

// Decider picks the next action for one observation. Both built-in policies
// and sandboxed Lua scripts satisfy it.
type Decider interface {
	// Name identifies the policy in records and replay headers.
	Name() string
	// Decide returns the next action. An error ends the session.
	Decide(obs scripting.Observation) (scripting.Decision, error)
}

// RunRecord summarizes one completed session. Records are what the batch
// runner hands to storage and what the report table is printed from.
type RunRecord struct {
	// ID is the record's own identity; BatchID groups the records of one
	// batch. SessionIndex orders them within it, starting at 0.
	ID           uuid.UUID
	BatchID      uuid.UUID
	SessionIndex int

	// Seed, Policy and Budget restate the batch parameters so a record is
	// interpretable on its own.
	Seed   string
	Policy string
	Budget float64

	// TicksUsed is the session clock at the end; Steps counts the actions
	// the session attempted.
	TicksUsed float64
	Steps     int

	// Discovery deltas for this session alone.
	AreasFound       int
	LocationsFound   int
	ConnectionsFound int
	BonusesEarned    int

	// Luck over this session's rolls alone.
	LuckZ          float64
	LuckPercentile float64
	LuckVerdict    string

	// StopReason is one of StopPolicy, StopExhausted or StopError.
	StopReason string

	// CreatedAt is assigned by storage on insert; zero until then.
	CreatedAt time.Time
}
