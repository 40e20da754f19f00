// Package session tracks the tick budget of a single simulated play session.
// Knowledge persists across sessions; time does not.
package session

import (
	"errors"
	"fmt"
)

// ErrBudgetExceeded is returned by Spend when a charge would overdraw the
// session's remaining ticks. Callers check affordability before committing to
// multi-tick actions; hitting this mid-action indicates a bookkeeping bug
// upstream.
var ErrBudgetExceeded = errors.New("session tick budget exceeded")

// epsilon absorbs float accumulation drift when intervals like 1.9 are spent
// repeatedly against a round budget.
const epsilon = 1e-9

// Session is a fixed budget of simulated ticks. Elapsed grows monotonically;
// a Session is never reset or refunded. Worlds start a fresh one per
// simulated day.
type Session struct {
	budget  float64
	elapsed float64
}

// New creates a session with the given tick budget.
//
// Precondition: budget must be positive.
func New(budget float64) *Session {
	if budget <= 0 {
		panic(fmt.Sprintf("session: New called with non-positive budget %v", budget))
	}
	return &Session{budget: budget}
}

// Budget returns the total tick budget.
func (s *Session) Budget() float64 { return s.budget }

// Elapsed returns the ticks spent so far.
func (s *Session) Elapsed() float64 { return s.elapsed }

// Remaining returns the ticks left to spend.
func (s *Session) Remaining() float64 { return s.budget - s.elapsed }

// CanAfford reports whether t ticks fit in the remaining budget.
func (s *Session) CanAfford(t float64) bool {
	return t <= s.Remaining()+epsilon
}

// Spend charges t ticks against the budget.
//
// Precondition: t must be non-negative; negative charges panic.
// Postcondition: Elapsed has grown by exactly t, or ErrBudgetExceeded is
// returned and the session is unchanged.
func (s *Session) Spend(t float64) error {
	if t < 0 {
		panic(fmt.Sprintf("session: Spend called with negative ticks %v", t))
	}
	if !s.CanAfford(t) {
		return fmt.Errorf("spending %.2f with %.2f remaining: %w", t, s.Remaining(), ErrBudgetExceeded)
	}
	s.elapsed += t
	if s.elapsed > s.budget {
		s.elapsed = s.budget
	}
	return nil
}
