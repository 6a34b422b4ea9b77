// internal/game/types.go
//
// Core type definitions for the spelling round engine.
// Defines:
//   - Outcome: result of a spelling check.
//   - Result:  outcome plus points earned.
//   - Round:   state for a single in-progress or completed round.
//   - State:   immutable snapshot of a Round handed to views.

package game

import "github.com/google/uuid"

// Outcome is the result of CheckSpelling.
// Possible values:
//   - "correct":         input matched the target; round completed with points.
//   - "retry":           mismatch, attempts remain.
//   - "out_of_attempts": mismatch on the last attempt; round completed without points.
//   - "locked":          round already completed; nothing changed.
type Outcome string

const (
	OutcomeCorrect       Outcome = "correct"
	OutcomeRetry         Outcome = "retry"
	OutcomeOutOfAttempts Outcome = "out_of_attempts"
	OutcomeLocked        Outcome = "locked"
)

// Completes reports whether the outcome ended the round.
func (o Outcome) Completes() bool {
	return o == OutcomeCorrect || o == OutcomeOutOfAttempts
}

// Result is returned by CheckSpelling.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Points  int     `json:"points"` // non-zero only for OutcomeCorrect
	Attempt int     `json:"attempt"`
}

// Status is the coarse round state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Round holds the state of a single spelling round.
type Round struct {
	ID          uuid.UUID // Regenerated on every new word.
	Word        string    // Raw target word as supplied by the word source.
	Target      []string  // Segmented target units.
	Input       []string  // Units tapped so far; never longer than Target.
	Grid        []string  // Shuffled letters on screen.
	Attempts    int       // Spelling checks made this round.
	MaxAttempts int       // Checks allowed before the round is lost.
	Completed   bool      // Set exactly once per round.
	Won         bool      // True if completed by a correct check.
}

// State is a read-only copy of a Round.
type State struct {
	ID                string   `json:"id"`
	Word              string   `json:"word"`
	Target            []string `json:"target"`
	Input             []string `json:"input"`
	Grid              []string `json:"grid"`
	Attempts          int      `json:"attempts"`
	MaxAttempts       int      `json:"maxAttempts"`
	AttemptsRemaining int      `json:"attemptsRemaining"`
	CurrentAttempt    int      `json:"currentAttempt"`
	Status            Status   `json:"status"`
	Completed         bool     `json:"completed"`
	Won               bool     `json:"won"`
}
