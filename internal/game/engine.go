// internal/game/engine.go
//
// Round engine for the spelling game.
// Responsibilities:
//   - Create rounds from a segmented target and a prepared grid.
//   - Accumulate tapped units, bounded by the target length.
//   - Check spelling, count attempts, award points with a speed bonus.
//   - Track state transitions: active → completed (won or lost).
//
// Notes:
//   - Out-of-contract calls (typing into a finished round, backspace on empty
//     input, checking a finished round) are silent no-ops. They come from UI
//     timing races, not programmer error.
//   - A completed round never reopens; ResetForNextWord starts a fresh one.
package game

import (
	"slices"

	"github.com/google/uuid"
)

const (
	DefaultMaxAttempts = 5

	firstTryBonus  = 10
	bonusDecrement = 2
)

// New constructs an active round.
// maxAttempts <= 0 selects DefaultMaxAttempts.
func New(word string, target, grid []string, maxAttempts int) *Round {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	r := &Round{MaxAttempts: maxAttempts}
	r.ResetForNextWord(word, target, grid)
	return r
}

// AddLetter appends unit to the input.
// Returns false (and changes nothing) if the round is completed or the input is full.
func (r *Round) AddLetter(unit string) bool {
	if r.Completed || len(r.Input) >= len(r.Target) {
		return false
	}
	r.Input = append(r.Input, unit)
	return true
}

// RemoveLastLetter drops the last whole unit from the input.
// Returns false if there was nothing to remove.
func (r *Round) RemoveLastLetter() bool {
	if len(r.Input) == 0 {
		return false
	}
	r.Input = r.Input[:len(r.Input)-1]
	return true
}

// CheckSpelling compares the input with the target and scores the attempt.
//
// Scoring on a correct check:
//   - base  = number of target units
//   - bonus = 10 on the first attempt, then 10 - 2*(attempts-1), floored at 0
//
// A mismatch on the last allowed attempt completes the round with no points.
func (r *Round) CheckSpelling() Result {
	if r.Completed {
		return Result{Outcome: OutcomeLocked, Attempt: r.Attempts}
	}
	r.Attempts++

	if slices.Equal(r.Input, r.Target) {
		r.Completed, r.Won = true, true
		return Result{Outcome: OutcomeCorrect, Points: points(len(r.Target), r.Attempts), Attempt: r.Attempts}
	}
	if r.Attempts >= r.MaxAttempts {
		r.Completed = true
		return Result{Outcome: OutcomeOutOfAttempts, Attempt: r.Attempts}
	}
	return Result{Outcome: OutcomeRetry, Attempt: r.Attempts}
}

// points computes base + speed bonus for a correct check on the given attempt.
func points(base, attempt int) int {
	bonus := firstTryBonus
	if attempt > 1 {
		bonus = max(0, firstTryBonus-(attempt-1)*bonusDecrement)
	}
	return base + bonus
}

// ResetForNextWord replaces the target and grid and reopens the round.
// The round gets a new ID; input, attempts and completion are cleared.
func (r *Round) ResetForNextWord(word string, target, grid []string) {
	r.ID = uuid.New()
	r.Word = word
	r.Target = slices.Clone(target)
	r.Grid = slices.Clone(grid)
	r.Input = make([]string, 0, len(target))
	r.Attempts = 0
	r.Completed = false
	r.Won = false
}

// Status reports whether the round still accepts input.
func (r *Round) Status() Status {
	if r.Completed {
		return StatusCompleted
	}
	return StatusActive
}

// Snapshot returns a copy safe to hand to views and other goroutines.
func (r *Round) Snapshot() State {
	current := r.Attempts + 1
	if r.Completed {
		current = r.Attempts
	}
	return State{
		ID:                r.ID.String(),
		Word:              r.Word,
		Target:            slices.Clone(r.Target),
		Input:             slices.Clone(r.Input),
		Grid:              slices.Clone(r.Grid),
		Attempts:          r.Attempts,
		MaxAttempts:       r.MaxAttempts,
		AttemptsRemaining: max(0, r.MaxAttempts-r.Attempts),
		CurrentAttempt:    current,
		Status:            r.Status(),
		Completed:         r.Completed,
		Won:               r.Won,
	}
}
