package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCat() *Round {
	return New("cat", []string{"c", "a", "t"}, []string{"x", "t", "c", "a"}, 0)
}

func typeUnits(r *Round, units ...string) {
	for _, u := range units {
		r.AddLetter(u)
	}
}

func TestNewRoundInitialState(t *testing.T) {
	t.Parallel()
	r := newCat()
	s := r.Snapshot()

	assert.Equal(t, StatusActive, s.Status)
	assert.Empty(t, s.Input)
	assert.Equal(t, 0, s.Attempts)
	assert.Equal(t, 1, s.CurrentAttempt)
	assert.Equal(t, DefaultMaxAttempts, s.MaxAttempts)
	assert.Equal(t, DefaultMaxAttempts, s.AttemptsRemaining)
	assert.False(t, s.Completed)
	assert.NotEmpty(t, s.ID)
}

func TestCorrectOnFirstAttempt(t *testing.T) {
	t.Parallel()
	r := newCat()
	typeUnits(r, "c", "a", "t")

	res := r.CheckSpelling()
	assert.Equal(t, OutcomeCorrect, res.Outcome)
	assert.Equal(t, 13, res.Points)
	assert.Equal(t, 1, res.Attempt)
	assert.True(t, r.Completed)
	assert.True(t, r.Won)
	assert.Equal(t, StatusCompleted, r.Status())
}

func TestBonusDecreasesWithAttempts(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		wrong    int
		expected int
	}{
		{name: "first attempt", wrong: 0, expected: 3 + 10},
		{name: "second attempt", wrong: 1, expected: 3 + 8},
		{name: "third attempt", wrong: 2, expected: 3 + 6},
		{name: "fifth attempt", wrong: 4, expected: 3 + 2},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := newCat()
			for i := 0; i < tc.wrong; i++ {
				typeUnits(r, "x")
				require.Equal(t, OutcomeRetry, r.CheckSpelling().Outcome)
				r.RemoveLastLetter()
			}
			typeUnits(r, "c", "a", "t")
			res := r.CheckSpelling()
			assert.Equal(t, OutcomeCorrect, res.Outcome)
			assert.Equal(t, tc.expected, res.Points)
		})
	}
}

func TestPointsBonusFloorsAtZero(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 4+10, points(4, 1))
	assert.Equal(t, 4+2, points(4, 5))
	assert.Equal(t, 4, points(4, 6))
	assert.Equal(t, 4, points(4, 9))
}

func TestOutOfAttempts(t *testing.T) {
	t.Parallel()
	r := newCat()
	typeUnits(r, "t", "a", "c")

	for i := 1; i < DefaultMaxAttempts; i++ {
		res := r.CheckSpelling()
		require.Equal(t, OutcomeRetry, res.Outcome, "attempt %d", i)
		require.False(t, r.Completed)
	}
	res := r.CheckSpelling()
	assert.Equal(t, OutcomeOutOfAttempts, res.Outcome)
	assert.Zero(t, res.Points)
	assert.True(t, r.Completed)
	assert.False(t, r.Won)
	assert.Equal(t, 0, r.Snapshot().AttemptsRemaining)
}

func TestCheckSpellingAfterCompletionIsNoop(t *testing.T) {
	t.Parallel()
	r := newCat()
	typeUnits(r, "c", "a", "t")
	require.Equal(t, OutcomeCorrect, r.CheckSpelling().Outcome)

	for i := 0; i < 3; i++ {
		res := r.CheckSpelling()
		assert.Equal(t, OutcomeLocked, res.Outcome)
		assert.Zero(t, res.Points)
	}
	assert.Equal(t, 1, r.Attempts)
}

func TestEachActiveCheckCountsOnce(t *testing.T) {
	t.Parallel()
	r := New("cat", []string{"c", "a", "t"}, nil, 3)
	for want := 1; want <= 3; want++ {
		r.CheckSpelling()
		assert.Equal(t, want, r.Attempts)
	}
	r.CheckSpelling()
	assert.Equal(t, 3, r.Attempts)
}

func TestAddLetterBoundedByTarget(t *testing.T) {
	t.Parallel()
	r := newCat()
	assert.True(t, r.AddLetter("c"))
	assert.True(t, r.AddLetter("a"))
	assert.True(t, r.AddLetter("t"))
	assert.False(t, r.AddLetter("s"))
	assert.Equal(t, []string{"c", "a", "t"}, r.Input)
}

func TestAddLetterIgnoredWhenCompleted(t *testing.T) {
	t.Parallel()
	r := New("cat", []string{"c", "a", "t"}, nil, 1)
	r.CheckSpelling()
	require.True(t, r.Completed)
	assert.False(t, r.AddLetter("c"))
	assert.Empty(t, r.Input)
}

func TestRemoveLastLetterUnitWise(t *testing.T) {
	t.Parallel()
	r := New("한", []string{"ㅎ", "ㅏ", "ㄴ"}, nil, 0)
	assert.False(t, r.RemoveLastLetter())

	typeUnits(r, "ㅎ", "ㅏ")
	assert.True(t, r.RemoveLastLetter())
	assert.Equal(t, []string{"ㅎ"}, r.Input)
	assert.True(t, r.RemoveLastLetter())
	assert.Empty(t, r.Input)
	assert.False(t, r.RemoveLastLetter())
}

func TestMatchIsOrderSensitive(t *testing.T) {
	t.Parallel()
	r := newCat()
	typeUnits(r, "a", "c", "t")
	assert.Equal(t, OutcomeRetry, r.CheckSpelling().Outcome)
}

func TestPartialInputIsIncorrect(t *testing.T) {
	t.Parallel()
	r := newCat()
	typeUnits(r, "c", "a")
	assert.Equal(t, OutcomeRetry, r.CheckSpelling().Outcome)
}

func TestResetForNextWord(t *testing.T) {
	t.Parallel()
	r := newCat()
	typeUnits(r, "c", "a", "t")
	r.CheckSpelling()
	oldID := r.ID

	r.ResetForNextWord("dog", []string{"d", "o", "g"}, []string{"g", "o", "d"})
	s := r.Snapshot()
	assert.NotEqual(t, oldID.String(), s.ID)
	assert.Equal(t, "dog", s.Word)
	assert.Equal(t, []string{"d", "o", "g"}, s.Target)
	assert.Empty(t, s.Input)
	assert.Zero(t, s.Attempts)
	assert.Equal(t, 1, s.CurrentAttempt)
	assert.False(t, s.Completed)
	assert.False(t, s.Won)
	assert.Equal(t, StatusActive, s.Status)
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	t.Parallel()
	r := newCat()
	r.AddLetter("c")
	s := r.Snapshot()
	s.Input[0] = "z"
	s.Target[0] = "z"
	s.Grid[0] = "z"

	assert.Equal(t, []string{"c"}, r.Input)
	assert.Equal(t, "c", r.Target[0])
	assert.Equal(t, "x", r.Grid[0])
}

func TestOutcomeCompletes(t *testing.T) {
	t.Parallel()
	assert.True(t, OutcomeCorrect.Completes())
	assert.True(t, OutcomeOutOfAttempts.Completes())
	assert.False(t, OutcomeRetry.Completes())
	assert.False(t, OutcomeLocked.Completes())
}
