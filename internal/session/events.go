package session

import "github.com/robalobadob/alphabet-game/internal/words"

// EventKind names a committed session transition.
type EventKind string

const (
	// EventRoundStarted fires when a word/alphabet pair was applied and a fresh round began.
	EventRoundStarted EventKind = "round_started"
	// EventStateChanged fires when input or attempts changed without ending the round.
	EventStateChanged EventKind = "state_changed"
	// EventRoundCompletedCorrectly fires once per round on a correct check, after the score update.
	EventRoundCompletedCorrectly EventKind = "round_completed_correctly"
	// EventRoundFailed fires when the last attempt was used up.
	EventRoundFailed EventKind = "round_failed"
	// EventLanguageChanged fires when the active language was replaced.
	EventLanguageChanged EventKind = "language_changed"
	// EventWordNeeded tells the data layer to fetch an alphabet and word for Event.Language.
	EventWordNeeded EventKind = "word_needed"
)

// Event is delivered to subscribers after the mutation it describes is committed.
type Event struct {
	Kind     EventKind      `json:"kind"`
	Language words.Language `json:"language"`
	Points   int            `json:"points,omitempty"` // set on EventRoundCompletedCorrectly
	View     View           `json:"view"`
}

// Listener receives session events. It runs synchronously on the mutating call.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Subscribe registers fn for every subsequent event and returns a function that removes it.
func (s *Session) Subscribe(fn Listener) (unsubscribe func()) {
	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// emit notifies subscribers in subscription order.
// The list is copied so listeners may unsubscribe while being notified.
func (s *Session) emit(kind EventKind, points int) {
	if len(s.subs) == 0 {
		return
	}
	ev := Event{Kind: kind, Language: s.lang, Points: points, View: s.Snapshot()}
	subs := append([]subscription(nil), s.subs...)
	for _, sub := range subs {
		sub.fn(ev)
	}
}
