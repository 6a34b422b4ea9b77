// internal/results/store.go
//
// Persisted round results and the per-language leaderboard.
//
// One row per finished round (won or out of attempts). Rows are keyed by the
// round ID, so re-recording the same round is a no-op. The leaderboard ranks
// players by the best running session score they reached.

package results

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DefaultLimit is used by Leaderboard and History when limit <= 0.
const DefaultLimit = 20

// Result is one finished round.
type Result struct {
	RoundID      string    `json:"roundId"`
	SessionID    string    `json:"sessionId"`
	UserID       string    `json:"userId,omitempty"`
	AnonymousID  string    `json:"-"`
	LanguageID   int64     `json:"languageId"`
	Word         string    `json:"word"`
	Attempts     int       `json:"attempts"`
	Points       int       `json:"points"`
	Won          bool      `json:"won"`
	SessionScore int       `json:"sessionScore"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store reads and writes the results table.
type Store struct{ db *sql.DB }

// NewStore wraps an open catalog database.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// InsertResult records r; a round already recorded is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO results(round_id, session_id, user_id, anonymous_id, language_id,
		                               word, attempts, points, won, session_score)
		 VALUES(?,?,?,?,?,?,?,?,?,?)`,
		r.RoundID, r.SessionID, nullable(r.UserID), nullable(r.AnonymousID), r.LanguageID,
		r.Word, r.Attempts, r.Points, r.Won, r.SessionScore,
	)
	if err != nil {
		return fmt.Errorf("insert result %s: %w", r.RoundID, err)
	}
	return nil
}

// ClaimAnonymous moves an anonymous player's results to a user account.
func (s *Store) ClaimAnonymous(ctx context.Context, anonID, userID string) (int64, error) {
	if anonID == "" || userID == "" {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE results SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	if err != nil {
		return 0, fmt.Errorf("claim results: %w", err)
	}
	return res.RowsAffected()
}

// History lists a user's most recent results, newest first.
func (s *Store) History(ctx context.Context, userID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT round_id, session_id, COALESCE(user_id,''), language_id, word,
		        attempts, points, won, session_score, created_at
		 FROM results
		 WHERE user_id=?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var r Result
		var created string
		if err := rows.Scan(&r.RoundID, &r.SessionID, &r.UserID, &r.LanguageID, &r.Word,
			&r.Attempts, &r.Points, &r.Won, &r.SessionScore, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// LBRow is one leaderboard line. Player is the user ID or the anonymous ID.
type LBRow struct {
	Player    string `json:"player"`
	Username  string `json:"username,omitempty"`
	BestScore int    `json:"bestScore"`
	Rounds    int    `json:"rounds"`
	Wins      int    `json:"wins"`
}

// Leaderboard ranks players by their best session score.
// languageID 0 ranks across all languages.
func (s *Store) Leaderboard(ctx context.Context, languageID int64, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(r.user_id, r.anonymous_id) AS player,
		        COALESCE(MAX(u.username), '')       AS username,
		        MAX(r.session_score)                AS best,
		        COUNT(*)                            AS rounds,
		        SUM(r.won)                          AS wins
		 FROM results r
		 LEFT JOIN users u ON u.id = r.user_id
		 WHERE (?1 = 0 OR r.language_id = ?1)
		   AND COALESCE(r.user_id, r.anonymous_id) IS NOT NULL
		 GROUP BY player
		 ORDER BY best DESC, wins DESC, player ASC
		 LIMIT ?2`, languageID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Player, &r.Username, &r.BestScore, &r.Rounds, &r.Wins); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
