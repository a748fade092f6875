package quiz

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lox/sidepots/internal/fileutil"
	"github.com/lox/sidepots/internal/scenario"
)

// EntryKind says which question an Entry records.
type EntryKind string

const (
	EntryEligibility EntryKind = "eligibility"
	EntryRefund      EntryKind = "refund"
)

// Entry is one graded answer.
type Entry struct {
	Hand        int               `toml:"hand"`
	Kind        EntryKind         `toml:"kind"`
	Pot         string            `toml:"pot"`
	Correct     []scenario.Player `toml:"correct,omitempty"`
	Guess       []scenario.Player `toml:"guess,omitempty"`
	Amount      int               `toml:"amount"`
	GuessAmount int               `toml:"guess_amount,omitempty"`
	Answered    bool              `toml:"answered"`
	Right       bool              `toml:"right"`
}

// Review summarises a finished session.
type Review struct {
	SessionID  string    `toml:"session_id"`
	Mode       Mode      `toml:"mode"`
	Hands      int       `toml:"hands"`
	Score      int       `toml:"score"`
	MaxScore   int       `toml:"max_score"`
	BestStreak int       `toml:"best_streak"`
	Seconds    int       `toml:"elapsed_seconds,omitempty"` // zero when untimed
	Finished   time.Time `toml:"finished"`
	Entries    []Entry   `toml:"entry"`
}

// Review builds the session summary. MaxScore counts the questions actually
// asked: one per pot plus one refund per hand.
func (s State) Review(sessionID string, now time.Time) Review {
	return Review{
		SessionID:  sessionID,
		Mode:       s.Settings.Mode,
		Hands:      s.Settings.Hands,
		Score:      s.Score,
		MaxScore:   s.Questions(),
		BestStreak: s.BestStreak,
		Seconds:    int(s.Elapsed(now) / time.Second),
		Finished:   now.UTC(),
		Entries:    s.History,
	}
}

// Elapsed returns the session duration, zero when the timer was off.
func (r Review) Elapsed() time.Duration {
	return time.Duration(r.Seconds) * time.Second
}

// Accuracy returns the fraction of questions answered correctly.
func (r Review) Accuracy() float64 {
	if r.MaxScore == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.MaxScore)
}

// SaveHistory writes the review to path as TOML, creating parent
// directories as needed. The file is replaced atomically.
func SaveHistory(path string, review Review) error {
	err := fileutil.WriteAtomic(filepath.Clean(path), 0o644, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		if err := toml.NewEncoder(bw).Encode(review); err != nil {
			return fmt.Errorf("encoding history: %w", err)
		}
		return bw.Flush()
	})
	if err != nil {
		return fmt.Errorf("saving history %s: %w", path, err)
	}
	return nil
}

// LoadHistory reads a review written by SaveHistory.
func LoadHistory(path string) (Review, error) {
	var review Review
	if _, err := toml.DecodeFile(filepath.Clean(path), &review); err != nil {
		return Review{}, fmt.Errorf("decoding history %s: %w", path, err)
	}
	return review, nil
}
