package entities

import (
	"slices"
	"time"
)

// SessionState is the state of a quiz session.
type SessionState string

const (
	StateAwaitingStart SessionState = "awaiting_start"
	StatePresenting    SessionState = "presenting"
	StateAnswered      SessionState = "answered"
	StateFinished      SessionState = "finished"
)

// RetryPolicy controls how missed items are asked again.
type RetryPolicy struct {
	Enabled    bool // re-ask missed items
	Delay      int  // presentations to wait before a missed item becomes eligible
	MaxRetries int  // maximum re-asks of a single item
}

// Retry is a missed item waiting to be asked again.
type Retry struct {
	Item       QuizItem
	EligibleAt int // earliest presentation count at which the item may be shown
	Attempt    int // 1 for the first re-ask
}

// Presentation is the item currently shown to the player.
type Presentation struct {
	Seq     int // 1-based presentation number within the session
	Item    QuizItem
	Attempt int // 0 for the first ask, >0 for retries
}

// AnswerRecord is one answered presentation.
type AnswerRecord struct {
	Seq       int      `json:"seq"`
	RecordID  int      `json:"record_id"`
	Kind      ItemKind `json:"kind"`
	Prompt    string   `json:"prompt"`
	Chosen    string   `json:"chosen"`
	Correct   string   `json:"correct"`
	IsCorrect bool     `json:"is_correct"`
	Attempt   int      `json:"attempt"`
}

// Score summarizes a session.
type Score struct {
	Correct  int `json:"correct"`  // items answered correctly on the first ask
	Total    int `json:"total"`    // distinct items in the session
	Answered int `json:"answered"` // all answered presentations, retries included
	Retried  int `json:"retried"`  // answered retry presentations
}

// Percentage returns the share of first-ask correct answers.
func (s Score) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

// Session is an immutable snapshot of a quiz session. Transitions produce a
// new Session and never modify the receiver's slices.
type Session struct {
	ID          string
	Owner       string
	State       SessionState
	Policy      RetryPolicy
	Pending     []QuizItem // items not yet asked, consumed front to back
	Retries     []Retry    // missed items ordered by EligibleAt
	Current     *Presentation
	LastCorrect bool // result of the last answer, valid in StateAnswered
	Presented   int  // presentations so far
	Answers     []AnswerRecord
	Score       Score
	StartedAt   time.Time
	FinishedAt  *time.Time
}

// Clone returns a copy of the session that shares no mutable state with s.
func (s Session) Clone() Session {
	c := s
	c.Pending = slices.Clone(s.Pending)
	c.Retries = slices.Clone(s.Retries)
	c.Answers = slices.Clone(s.Answers)
	if s.Current != nil {
		cur := *s.Current
		c.Current = &cur
	}
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		c.FinishedAt = &t
	}
	return c
}

// Remaining returns the number of asks still queued, retries included.
func (s Session) Remaining() int {
	return len(s.Pending) + len(s.Retries)
}

// Done reports whether the session has finished.
func (s Session) Done() bool {
	return s.State == StateFinished
}
