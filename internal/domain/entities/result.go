package entities

import "time"

// SessionResult is the persisted summary of a finished session.
type SessionResult struct {
	ID         string         `json:"id"`
	Owner      string         `json:"owner"`
	Score      Score          `json:"score"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Answers    []AnswerRecord `json:"answers"`
}

// NewSessionResult builds a result from a finished session.
func NewSessionResult(s Session) *SessionResult {
	finished := time.Now()
	if s.FinishedAt != nil {
		finished = *s.FinishedAt
	}
	return &SessionResult{
		ID:         s.ID,
		Owner:      s.Owner,
		Score:      s.Score,
		StartedAt:  s.StartedAt,
		FinishedAt: finished,
		Answers:    s.Answers,
	}
}
