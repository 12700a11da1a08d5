package httpapi

import (
	"time"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

type errorResponse struct {
	Error string `json:"error"`
}

type recordsResponse struct {
	Count   int               `json:"count"`
	Records []entities.Record `json:"records"`
}

// itemResponse is a generated item. The correct option is included because
// one-shot quiz clients score locally.
type itemResponse struct {
	Kind         entities.ItemKind `json:"kind"`
	Prompt       string            `json:"prompt"`
	Options      []string          `json:"options"`
	CorrectIndex int               `json:"correct_index"`
	Explanation  string            `json:"explanation,omitempty"`
	RecordID     int               `json:"record_id"`
}

type quizResponse struct {
	Seed          *uint64        `json:"seed,omitempty"`
	QuestionCount int            `json:"question_count"`
	Items         []itemResponse `json:"items"`
}

type presentationResponse struct {
	Seq     int               `json:"seq"`
	Attempt int               `json:"attempt"`
	Kind    entities.ItemKind `json:"kind"`
	Prompt  string            `json:"prompt"`
	Options []string          `json:"options"`
}

// feedbackResponse is present only in the answered state.
type feedbackResponse struct {
	Correct       bool   `json:"correct"`
	CorrectOption string `json:"correct_option"`
	Explanation   string `json:"explanation,omitempty"`
}

type sessionResponse struct {
	ID         string                  `json:"id"`
	State      entities.SessionState   `json:"state"`
	Current    *presentationResponse   `json:"current,omitempty"`
	Feedback   *feedbackResponse       `json:"feedback,omitempty"`
	Remaining  int                     `json:"remaining"`
	Score      entities.Score          `json:"score"`
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt *time.Time              `json:"finished_at,omitempty"`
	Answers    []entities.AnswerRecord `json:"answers,omitempty"`
}

type createSessionRequest struct {
	Owner string `json:"owner"`
}

// answerRequest selects an option by index or by free text.
type answerRequest struct {
	Option *int   `json:"option,omitempty"`
	Answer string `json:"answer,omitempty"`
}
