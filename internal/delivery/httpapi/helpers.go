package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
	"github.com/aliskhannn/fact-quiz/internal/service"
	"github.com/aliskhannn/fact-quiz/internal/storage"
)

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entities.ErrRecordNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "record not found"})
	case errors.Is(err, storage.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
	case errors.Is(err, service.ErrNoQuestionsAvailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no questions available"})
	case errors.Is(err, service.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidOption):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "answer does not match any option"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

func toItemResponses(items []entities.QuizItem) []itemResponse {
	response := make([]itemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, itemResponse{
			Kind:         item.Kind(),
			Prompt:       item.Prompt(),
			Options:      item.Options(),
			CorrectIndex: correctIndex(item),
			Explanation:  item.Explanation(),
			RecordID:     item.SourceID(),
		})
	}
	return response
}

func correctIndex(item entities.QuizItem) int {
	for i := range item.Options() {
		if item.IsCorrect(i) {
			return i
		}
	}
	return -1
}

// toSessionResponse hides the correct option until the current item is answered.
func toSessionResponse(s entities.Session) sessionResponse {
	response := sessionResponse{
		ID:         s.ID,
		State:      s.State,
		Remaining:  s.Remaining(),
		Score:      s.Score,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
	}

	if s.Current != nil {
		response.Current = &presentationResponse{
			Seq:     s.Current.Seq,
			Attempt: s.Current.Attempt,
			Kind:    s.Current.Item.Kind(),
			Prompt:  s.Current.Item.Prompt(),
			Options: s.Current.Item.Options(),
		}
	}

	if s.State == entities.StateAnswered && s.Current != nil {
		response.Feedback = &feedbackResponse{
			Correct:       s.LastCorrect,
			CorrectOption: s.Current.Item.CorrectOption(),
			Explanation:   s.Current.Item.Explanation(),
		}
	}

	if s.Done() {
		response.Answers = s.Answers
	}

	return response
}

func parseIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return parsed, nil
}

// parseSeedParam returns nil when no seed is given.
func parseSeedParam(r *http.Request) (*uint64, error) {
	value := strings.TrimSpace(r.URL.Query().Get("seed"))
	if value == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, errors.New("seed must be an unsigned integer")
	}
	return &parsed, nil
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
