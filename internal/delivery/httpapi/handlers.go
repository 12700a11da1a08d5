package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
	"github.com/aliskhannn/fact-quiz/internal/storage"
)

func (a *API) HandleRecords(w http.ResponseWriter, r *http.Request) {
	records, err := a.service.Records(r.Context())
	if err != nil {
		a.logger.Error("failed to load records", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recordsResponse{
		Count:   len(records),
		Records: records,
	})
}

func (a *API) HandleRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id must be an integer"})
		return
	}

	record, err := a.service.Record(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// HandleGenerateQuiz returns a one-shot quiz. With ?seed= the same records
// and seed always give the same quiz.
func (a *API) HandleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	size, err := parseIntParam(r, "size", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	seed, err := parseSeedParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var items []entities.QuizItem
	if seed != nil {
		items, err = a.service.GenerateSeededQuiz(r.Context(), size, *seed)
	} else {
		items, err = a.service.GenerateQuiz(r.Context(), size)
	}
	if err != nil {
		a.logger.Warn("failed to generate quiz", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quizResponse{
		Seed:          seed,
		QuestionCount: len(items),
		Items:         toItemResponses(items),
	})
}

func (a *API) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	request := createSessionRequest{}
	if r.ContentLength > 0 {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
	}

	owner := strings.TrimSpace(request.Owner)
	if owner == "" {
		owner = "http:anonymous"
	}

	session, err := a.service.StartSession(r.Context(), owner)
	if err != nil {
		a.logger.Warn("failed to start session", zap.String("owner", owner), zap.Error(err))
		writeServiceError(w, err)
		return
	}

	a.sessions.Store(session.ID, session)

	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (a *API) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := a.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeServiceError(w, storage.ErrSessionNotFound)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (a *API) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var request answerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if request.Option == nil && strings.TrimSpace(request.Answer) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "option or answer is required"})
		return
	}

	session, err := a.sessions.Update(chi.URLParam(r, "id"), func(s entities.Session) (entities.Session, error) {
		option, err := a.resolve(s, request)
		if err != nil {
			return s, err
		}
		return a.service.Answer(r.Context(), s, option)
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (a *API) HandleNext(w http.ResponseWriter, r *http.Request) {
	var saveErr error

	session, err := a.sessions.Update(chi.URLParam(r, "id"), func(s entities.Session) (entities.Session, error) {
		next, err := a.service.Next(r.Context(), s)
		if err != nil && next.Done() {
			// Keep the finished session; only storing its result failed.
			saveErr = err
			return next, nil
		}
		return next, err
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if saveErr != nil {
		a.logger.Error("failed to save session result",
			zap.String("session_id", session.ID),
			zap.Error(saveErr),
		)
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (a *API) resolve(s entities.Session, request answerRequest) (int, error) {
	if request.Option != nil {
		return *request.Option, nil
	}
	if s.Current == nil || a.validator == nil {
		// Let the session report the invalid transition.
		return -1, nil
	}
	return a.validator.Resolve(s.Current.Item, request.Answer)
}
