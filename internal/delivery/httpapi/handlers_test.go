package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
	"github.com/aliskhannn/fact-quiz/internal/repository"
	"github.com/aliskhannn/fact-quiz/internal/service"
	"github.com/aliskhannn/fact-quiz/internal/storage"
)

func testRecords() []entities.Record {
	return []entities.Record{
		{ID: 1, GroupID: 1, Subject: "Fallingwater", Agent: "Wright", Attribute: "1935"},
		{ID: 2, GroupID: 1, Subject: "Villa Savoye", Agent: "Le Corbusier", Attribute: "1931"},
		{ID: 3, GroupID: 1, Subject: "Farnsworth House", Agent: "Mies", Attribute: "1951"},
		{ID: 4, GroupID: 2, Subject: "Sydney Opera House", Agent: "Utzon", Attribute: "1973"},
		{ID: 5, GroupID: 2, Subject: "Guggenheim Bilbao", Agent: "Gehry", Attribute: "1997"},
	}
}

func newTestRouter(records []entities.Record) http.Handler {
	quiz := service.NewQuizService(
		repository.NewRecordRepositoryFrom(records),
		storage.NewResultStorage(),
		service.NewQuestionGenerator(service.DefaultGeneratorConfig(), service.NewRand(1), nil),
		service.NewQuestionSelector(service.NewRand(1)),
		service.SessionConfig{Size: 3, Policy: entities.RetryPolicy{Enabled: true, Delay: 1, MaxRetries: 1}},
		nil,
	)
	api := NewAPI(quiz, storage.NewSessionStorage[string](), service.NewAnswerValidator(), zap.NewNop())
	return NewRouter(api, []string{"http://localhost:5173"})
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestRouter(testRecords()), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestHandleRecords(t *testing.T) {
	router := newTestRouter(testRecords())

	rec := do(t, router, http.MethodGet, "/api/records", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[recordsResponse](t, rec); got.Count != 5 {
		t.Fatalf("count = %d, want 5", got.Count)
	}

	rec = do(t, router, http.MethodGet, "/api/records/4", nil)
	if got := decode[entities.Record](t, rec); rec.Code != http.StatusOK || got.Agent != "Utzon" {
		t.Fatalf("record 4 = %d %+v", rec.Code, got)
	}

	if rec := do(t, router, http.MethodGet, "/api/records/99", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing record status = %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/api/records/abc", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid id status = %d", rec.Code)
	}
}

func TestHandleGenerateQuiz(t *testing.T) {
	router := newTestRouter(testRecords())

	rec := do(t, router, http.MethodGet, "/api/quiz?size=20", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[quizResponse](t, rec)
	if got.QuestionCount != 5 || len(got.Items) != 5 {
		t.Fatalf("got %d items, want all 5 records", got.QuestionCount)
	}
	for _, item := range got.Items {
		if item.CorrectIndex < 0 || item.CorrectIndex >= len(item.Options) {
			t.Fatalf("item %+v has no valid correct index", item)
		}
		if item.Explanation == "" {
			t.Fatalf("item %+v has no explanation", item)
		}
	}

	first := do(t, router, http.MethodGet, "/api/quiz?size=3&seed=7", nil).Body.String()
	second := do(t, router, http.MethodGet, "/api/quiz?size=3&seed=7", nil).Body.String()
	if first != second {
		t.Fatalf("seeded quizzes differ:\n%s\n%s", first, second)
	}

	for _, target := range []string{"/api/quiz?size=0", "/api/quiz?size=x", "/api/quiz?seed=-1"} {
		if rec := do(t, router, http.MethodGet, target, nil); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s status = %d, want 400", target, rec.Code)
		}
	}
}

func TestHandleGenerateQuizWithoutRecords(t *testing.T) {
	rec := do(t, newTestRouter(nil), http.MethodGet, "/api/quiz", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	router := newTestRouter(testRecords())

	rec := do(t, router, http.MethodPost, "/api/sessions", createSessionRequest{Owner: "web:alice"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	session := decode[sessionResponse](t, rec)
	if session.State != entities.StatePresenting || session.Current == nil || session.Feedback != nil {
		t.Fatalf("created session = %+v", session)
	}

	base := "/api/sessions/" + session.ID

	// Next before answering is a conflict.
	if rec := do(t, router, http.MethodPost, base+"/next", nil); rec.Code != http.StatusConflict {
		t.Fatalf("early next status = %d", rec.Code)
	}

	if rec := do(t, router, http.MethodPost, base+"/answer", map[string]any{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty answer status = %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, base+"/answer", map[string]any{"option": 9}); rec.Code != http.StatusBadRequest {
		t.Fatalf("out of range option status = %d", rec.Code)
	}

	for i := 0; i < 10 && session.State != entities.StateFinished; i++ {
		rec := do(t, router, http.MethodPost, base+"/answer", answerRequest{Answer: "1"})
		if rec.Code != http.StatusOK {
			t.Fatalf("answer status = %d: %s", rec.Code, rec.Body.String())
		}
		session = decode[sessionResponse](t, rec)
		if session.State != entities.StateAnswered || session.Feedback == nil {
			t.Fatalf("answered session = %+v", session)
		}
		if !strings.Contains(session.Feedback.Explanation, " was created by ") {
			t.Fatalf("feedback explanation = %q", session.Feedback.Explanation)
		}

		rec = do(t, router, http.MethodPost, base+"/next", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("next status = %d: %s", rec.Code, rec.Body.String())
		}
		session = decode[sessionResponse](t, rec)
	}

	if session.State != entities.StateFinished || session.FinishedAt == nil {
		t.Fatalf("session did not finish: %+v", session)
	}
	if session.Score.Total != 3 || len(session.Answers) != session.Score.Answered {
		t.Fatalf("final score %+v with %d answers", session.Score, len(session.Answers))
	}

	rec = do(t, router, http.MethodGet, base, nil)
	if got := decode[sessionResponse](t, rec); got.State != entities.StateFinished {
		t.Fatalf("GET session state = %s", got.State)
	}
}

func TestUnknownSession(t *testing.T) {
	router := newTestRouter(testRecords())

	for _, tt := range []struct{ method, target string }{
		{http.MethodGet, "/api/sessions/nope"},
		{http.MethodPost, "/api/sessions/nope/next"},
	} {
		if rec := do(t, router, tt.method, tt.target, nil); rec.Code != http.StatusNotFound {
			t.Fatalf("%s %s status = %d, want 404", tt.method, tt.target, rec.Code)
		}
	}

	rec := do(t, router, http.MethodPost, "/api/sessions/nope/answer", answerRequest{Answer: "a"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("answer on unknown session status = %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/quiz", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()

	newTestRouter(testRecords()).ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}
