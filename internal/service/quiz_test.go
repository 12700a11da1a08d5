package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

type fakeRecordRepo struct {
	records []entities.Record
	err     error
}

func (f *fakeRecordRepo) GetAll(context.Context) ([]entities.Record, error) {
	return f.records, f.err
}

func (f *fakeRecordRepo) GetByID(_ context.Context, id int) (entities.Record, error) {
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return entities.Record{}, entities.ErrRecordNotFound
}

type fakeResultRepo struct {
	saved []*entities.SessionResult
	err   error
}

func (f *fakeResultRepo) Save(_ context.Context, result *entities.SessionResult) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, result)
	return nil
}

func newTestQuizService(records []entities.Record, results ResultRepository, size int) *QuizService {
	return NewQuizService(
		&fakeRecordRepo{records: records},
		results,
		NewQuestionGenerator(DefaultGeneratorConfig(), NewRand(1), nil),
		NewQuestionSelector(NewRand(2)),
		SessionConfig{Size: size, Policy: entities.RetryPolicy{Enabled: true, Delay: 1, MaxRetries: 1}},
		nil,
	)
}

// play answers every item correctly until the session finishes.
func play(t *testing.T, svc *QuizService, s entities.Session) (entities.Session, error) {
	t.Helper()
	ctx := context.Background()

	for !s.Done() {
		option := 0
		for i := range s.Current.Item.Options() {
			if s.Current.Item.IsCorrect(i) {
				option = i
			}
		}

		var err error
		if s, err = svc.Answer(ctx, s, option); err != nil {
			t.Fatalf("Answer: %v", err)
		}
		if s, err = svc.Next(ctx, s); err != nil {
			return s, err
		}
	}
	return s, nil
}

func TestQuizServiceSessionLifecycle(t *testing.T) {
	results := &fakeResultRepo{}
	svc := newTestQuizService(sampleRecords(), results, 5)

	s, err := svc.StartSession(context.Background(), "tester")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if s.ID == "" || s.Owner != "tester" || s.State != entities.StatePresenting {
		t.Fatalf("started session = %+v", s)
	}
	if s.Score.Total != 5 {
		t.Fatalf("Total = %d, want 5", s.Score.Total)
	}

	s, err = play(t, svc, s)
	if err != nil {
		t.Fatalf("play: %v", err)
	}

	if len(results.saved) != 1 {
		t.Fatalf("saved %d results, want 1", len(results.saved))
	}
	got := results.saved[0]
	if got.ID != s.ID || got.Owner != "tester" || got.Score.Correct != 5 || len(got.Answers) != 5 {
		t.Fatalf("saved result = %+v", got)
	}
}

func TestQuizServiceReturnsFinishedSessionWhenSaveFails(t *testing.T) {
	saveErr := errors.New("disk full")
	svc := newTestQuizService(sampleRecords(), &fakeResultRepo{err: saveErr}, 2)

	s, err := svc.StartSession(context.Background(), "tester")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	s, err = play(t, svc, s)
	if !errors.Is(err, saveErr) {
		t.Fatalf("err = %v, want %v", err, saveErr)
	}
	if !s.Done() {
		t.Fatalf("state = %s, want finished", s.State)
	}
}

func TestQuizServiceWithoutResultRepository(t *testing.T) {
	svc := newTestQuizService(sampleRecords(), nil, 3)

	s, err := svc.StartSession(context.Background(), "tester")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := play(t, svc, s); err != nil {
		t.Fatalf("play: %v", err)
	}
}

func TestQuizServiceNoQuestions(t *testing.T) {
	svc := newTestQuizService(nil, nil, 5)

	if _, err := svc.StartSession(context.Background(), "tester"); !errors.Is(err, ErrNoQuestionsAvailable) {
		t.Fatalf("err = %v, want ErrNoQuestionsAvailable", err)
	}
}

func TestQuizServiceRecordError(t *testing.T) {
	repoErr := errors.New("connection refused")
	svc := NewQuizService(&fakeRecordRepo{err: repoErr}, nil,
		NewQuestionGenerator(DefaultGeneratorConfig(), NewRand(1), nil),
		NewQuestionSelector(NewRand(1)), SessionConfig{Size: 5}, nil)

	if _, err := svc.GenerateQuiz(context.Background(), 0); !errors.Is(err, repoErr) {
		t.Fatalf("err = %v, want %v", err, repoErr)
	}
}

func TestQuizServiceRecord(t *testing.T) {
	svc := newTestQuizService(sampleRecords(), nil, 5)

	r, err := svc.Record(context.Background(), 8)
	if err != nil || r.Subject != "Sydney Opera House" {
		t.Fatalf("Record(8) = (%+v, %v)", r, err)
	}

	if _, err := svc.Record(context.Background(), 404); !errors.Is(err, entities.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestGenerateQuizSizes(t *testing.T) {
	svc := newTestQuizService(sampleRecords(), nil, 4)
	ctx := context.Background()

	items, err := svc.GenerateQuiz(ctx, 0)
	if err != nil || len(items) != 4 {
		t.Fatalf("default size: %d items, err %v", len(items), err)
	}

	items, err = svc.GenerateQuiz(ctx, 20)
	if err != nil || len(items) != len(sampleRecords()) {
		t.Fatalf("oversized request: %d items, err %v", len(items), err)
	}
}

func TestGenerateSeededQuizIsReproducible(t *testing.T) {
	svc := newTestQuizService(sampleRecords(), nil, 6)
	ctx := context.Background()

	a, err := svc.GenerateSeededQuiz(ctx, 6, 99)
	if err != nil {
		t.Fatalf("GenerateSeededQuiz: %v", err)
	}
	b, err := svc.GenerateSeededQuiz(ctx, 6, 99)
	if err != nil {
		t.Fatalf("GenerateSeededQuiz: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different quizzes")
	}
}
