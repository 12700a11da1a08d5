package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
	"github.com/aliskhannn/fact-quiz/internal/logger"
)

var ErrNoQuestionsAvailable = errors.New("no questions available")

// RecordRepository provides the records questions are generated from.
type RecordRepository interface {
	GetAll(ctx context.Context) ([]entities.Record, error)
	GetByID(ctx context.Context, id int) (entities.Record, error)
}

// ResultRepository stores finished sessions.
type ResultRepository interface {
	Save(ctx context.Context, result *entities.SessionResult) error
}

// SessionConfig holds per-session parameters.
type SessionConfig struct {
	Size   int // items asked per session
	Policy entities.RetryPolicy
}

// QuizService drives quiz sessions: it generates items from the records,
// selects a session's worth of them and applies player events.
type QuizService struct {
	recordRepo RecordRepository
	resultRepo ResultRepository
	generator  *QuestionGenerator
	selector   *QuestionSelector
	cfg        SessionConfig
	log        logger.Logger
	now        func() time.Time
}

// NewQuizService creates a QuizService. resultRepo may be nil, in which case
// finished sessions are not stored.
func NewQuizService(
	recordRepo RecordRepository,
	resultRepo ResultRepository,
	generator *QuestionGenerator,
	selector *QuestionSelector,
	cfg SessionConfig,
	log logger.Logger,
) *QuizService {
	if log == nil {
		log = logger.Nop
	}
	return &QuizService{
		recordRepo: recordRepo,
		resultRepo: resultRepo,
		generator:  generator,
		selector:   selector,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// Records returns all loaded records.
func (s *QuizService) Records(ctx context.Context) ([]entities.Record, error) {
	records, err := s.recordRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get records: %w", err)
	}
	return records, nil
}

// Record returns one record by ID.
func (s *QuizService) Record(ctx context.Context, id int) (entities.Record, error) {
	record, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return entities.Record{}, fmt.Errorf("get record %d: %w", id, err)
	}
	return record, nil
}

// GenerateQuiz generates items from all records and returns up to size of
// them in random order. A non-positive size uses the configured session size.
func (s *QuizService) GenerateQuiz(ctx context.Context, size int) ([]entities.QuizItem, error) {
	return s.generate(ctx, s.generator, s.selector, size)
}

// GenerateSeededQuiz is GenerateQuiz with a fixed seed, so the same seed and
// records always produce the same quiz.
func (s *QuizService) GenerateSeededQuiz(ctx context.Context, size int, seed uint64) ([]entities.QuizItem, error) {
	return s.generate(ctx, s.generator.WithRand(NewRand(seed)), NewQuestionSelector(NewRand(seed)), size)
}

func (s *QuizService) generate(
	ctx context.Context, generator *QuestionGenerator, selector *QuestionSelector, size int,
) ([]entities.QuizItem, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}

	if size <= 0 {
		size = s.cfg.Size
	}

	items := selector.Select(generator.Generate(records), size)
	if len(items) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	return items, nil
}

// StartSession generates a new session for owner and presents its first item.
func (s *QuizService) StartSession(ctx context.Context, owner string) (entities.Session, error) {
	items, err := s.GenerateQuiz(ctx, s.cfg.Size)
	if err != nil {
		return entities.Session{}, err
	}

	session := NewSession(uuid.NewString(), owner, items, s.cfg.Policy)
	session, err = Start(session, s.now())
	if err != nil {
		return entities.Session{}, err
	}

	s.log.Log(fmt.Sprintf("session %s started for %s with %d items", session.ID, owner, len(items)))

	return session, nil
}

// Answer applies the player's choice to the current item.
func (s *QuizService) Answer(_ context.Context, session entities.Session, option int) (entities.Session, error) {
	next, err := Answer(session, option)
	if err != nil {
		return session, err
	}

	s.log.Log(fmt.Sprintf("session %s: item %d answered %q, correct=%t",
		next.ID, next.Current.Seq, next.Current.Item.Options()[option], next.LastCorrect))

	return next, nil
}

// Next advances an answered session. When the session finishes its result
// is stored; the finished session is returned even if storing fails.
func (s *QuizService) Next(ctx context.Context, session entities.Session) (entities.Session, error) {
	next, err := Next(session, s.now())
	if err != nil {
		return session, err
	}

	if !next.Done() {
		return next, nil
	}

	s.log.Log(fmt.Sprintf("session %s finished: %d/%d correct, %d retries",
		next.ID, next.Score.Correct, next.Score.Total, next.Score.Retried))

	if s.resultRepo == nil {
		return next, nil
	}

	if err := s.resultRepo.Save(ctx, entities.NewSessionResult(next)); err != nil {
		return next, fmt.Errorf("save result: %w", err)
	}

	return next, nil
}
