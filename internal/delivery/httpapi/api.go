package httpapi

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
	"github.com/aliskhannn/fact-quiz/internal/storage"
)

// QuizService is the part of service.QuizService the API uses.
type QuizService interface {
	Records(ctx context.Context) ([]entities.Record, error)
	Record(ctx context.Context, id int) (entities.Record, error)
	GenerateQuiz(ctx context.Context, size int) ([]entities.QuizItem, error)
	GenerateSeededQuiz(ctx context.Context, size int, seed uint64) ([]entities.QuizItem, error)
	StartSession(ctx context.Context, owner string) (entities.Session, error)
	Answer(ctx context.Context, session entities.Session, option int) (entities.Session, error)
	Next(ctx context.Context, session entities.Session) (entities.Session, error)
}

type AnswerValidator interface {
	Resolve(item entities.QuizItem, input string) (int, error)
}

type API struct {
	service   QuizService
	sessions  *storage.SessionStorage[string]
	validator AnswerValidator
	logger    *zap.Logger
}

func NewAPI(
	service QuizService,
	sessions *storage.SessionStorage[string],
	validator AnswerValidator,
	logger *zap.Logger,
) *API {
	if sessions == nil {
		sessions = storage.NewSessionStorage[string]()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		service:   service,
		sessions:  sessions,
		validator: validator,
		logger:    logger,
	}
}
