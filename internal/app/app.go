// Package app builds the quiz service and its dependencies from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/aliskhannn/fact-quiz/internal/config"
	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
	"github.com/aliskhannn/fact-quiz/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/fact-quiz/internal/infra/postgres/repository"
	"github.com/aliskhannn/fact-quiz/internal/logger"
	"github.com/aliskhannn/fact-quiz/internal/repository"
	"github.com/aliskhannn/fact-quiz/internal/service"
	"github.com/aliskhannn/fact-quiz/internal/storage"
)

// ResultStore saves finished sessions and lists them per owner.
type ResultStore interface {
	service.ResultRepository
	ByOwner(ctx context.Context, owner string) ([]*entities.SessionResult, error)
}

// App holds the wired quiz components.
type App struct {
	Quiz      *service.QuizService
	Results   ResultStore
	Validator *service.AnswerValidator

	pool *pgxpool.Pool
}

// New wires the application. quizLog receives the quiz components' messages;
// pass nil to derive it from zl.
func New(ctx context.Context, cfg *config.Config, zl *zap.Logger, quizLog logger.Logger) (*App, error) {
	if quizLog == nil {
		quizLog = logger.NewZap(zl)
	}

	a := &App{Validator: service.NewAnswerValidator()}

	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB.URL, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.pool = pool
		zl.Info("database connected")
	}

	records, err := a.recordSource(cfg, quizLog)
	if err != nil {
		a.Close()
		return nil, err
	}

	if a.pool != nil {
		a.Results = pgrepo.NewResultRepository(a.pool, postgres.NewTransactor(a.pool))
	} else {
		a.Results = storage.NewResultStorage()
	}

	// Generator and selector each own a source; *rand.Rand is not safe for
	// concurrent use.
	seed := cfg.Generator.Seed
	generator := service.NewQuestionGenerator(GeneratorConfig(cfg.Generator), service.NewRand(seed), quizLog)
	selector := service.NewQuestionSelector(service.NewRand(seed))

	a.Quiz = service.NewQuizService(records, a.Results, generator, selector, SessionConfig(cfg.Quiz), quizLog)

	zl.Info("quiz service ready",
		zap.String("records_source", cfg.Records.Source),
		zap.Int("session_size", cfg.Quiz.SessionSize),
		zap.Bool("results_in_database", a.pool != nil),
	)

	return a, nil
}

func (a *App) recordSource(cfg *config.Config, log logger.Logger) (service.RecordRepository, error) {
	switch cfg.Records.Source {
	case config.SourcePostgres:
		if a.pool == nil {
			return nil, config.ErrMissingEnvironmentVariables
		}
		return pgrepo.NewRecordRepository(a.pool), nil
	default:
		repo, err := repository.NewRecordRepository(cfg.Records.Path, log)
		if err != nil {
			return nil, fmt.Errorf("load records: %w", err)
		}
		return repo, nil
	}
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// GeneratorConfig converts configuration to generator parameters.
func GeneratorConfig(g config.Generator) service.GeneratorConfig {
	cfg := service.DefaultGeneratorConfig()
	cfg.TrueFalseRatio = g.TrueFalseRatio
	cfg.TrueRatio = g.TrueRatio
	cfg.AskAgentRatio = g.AskAgentRatio
	cfg.FallbackRadius = g.FallbackRadius

	if g.Templates.Statement != "" {
		cfg.Templates.Statement = g.Templates.Statement
	}
	if g.Templates.AskAgent != "" {
		cfg.Templates.AskAgent = g.Templates.AskAgent
	}
	if g.Templates.AskSubject != "" {
		cfg.Templates.AskSubject = g.Templates.AskSubject
	}

	return cfg
}

// SessionConfig converts configuration to session parameters.
func SessionConfig(q config.Quiz) service.SessionConfig {
	return service.SessionConfig{
		Size: q.SessionSize,
		Policy: entities.RetryPolicy{
			Enabled:    q.RetryEnabled,
			Delay:      q.RetryDelay,
			MaxRetries: q.MaxRetries,
		},
	}
}
