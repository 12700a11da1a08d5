package storage

import (
	"context"
	"sync"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

// ResultStorage keeps finished session results in memory. It is used when
// no database is configured.
type ResultStorage struct {
	mu      sync.RWMutex
	results []*entities.SessionResult
}

// NewResultStorage creates a new ResultStorage.
func NewResultStorage() *ResultStorage {
	return &ResultStorage{}
}

// Save appends a result.
func (s *ResultStorage) Save(_ context.Context, result *entities.SessionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

// ByOwner returns the results of one owner, oldest first.
func (s *ResultStorage) ByOwner(_ context.Context, owner string) ([]*entities.SessionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entities.SessionResult
	for _, r := range s.results {
		if r.Owner == owner {
			out = append(out, r)
		}
	}
	return out, nil
}
