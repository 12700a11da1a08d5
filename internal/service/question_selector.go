package service

import (
	"math/rand/v2"
	"sync"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

// QuestionSelector picks the items asked in one session.
type QuestionSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuestionSelector creates a new QuestionSelector.
func NewQuestionSelector(rng *rand.Rand) *QuestionSelector {
	return &QuestionSelector{rng: rng}
}

// Select returns a shuffled copy of items truncated to total. A pool smaller
// than total is returned whole; it is never padded.
func (s *QuestionSelector) Select(items []entities.QuizItem, total int) []entities.QuizItem {
	if total <= 0 || len(items) == 0 {
		return nil
	}

	s.mu.Lock()
	out := Shuffled(s.rng, items)
	s.mu.Unlock()

	return takeFirst(out, total)
}

// takeFirst returns the first n elements of items, or the whole slice if it is shorter.
func takeFirst[T any](items []T, n int) []T {
	if n <= 0 {
		return nil
	}
	if len(items) <= n {
		return items
	}
	return items[:n]
}
