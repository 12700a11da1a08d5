package service

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

var (
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrInvalidOption     = errors.New("invalid option")
)

// NewSession creates a session waiting to be started. Items are asked in the given order.
func NewSession(id, owner string, items []entities.QuizItem, policy entities.RetryPolicy) entities.Session {
	return entities.Session{
		ID:      id,
		Owner:   owner,
		State:   entities.StateAwaitingStart,
		Policy:  policy,
		Pending: slices.Clone(items),
		Score:   entities.Score{Total: len(items)},
	}
}

// Start moves an AwaitingStart session to its first item, or straight to
// Finished when there is nothing to ask.
func Start(s entities.Session, now time.Time) (entities.Session, error) {
	if s.State != entities.StateAwaitingStart {
		return s, fmt.Errorf("start from %s: %w", s.State, ErrInvalidTransition)
	}

	next := s.Clone()
	next.StartedAt = now

	return advance(next, now), nil
}

// Answer records the player's choice for the current item. Option indexes
// follow the item's Options order; for true/false items 0 means true.
func Answer(s entities.Session, option int) (entities.Session, error) {
	if s.State != entities.StatePresenting || s.Current == nil {
		return s, fmt.Errorf("answer from %s: %w", s.State, ErrInvalidTransition)
	}

	current := *s.Current
	options := current.Item.Options()
	if option < 0 || option >= len(options) {
		return s, fmt.Errorf("option %d of %d: %w", option, len(options), ErrInvalidOption)
	}

	next := s.Clone()
	isCorrect := current.Item.IsCorrect(option)

	next.Answers = append(next.Answers, entities.AnswerRecord{
		Seq:       current.Seq,
		RecordID:  current.Item.SourceID(),
		Kind:      current.Item.Kind(),
		Prompt:    current.Item.Prompt(),
		Chosen:    options[option],
		Correct:   current.Item.CorrectOption(),
		IsCorrect: isCorrect,
		Attempt:   current.Attempt,
	})

	next.Score.Answered++
	switch {
	case current.Attempt > 0:
		next.Score.Retried++
	case isCorrect:
		next.Score.Correct++
	}

	if !isCorrect && next.Policy.Enabled && current.Attempt < next.Policy.MaxRetries {
		next.Retries = insertRetry(next.Retries, entities.Retry{
			Item:       current.Item,
			EligibleAt: next.Presented + next.Policy.Delay,
			Attempt:    current.Attempt + 1,
		})
	}

	next.State = entities.StateAnswered
	next.LastCorrect = isCorrect

	return next, nil
}

// Next leaves the Answered state for the next item or for Finished.
func Next(s entities.Session, now time.Time) (entities.Session, error) {
	if s.State != entities.StateAnswered {
		return s, fmt.Errorf("next from %s: %w", s.State, ErrInvalidTransition)
	}

	return advance(s.Clone(), now), nil
}

// advance presents the earliest eligible retry, otherwise the next pending
// item, otherwise the earliest retry even if not yet eligible. With both
// queues empty the session finishes.
func advance(s entities.Session, now time.Time) entities.Session {
	var p entities.Presentation

	switch {
	case len(s.Retries) > 0 && s.Retries[0].EligibleAt <= s.Presented:
		p = popRetry(&s)
	case len(s.Pending) > 0:
		p = entities.Presentation{Item: s.Pending[0]}
		s.Pending = s.Pending[1:]
	case len(s.Retries) > 0:
		p = popRetry(&s)
	default:
		s.State = entities.StateFinished
		s.Current = nil
		finished := now
		s.FinishedAt = &finished
		return s
	}

	s.Presented++
	p.Seq = s.Presented
	s.Current = &p
	s.State = entities.StatePresenting

	return s
}

func popRetry(s *entities.Session) entities.Presentation {
	r := s.Retries[0]
	s.Retries = s.Retries[1:]
	return entities.Presentation{Item: r.Item, Attempt: r.Attempt}
}

// insertRetry keeps retries ordered by EligibleAt, first-missed first on ties.
func insertRetry(retries []entities.Retry, r entities.Retry) []entities.Retry {
	i := slices.IndexFunc(retries, func(x entities.Retry) bool {
		return x.EligibleAt > r.EligibleAt
	})
	if i < 0 {
		return append(retries, r)
	}
	return slices.Insert(retries, i, r)
}
