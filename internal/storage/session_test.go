package storage

import (
	"errors"
	"sync"
	"testing"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

func TestSessionStorageStoreGetDelete(t *testing.T) {
	s := NewSessionStorage[int64]()

	if _, ok := s.Get(1); ok {
		t.Fatal("empty storage returned a session")
	}

	s.Store(1, entities.Session{ID: "a"})
	s.Store(2, entities.Session{ID: "b"})
	s.Store(1, entities.Session{ID: "c"})

	if got, ok := s.Get(1); !ok || got.ID != "c" {
		t.Fatalf("Get(1) = (%q, %t), want c", got.ID, ok)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	s.Delete(1)
	if _, ok := s.Get(1); ok {
		t.Fatal("deleted session still present")
	}
}

func TestSessionStorageUpdate(t *testing.T) {
	s := NewSessionStorage[string]()

	_, err := s.Update("missing", func(session entities.Session) (entities.Session, error) {
		t.Fatal("fn called for a missing session")
		return session, nil
	})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}

	s.Store("x", entities.Session{ID: "x"})

	failure := errors.New("boom")
	if _, err := s.Update("x", func(session entities.Session) (entities.Session, error) {
		session.Owner = "changed"
		return session, failure
	}); !errors.Is(err, failure) {
		t.Fatalf("err = %v, want %v", err, failure)
	}
	if got, _ := s.Get("x"); got.Owner != "" {
		t.Fatal("failed update was stored")
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update("x", func(session entities.Session) (entities.Session, error) {
				session.Presented++
				return session, nil
			})
		}()
	}
	wg.Wait()

	if got, _ := s.Get("x"); got.Presented != 50 {
		t.Fatalf("Presented = %d, want 50", got.Presented)
	}
}
