package workout

import (
	"fmt"
	"time"

	"github.com/sadopc/lockin/internal/store"
)

// Service wires the session engine to persistence. Mutations stay pure
// value transformations; the service persists the results whole.
type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// Start returns the session for the given date, creating it from the
// template only when none exists yet. An empty date means today. Starting
// twice for the same date returns the stored session unchanged.
func (s *Service) Start(tpl store.WorkoutTemplate, date string) (store.Session, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	existing, err := s.store.GetSessionByDate(date)
	if err != nil {
		return store.Session{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	sess := NewSession(tpl, date, s.store.Unit(), s.catalogLookup)
	if err := s.store.UpsertSession(sess); err != nil {
		return store.Session{}, fmt.Errorf("persist session: %w", err)
	}
	return sess, nil
}

// Save persists a mutated session, replacing the stored copy by id.
func (s *Service) Save(sess store.Session) error {
	return s.store.UpsertSession(sess)
}

// Complete finishes a session and persists the result.
func (s *Service) Complete(sess store.Session) (store.Session, error) {
	done := Complete(sess, time.Now())
	if err := s.store.UpsertSession(done); err != nil {
		return store.Session{}, fmt.Errorf("persist completed session: %w", err)
	}
	return done, nil
}

// TemplateForDate resolves which template applies to a date from the stored
// collection, nil when the weekday has none.
func (s *Service) TemplateForDate(date string) (*store.WorkoutTemplate, error) {
	templates, err := s.store.ListTemplates()
	if err != nil {
		return nil, err
	}
	return ResolveForDate(templates, date), nil
}

func (s *Service) catalogLookup(exerciseID string) (string, string, bool) {
	e, err := s.store.LookupExercise(exerciseID)
	if err != nil || e == nil {
		return "", "", false
	}
	return e.Name, e.MuscleGroup, true
}
