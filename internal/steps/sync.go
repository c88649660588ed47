package steps

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sadopc/lockin/internal/nutrition"
	"github.com/sadopc/lockin/internal/store"
)

// Syncer fetches today's step count and merges it into today's log. At most
// one sync runs at a time so a stale response can never overwrite a fresher
// one.
type Syncer struct {
	provider Provider
	logs     *nutrition.Service
	inFlight atomic.Bool
}

func NewSyncer(p Provider, logs *nutrition.Service) *Syncer {
	return &Syncer{provider: p, logs: logs}
}

// Busy reports whether a sync is currently in flight.
func (s *Syncer) Busy() bool {
	return s.inFlight.Load()
}

// Sync fetches today's count and writes it into today's log, returning the
// updated log. On an auth failure the provider is disconnected so the user
// is forced to reauthorize; transient failures are surfaced without
// touching stored state and are not retried here.
func (s *Syncer) Sync(ctx context.Context) (store.DailyLog, error) {
	if !s.provider.Connected() {
		return store.DailyLog{}, ErrNotConnected
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return store.DailyLog{}, ErrSyncInFlight
	}
	defer s.inFlight.Store(false)

	count, err := s.provider.FetchTodaySteps(ctx)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			logrus.WithError(err).Warn("step sync unauthenticated, disconnecting provider")
			if derr := s.provider.Disconnect(ctx); derr != nil {
				logrus.WithError(derr).Warn("disconnect after auth failure")
			}
			return store.DailyLog{}, err
		}
		logrus.WithError(err).Warn("step sync failed")
		return store.DailyLog{}, err
	}

	// The user may have disconnected while the request was in flight;
	// discard the result rather than resurrecting stale state.
	if !s.provider.Connected() {
		return store.DailyLog{}, ErrNotConnected
	}

	today := time.Now().Format("2006-01-02")
	log, err := s.logs.SetSteps(today, count)
	if err != nil {
		return store.DailyLog{}, err
	}
	logrus.WithFields(logrus.Fields{"date": today, "steps": count}).Info("step sync complete")
	return log, nil
}

// Disconnect tears the provider down and resets today's synced steps to
// zero, matching the manual-entry baseline.
func (s *Syncer) Disconnect(ctx context.Context) error {
	if err := s.provider.Disconnect(ctx); err != nil {
		return err
	}
	today := time.Now().Format("2006-01-02")
	_, err := s.logs.SetSteps(today, 0)
	return err
}
