// Package steps supplies today's step count from an external fitness
// platform and merges it into the daily log.
package steps

import (
	"context"
	"errors"
)

var (
	// ErrUnauthenticated means the provider's credential is invalid or
	// expired. The sync orchestration drops the stored credential and the
	// user must reconnect.
	ErrUnauthenticated = errors.New("steps provider: unauthenticated")

	// ErrNetwork is a transient failure talking to the provider. Surfaced
	// to the caller; the next sync attempt is the retry.
	ErrNetwork = errors.New("steps provider: network error")

	// ErrNotConnected means no credential is stored.
	ErrNotConnected = errors.New("steps provider: not connected")

	// ErrSyncInFlight means a sync is already running; the request is
	// dropped rather than interleaved.
	ErrSyncInFlight = errors.New("steps sync already in flight")
)

// Provider is the capability the core consumes. How the count is obtained
// (and how the provider authorizes itself) is the provider's business.
type Provider interface {
	// Connected reports whether a credential is stored.
	Connected() bool
	// FetchTodaySteps returns the step count for the current calendar day.
	FetchTodaySteps(ctx context.Context) (int, error)
	// Disconnect drops the stored credential, revoking it if possible.
	Disconnect(ctx context.Context) error
}
