// Package profile resolves player profiles (uuid, username, ban status)
// and persists the record of who has connected before. Store is
// pluggable, with MySQL and Mongo implementations chosen by
// configuration. Records are uuid-keyed — there is no password here
// since authentication itself is handled by internal/session.
package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Record is one player's persisted profile.
type Record struct {
	UUID      uuid.UUID
	Username  string
	FirstSeen time.Time
	LastSeen  time.Time
	Banned    bool
	BanReason string
}

// Domain-level errors returned by Store implementations.
var (
	ErrNotFound = errors.New("profile: not found")
)

// Store persists and retrieves player profile records. Implementations
// must be safe for concurrent use, since the scheduler's Ingress phase may
// resolve several connecting clients' profiles concurrently.
type Store interface {
	// Get returns the stored record for id, or ErrNotFound if the player
	// has never connected before.
	Get(ctx context.Context, id uuid.UUID) (*Record, error)

	// Upsert records a login: creating the record on first sight, or
	// updating Username and LastSeen on subsequent ones.
	Upsert(ctx context.Context, id uuid.UUID, username string) (*Record, error)

	// SetBanned marks id banned or unbanned with the given reason.
	SetBanned(ctx context.Context, id uuid.UUID, banned bool, reason string) error

	// Close releases the store's underlying connection.
	Close() error
}
