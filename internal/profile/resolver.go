package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ErrBanned is returned by Resolve when the connecting profile is banned.
type ErrBanned struct {
	Reason string
}

func (e *ErrBanned) Error() string {
	if e.Reason == "" {
		return "profile: banned"
	}
	return fmt.Sprintf("profile: banned: %s", e.Reason)
}

// Resolve upserts the login record for (id, username) and enforces the
// ban check, returning ErrBanned if the player may not join. This is the
// single call internal/game's login completion makes into the store,
// whichever backend (MySQL or Mongo) is configured.
func Resolve(ctx context.Context, store Store, id uuid.UUID, username string) (*Record, error) {
	existing, err := store.Get(ctx, id)
	if err != nil && err != ErrNotFound {
		return nil, err
	}
	if existing != nil && existing.Banned {
		return nil, &ErrBanned{Reason: existing.BanReason}
	}
	rec, err := store.Upsert(ctx, id, username)
	if err != nil {
		return nil, fmt.Errorf("profile: resolve upsert: %w", err)
	}
	return rec, nil
}
