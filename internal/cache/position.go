package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kestrelmc/kestrel/internal/vec"
)

// positionTTL bounds how long a disconnected player's last position stays
// cached before a cold rejoin falls back to the world spawn.
const positionTTL = 24 * time.Hour

// LastPosition is the serialized form of a player's position at disconnect.
type LastPosition struct {
	LayerID  string   `json:"layer_id"`
	Position vec.Vec3 `json:"position"`
	Look     vec.Look `json:"look"`
}

func positionKey(id uuid.UUID) string { return "pos:" + id.String() }

// SavePosition records id's position for recall on reconnect.
func (c *Cache) SavePosition(ctx context.Context, id uuid.UUID, pos LastPosition) error {
	data, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("cache: marshal position: %w", err)
	}
	return c.Set(ctx, positionKey(id), data, positionTTL)
}

// LoadPosition returns id's last cached position, or ErrMiss if none.
func (c *Cache) LoadPosition(ctx context.Context, id uuid.UUID) (LastPosition, error) {
	var pos LastPosition
	data, err := c.Get(ctx, positionKey(id))
	if err != nil {
		return pos, err
	}
	if err := json.Unmarshal(data, &pos); err != nil {
		return pos, fmt.Errorf("cache: unmarshal position: %w", err)
	}
	return pos, nil
}

// sessionServiceTTL matches the window a hasJoined response stays valid
// for repeat joins from the same client within one reconnect storm.
const sessionServiceTTL = 30 * time.Second

func sessionKey(serverHash string) string { return "auth:" + serverHash }

// SaveAuthResult caches a session-service verdict for serverHash so a
// flapping connection doesn't re-query Mojang on every retry.
func (c *Cache) SaveAuthResult(ctx context.Context, serverHash string, profileJSON []byte) error {
	return c.Set(ctx, sessionKey(serverHash), profileJSON, sessionServiceTTL)
}

// LoadAuthResult returns a cached session-service response, or ErrMiss.
func (c *Cache) LoadAuthResult(ctx context.Context, serverHash string) ([]byte, error) {
	return c.Get(ctx, sessionKey(serverHash))
}
