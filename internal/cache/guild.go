package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tiktoker/tiktoker/internal/model"
)

const (
	guildKeyPrefix = "guild:"

	// GuildConfigTTL bounds staleness of cached guild configs; updates also
	// invalidate explicitly.
	GuildConfigTTL = 10 * time.Minute
)

func guildKey(guildID int64) string {
	return guildKeyPrefix + strconv.FormatInt(guildID, 10)
}

// GetGuildConfig retrieves a cached guild config.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetGuildConfig(ctx context.Context, guildID int64) (*model.GuildConfig, error) {
	raw, err := c.client.Get(ctx, guildKey(guildID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cfg model.GuildConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode cached guild config: %w", err)
	}

	return &cfg, nil
}

// SetGuildConfig caches a guild config.
func (c *Cache) SetGuildConfig(ctx context.Context, cfg *model.GuildConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode guild config: %w", err)
	}

	if err := c.client.SetEx(ctx, guildKey(cfg.GuildID), raw, GuildConfigTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache guild config: %w", err)
	}

	return nil
}

// DeleteGuildConfig invalidates a cached guild config.
func (c *Cache) DeleteGuildConfig(ctx context.Context, guildID int64) error {
	if err := c.client.Del(ctx, guildKey(guildID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cached guild config: %w", err)
	}

	return nil
}
