package service

import (
	"context"
	"errors"

	"github.com/tiktoker/tiktoker/internal/cache"
	"github.com/tiktoker/tiktoker/internal/model"
	"github.com/tiktoker/tiktoker/internal/repository"
)

// GuildService manages per-guild configuration with a cache-aside layer.
type GuildService struct {
	repo  *repository.Repository
	cache *cache.Cache
}

// NewGuildService creates a GuildService.
func NewGuildService(repo *repository.Repository, cacheClient *cache.Cache) *GuildService {
	return &GuildService{
		repo:  repo,
		cache: cacheClient,
	}
}

// GetConfig returns a guild's config, creating the default row on first
// access so later updates always have something to build on.
func (s *GuildService) GetConfig(ctx context.Context, guildID int64) (*model.GuildConfig, error) {
	if cached, err := s.cache.GetGuildConfig(ctx, guildID); err == nil {
		return cached, nil
	}

	cfg, err := s.repo.GetGuildConfig(ctx, guildID)
	if err != nil {
		if !errors.Is(err, repository.ErrGuildConfigNotFound) {
			return nil, err
		}
		cfg = model.DefaultGuildConfig(guildID)
		if err := s.repo.UpsertGuildConfig(ctx, cfg); err != nil {
			return nil, err
		}
	}

	// Backfill cache; eventual consistency is acceptable.
	_ = s.cache.SetGuildConfig(ctx, cfg)

	return cfg, nil
}

// UpdateConfig replaces a guild's config and invalidates the cache.
func (s *GuildService) UpdateConfig(ctx context.Context, cfg *model.GuildConfig) error {
	if err := s.repo.UpsertGuildConfig(ctx, cfg); err != nil {
		return err
	}

	_ = s.cache.DeleteGuildConfig(ctx, cfg.GuildID)

	return nil
}
