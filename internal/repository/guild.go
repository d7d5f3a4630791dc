package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tiktoker/tiktoker/internal/model"
)

// ErrGuildConfigNotFound means no row exists yet for the guild.
var ErrGuildConfigNotFound = errors.New("guild config not found")

// GetGuildConfig retrieves a guild's config row.
func (r *Repository) GetGuildConfig(ctx context.Context, guildID int64) (*model.GuildConfig, error) {
	query := `
		SELECT guild_id, auto_embed, delete_origin, suppress_origin_embed, language, updated_at
		FROM guild_configs
		WHERE guild_id = $1
	`

	var cfg model.GuildConfig
	err := r.pool.QueryRow(ctx, query, guildID).Scan(
		&cfg.GuildID,
		&cfg.AutoEmbed,
		&cfg.DeleteOrigin,
		&cfg.SuppressOriginEmbed,
		&cfg.Language,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGuildConfigNotFound
		}
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}

	return &cfg, nil
}

// UpsertGuildConfig inserts or replaces a guild's config row.
func (r *Repository) UpsertGuildConfig(ctx context.Context, cfg *model.GuildConfig) error {
	query := `
		INSERT INTO guild_configs (guild_id, auto_embed, delete_origin, suppress_origin_embed, language, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (guild_id) DO UPDATE SET
			auto_embed = EXCLUDED.auto_embed,
			delete_origin = EXCLUDED.delete_origin,
			suppress_origin_embed = EXCLUDED.suppress_origin_embed,
			language = EXCLUDED.language,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		cfg.GuildID,
		cfg.AutoEmbed,
		cfg.DeleteOrigin,
		cfg.SuppressOriginEmbed,
		cfg.Language,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert guild config: %w", err)
	}

	return nil
}
