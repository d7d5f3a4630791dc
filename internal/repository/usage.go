package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tiktoker/tiktoker/internal/model"
)

// InsertUsage appends a usage record.
func (r *Repository) InsertUsage(ctx context.Context, rec *model.UsageRecord) error {
	query := `
		INSERT INTO usage_records (id, guild_id, user_id, video_id, message_id, entry_time)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.GuildID,
		rec.UserID,
		rec.VideoID,
		rec.MessageID,
		rec.EntryTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert usage record: %w", err)
	}

	return nil
}

// ListGuildUsage retrieves usage records for a guild, newest first.
func (r *Repository) ListGuildUsage(ctx context.Context, guildID int64) ([]*model.UsageRecord, error) {
	query := `
		SELECT id, guild_id, user_id, video_id, message_id, entry_time
		FROM usage_records
		WHERE guild_id = $1
		ORDER BY entry_time DESC
	`

	rows, err := r.pool.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild usage: %w", err)
	}
	defer rows.Close()

	return collectUsage(rows)
}

// ListUserUsage retrieves usage records attributed to a user, newest first.
func (r *Repository) ListUserUsage(ctx context.Context, userID int64) ([]*model.UsageRecord, error) {
	query := `
		SELECT id, guild_id, user_id, video_id, message_id, entry_time
		FROM usage_records
		WHERE user_id = $1
		ORDER BY entry_time DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user usage: %w", err)
	}
	defer rows.Close()

	return collectUsage(rows)
}

// ScrubUserUsage removes user attribution from a user's records in a guild.
// The rows themselves stay: video counts remain meaningful without identity.
func (r *Repository) ScrubUserUsage(ctx context.Context, guildID, userID int64) error {
	query := `
		UPDATE usage_records
		SET user_id = NULL, message_id = NULL
		WHERE guild_id = $1 AND user_id = $2
	`

	if _, err := r.pool.Exec(ctx, query, guildID, userID); err != nil {
		return fmt.Errorf("failed to scrub user usage: %w", err)
	}

	return nil
}

// AddOptOut records a user's opt-out from usage attribution.
func (r *Repository) AddOptOut(ctx context.Context, userID int64) error {
	query := `INSERT INTO opted_out (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to add opt-out: %w", err)
	}

	return nil
}

// RemoveOptOut deletes a user's opt-out row.
func (r *Repository) RemoveOptOut(ctx context.Context, userID int64) error {
	query := `DELETE FROM opted_out WHERE user_id = $1`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to remove opt-out: %w", err)
	}

	return nil
}

// IsOptedOut checks whether a user has opted out.
func (r *Repository) IsOptedOut(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM opted_out WHERE user_id = $1)`

	var optedOut bool
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&optedOut); err != nil {
		return false, fmt.Errorf("failed to check opt-out: %w", err)
	}

	return optedOut, nil
}

func collectUsage(rows pgx.Rows) ([]*model.UsageRecord, error) {
	var records []*model.UsageRecord
	for rows.Next() {
		var rec model.UsageRecord
		err := rows.Scan(
			&rec.ID,
			&rec.GuildID,
			&rec.UserID,
			&rec.VideoID,
			&rec.MessageID,
			&rec.EntryTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan usage record: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage records: %w", err)
	}

	return records, nil
}
