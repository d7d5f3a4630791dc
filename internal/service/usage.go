package service

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tiktoker/tiktoker/internal/model"
	"github.com/tiktoker/tiktoker/internal/repository"
)

// UsageService records and serves resolution bookkeeping.
type UsageService struct {
	repo *repository.Repository
}

// NewUsageService creates a UsageService.
func NewUsageService(repo *repository.Repository) *UsageService {
	return &UsageService{repo: repo}
}

// Record appends a usage record for a successful resolution. Opted-out
// users are recorded without attribution: the row stays so per-guild video
// counts remain meaningful.
func (s *UsageService) Record(ctx context.Context, guildID, userID int64, videoID uint64, messageID int64) error {
	optedOut, err := s.repo.IsOptedOut(ctx, userID)
	if err != nil {
		return err
	}

	rec := &model.UsageRecord{
		ID:        ulid.Make().String(),
		GuildID:   guildID,
		VideoID:   videoID,
		EntryTime: time.Now().UTC(),
	}
	if !optedOut {
		rec.UserID = &userID
		rec.MessageID = &messageID
	}

	return s.repo.InsertUsage(ctx, rec)
}

// GuildUsage lists a guild's usage records.
func (s *UsageService) GuildUsage(ctx context.Context, guildID int64) ([]*model.UsageRecord, error) {
	return s.repo.ListGuildUsage(ctx, guildID)
}

// UserUsage lists records attributed to a user.
func (s *UsageService) UserUsage(ctx context.Context, userID int64) ([]*model.UsageRecord, error) {
	return s.repo.ListUserUsage(ctx, userID)
}

// OptOut stops future attribution for a user and scrubs nothing by itself;
// use Scrub for historical rows.
func (s *UsageService) OptOut(ctx context.Context, userID int64) error {
	return s.repo.AddOptOut(ctx, userID)
}

// OptIn re-enables attribution for a user.
func (s *UsageService) OptIn(ctx context.Context, userID int64) error {
	return s.repo.RemoveOptOut(ctx, userID)
}

// Scrub removes attribution from a user's historical rows in a guild.
func (s *UsageService) Scrub(ctx context.Context, guildID, userID int64) error {
	return s.repo.ScrubUserUsage(ctx, guildID, userID)
}
