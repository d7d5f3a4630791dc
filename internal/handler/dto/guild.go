package dto

import "github.com/tiktoker/tiktoker/internal/model"

// UpdateGuildConfigRequest is a partial guild config update. Nil fields
// keep their current values.
type UpdateGuildConfigRequest struct {
	AutoEmbed           *bool   `json:"auto_embed,omitempty"`
	DeleteOrigin        *bool   `json:"delete_origin,omitempty"`
	SuppressOriginEmbed *bool   `json:"suppress_origin_embed,omitempty"`
	Language            *string `json:"language,omitempty"`
}

// RecordUsageRequest reports one successful resolution for bookkeeping.
type RecordUsageRequest struct {
	GuildID   int64  `json:"guild_id"`
	UserID    int64  `json:"user_id"`
	VideoID   uint64 `json:"video_id"`
	MessageID int64  `json:"message_id"`
}

// UsageListResponse wraps a list of usage records.
type UsageListResponse struct {
	Data []*model.UsageRecord `json:"data"`
}

// MusicResponse carries music detail stats.
type MusicResponse struct {
	VideoCount int64 `json:"video_count"`
}
