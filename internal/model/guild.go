package model

import "time"

// GuildConfig holds per-guild behavior toggles for the chat layer.
type GuildConfig struct {
	GuildID             int64     `json:"guild_id"`
	AutoEmbed           bool      `json:"auto_embed"`
	DeleteOrigin        bool      `json:"delete_origin"`
	SuppressOriginEmbed bool      `json:"suppress_origin_embed"`
	Language            string    `json:"language"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DefaultGuildConfig returns the config a guild gets before anyone has
// changed anything.
func DefaultGuildConfig(guildID int64) *GuildConfig {
	return &GuildConfig{
		GuildID:             guildID,
		AutoEmbed:           true,
		DeleteOrigin:        false,
		SuppressOriginEmbed: true,
		Language:            "en",
	}
}
