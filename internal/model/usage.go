package model

import "time"

// UsageRecord is an append-only bookkeeping row created after each
// successful resolution. UserID and MessageID are nullable: opted-out users
// are recorded without attribution.
type UsageRecord struct {
	ID        string    `json:"id"`
	GuildID   int64     `json:"guild_id"`
	UserID    *int64    `json:"user_id,omitempty"`
	VideoID   uint64    `json:"video_id"`
	MessageID *int64    `json:"message_id,omitempty"`
	EntryTime time.Time `json:"entry_time"`
}
