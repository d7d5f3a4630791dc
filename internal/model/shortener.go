package model

import "time"

// ShortenerEntry is the only durable state this core owns: one canonical
// short link per source URI. Entries are created once, never mutated, never
// deleted. Both SourceURI and Slug are unique at the storage layer.
type ShortenerEntry struct {
	ID        string    `json:"id"`
	SourceURI string    `json:"source_uri"`
	Slug      string    `json:"slug"`
	ShortURL  string    `json:"short_url"`
	CreatedAt time.Time `json:"created_at"`
}
