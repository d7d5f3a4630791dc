package model

import "time"

// EmbedSizeLimit is the upstream chat platform's embed ceiling in bytes.
// The fetcher only surfaces the raw size; callers decide what to do with it.
const EmbedSizeLimit = 50_000_000

// Video holds the playable rendition selected during normalization.
type Video struct {
	DownloadURL string `json:"download_url"`
	CoverURL    string `json:"cover_url"`
	// SourceURI is the rendition-infrastructure identifier. It is the
	// short-URL dedup key, distinct from the numeric video id because
	// multiple ids can share rendition infrastructure.
	SourceURI string `json:"source_uri"`
	SizeBytes int64  `json:"size_bytes"`
}

// Statistics carries engagement counters. Every field is optional on input:
// an absent upstream field stays nil rather than defaulting to zero, since
// "unset" and "confirmed zero" are different facts to a consumer.
type Statistics struct {
	PlayCount     *int64 `json:"play_count,omitempty"`
	LikeCount     *int64 `json:"like_count,omitempty"`
	CommentCount  *int64 `json:"comment_count,omitempty"`
	ShareCount    *int64 `json:"share_count,omitempty"`
	DownloadCount *int64 `json:"download_count,omitempty"`
}

// Music describes the audio attached to a video.
type Music struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	PlayURL       string `json:"play_url"`
	CoverURL      string `json:"cover_url"`
	OwnerNickname string `json:"owner_nickname"`
	OwnerHandle   string `json:"owner_handle"`
	WebsiteURL    string `json:"website_url"`
	OwnerURL      string `json:"owner_url"`
	AvatarURL     string `json:"avatar_url,omitempty"`
}

// Author describes the video's creator.
type Author struct {
	Nickname     string `json:"nickname"`
	UniqueHandle string `json:"unique_handle"`
	ProfileURL   string `json:"profile_url"`
	AvatarURL    string `json:"avatar_url"`
}

// Description splits the upstream caption into its raw form, a cleaned form
// with hashtags stripped, and the ordered hashtag list.
type Description struct {
	Raw     string   `json:"raw"`
	Cleaned string   `json:"cleaned"`
	Tags    []string `json:"tags"`
}

// VideoRecord is the normalized projection of upstream video metadata.
// Constructed fresh on every fetch and never cached; only the short URL
// derived from it is durable.
type VideoRecord struct {
	ID          uint64      `json:"id"`
	Video       Video       `json:"video"`
	Statistics  Statistics  `json:"statistics"`
	Music       Music       `json:"music"`
	Author      Author      `json:"author"`
	Description Description `json:"description"`
	ShareURL    string      `json:"share_url"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ExceedsEmbedLimit reports whether the rendition is past the chat
// platform's embed size ceiling.
func (r *VideoRecord) ExceedsEmbedLimit() bool {
	return r.Video.SizeBytes > EmbedSizeLimit
}

// ResolvedLink is the full outcome of one resolution pipeline run.
type ResolvedLink struct {
	Record   *VideoRecord `json:"record"`
	ShortURL string       `json:"short_url"`
	Platform Platform     `json:"platform"`
}
