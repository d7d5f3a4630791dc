package tiktok

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tiktoker/tiktoker/internal/model"
)

// Upstream errors.
var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrVideoNotFound       = errors.New("video not found upstream")
	ErrMalformedUpstream   = errors.New("malformed upstream payload")
)

// hashtagEntityType marks hashtag entries in the rich-text annotation list.
const hashtagEntityType = 1

// chosenRenditionIndex selects the download rendition from the upstream URL
// list. Index 2 is an opaque legacy constant carried over for compatibility
// with existing short links; do not re-derive a "best" rendition without
// upstream format confirmation.
const chosenRenditionIndex = 2

var whitespaceRun = regexp.MustCompile(`\s+`)

// Fetcher retrieves and normalizes upstream video metadata. One round trip
// per call, no retries; retry policy belongs to the caller.
type Fetcher struct {
	client    *http.Client
	detailURL string
	musicURL  string
}

// NewFetcher creates a Fetcher. detailURL and musicURL are Sprintf templates
// taking the numeric video id and music id respectively.
func NewFetcher(client *http.Client, detailURL, musicURL string) *Fetcher {
	return &Fetcher{
		client:    client,
		detailURL: detailURL,
		musicURL:  musicURL,
	}
}

// Upstream payload shapes. Only the fields normalization depends on are
// declared; everything else in the response is ignored.

type detailResponse struct {
	StatusCode  int          `json:"status_code"`
	AwemeDetail *awemeDetail `json:"aweme_detail"`
}

type awemeDetail struct {
	AwemeID    string          `json:"aweme_id"`
	CreateTime int64           `json:"create_time"`
	ShareURL   string          `json:"share_url"`
	Desc       string          `json:"desc"`
	TextExtra  []textExtra     `json:"text_extra"`
	Video      *videoInfo      `json:"video"`
	Statistics *statisticsInfo `json:"statistics"`
	Music      *musicInfo      `json:"music"`
	Author     *authorInfo     `json:"author"`
}

type textExtra struct {
	Type        int    `json:"type"`
	HashtagName string `json:"hashtag_name"`
}

// urlContainer is the upstream's recurring {uri, url_list, data_size} shape.
type urlContainer struct {
	URI      string   `json:"uri"`
	URLList  []string `json:"url_list"`
	DataSize int64    `json:"data_size"`
}

type videoInfo struct {
	PlayAddr *urlContainer `json:"play_addr"`
	Cover    *urlContainer `json:"cover"`
}

type statisticsInfo struct {
	PlayCount     *int64 `json:"play_count"`
	DiggCount     *int64 `json:"digg_count"`
	CommentCount  *int64 `json:"comment_count"`
	ShareCount    *int64 `json:"share_count"`
	DownloadCount *int64 `json:"download_count"`
}

type musicInfo struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	PlayURL       *urlContainer `json:"play_url"`
	CoverMedium   *urlContainer `json:"cover_medium"`
	AvatarThumb   *urlContainer `json:"avatar_thumb"`
	OwnerNickname string        `json:"owner_nickname"`
	OwnerHandle   string        `json:"owner_handle"`
}

type authorInfo struct {
	Nickname    string        `json:"nickname"`
	UniqueID    string        `json:"unique_id"`
	AvatarThumb *urlContainer `json:"avatar_thumb"`
}

// Fetch retrieves the detail payload for a numeric video id and normalizes
// it into a VideoRecord.
func (f *Fetcher) Fetch(ctx context.Context, videoID uint64) (*model.VideoRecord, error) {
	endpoint := fmt.Sprintf(f.detailURL, videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build detail request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: detail endpoint returned %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var payload detailResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode detail response: %v", ErrMalformedUpstream, err)
	}

	if payload.StatusCode != 0 || payload.AwemeDetail == nil {
		return nil, fmt.Errorf("%w: status_code=%d", ErrVideoNotFound, payload.StatusCode)
	}

	return normalize(payload.AwemeDetail)
}

// normalize projects the loosely-typed upstream detail object onto the
// stable VideoRecord shape.
func normalize(d *awemeDetail) (*model.VideoRecord, error) {
	id, err := strconv.ParseUint(d.AwemeID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: aweme_id %q", ErrMalformedUpstream, d.AwemeID)
	}

	video, err := normalizeVideo(d.Video)
	if err != nil {
		return nil, err
	}

	record := &model.VideoRecord{
		ID:          id,
		Video:       video,
		Statistics:  normalizeStatistics(d.Statistics),
		Music:       normalizeMusic(d.Music),
		Author:      normalizeAuthor(d.Author),
		Description: normalizeDescription(d.Desc, d.TextExtra),
		ShareURL:    normalizeShareURL(d.ShareURL),
		CreatedAt:   time.Unix(d.CreateTime, 0).UTC(),
	}
	return record, nil
}

func normalizeVideo(v *videoInfo) (model.Video, error) {
	if v == nil || v.PlayAddr == nil {
		return model.Video{}, fmt.Errorf("%w: no play_addr", ErrMalformedUpstream)
	}
	if len(v.PlayAddr.URLList) <= chosenRenditionIndex {
		return model.Video{}, fmt.Errorf("%w: %d rendition urls, need at least %d",
			ErrMalformedUpstream, len(v.PlayAddr.URLList), chosenRenditionIndex+1)
	}
	if v.PlayAddr.URI == "" {
		return model.Video{}, fmt.Errorf("%w: empty play_addr uri", ErrMalformedUpstream)
	}

	out := model.Video{
		DownloadURL: v.PlayAddr.URLList[chosenRenditionIndex],
		SourceURI:   v.PlayAddr.URI,
		SizeBytes:   v.PlayAddr.DataSize,
	}
	if v.Cover != nil && len(v.Cover.URLList) > 0 {
		out.CoverURL = v.Cover.URLList[0]
	}
	return out, nil
}

func normalizeStatistics(s *statisticsInfo) model.Statistics {
	if s == nil {
		return model.Statistics{}
	}
	// Absent counters stay nil; "unset" and "confirmed zero" are different
	// facts to a consumer.
	return model.Statistics{
		PlayCount:     s.PlayCount,
		LikeCount:     s.DiggCount,
		CommentCount:  s.CommentCount,
		ShareCount:    s.ShareCount,
		DownloadCount: s.DownloadCount,
	}
}

func normalizeMusic(m *musicInfo) model.Music {
	if m == nil {
		return model.Music{}
	}
	out := model.Music{
		ID:            m.ID,
		Title:         m.Title,
		OwnerNickname: m.OwnerNickname,
		OwnerHandle:   m.OwnerHandle,
		WebsiteURL:    fmt.Sprintf("https://www.tiktok.com/music/id-%d", m.ID),
		OwnerURL:      "https://www.tiktok.com/@" + m.OwnerHandle,
	}
	if m.PlayURL != nil && len(m.PlayURL.URLList) > 0 {
		out.PlayURL = m.PlayURL.URLList[0]
	}
	if m.CoverMedium != nil && len(m.CoverMedium.URLList) > 0 {
		out.CoverURL = m.CoverMedium.URLList[0]
	}
	if m.AvatarThumb != nil && len(m.AvatarThumb.URLList) > 0 {
		out.AvatarURL = m.AvatarThumb.URLList[0]
	}
	return out
}

func normalizeAuthor(a *authorInfo) model.Author {
	if a == nil {
		return model.Author{}
	}
	out := model.Author{
		Nickname:     a.Nickname,
		UniqueHandle: a.UniqueID,
		ProfileURL:   "https://www.tiktok.com/@" + a.UniqueID,
	}
	if a.AvatarThumb != nil && len(a.AvatarThumb.URLList) > 0 {
		out.AvatarURL = a.AvatarThumb.URLList[0]
	}
	return out
}

func normalizeDescription(desc string, extra []textExtra) model.Description {
	var tags []string
	for _, e := range extra {
		if e.Type == hashtagEntityType {
			tags = append(tags, e.HashtagName)
		}
	}
	return model.Description{
		Raw:     desc,
		Cleaned: cleanDescription(desc, extra),
		Tags:    tags,
	}
}

// cleanDescription strips each hashtag from the caption exactly once,
// case-insensitively, collapsing whitespace runs as it goes. The lowercase
// pass happens per tag iteration, matching long-standing upstream behavior.
func cleanDescription(desc string, extra []textExtra) string {
	cleaned := desc
	for _, e := range extra {
		if e.Type != hashtagEntityType {
			continue
		}
		cleaned = strings.Replace(strings.ToLower(cleaned), "#"+strings.ToLower(e.HashtagName), "", 1)
		cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	}
	return strings.TrimSpace(cleaned)
}

// normalizeShareURL truncates the share URL at the first ".html", dropping
// the query tail the upstream appends.
func normalizeShareURL(shareURL string) string {
	before, _, _ := strings.Cut(shareURL, ".html")
	return before
}
