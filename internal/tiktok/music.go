package tiktok

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrMusicNotFound means the audio was deleted or taken down upstream.
var ErrMusicNotFound = errors.New("music not found upstream")

// musicGoneStatus is the upstream status code for removed audio.
const musicGoneStatus = 10218

// The public music endpoint rejects requests without a browser user agent.
const musicUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:97.0) Gecko/20100101 Firefox/97.0"

// MusicDetail carries the extra stats the detail payload does not include.
type MusicDetail struct {
	VideoCount int64 `json:"video_count"`
}

type musicDetailResponse struct {
	StatusCode int `json:"statusCode"`
	MusicInfo  *struct {
		Stats *struct {
			VideoCount int64 `json:"videoCount"`
		} `json:"stats"`
	} `json:"musicInfo"`
}

// FetchMusic retrieves the public music detail for a music id.
func (f *Fetcher) FetchMusic(ctx context.Context, musicID int64) (*MusicDetail, error) {
	endpoint := fmt.Sprintf(f.musicURL, musicID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build music request: %w", err)
	}
	req.Header.Set("User-Agent", musicUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: music endpoint returned %d", ErrMusicNotFound, resp.StatusCode)
	}

	var payload musicDetailResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode music response: %v", ErrMalformedUpstream, err)
	}

	if payload.StatusCode == musicGoneStatus {
		return nil, fmt.Errorf("%w: id %d", ErrMusicNotFound, musicID)
	}
	if payload.MusicInfo == nil || payload.MusicInfo.Stats == nil {
		return nil, fmt.Errorf("%w: music info missing", ErrMalformedUpstream)
	}

	return &MusicDetail{VideoCount: payload.MusicInfo.Stats.VideoCount}, nil
}
