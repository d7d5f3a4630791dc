package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tiktoker/tiktoker/internal/handler/dto"
	"github.com/tiktoker/tiktoker/internal/tiktok"
)

// MusicFetcher looks up upstream music detail by id.
type MusicFetcher interface {
	FetchMusic(ctx context.Context, musicID int64) (*tiktok.MusicDetail, error)
}

// MusicHandler serves music detail lookups.
type MusicHandler struct {
	svc    MusicFetcher
	logger *slog.Logger
}

// NewMusicHandler creates a MusicHandler.
func NewMusicHandler(svc MusicFetcher, logger *slog.Logger) *MusicHandler {
	return &MusicHandler{
		svc:    svc,
		logger: logger,
	}
}

// Detail returns the stats for a music id.
// GET /api/v1/music/{musicID}
func (h *MusicHandler) Detail(w http.ResponseWriter, r *http.Request) {
	musicID, ok := pathID(w, r, "musicID", "INVALID_MUSIC_ID")
	if !ok {
		return
	}

	detail, err := h.svc.FetchMusic(r.Context(), musicID)
	if err != nil {
		switch {
		case errors.Is(err, tiktok.ErrMusicNotFound):
			writeError(w, http.StatusNotFound, "MUSIC_NOT_FOUND", "music not found upstream")
		case errors.Is(err, tiktok.ErrUpstreamUnavailable), errors.Is(err, tiktok.ErrMalformedUpstream):
			writeError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "upstream did not answer")
		default:
			h.logger.Error("music_detail_error", "music_id", musicID, "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.MusicResponse{VideoCount: detail.VideoCount})
}
