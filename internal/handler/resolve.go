package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tiktoker/tiktoker/internal/handler/dto"
	"github.com/tiktoker/tiktoker/internal/model"
	"github.com/tiktoker/tiktoker/internal/tiktok"
)

// LinkResolver runs the full resolution pipeline on raw message text.
type LinkResolver interface {
	Resolve(ctx context.Context, content string) (*model.ResolvedLink, error)
}

// ResolveHandler exposes the resolution pipeline over HTTP.
type ResolveHandler struct {
	svc    LinkResolver
	logger *slog.Logger
}

// NewResolveHandler creates a ResolveHandler.
func NewResolveHandler(svc LinkResolver, logger *slog.Logger) *ResolveHandler {
	return &ResolveHandler{
		svc:    svc,
		logger: logger,
	}
}

// Resolve scans the submitted text for a video link and resolves it.
// POST /api/v1/resolve
func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req dto.ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "content is required")
		return
	}

	resolved, err := h.svc.Resolve(r.Context(), req.Content)
	if err != nil {
		h.handleResolveError(w, err)
		return
	}
	if resolved == nil {
		writeError(w, http.StatusNotFound, "NO_LINK_FOUND", "no recognizable video link in content")
		return
	}

	writeJSON(w, http.StatusOK, dto.ResolveResponse{
		Platform: string(resolved.Platform),
		ShortURL: resolved.ShortURL,
		Record:   resolved.Record,
	})
}

func (h *ResolveHandler) handleResolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tiktok.ErrUnresolvableLink):
		writeError(w, http.StatusUnprocessableEntity, "UNRESOLVABLE_LINK", "short link did not resolve to a video")

	case errors.Is(err, tiktok.ErrVideoNotFound):
		writeError(w, http.StatusNotFound, "VIDEO_NOT_FOUND", "video not found upstream")

	case errors.Is(err, tiktok.ErrUpstreamUnavailable):
		writeError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "upstream did not answer")

	case errors.Is(err, tiktok.ErrMalformedUpstream):
		writeError(w, http.StatusBadGateway, "MALFORMED_UPSTREAM", "upstream payload was not usable")

	default:
		h.logger.Error("resolve_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	}
}
