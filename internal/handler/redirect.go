package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tiktoker/tiktoker/internal/model"
	"github.com/tiktoker/tiktoker/internal/service"
)

// SlugResolver looks up a shortener entry by slug for redirecting.
type SlugResolver interface {
	Lookup(ctx context.Context, slug string) (*model.ShortenerEntry, bool, error)
}

// RedirectHandler serves the short-link redirect hot path.
type RedirectHandler struct {
	svc         SlugResolver
	playbackURL string
	logger      *slog.Logger
}

// NewRedirectHandler creates a RedirectHandler. playbackURL is a Sprintf
// template taking the entry's source URI.
func NewRedirectHandler(svc SlugResolver, playbackURL string, logger *slog.Logger) *RedirectHandler {
	return &RedirectHandler{
		svc:         svc,
		playbackURL: playbackURL,
		logger:      logger,
	}
}

// Redirect handles GET /{slug}: 302 to the playback URL for the stored
// source URI.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		h.writeError(w, http.StatusNotFound, "SHORT_LINK_NOT_FOUND", "short link not found")
		return
	}

	start := time.Now()

	entry, cacheHit, err := h.svc.Lookup(r.Context(), slug)
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, service.ErrShortLinkNotFound) {
			h.logger.Info("redirect_not_found",
				"slug", slug,
				"duration_ms", float64(duration.Microseconds())/1000,
			)
			h.writeError(w, http.StatusNotFound, "SHORT_LINK_NOT_FOUND", "short link not found")
			return
		}
		h.logger.Error("redirect_error",
			"slug", slug,
			"error", err,
			"duration_ms", float64(duration.Microseconds())/1000,
		)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		return
	}

	h.logger.Info("redirect_success",
		"slug", slug,
		"cache_hit", cacheHit,
		"duration_ms", float64(duration.Microseconds())/1000,
	)

	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Cache-Control", "private, max-age=0")

	destination := fmt.Sprintf(h.playbackURL, entry.SourceURI)
	http.Redirect(w, r, destination, http.StatusFound)
}

func (h *RedirectHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=0")
	writeError(w, status, code, message)
}
