package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tiktoker/tiktoker/internal/handler/dto"
	"github.com/tiktoker/tiktoker/internal/model"
)

// UsageTracker records and serves resolution bookkeeping.
type UsageTracker interface {
	Record(ctx context.Context, guildID, userID int64, videoID uint64, messageID int64) error
	GuildUsage(ctx context.Context, guildID int64) ([]*model.UsageRecord, error)
	UserUsage(ctx context.Context, userID int64) ([]*model.UsageRecord, error)
	OptOut(ctx context.Context, userID int64) error
	OptIn(ctx context.Context, userID int64) error
	Scrub(ctx context.Context, guildID, userID int64) error
}

// UsageHandler serves usage record and opt-out endpoints.
type UsageHandler struct {
	svc    UsageTracker
	logger *slog.Logger
}

// NewUsageHandler creates a UsageHandler.
func NewUsageHandler(svc UsageTracker, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		svc:    svc,
		logger: logger,
	}
}

// Record appends a usage record for a resolved video.
// POST /api/v1/usage
func (h *UsageHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body")
		return
	}
	if req.GuildID <= 0 || req.UserID <= 0 || req.VideoID == 0 {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "guild_id, user_id and video_id are required")
		return
	}

	if err := h.svc.Record(r.Context(), req.GuildID, req.UserID, req.VideoID, req.MessageID); err != nil {
		h.logger.Error("usage_record_error", "guild_id", req.GuildID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// GuildUsage lists a guild's usage records, newest first.
// GET /api/v1/guilds/{guildID}/usage
func (h *UsageHandler) GuildUsage(w http.ResponseWriter, r *http.Request) {
	guildID, ok := pathID(w, r, "guildID", "INVALID_GUILD_ID")
	if !ok {
		return
	}

	records, err := h.svc.GuildUsage(r.Context(), guildID)
	if err != nil {
		h.logger.Error("usage_list_error", "guild_id", guildID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.UsageListResponse{Data: records})
}

// UserUsage lists records attributed to a user, newest first.
// GET /api/v1/users/{userID}/usage
func (h *UsageHandler) UserUsage(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID", "INVALID_USER_ID")
	if !ok {
		return
	}

	records, err := h.svc.UserUsage(r.Context(), userID)
	if err != nil {
		h.logger.Error("usage_list_error", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.UsageListResponse{Data: records})
}

// OptOut stops attribution for future records of a user.
// POST /api/v1/users/{userID}/optout
func (h *UsageHandler) OptOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID", "INVALID_USER_ID")
	if !ok {
		return
	}

	if err := h.svc.OptOut(r.Context(), userID); err != nil {
		h.logger.Error("optout_error", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// OptIn re-enables attribution for a user.
// DELETE /api/v1/users/{userID}/optout
func (h *UsageHandler) OptIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID", "INVALID_USER_ID")
	if !ok {
		return
	}

	if err := h.svc.OptIn(r.Context(), userID); err != nil {
		h.logger.Error("optin_error", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Scrub removes attribution from a user's historical rows in a guild.
// DELETE /api/v1/guilds/{guildID}/users/{userID}/usage
func (h *UsageHandler) Scrub(w http.ResponseWriter, r *http.Request) {
	guildID, ok := pathID(w, r, "guildID", "INVALID_GUILD_ID")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID", "INVALID_USER_ID")
	if !ok {
		return
	}

	if err := h.svc.Scrub(r.Context(), guildID, userID); err != nil {
		h.logger.Error("usage_scrub_error", "guild_id", guildID, "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a positive int64 path parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, param, errCode string) (int64, bool) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, errCode, param+" must be a positive integer")
		return 0, false
	}
	return id, true
}
