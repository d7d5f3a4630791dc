package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tiktoker/tiktoker/internal/handler/dto"
	"github.com/tiktoker/tiktoker/internal/model"
)

// GuildConfigService manages per-guild configuration.
type GuildConfigService interface {
	GetConfig(ctx context.Context, guildID int64) (*model.GuildConfig, error)
	UpdateConfig(ctx context.Context, cfg *model.GuildConfig) error
}

// GuildHandler serves guild configuration endpoints.
type GuildHandler struct {
	svc    GuildConfigService
	logger *slog.Logger
}

// NewGuildHandler creates a GuildHandler.
func NewGuildHandler(svc GuildConfigService, logger *slog.Logger) *GuildHandler {
	return &GuildHandler{
		svc:    svc,
		logger: logger,
	}
}

// GetConfig returns a guild's config, creating the default on first access.
// GET /api/v1/guilds/{guildID}/config
func (h *GuildHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	guildID, ok := pathID(w, r, "guildID", "INVALID_GUILD_ID")
	if !ok {
		return
	}

	cfg, err := h.svc.GetConfig(r.Context(), guildID)
	if err != nil {
		h.logger.Error("guild_config_get_error", "guild_id", guildID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

// UpdateConfig applies a partial update to a guild's config.
// PUT /api/v1/guilds/{guildID}/config
func (h *GuildHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	guildID, ok := pathID(w, r, "guildID", "INVALID_GUILD_ID")
	if !ok {
		return
	}

	var req dto.UpdateGuildConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body")
		return
	}

	cfg, err := h.svc.GetConfig(r.Context(), guildID)
	if err != nil {
		h.logger.Error("guild_config_get_error", "guild_id", guildID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		return
	}

	if req.AutoEmbed != nil {
		cfg.AutoEmbed = *req.AutoEmbed
	}
	if req.DeleteOrigin != nil {
		cfg.DeleteOrigin = *req.DeleteOrigin
	}
	if req.SuppressOriginEmbed != nil {
		cfg.SuppressOriginEmbed = *req.SuppressOriginEmbed
	}
	if req.Language != nil {
		cfg.Language = *req.Language
	}
	cfg.UpdatedAt = time.Now().UTC()

	if err := h.svc.UpdateConfig(r.Context(), cfg); err != nil {
		h.logger.Error("guild_config_update_error", "guild_id", guildID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}
