package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tiktoker/tiktoker/internal/model"
)

type fakeGuildService struct {
	cfg     *model.GuildConfig
	getErr  error
	updated *model.GuildConfig
}

func (f *fakeGuildService) GetConfig(ctx context.Context, guildID int64) (*model.GuildConfig, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.cfg != nil {
		return f.cfg, nil
	}
	return model.DefaultGuildConfig(guildID), nil
}

func (f *fakeGuildService) UpdateConfig(ctx context.Context, cfg *model.GuildConfig) error {
	f.updated = cfg
	return nil
}

func guildRouter(svc GuildConfigService) http.Handler {
	r := chi.NewRouter()
	h := NewGuildHandler(svc, discardLogger())
	r.Get("/api/v1/guilds/{guildID}/config", h.GetConfig)
	r.Put("/api/v1/guilds/{guildID}/config", h.UpdateConfig)
	return r
}

func TestGuildHandler_GetConfig_Default(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/guilds/42/config", nil)
	rec := httptest.NewRecorder()

	guildRouter(&fakeGuildService{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var cfg model.GuildConfig
	if err := json.NewDecoder(rec.Body).Decode(&cfg); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if cfg.GuildID != 42 {
		t.Errorf("guild_id = %d, want 42", cfg.GuildID)
	}
	if !cfg.AutoEmbed {
		t.Error("default auto_embed should be true")
	}
}

func TestGuildHandler_GetConfig_BadID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/guilds/not-a-number/config", nil)
	rec := httptest.NewRecorder()

	guildRouter(&fakeGuildService{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestGuildHandler_UpdateConfig_Partial(t *testing.T) {
	svc := &fakeGuildService{}

	body := `{"auto_embed": false, "language": "de"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/guilds/42/config", strings.NewReader(body))
	rec := httptest.NewRecorder()

	guildRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if svc.updated == nil {
		t.Fatal("UpdateConfig was not called")
	}
	if svc.updated.AutoEmbed {
		t.Error("auto_embed should be overridden to false")
	}
	if svc.updated.Language != "de" {
		t.Errorf("language = %q, want de", svc.updated.Language)
	}
	// Untouched fields keep their defaults.
	if !svc.updated.SuppressOriginEmbed {
		t.Error("suppress_origin_embed should stay true")
	}
}

func TestGuildHandler_UpdateConfig_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/guilds/42/config", strings.NewReader(`{broken`))
	rec := httptest.NewRecorder()

	guildRouter(&fakeGuildService{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}
