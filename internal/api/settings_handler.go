package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"stacy-ai/backend/internal/apperrors"
	"stacy-ai/backend/internal/model"
	"stacy-ai/backend/internal/settings"
)

// SettingsHandler exposes the user settings singleton and the developer
// tooling values derived from it.
type SettingsHandler struct {
	settings *settings.Store
}

func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{settings: store}
}

// UpdateSettingsRequest is the DTO for a wholesale settings update.
type UpdateSettingsRequest struct {
	UserName     string  `json:"userName" validate:"required"`
	APIKey       *string `json:"apiKey"`
	Theme        string  `json:"theme" validate:"required,oneof=dark light"`
	Personality  string  `json:"personality" validate:"required"`
	Language     string  `json:"language" validate:"required"`
	Temperature  float64 `json:"temperature" validate:"gte=0,lte=1"`
	VoiceEnabled bool    `json:"voiceEnabled"`
	Usage        int     `json:"usage" validate:"gte=0"`
	Quota        int     `json:"quota" validate:"gt=0"`
}

// APIKeyResponse returns a freshly generated cosmetic key.
type APIKeyResponse struct {
	APIKey string `json:"apiKey"`
}

// ThemeResponse reports the theme after a toggle.
type ThemeResponse struct {
	Theme string `json:"theme"`
}

// UsageResponse carries the credit counters and their derived display
// values.
type UsageResponse struct {
	Usage            int     `json:"usage"`
	Quota            int     `json:"quota"`
	UsagePercent     float64 `json:"usagePercent"`
	CreditsRemaining int     `json:"creditsRemaining"`
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.settings.Get())
}

func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request body", apperrors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	h.settings.Update(r.Context(), model.UserSettings{
		UserName:     req.UserName,
		APIKey:       req.APIKey,
		Theme:        req.Theme,
		Personality:  req.Personality,
		Language:     req.Language,
		Temperature:  req.Temperature,
		VoiceEnabled: req.VoiceEnabled,
		Usage:        req.Usage,
		Quota:        req.Quota,
	})
	respondWithJSON(w, http.StatusOK, h.settings.Get())
}

func (h *SettingsHandler) GenerateAPIKey(w http.ResponseWriter, r *http.Request) {
	key := h.settings.GenerateAPIKey(r.Context())
	respondWithJSON(w, http.StatusOK, APIKeyResponse{APIKey: key})
}

func (h *SettingsHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, ThemeResponse{Theme: h.settings.ToggleTheme(r.Context())})
}

func (h *SettingsHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	s := h.settings.Get()
	respondWithJSON(w, http.StatusOK, UsageResponse{
		Usage:            s.Usage,
		Quota:            s.Quota,
		UsagePercent:     s.UsagePercent(),
		CreditsRemaining: s.CreditsRemaining(),
	})
}
