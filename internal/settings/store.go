package settings

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"log/slog"
	"sync"

	"stacy-ai/backend/internal/model"
	"stacy-ai/backend/internal/repository"
)

// KeyPrefix is the fixed prefix of generated API keys. The key is
// cosmetic: no backend ever verifies it, it only feeds the developer
// tooling views.
const KeyPrefix = "Stacy~"

const keyBlockLen = 8

const keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Store owns the process-wide UserSettings object. It is hydrated from
// persisted state at startup (falling back to the provided defaults) and
// written through on every change.
type Store struct {
	mu       sync.RWMutex
	settings model.UserSettings
	persist  repository.Store
}

// NewStore loads persisted settings, or installs the defaults when nothing
// usable is stored. A malformed payload is treated the same as absence.
func NewStore(ctx context.Context, persist repository.Store, defaults model.UserSettings) *Store {
	s := &Store{persist: persist, settings: defaults}

	raw, err := persist.Load(ctx, repository.KeySettings)
	if err != nil {
		if err != repository.ErrNotFound {
			slog.Warn("Could not load persisted settings, using defaults", "error", err)
		}
		return s
	}

	var stored model.UserSettings
	if err := json.Unmarshal(raw, &stored); err != nil {
		slog.Warn("Persisted settings are malformed, using defaults", "error", err)
		return s
	}
	// Persisted state overwrites the defaults wholesale.
	s.settings = stored
	return s
}

// Get returns a snapshot of the current settings.
func (s *Store) Get() model.UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update replaces the settings wholesale and persists. The UI edits the
// full object, so no field-level merge is needed.
func (s *Store) Update(ctx context.Context, settings model.UserSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	s.save(ctx)
}

// GenerateAPIKey produces a fresh cosmetic key and resets usage to zero.
func (s *Store) GenerateAPIKey(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := KeyPrefix + randomBlock() + randomBlock()
	s.settings.APIKey = &key
	s.settings.Usage = 0
	s.save(ctx)
	return key
}

// ConsumeCredit records one credit-consumption event. Usage is not clamped
// here; exceeding the quota only matters as a display-level signal.
func (s *Store) ConsumeCredit(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.Usage++
	s.save(ctx)
}

// ToggleTheme flips between dark and light and returns the new theme.
func (s *Store) ToggleTheme(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings.Theme == model.ThemeDark {
		s.settings.Theme = model.ThemeLight
	} else {
		s.settings.Theme = model.ThemeDark
	}
	s.save(ctx)
	return s.settings.Theme
}

// save must be called with the lock held.
func (s *Store) save(ctx context.Context) {
	if err := s.persist.Save(ctx, repository.KeySettings, s.settings); err != nil {
		slog.Warn("Failed to persist settings", "error", err)
	}
}

// randomBlock returns 8 uppercase alphanumeric characters.
func randomBlock() string {
	buf := make([]byte, keyBlockLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on any supported platform; if it ever
		// does, a zeroed buffer still yields a valid (if predictable) key.
		slog.Warn("Random source failed while generating API key", "error", err)
	}
	out := make([]byte, keyBlockLen)
	for i, b := range buf {
		out[i] = keyAlphabet[int(b)%len(keyAlphabet)]
	}
	return string(out)
}
