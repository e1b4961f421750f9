package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	assert.Equal(t, "New chat", For(English).NewChat)
	assert.Equal(t, "Nouvelle discussion", For(French).NewChat)
	assert.Equal(t, "Nuevo chat", For(Spanish).NewChat)
	assert.Equal(t, "Neuer Chat", For(German).NewChat)

	// Unknown languages fall back to English.
	assert.Equal(t, For(English), For("Klingon"))
	assert.Equal(t, For(English), For(""))
}

func TestLocaleFor(t *testing.T) {
	tests := []struct {
		language, want string
	}{
		{English, "en-US"},
		{French, "fr-FR"},
		{Spanish, "es-ES"},
		{German, "de-DE"},
		{"Klingon", "en-US"},
		{"", "en-US"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LocaleFor(tt.language), tt.language)
	}
}
