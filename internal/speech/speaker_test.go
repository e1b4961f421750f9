package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSpeaker_Speak(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/speak", r.URL.Path)

		var req speakRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Bonjour!", req.Text)
		assert.Equal(t, "fr-FR", req.Locale)
	}))
	defer server.Close()

	speaker := NewHTTPSpeaker(server.URL)
	assert.NoError(t, speaker.Speak(context.Background(), "Bonjour!", "fr-FR"))
}

func TestHTTPSpeaker_Speak_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no voices installed", http.StatusInternalServerError)
	}))
	defer server.Close()

	speaker := NewHTTPSpeaker(server.URL)
	err := speaker.Speak(context.Background(), "Hello", "en-US")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestNoopSpeaker(t *testing.T) {
	assert.NoError(t, NoopSpeaker{}.Speak(context.Background(), "Hello", "en-US"))
}
