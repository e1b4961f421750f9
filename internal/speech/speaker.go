package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Speaker voices assistant responses. Callers invoke it fire-and-forget:
// failures are logged and swallowed, playback is never awaited by the chat
// flow and never affects chat state.
type Speaker interface {
	Speak(ctx context.Context, text, locale string) error
}

type httpSpeaker struct {
	client *http.Client
	url    string
}

// NewHTTPSpeaker returns a Speaker that posts utterances to a
// text-to-speech endpoint.
func NewHTTPSpeaker(url string) Speaker {
	return &httpSpeaker{
		client: &http.Client{},
		url:    url,
	}
}

type speakRequest struct {
	Text   string `json:"text"`
	Locale string `json:"locale"`
}

func (s *httpSpeaker) Speak(ctx context.Context, text, locale string) error {
	body, err := json.Marshal(speakRequest{Text: text, Locale: locale})
	if err != nil {
		return fmt.Errorf("could not marshal speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url+"/v1/speak", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("could not create speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("speech service returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

// NoopSpeaker is used when no speech endpoint is configured.
type NoopSpeaker struct{}

func (NoopSpeaker) Speak(context.Context, string, string) error { return nil }
