package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Provider is the interface to the remote generation service. The wire
// protocol is an external dependency; only the delivery contracts matter
// here: GenerateStream produces a lazy finite sequence of text fragments
// and closes the channel when the stream ends, GenerateImage resolves once
// with a complete artifact or fails.
type Provider interface {
	GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error
	GenerateImage(ctx context.Context, req *ImageRequest) (*ImageResponse, error)
}

type httpProvider struct {
	client *http.Client
	url    string
	apiKey string
}

// NewHTTPProvider returns a Provider that talks to the completion service
// at the given base URL. The apiKey may be empty for unauthenticated local
// services.
func NewHTTPProvider(url, apiKey string) Provider {
	return &httpProvider{
		client: &http.Client{},
		url:    url,
		apiKey: apiKey,
	}
}

// streamChunk is one line of the newline-delimited JSON stream body.
type streamChunk struct {
	Text  string `json:"text"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

func (p *httpProvider) GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error {
	defer close(ch)

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+"/v1/chat/stream", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	p.setHeaders(httpReq)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api returned non-200 status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var chunk streamChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return fmt.Errorf("malformed stream chunk: %w", err)
		}
		if chunk.Error != "" {
			return fmt.Errorf("remote error: %s", chunk.Error)
		}

		select {
		case ch <- StreamResponse{Content: chunk.Text, Done: chunk.Done}:
		case <-ctx.Done():
			return ctx.Err()
		}
		if chunk.Done {
			return nil
		}
	}
	return scanner.Err()
}

func (p *httpProvider) GenerateImage(ctx context.Context, req *ImageRequest) (*ImageResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+"/v1/images", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	p.setHeaders(httpReq)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api returned non-200 status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var image ImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&image); err != nil {
		return nil, fmt.Errorf("could not decode image response: %w", err)
	}
	if image.MimeType == "" || image.Base64Data == "" {
		return nil, fmt.Errorf("image response is missing payload")
	}
	return &image, nil
}

func (p *httpProvider) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
}
