package llm

// Turn is one entry of the neutral conversation history sent to the
// remote service. Assistant messages map to the "model" role.
type Turn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// Neutral history roles.
const (
	TurnUser  = "user"
	TurnModel = "model"
)

// GenerateRequest describes one text-generation turn.
type GenerateRequest struct {
	Model             string  `json:"model"`
	History           []Turn  `json:"history,omitempty"`
	SystemInstruction string  `json:"system,omitempty"`
	Temperature       float64 `json:"temperature"`
}

// StreamResponse is a single fragment of a streaming text generation.
// Content is a delta; the stream is finite and cannot be restarted.
type StreamResponse struct {
	Content string
	Done    bool
	Error   string
}

// ImageRequest describes a single-shot image generation.
type ImageRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio"`
}

// ImageResponse is a completed image artifact.
type ImageResponse struct {
	MimeType   string `json:"mime_type"`
	Base64Data string `json:"data"`
}
