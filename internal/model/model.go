package model

// Role values for chat messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single entry in a conversation. Messages are immutable once
// appended, except for the in-place content growth of the assistant message
// currently being streamed.
type Message struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // unix millis
}

// ChatSession is one independent conversation thread. Messages are kept in
// insertion (chronological) order.
type ChatSession struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	UpdatedAt int64     `json:"updatedAt"` // unix millis
}

// Theme values for UserSettings.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// UserSettings holds the user-configurable assistant parameters. A single
// instance exists per process, rehydrated from storage at startup and
// persisted on every change.
type UserSettings struct {
	UserName     string  `json:"userName"`
	APIKey       *string `json:"apiKey"`
	Theme        string  `json:"theme"`
	Personality  string  `json:"personality"`
	Language     string  `json:"language"`
	Temperature  float64 `json:"temperature"`
	VoiceEnabled bool    `json:"voiceEnabled"`
	Usage        int     `json:"usage"`
	Quota        int     `json:"quota"`
}

// UsagePercent reports consumed credits as a percentage of the quota,
// clamped to 100. Usage itself is never clamped at the store level.
func (s UserSettings) UsagePercent() float64 {
	if s.Quota <= 0 {
		return 100
	}
	pct := float64(s.Usage) / float64(s.Quota) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// CreditsRemaining reports the credits left against the quota, clamped to 0.
func (s UserSettings) CreditsRemaining() int {
	remaining := s.Quota - s.Usage
	if remaining < 0 {
		return 0
	}
	return remaining
}

// StreamChunk is a single increment of a streaming assistant response as
// delivered to the client. Content carries the delta, not the accumulated
// text; the session store holds the cumulative state.
type StreamChunk struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
	Error   string `json:"error,omitempty"`
}
