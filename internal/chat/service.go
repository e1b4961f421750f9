package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"stacy-ai/backend/internal/apperrors"
	"stacy-ai/backend/internal/i18n"
	"stacy-ai/backend/internal/llm"
	"stacy-ai/backend/internal/model"
	"stacy-ai/backend/internal/session"
	"stacy-ai/backend/internal/settings"
	"stacy-ai/backend/internal/speech"
)

// systemInstructionTemplate is the fixed frame around the user-configured
// personality text.
const systemInstructionTemplate = "You are Stacy AI, a world-class personal assistant. " +
	"You are multilingual and can communicate fluently in any language. Personality: %s. " +
	"Always respond in the language the user uses. Use Markdown for formatting."

// imageAspectRatio is the fixed aspect-ratio configuration for image
// generation.
const imageAspectRatio = "1:1"

// Config carries the generation parameters that are deployment concerns
// rather than user settings.
type Config struct {
	Model string
}

// Service bridges a single user turn to the remote generation service. It
// never mutates a session directly: all message writes go through the
// session store's ReplaceMessages, preserving a single mutation path.
type Service struct {
	sessions *session.Store
	settings *settings.Store
	provider llm.Provider
	speaker  speech.Speaker
	cfg      Config

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService wires a chat service.
func NewService(sessions *session.Store, userSettings *settings.Store, provider llm.Provider, speaker speech.Speaker, cfg Config) *Service {
	return &Service{
		sessions: sessions,
		settings: userSettings,
		provider: provider,
		speaker:  speaker,
		cfg:      cfg,
		inFlight: make(map[string]struct{}),
	}
}

// Send handles one user submission against a session. Pre-flight failures
// (empty input, unknown session, a response already in flight for the
// session) are returned synchronously without touching the stream. On
// success the turn runs in the background; chunks arrive on out, which is
// closed when the turn finishes. Remote failures are not returned: they
// are converted into a localized assistant message and a final error
// chunk.
func (s *Service) Send(ctx context.Context, sessionID, content string, out chan<- model.StreamChunk) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("%w: message content is empty", apperrors.ErrValidation)
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}

	if !s.begin(sessionID) {
		return fmt.Errorf("%w: a response is already in flight for this session", apperrors.ErrConflict)
	}

	go func() {
		defer s.end(sessionID)
		defer close(out)
		s.run(ctx, sess, content, out)
	}()
	return nil
}

func (s *Service) run(ctx context.Context, sess model.ChatSession, content string, out chan<- model.StreamChunk) {
	userSettings := s.settings.Get()
	strs := i18n.For(userSettings.Language)

	userMessage := model.Message{
		ID:        uuid.NewString(),
		Role:      model.RoleUser,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	}
	withUser := append(append([]model.Message(nil), sess.Messages...), userMessage)
	s.sessions.ReplaceMessages(ctx, sess.ID, withUser)

	if IsImageRequest(content) {
		s.runImage(ctx, sess.ID, content, withUser, strs, out)
		return
	}
	s.runText(ctx, sess.ID, withUser, userSettings, strs, out)
}

// runText drives the incremental-delivery contract: each fragment from the
// remote stream is appended to the growing response, and the cumulative
// string is written back through ReplaceMessages so the UI reflects
// partial output in real time.
func (s *Service) runText(ctx context.Context, sessionID string, history []model.Message, userSettings model.UserSettings, strs i18n.Strings, out chan<- model.StreamChunk) {
	req := &llm.GenerateRequest{
		Model:             s.cfg.Model,
		History:           toTurns(history),
		SystemInstruction: fmt.Sprintf(systemInstructionTemplate, userSettings.Personality),
		Temperature:       userSettings.Temperature,
	}

	assistantMessage := model.Message{
		ID:        uuid.NewString(),
		Role:      model.RoleAssistant,
		Timestamp: time.Now().UnixMilli(),
	}
	s.sessions.ReplaceMessages(ctx, sessionID, append(history, assistantMessage))

	streamCh := make(chan llm.StreamResponse)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.provider.GenerateStream(ctx, req, streamCh)
	}()

	var full strings.Builder
	for chunk := range streamCh {
		if chunk.Content == "" {
			continue
		}
		full.WriteString(chunk.Content)
		assistantMessage.Content = full.String()
		s.sessions.ReplaceMessages(ctx, sessionID, append(history, assistantMessage))
		out <- model.StreamChunk{Content: chunk.Content}
	}

	if err := <-errCh; err != nil {
		slog.Error("Text generation failed", "session_id", sessionID, "error", err)
		assistantMessage.Content = strs.AssistantError
		s.sessions.ReplaceMessages(ctx, sessionID, append(history, assistantMessage))
		out <- model.StreamChunk{Error: strs.AssistantError, Done: true}
		return
	}

	out <- model.StreamChunk{Done: true}
	s.settings.ConsumeCredit(ctx)

	if userSettings.VoiceEnabled && full.Len() > 0 {
		// Fire and forget: playback is never awaited and failures never
		// reach the chat state.
		go s.speak(full.String(), userSettings.Language)
	}
}

// runImage swaps a single placeholder for the final artifact; nothing is
// streamed incrementally.
func (s *Service) runImage(ctx context.Context, sessionID, content string, history []model.Message, strs i18n.Strings, out chan<- model.StreamChunk) {
	placeholder := model.Message{
		ID:        uuid.NewString(),
		Role:      model.RoleAssistant,
		Content:   strs.GeneratingImage,
		Timestamp: time.Now().UnixMilli(),
	}
	s.sessions.ReplaceMessages(ctx, sessionID, append(history, placeholder))
	out <- model.StreamChunk{Content: strs.GeneratingImage}

	image, err := s.provider.GenerateImage(ctx, &llm.ImageRequest{
		Prompt:      ImagePrompt(content),
		AspectRatio: imageAspectRatio,
	})
	if err != nil {
		slog.Error("Image generation failed", "session_id", sessionID, "error", err)
		placeholder.Content = strs.AssistantError
		s.sessions.ReplaceMessages(ctx, sessionID, append(history, placeholder))
		out <- model.StreamChunk{Error: strs.AssistantError, Done: true}
		return
	}

	// The rendering layer detects the markdown data-URI convention and
	// shows the image with a download affordance.
	placeholder.Content = fmt.Sprintf("![%s](data:%s;base64,%s)", strs.ImageAlt, image.MimeType, image.Base64Data)
	s.sessions.ReplaceMessages(ctx, sessionID, append(history, placeholder))
	out <- model.StreamChunk{Content: placeholder.Content, Done: true}

	s.settings.ConsumeCredit(ctx)
}

func (s *Service) speak(text, language string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.speaker.Speak(ctx, text, i18n.LocaleFor(language)); err != nil {
		slog.Warn("Speech playback failed", "error", err)
	}
}

// begin marks a session as having a request in flight. It reports false if
// one is already pending, enforcing at most one outstanding request per
// session.
func (s *Service) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *Service) end(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}

// toTurns converts session history to the neutral role vocabulary of the
// remote service; assistant maps to "model".
func toTurns(messages []model.Message) []llm.Turn {
	turns := make([]llm.Turn, 0, len(messages))
	for _, msg := range messages {
		role := llm.TurnUser
		if msg.Role == model.RoleAssistant {
			role = llm.TurnModel
		}
		turns = append(turns, llm.Turn{Role: role, Text: msg.Content})
	}
	return turns
}
