package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stacy-ai/backend/internal/apperrors"
	"stacy-ai/backend/internal/chat"
	"stacy-ai/backend/internal/i18n"
	"stacy-ai/backend/internal/model"
	"stacy-ai/backend/internal/session"
	"stacy-ai/backend/internal/settings"
)

// SessionHandler exposes the session collection and the message streaming
// endpoint.
type SessionHandler struct {
	sessions *session.Store
	settings *settings.Store
	chat     *chat.Service
}

func NewSessionHandler(sessions *session.Store, userSettings *settings.Store, chatService *chat.Service) *SessionHandler {
	return &SessionHandler{sessions: sessions, settings: userSettings, chat: chatService}
}

// SessionListResponse carries the ordered collection together with the
// active-session pointer.
type SessionListResponse struct {
	Sessions []model.ChatSession `json:"sessions"`
	ActiveID string              `json:"activeId"`
}

// SendMessageRequest is the DTO for a user submission.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, SessionListResponse{
		Sessions: h.sessions.List(),
		ActiveID: h.sessions.ActiveID(),
	})
}

func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	strs := i18n.For(h.settings.Get().Language)
	id := h.sessions.Create(r.Context(), strs.NewChat)

	sess, err := h.sessions.Get(id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, sess)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sess)
}

func (h *SessionHandler) ActivateSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Select(chi.URLParam(r, "sessionID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// DeleteSession is idempotent: deleting an unknown id still answers ok.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(r.Context(), chi.URLParam(r, "sessionID"))
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *SessionHandler) ClearSessions(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearAll(r.Context())
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// StreamMessage accepts one user turn and streams the assistant response
// over SSE. Pre-flight failures are reported as plain JSON errors before
// the stream starts; failures mid-generation arrive as an error chunk.
func (h *SessionHandler) StreamMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request body", apperrors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	out := make(chan model.StreamChunk)
	if err := h.chat.Send(r.Context(), sessionID, req.Content, out); err != nil {
		respondWithError(w, err)
		return
	}

	setupSSEHeaders(w)

	clientGone := false
	for chunk := range out {
		if clientGone {
			// Keep draining so the producing goroutine can finish; the
			// turn itself is not cancelled by a dropped SSE consumer.
			continue
		}
		if err := writeStreamEvent(w, chunk); err != nil {
			slog.Warn("Client disconnected during stream", "session_id", sessionID, "error", err)
			clientGone = true
		}
	}
}
