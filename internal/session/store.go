package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"stacy-ai/backend/internal/apperrors"
	"stacy-ai/backend/internal/model"
	"stacy-ai/backend/internal/repository"
)

// titleLimit is how many characters of the first message become the
// derived session title.
const titleLimit = 30

// Store owns the ordered session collection and the active-session
// pointer. The collection is kept most-recent-first. Every mutation is
// written through to the persistence layer so a page refresh (or process
// restart) never loses state; during streaming this means one full rewrite
// of the serialized list per chunk, a deliberate simplicity-over-throughput
// tradeoff.
type Store struct {
	mu       sync.RWMutex
	sessions []*model.ChatSession
	activeID string
	persist  repository.Store
}

// NewStore hydrates a session store from persisted state. A missing or
// unreadable payload silently yields an empty collection.
func NewStore(ctx context.Context, persist repository.Store) *Store {
	s := &Store{persist: persist}

	raw, err := persist.Load(ctx, repository.KeySessions)
	if err != nil {
		if err != repository.ErrNotFound {
			slog.Warn("Could not load persisted sessions, starting empty", "error", err)
		}
		return s
	}
	if err := json.Unmarshal(raw, &s.sessions); err != nil {
		slog.Warn("Persisted sessions are malformed, starting empty", "error", err)
		s.sessions = nil
	}
	return s
}

// Create allocates a new empty session, prepends it to the collection and
// marks it active. The returned id identifies the session from then on.
func (s *Store) Create(ctx context.Context, defaultTitle string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &model.ChatSession{
		ID:        uuid.NewString(),
		Title:     defaultTitle,
		Messages:  []model.Message{},
		UpdatedAt: time.Now().UnixMilli(),
	}
	s.sessions = append([]*model.ChatSession{sess}, s.sessions...)
	s.activeID = sess.ID

	s.save(ctx)
	return sess.ID
}

// Select moves the active pointer to the given session. Selecting an
// unknown id returns ErrNotFound and leaves the pointer untouched.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(id) == nil {
		return apperrors.ErrNotFound
	}
	s.activeID = id
	return nil
}

// Delete removes a session. Deleting the active session clears the active
// pointer; deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.sessions[:0]
	removed := false
	for _, sess := range s.sessions {
		if sess.ID == id {
			removed = true
			continue
		}
		kept = append(kept, sess)
	}
	if !removed {
		return
	}
	s.sessions = kept
	if s.activeID == id {
		s.activeID = ""
	}
	s.save(ctx)
}

// ReplaceMessages atomically swaps the full message sequence of a session.
// This is the only mutation path for message content: the streaming client
// calls it once per chunk with the cumulative state, so writes are total
// replacements and the last one wins. The title is recomputed from the
// current first message, and UpdatedAt refreshes.
//
// Replacing messages on a session that no longer exists is a silent no-op;
// this guards a stream that finishes after its session was deleted from
// resurrecting it.
func (s *Store) ReplaceMessages(ctx context.Context, id string, messages []model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.find(id)
	if sess == nil {
		return
	}

	sess.Messages = append([]model.Message(nil), messages...)
	if len(sess.Messages) >= 2 {
		sess.Title = deriveTitle(sess.Messages[0].Content)
	}
	sess.UpdatedAt = time.Now().UnixMilli()

	s.save(ctx)
}

// ClearAll empties the collection and clears the active pointer.
func (s *Store) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	s.activeID = ""
	s.save(ctx)
}

// List returns the sessions in order, most recently created first. The
// returned slice and its sessions are copies.
func (s *Store) List() []model.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ChatSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, copySession(sess))
	}
	return out
}

// Get returns a copy of one session, or ErrNotFound.
func (s *Store) Get(id string) (model.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess := s.find(id)
	if sess == nil {
		return model.ChatSession{}, apperrors.ErrNotFound
	}
	return copySession(sess), nil
}

// ActiveID returns the id of the active session, or "" when none is
// active.
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Active returns a copy of the active session. The second return is false
// when no session is active.
func (s *Store) Active() (model.ChatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess := s.find(s.activeID)
	if sess == nil {
		return model.ChatSession{}, false
	}
	return copySession(sess), true
}

// find must be called with the lock held.
func (s *Store) find(id string) *model.ChatSession {
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

// save must be called with the lock held. Persistence failures are logged
// and swallowed: the in-memory state is authoritative for the lifetime of
// the process and the store is local.
func (s *Store) save(ctx context.Context) {
	if err := s.persist.Save(ctx, repository.KeySessions, s.sessions); err != nil {
		slog.Warn("Failed to persist sessions", "error", err)
	}
}

func copySession(sess *model.ChatSession) model.ChatSession {
	out := *sess
	out.Messages = append([]model.Message(nil), sess.Messages...)
	return out
}

// deriveTitle truncates the first message to the title limit and appends
// an ellipsis marker.
func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) > titleLimit {
		runes = runes[:titleLimit]
	}
	return string(runes) + "..."
}
