package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stacy-ai/backend/internal/apperrors"
	"stacy-ai/backend/internal/model"
	"stacy-ai/backend/internal/repository"
	"stacy-ai/backend/internal/session"
)

// fakeStore is an in-memory repository.Store that records every save so
// tests can observe the write-through behavior.
type fakeStore struct {
	data  map[string]json.RawMessage
	saves map[string][]json.RawMessage
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data:  make(map[string]json.RawMessage),
		saves: make(map[string][]json.RawMessage),
	}
}

func (f *fakeStore) Load(_ context.Context, key string) (json.RawMessage, error) {
	raw, ok := f.data[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return raw, nil
}

func (f *fakeStore) Save(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	f.saves[key] = append(f.saves[key], raw)
	return nil
}

func newStore(t *testing.T) (*session.Store, *fakeStore) {
	t.Helper()
	persist := newFakeStore()
	return session.NewStore(context.Background(), persist), persist
}

func messages(contents ...string) []model.Message {
	msgs := make([]model.Message, 0, len(contents))
	for i, c := range contents {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		msgs = append(msgs, model.Message{ID: c, Role: role, Content: c, Timestamp: int64(i)})
	}
	return msgs
}

func TestStore_Create(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	first := store.Create(ctx, "New chat")
	second := store.Create(ctx, "New chat")
	third := store.Create(ctx, "New chat")

	list := store.List()
	require.Len(t, list, 3)

	// Most recently created session is always at the front and active.
	assert.Equal(t, third, list[0].ID)
	assert.Equal(t, second, list[1].ID)
	assert.Equal(t, first, list[2].ID)
	assert.Equal(t, third, store.ActiveID())

	assert.Equal(t, "New chat", list[0].Title)
	assert.Empty(t, list[0].Messages)
}

func TestStore_Select(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	first := store.Create(ctx, "New chat")
	store.Create(ctx, "New chat")

	t.Run("existing id moves the pointer", func(t *testing.T) {
		require.NoError(t, store.Select(first))
		assert.Equal(t, first, store.ActiveID())
	})

	t.Run("unknown id is rejected without moving the pointer", func(t *testing.T) {
		err := store.Select("nope")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Equal(t, first, store.ActiveID())
	})
}

func TestStore_Active(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, ok := store.Active()
	assert.False(t, ok)

	id := store.Create(ctx, "New chat")
	active, ok := store.Active()
	require.True(t, ok)
	assert.Equal(t, id, active.ID)

	store.Delete(ctx, id)
	_, ok = store.Active()
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting the active session clears the pointer", func(t *testing.T) {
		store, _ := newStore(t)
		id := store.Create(ctx, "New chat")

		store.Delete(ctx, id)

		assert.Empty(t, store.ActiveID())
		assert.Empty(t, store.List())
	})

	t.Run("deleting a non-active session keeps the pointer", func(t *testing.T) {
		store, _ := newStore(t)
		first := store.Create(ctx, "New chat")
		second := store.Create(ctx, "New chat")

		store.Delete(ctx, first)

		assert.Equal(t, second, store.ActiveID())
		require.Len(t, store.List(), 1)
	})

	t.Run("deleting an unknown id is a no-op", func(t *testing.T) {
		store, _ := newStore(t)
		id := store.Create(ctx, "New chat")

		store.Delete(ctx, "nope")
		store.Delete(ctx, "nope")

		assert.Equal(t, id, store.ActiveID())
		assert.Len(t, store.List(), 1)
	})
}

func TestStore_ReplaceMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("title stays default below two messages", func(t *testing.T) {
		store, _ := newStore(t)
		id := store.Create(ctx, "New chat")

		store.ReplaceMessages(ctx, id, messages("hello"))

		sess, err := store.Get(id)
		require.NoError(t, err)
		assert.Equal(t, "New chat", sess.Title)
	})

	t.Run("title derives from the first message at two messages", func(t *testing.T) {
		store, _ := newStore(t)
		id := store.Create(ctx, "New chat")

		store.ReplaceMessages(ctx, id, messages(
			"Tell me everything about the history of computing",
			"Sure, let's start at the beginning.",
		))

		sess, err := store.Get(id)
		require.NoError(t, err)
		assert.Equal(t, "Tell me everything about the h...", sess.Title)
	})

	t.Run("title recomputes from the current first message", func(t *testing.T) {
		store, _ := newStore(t)
		id := store.Create(ctx, "New chat")

		store.ReplaceMessages(ctx, id, messages("first question", "answer"))
		store.ReplaceMessages(ctx, id, messages("a completely different question", "answer"))

		sess, err := store.Get(id)
		require.NoError(t, err)
		assert.Equal(t, "a completely different questio...", sess.Title)
	})

	t.Run("idempotent under repeated identical input", func(t *testing.T) {
		store, _ := newStore(t)
		id := store.Create(ctx, "New chat")
		msgs := messages("question", "answer")

		store.ReplaceMessages(ctx, id, msgs)
		before, err := store.Get(id)
		require.NoError(t, err)

		store.ReplaceMessages(ctx, id, msgs)
		after, err := store.Get(id)
		require.NoError(t, err)

		assert.Equal(t, before.Title, after.Title)
		assert.Equal(t, before.Messages, after.Messages)
		assert.GreaterOrEqual(t, after.UpdatedAt, before.UpdatedAt)
	})

	t.Run("replacing on a deleted session is a no-op", func(t *testing.T) {
		store, _ := newStore(t)
		id := store.Create(ctx, "New chat")
		store.Delete(ctx, id)

		store.ReplaceMessages(ctx, id, messages("question", "answer"))

		assert.Empty(t, store.List())
		_, err := store.Get(id)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestStore_ClearAll(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	store.Create(ctx, "New chat")
	store.Create(ctx, "New chat")

	store.ClearAll(ctx)

	assert.Empty(t, store.List())
	assert.Empty(t, store.ActiveID())
}

func TestStore_WriteThrough(t *testing.T) {
	ctx := context.Background()
	store, persist := newStore(t)

	id := store.Create(ctx, "New chat")
	store.ReplaceMessages(ctx, id, messages("question", "answer"))
	store.Delete(ctx, id)

	// Every mutation rewrites the full serialized list.
	require.Len(t, persist.saves[repository.KeySessions], 3)

	var last []model.ChatSession
	require.NoError(t, json.Unmarshal(persist.saves[repository.KeySessions][2], &last))
	assert.Empty(t, last)
}

func TestStore_Hydration(t *testing.T) {
	ctx := context.Background()

	t.Run("restores persisted sessions", func(t *testing.T) {
		persist := newFakeStore()
		original := session.NewStore(ctx, persist)
		id := original.Create(ctx, "New chat")
		original.ReplaceMessages(ctx, id, messages("question", "answer"))

		// Simulates a fresh process over the same storage.
		restored := session.NewStore(ctx, persist)

		list := restored.List()
		require.Len(t, list, 1)
		assert.Equal(t, id, list[0].ID)
		assert.Len(t, list[0].Messages, 2)
	})

	t.Run("active pointer is not durable", func(t *testing.T) {
		persist := newFakeStore()
		original := session.NewStore(ctx, persist)
		original.Create(ctx, "New chat")

		restored := session.NewStore(ctx, persist)
		assert.Empty(t, restored.ActiveID())
	})

	t.Run("corrupted payload falls back to empty", func(t *testing.T) {
		persist := newFakeStore()
		persist.data[repository.KeySessions] = json.RawMessage(`{not json`)

		restored := session.NewStore(ctx, persist)
		assert.Empty(t, restored.List())
	})

	t.Run("load failure falls back to empty", func(t *testing.T) {
		restored := session.NewStore(ctx, failingStore{})
		assert.Empty(t, restored.List())
	})
}

type failingStore struct{}

func (failingStore) Load(context.Context, string) (json.RawMessage, error) {
	return nil, errors.New("disk on fire")
}

func (failingStore) Save(context.Context, string, any) error {
	return errors.New("disk on fire")
}

func TestStore_PersistenceFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore(ctx, failingStore{})

	id := store.Create(ctx, "New chat")
	store.ReplaceMessages(ctx, id, messages("question", "answer"))

	// In-memory state stays authoritative even when every save fails.
	sess, err := store.Get(id)
	require.NoError(t, err)
	assert.Len(t, sess.Messages, 2)
}
