package repository

import (
	"context"
	"encoding/json"
)

// Store is the persistence boundary for application state. It is a pure
// serialization layer over a durable string-keyed store: it owns no data
// and is invoked by the session and settings stores on their lifecycle
// events.
//
// Load returns ErrNotFound when the key has never been written. Callers
// treat malformed stored JSON the same as absence and fall back to
// defaults, so a corrupted value is never fatal.
type Store interface {
	Load(ctx context.Context, key string) (json.RawMessage, error)
	Save(ctx context.Context, key string, value any) error
}

// Logical keys used by the application. Sessions and settings are written
// independently; there is no transactional grouping across the two.
const (
	KeySessions = "stacy_sessions"
	KeySettings = "stacy_settings"
)
