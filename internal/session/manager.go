// Package session tracks the server-allocated System3 session id on the
// client side.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ziadkadry99/ragui/internal/apiclient"
	"github.com/ziadkadry99/ragui/internal/localstore"
)

// StorageKey is the client storage key holding the session id.
const StorageKey = "system3_session_id"

// CreatedFrom tags sessions created by this front-end.
const CreatedFrom = "System3-RAG frontend"

// ErrNoSession is returned by operations that need an active session.
var ErrNoSession = errors.New("No active session")

// API is the subset of the backend used for sessions.
type API interface {
	CreateSession(ctx context.Context, metadata map[string]any) (*apiclient.SessionCreated, error)
	ExportSession(ctx context.Context, id string) (json.RawMessage, error)
}

// Manager creates, persists and exports the client's session.
type Manager struct {
	api   API
	store localstore.Store
	now   func() time.Time
}

// NewManager creates a Manager.
func NewManager(api API, store localstore.Store) *Manager {
	return &Manager{api: api, store: store, now: time.Now}
}

// Current returns the stored session id, or "" when there is none.
func (m *Manager) Current(ctx context.Context) (string, error) {
	id, ok, err := m.store.Get(ctx, StorageKey)
	if err != nil || !ok {
		return "", err
	}
	return id, nil
}

// Create allocates a new session and stores its id. On failure the stored
// value is left as it was.
func (m *Manager) Create(ctx context.Context) (string, error) {
	log.Printf("session: creating new session")

	created, err := m.api.CreateSession(ctx, map[string]any{
		"created_from": CreatedFrom,
		"timestamp":    m.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}

	if err := m.store.Set(ctx, StorageKey, created.SessionID); err != nil {
		return "", err
	}
	log.Printf("session: created %s", created.SessionID)
	return created.SessionID, nil
}

// Ensure returns the stored session, creating one when none exists.
func (m *Manager) Ensure(ctx context.Context) (id string, created bool, err error) {
	id, err = m.Current(ctx)
	if err != nil {
		return "", false, err
	}
	if id != "" {
		return id, false, nil
	}
	id, err = m.Create(ctx)
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// Clear forgets the stored session id.
func (m *Manager) Clear(ctx context.Context) error {
	return m.store.Remove(ctx, StorageKey)
}

// Export is a downloadable session document.
type Export struct {
	Filename string
	Data     []byte
}

// Export fetches the current session's export document, pretty-printed.
func (m *Manager) Export(ctx context.Context) (*Export, error) {
	id, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrNoSession
	}

	raw, err := m.api.ExportSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("exporting session: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("formatting export: %w", err)
	}

	return &Export{
		Filename: fmt.Sprintf("system3-session-%s-%d.json", ShortID(id), m.now().UnixMilli()),
		Data:     buf.Bytes(),
	}, nil
}

// ShortID returns the first eight characters of id.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// Label is the session indicator text shown in the page header.
func Label(id string) string {
	if id == "" {
		return "No session"
	}
	return "Session: " + ShortID(id) + "..."
}
