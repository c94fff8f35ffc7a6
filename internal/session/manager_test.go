package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/ragui/internal/apiclient"
	"github.com/ziadkadry99/ragui/internal/db"
	"github.com/ziadkadry99/ragui/internal/localstore"
)

type mockAPI struct {
	createID  string
	createErr error
	exportRaw json.RawMessage
	exportErr error
	metadata  map[string]any
	exported  string
	creates   int
}

func (m *mockAPI) CreateSession(_ context.Context, metadata map[string]any) (*apiclient.SessionCreated, error) {
	m.creates++
	m.metadata = metadata
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &apiclient.SessionCreated{SessionID: m.createID}, nil
}

func (m *mockAPI) ExportSession(_ context.Context, id string) (json.RawMessage, error) {
	m.exported = id
	return m.exportRaw, m.exportErr
}

func setupTest(t *testing.T, api *mockAPI) (*Manager, *localstore.SQLStore) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := localstore.NewSQLStore(database)
	m := NewManager(api, store)
	m.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return m, store
}

func TestCreateStoresID(t *testing.T) {
	api := &mockAPI{createID: "0123456789abcdef"}
	m, store := setupTest(t, api)
	ctx := context.Background()

	id, err := m.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != "0123456789abcdef" {
		t.Errorf("id = %q", id)
	}
	if v, _, _ := store.Get(ctx, StorageKey); v != id {
		t.Errorf("stored %q, want %q", v, id)
	}
	if api.metadata["created_from"] != CreatedFrom {
		t.Errorf("metadata = %v", api.metadata)
	}
	if _, ok := api.metadata["timestamp"].(string); !ok {
		t.Errorf("expected timestamp metadata")
	}
}

func TestCreateFailureLeavesStorageUntouched(t *testing.T) {
	api := &mockAPI{createErr: errors.New("HTTP 503")}
	m, store := setupTest(t, api)
	ctx := context.Background()

	if _, err := m.Create(ctx); err == nil {
		t.Fatal("expected error")
	}
	if _, ok, _ := store.Get(ctx, StorageKey); ok {
		t.Error("failed creation must not store a session id")
	}
	if cur, _ := m.Current(ctx); cur != "" {
		t.Errorf("Current = %q, want empty", cur)
	}
}

func TestCreateFailureKeepsPreviousID(t *testing.T) {
	api := &mockAPI{createErr: errors.New("boom")}
	m, store := setupTest(t, api)
	ctx := context.Background()
	store.Set(ctx, StorageKey, "previous")

	m.Create(ctx)
	if v, _, _ := store.Get(ctx, StorageKey); v != "previous" {
		t.Errorf("stored %q, want previous", v)
	}
}

func TestEnsure(t *testing.T) {
	api := &mockAPI{createID: "new-session"}
	m, _ := setupTest(t, api)
	ctx := context.Background()

	id, created, err := m.Ensure(ctx)
	if err != nil || !created || id != "new-session" {
		t.Fatalf("first Ensure = %q, %v, %v", id, created, err)
	}
	id, created, err = m.Ensure(ctx)
	if err != nil || created || id != "new-session" {
		t.Fatalf("second Ensure = %q, %v, %v", id, created, err)
	}
	if api.creates != 1 {
		t.Errorf("expected one creation, got %d", api.creates)
	}
}

func TestExport(t *testing.T) {
	api := &mockAPI{exportRaw: json.RawMessage(`{"session_id":"0123456789abcdef","messages":[]}`)}
	m, store := setupTest(t, api)
	ctx := context.Background()
	store.Set(ctx, StorageKey, "0123456789abcdef")

	exp, err := m.Export(ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if exp.Filename != "system3-session-01234567-1700000000123.json" {
		t.Errorf("filename = %q", exp.Filename)
	}
	if !strings.Contains(string(exp.Data), "\n  \"messages\": []") {
		t.Errorf("expected two-space indented JSON, got %s", exp.Data)
	}
	if api.exported != "0123456789abcdef" {
		t.Errorf("exported %q", api.exported)
	}
}

func TestExportWithoutSession(t *testing.T) {
	m, _ := setupTest(t, &mockAPI{})
	if _, err := m.Export(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestClear(t *testing.T) {
	m, store := setupTest(t, &mockAPI{})
	ctx := context.Background()
	store.Set(ctx, StorageKey, "abc")

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if cur, _ := m.Current(ctx); cur != "" {
		t.Errorf("Current after Clear = %q", cur)
	}
}

func TestLabel(t *testing.T) {
	if got := Label("0123456789abcdef"); got != "Session: 01234567..." {
		t.Errorf("Label = %q", got)
	}
	if got := Label("abc"); got != "Session: abc..." {
		t.Errorf("Label short = %q", got)
	}
	if got := Label(""); got != "No session" {
		t.Errorf("Label empty = %q", got)
	}
}
