package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/ziadkadry99/ragui/internal/config"
)

func TestAPIBase(t *testing.T) {
	tests := []struct {
		name     string
		pageURL  string
		baseURL  string
		upstream string
		want     string
	}{
		{"local page", "http://localhost", "", "", config.DefaultLocalURL},
		{"same origin", "https://app.system3.example.com", "", "", "https://app.system3.example.com/api"},
		{"same origin via upstream", "https://app.system3.example.com", "", "http://backend:8000/", "http://backend:8000/api"},
		{"generic host", "https://example.org", "", "", "https://example.org/api"},
		{"explicit base", "http://localhost", "https://rag.example.net/api", "", "https://rag.example.net/api"},
		{"relative base", "https://example.org", "/api", "", "https://example.org/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.API.PageURL = tt.pageURL
			cfg.API.BaseURL = tt.baseURL
			cfg.API.Upstream = tt.upstream

			got, err := apiBase(cfg)
			if err != nil {
				t.Fatalf("apiBase: %v", err)
			}
			if got != tt.want {
				t.Errorf("apiBase = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIBaseInvalidPage(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.API.PageURL = "://bad"
	if _, err := apiBase(cfg); err == nil {
		t.Error("expected error for invalid page_url")
	}
}

func writeConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".ragui.yml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("saving config: %v", err)
	}
	old := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = old })
}

func TestBackendSessionPersists(t *testing.T) {
	var creates atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rag/session/create" {
			http.NotFound(w, r)
			return
		}
		creates.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"session_id": "abcdef1234567890"})
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.StateDir = t.TempDir()
	cfg.API.BaseURL = srv.URL + "/api"
	writeConfig(t, cfg)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		b, err := openBackend()
		if err != nil {
			t.Fatalf("openBackend: %v", err)
		}
		rag := b.scoped(ctx)
		b.Close()

		if rag.SessionID() != "abcdef1234567890" {
			t.Errorf("run %d: session = %q", i, rag.SessionID())
		}
	}
	if n := creates.Load(); n != 1 {
		t.Errorf("sessions created = %d, want 1", n)
	}
	if _, err := os.Stat(filepath.Join(cfg.StateDir, "ragui.db")); err != nil {
		t.Errorf("state database not created: %v", err)
	}
}

func TestBackendSystem2HasNoSessions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Variant = config.VariantSystem2
	cfg.StateDir = t.TempDir()
	writeConfig(t, cfg)

	b, err := openBackend()
	if err != nil {
		t.Fatalf("openBackend: %v", err)
	}
	defer b.Close()

	if b.sessions != nil {
		t.Error("system2 backend should have no session manager")
	}
	if rag := b.scoped(context.Background()); rag.SessionID() != "" {
		t.Errorf("unexpected session %q", rag.SessionID())
	}
	if _, err := openSessions(); err == nil {
		t.Error("expected openSessions to fail for system2")
	}
}
