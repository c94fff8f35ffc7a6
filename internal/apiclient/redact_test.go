package apiclient

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ziadkadry99/ragui/internal/config"
)

func TestRedactURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://x/api/rag/search?session_id=abc123", "http://x/api/rag/search?session_id=REDACTED"},
		{"http://x/api/rag/history?limit=5&session_id=abc123", "http://x/api/rag/history?limit=5&session_id=REDACTED"},
		{"http://x/api/rag/search", "http://x/api/rag/search"},
		{"http://x/api/rag/history?limit=5", "http://x/api/rag/history?limit=5"},
		{"://bad?session_id=abc123", "://bad?session_id=abc123"},
	}
	for _, tt := range tests {
		if got := RedactURL(tt.in); got != tt.want {
			t.Errorf("RedactURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSessionIDNeverObservedOrLogged(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query().Get("session_id")
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	obs := &recordingObserver{}
	rag := NewRAG(New(WithObserver(obs)), srv.URL+"/api", config.VariantSystem3).WithSession("secret-session-1234")
	if _, err := rag.Search(context.Background(), SearchRequest{Query: "q"}); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if seen != "secret-session-1234" {
		t.Errorf("backend saw session %q", seen)
	}
	if len(obs.calls) != 1 || strings.Contains(obs.calls[0].Endpoint, "secret") {
		t.Errorf("observer calls = %+v", obs.calls)
	}
	if !strings.Contains(obs.calls[0].Endpoint, "session_id=REDACTED") {
		t.Errorf("endpoint = %q", obs.calls[0].Endpoint)
	}
	if strings.Contains(logs.String(), "secret") {
		t.Errorf("session id logged: %s", logs.String())
	}
}

func TestTransportErrorRedacted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New().Request(context.Background(), http.MethodGet, url+"/api/rag/search?session_id=secret-session-1234", nil)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), "secret") {
		t.Errorf("error leaks session id: %v", err)
	}
}
