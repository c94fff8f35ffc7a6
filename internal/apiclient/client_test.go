package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []Call
}

func (o *recordingObserver) ObserveCall(_ context.Context, call Call) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, call)
}

func TestRequestSendsJSON(t *testing.T) {
	var gotBody map[string]any
	var gotCT, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		gotReqID = r.Header.Get("X-Request-ID")
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New()
	raw, err := c.Request(context.Background(), http.MethodPost, srv.URL+"/x", map[string]any{"query": "agents"})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if string(raw) != `{"ok":true}` {
		t.Errorf("unexpected body %s", raw)
	}
	if gotCT != "application/json" {
		t.Errorf("Content-Type = %q", gotCT)
	}
	if gotReqID == "" {
		t.Error("expected X-Request-ID header")
	}
	if gotBody["query"] != "agents" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestRequestGetHasNoBody(t *testing.T) {
	var gotLen int64 = -2
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLen = r.ContentLength
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type must always be set")
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := New().Request(context.Background(), http.MethodGet, srv.URL, nil); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if gotLen != 0 {
		t.Errorf("expected empty body, content length %d", gotLen)
	}
}

func TestRequestErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error field", 500, `{"error":"bad query"}`, "bad query"},
		{"detail field", 404, `{"detail":"Session not found or expired"}`, "Session not found or expired"},
		{"error wins over detail", 400, `{"error":"e","detail":"d"}`, "e"},
		{"non-string detail", 422, `{"detail":[{"loc":["body"]}]}`, "HTTP 422"},
		{"unparseable", 500, `<html>oops</html>`, "HTTP 500"},
		{"empty body", 503, ``, "HTTP 503"},
		{"empty error", 500, `{"error":""}`, "HTTP 500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New().Request(context.Background(), http.MethodPost, srv.URL, nil)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Error() != tt.want {
				t.Errorf("message = %q, want %q", apiErr.Error(), tt.want)
			}
		})
	}
}

func TestRequestMalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [`))
	}))
	defer srv.Close()

	_, err := New().Request(context.Background(), http.MethodGet, srv.URL, nil)
	if err == nil {
		t.Fatal("expected decode error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("malformed body should not be an APIError")
	}
}

func TestRequestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	obs := &recordingObserver{}
	_, err := New(WithObserver(obs)).Request(context.Background(), http.MethodGet, url, nil)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if len(obs.calls) != 1 || obs.calls[0].Err == nil || obs.calls[0].Status != 0 {
		t.Errorf("observer calls = %+v", obs.calls)
	}
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(WithTimeout(50 * time.Millisecond))
	_, err := c.Request(context.Background(), http.MethodGet, srv.URL, nil)

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TimeoutError, got %v", err)
	}
	if te.Error() != "request timed out after 50ms" {
		t.Errorf("message = %q", te.Error())
	}
}

func TestRequestCancelCause(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	cause := errors.New("superseded")
	ctx, cancel := context.WithCancelCause(context.Background())
	go func() {
		<-started
		cancel(cause)
	}()

	_, err := New(WithTimeout(5 * time.Second)).Request(ctx, http.MethodGet, srv.URL, nil)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cancel cause, got %v", err)
	}
}

func TestObserverRecordsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"error":"short and stout"}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	New(WithObserver(obs)).Request(context.Background(), http.MethodDelete, srv.URL+"/pot", nil)

	if len(obs.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(obs.calls))
	}
	call := obs.calls[0]
	if call.Method != http.MethodDelete || call.Status != http.StatusTeapot || call.Endpoint != srv.URL+"/pot" {
		t.Errorf("unexpected call %+v", call)
	}
	if call.RequestID == "" {
		t.Error("expected request id")
	}
}

func TestRateLimitAllowsFirstRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(WithRateLimit(1))
	if _, err := c.Request(context.Background(), http.MethodGet, srv.URL, nil); err != nil {
		t.Fatalf("first request should pass: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Request(ctx, http.MethodGet, srv.URL, nil); err == nil {
		t.Fatal("second request within the minute should be held back")
	}
}

func TestDecodeValidates(t *testing.T) {
	_, err := Decode[SearchResponseV2](json.RawMessage(`{"count":0}`))
	var se *ShapeError
	if !errors.As(err, &se) || se.Field != "results" {
		t.Fatalf("expected ShapeError for results, got %v", err)
	}

	res, err := Decode[SearchResponseV2](json.RawMessage(`{"results":[]}`))
	if err != nil {
		t.Fatalf("empty results should be valid: %v", err)
	}
	if len(res.Results) != 0 {
		t.Errorf("expected no results")
	}

	if _, err := Decode[SearchResponseV2](json.RawMessage(`[1,2]`)); err == nil {
		t.Error("expected decode error for array body")
	}
}
