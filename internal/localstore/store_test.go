package localstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ziadkadry99/ragui/internal/db"
)

func TestSQLStore(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	defer database.Close()

	s := NewSQLStore(database)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "system3_session_id"); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "system3_session_id", "first"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "system3_session_id", "second"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, ok, err := s.Get(ctx, "system3_session_id")
	if err != nil || !ok || v != "second" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}

	if err := s.Remove(ctx, "system3_session_id"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "system3_session_id"); ok {
		t.Error("expected key to be removed")
	}
}

func TestCookieStoreReadsRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "system3_session_id", Value: "abc%2F1"})
	s := NewCookieStore(httptest.NewRecorder(), req)

	v, ok, err := s.Get(context.Background(), "system3_session_id")
	if err != nil || !ok || v != "abc/1" {
		t.Errorf("Get = %q, %v, %v", v, ok, err)
	}
}

func TestCookieStoreSetAndRemove(t *testing.T) {
	w := httptest.NewRecorder()
	s := NewCookieStore(w, httptest.NewRequest(http.MethodGet, "/", nil))
	ctx := context.Background()

	s.Set(ctx, "k", "value 1")
	if v, ok, _ := s.Get(ctx, "k"); !ok || v != "value 1" {
		t.Errorf("pending value not visible: %q %v", v, ok)
	}

	cookies := setCookies(t, w.Header())
	if len(cookies) != 1 || cookies[0].Name != "k" || cookies[0].Value != "value+1" || cookies[0].Path != "/" {
		t.Fatalf("unexpected cookies %+v", cookies)
	}

	s.Remove(ctx, "k")
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("removed value should not be visible")
	}
	cookies = setCookies(t, w.Header())
	if len(cookies) != 2 {
		t.Fatalf("expected a second Set-Cookie for the removal, got %+v", cookies)
	}
	if last := cookies[len(cookies)-1]; last.MaxAge != -1 {
		t.Errorf("expected expiring cookie, got %+v", last)
	}
}

// setCookies parses the Set-Cookie lines written so far. The recorder's
// Result is a snapshot taken on first call.
func setCookies(t *testing.T, h http.Header) []*http.Cookie {
	t.Helper()
	var out []*http.Cookie
	for _, line := range h.Values("Set-Cookie") {
		c, err := http.ParseSetCookie(line)
		if err != nil {
			t.Fatalf("parsing Set-Cookie %q: %v", line, err)
		}
		out = append(out, c)
	}
	return out
}
