package localstore

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// cookieMaxAge keeps values until the user clears them.
const cookieMaxAge = 365 * 24 * time.Hour

// CookieStore reads values from one request's cookies and writes them to its
// response. Values set during the request are visible to later Gets.
type CookieStore struct {
	w       http.ResponseWriter
	r       *http.Request
	pending map[string]*string
}

// NewCookieStore binds a store to a request/response pair.
func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{w: w, r: r, pending: map[string]*string{}}
}

func (s *CookieStore) Get(_ context.Context, key string) (string, bool, error) {
	if v, ok := s.pending[key]; ok {
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}
	c, err := s.r.Cookie(key)
	if err != nil {
		return "", false, nil
	}
	value, err := url.QueryUnescape(c.Value)
	if err != nil || value == "" {
		return "", false, nil
	}
	return value, true, nil
}

func (s *CookieStore) Set(_ context.Context, key, value string) error {
	s.pending[key] = &value
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    url.QueryEscape(value),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *CookieStore) Remove(_ context.Context, key string) error {
	s.pending[key] = nil
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
