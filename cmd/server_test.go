package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/ragui/internal/activity"
	"github.com/ziadkadry99/ragui/internal/config"
	"github.com/ziadkadry99/ragui/internal/db"
	"github.com/ziadkadry99/ragui/internal/render"
)

func TestActivityAPIOffByDefault(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	store := activity.NewStore(database)

	for _, enabled := range []bool{false, true} {
		cfg := config.DefaultConfig()
		cfg.ActivityAPI = enabled
		r := chi.NewRouter()
		mountRoutes(r, cfg, database, store, renderer)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/activity", nil))
		want := http.StatusNotFound
		if enabled {
			want = http.StatusOK
		}
		if w.Code != want {
			t.Errorf("activity_api=%v: status %d, want %d", enabled, w.Code, want)
		}
	}
}
