package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/ragui/internal/activity"
	"github.com/ziadkadry99/ragui/internal/apiclient"
	"github.com/ziadkadry99/ragui/internal/config"
	"github.com/ziadkadry99/ragui/internal/db"
	"github.com/ziadkadry99/ragui/internal/endpoint"
	"github.com/ziadkadry99/ragui/internal/localstore"
	"github.com/ziadkadry99/ragui/internal/render"
	"github.com/ziadkadry99/ragui/internal/session"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `ragui init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openState opens the local state database under the configured state dir.
func openState(cfg *config.Config) (*db.DB, error) {
	database, err := db.Open(filepath.Join(cfg.StateDir, "ragui.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return database, nil
}

// newClient builds the backend client shared by every command. Calls are
// recorded in the activity log.
func newClient(cfg *config.Config, database *db.DB) *apiclient.Client {
	return apiclient.New(
		apiclient.WithTimeout(cfg.RequestTimeout()),
		apiclient.WithRateLimit(cfg.API.RequestsPerMinute),
		apiclient.WithObserver(activity.NewRecorder(activity.NewStore(database))),
	)
}

// apiBase resolves the absolute API base for callers that have no page of
// their own. The configured page URL stands in for the browser location.
func apiBase(cfg *config.Config) (string, error) {
	page, err := endpoint.FromURL(cfg.API.PageURL)
	if err != nil {
		return "", fmt.Errorf("parsing page_url %q: %w", cfg.API.PageURL, err)
	}
	base := cfg.API.BaseURL
	if base == "" {
		resolver := endpoint.Resolver{
			LocalURL:          cfg.API.LocalURL,
			SameOriginMarkers: cfg.API.SameOriginMarkers,
		}
		base = resolver.ResolvePage(page)
	}
	return endpoint.Target(base, page.Origin, cfg.API.Upstream), nil
}

// backend bundles what a command needs to talk to the RAG API.
type backend struct {
	cfg      *config.Config
	db       *db.DB
	rag      *apiclient.RAG
	sessions *session.Manager // nil without sessions
}

// openBackend loads config and state and binds a RAG accessor. The session
// id persists in the state database between invocations.
func openBackend() (*backend, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	database, err := openState(cfg)
	if err != nil {
		return nil, err
	}
	base, err := apiBase(cfg)
	if err != nil {
		database.Close()
		return nil, err
	}

	b := &backend{
		cfg: cfg,
		db:  database,
		rag: apiclient.NewRAG(newClient(cfg, database), base, cfg.Variant),
	}
	if cfg.Variant.HasSessions() {
		b.sessions = session.NewManager(b.rag, localstore.NewSQLStore(database))
	}
	return b, nil
}

func (b *backend) Close() error {
	return b.db.Close()
}

// environment labels the deployment the API base points at.
func (b *backend) environment() string {
	page, err := endpoint.FromURL(b.rag.Base())
	if err != nil {
		return endpoint.Environment("")
	}
	return endpoint.Environment(page.Hostname)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printHTML writes a rendered fragment to stdout as plain text.
func printHTML(fragment template.HTML) {
	fmt.Println(render.PlainText(fragment))
}

// scoped returns the accessor bound to the stored session, creating one on
// first use. A failed creation is reported and the call goes ahead without
// a session.
func (b *backend) scoped(ctx context.Context) *apiclient.RAG {
	if b.sessions == nil {
		return b.rag
	}
	id, created, err := b.sessions.Ensure(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to create session: %v\n", err)
		return b.rag
	}
	if created {
		fmt.Fprintf(os.Stderr, "New session created (%s)\n", session.ShortID(id))
	}
	return b.rag.WithSession(id)
}
