// Package ui serves the server-rendered RAG front-end: the tabbed page, its
// form handlers, downloads and the mock agent chat.
package ui

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ziadkadry99/ragui/internal/apiclient"
	"github.com/ziadkadry99/ragui/internal/config"
	"github.com/ziadkadry99/ragui/internal/endpoint"
	"github.com/ziadkadry99/ragui/internal/lifecycle"
	"github.com/ziadkadry99/ragui/internal/localstore"
	"github.com/ziadkadry99/ragui/internal/render"
	"github.com/ziadkadry99/ragui/internal/session"
)

// clientCookie identifies a browser across requests. It keys in-flight
// submissions and the chat transcript.
const clientCookie = "ragui_client"

// UI provides the front-end routes.
type UI struct {
	cfg      *config.Config
	resolver endpoint.Resolver
	client   *apiclient.Client
	renderer *render.Renderer
	tracker  *lifecycle.Tracker
	chats    *chatLog
}

// New creates a UI. client carries the timeout, rate limit and observer
// applied to every backend call.
func New(cfg *config.Config, client *apiclient.Client, renderer *render.Renderer) *UI {
	return &UI{
		cfg: cfg,
		resolver: endpoint.Resolver{
			LocalURL:          cfg.API.LocalURL,
			SameOriginMarkers: cfg.API.SameOriginMarkers,
			AllowedHosts:      cfg.API.AllowedHosts,
		},
		client:   client,
		renderer: renderer,
		tracker:  lifecycle.NewTracker(),
		chats:    newChatLog(maxChatClients),
	}
}

// RegisterRoutes mounts all front-end routes onto the given router.
func (u *UI) RegisterRoutes(r chi.Router) {
	r.Get("/", u.handleIndex)
	r.Handle("/static/*", staticHandler())
	r.Post("/ui/poc", u.handlePOC)
	r.Post("/ui/search", u.handleSearch)
	r.Get("/ui/history", u.handleHistory)
	r.Get("/ui/status", u.handleStatus)
	r.Post("/ui/download", u.handleDownload)

	if u.cfg.Variant.HasSessions() {
		r.Post("/ui/chat", u.handleChat)
		r.Get("/ws/chat", u.handleWebSocket)
		r.Post("/ui/session/ensure", u.handleSessionEnsure)
		r.Post("/ui/session/new", u.handleSessionNew)
		r.Get("/ui/session/export", u.handleSessionExport)
		r.Post("/ui/session/clear", u.handleSessionClear)
	}
}

// pageEnv is everything one request needs to talk to the backend. It is
// built per request from the request's own origin and cookies.
type pageEnv struct {
	page     endpoint.Page
	base     string
	rag      *apiclient.RAG
	sessions *session.Manager
	clientID string
}

func (u *UI) newEnv(w http.ResponseWriter, r *http.Request) *pageEnv {
	page := endpoint.FromRequest(r)

	base := u.cfg.API.BaseURL
	if base == "" {
		base = u.resolver.ResolvePage(page)
	}

	env := &pageEnv{
		page:     page,
		base:     base,
		clientID: clientID(w, r),
	}
	if target, err := u.target(base, page); err != nil {
		env.rag = apiclient.Unavailable(u.client, u.cfg.Variant, err)
	} else {
		env.rag = apiclient.NewRAG(u.client, target, u.cfg.Variant)
	}

	if u.cfg.Variant.HasSessions() {
		env.sessions = session.NewManager(env.rag, localstore.NewCookieStore(w, r))
		id, err := env.sessions.Current(r.Context())
		if err != nil {
			log.Printf("ui: reading session: %v", err)
		}
		env.rag = env.rag.WithSession(id)
	}
	return env
}

// target returns the absolute base this server calls for base. The Host
// header is client-controlled, so only a configured absolute base_url is
// taken as is. Everything else goes through the resolver's allowlist.
func (u *UI) target(base string, page endpoint.Page) (string, error) {
	if base == u.cfg.API.BaseURL && endpoint.IsAbsolute(base) {
		return base, nil
	}
	return u.resolver.Outbound(base, page, u.cfg.API.Upstream)
}

// useSession points later calls in this request at id.
func (e *pageEnv) useSession(id string) {
	e.rag = e.rag.WithSession(id)
}

func (e *pageEnv) sessionLabel() string {
	return session.Label(e.rag.SessionID())
}

// begin starts a tracked submission of form for this client.
func (u *UI) begin(ctx context.Context, env *pageEnv, form string) (context.Context, lifecycle.Ticket) {
	return u.tracker.Begin(ctx, env.clientID+":"+form)
}

func clientID(w http.ResponseWriter, r *http.Request) string {
	id, cookie := clientIdentity(r)
	if cookie != nil {
		http.SetCookie(w, cookie)
	}
	return id
}

// clientIdentity returns the browser's id and, for a browser seen for the
// first time, the cookie that carries it.
func clientIdentity(r *http.Request) (string, *http.Cookie) {
	if c, err := r.Cookie(clientCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}
	id := uuid.New().String()
	return id, &http.Cookie{
		Name:     clientCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
