package ui

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/ziadkadry99/ragui/internal/config"
	"github.com/ziadkadry99/ragui/internal/endpoint"
)

//go:embed templates/index.html
var indexHTML string

//go:embed static
var staticFiles embed.FS

var pageTmpl = template.Must(template.New("index").Parse(indexHTML))

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}

// Tab is one entry of the tab bar.
type Tab struct {
	Name   string
	Label  string
	Active bool
}

// TabSet is the ordered set of tabs a variant shows.
type TabSet struct {
	tabs []Tab
}

// TabsFor returns the tabs of the given variant.
func TabsFor(v config.Variant) TabSet {
	tabs := []Tab{
		{Name: "poc", Label: "Generate POC"},
		{Name: "search", Label: "Search Solutions"},
	}
	if v.HasSessions() {
		tabs = append(tabs, Tab{Name: "chat", Label: "Agent Chat"})
	}
	tabs = append(tabs,
		Tab{Name: "history", Label: "History"},
		Tab{Name: "status", Label: "System Status"},
	)
	return TabSet{tabs: tabs}
}

// Has reports whether name is one of the set's tabs.
func (s TabSet) Has(name string) bool {
	for _, t := range s.tabs {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Activate returns the tabs with exactly one marked active: name if it
// exists, otherwise the first.
func (s TabSet) Activate(name string) []Tab {
	if !s.Has(name) && len(s.tabs) > 0 {
		name = s.tabs[0].Name
	}
	out := make([]Tab, len(s.tabs))
	for i, t := range s.tabs {
		t.Active = t.Name == name
		out[i] = t
	}
	return out
}

// NoticeKind classifies a notification.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a transient toast shown at the top of the page.
type Notice struct {
	Kind    NoticeKind
	Message string
}

func notify(kind NoticeKind, message string) *Notice {
	log.Printf("ui: notify %s: %s", kind, message)
	return &Notice{Kind: kind, Message: message}
}

// region is a result area that shows either a result or an error, never both.
type region struct {
	Result template.HTML
	Extra  template.HTML
	Error  string
	// Download holds the text offered by the download button.
	Download string
	Format   string
	// Empty is set when a successful response had nothing to list.
	Empty bool
}

func (g region) ShowResult() bool { return g.Error == "" && (g.Result != "" || g.Extra != "") }
func (g region) ShowError() bool  { return g.Error != "" }

type pocForm struct {
	SolutionArea string
	POCTitle     string
	Query        string
	TopResults   string
}

type searchForm struct {
	Query            string
	TopK             string
	IncludeSynthesis bool
}

type pageData struct {
	Variant       config.Variant
	Sessions      bool
	SessionLabel  string
	// EnsureSession asks the page script to create a session after load.
	EnsureSession bool
	APIBase       string
	Environment   string
	Tabs          []Tab
	Notice        *Notice

	POCForm    pocForm
	POC        region
	SearchForm searchForm
	Search     region
	History    region
	Status     region
	Chat       []template.HTML
}

func (u *UI) newPage(env *pageEnv, tab string) *pageData {
	return &pageData{
		Variant:       u.cfg.Variant,
		Sessions:      u.cfg.Variant.HasSessions(),
		SessionLabel:  env.sessionLabel(),
		EnsureSession: env.sessions != nil && env.rag.SessionID() == "",
		APIBase:       env.base,
		Environment:   endpoint.Environment(env.page.Hostname),
		Tabs:          TabsFor(u.cfg.Variant).Activate(tab),
		POCForm:       pocForm{TopResults: "5"},
		SearchForm:    searchForm{TopK: "3"},
		Chat:          u.renderTranscript(env.clientID),
	}
}

func (u *UI) renderPage(w http.ResponseWriter, data *pageData) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		log.Printf("ui: rendering page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
