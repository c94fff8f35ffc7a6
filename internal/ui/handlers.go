package ui

import (
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/ziadkadry99/ragui/internal/apiclient"
	"github.com/ziadkadry99/ragui/internal/lifecycle"
	"github.com/ziadkadry99/ragui/internal/render"
	"github.com/ziadkadry99/ragui/internal/session"
)

const (
	pocFallback    = "Failed to generate POC. Please check the console for details."
	searchFallback = "Search failed. Please try again."

	defaultTopResults = 5
	defaultTopK       = 3
)

// handleIndex renders without calling the backend. A browser without a
// session gets one from handleSessionEnsure once the page has loaded.
func (u *UI) handleIndex(w http.ResponseWriter, r *http.Request) {
	env := u.newEnv(w, r)
	u.renderPage(w, u.newPage(env, r.URL.Query().Get("tab")))
}

func (u *UI) handlePOC(w http.ResponseWriter, r *http.Request) {
	env := u.newEnv(w, r)
	data := u.newPage(env, "poc")
	data.POCForm = pocForm{
		SolutionArea: r.FormValue("solutionArea"),
		POCTitle:     r.FormValue("pocTitle"),
		Query:        r.FormValue("pocQuery"),
		TopResults:   r.FormValue("topResults"),
	}

	req := apiclient.POCRequest{
		SolutionArea: data.POCForm.SolutionArea,
		POCTitle:     data.POCForm.POCTitle,
		Query:        data.POCForm.Query,
		TopResults:   parseIntDefault(data.POCForm.TopResults, defaultTopResults),
	}

	ctx, ticket := u.begin(r.Context(), env, "poc")
	defer ticket.Done()

	res, err := env.rag.GeneratePOC(ctx, req)
	if err == nil && !ticket.Current() {
		err = lifecycle.ErrSuperseded
	}
	if err == nil {
		err = u.fillPOC(&data.POC, res)
	}
	if err != nil {
		log.Printf("ui: POC generation failed: %v", err)
		data.POC = region{Error: errorText(err, pocFallback)}
		data.Notice = notify(NoticeError, "POC generation failed")
	} else {
		log.Printf("ui: POC generated: %s", res.ID())
		data.Notice = notify(NoticeSuccess, "POC generated successfully")
	}
	u.renderPage(w, data)
}

// fillPOC renders a POC response. System3 shows structured details and
// downloads as text; System2 shows the raw document and downloads as JSON.
func (u *UI) fillPOC(g *region, res *apiclient.POCResult) error {
	if res.V3 != nil {
		out, err := u.renderer.POCDetails(render.POCDetailsFromV3(res.V3.Details))
		if err != nil {
			return err
		}
		*g = region{Result: out, Download: render.PlainText(out), Format: "txt"}
		return nil
	}

	var instructions string
	if res.V2 != nil {
		instructions = res.V2.Instructions
	}
	out, err := u.renderer.POCRaw(res.Raw, instructions)
	if err != nil {
		return err
	}
	*g = region{Result: out, Download: render.PrettyJSON(res.Raw), Format: "json"}
	return nil
}

func (u *UI) handleSearch(w http.ResponseWriter, r *http.Request) {
	env := u.newEnv(w, r)
	data := u.newPage(env, "search")
	data.SearchForm = searchForm{
		Query:            r.FormValue("searchQuery"),
		TopK:             r.FormValue("topK"),
		IncludeSynthesis: r.FormValue("includeSynthesis") != "",
	}

	req := apiclient.SearchRequest{
		Query:            data.SearchForm.Query,
		TopK:             parseIntDefault(data.SearchForm.TopK, defaultTopK),
		IncludeSynthesis: data.SearchForm.IncludeSynthesis,
	}

	ctx, ticket := u.begin(r.Context(), env, "search")
	defer ticket.Done()

	res, err := env.rag.Search(ctx, req)
	if err == nil && !ticket.Current() {
		err = lifecycle.ErrSuperseded
	}
	if err == nil {
		err = u.fillSearch(&data.Search, res)
	}
	if err != nil {
		log.Printf("ui: search failed: %v", err)
		data.Search = region{Error: errorText(err, searchFallback)}
		data.Notice = notify(NoticeError, "Search failed")
	} else {
		data.Notice = notify(NoticeSuccess, "Search completed")
	}
	u.renderPage(w, data)
}

func (u *UI) fillSearch(g *region, res *apiclient.SearchResult) error {
	var (
		view render.SearchView
		syn  *render.SynthesisView
	)
	if res.V3 != nil {
		view, syn = render.SearchFromV3(res.V3)
	} else {
		view = render.SearchFromV2(res.V2)
	}

	out, err := u.renderer.Search(view)
	if err != nil {
		return err
	}
	extra, err := u.renderer.Synthesis(syn)
	if err != nil {
		return err
	}
	*g = region{Result: out, Extra: extra}
	return nil
}

func (u *UI) handleHistory(w http.ResponseWriter, r *http.Request) {
	env := u.newEnv(w, r)
	data := u.newPage(env, "history")

	if env.sessions != nil && env.rag.SessionID() == "" {
		data.History = region{Error: session.ErrNoSession.Error()}
		data.Notice = notify(NoticeError, session.ErrNoSession.Error())
		u.renderPage(w, data)
		return
	}

	ctx, ticket := u.begin(r.Context(), env, "history")
	defer ticket.Done()

	res, err := env.rag.History(ctx)
	if err == nil && !ticket.Current() {
		err = lifecycle.ErrSuperseded
	}
	var items []render.HistoryItem
	if err == nil {
		if res.V3 != nil {
			items = render.HistoryFromV3(res.V3)
		} else {
			items = render.HistoryFromV2(res.V2)
		}
	}
	if err == nil && len(items) > 0 {
		var out template.HTML
		if out, err = u.renderer.History(items); err == nil {
			data.History = region{Result: out}
		}
	}
	switch {
	case err != nil:
		log.Printf("ui: loading history failed: %v", err)
		data.History = region{Error: "Error loading history: " + err.Error()}
	case len(items) == 0:
		data.History = region{Empty: true}
	}
	u.renderPage(w, data)
}

func (u *UI) handleStatus(w http.ResponseWriter, r *http.Request) {
	env := u.newEnv(w, r)
	data := u.newPage(env, "status")
	environment := data.Environment

	ctx, ticket := u.begin(r.Context(), env, "status")
	defer ticket.Done()

	var view render.StatusView
	st, err := env.rag.Status(ctx)
	if err == nil && !ticket.Current() {
		err = lifecycle.ErrSuperseded
	}
	if err != nil {
		log.Printf("ui: status check failed: %v", err)
		view = render.UnhealthyStatus(env.base, environment, err)
	} else {
		view = render.StatusFrom(st, env.base, environment, u.cfg.Variant.HasSessions())
	}

	out, err := u.renderer.Status(view)
	if err != nil {
		log.Printf("ui: rendering status: %v", err)
		data.Status = region{Error: err.Error()}
	} else {
		data.Status = region{Result: out}
	}
	u.renderPage(w, data)
}

// errorText is the message shown in an error region.
func errorText(err error, fallback string) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

// parseIntDefault reads the leading integer of s the way a browser's
// parseInt does, falling back to def when there is none.
func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return def
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return def
	}
	return n
}
