package ui

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/ziadkadry99/ragui/internal/session"
)

// ensureResponse is the JSON answer to a session ensure request.
type ensureResponse struct {
	Label   string `json:"label"`
	Created bool   `json:"created"`
	Error   string `json:"error,omitempty"`
}

func (u *UI) handleSessionEnsure(w http.ResponseWriter, r *http.Request) {
	env := u.newEnv(w, r)

	id, created, err := env.sessions.Ensure(r.Context())
	if err != nil {
		log.Printf("ui: ensuring session: %v", err)
		writeJSON(w, http.StatusBadGateway, ensureResponse{
			Label: env.sessionLabel(),
			Error: "Failed to create session: " + err.Error(),
		})
		return
	}
	env.useSession(id)
	writeJSON(w, http.StatusOK, ensureResponse{Label: env.sessionLabel(), Created: created})
}

func (u *UI) handleSessionNew(w http.ResponseWriter, r *http.Request) {
	env := u.newEnv(w, r)
	var notice *Notice

	id, err := env.sessions.Create(r.Context())
	if err != nil {
		log.Printf("ui: creating session: %v", err)
		notice = notify(NoticeError, "Failed to create session: "+err.Error())
	} else {
		env.useSession(id)
		notice = notify(NoticeSuccess, "New session created")
	}

	data := u.newPage(env, r.FormValue("tab"))
	data.Notice = notice
	u.renderPage(w, data)
}

func (u *UI) handleSessionExport(w http.ResponseWriter, r *http.Request) {
	env := u.newEnv(w, r)

	exp, err := env.sessions.Export(r.Context())
	if err != nil {
		log.Printf("ui: exporting session: %v", err)
		data := u.newPage(env, r.URL.Query().Get("tab"))
		if errors.Is(err, session.ErrNoSession) {
			data.Notice = notify(NoticeError, err.Error())
		} else {
			data.Notice = notify(NoticeError, "Export failed: "+err.Error())
		}
		u.renderPage(w, data)
		return
	}

	log.Printf("ui: session exported as %s", exp.Filename)
	writeAttachment(w, exp.Filename, "application/json", exp.Data)
}

func (u *UI) handleSessionClear(w http.ResponseWriter, r *http.Request) {
	env := u.newEnv(w, r)
	var notice *Notice

	if err := env.sessions.Clear(r.Context()); err != nil {
		notice = notify(NoticeError, "Failed to clear session: "+err.Error())
	} else {
		env.useSession("")
		notice = notify(NoticeInfo, "Session cleared")
	}

	data := u.newPage(env, r.FormValue("tab"))
	data.Notice = notice
	u.renderPage(w, data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAttachment(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Write(body)
}
