package ui

import (
	"fmt"
	"log"
	"net/http"
	"time"
)

var downloadTypes = map[string]string{
	"json": "application/json",
	"txt":  "text/plain; charset=utf-8",
}

// handleDownload returns the posted content as a POC file attachment.
func (u *UI) handleDownload(w http.ResponseWriter, r *http.Request) {
	format := r.FormValue("format")
	contentType, ok := downloadTypes[format]
	if !ok {
		http.Error(w, "unsupported format", http.StatusBadRequest)
		return
	}
	content := r.FormValue("content")
	if content == "" {
		http.Error(w, "nothing to download", http.StatusBadRequest)
		return
	}

	filename := fmt.Sprintf("poc-%d.%s", time.Now().UnixMilli(), format)
	log.Printf("ui: POC downloaded as %s", filename)
	writeAttachment(w, filename, contentType, []byte(content))
}
