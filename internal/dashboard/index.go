package dashboard

import (
	"bytes"
	_ "embed"
	"net/http"
	"time"
)

//go:embed index.html
var indexHTML []byte

// ServeIndex serves the single-page UI.
func (d *Dashboard) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(indexHTML))
}
