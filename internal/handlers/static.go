package handlers

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// Static serves the embedded assets under /static/. Directory listings are
// not exposed.
func Static(assets fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(assets))
	return http.StripPrefix("/static", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		info, err := fs.Stat(assets, name)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	}))
}
