package echoportal

import (
	"net/http"
	"path/filepath"

	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/services/offline"
)

// AssetHandler serves the static files and the offline page. It is the origin the offline worker caches from.
func AssetHandler(conf *core.Config) http.Handler {
	dir := conf.StaticDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(core.Getwd(), dir)
	}

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
	mux.HandleFunc(conf.Cache.OfflinePage, func(w http.ResponseWriter, r *http.Request) {
		page, err := offline.OfflinePage(conf.AppName)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})
	return mux
}
