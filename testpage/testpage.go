// Package testpage serves an embedded demo login and timesheet page for
// exercising the executor locally without touching a real site.
package testpage

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
)

//go:embed pages
var pageFS embed.FS

// Handler builds the router for the demo page.
func Handler() http.Handler {
	sub, err := fs.Sub(pageFS, "pages")
	if err != nil {
		// embed layout is fixed at build time
		panic(err)
	}

	router := chi.NewRouter()
	router.Use(requestLogger)
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login.html", http.StatusFound)
	})
	router.Handle("/*", http.FileServer(http.FS(sub)))

	return router
}

// ListenAndServe blocks serving the demo page on addr.
func ListenAndServe(addr string) error {
	log.Infof("serving test page at http://%s/login.html", addr)
	return http.ListenAndServe(addr, Handler())
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debugf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}
