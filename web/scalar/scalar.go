// Package scalar serves the Scalar API reference for the generated OpenAPI document.
package scalar

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/vigil/pkg/module"
	"github.com/JaimeStill/vigil/pkg/web"
)

//go:embed index.html favicon.svg
var staticFS embed.FS

var tmpl = template.Must(template.ParseFS(staticFS, "index.html"))

type page struct {
	Title    string
	BasePath string
	SpecURL  string
}

// NewModule creates a module that serves the reference UI at basePath for
// the document published at specURL.
func NewModule(basePath, title, specURL string) *module.Module {
	return module.New(basePath, buildRouter(page{
		Title:    title,
		BasePath: basePath,
		SpecURL:  specURL,
	}))
}

func buildRouter(p page) http.Handler {
	router := web.NewRouter()

	router.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		tmpl.Execute(w, p)
	})

	favicon, _ := staticFS.ReadFile("favicon.svg")
	router.HandleFunc("GET /favicon.svg", web.ServeEmbeddedFile(favicon, "image/svg+xml"))

	router.SetFallback(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, p.BasePath+"/", http.StatusFound)
	})

	return router
}
