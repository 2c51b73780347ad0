package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

// MountDocs serves doc at prefix/doc.json and the Swagger UI under prefix/ when enabled
func MountDocs(r chi.Router, prefix string, enabled bool, doc []byte) {
	if !enabled {
		return
	}
	r.Get(prefix, func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		stdhttp.Redirect(w, req, prefix+"/", stdhttp.StatusPermanentRedirect)
	})
	r.Get(prefix+"/doc.json", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(doc)
	})
	r.Handle(prefix+"/*", httpSwagger.Handler(
		httpSwagger.URL(prefix+"/doc.json"),
	))
}
