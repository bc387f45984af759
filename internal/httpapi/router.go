// Package httpapi serves a types.Catalog over the REST surface that
// internal/remote consumes: neologism and category routes under a base
// path, JSON in and out.
package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/mesh-intelligence/coinage/internal/logger"
	"github.com/mesh-intelligence/coinage/pkg/types"
)

// DefaultBasePath matches the path of types.DefaultAPIURL.
const DefaultBasePath = "/api"

// corsOptions lets browser front ends on any origin call the API. No
// cookies are used, so credentials stay disabled.
var corsOptions = cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
	AllowedHeaders: []string{"Content-Type", "Authorization", "Accept", "Origin"},
	MaxAge:         86400,
}

// NewRouter returns a chi router serving cat under basePath. An empty
// basePath or "/" mounts the routes at the root. Each route answers with
// and without its trailing slash.
func NewRouter(cat types.Catalog, log *logger.Logger, basePath string) chi.Router {
	if log == nil {
		log = logger.NewNop()
	}
	h := &handlers{cat: cat, log: log.With("component", "httpapi")}

	api := chi.NewRouter()
	api.Route("/neologisms", func(r chi.Router) {
		r.Get("/", h.listNeologisms)
		r.Post("/", h.createNeologism)
		for _, p := range []string{"/{id}", "/{id}/"} {
			r.Get(p, h.getNeologism)
			r.Put(p, h.updateNeologism)
			r.Patch(p, h.patchNeologism)
		}
	})
	api.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Post("/", h.createCategory)
	})

	r := chi.NewRouter()
	r.Use(Recoverer(h.log))
	r.Use(Logger(h.log))
	r.Use(cors.New(corsOptions).Handler)
	r.Get("/health", healthHandler)

	basePath = "/" + strings.Trim(basePath, "/")
	if basePath == "/" {
		r.Mount("/", api)
	} else {
		r.Mount(basePath, api)
	}
	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
