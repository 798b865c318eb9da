// Package server assembles the HTTP router.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/url-resolver/internal/app/handler"
	"github.com/atinyakov/url-resolver/internal/app/service"
	"github.com/atinyakov/url-resolver/internal/middleware"
)

// Init builds the router. Routes:
//
//	GET  /?short_url=<token>  long URL as text
//	POST /                    token as text
//	GET  /ping                storage health
//	GET  /{url}               redirect to the long URL
func Init(logger *zap.Logger, svc service.URLServiceIface) *chi.Mux {
	getHandler := handler.NewGet(svc, logger)
	postHandler := handler.NewPost(svc, logger)

	r := chi.NewRouter()
	r.Use(middleware.WithRequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.WithGzip)

	r.Get("/", getHandler.ByQuery)
	r.Post("/", postHandler.CreateOrFetch)
	r.Get("/ping", getHandler.PingDB)
	r.Get("/{url}", getHandler.ByShort)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
