package server

import (
	"net/http"

	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/api/handlers"
	"github.com/clauselens/clauselens/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	AnalyzeHandler  *handlers.AnalyzeHandler
	RetrieveHandler *handlers.RetrieveHandler
	RulesHandler    *handlers.RulesHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/analyze", cfg.AnalyzeHandler.Analyze)
	r.Post("/retrieve", cfg.RetrieveHandler.Retrieve)
	r.Get("/rules", cfg.RulesHandler.List)

	return r
}
