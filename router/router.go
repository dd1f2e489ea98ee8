// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quick-rate/config"
	"github.com/danielhkuo/quick-rate/handlers"
	"github.com/danielhkuo/quick-rate/middleware"
	"github.com/danielhkuo/quick-rate/store"
	"github.com/danielhkuo/quick-rate/web"
)

func NewRouter(catalog *store.Catalog, answers *store.Writer, cfg config.Config, renderer *web.Renderer) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	loginHandler := handlers.NewLoginHandler(catalog, cfg, renderer)
	annotateHandler := handlers.NewAnnotateHandler(catalog, answers, cfg, renderer)
	submitHandler := handlers.NewSubmitHandler(catalog, answers, cfg)
	progressHandler := handlers.NewProgressHandler(catalog, answers, cfg, renderer)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Coder entry
	mux.HandleFunc("GET /{$}", middleware.WithLogging(loginHandler.Home))
	mux.HandleFunc("POST /{$}", middleware.WithLogging(loginHandler.Login))
	mux.HandleFunc("GET /c/{coder_id}", middleware.WithLogging(loginHandler.EnterPseudonym))

	// Annotation loop
	mux.HandleFunc("GET /annotate", middleware.WithLogging(middleware.NoCache(annotateHandler.ShowBatch)))
	mux.HandleFunc("POST /submit", middleware.WithLogging(submitHandler.Submit))
	mux.HandleFunc("GET /progress", middleware.WithLogging(middleware.NoCache(progressHandler.Show)))

	// Local media files referenced by items.csv sources
	if cfg.MediaDir != "" {
		mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaDir))))
	}

	return mux
}
