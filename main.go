package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/quick-rate/config"
	"github.com/danielhkuo/quick-rate/db"
	"github.com/danielhkuo/quick-rate/router"
	"github.com/danielhkuo/quick-rate/store"
	"github.com/danielhkuo/quick-rate/web"
)

func main() {
	setupLogging()

	// Parse configuration
	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing configuration", "error", err)
		os.Exit(1)
	}

	if err := cfg.EnsureOutputDir(); err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	// Load project inputs
	catalog, err := store.NewCatalog(cfg)
	if err != nil {
		slog.Error("failed to load project inputs", "error", err)
		os.Exit(1)
	}
	slog.Info("Project loaded",
		"project", cfg.ProjectName,
		"media_type", cfg.MediaType,
		"groups", catalog.GroupCount(),
	)

	// Optional SQLite mirror
	var mirror *db.Mirror
	if cfg.OutputSQLite != "" {
		mirror, err = db.Open(cfg.OutputSQLite)
		if err != nil {
			slog.Error("failed to open sqlite mirror", "error", err)
			os.Exit(1)
		}
		defer mirror.Close()
		slog.Info("SQLite mirror ready", "path", cfg.OutputSQLite)
	}

	// Output writer
	answers, err := store.NewWriter(cfg.OutputCSV, catalog.Questions(), mirror)
	if err != nil {
		slog.Error("failed to prepare output file", "error", err)
		os.Exit(1)
	}

	// Templates
	renderer, err := web.NewRenderer()
	if err != nil {
		slog.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	// Create router
	mux := router.NewRouter(catalog, answers, cfg, renderer)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// Optional input hot-reload
	if cfg.Watch {
		watcher, err := store.NewWatcher(catalog, cfg)
		if err != nil {
			slog.Error("failed to start file watcher", "error", err)
			os.Exit(1)
		}
		g.Go(func() error { return watcher.Run(ctx) })
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		server.Close()
	}()

	// Start server
	color.Green("%s listening on http://localhost:%d", cfg.ProjectName, cfg.Port)
	slog.Info("Listening", "port", cfg.Port)
	g.Go(func() error {
		err := server.ListenAndServe()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}

// setupLogging picks a human-readable handler on a terminal and JSON
// otherwise, so piped logs stay machine-parseable.
func setupLogging() {
	var handler slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		handler = slog.NewTextHandler(os.Stderr, nil)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(handler))
}
