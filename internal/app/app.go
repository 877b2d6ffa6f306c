// Package app wires the process: configuration, logging, the catalog
// registry, the simulation engine, and the observer endpoint.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"cinderhold/server/catalog"
	"cinderhold/server/internal/net/ws"
	"cinderhold/server/internal/sim"
	"cinderhold/server/internal/telemetry"
	"cinderhold/server/logging"
	loggingsinks "cinderhold/server/logging/sinks"
)

// Config carries the process-level settings. Zero values fall back to
// environment variables and defaults.
type Config struct {
	Addr       string
	CatalogDir string
	Logger     telemetry.Logger
}

// Run boots the server and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		level := logrus.InfoLevel
		if raw := os.Getenv("LOG_LEVEL"); raw != "" {
			if parsed, err := logrus.ParseLevel(raw); err == nil {
				level = parsed
			}
		}
		logger = telemetry.WrapLogrus(telemetry.NewProcessLogger("server", level))
	}

	registry, err := loadCatalog(cfg, logger)
	if err != nil {
		return err
	}

	logConfig := logging.DefaultConfig()
	sinks := map[string]logging.Sink{
		"console": loggingsinks.NewConsole(os.Stdout),
	}
	if path := os.Getenv("JOURNAL_PATH"); path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("app: open journal file: %w", err)
		}
		defer file.Close()
		sinks["json"] = loggingsinks.NewJSON(file, logConfig.JSON.FlushInterval)
		logConfig.EnabledSinks = append(logConfig.EnabledSinks, "json")
	}

	router, err := logging.NewRouter(logConfig, logging.SystemClock{}, nil, sinks)
	if err != nil {
		return fmt.Errorf("app: construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			logger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	deps := sim.Deps{
		Logger:    logger,
		Publisher: router,
		Clock:     logging.SystemClock{},
		RNG:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	engine, err := sim.NewEngine(registry, deps, nil)
	if err != nil {
		return fmt.Errorf("app: construct engine: %w", err)
	}

	hub := ws.NewHub(logger)
	hub.Attach(engine.Bus())
	defer hub.Detach()

	loopCfg := sim.DefaultLoopConfig()
	if raw := os.Getenv("TICK_RATE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			loopCfg.TickRate = value
		} else {
			logger.Printf("invalid TICK_RATE=%q, using %d", raw, loopCfg.TickRate)
		}
	}

	addr := cfg.Addr
	if addr == "" {
		addr = os.Getenv("ADDR")
	}
	if addr == "" {
		addr = ":8080"
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/journal/stats", func(w http.ResponseWriter, _ *http.Request) {
		stats := router.Stats()
		fmt.Fprintf(w, "events=%d dropped=%d\n", stats.EventsTotal, stats.DroppedTotal)
	})

	server := &http.Server{Addr: addr, Handler: mux}
	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s", addr)
		serverErr <- server.ListenAndServe()
	}()

	loop := sim.NewLoop(engine, loopCfg)
	loopErr := make(chan error, 1)
	go func() {
		loopErr <- loop.Run(ctx)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app: http server: %w", err)
		}
	case err := <-loopErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("app: simulation loop: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("http shutdown: %v", err)
	}
	return nil
}

func loadCatalog(cfg Config, logger telemetry.Logger) (*catalog.Registry, error) {
	dir := cfg.CatalogDir
	if dir == "" {
		dir = os.Getenv("CATALOG_DIR")
	}
	if dir == "" {
		logger.Printf("no catalog directory configured, using built-in templates")
		return catalog.DefaultRegistry(), nil
	}
	registry, err := catalog.LoadDir(dir)
	if err != nil {
		// Invalid configuration is fatal at load time, never handled
		// at runtime.
		return nil, fmt.Errorf("app: load catalog: %w", err)
	}
	logger.Printf("catalog loaded from %s", dir)
	return registry, nil
}
