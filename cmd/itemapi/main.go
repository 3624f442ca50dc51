// Command itemapi runs the items REST API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/drblury/itemapi/config"
	"github.com/drblury/itemapi/server"
	"github.com/drblury/itemapi/store"
	"github.com/drblury/itemapi/version"
)

// Graceful shutdown waits for outstanding requests up to this long.
const shutdownTimeout = 15 * time.Second

func main() {
	host := flag.String("host", envOr("HOST", ""), "host IP to listen on (for example \"0.0.0.0\")")
	port := flag.Int("port", envPortOr(3000), "port number to listen on")
	logLevel := flag.String("log", "info", "log level: debug, info, warn, error")
	showVersion := flag.Bool("version", false, "print version info and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Current().String())
		return
	}

	cfg := config.FromEnv()
	logger := newLogger(*logLevel, cfg.Env)
	slog.SetDefault(logger)

	if err := run(cfg, *host, *port, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, host string, port int, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info := version.Current()
	logger.Info("Starting "+info.Name, "env", cfg.Env.String(), "version", info.Version, "build_time", info.BuildTime, "commit", info.Commit)

	st := store.New()
	handler := server.New(cfg, st, logger)

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	fileCfg := config.LoadFileConfig()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if fileCfg.PeriodicStoreLogEnabled {
		interval := time.Duration(fileCfg.PeriodicStoreLogInterval) * time.Second
		group.Go(func() error {
			periodicStoreLog(groupCtx, st, interval, logger)
			return nil
		})
	}

	return group.Wait()
}

// periodicStoreLog reports store statistics until the context is cancelled.
func periodicStoreLog(ctx context.Context, st *store.Store, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.Info("store statistics", "items", st.Len())
		}
	}
}

// newLogger builds the process logger: JSON output for deployed
// environments, plain text with source locations for local development.
func newLogger(level string, env config.Environment) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	if env != config.Local {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}

	opts.AddSource = true
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envPortOr(fallback int) int {
	value := os.Getenv("PORT")
	if value == "" {
		return fallback
	}
	port, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return port
}
