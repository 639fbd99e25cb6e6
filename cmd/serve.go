package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rorical/CircuiTech/internal/agent"
	"github.com/Rorical/CircuiTech/internal/config"
	"github.com/Rorical/CircuiTech/internal/logging"
	"github.com/Rorical/CircuiTech/internal/metrics"
	"github.com/Rorical/CircuiTech/internal/server"
	"github.com/Rorical/CircuiTech/internal/sessions"
)

var serveAddrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sourcing backend",
	Long: `Run the HTTP backend that sources parts and derives pin maps.
The LLM key and model come from the active profile (or CIRCUITECH_API_KEY).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if err := runServer(cmd.Context(), cfg); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	},
}

func runServer(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(logging.Config{
		Level:      cfg.LogLevel,
		Format:     "json",
		OutputPath: "stderr",
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.GetAPIKey() == "" {
		return errors.New("no LLM API key: set api_key on the active profile or CIRCUITECH_API_KEY")
	}

	store, closeStore, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client := agent.NewClient(cfg.GetAPIKey(), cfg.Server.LLMBaseURL)
	srv := server.New(
		agent.NewBomAgent(client, cfg.GetModel()),
		agent.NewPinMapAgent(client, cfg.GetModel()),
		store,
		server.WithLogger(logger),
		server.WithMetrics(metrics.New(registry), registry),
	)

	addr := cfg.Server.Addr
	if serveAddrFlag != "" {
		addr = serveAddrFlag
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("model", cfg.GetModel()))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// newSessionStore returns the Redis store when server.redis_addr is set and
// the in-memory store otherwise.
func newSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (sessions.Store, func(), error) {
	if cfg.Server.RedisAddr == "" {
		logger.Info("using in-memory session store")
		return sessions.NewMemoryStore(), func() {}, nil
	}

	store := sessions.NewRedisStore(cfg.Server.RedisAddr, sessions.WithTTL(cfg.GetSessionTTL()))
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Server.RedisAddr, err)
	}
	logger.Info("using redis session store", zap.String("addr", cfg.Server.RedisAddr))
	return store, func() { _ = store.Close() }, nil
}

func init() {
	serveCmd.Flags().StringVar(&serveAddrFlag, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
