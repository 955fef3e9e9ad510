package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/keepaway"
	"github.com/aretw0/keepaway/internal/config"
	"github.com/aretw0/keepaway/internal/logging"
	httpAdapter "github.com/aretw0/keepaway/pkg/adapters/http"
	"github.com/aretw0/keepaway/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/keepaway/pkg/adapters/redis"
	"github.com/aretw0/keepaway/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves the upload routes, the JSON simulation API, health probes and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("cache") {
			cfg.Cache.Backend, _ = cmd.Flags().GetString("cache")
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err := newLogger(cfg.Log)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		opts := []keepaway.Option{
			keepaway.WithLogger(logger),
			keepaway.WithMetrics(metrics),
			keepaway.WithTimeout(cfg.Server.SolveTimeout),
		}
		switch cfg.Cache.Backend {
		case "memory":
			opts = append(opts, keepaway.WithCache(memory.NewCache()))
		case "redis":
			cache := redisAdapter.New(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB,
				redisAdapter.WithTTL(cfg.Cache.TTL),
				redisAdapter.WithPrefix(cfg.Cache.Prefix),
			)
			defer cache.Close()

			pingCtx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
			defer cancel()
			if err := cache.Ping(pingCtx); err != nil {
				return fmt.Errorf("redis unavailable at %s: %w", cfg.Cache.RedisAddr, err)
			}
			opts = append(opts,
				keepaway.WithCache(cache),
				keepaway.WithLocker(redisAdapter.NewLocker(cache.Client(), cfg.Cache.Prefix)),
			)
		}

		handler := httpAdapter.NewHandler(keepaway.New(opts...),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMaxRounds(cfg.Server.MaxRounds),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		)

		srv := &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("keepaway server listening", "addr", srv.Addr, "cache", cfg.Cache.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("shutdown started")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("keepaway server stopped gracefully")
			return nil
		}
	},
}

func newLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Format == "json" {
		return logging.NewJSON(os.Stderr, level), nil
	}
	return logging.New(level), nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("config", "c", "", "Path to a YAML or JSON config file")
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("cache", "memory", "Answer cache backend: none, memory or redis")
}
