package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-exporter/internal/db"
	"github.com/jonathan/resume-exporter/internal/observability"
	"github.com/jonathan/resume-exporter/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server for transforming and rendering resumes.

Profile endpoints are enabled when a database URL is configured.`,
	RunE: runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	srvCfg := server.Config{
		Port:               port,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		RateLimitBurst:     cfg.Server.RateLimitBurst,
		Exporter:           newExporter(metrics),
		Logger:             logger,
		Metrics:            metrics,
		Gatherer:           reg,
	}

	if cfg.DatabaseURL != "" {
		database, err := connectStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		srvCfg.Store = database
	} else {
		logger.Warn("no database_url configured, profile endpoints disabled")
	}

	return server.New(srvCfg).Start(ctx)
}

func connectStore(ctx context.Context, url string) (*db.DB, error) {
	database, err := db.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	logger.Info("connected to profile database")
	return database, nil
}
