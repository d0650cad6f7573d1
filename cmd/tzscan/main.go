package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"github.com/kiliwatch/tzscan/internal/app"
	"github.com/kiliwatch/tzscan/internal/config"
	"github.com/kiliwatch/tzscan/internal/logger"
	"github.com/kiliwatch/tzscan/internal/metrics"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		runOnce     = flag.Bool("once", false, "Run a single scan and exit, ignoring RUN_SCHEDULE")
	)
	flag.Parse()

	if *showHelp {
		fmt.Printf("tzscan - security news scanner\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment Variables:\n")
		fmt.Printf("  SCOPE_CONFIG_PATH        Scope YAML path (default: configs/scope.yaml)\n")
		fmt.Printf("  DATA_DIR                 Output directory (default: web/data)\n")
		fmt.Printf("  RUN_SCHEDULE             Cron expression; empty = run once and exit\n")
		fmt.Printf("  TELEGRAM_TOKEN           Telegram bot token (optional)\n")
		fmt.Printf("  TELEGRAM_CHAT_ID         Telegram chat/channel id (optional)\n")
		fmt.Printf("  NOTIFY_CACHE             file, postgres or off (default: file)\n")
		fmt.Printf("  DATABASE_URL             PostgreSQL URL for NOTIFY_CACHE=postgres\n")
		fmt.Printf("  ENABLE_HTTP_MONITORING   true to serve /health and /metrics\n")
		fmt.Printf("  MONITORING_PORT          Monitoring port (default: 8080)\n")
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("tzscan %s (%s)\n", Version, Commit)
		os.Exit(0)
	}

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RunSchedule != "" && !*runOnce {
		runScheduled(ctx, cfg)
		return
	}

	if err := app.Run(ctx, cfg); err != nil {
		logger.Error("scan run failed", "err", err)
		os.Exit(1)
	}
}

// runScheduled keeps the process alive and triggers a run per the cron
// expression, for deployments without an external scheduler.
func runScheduled(ctx context.Context, cfg *config.Config) {
	c := cron.New()
	_, err := c.AddFunc(cfg.RunSchedule, func() {
		if err := app.Run(ctx, cfg); err != nil {
			logger.Error("scheduled run failed", "err", err)
		}
	})
	if err != nil {
		logger.Error("invalid RUN_SCHEDULE", "schedule", cfg.RunSchedule, "err", err)
		os.Exit(1)
	}

	logger.Info("scheduler started", "schedule", cfg.RunSchedule)
	c.Start()
	<-ctx.Done()
	c.Stop()
}

func startMonitoringServer() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	logger.Info("monitoring server listening", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Error("monitoring server stopped", "err", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	snap := metrics.Status.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	if healthy, ok := snap["is_healthy"].(bool); ok && !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(snap)
}
