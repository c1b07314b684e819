package main

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

	"github.com/SherClockHolmes/webpush-go"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"hourmeter-backend/config"
	"hourmeter-backend/internal/api"
	"hourmeter-backend/internal/db"
	"hourmeter-backend/internal/ledger"
	"hourmeter-backend/internal/notification"
	"hourmeter-backend/internal/render"
	"hourmeter-backend/internal/store"
)

const defaultConfigPath = "./config/config.yaml"

// resolveConfigPath picks the --config flag, then CONFIG_PATH, then the default.
func resolveConfigPath(args []string, getenv func(string) string) (string, error) {
	flagSet := pflag.NewFlagSet("hourmeterd", pflag.ContinueOnError)
	configFlag := flagSet.StringP("config", "c", "", "path to the YAML configuration file")
	if err := flagSet.Parse(args); err != nil {
		return "", err
	}
	if *configFlag != "" {
		return *configFlag, nil
	}
	if p := getenv("CONFIG_PATH"); p != "" {
		return p, nil
	}
	return defaultConfigPath, nil
}

// withCORS wraps h when origins are configured.
func withCORS(h http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		return h
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	})(h)
}

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "hourmeter-backend ", log.LstdFlags)

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err == nil {
		logger.Println("loaded environment from .env")
	}

	configPath, err := resolveConfigPath(os.Args[1:], os.Getenv)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		logger.Fatalf("invalid arguments: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	var webpushOptions *webpush.Options
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		logger.Println("VAPID keys are not configured; web push notifications are disabled")
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Printf("database initialized successfully (%s)", cfg.Database.Driver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions)
	if cfg.Events.AMQPURL != "" {
		pool.SetPublisher(notification.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Queue))
		logger.Printf("publishing maintenance alarms to queue %s", cfg.Events.Queue)
	}
	pool.Start(ctx)

	var notifier ledger.Notifier
	if webpushOptions != nil || cfg.Events.AMQPURL != "" {
		notifier = pool
	}
	appLedger := ledger.New(appStore, notifier)
	renderer := render.NewPDFRenderer(cfg.Reports.Dir, cfg.Reports.CompanyName)

	handler := api.NewHandler(appLedger, appStore, renderer, webpushOptions)
	router := api.NewRouter(handler, cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: withCORS(router, cfg.Server.CORSAllowedOrigins),
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}
	cancel()

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Println("Server gracefully stopped")
}
