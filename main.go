package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata"

	"store-monitor/config"
	"store-monitor/db"
	"store-monitor/loader"
	"store-monitor/notification"
	"store-monitor/pkg/logger"
	"store-monitor/report"
	"store-monitor/server"
)

func main() {
	log.Println("Starting store-monitor...")

	// Load Config
	if err := config.LoadConfig("config.yaml"); err != nil {
		log.Printf("Failed to load config.yaml: %v. Using defaults/env vars if available.", err)
	}

	// Initialize Logger
	if err := logger.Init(config.GlobalConfig.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize Database
	if err := db.Init(config.GlobalConfig.Database.Path); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	store := db.NewStore(db.DB)
	registry := report.NewMemoryRegistry()
	runner := report.NewRunner(store, registry,
		config.GlobalConfig.Report.Workers,
		config.GlobalConfig.Report.DefaultTimezone)
	runner.OnFinished = notification.NotifyReportFinished

	ldr := loader.New(db.DB, config.GlobalConfig.Loader.BatchSize)

	srv := server.NewServer(db.DB, runner, registry, ldr)

	if config.GlobalConfig.Notification.ResendAPIKey == "" {
		log.Println("Warning: RESEND_API_KEY is not set in config.yaml. Email notifications are disabled.")
	}

	// Run Server
	port := ":8001"
	if config.GlobalConfig.Server.Port != 0 {
		port = ":" + strconv.Itoa(config.GlobalConfig.Server.Port)
	}

	httpSrv := &http.Server{
		Addr:    port,
		Handler: srv.Router(),
	}

	// Initializing the server in a goroutine so that
	// it won't block the graceful shutdown handling below
	go func() {
		log.Printf("Server listening on %s", port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with
	// a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	db.Close()

	log.Println("Server exiting")
}
