// main.go - Entry point for the training roster backend

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-training-backend/config"
	"go-training-backend/database"
	"go-training-backend/handlers"
	"go-training-backend/logger"

	"github.com/spf13/afero"
)

func main() {
	// STEP 1: Load configuration and open the CSV stores
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(2)
	}
	log := logger.New(&logger.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fs := afero.NewOsFs()
	db, err := database.Connect(ctx, cfg, fs, log)
	if err != nil {
		log.Error("store setup failed", "err", err)
		os.Exit(1)
	}

	// STEP 2: Build the router
	router := handlers.SetupRouter(handlers.New(db, cfg, fs, log))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// STEP 3: Serve until interrupted
	go func() {
		<-ctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "err", err)
		}
	}()

	log.Info("backend server running", "addr", fmt.Sprintf("http://localhost:%d", cfg.Port))
	log.Info("csv paths", "users", cfg.UsersCSV, "usersPublic", cfg.UsersPublicCSV,
		"trainings", cfg.TrainingsCSV, "trainingsPublic", cfg.TrainingsPublicCSV)
	log.Info("health check", "url", fmt.Sprintf("http://localhost:%d/api/health", cfg.Port))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server failed", "err", err)
		os.Exit(1)
	}
}
