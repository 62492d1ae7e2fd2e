package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "jobboard/internal/config"
	router "jobboard/internal/http"
	"jobboard/internal/http/handlers"
	"jobboard/internal/services"
	"jobboard/internal/storage"
	"jobboard/internal/utils"
)

func main() {
	env := intconfig.LoadEnv()
	utils.SetupLogger(os.Stdout, env.LogLevel)
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := intconfig.ConnectDB(env.DBDSN)
	if err != nil {
		slog.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer intconfig.CloseDB()

	if env.Migrate {
		if err := intconfig.Migrate(db); err != nil {
			slog.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}

	var archiver storage.Archiver = storage.NopArchiver{}
	if env.Minio.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		a, err := storage.NewMinioArchiver(ctx, env.Minio)
		cancel()
		if err != nil {
			slog.Warn("minio unavailable, uploads will not be archived", "err", err)
		} else {
			archiver = a
		}
	}

	r := router.NewRouter(env, handlers.Deps{
		Tokens:         services.TokenIssuer{Secret: []byte(env.JWTSecret), TTL: time.Duration(env.JWTTTLHours) * time.Hour},
		Archiver:       archiver,
		UploadDir:      env.UploadDir,
		MaxUploadBytes: env.ImportMaxBytes,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "err", err)
		return
	}

	slog.Info("server stopped")
}
