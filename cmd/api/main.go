package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jonnronanmn/movies-api/docs" // swagger docs

	"github.com/jonnronanmn/movies-api/internal/config"
	"github.com/jonnronanmn/movies-api/internal/db"
	"github.com/jonnronanmn/movies-api/internal/feed"
	"github.com/jonnronanmn/movies-api/internal/handler"
	"github.com/jonnronanmn/movies-api/internal/repository"
	"github.com/jonnronanmn/movies-api/internal/service"
	"github.com/jonnronanmn/movies-api/internal/throttle"

	log "github.com/sirupsen/logrus"
)

// @title Movies API
// @version 1.0
// @description Catálogo de películas con comentarios, usuarios y JWT
// @host localhost:4000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	} else {
		log.WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	// Mongo y Redis
	client, database, err := db.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("mongo")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.WithError(err).Fatal("mongo indexes")
	}
	cancel()

	rdb, err := throttle.Connect(cfg)
	if err != nil {
		// sin Redis el login funciona igual, solo sin throttle
		log.WithError(err).WithField("component", "redis").Warn("login throttling disabled")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// repos
	userRepo := repository.NewUserRepository(database)
	movieRepo := repository.NewMovieRepository(database)

	// services
	hub := feed.NewHub()
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	limiter := throttle.NewLoginThrottle(rdb, cfg.LoginMaxAttempts, cfg.LoginWindow)
	authSvc := service.NewAuthService(userRepo, tokens, limiter)
	movieSvc := service.NewMovieService(movieRepo, userRepo, hub)

	// handlers
	authH := handler.NewAuthHandler(authSvc)
	movieH := handler.NewMovieHandler(movieSvc)
	feedH := handler.NewFeedHandler(movieSvc, hub)

	router := handler.NewRouter(handler.RouterConfig{
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, tokens, authH, movieH, feedH)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("HTTP escuchando")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}
