package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/tenonkit/tenon"
	pgxadapter "github.com/tenonkit/tenon/adapters/pgx"
	redisadapter "github.com/tenonkit/tenon/adapters/redis"
	"github.com/tenonkit/tenon/config"
	"github.com/tenonkit/tenon/core"
	"github.com/tenonkit/tenon/logger"
	"github.com/tenonkit/tenon/provider/google"
	"github.com/tenonkit/tenon/provider/gotrue"
	"github.com/tenonkit/tenon/provider/local"
)

func main() {
	_ = godotenv.Load()
	log := logger.Init()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}
	defer pool.Close()
	db := pgxadapter.New(pool)

	var sessionCache core.SessionCache
	if cfg.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to reach redis", "error", err)
		}
		defer client.Close()
		sessionCache = redisadapter.New(client, core.CacheConfig{TTL: time.Minute})
		log.Info("session cache: redis", "addr", cfg.RedisAddr)
	}

	// Hosted provider when configured, self-hosted otherwise. Without
	// hosted credentials the guard fails open so pages still render on
	// a fresh checkout.
	var provider core.AuthProvider
	var localProvider *local.Provider
	failOpen := false
	if cfg.ProviderConfigured() {
		hosted, err := gotrue.New(cfg.AuthURL, cfg.AuthAnonKey)
		if err != nil {
			logger.Fatal("failed to configure auth provider", "error", err)
		}
		provider = hosted
		log.Info("auth provider: hosted", "url", cfg.AuthURL)
	} else {
		localProvider = local.New(db, nil, cfg.SessionMaxAge)
		provider = localProvider
		failOpen = true
		log.Warn("auth provider not configured, routing guard fails open")
	}

	httpApp := fiber.New(fiber.Config{
		AppName: "tenon",
	})

	app, err := tenon.New(tenon.Config{
		Storage:      db,
		Provider:     provider,
		HTTP:         httpApp,
		CacheAdapter: sessionCache,
		BaseURL:      cfg.BaseURL,
		FailOpen:     failOpen,
		Logger:       log,
	})
	if err != nil {
		logger.Fatal("failed to assemble application", "error", err)
	}

	// Google sign-in needs the local provider for identity linking.
	if localProvider != nil && cfg.GoogleClientID != "" {
		g, err := google.New(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, log)
		if err != nil {
			logger.Fatal("failed to configure google provider", "error", err)
		}
		app.HTTP.RegisterGoogleRoutes(g, localProvider)
		log.Info("google sign-in enabled")
	}

	// Expired session rows delete themselves on contact; the sweep
	// catches sessions nobody presents again.
	if localProvider != nil {
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				if n, err := localProvider.PruneSessions(ctx); err != nil {
					log.Error("session sweep failed", "error", err)
				} else if n > 0 {
					log.Info("swept expired sessions", "count", n)
				}
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}
		}()
	}

	go func() {
		if err := httpApp.Listen(":" + cfg.AppPort); err != nil {
			logger.Fatal("http server failed", "error", err)
		}
	}()
	log.Info("tenon started", "port", cfg.AppPort)

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpApp.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", "error", err)
	}
	log.Info("tenon stopped cleanly")
}
