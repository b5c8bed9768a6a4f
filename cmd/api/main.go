package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"docflow/internal/backend"
	"docflow/internal/config"
	apihttp "docflow/internal/http"
	"docflow/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	loc, err := cfg.DeadlineLocation()
	if err != nil {
		logger.Fatal("deadline timezone", zap.String("tz", cfg.DeadlineTZ), zap.Error(err))
	}

	limiter := service.NewMemoryLoginLimiter(cfg.LoginRateWindow, cfg.LoginRateMax)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, login limiter stays in memory", zap.Error(err))
		} else {
			limiter = service.NewRedisLoginLimiter(redisClient, cfg.LoginRateWindow, cfg.LoginRateMax)
		}
		cancel()
	}

	client := backend.NewClient(cfg.APIBaseURL, nil, cfg.APITimeout, logger)
	listing := service.NewListingService(logger, client, loc)
	handlers := apihttp.NewHandlers(logger, client, listing, limiter, cfg.SessionTTL)
	router := apihttp.NewRouter(logger, handlers, apihttp.SessionOptions{
		EntryRoute:   cfg.EntryRoute,
		TTL:          cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	})
	if !cfg.CookieSecure {
		logger.Warn("session cookies without Secure flag")
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting gateway",
		zap.String("port", cfg.HTTPPort),
		zap.String("api_base_url", cfg.APIBaseURL),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
