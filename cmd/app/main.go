package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MegaUnlimited-io/farmcash-public/internal/config"
	"github.com/MegaUnlimited-io/farmcash-public/internal/db"
	httpServer "github.com/MegaUnlimited-io/farmcash-public/internal/http"
	"github.com/MegaUnlimited-io/farmcash-public/internal/http/middleware"
	"github.com/MegaUnlimited-io/farmcash-public/internal/logger"
	"github.com/MegaUnlimited-io/farmcash-public/internal/repository"
	"github.com/MegaUnlimited-io/farmcash-public/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	rdb := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
	}
	middleware.SetRedisClient(rdb)

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.DevMode {
		r.Use(gin.Logger())
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	httpServer.RegisterRoutes(r, dbPool, rdb, cfg, version)

	monitor := service.NewOrphanMonitor(repository.NewUserRepository(dbPool), cfg.OrphanCheckInterval)
	if err := monitor.Start(); err != nil {
		logger.Error("orphan monitor not started", "error", err)
	}
	defer monitor.Stop()

	// the frontend is served from another origin and sends the bearer token
	// and the referral cookie
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Timezone"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
