package main

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/parlorworks/salon-scheduler/internal/cache"
	"github.com/parlorworks/salon-scheduler/internal/config"
	dbpkg "github.com/parlorworks/salon-scheduler/internal/db"
	"github.com/parlorworks/salon-scheduler/internal/middleware"
	"github.com/parlorworks/salon-scheduler/internal/routes"
)

func main() {

	cfg := config.Load()

	var log *zap.Logger
	var err error
	if cfg.Production() {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db := dbpkg.NewDB(cfg, log)

	redisCache := cache.New(cfg.RedisAddr, cfg.RedisPassword)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
		redisCache = nil
	}

	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, log, redisCache)

	log.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
