package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gestion-peluqueria-backend/config"
	"gestion-peluqueria-backend/controllers"
	"gestion-peluqueria-backend/models"
	"gestion-peluqueria-backend/routes"
	"gestion-peluqueria-backend/services"
	"gestion-peluqueria-backend/store"
	"gestion-peluqueria-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}

	if p := cfg.Platform; p.AdminEmail != "" {
		hash, err := utils.HashPassword(p.AdminPassword)
		if err != nil {
			logger.Fatal("platform admin", zap.Error(err))
		}
		created, err := store.NewUsers(db).EnsureAdmin(context.Background(), p.AdminEmail, hash)
		if err != nil {
			logger.Fatal("platform admin", zap.Error(err))
		}
		if created {
			logger.Info("platform administrator created", zap.String("email", p.AdminEmail))
		}
	}

	var blacklist utils.TokenBlacklist = utils.NewInMemoryTokenBlacklist()
	if cfg.Redis.Enabled {
		rdb, err := config.NewRedis(cfg.Redis)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
		blacklist = utils.NewRedisTokenBlacklist(rdb)
	}

	if cfg.Notices.Enabled {
		sender := services.NewTwilioSender(cfg.Notices.TwilioSID, cfg.Notices.TwilioToken)
		scheduler, err := services.NewNoticeService(db, sender, cfg.Notices, logger).StartScheduler()
		if err != nil {
			logger.Fatal("notice scheduler", zap.Error(err))
		}
		defer scheduler.Stop()
	}

	h := controllers.New(db, cfg, logger, utils.NewTokenManager(cfg.JWT), blacklist)
	r := routes.SetupRouter(cfg, h)
	printRoutes(logger, r)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func printRoutes(logger *zap.Logger, r *gin.Engine) {
	for _, route := range r.Routes() {
		logger.Debug("route", zap.String("method", route.Method), zap.String("path", route.Path))
	}
}
