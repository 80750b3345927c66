package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"imobcrm/internal/config"
	"imobcrm/internal/database"
	"imobcrm/internal/domain/kanban"
	"imobcrm/internal/domain/lead"
	"imobcrm/internal/pkg/jwt"
	"imobcrm/internal/pkg/logger"
	"imobcrm/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}

	if err := logger.Setup(logger.Options{
		Level:      cfg.LogLevel,
		JSON:       cfg.IsProduction(),
		SentryDSN:  cfg.SentryDSN,
		AppEnv:     cfg.AppEnv,
		AppRelease: os.Getenv("APP_RELEASE"),
	}); err != nil {
		logrus.Fatalf("logger: %v", err)
	}
	defer logger.Flush()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.ConnectWithPool(cfg.DatabaseURL, database.PoolOptions{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		logrus.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		logrus.Fatal(err)
	}

	pipeline, err := config.LoadPipeline(cfg.PipelineFile)
	if err != nil {
		logrus.Fatal(err)
	}
	catalog, err := lead.NewCatalog(pipeline)
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := kanban.NewHub()
	defer hub.Close()

	var publisher lead.EventPublisher = hub
	if cfg.RedisURL != "" {
		rdb, err := kanban.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logrus.Fatal(err)
		}
		defer rdb.Close()

		relay := kanban.NewRelay(rdb, hub)
		publisher = relay
		go func() {
			if err := relay.Run(ctx); err != nil {
				logger.LogError("kanban_relay_stopped", err, nil)
			}
		}()
	}

	leadService := lead.NewService(db, publisher)
	kanbanService := kanban.NewService(leadService, catalog)

	router := server.NewRouter(server.Deps{
		DB:            db,
		JWT:           jwt.New(cfg.JWTSecret, cfg.JWTTTL),
		Leads:         lead.NewHandler(leadService, catalog),
		Kanban:        kanban.NewHandler(kanbanService, hub),
		InternalToken: cfg.InternalToken,
		CORSOrigins:   cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{"addr": cfg.HTTPAddr, "env": cfg.AppEnv}).Info("CRM API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogError("http_shutdown", err, nil)
	}
}
