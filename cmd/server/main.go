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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/CernunnosYQ/blogfolio/internal/config"
	"github.com/CernunnosYQ/blogfolio/internal/es"
	"github.com/CernunnosYQ/blogfolio/internal/handlers"
	"github.com/CernunnosYQ/blogfolio/internal/logging"
	authmw "github.com/CernunnosYQ/blogfolio/internal/middleware/auth"
	"github.com/CernunnosYQ/blogfolio/internal/mykafka"
	"github.com/CernunnosYQ/blogfolio/internal/repo"
	"github.com/CernunnosYQ/blogfolio/internal/service"
	"github.com/CernunnosYQ/blogfolio/internal/tokens"
	httpserver "github.com/CernunnosYQ/blogfolio/internal/transport/http"
	pkgdb "github.com/CernunnosYQ/blogfolio/pkg/db"
)

const blogpostIndex = "blogposts"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	ctx := context.Background()
	db, err := pkgdb.Open(ctx, cfg.DatabaseDSN())
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	codec, err := tokens.NewCodec([]byte(cfg.SECRET_KEY), cfg.JWT_ALGORITHM)
	if err != nil {
		log.Fatalf("token codec error: %v", err)
	}

	var producer *mykafka.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer([]string{cfg.KAFKA_ADDRESS})
	} else {
		logger.Warn("KAFKA_ADDRESS not set, domain events disabled")
	}

	esClient, err := es.NewClient(cfg)
	if err != nil {
		logger.Warn("elasticsearch unavailable, search disabled", "error", err)
		esClient = nil
	}

	r := repo.New(db)
	authSvc := &service.AuthService{
		Repo:       r,
		Codec:      codec,
		AccessTTL:  cfg.AccessTTL(),
		RefreshTTL: cfg.RefreshTTL(),
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(logger)

	deps := &httpserver.Deps{
		Auth:      &handlers.AuthHandler{Svc: authSvc, Producer: producer, Production: cfg.PRODUCTION},
		Users:     &handlers.UserHandler{Repo: r, Producer: producer},
		Blogposts: &handlers.BlogpostHandler{Repo: r, Producer: producer, ES: esClient, Index: blogpostIndex},
		Projects:  &handlers.ProjectHandler{Repo: r, Producer: producer},
		Tags:      &handlers.TagHandler{Repo: r},
		Search:    &handlers.SearchHandler{ES: esClient, Index: blogpostIndex},
		Guard:     authmw.NewGuard(authSvc),
	}
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         ":" + cfg.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
