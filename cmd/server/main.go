package main // Entry point package

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/bus-seat-booking/internal/checkout"
	"github.com/iliyamo/bus-seat-booking/internal/config"
	"github.com/iliyamo/bus-seat-booking/internal/database"
	"github.com/iliyamo/bus-seat-booking/internal/handler"
	"github.com/iliyamo/bus-seat-booking/internal/logger"
	"github.com/iliyamo/bus-seat-booking/internal/middleware"
	"github.com/iliyamo/bus-seat-booking/internal/queue"
	"github.com/iliyamo/bus-seat-booking/internal/repository"
	"github.com/iliyamo/bus-seat-booking/internal/router"
	queue_publisher "github.com/iliyamo/bus-seat-booking/internal/service"
	"github.com/iliyamo/bus-seat-booking/internal/session"
)

func main() {
	dotenv := config.LoadDotEnv()
	cfg := config.Load()
	log := logger.New(cfg.Env)
	log.Info("configuration loaded", slog.String("env", cfg.Env), slog.Bool("dotenv", dotenv))

	bcfg, err := config.LoadBookingConfig()
	if err != nil {
		log.Error("invalid booking config", slog.Any("error", err))
		os.Exit(1)
	}
	grid, err := bcfg.Grid()
	if err != nil {
		log.Error("invalid seat layout", slog.Any("error", err))
		os.Exit(1)
	}
	store, err := session.NewStore(bcfg.Rules, grid, cfg.SessionTTL)
	if err != nil {
		log.Error("session store", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go store.Run(ctx, cfg.SweepInterval, func(n int) {
		if n > 0 {
			log.Debug("idle sessions dropped", slog.Int("count", n))
		}
	})

	// Optional collaborators: each one degrades to "off" when unconfigured.
	var opts []checkout.Option
	var bookings handler.BookingReader
	if cfg.DatabaseEnabled() {
		db, err := database.Open(cfg)
		if err != nil {
			log.Error("database unavailable, bookings will not be recorded", slog.Any("error", err))
		} else {
			defer db.Close()
			repo := repository.NewBookingRepo(db)
			opts = append(opts, checkout.WithRecorder(repo))
			bookings = repo
		}
	}
	if cfg.AMQPURL != "" {
		opts = append(opts, checkout.WithPublisher(&queue_publisher.Publisher{URL: cfg.AMQPURL, Logger: log.Logger}))
		if cfg.ConsumerEnable {
			c := &queue.Consumer{URL: cfg.AMQPURL, Dir: "logs", Logger: log.Logger}
			go func() {
				if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("booking consumer stopped", slog.Any("error", err))
				}
			}()
		}
	}
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, rate limiting and layout cache disabled")
	} else {
		defer rdb.Close()
	}

	svc := checkout.NewService(log, opts...)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log.Logger))

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewPublicHandler(bcfg.Rules, grid), middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterSelection(e,
		handler.NewSelectionHandler(store, svc, bookings, cfg.JWTSecret, cfg.TokenTTL, log.Logger),
		cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	)

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", slog.String("addr", addr), slog.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", slog.Any("error", err))
	}
}
