// Command server runs the cinema booking web gateway: the JSON surface the
// booking pages call, in front of the cinema backend API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/iliyamo/cinema-booking-web/internal/apiclient"
	"github.com/iliyamo/cinema-booking-web/internal/auth"
	"github.com/iliyamo/cinema-booking-web/internal/booking"
	"github.com/iliyamo/cinema-booking-web/internal/bookingtemp"
	"github.com/iliyamo/cinema-booking-web/internal/cache"
	"github.com/iliyamo/cinema-booking-web/internal/config"
	"github.com/iliyamo/cinema-booking-web/internal/handler"
	"github.com/iliyamo/cinema-booking-web/internal/logging"
	"github.com/iliyamo/cinema-booking-web/internal/middleware"
	"github.com/iliyamo/cinema-booking-web/internal/payment"
	"github.com/iliyamo/cinema-booking-web/internal/queue"
	"github.com/iliyamo/cinema-booking-web/internal/router"
	"github.com/iliyamo/cinema-booking-web/internal/store"
	"github.com/iliyamo/cinema-booking-web/internal/validation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var envFile, addr string
	flagSet := pflag.NewFlagSet("server", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flagSet.StringVar(&addr, "addr", "", "listen address (default :$APP_PORT)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := config.LoadEnvFile(envFile, !flagSet.Changed("env-file")); err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	cfg := config.Load()
	if addr == "" {
		addr = ":" + cfg.Port
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, JSON: !cfg.IsDev()})
	rateLimit, err := config.LoadRateLimitConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		logger.Warn("redis unavailable: using in-memory session store and response cache")
	} else {
		defer rdb.Close()
	}

	sessions := store.New(rdb, "sess")
	if ms, ok := sessions.(*store.MemoryStore); ok {
		ms.StartJanitor(ctx, time.Minute)
	}
	selections := booking.NewManager(sessions, cfg.SessionTTL, logger)
	selections.StartJanitor(ctx, 10*time.Minute)
	authSessions := auth.NewManager(sessions, cfg.SessionTTL, cfg.JWTSecret, logger)

	tagCache := newTagCache(config.LoadCacheConfig(), rdb, logger)
	api := apiclient.NewAPI(apiclient.New(cfg.BackendBaseURL, cfg.HTTPTimeout, tagCache, logger))

	var publisher queue.Publisher = queue.NopPublisher{}
	if cfg.EventsEnabled {
		publisher = queue.NewAMQPPublisher(cfg.AMQPURL, logger)
	}
	if cfg.EventsConsumer {
		consumer := queue.NewConsumer(cfg.AMQPURL, "", logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("payment consumer stopped: %v", err)
			}
		}()
	}
	reconciler := payment.NewReconciler(api, selections, publisher, logger)

	temp := bookingtemp.New(cfg.BookingTempTTL, logger)
	temp.StartJanitor(ctx, time.Minute)

	returnURL := ""
	if cfg.PublicAPIURL != "" {
		returnURL = cfg.PublicAPIURL + "/api/payments/vnpay-return"
	}

	var invalidations *handler.InvalidationHandler
	if tagCache != nil {
		invalidations = handler.NewInvalidationHandler(tagCache)
		invalidations.Closing = ctx.Done()
	}

	e := newEcho(cfg, rateLimit, logger, rdb)
	router.Register(e, router.Handlers{
		API:           api,
		Auth:          handler.NewAuthHandler(api, authSessions),
		Catalog:       handler.NewCatalogHandler(api),
		Session:       handler.NewBookingSessionHandler(selections),
		BookingTemp:   handler.NewBookingTempHandler(temp),
		Reservation:   handler.NewReservationHandler(api, selections),
		Payment:       handler.NewPaymentHandler(api, reconciler, returnURL),
		Invalidations: invalidations,
	}, authSessions)

	errc := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s (env=%s, backend=%s)", addr, cfg.Env, cfg.BackendBaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newEcho(cfg config.Config, rateLimit config.RateLimitConfig, logger *log.Logger, rdb *redis.Client) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	e.Validator = validation.New()

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			rec := log.JSON{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
				"request_id": v.RequestID,
			}
			if v.Error != nil {
				rec["error"] = v.Error.Error()
				logger.Errorj(rec)
				return nil
			}
			logger.Infoj(rec)
			return nil
		},
	}))
	e.Use(middleware.Session(middleware.SessionConfig{
		CookieName: cfg.SessionCookie,
		TTL:        cfg.SessionTTL,
		Secure:     !cfg.IsDev(),
	}))
	e.Use(middleware.NewTokenBucket(rateLimit, rdb))
	return e
}

func newTagCache(cfg config.CacheConfig, rdb *redis.Client, logger *log.Logger) *cache.TagCache {
	if !cfg.Enabled {
		return nil
	}
	var backend cache.Backend = cache.NewMemoryBackend()
	if rdb != nil {
		backend = cache.NewRedisBackend(rdb, cfg.Prefix)
	}
	return cache.New(backend, cache.Options{TTL: cfg.TTL, MaxBodyBytes: cfg.MaxBodyBytes}, logger)
}
