// sitegate is the access-control gateway and content API for the
// company site: token issuance and verification, the admin guard
// pipeline, rate limiting, the site lock/maintenance engine, and the
// public content endpoints.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	appservice "github.com/ferrocrete/sitegate/internal/application/service"
	"github.com/ferrocrete/sitegate/internal/config"
	domainservice "github.com/ferrocrete/sitegate/internal/domain/service"
	"github.com/ferrocrete/sitegate/internal/infrastructure/audit"
	"github.com/ferrocrete/sitegate/internal/infrastructure/crypto"
	"github.com/ferrocrete/sitegate/internal/infrastructure/lockstore"
	"github.com/ferrocrete/sitegate/internal/infrastructure/monitoring"
	"github.com/ferrocrete/sitegate/internal/infrastructure/persistence/gormdb"
	"github.com/ferrocrete/sitegate/internal/infrastructure/ratelimit"
	"github.com/ferrocrete/sitegate/internal/infrastructure/secrets"
	"github.com/ferrocrete/sitegate/internal/interfaces/http/handlers"
	"github.com/ferrocrete/sitegate/internal/interfaces/http/middleware"
	"github.com/ferrocrete/sitegate/internal/interfaces/http/router"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sitegate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, shutdownTracer, err := monitoring.InitTracer(&cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Warn(shutdownCtx, "tracer shutdown failed", logger.Fields{"error": err.Error()})
		}
	}()

	source, err := secrets.FromConfig(cfg, log)
	if err != nil {
		return fmt.Errorf("init secret source: %w", err)
	}
	material, err := source.SigningMaterial(ctx)
	if err != nil {
		if cfg.Server.IsProduction() {
			return fmt.Errorf("load signing material: %w", err)
		}
		// Development keeps running fail-closed with empty material so the
		// problem shows up in /ready instead of a crash loop.
		log.Warn(ctx, "signing material unavailable", logger.Fields{"error": err.Error()})
		material = crypto.SigningMaterial{}
	}

	tokens := crypto.NewTokenManager(material, log)
	if err := tokens.IntegrityErr(); err != nil {
		// An integrity failure in production is fatal; in development the
		// process stays up fail-closed so the problem is visible in /ready.
		if cfg.Server.IsProduction() {
			return fmt.Errorf("signing material integrity check: %w", err)
		}
		log.Warn(ctx, "running fail-closed: signing material failed its integrity check",
			logger.Fields{"error": err.Error()})
	}

	locks, err := lockstore.NewFileStore(cfg.Lock.StateFile, log)
	if err != nil {
		return fmt.Errorf("init lock store: %w", err)
	}

	db, err := gormdb.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	limiter, err := buildLimiter(cfg, log)
	if err != nil {
		return err
	}

	var recorder domainservice.AuditRecorder = audit.NewLogRecorder(log)
	var kafkaRecorder *audit.KafkaRecorder
	if cfg.Kafka.Enabled {
		kafkaRecorder = audit.NewKafkaRecorder(&cfg.Kafka, recorder, log)
		recorder = kafkaRecorder
	}

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	authSvc := appservice.NewAuthAppService(tokens, recorder, cfg.Security.AdminPassword, log)
	lockSvc := appservice.NewLockAppService(locks, recorder, log)
	contentSvc := appservice.NewContentAppService(gormdb.NewContentRepository(db), log)

	guard := middleware.NewAdminGuard(
		authSvc, limiter, recorder, metrics,
		cfg.Security.AdminAllowList, cfg.Server.IsProduction(), log,
	)

	r := router.New(cfg, router.Handlers{
		Auth:    handlers.NewAuthHandler(authSvc, metrics, log),
		Lock:    handlers.NewLockHandler(lockSvc, metrics, log),
		Content: handlers.NewContentHandler(contentSvc, log),
		Health:  handlers.NewHealthHandler(db, tokens.IntegrityErr, log),
	}, guard, limiter, recorder, metrics, tracer, log)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	if cfg.Lock.Watch {
		if err := locks.Watch(ctx); err != nil {
			return fmt.Errorf("lock state watcher: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "server listening", logger.Fields{
			"addr": server.Addr,
			"mode": cfg.Server.Mode,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		if kafkaRecorder != nil {
			if err := kafkaRecorder.Close(); err != nil {
				log.Warn(context.Background(), "kafka recorder close failed", logger.Fields{"error": err.Error()})
			}
		}
		return nil
	})

	return g.Wait()
}

func buildLimiter(cfg *config.Config, log logger.Logger) (domainservice.RateLimiter, error) {
	if !cfg.RateLimit.Enabled {
		log.Warn(context.Background(), "rate limiting disabled by configuration")
		return ratelimit.NewNoopLimiter(), nil
	}

	limits := ratelimit.LimitsFromConfig(&cfg.RateLimit)

	if cfg.RateLimit.Backend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return ratelimit.NewRedisLimiter(client, limits, log), nil
	}

	return ratelimit.NewWindowLimiter(limits), nil
}
