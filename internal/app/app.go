// Package app wires the cart service's dependencies and runs it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/utafrali/storefront/internal/auth"
	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/engine"
	"github.com/utafrali/storefront/internal/event"
	handler "github.com/utafrali/storefront/internal/handler/http"
	"github.com/utafrali/storefront/internal/repository"
	"github.com/utafrali/storefront/internal/repository/memory"
	pgrepo "github.com/utafrali/storefront/internal/repository/postgres"
	redisrepo "github.com/utafrali/storefront/internal/repository/redis"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/migrations"
	"github.com/utafrali/storefront/pkg/database"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/httpclient"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/tracing"
)

const (
	consumerGroup      = "cart-service"
	slowQueryThreshold = 200 * time.Millisecond
	idempotencyTTL     = 24 * time.Hour
	shutdownTimeout    = 10 * time.Second
)

// App wires together all dependencies and runs the cart service.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	rdb      *redis.Client
	pool     *pgxpool.Pool
	producer *pkgkafka.Producer
	dlq      *pkgkafka.DLQProducer
	consumer *pkgkafka.Consumer

	shutdownTracer func(context.Context) error
	httpServer     *http.Server
	releaseOnce    sync.Once
}

// NewApp creates a new application instance, initializing all dependencies.
// Partially built dependencies are released when it fails.
func NewApp(cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.release()
		}
	}()

	a.shutdownTracer, err = tracing.InitTracer(ctx, cfg.Tracing(), logger)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	healthHandler := health.NewHandler(config.ServiceName)

	store, err := a.cartStore(ctx, healthHandler)
	if err != nil {
		return nil, err
	}
	products, err := a.catalog(ctx, healthHandler)
	if err != nil {
		return nil, err
	}

	var publisher service.Publisher = event.Discard{}
	if cfg.EventsEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewProducer(a.producer, logger)
		healthHandler.Register("kafka", health.KafkaChecker(cfg.KafkaBrokers))
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	carts := service.NewCartService(store, products, publisher,
		engine.Options{EnforceQuantityBounds: cfg.EnforceQuantityBounds}, logger)

	if cfg.EventsEnabled {
		a.consumer = a.orderConsumer(carts)
	}

	var tokens middleware.TokenValidator
	if cfg.JWTSecret != "" {
		tokens = auth.NewJWTManager(cfg.JWTSecret, time.Hour).ValidateAccessToken
	} else {
		logger.Warn("JWT_SECRET not set, all carts are guest carts")
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(handler.RouterConfig{
		Carts:      carts,
		Catalog:    products,
		Health:     healthHandler,
		Tokens:     tokens,
		CORS:       cors,
		PprofCIDRs: cfg.PprofAllowedCIDRs,
		Logger:     logger,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return a, nil
}

func (a *App) cartStore(ctx context.Context, h *health.Handler) (repository.CartStore, error) {
	if a.cfg.Store == config.StoreMemory {
		a.logger.Warn("using in-memory cart store, carts are lost on restart")
		return memory.NewCartStore(), nil
	}

	rdb, err := database.NewRedisClient(ctx, a.cfg.Redis(), a.logger)
	if err != nil {
		return nil, err
	}
	a.rdb = rdb
	h.Register("redis", health.RedisChecker(rdb))
	a.logger.Info("connected to Redis",
		slog.String("addr", a.cfg.RedisAddr),
		slog.Int("db", a.cfg.RedisDB),
	)
	return redisrepo.NewCartStore(rdb, a.cfg.CartTTL()), nil
}

func (a *App) catalog(ctx context.Context, h *health.Handler) (repository.ProductCatalog, error) {
	switch a.cfg.CatalogBackend {
	case config.CatalogPostgres:
		pgCfg := a.cfg.Postgres()
		pool, err := database.NewPostgresPool(ctx, &pgCfg, a.logger)
		if err != nil {
			return nil, err
		}
		a.pool = pool

		if err := database.RunMigrations(ctx, pool, migrations.FS, a.logger); err != nil {
			return nil, fmt.Errorf("run catalog migrations: %w", err)
		}
		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, config.ServiceName); err != nil {
			return nil, fmt.Errorf("register pool metrics: %w", err)
		}
		h.Register("postgres", health.PingChecker(pool))
		a.logger.Info("connected to catalog database", slog.String("db", pgCfg.DBName))
		return pgrepo.NewCatalog(pool, database.NewQueryTracer(slowQueryThreshold, a.logger)), nil

	case config.CatalogHTTP:
		a.logger.Info("using upstream catalog", slog.String("url", a.cfg.CatalogURL))
		return catalog.NewClient(a.cfg.CatalogURL, httpclient.DefaultConfig(), a.logger), nil

	default:
		return memory.NewCatalog(memory.SeedProducts()...), nil
	}
}

// orderConsumer clears a buyer's cart when their order is created. Event IDs
// are remembered in redis when available so redeliveries across restarts are
// skipped too.
func (a *App) orderConsumer(carts *service.CartService) *pkgkafka.Consumer {
	var seen pkgkafka.IdempotencyStore = pkgkafka.NewMemoryIdempotencyStore(idempotencyTTL)
	if a.rdb != nil {
		seen = pkgkafka.NewRedisIdempotencyStore(a.rdb, "idempotency:cart-service:", idempotencyTTL)
	}

	orders := event.NewOrderConsumer(carts, a.logger)
	a.dlq = pkgkafka.NewDLQProducer(a.cfg.KafkaBrokers, a.logger)

	return pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
		Brokers: a.cfg.KafkaBrokers,
		GroupID: consumerGroup,
		Topic:   event.TopicOrderCreated,
	}, pkgkafka.IdempotentHandler(seen, orders.Handle, a.logger), a.dlq, a.logger)
}

// Run starts the HTTP server and the order consumer, and blocks until the
// context is canceled or a component fails.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.consumer != nil {
		g.Go(func() error {
			a.logger.Info("starting order consumer", slog.String("topic", event.TopicOrderCreated))
			if err := a.consumer.Start(gctx); err != nil {
				return fmt.Errorf("order consumer: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down application...")
		a.stopHTTP()
		return nil
	})

	err := g.Wait()
	a.release()
	return err
}

// Shutdown stops the HTTP server and releases every dependency. It is for
// callers that built the App without running it.
func (a *App) Shutdown() {
	a.stopHTTP()
	a.release()
}

func (a *App) stopHTTP() {
	if a.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}
}

// release closes clients and flushes traces once.
func (a *App) release() {
	a.releaseOnce.Do(func() {
		a.close()
		if a.shutdownTracer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := a.shutdownTracer(ctx); err != nil {
				a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			}
		}
		a.logger.Info("application shutdown complete")
	})
}

func (a *App) close() {
	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
		}
	}
	if a.dlq != nil {
		if err := a.dlq.Close(); err != nil {
			a.logger.Error("dlq producer close error", slog.String("error", err.Error()))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
