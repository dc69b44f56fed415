package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matst80/slask-facets/pkg/catalog"
	"github.com/matst80/slask-facets/pkg/common"
	"github.com/matst80/slask-facets/pkg/config"
	"github.com/matst80/slask-facets/pkg/facet"
	"github.com/matst80/slask-facets/pkg/filter"
	"github.com/matst80/slask-facets/pkg/messaging"
	"github.com/matst80/slask-facets/pkg/server"
	"github.com/matst80/slask-facets/pkg/session"
	"github.com/matst80/slask-facets/pkg/tracking"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const evictionInterval = time.Minute

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg := config.C()

	logger, err := common.NewLogger(cfg.Logger.Level, cfg.Logger.AsJSON)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg, logger); err != nil {
		logger.Error("service stopped", zap.Error(err))
		os.Exit(1)
	}
}

func loadCatalog(path string) (*facet.Catalog, error) {
	if path == "" {
		return facet.DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return facet.LoadCatalog(f)
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	const op = "main.run"
	cat, err := loadCatalog(cfg.Products.CatalogFile)
	if err != nil {
		return fmt.Errorf("%s: facet catalog: %w", op, err)
	}

	var upstream catalog.Provider = catalog.StaticProvider{}
	if cfg.Products.Url != "" {
		upstream = catalog.NewHTTPProvider(cfg.Products.Url, cfg.Products.FetchTimeout)
	} else {
		logger.Warn("PRODUCTS_URL not set, serving an empty collection")
	}
	products := catalog.NewCachedProvider(upstream, nil, cfg.Products.CacheTTL, logger)

	checks := map[string]server.HealthCheck{}
	hooks := make([]common.ShutdownHook, 0)

	if cfg.Redis.Url != "" {
		cache := catalog.NewCache(cfg.Redis.Url, cfg.Redis.Password, cfg.Redis.DB)
		products.Cache = cache
		checks["redis"] = cache.Ping
		hooks = append(hooks, func(ctx context.Context) error { return cache.Close() })
	}

	manager := session.NewManager(products, cat, filter.NewEvaluator(cfg.Store.CurrencyRate), cfg.Sessions.TTL, cfg.Sessions.RecentSearches, logger)

	var trk tracking.Tracking = tracking.NoTracking{}
	if cfg.Rabbit.Url != "" {
		rt, err := tracking.NewRabbitTracking(cfg.Rabbit.Url, cfg.Store.Country, logger)
		if err != nil {
			logger.Error("tracking disabled", zap.Error(err))
		} else {
			trk = rt
		}

		conn, err := amqp.Dial(cfg.Rabbit.Url)
		if err != nil {
			return fmt.Errorf("%s: rabbit: %w", op, err)
		}
		hooks = append(hooks, func(ctx context.Context) error { return conn.Close() })
		err = messaging.ListenToProductChanges(ctx, conn, logger, func(change messaging.ProductChange) error {
			logger.Info("products changed", zap.Int("ids", len(change.Ids)), zap.String("reason", change.Reason))
			if err := products.Invalidate(ctx); err != nil {
				logger.Warn("product cache invalidation failed", zap.Error(err))
			}
			return manager.RefreshAll(ctx)
		})
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	hooks = append(hooks, func(ctx context.Context) error { return trk.Close() })

	ws := server.NewWebServer(manager, cat, trk, logger)
	timeouts := common.TimeoutConfig{
		ReadHeader: cfg.Server.ReadHeaderTimeout,
		Read:       cfg.Server.ReadTimeout,
		Write:      cfg.Server.WriteTimeout,
		Idle:       cfg.Server.IdleTimeout,
		Shutdown:   cfg.Server.ShutdownTimeout,
		Hook:       cfg.Server.HookTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// warm the shared snapshot so the first session does not wait on the api
		if _, err := products.FetchAll(gctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("initial product fetch failed", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		manager.RunEviction(gctx, evictionInterval)
		return nil
	})
	g.Go(func() error {
		srv := common.NewServerWithTimeouts(&http.Server{Addr: cfg.Server.ListenAddress, Handler: ws.Router()}, timeouts)
		return common.RunServerWithShutdown(gctx, logger, srv, "api", timeouts, hooks...)
	})
	g.Go(func() error {
		srv := &http.Server{Addr: cfg.Server.DebugAddress, Handler: server.DebugRouter(checks), ReadHeaderTimeout: timeouts.ReadHeader}
		return common.RunServerWithShutdown(gctx, logger, srv, "debug", timeouts)
	})
	return g.Wait()
}
