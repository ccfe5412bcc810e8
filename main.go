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

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/ceylonworkforce/jobboard/internal/accounts"
	"github.com/ceylonworkforce/jobboard/internal/cache"
	"github.com/ceylonworkforce/jobboard/internal/cache/memory"
	"github.com/ceylonworkforce/jobboard/internal/cache/redis"
	"github.com/ceylonworkforce/jobboard/internal/config"
	"github.com/ceylonworkforce/jobboard/internal/events"
	"github.com/ceylonworkforce/jobboard/internal/featured"
	"github.com/ceylonworkforce/jobboard/internal/ingestion"
	"github.com/ceylonworkforce/jobboard/internal/jobs"
	"github.com/ceylonworkforce/jobboard/internal/models"
	"github.com/ceylonworkforce/jobboard/internal/moderation"
	"github.com/ceylonworkforce/jobboard/internal/repository"
	"github.com/ceylonworkforce/jobboard/internal/server"
	"github.com/ceylonworkforce/jobboard/internal/storage"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Development() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newStorage(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	store, err := storage.NewStorage(cfg.Storage, models.Collections)
	if err != nil {
		return nil, err
	}
	logger.Info("storage ready", zap.String("type", cfg.Storage.Type))
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

func newCache(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (cache.Cache, error) {
	opts := cache.DefaultOptions()
	opts.DefaultTTL = cfg.Cache.TTL

	var c cache.Cache
	if cfg.Cache.RedisAddr != "" {
		opts.RedisAddr = cfg.Cache.RedisAddr
		opts.RedisPassword = cfg.Cache.RedisPassword
		opts.RedisDB = cfg.Cache.RedisDB
		rc := redis.New(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rc.Ping(ctx); err != nil {
			rc.Close()
			return nil, err
		}
		logger.Info("using redis cache", zap.String("addr", cfg.Cache.RedisAddr))
		c = rc
	} else {
		logger.Info("using in-memory cache")
		c = memory.New(opts)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})
	return c, nil
}

func newPublisher(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	if cfg.Events.NATSURL == "" {
		logger.Info("NATS_URL not set, domain events are dropped")
		return events.Noop{}, nil
	}
	p, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.ConnTimeout, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			p.Close()
			return nil
		},
	})
	return p, nil
}

func newRepositories(store storage.Storage) *repository.Repositories {
	return repository.New(store)
}

func newFeatured(repos *repository.Repositories, emitter *events.Emitter, logger *zap.Logger) *featured.Service {
	return featured.NewService(repos.Featured, repos.Jobs, emitter, logger)
}

func newJobs(cfg *config.Config, repos *repository.Repositories, c cache.Cache, emitter *events.Emitter, logger *zap.Logger) *jobs.Service {
	return jobs.NewService(repos.Jobs, repos.Users, c, cfg.Cache.TTL, emitter, logger)
}

func newAccounts(cfg *config.Config, repos *repository.Repositories, emitter *events.Emitter, logger *zap.Logger) *accounts.Service {
	return accounts.NewService(repos.Users, repos.JobSeekers, repos.Payments, cfg.Board.OnboardingCurrency, emitter, logger)
}

func newModeration(repos *repository.Repositories, listings *featured.Service, emitter *events.Emitter, logger *zap.Logger) *moderation.Service {
	return moderation.NewService(repos.Reports, repos.Users, repos.Jobs, listings, emitter, logger)
}

func newServer(cfg *config.Config, store storage.Storage, f *featured.Service, j *jobs.Service, a *accounts.Service, m *moderation.Service, logger *zap.Logger) *server.Server {
	return server.NewServer(cfg, store, server.Services{
		Featured:   f,
		Jobs:       j,
		Accounts:   a,
		Moderation: m,
	}, logger)
}

func registerServer(lc fx.Lifecycle, srv *server.Server, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.Int("port", cfg.Server.Port))
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

// registerFeed runs the partner feed import while the app is up
func registerFeed(lc fx.Lifecycle, cfg *config.Config, j *jobs.Service, logger *zap.Logger) {
	if cfg.Feed.URL == "" {
		return
	}
	ingestor := ingestion.NewService(cfg.Feed, j, logger)
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info("starting job feed import", zap.String("url", cfg.Feed.URL), zap.Duration("interval", cfg.Feed.Interval))
				if err := ingestor.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("job feed import stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.Load,
			newLogger,
			newStorage,
			newCache,
			newPublisher,
			events.NewEmitter,
			newRepositories,
			newFeatured,
			newJobs,
			newAccounts,
			newModeration,
			newServer,
		),
		fx.Invoke(registerServer, registerFeed),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
