package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jobportal/portal/internal/api/metrics"
	"github.com/jobportal/portal/internal/core/ports"
	"github.com/jobportal/portal/internal/core/service"
	"github.com/jobportal/portal/internal/infrastructure/apiclient"
	"github.com/jobportal/portal/internal/infrastructure/config"
	"github.com/jobportal/portal/internal/infrastructure/crypto"
	mongodb "github.com/jobportal/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/jobportal/portal/internal/infrastructure/db/redis"
	"github.com/jobportal/portal/internal/infrastructure/db/sqlite"
	"github.com/jobportal/portal/internal/infrastructure/queue"
	"github.com/jobportal/portal/internal/infrastructure/session"
	"github.com/jobportal/portal/internal/infrastructure/telemetry"
	"github.com/jobportal/portal/pkg/logger"
)

// App is the wired object graph every command works against.
type App struct {
	Config *config.Config
	Log    zerolog.Logger
	Store  ports.SessionStore
	Auth   ports.AuthService
	Jobs   ports.JobService

	closers []func(context.Context) error
}

// Close releases the session backend and flushes traces. All closers run.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	return errors.Join(errs...)
}

// Loader builds the App lazily so commands that need nothing (version, help)
// never touch the session backend.
type Loader func(ctx context.Context) (*App, error)

// DefaultLoader reads the environment and wires the production graph.
func DefaultLoader(version string) Loader {
	return func(ctx context.Context) (*App, error) {
		cfg, err := config.Load(ctx)
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return Build(ctx, cfg, version)
	}
}

// Build wires logging, tracing, the session store, both backend clients and
// the services.
func Build(ctx context.Context, cfg *config.Config, version string) (*App, error) {
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "jobportal",
		Version: version,
	})

	tp, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "jobportal",
		Version:     version,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Log: log}
	app.closers = append(app.closers, tp.Shutdown)

	kv, err := openBackend(ctx, cfg)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	cipher, err := crypto.NewCipher(cfg.Session.EncryptionKey)
	if err != nil {
		_ = kv.Close()
		_ = app.Close(ctx)
		return nil, fmt.Errorf("session encryption key: %w", err)
	}
	store := session.NewStore(kv, cipher, log)
	app.Store = store
	app.closers = append(app.closers, func(context.Context) error { return store.Close() })

	rec := metrics.Recorder{}
	authClient := apiclient.New(apiclient.Options{
		Name:           "auth",
		BaseURL:        cfg.API.BaseURL,
		Timeout:        cfg.API.Timeout,
		Tokens:         store,
		Logger:         log,
		Metrics:        rec,
		TracerProvider: tp,
	})
	jobsClient := apiclient.New(apiclient.Options{
		Name:           "jobs",
		BaseURL:        cfg.API.BaseURL,
		Timeout:        cfg.API.UploadTimeout,
		Tokens:         store,
		Logger:         log,
		Metrics:        rec,
		TracerProvider: tp,
	})

	app.Auth = service.NewAuthService(apiclient.NewAuthAPI(authClient), store, log,
		service.WithSessionObserver(rec),
		service.WithTracerProvider(tp),
	)
	app.Jobs = service.NewJobService(
		apiclient.NewJobAPI(jobsClient),
		queue.NewDispatcher(0, log).WithDepthObserver(rec),
		log,
	)
	return app, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (ports.KeyValueStore, error) {
	switch cfg.Session.Backend {
	case config.BackendSQLite:
		path, err := cfg.SessionPath()
		if err != nil {
			return nil, err
		}
		db, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		kv, err := sqlite.NewSessionBackend(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return kv, nil

	case config.BackendRedis:
		kv, err := redisdb.Open(ctx, redisdb.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return kv, nil

	case config.BackendMongo:
		kv, err := mongodb.Open(ctx, mongodb.Options{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		return kv, nil

	case config.BackendMemory:
		return session.NewMemoryKV(), nil
	}
	return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
}
