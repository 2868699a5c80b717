package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/52North/SOS-sub013/internal/catalog"
	"github.com/52North/SOS-sub013/internal/config"
	"github.com/52North/SOS-sub013/internal/encoding"
	"github.com/52North/SOS-sub013/internal/health"
	"github.com/52North/SOS-sub013/internal/observability"
	"github.com/52North/SOS-sub013/internal/server"
	"github.com/52North/SOS-sub013/internal/settings"
	"github.com/52North/SOS-sub013/internal/settings/filestore"
	"github.com/52North/SOS-sub013/internal/settings/redisstore"
	"github.com/52North/SOS-sub013/internal/settings/sqlstore"
	"github.com/52North/SOS-sub013/internal/sos"
	"github.com/52North/SOS-sub013/internal/sosjson"
)

var errNoCatalog = errors.New("catalog.path is required")

// watchingStore is implemented by stores that notice changes made by other
// processes.
type watchingStore interface {
	Watch(ctx context.Context, onChange func(context.Context) error) error
}

// application holds all application components.
type application struct {
	config        *config.ServiceConfig
	logger        observability.Logger
	metrics       *observability.Metrics
	tracer        *observability.Tracer
	store         settings.Store
	settings      *settings.Service
	registrations []*settings.Registration
	server        *server.Server
}

// initApplication initializes all application components. Components
// created before a failure are released again.
func initApplication(
	ctx context.Context,
	cfg *config.ServiceConfig,
	logger observability.Logger,
) (_ *application, err error) {
	app := &application{config: cfg, logger: logger}
	defer func() {
		if err == nil {
			return
		}
		if shutdownErr := app.shutdown(context.Background()); shutdownErr != nil {
			logger.Warn("failed to release components", observability.Error(shutdownErr))
		}
	}()

	app.metrics = observability.NewMetrics(cfg.Metrics.Namespace)
	app.metrics.SetBuildInfo(version, gitCommit, buildTime)
	reg := app.metrics.Registry()

	tracer, err := observability.NewTracer(observability.TracerConfig{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: version,
		OTLPEndpoint:   cfg.Tracing.OTLPEndpoint,
		SamplingRate:   cfg.Tracing.SamplingRate,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	app.tracer = tracer

	if cfg.Catalog.Path == "" {
		return nil, errNoCatalog
	}
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("catalog loaded", observability.String("path", cfg.Catalog.Path))

	encodingMetrics := encoding.NewMetrics(cfg.Metrics.Namespace, reg)
	encoder := sosjson.NewEncoder(
		sosjson.WithLogger(logger),
		sosjson.WithMetrics(encodingMetrics),
	)
	service := sos.NewService(cat,
		sos.WithLogger(logger),
		sos.WithTracer(tracer.Tracer()),
	)

	store, storeCheck, err := openStore(ctx, &cfg.Settings, logger)
	if err != nil {
		return nil, err
	}
	app.store = store

	if err := app.initSettings(ctx, service, encoder, reg); err != nil {
		return nil, err
	}

	checks := health.NewHandler(
		health.WithLogger(logger),
		health.WithMetrics(health.NewMetrics(cfg.Metrics.Namespace, reg)),
		health.WithVersion(version),
	)
	checks.AddCheck(health.SettingsCheck(app.settings))
	if storeCheck != nil {
		checks.AddCheck(storeCheck)
	}

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithEncodingMetrics(encodingMetrics),
		server.WithTracer(tracer.Tracer()),
		server.WithSettings(app.settings),
		server.WithHealth(checks),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, server.WithMetrics(app.metrics))
	}
	app.server = server.New(cfg, service, encoder, opts...)

	return app, nil
}

// initSettings starts the settings service and binds the components to it.
func (app *application) initSettings(
	ctx context.Context,
	service *sos.Service,
	encoder *sosjson.Encoder,
	reg prometheus.Registerer,
) error {
	cfg := app.config
	app.settings = settings.NewService(app.store,
		settings.WithLogger(app.logger),
		settings.WithMetrics(settings.NewMetrics(cfg.Metrics.Namespace, reg)),
		settings.WithProviders(
			settings.Definitions(sos.SettingDefinitions()),
			settings.Definitions(encoderDefinitions(cfg.Encoding.PrettyPrint)),
			settings.Definitions(loggingDefinitions(cfg.Logging.Level)),
		),
		settings.WithGroups(append(sos.SettingsGroups(), sosjson.SettingsGroup)...),
	)
	if err := app.settings.Start(ctx); err != nil {
		return fmt.Errorf("failed to start settings service: %w", err)
	}

	bindings := map[string][]settings.Binding{
		"sos":     service.Bindings(),
		"encoder": encoder.Bindings(),
		"logging": loggingBindings(app.logger),
	}
	for _, owner := range []string{"sos", "encoder", "logging"} {
		if len(bindings[owner]) == 0 {
			continue
		}
		registration, err := app.settings.Configure(ctx, owner, bindings[owner]...)
		if err != nil {
			return err
		}
		app.registrations = append(app.registrations, registration)
	}

	if w, ok := app.store.(watchingStore); ok && app.watchEnabled() {
		if err := w.Watch(ctx, app.settings.Refresh); err != nil {
			return err
		}
		app.logger.Info("watching settings store",
			observability.String("store", cfg.Settings.Store),
		)
	}
	return nil
}

func (app *application) watchEnabled() bool {
	switch app.config.Settings.Store {
	case config.StoreFile:
		return app.config.Settings.File.Watch
	case config.StoreRedis:
		return true
	default:
		return false
	}
}

// openStore opens the configured settings store and returns the health
// check of its backend, if it has one. Store checks only degrade the
// service because current values are held in memory.
func openStore(
	ctx context.Context,
	cfg *config.SettingsConfig,
	logger observability.Logger,
) (settings.Store, *health.DependencyCheck, error) {
	switch cfg.Store {
	case config.StoreFile:
		store, err := filestore.New(cfg.File.Path,
			filestore.WithLogger(logger),
			filestore.WithDebounceDelay(cfg.File.Debounce.Duration()),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open settings file: %w", err)
		}
		return store, health.FileCheck("settings-file", cfg.File.Path, health.WithCritical(false)), nil
	case config.StoreRedis:
		store, err := redisstore.Dial(ctx, cfg.Redis, redisstore.WithLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		return store, health.PingCheck("settings-redis", health.DependencyTypeCache, store,
			health.WithCritical(false)), nil
	case config.StorePostgres:
		store, err := sqlstore.Connect(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, health.PingCheck("settings-postgres", health.DependencyTypeDatabase, store,
			health.WithCritical(false)), nil
	default:
		return settings.NewMemoryStore(nil), nil, nil
	}
}

// shutdown releases every component. It is called after the server
// stopped.
func (app *application) shutdown(ctx context.Context) error {
	var errs []error
	for _, registration := range app.registrations {
		errs = append(errs, registration.Close())
	}
	if app.store != nil {
		errs = append(errs, app.store.Close())
	}
	if app.tracer != nil {
		if err := app.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown tracer: %w", err))
		}
	}
	return errors.Join(errs...)
}
