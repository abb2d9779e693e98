package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/excelauto"
	"github.com/aretw0/excelauto/internal/config"
	"github.com/aretw0/excelauto/internal/i18n"
	"github.com/aretw0/excelauto/internal/logging"
	"github.com/aretw0/excelauto/pkg/adapters/file"
	"github.com/aretw0/excelauto/pkg/adapters/memory"
	"github.com/aretw0/excelauto/pkg/adapters/redis"
	"github.com/aretw0/excelauto/pkg/observability"
	"github.com/aretw0/excelauto/pkg/persistence/middleware"
	"github.com/aretw0/excelauto/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// app bundles everything a command needs once config is resolved.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	catalog  *i18n.Catalog
	registry *prometheus.Registry
	svc      *excelauto.Service
	closers  []io.Closer
}

func newApp(ctx context.Context, flags globalFlags, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.logJSON {
		cfg.LogJSON = true
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(logOut, level, cfg.LogJSON)

	catalog, err := i18n.Load(cfg.LangFile)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, catalog: catalog, registry: reg}
	opts := []excelauto.Option{
		excelauto.WithLogger(logger),
		excelauto.WithMetrics(metrics),
		excelauto.WithLifecycleHooks(observability.LogHooks(logger)),
		excelauto.WithMaxInstructions(cfg.MaxInstructions),
	}

	var store ports.SessionStore = memory.NewStore()
	switch {
	case cfg.Redis.Addr != "":
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix), redis.WithTTL(cfg.Redis.TTL))
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		a.closers = append(a.closers, rs)
		store = rs
		opts = append(opts, excelauto.WithLocker(redis.NewLocker(rs.Client(), cfg.Redis.Prefix)))
		logger.Info("using redis session store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
	case cfg.SessionDir != "":
		store = file.NewStore(cfg.SessionDir)
		logger.Info("using file session store", "dir", cfg.SessionDir)
	}

	key, err := cfg.SessionKeyBytes()
	if err != nil {
		return nil, err
	}
	if key != nil {
		encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		store = encrypt(store)
	}
	opts = append(opts, excelauto.WithStore(store))

	a.svc = excelauto.New(opts...)
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close failed", "err", err)
		}
	}
}
