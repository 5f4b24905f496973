package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recdex/internal/config"
	"github.com/kailas-cloud/recdex/internal/db"
	dbBleve "github.com/kailas-cloud/recdex/internal/db/bleve"
	dbRedis "github.com/kailas-cloud/recdex/internal/db/redis"
	dbSolr "github.com/kailas-cloud/recdex/internal/db/solr"
	"github.com/kailas-cloud/recdex/internal/domain/search/query"
	logpkg "github.com/kailas-cloud/recdex/internal/logger"
	"github.com/kailas-cloud/recdex/internal/metrics"
	documentrepo "github.com/kailas-cloud/recdex/internal/repository/document"
	searchrepo "github.com/kailas-cloud/recdex/internal/repository/search"
	"github.com/kailas-cloud/recdex/internal/repository/searchterm"
	batchuc "github.com/kailas-cloud/recdex/internal/usecase/batch"
	engineuc "github.com/kailas-cloud/recdex/internal/usecase/engine"
	healthuc "github.com/kailas-cloud/recdex/internal/usecase/health"
	indexuc "github.com/kailas-cloud/recdex/internal/usecase/index"
	searchuc "github.com/kailas-cloud/recdex/internal/usecase/search"
)

// termCatalog is a term resolver that can report its health.
type termCatalog interface {
	query.Resolver
	Ping(ctx context.Context) error
}

// app is the composition root shared by all commands.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger

	engine  db.Engine
	terms   termCatalog
	watched *searchterm.Watched
	store   *dbRedis.Store

	index  *indexuc.Service
	batch  *batchuc.Service
	search *searchuc.Service
	health *healthuc.Service

	closers []func()
}

func newApp(ctx context.Context, env string) (*app, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a := &app{env: env, cfg: cfg, logger: logger}

	metrics.RegisterEngineMetrics()

	if err := a.openEngine(); err != nil {
		a.close()
		return nil, err
	}
	if err := a.openTerms(ctx); err != nil {
		a.close()
		return nil, err
	}

	docRepo := documentrepo.New(a.engine)
	searchRepo := searchrepo.New(a.engine)

	a.index = indexuc.New(docRepo)
	a.batch = batchuc.New(a.index, a.index).WithMaxBatchSize(cfg.Batch.MaxSize)
	a.search = searchuc.New(searchRepo, a.terms)
	a.health = healthuc.New(a.engine, a.terms)
	return a, nil
}

func (a *app) openEngine() error {
	var inner db.Engine
	switch a.cfg.Engine.Driver {
	case config.DriverSolr:
		pool := dbSolr.NewPool(time.Duration(a.cfg.Engine.Solr.TimeoutSec) * time.Second)
		a.closers = append(a.closers, func() { _ = pool.Close() })
		c, err := pool.Get(a.cfg.Engine.Solr.BaseURL)
		if err != nil {
			return fmt.Errorf("solr client: %w", err)
		}
		inner = c
	case config.DriverBleve:
		e, err := dbBleve.Open(a.cfg.Engine.Bleve.Path)
		if err != nil {
			return fmt.Errorf("bleve index: %w", err)
		}
		a.closers = append(a.closers, func() { _ = e.Close() })
		inner = e
	default:
		return fmt.Errorf("unknown engine driver %q", a.cfg.Engine.Driver)
	}

	a.engine = engineuc.NewInstrumented(inner, a.cfg.Engine.Driver, a.logger)
	a.logger.Info("Search engine ready", zap.String("driver", a.cfg.Engine.Driver))
	return nil
}

func (a *app) openTerms(ctx context.Context) error {
	switch a.cfg.Terms.Source {
	case config.TermSourceFile:
		if a.cfg.Terms.Watch {
			w, err := searchterm.NewWatched(a.cfg.Terms.File, a.logger)
			if err != nil {
				return err
			}
			a.watched = w
			a.terms = w
			break
		}
		f, err := searchterm.LoadFile(a.cfg.Terms.File)
		if err != nil {
			return err
		}
		a.terms = f
	case config.TermSourceRedis:
		store, err := a.openStore(ctx)
		if err != nil {
			return err
		}
		var terms termCatalog = searchterm.NewRedis(store, a.cfg.Terms.Redis.KeyPrefix)
		if a.cfg.Terms.CacheSize > 0 {
			ttl := time.Duration(a.cfg.Terms.CacheTTLSec) * time.Second
			terms = searchterm.NewCached(terms, a.cfg.Terms.CacheSize, ttl)
		}
		a.terms = terms
	default:
		return fmt.Errorf("unknown terms source %q", a.cfg.Terms.Source)
	}
	a.logger.Info("Term catalog ready", zap.String("source", a.cfg.Terms.Source))
	return nil
}

func (a *app) openStore(ctx context.Context) (*dbRedis.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    a.cfg.Terms.Redis.Addrs,
		Password: a.cfg.Terms.Redis.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis store: %w", err)
	}
	a.closers = append(a.closers, store.Close)

	timeout := time.Duration(a.cfg.Terms.Redis.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		return nil, fmt.Errorf("redis not ready: %w", err)
	}
	a.store = store
	return store, nil
}

// context attaches the app logger to ctx.
func (a *app) context(ctx context.Context) context.Context {
	return logpkg.ContextWithLogger(ctx, a.logger)
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	_ = a.logger.Sync()
}
