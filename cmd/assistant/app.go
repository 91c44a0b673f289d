// cmd/assistant/app.go
package main

import (
	"context"
	"fmt"
	"time"

	classifyintent "jira-assistant/internal/assistant/classify-intent"
	conversationstore "jira-assistant/internal/assistant/conversation-store"
	dispatchaction "jira-assistant/internal/assistant/dispatch-action"
	processquery "jira-assistant/internal/assistant/process-query"
	"jira-assistant/internal/common/audit"
	"jira-assistant/internal/common/config"
	"jira-assistant/internal/common/database"
	"jira-assistant/internal/common/docsearch"
	apperrors "jira-assistant/internal/common/errors"
	"jira-assistant/internal/common/genai"
	"jira-assistant/internal/common/jira"
	"jira-assistant/internal/common/logger"
	"jira-assistant/internal/common/observability"
	"jira-assistant/internal/server"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app holds every wired component. Optional backends stay nil when disabled.
type app struct {
	cfg        *config.Config
	zapLog     *zap.Logger
	log        logger.Logger
	obs        *observability.Observability
	classifier *classifyintent.Classifier
	dispatcher *dispatchaction.Handler
	generator  *genai.Client
	router     *processquery.Handler
	sessions   *conversationstore.SessionManager
	checks     map[string]server.ReadinessCheck
	closers    []func() error
}

// newApp connects the enabled backends, retrying each attempts times, and
// wires the query router on top of them.
func newApp(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, attempts int) (*app, error) {
	a := &app{
		cfg:    cfg,
		zapLog: zapLog,
		log:    logger.NewZapAdapter(zapLog),
		obs:    observability.New(cfg.App.Name),
		checks: make(map[string]server.ReadinessCheck),
	}

	pg, err := a.connectPostgres(ctx, attempts)
	if err != nil {
		a.Close()
		return nil, err
	}
	es, err := a.connectElasticsearch(ctx, attempts)
	if err != nil {
		a.Close()
		return nil, err
	}
	rdb, err := a.connectRedis(ctx, attempts)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.classifier = classifyintent.NewClassifier(classifyintent.LoadConfig())

	jiraClient := jira.NewClient(&jira.Config{
		BaseURL:  cfg.Jira.BaseURL,
		Email:    cfg.Jira.Email,
		APIToken: cfg.Jira.APIToken,
		Timeout:  config.GetDuration(cfg.Jira.Timeout),
	}, a.log)
	if !cfg.Jira.Configured() {
		a.log.Warn("jira credentials missing, entity actions will fail", nil)
	}

	dispatchCfg := dispatchaction.LoadConfig()
	dispatchCfg.Timeout = config.GetDuration(cfg.Jira.Timeout)
	a.dispatcher = dispatchaction.NewHandler(dispatchCfg, jiraClient, a.log)

	a.generator = genai.NewClient(&genai.Config{
		BaseURL:     cfg.GenAI.BaseURL,
		Model:       cfg.GenAI.Model,
		Temperature: cfg.GenAI.Temperature,
		TopP:        cfg.GenAI.TopP,
		MaxTokens:   cfg.GenAI.MaxTokens,
		Timeout:     config.GetDuration(cfg.GenAI.Timeout),
	}, a.log)

	routerCfg := processquery.LoadConfig()
	routerCfg.ContextWindow = cfg.Conversation.ContextWindow
	routerCfg.SearchTimeout = config.GetDuration(cfg.Search.Timeout)
	routerCfg.GenerateTimeout = config.GetDuration(cfg.GenAI.Timeout)

	opts := []processquery.Option{
		processquery.WithGenerator(a.generator),
		processquery.WithObservability(a.obs),
	}
	if es != nil && cfg.Search.Enabled {
		// a nil *redis.Client must not reach the searcher as a non-nil Cmdable
		var cache redis.Cmdable
		if rdb != nil {
			cache = rdb.Client
		}
		searcher := docsearch.NewSearcher(&docsearch.Config{
			Index:    cfg.Search.Index,
			MaxHits:  cfg.Search.MaxHits,
			CacheTTL: time.Duration(cfg.Search.CacheTTL) * time.Second,
		}, es.Client, cache, a.log)
		opts = append(opts, processquery.WithSearcher(searcher))
	}
	if pg != nil {
		opts = append(opts, processquery.WithRecorder(audit.NewRepository(pg.DB)))
	}
	a.router = processquery.NewHandler(routerCfg, a.classifier, a.dispatcher, a.log, opts...)

	storeCfg := conversationstore.LoadConfig()
	storeCfg.MaxTurns = cfg.Conversation.MaxTurns
	storeCfg.ContextWindow = cfg.Conversation.ContextWindow
	storeCfg.SessionTTL = time.Duration(cfg.Conversation.SessionTTL) * time.Second

	var snapshotter conversationstore.Snapshotter
	if rdb != nil {
		snapshotter = conversationstore.NewRedisSnapshotter(rdb.Client, storeCfg.SessionTTL)
	}
	a.sessions = conversationstore.NewSessionManager(storeCfg, a.classifier, snapshotter, a.log)

	return a, nil
}

func (a *app) connectPostgres(ctx context.Context, attempts int) (*database.PostgresClient, error) {
	if !a.cfg.Database.Postgres.Enabled {
		return nil, nil
	}
	var pg *database.PostgresClient
	err := retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(a.cfg.Database.Postgres)
		if err != nil {
			return err
		}
		if err := pg.Ping(ctx); err != nil {
			_ = pg.Close()
			return err
		}
		return nil
	}, attempts, 2*time.Second, a.zapLog, "PostgreSQL connection")
	if err != nil {
		return nil, apperrors.NewDatabaseConnectionFailedError("postgres", err)
	}
	if err := pg.Migrate(ctx); err != nil {
		_ = pg.Close()
		return nil, err
	}
	a.closers = append(a.closers, pg.Close)
	a.checks["postgres"] = pg.Ping
	a.zapLog.Info("PostgreSQL connected successfully")
	return pg, nil
}

func (a *app) connectElasticsearch(ctx context.Context, attempts int) (*database.ElasticsearchClient, error) {
	if !a.cfg.Database.Elasticsearch.Enabled {
		return nil, nil
	}
	var es *database.ElasticsearchClient
	err := retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(a.cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping(ctx)
	}, attempts, 2*time.Second, a.zapLog, "Elasticsearch connection")
	if err != nil {
		return nil, apperrors.NewDatabaseConnectionFailedError("elasticsearch", err)
	}
	if err := es.EnsureIndex(ctx, a.cfg.Search.Index); err != nil {
		return nil, err
	}
	a.checks["elasticsearch"] = es.Ping
	a.zapLog.Info("Elasticsearch connected successfully", zap.String("index", a.cfg.Search.Index))
	return es, nil
}

func (a *app) connectRedis(ctx context.Context, attempts int) (*database.RedisClient, error) {
	if !a.cfg.Database.Redis.Enabled {
		return nil, nil
	}
	var rdb *database.RedisClient
	err := retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(ctx, a.cfg.Database.Redis)
		return err
	}, attempts, 2*time.Second, a.zapLog, "Redis connection")
	if err != nil {
		return nil, apperrors.NewDatabaseConnectionFailedError("redis", err)
	}
	a.closers = append(a.closers, rdb.Close)
	a.checks["redis"] = rdb.Ping
	a.zapLog.Info("Redis connected successfully")
	return rdb, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.zapLog.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
	a.obs.Shutdown()
}

func configure(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("config load failed: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}
