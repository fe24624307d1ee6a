package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/example/streamweave/internal/addon"
	"github.com/example/streamweave/internal/aidb"
	"github.com/example/streamweave/internal/aidb/auditstore"
	"github.com/example/streamweave/internal/cache"
	"github.com/example/streamweave/internal/config"
	"github.com/example/streamweave/internal/httpapi"
	"github.com/example/streamweave/internal/metadata"
	"github.com/example/streamweave/internal/pipeline"
	"github.com/example/streamweave/internal/platform/db"
	"github.com/example/streamweave/internal/platform/events"
	"github.com/example/streamweave/internal/platform/httpserver"
	"github.com/example/streamweave/internal/platform/logging"
	"github.com/example/streamweave/internal/platform/natsconn"
	"github.com/example/streamweave/internal/platform/run"
	"github.com/example/streamweave/internal/platform/signing"
	"github.com/example/streamweave/internal/seadex"
	"github.com/example/streamweave/internal/streamcontext"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	runner := run.New(log)
	ctx := context.Background()

	redisCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Error("redis connect", zap.Error(err))
		run.Exit(1)
	}
	memoized := cache.NewMemoized(redisCache)

	audit := newAuditStore(ctx, log)
	pub := newEventPublisher(log)

	aidbInstance, err := aidb.New(ctx, aidb.Config{
		DataDir:     cfg.AIDBDataDir,
		DetailLevel: aidb.DetailLevel(cfg.AIDBDetailLevel),
		Log:         log,
		Audit:       audit,
		Events:      pub,
	})
	if err != nil {
		log.Error("aidb init", zap.Error(err))
		run.Exit(1)
	}
	aidbInstance.StartRefreshLoops(ctx)
	defer aidbInstance.Stop()

	addonClient := addon.New(toAddonConfigs(cfg.Addons), addon.ClientConfig{
		UserAgent:      cfg.UserAgent,
		MaxRetries:     cfg.Retry.MaxRetries,
		RetryBaseDelay: cfg.Retry.RetryBaseDelay,
		DefaultTimeout: 8 * time.Second,
	}, log)

	var metadataClient *metadata.Client
	if cfg.MetadataBaseURL != "" {
		metadataClient = metadata.New(cfg.MetadataBaseURL, metadata.ClientConfig{
			UserAgent:      cfg.UserAgent,
			MaxRetries:     cfg.Retry.MaxRetries,
			RetryBaseDelay: cfg.Retry.RetryBaseDelay,
		}, metadata.WithCircuitBreaker(newBreaker("metadata", cfg, log)), metadata.WithLogger(log))
	}

	var seadexClient *seadex.Client
	if cfg.SeaDexBaseURL != "" {
		seadexClient = seadex.New(cfg.SeaDexBaseURL, seadex.ClientConfig{
			UserAgent:      cfg.UserAgent,
			MaxRetries:     cfg.Retry.MaxRetries,
			RetryBaseDelay: cfg.Retry.RetryBaseDelay,
		}, seadex.WithCircuitBreaker(newBreaker("seadex", cfg, log)), seadex.WithLogger(log))
	}

	contextDeps := streamcontext.Deps{
		AIDB:     aidbInstance,
		Metadata: metadataClient,
		SeaDex:   seadexClient,
		Cache:    memoized,
		Log:      log,
	}

	p := pipeline.New(addonClient, log)

	h := &httpapi.Handler{
		AIDB:           aidbInstance,
		ContextDeps:    contextDeps,
		Pipeline:       p,
		Signer:         signing.New(cfg.SigningSecret),
		Log:            log,
		AdminTokenAuth: strings.TrimSpace(os.Getenv("AIDB_ADMIN_REQUIRE_AUTH")) == "true",
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{
		ReadyFunc: func() error { return redisCache.WaitUntilReady(ctx) },
	})
	h.Mount(r)

	srv := httpserver.New(httpserver.Options{
		Addr:        cfg.HTTPAddr,
		ServiceName: cfg.ServiceName,
		Logger:      log,
		Router:      r,
	})

	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		return srv.Start(log)
	})
	run.Exit(code)
}

func toAddonConfigs(addons []config.AddonConfig) []addon.Config {
	out := make([]addon.Config, 0, len(addons))
	for _, a := range addons {
		out = append(out, addon.Config{Name: a.Name, BaseURL: a.BaseURL, Timeout: a.Timeout})
	}
	return out
}

func newBreaker(name string, cfg config.Config, log *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.CircuitBreaker.MaxRequests,
		Interval:    cfg.CircuitBreaker.Interval,
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.CircuitBreaker.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit-breaker state change", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
}

// newAuditStore prefers a real Postgres-backed audit trail when
// DATABASE_URL is set; otherwise it falls back to an in-memory store,
// so the aggregator still starts (with refresh audit confined to the
// current process) in environments with no database configured.
func newAuditStore(ctx context.Context, log *zap.Logger) auditstore.Store {
	if strings.TrimSpace(os.Getenv("DATABASE_URL")) == "" {
		return auditstore.NewMemoryStore()
	}
	pool, err := db.Open(ctx)
	if err != nil {
		log.Warn("audit store database unavailable, falling back to in-memory", zap.Error(err))
		return auditstore.NewMemoryStore()
	}
	return auditstore.NewPostgresStore(pool)
}

// newEventPublisher connects to NATS for the best-effort refresh/
// cache-invalidation notifications; a failed connection degrades to a
// nil Publisher (every Publish call on a nil receiver is a no-op), not
// a fatal startup error, since these events are not load-bearing.
func newEventPublisher(log *zap.Logger) *events.Publisher {
	nc, err := natsconn.Connect(natsconn.Options{})
	if err != nil {
		log.Warn("nats unavailable, disabling event publishing", zap.Error(err))
		return nil
	}
	return events.New(nc, log)
}
