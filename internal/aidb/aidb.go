// Package aidb implements the Anime Identity Database: refreshable
// on-disk corpora, indexed in memory, that resolve any supported
// content id into a canonical AnimeEntry with cross-ids and
// season/episode offsets.
package aidb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/example/streamweave/internal/aidb/auditstore"
	"github.com/example/streamweave/internal/platform/events"
)

// Config configures an AIDB instance.
type Config struct {
	DataDir     string
	DetailLevel DetailLevel

	// RefreshIntervals overrides the default 24h cadence per source.
	RefreshIntervals map[SourceName]time.Duration

	// EnableMappingTieBreak gates the AnimeList side of the split-cour
	// tie-break candidate set (§9 open question); only meaningful when
	// DetailLevel == DetailFull, since New forces it off at every other
	// level and the AnimeList side of the candidate set is then always
	// empty.
	EnableMappingTieBreak bool

	Log      *zap.Logger
	Audit    auditstore.Store
	Events   *events.Publisher
}

// AIDB is the process-wide anime identity database. The zero value is
// not usable — construct with New or NewForTesting.
type AIDB struct {
	crossRef       atomic.Pointer[crossRefIndex]
	offlineCatalog atomic.Pointer[offlineCatalogIndex]
	kitsu          atomic.Pointer[kitsuImdbIndex]
	anitrakt       atomic.Pointer[anitraktIndex]
	animeList      atomic.Pointer[animeListIndex]

	detailLevel           DetailLevel
	enableMappingTieBreak bool

	sources []sourceDescriptor
	fetch   *fetcher
	log     *zap.Logger
	audit   auditstore.Store
	events  *events.Publisher

	status   map[SourceName]*SourceStatus
	statusMu sync.RWMutex

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// SourceStatus reports the last refresh outcome for one source, exposed
// through the admin status endpoint.
type SourceStatus struct {
	LastAttempt time.Time
	LastSuccess time.Time
	LastError   string
	ETag        string
}

// New constructs an AIDB backed by real HTTP/disk sources. Initial
// refreshes run synchronously once (so a freshly-started process has a
// usable database before serving requests) and are never fatal on
// failure (§4.1) — only the data-directory writability check is.
func New(ctx context.Context, cfg Config) (*AIDB, error) {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.DetailLevel == "" {
		cfg.DetailLevel = DetailRequired
	}

	a := &AIDB{
		detailLevel:           cfg.DetailLevel,
		enableMappingTieBreak: cfg.EnableMappingTieBreak && cfg.DetailLevel == DetailFull,
		fetch:                 newFetcher(cfg.Log),
		log:                   cfg.Log,
		audit:                 cfg.Audit,
		events:                cfg.Events,
		status:                map[SourceName]*SourceStatus{},
		stopCh:                make(chan struct{}),
	}
	a.publishEmptyIndices()

	if cfg.DetailLevel == DetailNone {
		return a, nil
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("aidb: data directory not writable: %w", err)
	}

	a.sources = defaultSources(cfg.DataDir, cfg.RefreshIntervals)

	var errs error
	for _, src := range a.sources {
		if err := a.refreshSource(ctx, src); err != nil {
			a.log.Warn("aidb: initial refresh failed, continuing with stale/empty data", zap.String("source", string(src.Name)), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}
	// Initial-refresh failures are logged and never fatal (§4.1).
	_ = errs

	return a, nil
}

func (a *AIDB) publishEmptyIndices() {
	a.crossRef.Store(newCrossRefIndex())
	a.offlineCatalog.Store(newOfflineCatalogIndex())
	a.kitsu.Store(newKitsuImdbIndex())
	a.anitrakt.Store(newAnitraktIndex())
	a.animeList.Store(newAnimeListIndex())
}

// StartRefreshLoops starts one independent timer goroutine per source,
// each running on its own RefreshInterval. Call Stop to halt them at
// shutdown.
func (a *AIDB) StartRefreshLoops(ctx context.Context) {
	for _, src := range a.sources {
		a.wg.Add(1)
		go a.refreshLoop(ctx, src)
	}
}

func (a *AIDB) refreshLoop(ctx context.Context, src sourceDescriptor) {
	defer a.wg.Done()
	ticker := time.NewTicker(src.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.stopCh:
			return
		case <-ticker.C:
			if err := a.refreshSource(ctx, src); err != nil {
				a.log.Warn("aidb: scheduled refresh failed", zap.String("source", string(src.Name)), zap.Error(err))
			}
		}
	}
}

// Stop halts all refresh timers. AIDB refreshes are independent of
// in-flight request lookups (§5) so this never blocks on readers.
func (a *AIDB) Stop() {
	a.stopOnce.Do(func() { close(a.stopCh) })
	a.wg.Wait()
}

// ForceRefresh triggers an out-of-cycle refresh of one source, used by
// the admin endpoint.
func (a *AIDB) ForceRefresh(ctx context.Context, name SourceName) error {
	for _, src := range a.sources {
		if src.Name == name {
			return a.refreshSource(ctx, src)
		}
	}
	return fmt.Errorf("aidb: unknown source %q", name)
}

// Status returns a snapshot of every source's last-refresh outcome.
func (a *AIDB) Status() map[SourceName]SourceStatus {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	out := make(map[SourceName]SourceStatus, len(a.status))
	for k, v := range a.status {
		out[k] = *v
	}
	return out
}

func (a *AIDB) recordStatus(name SourceName, mutate func(*SourceStatus)) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	s, ok := a.status[name]
	if !ok {
		s = &SourceStatus{}
		a.status[name] = s
	}
	mutate(s)
}
