package aidb

import (
	"context"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/streamweave/internal/aidb/auditstore"
	"github.com/example/streamweave/internal/platform/events"
)

// refreshSource runs the full refresh protocol for one source (§4.1):
// HEAD for the ETag, compare with the locally stored tag, GET+persist
// on mismatch or absence, then invoke the source's loader and publish
// its index atomically. The whole sequence is wrapped in bounded
// retry-with-backoff, labeled with the source name.
func (a *AIDB) refreshSource(ctx context.Context, src sourceDescriptor) error {
	start := time.Now()
	a.recordStatus(src.Name, func(s *SourceStatus) { s.LastAttempt = start })

	err := a.fetch.withRetry(ctx, string(src.Name), func(ctx context.Context) error {
		return a.refreshSourceOnce(ctx, src)
	})

	duration := time.Since(start)
	if err != nil {
		a.recordStatus(src.Name, func(s *SourceStatus) { s.LastError = err.Error() })
		a.recordAudit(ctx, src.Name, false, duration, err)
		return err
	}
	a.recordStatus(src.Name, func(s *SourceStatus) { s.LastSuccess = time.Now(); s.LastError = "" })
	a.recordAudit(ctx, src.Name, true, duration, nil)
	a.events.Publish(events.AIDBRefreshedSubject(string(src.Name)), "aidb.refreshed", map[string]any{
		"source":      string(src.Name),
		"durationMs":  duration.Milliseconds(),
	})
	return nil
}

func (a *AIDB) refreshSourceOnce(ctx context.Context, src sourceDescriptor) error {
	changed, remoteEtag, err := a.compareEtag(ctx, src)
	if err != nil {
		return err
	}
	if changed {
		if err := a.fetch.downloadTo(ctx, src.URL, src.FilePath); err != nil {
			return err
		}
		if err := os.WriteFile(src.EtagPath, []byte(remoteEtag), 0o644); err != nil {
			return err
		}
		a.recordStatus(src.Name, func(s *SourceStatus) { s.ETag = remoteEtag })
	}

	data, err := os.ReadFile(src.FilePath)
	if err != nil {
		return err
	}

	if err := a.loadAndPublish(src.Name, data); err != nil {
		// Loading failed after a (possibly stale) cache hit: delete the
		// local file+tag to force a remote refetch on the next cycle
		// (§4.1 "if loading fails after a non-remote-refresh pass").
		if !changed {
			_ = os.Remove(src.FilePath)
			_ = os.Remove(src.EtagPath)
		}
		return err
	}
	return nil
}

// compareEtag returns (changed, remoteEtag, err). changed is true when
// the local file is missing, the tags differ, or either tag is absent.
func (a *AIDB) compareEtag(ctx context.Context, src sourceDescriptor) (bool, string, error) {
	if _, err := os.Stat(src.FilePath); os.IsNotExist(err) {
		remote, err := a.fetch.headETag(ctx, src.URL)
		return true, remote, err
	}

	remote, err := a.fetch.headETag(ctx, src.URL)
	if err != nil {
		return false, "", err
	}
	local, err := os.ReadFile(src.EtagPath)
	if err != nil {
		return true, remote, nil
	}
	localTag := strings.TrimSpace(string(local))
	if localTag == "" || remote == "" || localTag != remote {
		return true, remote, nil
	}
	return false, remote, nil
}

func (a *AIDB) loadAndPublish(name SourceName, data []byte) error {
	switch name {
	case SourceCrossReference:
		idx, err := loadCrossReference(data, a.log)
		if err != nil {
			return err
		}
		a.crossRef.Store(idx)
	case SourceOfflineCatalog:
		idx, err := loadOfflineCatalog(data, a.log)
		if err != nil {
			return err
		}
		a.offlineCatalog.Store(idx)
	case SourceKitsuImdb:
		idx, enrichedCrossRef, err := loadKitsuImdb(data, a.crossRef.Load(), a.log)
		if err != nil {
			return err
		}
		a.kitsu.Store(idx)
		if enrichedCrossRef != nil {
			a.crossRef.Store(enrichedCrossRef)
		}
	case SourceAnitraktMovie, SourceAnitraktTV:
		idx, err := loadAnitrakt(data, a.log)
		if err != nil {
			return err
		}
		// Movie and TV corpora share one index; merge rather than
		// overwrite so the other half's refresh isn't lost.
		merged := mergeAnitraktIndex(a.anitrakt.Load(), idx)
		a.anitrakt.Store(merged)
	case SourceAnimeList:
		idx, err := loadAnimeList(data, a.detailLevel == DetailFull, a.log)
		if err != nil {
			return err
		}
		a.animeList.Store(idx)
	}
	return nil
}

func mergeAnitraktIndex(current, incoming *anitraktIndex) *anitraktIndex {
	merged := newAnitraktIndex()
	if current != nil {
		for k, v := range current.byMALId {
			merged.byMALId[k] = v
		}
	}
	for k, v := range incoming.byMALId {
		merged.byMALId[k] = v
	}
	return merged
}

func (a *AIDB) recordAudit(ctx context.Context, name SourceName, success bool, duration time.Duration, refreshErr error) {
	if a.audit == nil {
		return
	}
	entry := auditstore.RefreshEvent{
		Source:    string(name),
		Success:   success,
		Duration:  duration,
		OccurredAt: time.Now(),
	}
	if refreshErr != nil {
		entry.Error = refreshErr.Error()
	}
	if err := a.audit.RecordRefresh(ctx, entry); err != nil {
		a.log.Warn("aidb: failed to record refresh audit entry", zap.String("source", string(name)), zap.Error(err))
	}
}
