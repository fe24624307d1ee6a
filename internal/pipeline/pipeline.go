package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/streamweave/internal/streamcontext"
)

// Pipeline runs a single resolve request through fetch, precompute,
// filter, sort, and deduplicate, in the fixed order the spec requires
// (§4.3): addon results are never reordered relative to each other
// except by the sort stage, and every stage degrades gracefully rather
// than aborting the request on a single addon's or expression's
// failure — only the request context's cancellation propagates as an
// error.
type Pipeline struct {
	Fetcher Fetcher
	Log     *zap.Logger
}

func New(fetcher Fetcher, log *zap.Logger) *Pipeline {
	return &Pipeline{Fetcher: fetcher, Log: log}
}

// Run executes the full pipeline for one request, given a Context
// already constructed (and its concurrent fetches already started) by
// the caller via streamcontext.New + StartAllFetches.
func (p *Pipeline) Run(ctx context.Context, req Request, sctx *streamcontext.Context) ([]ParsedStream, error) {
	streams, err := p.Fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	seadexEnabled := req.UserData.SeadexEnabled()
	hashes := sctx.GetSeaDex(ctx, seadexEnabled)
	precomputeSeaDex(streams, hashes)

	ctxFields := sctx.ToExpressionContext(ctx, seadexEnabled)

	streams = filterStreams(streams, req.UserData, ctxFields)
	precomputePreferred(streams, req.UserData, ctxFields)
	precomputeRanked(streams, req.UserData, ctxFields)
	sortStreams(streams, req.UserData.SortCriteria)
	streams = deduplicate(streams, req.UserData.Deduplicator)

	return streams, nil
}
