package pipeline

import (
	"context"
	"testing"

	"github.com/example/streamweave/internal/streamcontext"
)

type fakeFetcher struct {
	streams []ParsedStream
	err     error
}

func (f *fakeFetcher) Fetch(ctx context.Context, req Request) ([]ParsedStream, error) {
	return f.streams, f.err
}

func newTestContext(t *testing.T, rawType, rawID string) *streamcontext.Context {
	t.Helper()
	sctx, err := streamcontext.New(rawType, rawID, streamcontext.Deps{})
	if err != nil {
		t.Fatalf("streamcontext.New: %v", err)
	}
	return sctx
}

func TestPipelineRunFiltersSortsAndDeduplicates(t *testing.T) {
	streams := []ParsedStream{
		{ID: "cam", Filename: "Movie.2020.CAM.mkv", ParsedFile: &ParsedFile{Quality: "CAM", Resolution: "720p"}, Service: &Service{ID: "rd", Cached: true}},
		{ID: "web-1080", Filename: "Movie.2020.WEB.mkv", ParsedFile: &ParsedFile{Quality: "WEB-DL", Resolution: "1080p"}, Size: 100, Service: &Service{ID: "rd", Cached: true}},
		{ID: "web-1080-dup", Filename: "Movie.2020.WEB.mkv", ParsedFile: &ParsedFile{Quality: "WEB-DL", Resolution: "1080p"}, Size: 100, Service: &Service{ID: "ad", Cached: true}},
	}
	p := New(&fakeFetcher{streams: streams}, nil)
	sctx := newTestContext(t, "movie", "tt1234567")

	req := Request{
		Type: RequestMovie,
		ID:   "tt1234567",
		UserData: UserData{
			ExcludedQualities: []string{"cam"},
			SortCriteria:      SortCriteria{Global: []SortCriterion{{Key: "resolution", Direction: SortDesc}}},
			Deduplicator: DeduplicatorConfig{
				Enabled:             true,
				Keys:                []string{"filename", "size"},
				MultiGroupBehaviour: MultiGroupKeepAll,
				Cached:              CachedSingleResult,
			},
		},
	}

	out, err := p.Run(context.Background(), req, sctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected cam excluded and web duplicates collapsed to 1, got %d: %+v", len(out), out)
	}
	if out[0].ID != "web-1080" {
		t.Fatalf("expected surviving stream to be web-1080, got %s", out[0].ID)
	}
}

func TestPipelineRunPropagatesFetcherError(t *testing.T) {
	wantErr := context.Canceled
	p := New(&fakeFetcher{err: wantErr}, nil)
	sctx := newTestContext(t, "movie", "tt1234567")

	_, err := p.Run(context.Background(), Request{Type: RequestMovie, ID: "tt1234567"}, sctx)
	if err != wantErr {
		t.Fatalf("expected fetcher error to propagate, got %v", err)
	}
}

func TestPipelineRunEmptyFetchReturnsEmpty(t *testing.T) {
	p := New(&fakeFetcher{streams: nil}, nil)
	sctx := newTestContext(t, "movie", "tt1234567")

	out, err := p.Run(context.Background(), Request{Type: RequestMovie, ID: "tt1234567"}, sctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty result, got %+v", out)
	}
}
