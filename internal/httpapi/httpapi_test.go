package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/streamweave/internal/pipeline"
	"github.com/example/streamweave/internal/platform/httpserver"
	"github.com/example/streamweave/internal/platform/signing"
	"github.com/example/streamweave/internal/streamcontext"
)

type fakeFetcher struct {
	streams []pipeline.ParsedStream
}

func (f *fakeFetcher) Fetch(ctx context.Context, req pipeline.Request) ([]pipeline.ParsedStream, error) {
	return f.streams, nil
}

func newTestRouter(fetcher pipeline.Fetcher, signer *signing.Signer) chi.Router {
	r := chi.NewRouter()
	httpserver.SetupRouter(r)
	h := &Handler{
		ContextDeps: streamcontext.Deps{},
		Pipeline:    pipeline.New(fetcher, zap.NewNop()),
		Signer:      signer,
		Log:         zap.NewNop(),
	}
	h.Mount(r)
	return r
}

func TestResolveMovieReturnsStreams(t *testing.T) {
	streams := []pipeline.ParsedStream{{ID: "a", Filename: "Movie.2020.1080p.mkv"}}
	r := newTestRouter(&fakeFetcher{streams: streams}, signing.New("secret"))

	req := httptest.NewRequest(http.MethodGet, "/stream/movie/tt1234567", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Streams []pipeline.ParsedStream `json:"streams"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Streams) != 1 || body.Streams[0].ID != "a" {
		t.Fatalf("unexpected streams: %+v", body.Streams)
	}
}

func TestResolveRejectsInvalidType(t *testing.T) {
	r := newTestRouter(&fakeFetcher{}, signing.New("secret"))
	req := httptest.NewRequest(http.MethodGet, "/stream/bogus/tt1234567", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid type, got %d", rec.Code)
	}
}

func TestResolveRejectsUnparsableID(t *testing.T) {
	r := newTestRouter(&fakeFetcher{}, signing.New("secret"))
	req := httptest.NewRequest(http.MethodGet, "/stream/movie/not-a-valid-id", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unparsable id, got %d", rec.Code)
	}
}

func TestResolveDecodesSignedUserData(t *testing.T) {
	streams := []pipeline.ParsedStream{
		{ID: "cam", ParsedFile: &pipeline.ParsedFile{Quality: "CAM"}},
		{ID: "web", ParsedFile: &pipeline.ParsedFile{Quality: "WEB-DL"}},
	}
	signer := signing.New("secret")
	r := newTestRouter(&fakeFetcher{streams: streams}, signer)

	payload, err := json.Marshal(pipeline.UserData{ExcludedQualities: []string{"cam"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	signed := signer.Sign(payload, time.Now().Add(time.Hour))
	token := signing.EncodeToken(signed)

	req := httptest.NewRequest(http.MethodGet, "/stream/movie/tt1234567/"+token, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Streams []pipeline.ParsedStream `json:"streams"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Streams) != 1 || body.Streams[0].ID != "web" {
		t.Fatalf("expected excludedQualities from signed token to drop cam, got %+v", body.Streams)
	}
}

func TestResolveRejectsTamperedUserDataToken(t *testing.T) {
	r := newTestRouter(&fakeFetcher{}, signing.New("secret"))
	req := httptest.NewRequest(http.MethodGet, "/stream/movie/tt1234567/not.a.validtoken", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an invalid userData token, got %d", rec.Code)
	}
}
