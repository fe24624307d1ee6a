package seadex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetSeaDexInfoHashesSplitsBestAndAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(wireResponse{Releases: []wireEntry{
			{InfoHash: "AAAA", ReleaseGroup: "SubsPlease", IsBest: true},
			{InfoHash: "BBBB", ReleaseGroup: "SubsPlease", IsBest: false},
		}})
	}))
	defer srv.Close()

	c := New(srv.URL, ClientConfig{MaxRetries: 0})
	hashes, err := c.GetSeaDexInfoHashes(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetSeaDexInfoHashes: %v", err)
	}
	if !hashes.HasBestHash("aaaa") || !hashes.HasHash("aaaa") {
		t.Fatal("expected aaaa in both best and all")
	}
	if hashes.HasBestHash("bbbb") {
		t.Fatal("bbbb should not be best")
	}
	if !hashes.HasHash("bbbb") {
		t.Fatal("bbbb should still be in all")
	}
	if !hashes.HasGroup("subsplease") {
		t.Fatal("expected subsplease group lowercase")
	}
}

func TestGetSeaDexInfoHashesNotFoundIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, ClientConfig{MaxRetries: 0})
	hashes, err := c.GetSeaDexInfoHashes(context.Background(), 999)
	if err != nil {
		t.Fatalf("expected no error for 404, got %v", err)
	}
	if len(hashes.AllHashes) != 0 {
		t.Fatalf("expected empty hash sets, got %+v", hashes)
	}
}
