package metadata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetMetadataSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Metadata{Title: "Cowboy Bebop", Year: 1998, Genres: []string{"Action"}})
	}))
	defer srv.Close()

	c := New(srv.URL, ClientConfig{MaxRetries: 0})
	md, err := c.GetMetadata(context.Background(), 30991)
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if md.Title != "Cowboy Bebop" || md.Year != 1998 {
		t.Fatalf("unexpected metadata: %+v", md)
	}
}

func TestGetMetadataRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(Metadata{Title: "Recovered"})
	}))
	defer srv.Close()

	c := New(srv.URL, ClientConfig{MaxRetries: 2, RetryBaseDelay: time.Millisecond})
	md, err := c.GetMetadata(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if md.Title != "Recovered" {
		t.Fatalf("unexpected metadata: %+v", md)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestGetMetadataExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, ClientConfig{MaxRetries: 1, RetryBaseDelay: time.Millisecond})
	_, err := c.GetMetadata(context.Background(), 1)
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
}
