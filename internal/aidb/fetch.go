package aidb

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// fetcher performs the HEAD/GET-with-ETag refresh protocol for a single
// source, the same bounded-retry-with-exponential-backoff shape the
// hianime client uses for its JSON fetches, generalized from decoding
// JSON in memory to streaming a corpus file to disk.
type fetcher struct {
	HTTPClient *http.Client
	MaxRetries int
	BaseDelay  time.Duration
	Log        *zap.Logger
}

func newFetcher(log *zap.Logger) *fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &fetcher{
		HTTPClient: &http.Client{Timeout: 90 * time.Second},
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Log:        log,
	}
}

// headETag performs a bounded-timeout HEAD request and returns the
// server's ETag header verbatim (opaque, compared byte-exact).
func (f *fetcher) headETag(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("aidb: HEAD %s: status %d", url, resp.StatusCode)
	}
	return resp.Header.Get("ETag"), nil
}

// downloadTo streams the URL's body to destPath, with a 90s deadline
// suited to the largest corpora (the anime-list XML).
func (f *fetcher) downloadTo(ctx context.Context, url, destPath string) error {
	ctx, cancel := context.WithTimeout(ctx, 90*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("aidb: GET %s: status %d", url, resp.StatusCode)
	}

	if err := os.MkdirAll(dirOf(destPath), 0o755); err != nil {
		return err
	}
	tmp := destPath + ".download"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, destPath)
}

// withRetry runs op with bounded exponential-backoff retry, labeled with
// the source name for logging, matching doJSONWithRetry's shape.
func (f *fetcher) withRetry(ctx context.Context, label string, op func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= f.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := f.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
			f.Log.Debug("aidb: retrying refresh", zap.String("source", label), zap.Int("attempt", attempt), zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if err := op(ctx); err == nil {
			return nil
		} else {
			lastErr = err
			f.Log.Warn("aidb: refresh attempt failed", zap.String("source", label), zap.Int("attempt", attempt), zap.Error(err))
		}
	}
	return lastErr
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
