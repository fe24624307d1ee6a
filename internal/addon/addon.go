// Package addon implements the Fetcher external collaborator: fanning
// out a resolve request to a configured set of stream-provider addons
// and merging whatever they return.
package addon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/streamweave/internal/pipeline"
)

// Config describes one addon endpoint to fan out to.
type Config struct {
	Name    string
	BaseURL string
	Timeout time.Duration
}

// ClientConfig holds settings shared across every addon call.
type ClientConfig struct {
	UserAgent      string
	MaxRetries     int
	RetryBaseDelay time.Duration
	DefaultTimeout time.Duration
}

// Client fans a single resolve request out to every configured addon
// concurrently, with the same retry+breaker wrapping the teacher uses
// for its single upstream, applied per addon instead of per endpoint.
// Each addon call is a JSON POST to <BaseURL>/stream/<type>/<id>.
type Client struct {
	addons   []Config
	http     *http.Client
	cfg      ClientConfig
	breakers map[string]*gobreaker.CircuitBreaker
	log      *zap.Logger
}

func New(addons []Config, cfg ClientConfig, log *zap.Logger) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "streamweave/1.0"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 300 * time.Millisecond
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	breakers := make(map[string]*gobreaker.CircuitBreaker, len(addons))
	for _, a := range addons {
		breakers[a.Name] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    a.Name,
			Timeout: 30 * time.Second,
		})
	}
	return &Client{
		addons:   addons,
		http:     &http.Client{},
		cfg:      cfg,
		breakers: breakers,
		log:      log,
	}
}

type addonRequestBody struct {
	Type     pipeline.RequestType `json:"type"`
	ID       string               `json:"id"`
	UserData pipeline.UserData    `json:"userData"`
}

// Fetch queries every configured addon concurrently. A single addon's
// failure is logged and contributes no streams; Fetch itself only
// returns an error when ctx is cancelled before any addon responded.
func (c *Client) Fetch(ctx context.Context, req pipeline.Request) ([]pipeline.ParsedStream, error) {
	results := make([][]pipeline.ParsedStream, len(c.addons))
	responded := make([]bool, len(c.addons))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range c.addons {
		i, a := i, a
		g.Go(func() error {
			streams, err := c.fetchOne(gctx, a, req)
			if err != nil {
				c.log.Warn("addon fetch failed", zap.String("addon", a.Name), zap.Error(err))
				return nil
			}
			results[i] = streams
			responded[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		anyResponded := false
		for _, ok := range responded {
			anyResponded = anyResponded || ok
		}
		if !anyResponded {
			return nil, err
		}
	}

	var merged []pipeline.ParsedStream
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, nil
}

func (c *Client) fetchOne(ctx context.Context, a Config, req pipeline.Request) ([]pipeline.ParsedStream, error) {
	cb := c.breakers[a.Name]
	result, err := cb.Execute(func() (interface{}, error) {
		return c.doWithRetry(ctx, a, req)
	})
	if err != nil {
		return nil, err
	}
	return result.([]pipeline.ParsedStream), nil
}

func (c *Client) doWithRetry(ctx context.Context, a Config, req pipeline.Request) ([]pipeline.ParsedStream, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.cfg.RetryBaseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
		streams, err := c.doOnce(ctx, a, req)
		if err == nil {
			return streams, nil
		}
		lastErr = err
		c.log.Debug("addon attempt failed", zap.String("addon", a.Name), zap.Int("attempt", attempt), zap.Error(err))
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, a Config, req pipeline.Request) ([]pipeline.ParsedStream, error) {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = c.cfg.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(addonRequestBody{Type: req.Type, ID: req.ID, UserData: req.UserData})
	if err != nil {
		return nil, fmt.Errorf("addon %s: encode request: %w", a.Name, err)
	}

	url := a.BaseURL + "/stream/" + string(req.Type) + "/" + req.ID
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("addon %s: build request: %w", a.Name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("addon %s: %w", a.Name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("addon %s: read body: %w", a.Name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("addon %s: status %d", a.Name, resp.StatusCode)
	}

	var payload struct {
		Streams []pipeline.ParsedStream `json:"streams"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("addon %s: decode response: %w", a.Name, err)
	}
	return payload.Streams, nil
}
