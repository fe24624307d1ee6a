// Package seadex implements the SeaDex Provider client: per-anime
// lists of community-"best" and "all" release info-hashes and
// release-group names, used by the pipeline's SeaDex precompute stage.
package seadex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// InfoHashes is the per-anilistId SeaDex lookup result. Hashes and
// group names are normalized to lowercase, matching the corpus's own
// casing convention, so callers can compare directly without
// re-normalizing.
type InfoHashes struct {
	BestHashes map[string]struct{}
	AllHashes  map[string]struct{}
	BestGroups map[string]struct{}
	AllGroups  map[string]struct{}
}

func (h *InfoHashes) HasBestHash(hash string) bool {
	_, ok := h.BestHashes[strings.ToLower(hash)]
	return ok
}

func (h *InfoHashes) HasHash(hash string) bool {
	_, ok := h.AllHashes[strings.ToLower(hash)]
	return ok
}

func (h *InfoHashes) HasBestGroup(group string) bool {
	_, ok := h.BestGroups[strings.ToLower(group)]
	return ok
}

func (h *InfoHashes) HasGroup(group string) bool {
	_, ok := h.AllGroups[strings.ToLower(group)]
	return ok
}

// wireEntry is the raw per-release record the SeaDex API returns.
type wireEntry struct {
	InfoHash     string `json:"infoHash"`
	ReleaseGroup string `json:"releaseGroup"`
	IsBest       bool   `json:"isBest"`
}

type wireResponse struct {
	Releases []wireEntry `json:"releases"`
}

type ClientConfig struct {
	UserAgent      string
	MaxRetries     int
	RetryBaseDelay time.Duration
	Timeout        time.Duration
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Config  ClientConfig
	CB      *gobreaker.CircuitBreaker
	Log     *zap.Logger
}

type Option func(*Client)

func WithCircuitBreaker(cb *gobreaker.CircuitBreaker) Option { return func(c *Client) { c.CB = cb } }
func WithLogger(log *zap.Logger) Option                      { return func(c *Client) { c.Log = log } }

func New(baseURL string, cfg ClientConfig, opts ...Option) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "streamweave/1.0"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 300 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: cfg.Timeout},
		Config:  cfg,
		Log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GetSeaDexInfoHashes fetches the best/all hash and group sets for an
// AniList id.
func (c *Client) GetSeaDexInfoHashes(ctx context.Context, anilistID int) (*InfoHashes, error) {
	u := c.BaseURL + "/anilist/" + strconv.Itoa(anilistID)
	resp, err := c.doWithBreaker(ctx, u)
	if err != nil {
		return nil, err
	}

	out := &InfoHashes{
		BestHashes: map[string]struct{}{},
		AllHashes:  map[string]struct{}{},
		BestGroups: map[string]struct{}{},
		AllGroups:  map[string]struct{}{},
	}
	for _, r := range resp.Releases {
		hash := strings.ToLower(r.InfoHash)
		group := strings.ToLower(r.ReleaseGroup)
		if hash != "" {
			out.AllHashes[hash] = struct{}{}
		}
		if group != "" {
			out.AllGroups[group] = struct{}{}
		}
		if r.IsBest {
			if hash != "" {
				out.BestHashes[hash] = struct{}{}
			}
			if group != "" {
				out.BestGroups[group] = struct{}{}
			}
		}
	}
	return out, nil
}

func (c *Client) doWithBreaker(ctx context.Context, u string) (*wireResponse, error) {
	if c.CB == nil {
		return c.doJSONWithRetry(ctx, u)
	}
	result, err := c.CB.Execute(func() (interface{}, error) {
		return c.doJSONWithRetry(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return result.(*wireResponse), nil
}

func (c *Client) doJSONWithRetry(ctx context.Context, u string) (*wireResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= c.Config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.Config.RetryBaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
		result, err := c.doJSON(ctx, u)
		if err == nil {
			return result, nil
		}
		lastErr = err
		c.Log.Warn("seadex request failed", zap.String("url", u), zap.Int("attempt", attempt), zap.Error(err))
	}
	return nil, lastErr
}

func (c *Client) doJSON(ctx context.Context, u string) (*wireResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return &wireResponse{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seadex: status %d", resp.StatusCode)
	}

	var out wireResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
