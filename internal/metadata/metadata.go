// Package metadata implements the Metadata Service client: title,
// year, genres, seasons, and release-date lookups from an external
// catalog, wrapped the same retry+breaker shape as the teacher's
// upstream HTTP clients.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// SeasonInfo is one entry of a title's season list.
type SeasonInfo struct {
	Number       int `json:"number"`
	EpisodeCount int `json:"episodeCount"`
}

// Metadata is the projection of an external catalog entry the
// pipeline and expression engine need.
type Metadata struct {
	Title            string       `json:"title"`
	Titles           []string     `json:"titles,omitempty"`
	Year             int          `json:"year,omitempty"`
	YearEnd          int          `json:"yearEnd,omitempty"`
	Genres           []string     `json:"genres,omitempty"`
	Runtime          int          `json:"runtime,omitempty"`
	OriginalLanguage string       `json:"originalLanguage,omitempty"`
	ReleaseDate      time.Time    `json:"releaseDate,omitempty"`
	Seasons          []SeasonInfo `json:"seasons,omitempty"`
	TMDBId           int          `json:"tmdbId,omitempty"`
}

// EpisodeAirDate is the release date of a single episode.
type EpisodeAirDate struct {
	AirDate time.Time `json:"airDate"`
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
		cfg.Timeout = 12 * time.Second
	}
	c := &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: cfg.Timeout},
		Config:  cfg,
		Log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GetMetadata fetches title/year/genres/seasons for a TMDB-style id.
func (c *Client) GetMetadata(ctx context.Context, tmdbID int) (*Metadata, error) {
	u := c.BaseURL + "/metadata/" + strconv.Itoa(tmdbID)
	return doWithBreaker[Metadata](ctx, c, u)
}

// GetReleaseDate fetches a movie's theatrical/streaming release date.
func (c *Client) GetReleaseDate(ctx context.Context, tmdbID int) (*Metadata, error) {
	u := c.BaseURL + "/metadata/" + strconv.Itoa(tmdbID) + "/release"
	return doWithBreaker[Metadata](ctx, c, u)
}

// GetEpisodeAirDate fetches a single episode's air date.
func (c *Client) GetEpisodeAirDate(ctx context.Context, tmdbID, season, episode int) (*EpisodeAirDate, error) {
	u := fmt.Sprintf("%s/metadata/%d/season/%d/episode/%d", c.BaseURL, tmdbID, season, episode)
	return doWithBreaker[EpisodeAirDate](ctx, c, u)
}

func doWithBreaker[T any](ctx context.Context, c *Client, u string) (*T, error) {
	if c.CB == nil {
		return doJSONWithRetry[T](ctx, c, u)
	}
	result, err := c.CB.Execute(func() (interface{}, error) {
		return doJSONWithRetry[T](ctx, c, u)
	})
	if err != nil {
		return nil, err
	}
	return result.(*T), nil
}

func doJSONWithRetry[T any](ctx context.Context, c *Client, u string) (*T, error) {
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
		result, err := doJSON[T](ctx, c, u)
		if err == nil {
			return result, nil
		}
		lastErr = err
		c.Log.Warn("metadata request failed", zap.String("url", u), zap.Int("attempt", attempt), zap.Error(err))
	}
	return nil, lastErr
}

func doJSON[T any](ctx context.Context, c *Client, u string) (*T, error) {
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

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata: status %d body=%q", resp.StatusCode, string(b[:min(len(b), 200)]))
	}

	var result T
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
