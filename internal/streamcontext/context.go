// Package streamcontext implements the Stream Context: a per-request
// facade that synchronously resolves AIDB identity and lazily,
// concurrently materializes metadata, release dates, episode air
// date, and SeaDex info, then projects a flat view for the Expression
// Engine.
package streamcontext

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/example/streamweave/internal/aidb"
	"github.com/example/streamweave/internal/cache"
	"github.com/example/streamweave/internal/idparser"
	"github.com/example/streamweave/internal/metadata"
	"github.com/example/streamweave/internal/seadex"
)

// Deps are the Context's external collaborators. Metadata, SeaDex, and
// Cache may be nil (e.g. in tests, or deployments that disable SeaDex)
// — every fetch method degrades to "no data" rather than panicking.
type Deps struct {
	AIDB     *aidb.AIDB
	Metadata *metadata.Client
	SeaDex   *seadex.Client
	Cache    *cache.Memoized
	Log      *zap.Logger
}

// Context is the single-request collaborator owned by the pipeline.
type Context struct {
	deps Deps

	RawType  string // "movie" or "series", as given by the caller
	RawID    string
	ParsedID idparser.ParsedId
	IsAnime  bool
	Entry    *aidb.AnimeEntry
	QueryType string

	metadataSlot       slot[*metadata.Metadata]
	releaseDateSlot    slot[*metadata.Metadata]
	episodeAirDateSlot slot[*metadata.EpisodeAirDate]
	seaDexSlot         slot[*seadex.InfoHashes]

	absoluteEpisode *int
}

// New performs the synchronous construction step: parse the id,
// consult AIDB, and enrich the parsed id from the resolved entry.
func New(rawType, rawID string, deps Deps) (*Context, error) {
	parsed, err := idparser.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("streamcontext: %w", err)
	}

	c := &Context{deps: deps, RawType: rawType, RawID: rawID}

	if deps.AIDB != nil && deps.AIDB.IsAnime(rawID) {
		c.IsAnime = true
		entry, err := deps.AIDB.GetEntryById(parsed.Source, parsed.Value, parsed.Season, parsed.Episode)
		if err == nil && entry != nil {
			c.Entry = entry
			parsed = aidb.EnrichParsedIdWithAnimeEntry(parsed, entry)
		}
	}
	c.ParsedID = parsed

	if c.IsAnime {
		c.QueryType = "anime." + rawType
	} else {
		c.QueryType = rawType
	}
	return c, nil
}

func (c *Context) tmdbID() (int, bool) {
	if c.Entry != nil && c.Entry.TMDbId != nil {
		return *c.Entry.TMDbId, true
	}
	if c.ParsedID.Source == idparser.SourceTMDb && c.ParsedID.IsNumeric {
		return c.ParsedID.NumericValue, true
	}
	return 0, false
}

func (c *Context) anilistID() (int, bool) {
	if c.Entry != nil && c.Entry.AniListId != nil {
		return *c.Entry.AniListId, true
	}
	if c.ParsedID.Source == idparser.SourceAniList && c.ParsedID.IsNumeric {
		return c.ParsedID.NumericValue, true
	}
	return 0, false
}

// StartMetadataFetch starts (at most once) the title/year/genres/
// seasons lookup. Callers gate whether to call it at all on whether
// anything downstream (bitrate, title/year/season-episode matching,
// digital-release filter, an expression referencing title/genres/
// year) actually needs it.
func (c *Context) StartMetadataFetch(ctx context.Context) {
	c.metadataSlot.start(ctx, c.deps.Log, "metadata", func(ctx context.Context) (*metadata.Metadata, error) {
		tmdbID, ok := c.tmdbID()
		if !ok || c.deps.Metadata == nil {
			return nil, nil
		}
		md, err := c.fetchMetadataCached(ctx, tmdbID)
		if err != nil {
			return nil, err
		}
		if md != nil {
			c.computeAbsoluteEpisode(md)
		}
		return md, nil
	})
}

func (c *Context) fetchMetadataCached(ctx context.Context, tmdbID int) (*metadata.Metadata, error) {
	if c.deps.Cache == nil {
		return c.deps.Metadata.GetMetadata(ctx, tmdbID)
	}
	var md metadata.Metadata
	err := c.deps.Cache.GetOrSet(ctx, "metadata:"+strconv.Itoa(tmdbID), 6*time.Hour, &md, func(ctx context.Context) (any, error) {
		return c.deps.Metadata.GetMetadata(ctx, tmdbID)
	})
	if err != nil {
		return nil, err
	}
	return &md, nil
}

// GetMetadata awaits StartMetadataFetch, starting it if necessary.
func (c *Context) GetMetadata(ctx context.Context) *metadata.Metadata {
	c.StartMetadataFetch(ctx)
	return c.metadataSlot.wait(ctx)
}

// StartReleaseDatesFetch starts the movie release-date lookup.
func (c *Context) StartReleaseDatesFetch(ctx context.Context) {
	c.releaseDateSlot.start(ctx, c.deps.Log, "releaseDate", func(ctx context.Context) (*metadata.Metadata, error) {
		if c.RawType != "movie" || c.deps.Metadata == nil {
			return nil, nil
		}
		tmdbID, ok := c.tmdbID()
		if !ok {
			return nil, nil
		}
		return c.deps.Metadata.GetReleaseDate(ctx, tmdbID)
	})
}

func (c *Context) GetReleaseDates(ctx context.Context) *metadata.Metadata {
	c.StartReleaseDatesFetch(ctx)
	return c.releaseDateSlot.wait(ctx)
}

// StartEpisodeAirDateFetch starts the per-episode air-date lookup.
func (c *Context) StartEpisodeAirDateFetch(ctx context.Context) {
	c.episodeAirDateSlot.start(ctx, c.deps.Log, "episodeAirDate", func(ctx context.Context) (*metadata.EpisodeAirDate, error) {
		if c.RawType == "movie" || c.deps.Metadata == nil {
			return nil, nil
		}
		tmdbID, ok := c.tmdbID()
		if !ok || c.ParsedID.Season == nil || c.ParsedID.Episode == nil {
			return nil, nil
		}
		return c.deps.Metadata.GetEpisodeAirDate(ctx, tmdbID, *c.ParsedID.Season, *c.ParsedID.Episode)
	})
}

func (c *Context) GetEpisodeAirDate(ctx context.Context) *metadata.EpisodeAirDate {
	c.StartEpisodeAirDateFetch(ctx)
	return c.episodeAirDateSlot.wait(ctx)
}

// StartSeaDexFetch starts the SeaDex best/all hash+group lookup.
func (c *Context) StartSeaDexFetch(ctx context.Context, seadexEnabled bool) {
	c.seaDexSlot.start(ctx, c.deps.Log, "seadex", func(ctx context.Context) (*seadex.InfoHashes, error) {
		if !c.IsAnime || !seadexEnabled || c.deps.SeaDex == nil {
			return nil, nil
		}
		anilistID, ok := c.anilistID()
		if !ok {
			return nil, nil
		}
		return c.deps.SeaDex.GetSeaDexInfoHashes(ctx, anilistID)
	})
}

func (c *Context) GetSeaDex(ctx context.Context, seadexEnabled bool) *seadex.InfoHashes {
	c.StartSeaDexFetch(ctx, seadexEnabled)
	return c.seaDexSlot.wait(ctx)
}

// StartAllFetches kicks every slot that is eligible for this request's
// type, so they run concurrently with the Fetcher's addon fan-out.
func (c *Context) StartAllFetches(ctx context.Context, seadexEnabled bool) {
	c.StartMetadataFetch(ctx)
	if c.RawType == "movie" {
		c.StartReleaseDatesFetch(ctx)
	} else {
		c.StartEpisodeAirDateFetch(ctx)
	}
	c.StartSeaDexFetch(ctx, seadexEnabled)
}

// computeAbsoluteEpisode derives the absolute episode number from the
// requested (season, episode) and the title's season list: the sum of
// episode counts for every season before the requested one, plus the
// requested episode, shifted forward by one for each non-IMDb-tracked
// episode strictly before that sum.
func (c *Context) computeAbsoluteEpisode(md *metadata.Metadata) {
	if c.ParsedID.Season == nil || c.ParsedID.Episode == nil || len(md.Seasons) == 0 {
		return
	}
	total := 0
	for _, s := range md.Seasons {
		if s.Number < *c.ParsedID.Season {
			total += s.EpisodeCount
		}
	}
	total += *c.ParsedID.Episode

	if c.Entry != nil && c.Entry.IMDb != nil {
		shift := 0
		for _, ep := range c.Entry.IMDb.NonImdbEpisodes {
			if ep < total {
				shift++
			}
		}
		total += shift
	}
	c.absoluteEpisode = &total
}

// ToExpressionContext projects a flat, read-only field map for the
// Expression Engine.
func (c *Context) ToExpressionContext(ctx context.Context, seadexEnabled bool) map[string]any {
	out := map[string]any{
		"type":      c.RawType,
		"id":        c.RawID,
		"isAnime":   c.IsAnime,
		"queryType": c.QueryType,
	}
	if c.ParsedID.Season != nil {
		out["season"] = float64(*c.ParsedID.Season)
	}
	if c.ParsedID.Episode != nil {
		out["episode"] = float64(*c.ParsedID.Episode)
	}
	if c.absoluteEpisode != nil {
		out["absoluteEpisode"] = float64(*c.absoluteEpisode)
	}
	if anilistID, ok := c.anilistID(); ok {
		out["anilistId"] = float64(anilistID)
	}
	if c.Entry != nil && c.Entry.MALId != nil {
		out["malId"] = float64(*c.Entry.MALId)
	}

	if md := c.metadataSlot.wait(ctx); md != nil {
		out["title"] = md.Title
		if len(md.Titles) > 0 {
			out["titles"] = md.Titles
		}
		if md.Year != 0 {
			out["year"] = float64(md.Year)
		}
		if md.YearEnd != 0 {
			out["yearEnd"] = float64(md.YearEnd)
		}
		if len(md.Genres) > 0 {
			out["genres"] = md.Genres
		}
		if md.Runtime != 0 {
			out["runtime"] = float64(md.Runtime)
		}
		if md.OriginalLanguage != "" {
			out["originalLanguage"] = englishLanguageName(md.OriginalLanguage)
		}
	}

	releaseDate := time.Time{}
	if rd := c.releaseDateSlot.wait(ctx); rd != nil && !rd.ReleaseDate.IsZero() {
		releaseDate = rd.ReleaseDate
	}
	if ad := c.episodeAirDateSlot.wait(ctx); ad != nil && !ad.AirDate.IsZero() {
		releaseDate = ad.AirDate
	}
	if !releaseDate.IsZero() {
		out["daysSinceRelease"] = float64(int(time.Since(releaseDate).Hours() / 24))
	}

	if sd := c.seaDexSlot.wait(ctx); sd != nil {
		out["hasSeaDex"] = len(sd.AllHashes) > 0 || len(sd.AllGroups) > 0
	}
	_ = seadexEnabled

	return out
}

func englishLanguageName(iso string) string {
	tag, err := language.Parse(iso)
	if err != nil {
		return iso
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return iso
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
