// Package idparser turns the opaque content identifiers addons and
// clients pass around ("tt0111161:1:5", "kitsu:7936:2:5", "mal:21234")
// into a structured, immutable ParsedId.
package idparser

import (
	"fmt"
	"strconv"
	"strings"
)

// IdSource identifies which external catalog an id value belongs to.
type IdSource string

const (
	SourceIMDb          IdSource = "imdb"
	SourceTMDb          IdSource = "tmdb"
	SourceTVDb          IdSource = "tvdb"
	SourceMAL           IdSource = "mal"
	SourceKitsu         IdSource = "kitsu"
	SourceAniDB         IdSource = "anidb"
	SourceAniList       IdSource = "anilist"
	SourceAnimePlanet   IdSource = "animePlanet"
	SourceAniSearch     IdSource = "anisearch"
	SourceLiveChart     IdSource = "livechart"
	SourceNotifyMoe     IdSource = "notifyMoe"
	SourceSimkl         IdSource = "simkl"
	SourceTrakt         IdSource = "trakt"
	SourceAnimeCountdown IdSource = "animecountdown"
)

// prefixSources maps the explicit "prefix:" form onto an IdSource. IMDb
// is special-cased: its ids are bare ("tt0111161"), carrying no prefix.
var prefixSources = map[string]IdSource{
	"tmdb":           SourceTMDb,
	"tvdb":           SourceTVDb,
	"mal":            SourceMAL,
	"kitsu":          SourceKitsu,
	"anidb":          SourceAniDB,
	"anilist":        SourceAniList,
	"animeplanet":    SourceAnimePlanet,
	"anisearch":      SourceAniSearch,
	"livechart":      SourceLiveChart,
	"notifymoe":      SourceNotifyMoe,
	"simkl":          SourceSimkl,
	"trakt":          SourceTrakt,
	"animecountdown": SourceAnimeCountdown,
}

// ParsedId is the normalized, immutable shape of a content identifier.
// Value keeps its original string form; NumericValue reports whether it
// parses as an integer and, if so, its value — callers that need to try
// both forms against a keyed-by-string-or-int index use both.
type ParsedId struct {
	Source       IdSource
	Value        string
	NumericValue int
	IsNumeric    bool
	Season       *int
	Episode      *int
}

// WithSeason returns a copy of p with Season replaced.
func (p ParsedId) WithSeason(season *int) ParsedId {
	p.Season = season
	return p
}

// WithEpisode returns a copy of p with Episode replaced.
func (p ParsedId) WithEpisode(episode *int) ParsedId {
	p.Episode = episode
	return p
}

// Parse decodes a raw id string into a ParsedId. The expected shape is
// "{value}[:{season}:{episode}]" for bare IMDb-style ids (value begins
// with "tt") or "{prefix}:{value}[:{season}:{episode}]" for every other
// source. Unknown prefixes and malformed numeric components are
// rejected — the caller should treat the error as a ValidationRejected
// condition, not a fatal one.
func Parse(raw string) (ParsedId, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ParsedId{}, fmt.Errorf("idparser: empty id")
	}

	if strings.HasPrefix(raw, "tt") {
		return parseRemainder(SourceIMDb, raw, 0)
	}

	prefix, rest, ok := strings.Cut(raw, ":")
	if !ok {
		return ParsedId{}, fmt.Errorf("idparser: missing source prefix in %q", raw)
	}
	source, ok := prefixSources[strings.ToLower(prefix)]
	if !ok {
		return ParsedId{}, fmt.Errorf("idparser: unknown id source %q", prefix)
	}
	return parseRemainder(source, rest, 0)
}

// parseRemainder splits "value[:season:episode]" and fills in the
// numeric reading of value when possible. skip is the number of leading
// characters already consumed from raw by the caller (unused today,
// kept so future prefix variants can reuse this without re-deriving it).
func parseRemainder(source IdSource, remainder string, _ int) (ParsedId, error) {
	parts := strings.Split(remainder, ":")
	if len(parts) == 0 || parts[0] == "" {
		return ParsedId{}, fmt.Errorf("idparser: missing value for source %q", source)
	}

	value := parts[0]
	p := ParsedId{Source: source, Value: value}
	if n, err := strconv.Atoi(value); err == nil {
		p.IsNumeric = true
		p.NumericValue = n
	}

	switch len(parts) {
	case 1:
		// no season/episode
	case 2:
		ep, err := parseIntPart(parts[1])
		if err != nil {
			return ParsedId{}, fmt.Errorf("idparser: invalid episode %q: %w", parts[1], err)
		}
		p.Episode = ep
	case 3:
		season, err := parseIntPart(parts[1])
		if err != nil {
			return ParsedId{}, fmt.Errorf("idparser: invalid season %q: %w", parts[1], err)
		}
		ep, err := parseIntPart(parts[2])
		if err != nil {
			return ParsedId{}, fmt.Errorf("idparser: invalid episode %q: %w", parts[2], err)
		}
		p.Season = season
		p.Episode = ep
	default:
		return ParsedId{}, fmt.Errorf("idparser: too many colon-separated segments in %q", remainder)
	}
	return p, nil
}

func parseIntPart(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
