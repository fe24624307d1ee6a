// Package pipeline implements the per-request stream pipeline: fetch,
// precompute, filter, sort, and deduplicate candidate playback streams.
package pipeline

// StreamType classifies how a ParsedStream was sourced.
type StreamType string

const (
	StreamDebrid    StreamType = "debrid"
	StreamP2P       StreamType = "p2p"
	StreamUsenet    StreamType = "usenet"
	StreamHTTP      StreamType = "http"
	StreamLive      StreamType = "live"
	StreamYouTube   StreamType = "youtube"
	StreamExternal  StreamType = "external"
	StreamError     StreamType = "error"
	StreamStatistic StreamType = "statistic"
)

// ParsedFile is the addon's parse of a stream's filename: resolution,
// quality, encode, tags, languages and release group.
type ParsedFile struct {
	Resolution    string   `json:"resolution"`
	Quality       string   `json:"quality"`
	Encode        string   `json:"encode"`
	VisualTags    []string `json:"visualTags,omitempty"`
	AudioTags     []string `json:"audioTags,omitempty"`
	AudioChannels []string `json:"audioChannels,omitempty"`
	Languages     []string `json:"languages,omitempty"`
	ReleaseGroup  string   `json:"releaseGroup,omitempty"`
}

type Torrent struct {
	InfoHash string `json:"infoHash,omitempty"`
	Seeders  *int   `json:"seeders,omitempty"`
}

type Service struct {
	ID        string `json:"id"`
	ShortName string `json:"shortName"`
	Cached    bool   `json:"cached"`
}

type SeaDexTag struct {
	IsBest   bool `json:"isBest"`
	IsSeadex bool `json:"isSeadex"`
}

type RegexMatch struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
	Index   int    `json:"index"`
}

// ParsedStream is a single candidate stream as returned by the Fetcher
// and progressively annotated by the pipeline's precompute stages.
// Fields the pipeline never reasons about directly (age, message,
// proxied) are enumerated like the rest and passed through unchanged.
type ParsedStream struct {
	ID         string      `json:"id"`
	Filename   string      `json:"filename,omitempty"`
	FolderName string      `json:"folderName,omitempty"`
	Indexer    string      `json:"indexer,omitempty"`
	ParsedFile *ParsedFile `json:"parsedFile,omitempty"`
	Torrent    *Torrent    `json:"torrent,omitempty"`
	Size       int64       `json:"size,omitempty"`
	FolderSize int64       `json:"folderSize,omitempty"`
	Age        string      `json:"age,omitempty"`
	Type       StreamType  `json:"type"`
	Service    *Service    `json:"service,omitempty"`
	Library    bool        `json:"library,omitempty"`
	Proxied    bool        `json:"proxied,omitempty"`
	Private    bool        `json:"private,omitempty"`
	Message    string      `json:"message,omitempty"`

	// Mutable per-request annotations, set by precompute stages.
	SeaDex                  *SeaDexTag  `json:"seadex,omitempty"`
	RegexMatched            *RegexMatch `json:"regexMatched,omitempty"`
	KeywordMatched          bool        `json:"keywordMatched,omitempty"`
	StreamExpressionMatched *int        `json:"streamExpressionMatched,omitempty"`
	StreamExpressionScore   *float64    `json:"streamExpressionScore,omitempty"`
}

// RegexPatternConfig is a user-supplied named pattern; the synthetic
// "n" flag (parsed out before compilation) negates the match.
type RegexPatternConfig struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
}

// RankedExpressionConfig pairs a selecting expression with the score
// added to every stream it selects.
type RankedExpressionConfig struct {
	Expression string  `json:"expression"`
	Score      float64 `json:"score"`
}

type CachedPolicy string

const (
	CachedSingleResult CachedPolicy = "single_result"
	CachedPerService   CachedPolicy = "per_service"
	CachedDisabled     CachedPolicy = "disabled"
)

type MultiGroupBehaviour string

const (
	MultiGroupAggressive   MultiGroupBehaviour = "aggressive"
	MultiGroupConservative MultiGroupBehaviour = "conservative"
	MultiGroupKeepAll      MultiGroupBehaviour = "keep_all"
)

type DeduplicatorConfig struct {
	Enabled             bool                `json:"enabled"`
	Keys                []string            `json:"keys"`
	MultiGroupBehaviour MultiGroupBehaviour `json:"multiGroupBehaviour"`
	Cached              CachedPolicy        `json:"cached"`
	Uncached            CachedPolicy        `json:"uncached"`
	P2P                 CachedPolicy        `json:"p2p"`
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type SortCriterion struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

type SortCriteria struct {
	Global []SortCriterion `json:"global"`
}

// UserData is the configuration subset of a user's profile relevant to
// the pipeline; persistence of the full profile is out of scope.
type UserData struct {
	PreferredResolutions       []string                 `json:"preferredResolutions,omitempty"`
	ExcludedQualities          []string                 `json:"excludedQualities,omitempty"`
	ExcludedVisualTags         []string                 `json:"excludedVisualTags,omitempty"`
	PreferredKeywords          []string                 `json:"preferredKeywords,omitempty"`
	PreferredRegexPatterns     []RegexPatternConfig     `json:"preferredRegexPatterns,omitempty"`
	PreferredStreamExpressions []string                 `json:"preferredStreamExpressions,omitempty"`
	RankedStreamExpressions    []RankedExpressionConfig `json:"rankedStreamExpressions,omitempty"`
	IncludedStreamExpressions  []string                 `json:"includedStreamExpressions,omitempty"`
	RequiredStreamExpressions  []string                 `json:"requiredStreamExpressions,omitempty"`
	ExcludedStreamExpressions  []string                 `json:"excludedStreamExpressions,omitempty"`
	Deduplicator               DeduplicatorConfig       `json:"deduplicator"`
	EnableSeadex               *bool                    `json:"enableSeadex,omitempty"`
	TitleMatching              bool                     `json:"titleMatching,omitempty"`
	YearMatching               bool                     `json:"yearMatching,omitempty"`
	SeasonEpisodeMatching      bool                     `json:"seasonEpisodeMatching,omitempty"`
	DigitalReleaseFilter       bool                     `json:"digitalReleaseFilter,omitempty"`
	SortCriteria               SortCriteria             `json:"sortCriteria"`
	RegexAllowed               bool                     `json:"-"`
}

// SeadexEnabled reports whether SeaDex fetch/tagging should run,
// defaulting to true when the user left the field unset.
func (u UserData) SeadexEnabled() bool {
	return u.EnableSeadex == nil || *u.EnableSeadex
}

// RequestType is the media kind carried in a resolve request.
type RequestType string

const (
	RequestMovie  RequestType = "movie"
	RequestSeries RequestType = "series"
)

// Request is the inbound (type, id, userData) tuple that seeds both
// the Stream Context and the Fetcher fan-out.
type Request struct {
	Type     RequestType
	ID       string
	UserData UserData
}
