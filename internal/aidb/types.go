package aidb

import "github.com/example/streamweave/internal/idparser"

// AnimeType classifies a title's broadcast format.
type AnimeType string

const (
	TypeTV      AnimeType = "TV"
	TypeMovie   AnimeType = "MOVIE"
	TypeSpecial AnimeType = "SPECIAL"
	TypeOVA     AnimeType = "OVA"
	TypeONA     AnimeType = "ONA"
	TypeUnknown AnimeType = "UNKNOWN"
)

// Season is a broadcast quarter, independent of a catalog's season number.
type Season string

const (
	SeasonWinter    Season = "WINTER"
	SeasonSpring    Season = "SPRING"
	SeasonSummer    Season = "SUMMER"
	SeasonFall      Season = "FALL"
	SeasonUndefined Season = "UNDEFINED"
)

// AnimeSeason pairs a broadcast quarter with its year.
type AnimeSeason struct {
	Season Season
	Year   *int
}

// CrossRefIds is the full bag of catalog ids a MappingEntry may carry.
type CrossRefIds struct {
	AniDBId       *int
	AniListId     *int
	AnimePlanetId *string
	AniSearchId   *int
	IMDbId        *string
	KitsuId       *int
	LiveChartId   *int
	MALId         *int
	NotifyMoeId   *string
	SimklId       *int
	TraktId       *int
	TMDbId        *int
	TVDbId        *int
	AnimeCountdownId *int
}

// MappingEntry is one row of the cross-reference corpus: every known
// external id for a single title, plus its broadcast type and any
// season overrides for catalogs that split a cour into its own season.
type MappingEntry struct {
	Ids          CrossRefIds
	Type         AnimeType
	TVDbSeason   *int
	TMDbSeason   *int
}

// AnimeDetails is a title's descriptive metadata from the offline
// catalog. It is the reduced form (title, synonyms, broadcast season),
// stored the same way at every detail level.
type AnimeDetails struct {
	Title          string
	Synonyms       []string
	AnimeSeasonInfo AnimeSeason
}

// KitsuImdbEntry links a Kitsu id to its IMDb projection.
type KitsuImdbEntry struct {
	KitsuId          int
	TVDbId           *string
	IMDbId           *string
	Title            *string
	FromSeason       *int
	FromEpisode      *int
	NonImdbEpisodes  []int
	FanartLogoId     *string
}

// AnitraktSeasonExternals carries a split-cour season's own catalog ids.
type AnitraktSeasonExternals struct {
	TVDb *int
	TMDb *int
}

// AnitraktSeason is the Trakt season record for a (possibly split-cour)
// anime, present only when the series required its own season mapping.
type AnitraktSeason struct {
	Id        int
	Number    int
	Externals AnitraktSeasonExternals
}

// AnitraktTrakt is the Trakt-side projection of an AnitraktEntry.
type AnitraktTrakt struct {
	Id          int
	Slug        string
	Title       string
	IsSplitCour bool
	Season      *AnitraktSeason
}

// AnitraktExternals carries the non-Trakt ids Anitrakt cross-references.
type AnitraktExternals struct {
	TVDb *int
	TMDb *int
	IMDb *string
}

// AnitraktEntry links a MyAnimeList id to its Trakt projection. Separate
// corpora exist for movies and for TV; both decode to this shape.
type AnitraktEntry struct {
	MALId       int
	Trakt       AnitraktTrakt
	Externals   AnitraktExternals
	ReleaseYear int
}

// AnimeListMapping is one <mapping> row within an AnimeListEntry's
// mapping-list, only populated at "full" detail level.
type AnimeListMapping struct {
	AniDBSeason int
	TVDbSeason  *int
	TMDbSeason  *int
	Start       *int
	End         *int
	Offset      *int
	Episodes    *string
}

// AnimeListEntry is one <anime> row of the AniDB anime-list XML corpus.
// DefaultTVDbSeason holds "a" (absolute numbering) as the sentinel value
// AbsoluteTVDbSeason, distinct from an ordinary numbered season.
type AnimeListEntry struct {
	AniDBId           int
	TVDbId            *int
	DefaultTVDbSeason *int
	AbsoluteTVDbSeason bool
	EpisodeOffset     *int
	TMDbId            *int
	TMDbTv            *bool
	TMDbSeason        *int
	TMDbOffset        *int
	IMDbId            *string
	Mappings          []AnimeListMapping
}

// CatalogProjection is the shape shared by the tvdb and tmdb blocks of a
// derived AnimeEntry: a season identity plus the absolute episode where
// that season's local numbering begins.
type CatalogProjection struct {
	SeasonNumber *int
	SeasonId     *int
	FromEpisode  *int
}

// IMDbProjection is the imdb block of a derived AnimeEntry.
type IMDbProjection struct {
	SeasonNumber    *int
	FromEpisode     *int
	NonImdbEpisodes []int
	Title           *string
}

// TraktProjection is the trakt block of a derived AnimeEntry.
type TraktProjection struct {
	Title        string
	Slug         string
	IsSplitCour  bool
	SeasonId     *int
	SeasonNumber *int
}

// FanartProjection is the fanart block of a derived AnimeEntry.
type FanartProjection struct {
	LogoId string
}

// AnimeEntry is the merged, resolved view the core exposes: the output
// of getEntryById, layering the cross-reference mapping with whichever
// of {offline catalog, Kitsu, Anitrakt, AnimeList} entries resolve to
// the same title.
type AnimeEntry struct {
	IMDbId         *string
	TVDbId         *int
	TMDbId         *int
	TraktId        *int
	AniDBId        *int
	AniListId      *int
	MALId          *int
	KitsuId        *int

	Mappings       []AnimeListMapping
	Type           AnimeType
	Title          *string
	Synonyms       []string
	AnimeSeasonInfo *AnimeSeason

	TVDb           CatalogProjection
	TMDb           CatalogProjection
	IMDb           *IMDbProjection
	Trakt          *TraktProjection
	Fanart         *FanartProjection

	EpisodeMappings []AnimeListMapping
}

// EnrichedParsedId is an alias of idparser.ParsedId, naming a ParsedId
// whose season/episode the AIDB has already enriched; it adds no
// fields of its own.
type EnrichedParsedId = idparser.ParsedId
