package aidb

import "time"

// DetailLevel controls how much of each corpus is downloaded and parsed.
type DetailLevel string

const (
	DetailNone     DetailLevel = "none"
	DetailRequired DetailLevel = "required"
	DetailFull     DetailLevel = "full"
)

// SourceName identifies one of the six refreshable corpora.
type SourceName string

const (
	SourceCrossReference SourceName = "cross-reference"
	SourceOfflineCatalog SourceName = "offline-catalog"
	SourceKitsuImdb      SourceName = "kitsu-imdb"
	SourceAnitraktMovie  SourceName = "anitrakt-movie"
	SourceAnitraktTV     SourceName = "anitrakt-tv"
	SourceAnimeList      SourceName = "anime-list"
)

// sourceDescriptor pairs a corpus with its remote URL, on-disk paths and
// refresh cadence. Files land under "<dataDir>/anime-database/".
type sourceDescriptor struct {
	Name            SourceName
	URL             string
	FilePath        string
	EtagPath        string
	RefreshInterval time.Duration
}

// defaultSources returns the descriptors for every corpus, rooted at
// dataDir, with the given per-source refresh intervals. A zero interval
// falls back to a 24h default.
func defaultSources(dataDir string, intervals map[SourceName]time.Duration) []sourceDescriptor {
	base := dataDir + "/anime-database/"
	descriptors := []sourceDescriptor{
		{
			Name:     SourceCrossReference,
			URL:      "https://raw.githubusercontent.com/TheBeastLT/mediafusion-anime-db/master/data/anime-list-full.json",
			FilePath: base + "cross-reference.json",
			EtagPath: base + "cross-reference.etag",
		},
		{
			Name:     SourceOfflineCatalog,
			URL:      "https://raw.githubusercontent.com/manami-project/anime-offline-database/master/anime-offline-database.json",
			FilePath: base + "offline-catalog.json",
			EtagPath: base + "offline-catalog.etag",
		},
		{
			Name:     SourceKitsuImdb,
			URL:      "https://raw.githubusercontent.com/TheBeastLT/kitsu-imdb-mapping/master/data/kitsu-imdb-mapping.json",
			FilePath: base + "kitsu-imdb.json",
			EtagPath: base + "kitsu-imdb.etag",
		},
		{
			Name:     SourceAnitraktMovie,
			URL:      "https://raw.githubusercontent.com/rensetsu/db.trakt.extended-anitrakt/main/db/movie.json",
			FilePath: base + "anitrakt-movie.json",
			EtagPath: base + "anitrakt-movie.etag",
		},
		{
			Name:     SourceAnitraktTV,
			URL:      "https://raw.githubusercontent.com/rensetsu/db.trakt.extended-anitrakt/main/db/tv.json",
			FilePath: base + "anitrakt-tv.json",
			EtagPath: base + "anitrakt-tv.etag",
		},
		{
			Name:     SourceAnimeList,
			URL:      "https://raw.githubusercontent.com/Fribb/anime-lists/master/anime-list-full.xml",
			FilePath: base + "anime-list.xml",
			EtagPath: base + "anime-list.etag",
		},
	}
	for i := range descriptors {
		if iv, ok := intervals[descriptors[i].Name]; ok && iv > 0 {
			descriptors[i].RefreshInterval = iv
		} else {
			descriptors[i].RefreshInterval = 24 * time.Hour
		}
	}
	return descriptors
}
