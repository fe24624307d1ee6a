package aidb

import (
	"regexp"
	"strconv"

	"github.com/example/streamweave/internal/idparser"
)

// detailsLookupOrder is the fixed priority used to scan a mapping's ids
// against the offline catalog ("details come from the offline catalog
// by scanning its IDs in order", §4.1 step 3).
var detailsLookupOrder = []idparser.IdSource{
	idparser.SourceMAL,
	idparser.SourceAniList,
	idparser.SourceAniDB,
	idparser.SourceKitsu,
	idparser.SourceIMDb,
	idparser.SourceTVDb,
	idparser.SourceTMDb,
	idparser.SourceAniSearch,
	idparser.SourceLiveChart,
	idparser.SourceAnimePlanet,
	idparser.SourceNotifyMoe,
	idparser.SourceSimkl,
}

// IsAnime reports whether rawId resolves to a non-null AnimeEntry.
func (a *AIDB) IsAnime(rawId string) bool {
	p, err := idparser.Parse(rawId)
	if err != nil {
		return false
	}
	entry, _ := a.GetEntryById(p.Source, p.Value, p.Season, p.Episode)
	return entry != nil
}

// GetEntryById resolves (source, value, season?, episode?) into a
// merged AnimeEntry following the algorithm in §4.1. A nil result with
// a nil error means "not found" (NotFound is not an error condition).
func (a *AIDB) GetEntryById(source idparser.IdSource, value string, season, episode *int) (*AnimeEntry, error) {
	crossRef := a.crossRef.Load()
	mappings := crossRef.lookup(source, value)

	// step 2: season-type filter.
	mappings = filterBySeasonType(mappings, season)

	mapping, details, hasDetails := a.selectBestMapping(crossRef, mappings, source, value, season, episode)

	// step 4: resolve co-indexed entries.
	kitsuId, malId, aniDBId := idsForCoIndexLookup(mapping, source, value)

	var kitsuEntry *KitsuImdbEntry
	if kitsuId != nil {
		if e, ok := a.kitsu.Load().byKitsuId[*kitsuId]; ok {
			kitsuEntry = &e
		}
	}
	var anitraktEntry *AnitraktEntry
	if malId != nil {
		if e, ok := a.anitrakt.Load().byMALId[*malId]; ok {
			anitraktEntry = &e
		}
	}
	var animeListEntry *AnimeListEntry
	if aniDBId != nil {
		if e, ok := a.animeList.Load().byAniDBId[*aniDBId]; ok {
			animeListEntry = &e
		}
	}

	// step 5.
	if mapping == nil && !hasDetails && kitsuEntry == nil && anitraktEntry == nil && animeListEntry == nil {
		return nil, nil
	}

	return buildAnimeEntry(mapping, details, hasDetails, kitsuEntry, anitraktEntry, animeListEntry), nil
}

func filterBySeasonType(mappings []MappingEntry, season *int) []MappingEntry {
	var want func(AnimeType) bool
	switch {
	case season == nil:
		want = func(t AnimeType) bool { return t == TypeMovie }
	case *season == 0:
		want = func(t AnimeType) bool { return t == TypeSpecial || t == TypeOVA || t == TypeONA }
	default:
		want = func(t AnimeType) bool { return t == TypeTV }
	}
	filtered := make([]MappingEntry, 0, len(mappings))
	for _, m := range mappings {
		if m.Type == TypeUnknown || want(m.Type) {
			filtered = append(filtered, m)
		}
	}
	if len(filtered) == 0 {
		return mappings
	}
	return filtered
}

// selectBestMapping implements §4.1 step 3. hasDetails distinguishes a
// genuinely-absent offline-catalog entry from the zero value.
func (a *AIDB) selectBestMapping(crossRef *crossRefIndex, mappings []MappingEntry, source idparser.IdSource, value string, season, episode *int) (mapping *MappingEntry, details AnimeDetails, hasDetails bool) {
	switch len(mappings) {
	case 0:
		return nil, AnimeDetails{}, false
	case 1:
		m := mappings[0]
		d, ok := a.scanDetailsInOrder(m)
		return &m, d, ok
	default:
		if season != nil && episode != nil {
			if m, d, ok, found := a.resolveSplitCourTieBreak(mappings, source, value, *season, *episode); found {
				return m, d, ok
			}
			if m, d, ok, found := a.resolveBySynonym(mappings, *season); found {
				return m, d, ok
			}
		}
		m := mappings[0]
		d, ok := a.scanDetailsInOrder(m)
		return &m, d, ok
	}
}

func (a *AIDB) scanDetailsInOrder(m MappingEntry) (AnimeDetails, bool) {
	offline := a.offlineCatalog.Load()
	for _, source := range detailsLookupOrder {
		value, ok := idValueForSource(m.Ids, source)
		if !ok {
			continue
		}
		if d, ok := offline.lookup(source, value); ok {
			return d, true
		}
	}
	return AnimeDetails{}, false
}

type splitCourCandidate struct {
	mapping     MappingEntry
	fromEpisode int
}

// resolveSplitCourTieBreak builds the Kitsu + AnimeList/TMDb candidate
// set and picks the highest fromEpisode (§4.1 step 3, testable scenario
// #2).
func (a *AIDB) resolveSplitCourTieBreak(mappings []MappingEntry, source idparser.IdSource, value string, season, episode int) (mapping *MappingEntry, details AnimeDetails, hasDetails bool, found bool) {
	kitsuIdx := a.kitsu.Load()
	animeListIdx := a.animeList.Load()

	var candidates []splitCourCandidate

	for _, m := range mappings {
		if m.Ids.KitsuId == nil {
			continue
		}
		ke, ok := kitsuIdx.byKitsuId[*m.Ids.KitsuId]
		if !ok || ke.FromSeason == nil || *ke.FromSeason != season {
			continue
		}
		fromEp := 1
		if ke.FromEpisode != nil {
			fromEp = *ke.FromEpisode
		}
		if episode >= fromEp {
			candidates = append(candidates, splitCourCandidate{mapping: m, fromEpisode: fromEp})
		}
	}

	if a.enableMappingTieBreak {
		tvdbIds := tvdbCandidateIds(mappings, source, value)
		for _, tvdbId := range tvdbIds {
			for _, ale := range animeListIdx.byTVDbId[tvdbId] {
				offset := 0
				if ale.EpisodeOffset != nil {
					offset = *ale.EpisodeOffset
				}
				fromEp := offset + 1
				seasonMatches := ale.AbsoluteTVDbSeason || (ale.DefaultTVDbSeason != nil && *ale.DefaultTVDbSeason == season)
				if seasonMatches && episode >= fromEp {
					m := mappingForAnimeListEntry(mappings, ale)
					candidates = append(candidates, splitCourCandidate{mapping: m, fromEpisode: fromEp})
				}
			}
		}
	}

	if len(candidates) == 0 {
		return nil, AnimeDetails{}, false, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.fromEpisode > best.fromEpisode {
			best = c
		}
	}
	d, ok := a.scanDetailsInOrder(best.mapping)
	return &best.mapping, d, ok, true
}

// resolveBySynonym tries /season[\s_-]*N\b/i against each mapping's
// offline-catalog synonyms, in order, first hit wins.
func (a *AIDB) resolveBySynonym(mappings []MappingEntry, season int) (mapping *MappingEntry, details AnimeDetails, hasDetails bool, found bool) {
	re := regexp.MustCompile(`(?i)season[\s_-]*` + strconv.Itoa(season) + `\b`)
	for _, m := range mappings {
		d, ok := a.scanDetailsInOrder(m)
		if !ok {
			continue
		}
		for _, syn := range d.Synonyms {
			if re.MatchString(syn) {
				mCopy := m
				return &mCopy, d, true, true
			}
		}
	}
	return nil, AnimeDetails{}, false, false
}

// tvdbCandidateIds converts the query id to the TVDb ids reachable from
// it: direct if the query source is already tvdb, else every TVDbId any
// of the resolved mappings carries (covers "via the IMDb→TVDB
// cross-reference" — the mapping for an imdb query already carries its
// own TVDbId from the same corpus row).
func tvdbCandidateIds(mappings []MappingEntry, source idparser.IdSource, value string) []int {
	seen := map[int]struct{}{}
	var ids []int
	add := func(id int) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if source == idparser.SourceTVDb {
		if n, err := strconv.Atoi(value); err == nil {
			add(n)
		}
	}
	for _, m := range mappings {
		if m.Ids.TVDbId != nil {
			add(*m.Ids.TVDbId)
		}
	}
	return ids
}

func mappingForAnimeListEntry(mappings []MappingEntry, ale AnimeListEntry) MappingEntry {
	for _, m := range mappings {
		if m.Ids.TVDbId != nil && ale.TVDbId != nil && *m.Ids.TVDbId == *ale.TVDbId {
			return m
		}
	}
	if len(mappings) > 0 {
		return mappings[0]
	}
	return MappingEntry{}
}

func idValueForSource(ids CrossRefIds, source idparser.IdSource) (string, bool) {
	switch source {
	case idparser.SourceMAL:
		return intPtrToStr(ids.MALId)
	case idparser.SourceAniList:
		return intPtrToStr(ids.AniListId)
	case idparser.SourceAniDB:
		return intPtrToStr(ids.AniDBId)
	case idparser.SourceKitsu:
		return intPtrToStr(ids.KitsuId)
	case idparser.SourceIMDb:
		return strPtrToStr(ids.IMDbId)
	case idparser.SourceTVDb:
		return intPtrToStr(ids.TVDbId)
	case idparser.SourceTMDb:
		return intPtrToStr(ids.TMDbId)
	case idparser.SourceAniSearch:
		return intPtrToStr(ids.AniSearchId)
	case idparser.SourceLiveChart:
		return intPtrToStr(ids.LiveChartId)
	case idparser.SourceAnimePlanet:
		return strPtrToStr(ids.AnimePlanetId)
	case idparser.SourceNotifyMoe:
		return strPtrToStr(ids.NotifyMoeId)
	case idparser.SourceSimkl:
		return intPtrToStr(ids.SimklId)
	default:
		return "", false
	}
}

func intPtrToStr(p *int) (string, bool) {
	if p == nil {
		return "", false
	}
	return strconv.Itoa(*p), true
}

func strPtrToStr(p *string) (string, bool) {
	if p == nil || *p == "" {
		return "", false
	}
	return *p, true
}

// idsForCoIndexLookup resolves the kitsu/mal/anidb ids needed for step
// 4, falling back to the query itself when no cross-reference mapping
// was found but the query source IS one of those catalogs directly —
// the "but see step 6" carve-out for a missing mapping.
func idsForCoIndexLookup(mapping *MappingEntry, source idparser.IdSource, value string) (kitsuId, malId, aniDBId *int) {
	if mapping != nil {
		kitsuId, malId, aniDBId = mapping.Ids.KitsuId, mapping.Ids.MALId, mapping.Ids.AniDBId
	}
	asInt, isNum := func() (int, bool) {
		n, err := strconv.Atoi(value)
		return n, err == nil
	}()
	if !isNum {
		return kitsuId, malId, aniDBId
	}
	if kitsuId == nil && source == idparser.SourceKitsu {
		kitsuId = &asInt
	}
	if malId == nil && source == idparser.SourceMAL {
		malId = &asInt
	}
	if aniDBId == nil && source == idparser.SourceAniDB {
		aniDBId = &asInt
	}
	return kitsuId, malId, aniDBId
}

// buildAnimeEntry layers every resolved source onto the merged view
// (§4.1 step 6).
func buildAnimeEntry(mapping *MappingEntry, details AnimeDetails, hasDetails bool, kitsu *KitsuImdbEntry, anitrakt *AnitraktEntry, animeList *AnimeListEntry) *AnimeEntry {
	e := &AnimeEntry{Type: TypeUnknown}

	if mapping != nil {
		e.Type = mapping.Type
	}
	if hasDetails {
		title := details.Title
		e.Title = &title
		e.Synonyms = details.Synonyms
		season := details.AnimeSeasonInfo
		e.AnimeSeasonInfo = &season
	}
	if animeList != nil {
		e.Mappings = animeList.Mappings
		e.EpisodeMappings = animeList.Mappings
	}

	// imdbId: mapping, then animeList, then kitsu, then anitrakt.
	if mapping != nil && mapping.Ids.IMDbId != nil {
		e.IMDbId = mapping.Ids.IMDbId
	} else if animeList != nil && animeList.IMDbId != nil {
		e.IMDbId = animeList.IMDbId
	} else if kitsu != nil && kitsu.IMDbId != nil {
		e.IMDbId = kitsu.IMDbId
	} else if anitrakt != nil && anitrakt.Externals.IMDb != nil {
		e.IMDbId = anitrakt.Externals.IMDb
	}

	// thetvdbId: animeList, then kitsu, then mapping, then anitrakt.
	if animeList != nil && animeList.TVDbId != nil {
		e.TVDbId = animeList.TVDbId
	} else if kitsu != nil && kitsu.TVDbId != nil {
		if n, err := strconv.Atoi(*kitsu.TVDbId); err == nil {
			e.TVDbId = &n
		}
	} else if mapping != nil && mapping.Ids.TVDbId != nil {
		e.TVDbId = mapping.Ids.TVDbId
	} else if anitrakt != nil && anitrakt.Externals.TVDb != nil {
		e.TVDbId = anitrakt.Externals.TVDb
	}

	// themoviedbId: mapping, then animeList, then anitrakt.
	if mapping != nil && mapping.Ids.TMDbId != nil {
		e.TMDbId = mapping.Ids.TMDbId
	} else if animeList != nil && animeList.TMDbId != nil {
		e.TMDbId = animeList.TMDbId
	} else if anitrakt != nil && anitrakt.Externals.TMDb != nil {
		e.TMDbId = anitrakt.Externals.TMDb
	}

	// traktId: mapping, then anitrakt.
	if mapping != nil && mapping.Ids.TraktId != nil {
		e.TraktId = mapping.Ids.TraktId
	} else if anitrakt != nil {
		id := anitrakt.Trakt.Id
		e.TraktId = &id
	}

	if mapping != nil {
		e.AniDBId = mapping.Ids.AniDBId
		e.AniListId = mapping.Ids.AniListId
		e.MALId = mapping.Ids.MALId
		e.KitsuId = mapping.Ids.KitsuId
	}
	if kitsu != nil && e.KitsuId == nil {
		id := kitsu.KitsuId
		e.KitsuId = &id
	}
	if anitrakt != nil && e.MALId == nil {
		id := anitrakt.MALId
		e.MALId = &id
	}

	// TVDb/TMDb season+offset: mapping's own season override first,
	// else the animeList entry (fromEpisode = offset + 1).
	if mapping != nil && mapping.TVDbSeason != nil {
		e.TVDb.SeasonNumber = mapping.TVDbSeason
	} else if animeList != nil {
		e.TVDb.SeasonNumber = animeList.DefaultTVDbSeason
		if animeList.EpisodeOffset != nil {
			fe := *animeList.EpisodeOffset + 1
			e.TVDb.FromEpisode = &fe
		}
	}
	if mapping != nil && mapping.TMDbSeason != nil {
		e.TMDb.SeasonNumber = mapping.TMDbSeason
	} else if animeList != nil {
		e.TMDb.SeasonNumber = animeList.TMDbSeason
		if animeList.TMDbOffset != nil {
			fe := *animeList.TMDbOffset + 1
			e.TMDb.FromEpisode = &fe
		}
	}

	if kitsu != nil {
		e.IMDb = &IMDbProjection{
			SeasonNumber:    kitsu.FromSeason,
			FromEpisode:     kitsu.FromEpisode,
			NonImdbEpisodes: kitsu.NonImdbEpisodes,
			Title:           kitsu.Title,
		}
		if kitsu.FanartLogoId != nil {
			e.Fanart = &FanartProjection{LogoId: *kitsu.FanartLogoId}
		}
	}

	if anitrakt != nil {
		trakt := &TraktProjection{
			Title:       anitrakt.Trakt.Title,
			Slug:        anitrakt.Trakt.Slug,
			IsSplitCour: anitrakt.Trakt.IsSplitCour,
		}
		if anitrakt.Trakt.Season != nil {
			id := anitrakt.Trakt.Season.Id
			num := anitrakt.Trakt.Season.Number
			trakt.SeasonId = &id
			trakt.SeasonNumber = &num
		}
		e.Trakt = trakt
	}

	return e
}
