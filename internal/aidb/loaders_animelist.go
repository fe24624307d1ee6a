package aidb

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// animeListDoc matches the Fribb/anime-lists XML shape: a flat
// <anime-list> of <anime> elements, attributes carrying the scalar ids
// and an optional nested <mapping-list> of per-season overrides.
type animeListDoc struct {
	XMLName xml.Name       `xml:"anime-list"`
	Animes  []animeListXML `xml:"anime"`
}

type animeListXML struct {
	AniDBId           string            `xml:"anidbid,attr"`
	TVDbId            string            `xml:"tvdbid,attr"`
	DefaultTVDbSeason string            `xml:"defaulttvdbseason,attr"`
	EpisodeOffset     string            `xml:"episodeoffset,attr"`
	TMDbId            string            `xml:"tmdbid,attr"`
	TMDbTv            string            `xml:"tmdbtv,attr"`
	TMDbSeason        string            `xml:"tmdbseason,attr"`
	TMDbOffset        string            `xml:"tmdboffset,attr"`
	IMDbId            string            `xml:"imdbid,attr"`
	MappingList       *animeListMapList `xml:"mapping-list"`
}

type animeListMapList struct {
	Mappings []animeListMappingXML `xml:"mapping"`
}

type animeListMappingXML struct {
	AniDBSeason string `xml:"anidbseason,attr"`
	TVDbSeason  string `xml:"tvdbseason,attr"`
	TMDbSeason  string `xml:"tmdbseason,attr"`
	Start       string `xml:"start,attr"`
	End         string `xml:"end,attr"`
	Offset      string `xml:"offset,attr"`
	Episodes    string `xml:",chardata"`
}

// loadAnimeList parses the XML master list. mapping-list is parsed only
// when parseMappings is true ("only when detail level is full", §6).
// An unparseable optional attribute is dropped silently at the
// attribute level — a row with an unparseable tvdbid still contributes
// its anidbid, for instance — the row itself is only dropped (counted
// and warned about) if it lacks a valid anidbid.
func loadAnimeList(data []byte, parseMappings bool, log *zap.Logger) (*animeListIndex, error) {
	var doc animeListDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("aidb: anime-list decode: %w", err)
	}

	idx := newAnimeListIndex()
	skipped := 0
	for _, a := range doc.Animes {
		anidbId, err := strconv.Atoi(strings.TrimSpace(a.AniDBId))
		if err != nil {
			skipped++
			continue
		}

		entry := AnimeListEntry{AniDBId: anidbId}
		entry.TVDbId = parseOptionalInt(a.TVDbId)
		entry.EpisodeOffset = parseOptionalInt(a.EpisodeOffset)
		entry.TMDbId = parseOptionalInt(a.TMDbId)
		entry.TMDbSeason = parseOptionalInt(a.TMDbSeason)
		if tv := strings.TrimSpace(a.TMDbTv); tv != "" {
			b := tv == "1" || strings.EqualFold(tv, "true")
			entry.TMDbTv = &b
		}
		entry.IMDbId = parseOptionalString(a.IMDbId)

		if raw := strings.TrimSpace(a.DefaultTVDbSeason); raw != "" {
			if strings.EqualFold(raw, "a") {
				entry.AbsoluteTVDbSeason = true
			} else if n, err := strconv.Atoi(raw); err == nil {
				entry.DefaultTVDbSeason = &n
			}
		}

		if parseMappings && a.MappingList != nil {
			for _, m := range a.MappingList.Mappings {
				aniSeason, err := strconv.Atoi(strings.TrimSpace(m.AniDBSeason))
				if err != nil {
					continue
				}
				entry.Mappings = append(entry.Mappings, AnimeListMapping{
					AniDBSeason: aniSeason,
					TVDbSeason:  parseOptionalInt(m.TVDbSeason),
					TMDbSeason:  parseOptionalInt(m.TMDbSeason),
					Start:       parseOptionalInt(m.Start),
					End:         parseOptionalInt(m.End),
					Offset:      parseOptionalInt(m.Offset),
					Episodes:    parseOptionalString(m.Episodes),
				})
			}
		}

		idx.byAniDBId[anidbId] = entry
		if entry.TVDbId != nil {
			idx.byTVDbId[*entry.TVDbId] = append(idx.byTVDbId[*entry.TVDbId], entry)
		}
	}
	if skipped > 0 {
		log.Warn("aidb: anime-list rows skipped (missing/invalid anidbid)", zap.Int("count", skipped))
	}
	return idx, nil
}

func parseOptionalInt(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func parseOptionalString(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}
