package pipeline

import "strings"

// streamFields projects a ParsedStream into the flat field map the
// Expression Engine evaluates "stream.<field>" paths against.
func streamFields(s *ParsedStream) map[string]any {
	m := map[string]any{
		"id":         s.ID,
		"filename":   s.Filename,
		"folderName": s.FolderName,
		"indexer":    s.Indexer,
		"size":       float64(s.Size),
		"folderSize": float64(s.FolderSize),
		"type":       string(s.Type),
		"library":    s.Library,
		"proxied":    s.Proxied,
		"private":    s.Private,
		"cached":     s.Service != nil && s.Service.Cached,
	}

	if s.ParsedFile != nil {
		m["resolution"] = s.ParsedFile.Resolution
		m["quality"] = s.ParsedFile.Quality
		m["encode"] = s.ParsedFile.Encode
		m["releaseGroup"] = s.ParsedFile.ReleaseGroup
		m["visualTags"] = toAnySlice(s.ParsedFile.VisualTags)
		m["audioTags"] = toAnySlice(s.ParsedFile.AudioTags)
		m["audioChannels"] = toAnySlice(s.ParsedFile.AudioChannels)
		m["languages"] = toAnySlice(s.ParsedFile.Languages)
	}

	if s.Torrent != nil {
		torrent := map[string]any{}
		if s.Torrent.InfoHash != "" {
			torrent["infoHash"] = s.Torrent.InfoHash
		}
		if s.Torrent.Seeders != nil {
			torrent["seeders"] = float64(*s.Torrent.Seeders)
		}
		m["torrent"] = torrent
	}

	if s.Service != nil {
		m["service"] = map[string]any{
			"id":        s.Service.ID,
			"shortName": s.Service.ShortName,
			"cached":    s.Service.Cached,
		}
	}

	if s.SeaDex != nil {
		m["seadex"] = map[string]any{"isBest": s.SeaDex.IsBest, "isSeadex": s.SeaDex.IsSeadex}
	}

	return m
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func containsFold(list []string, value string) bool {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}
