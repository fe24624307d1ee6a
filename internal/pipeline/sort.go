package pipeline

import (
	"math"
	"sort"
)

var resolutionRank = map[string]int{
	"2160p": 9, "1440p": 8, "1080p": 7, "720p": 6, "576p": 5,
	"480p": 4, "360p": 3, "240p": 2, "144p": 1, "unknown": 0,
}

func resolutionOf(s *ParsedStream) string {
	if s.ParsedFile == nil || s.ParsedFile.Resolution == "" {
		return "unknown"
	}
	return s.ParsedFile.Resolution
}

// sortStreams stably orders streams by each configured key in turn;
// ties fall through to the next key, and streams tied on every key
// retain their relative order from the Fetcher (§4.3.4/§8).
func sortStreams(streams []ParsedStream, criteria SortCriteria) {
	if len(criteria.Global) == 0 {
		return
	}
	sort.SliceStable(streams, func(i, j int) bool {
		a, b := &streams[i], &streams[j]
		for _, c := range criteria.Global {
			cmp := compareByKey(a, b, c.Key)
			if cmp == 0 {
				continue
			}
			if c.Direction == SortDesc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

// compareByKey returns -1, 0, or 1 for a "less than, equal, greater
// than" ordering under a single key, in the direction that makes the
// "best" stream sort first when direction is desc.
func compareByKey(a, b *ParsedStream, key string) int {
	switch key {
	case "cached":
		return compareBool(a.Service != nil && a.Service.Cached, b.Service != nil && b.Service.Cached)
	case "resolution":
		return compareInt(resolutionRank[resolutionOf(a)], resolutionRank[resolutionOf(b)])
	case "library":
		return compareBool(a.Library, b.Library)
	case "regexPatterns":
		return compareInt(regexRank(a), regexRank(b))
	case "streamType":
		return compareString(string(a.Type), string(b.Type))
	case "visualTag":
		return compareString(firstTag(a, func(pf *ParsedFile) []string { return pf.VisualTags }), firstTag(b, func(pf *ParsedFile) []string { return pf.VisualTags }))
	case "audioTag":
		return compareString(firstTag(a, func(pf *ParsedFile) []string { return pf.AudioTags }), firstTag(b, func(pf *ParsedFile) []string { return pf.AudioTags }))
	case "audioChannel":
		return compareString(firstTag(a, func(pf *ParsedFile) []string { return pf.AudioChannels }), firstTag(b, func(pf *ParsedFile) []string { return pf.AudioChannels }))
	case "encode":
		encA, encB := "", ""
		if a.ParsedFile != nil {
			encA = a.ParsedFile.Encode
		}
		if b.ParsedFile != nil {
			encB = b.ParsedFile.Encode
		}
		return compareString(encA, encB)
	case "language":
		return compareString(firstTag(a, func(pf *ParsedFile) []string { return pf.Languages }), firstTag(b, func(pf *ParsedFile) []string { return pf.Languages }))
	case "size":
		return compareInt64(a.Size, b.Size)
	default:
		return 0
	}
}

// regexRank turns a regexMatched index into a value where higher is
// always better: a lower index outranks a higher one, and any match
// outranks no match at all, matching "lower index wins on desc".
func regexRank(s *ParsedStream) int {
	if s.RegexMatched == nil {
		return math.MinInt32
	}
	return -s.RegexMatched.Index
}

func firstTag(s *ParsedStream, get func(*ParsedFile) []string) string {
	if s.ParsedFile == nil {
		return ""
	}
	tags := get(s.ParsedFile)
	if len(tags) == 0 {
		return ""
	}
	return tags[0]
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if a {
		return 1
	}
	return -1
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
