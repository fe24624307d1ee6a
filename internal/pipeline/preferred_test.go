package pipeline

import "testing"

func TestPrecomputePreferredKeywordMatch(t *testing.T) {
	streams := []ParsedStream{
		{ID: "a", Filename: "Movie.REMUX.2020.mkv"},
		{ID: "b", Filename: "Movie.WEBRip.2020.mkv"},
	}
	u := UserData{PreferredKeywords: []string{"remux"}}
	precomputePreferred(streams, u, nil)
	if !streams[0].KeywordMatched {
		t.Fatalf("expected REMUX filename to match preferred keyword")
	}
	if streams[1].KeywordMatched {
		t.Fatalf("expected WEBRip filename to not match preferred keyword")
	}
}

func TestPrecomputePreferredRegexFirstMatchWins(t *testing.T) {
	streams := []ParsedStream{{ID: "a", Filename: "Movie.2020.HDR.mkv"}}
	u := UserData{
		RegexAllowed: true,
		PreferredRegexPatterns: []RegexPatternConfig{
			{Name: "hdr", Pattern: "hdr"},
			{Name: "also-hdr", Pattern: "hdr"},
		},
	}
	precomputePreferred(streams, u, nil)
	if streams[0].RegexMatched == nil || streams[0].RegexMatched.Name != "hdr" {
		t.Fatalf("expected first configured pattern to win, got %+v", streams[0].RegexMatched)
	}
}

func TestPrecomputePreferredExpressionFirstMatchWinsNotDisplacedByThird(t *testing.T) {
	streams := []ParsedStream{{ID: "a", ParsedFile: &ParsedFile{Resolution: "1080p"}}}
	u := UserData{PreferredStreamExpressions: []string{
		`stream.resolution == "1080p"`,
		`stream.resolution == "720p"`,
		`stream.resolution == "1080p"`,
	}}
	precomputePreferred(streams, u, nil)
	if streams[0].StreamExpressionMatched == nil || *streams[0].StreamExpressionMatched != 0 {
		t.Fatalf("expected first matching expression index 0 to win, got %v", streams[0].StreamExpressionMatched)
	}
}
