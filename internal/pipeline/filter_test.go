package pipeline

import "testing"

func TestFilterStreamsDropsExcludedQuality(t *testing.T) {
	streams := []ParsedStream{
		{ID: "cam", ParsedFile: &ParsedFile{Quality: "CAM"}},
		{ID: "web", ParsedFile: &ParsedFile{Quality: "WEB-DL"}},
	}
	u := UserData{ExcludedQualities: []string{"cam"}}
	out := filterStreams(streams, u, nil)
	if len(out) != 1 || out[0].ID != "web" {
		t.Fatalf("expected cam excluded, got %+v", out)
	}
}

func TestFilterStreamsExcludedExpressionDrops(t *testing.T) {
	streams := []ParsedStream{
		{ID: "a", ParsedFile: &ParsedFile{Quality: "CAM"}},
		{ID: "b", ParsedFile: &ParsedFile{Quality: "WEB-DL"}},
	}
	u := UserData{ExcludedStreamExpressions: []string{`stream.quality == "CAM"`}, RegexAllowed: true}
	out := filterStreams(streams, u, nil)
	if len(out) != 1 || out[0].ID != "b" {
		t.Fatalf("expected excluded expression to drop CAM stream, got %+v", out)
	}
}

func TestFilterStreamsRequiredExpressionMustAllPass(t *testing.T) {
	streams := []ParsedStream{
		{ID: "a", ParsedFile: &ParsedFile{Resolution: "1080p"}},
		{ID: "b", ParsedFile: &ParsedFile{Resolution: "720p"}},
	}
	u := UserData{RequiredStreamExpressions: []string{`stream.resolution == "1080p"`}}
	out := filterStreams(streams, u, nil)
	if len(out) != 1 || out[0].ID != "a" {
		t.Fatalf("expected only the 1080p stream to pass required expression, got %+v", out)
	}
}

func TestFilterStreamsIncludedExpressionAtLeastOneMustMatch(t *testing.T) {
	streams := []ParsedStream{
		{ID: "a", ParsedFile: &ParsedFile{Resolution: "1080p"}},
		{ID: "b", ParsedFile: &ParsedFile{Resolution: "480p"}},
	}
	u := UserData{IncludedStreamExpressions: []string{
		`stream.resolution == "1080p"`,
		`stream.resolution == "2160p"`,
	}}
	out := filterStreams(streams, u, nil)
	if len(out) != 1 || out[0].ID != "a" {
		t.Fatalf("expected only the matching included-expression stream to pass, got %+v", out)
	}
}

func TestFilterStreamsDigitalReleaseFilterExcludesCam(t *testing.T) {
	streams := []ParsedStream{
		{ID: "cam", ParsedFile: &ParsedFile{Quality: "cam"}},
		{ID: "web", ParsedFile: &ParsedFile{Quality: "web-dl"}},
	}
	u := UserData{DigitalReleaseFilter: true}
	out := filterStreams(streams, u, nil)
	if len(out) != 1 || out[0].ID != "web" {
		t.Fatalf("expected digital release filter to drop cam, got %+v", out)
	}
}

func TestFilterStreamsTitleMatchingIgnoresAbsentContext(t *testing.T) {
	streams := []ParsedStream{{ID: "a", Filename: "Some.Movie.2020.mkv"}}
	u := UserData{TitleMatching: true}
	out := filterStreams(streams, u, map[string]any{})
	if len(out) != 1 {
		t.Fatalf("expected title matching to no-op when context has no title, got %+v", out)
	}
}

func TestFilterStreamsTitleMatchingRejectsMismatch(t *testing.T) {
	streams := []ParsedStream{{ID: "a", Filename: "Unrelated.File.mkv"}}
	u := UserData{TitleMatching: true}
	out := filterStreams(streams, u, map[string]any{"title": "Some Movie"})
	if len(out) != 0 {
		t.Fatalf("expected title mismatch to drop the stream, got %+v", out)
	}
}
