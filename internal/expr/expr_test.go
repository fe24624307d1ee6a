package expr

import "testing"

func mustCompile(t *testing.T, src string) *Expr {
	t.Helper()
	e, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return e
}

func TestEqualityAndComparison(t *testing.T) {
	e := mustCompile(t, "stream.resolution == '1080p'")
	ctx := EvalContext{Stream: map[string]any{"resolution": "1080p"}}
	if !e.Eval(ctx) {
		t.Fatal("expected match")
	}
	ctx.Stream["resolution"] = "720p"
	if e.Eval(ctx) {
		t.Fatal("expected no match")
	}
}

func TestNumericComparison(t *testing.T) {
	e := mustCompile(t, "stream.size > 1000")
	if !e.Eval(EvalContext{Stream: map[string]any{"size": float64(2000)}}) {
		t.Fatal("expected 2000 > 1000")
	}
	if e.Eval(EvalContext{Stream: map[string]any{"size": float64(500)}}) {
		t.Fatal("expected 500 not > 1000")
	}
}

func TestAndOrNotPrecedence(t *testing.T) {
	e := mustCompile(t, "not stream.cached and stream.resolution == '1080p' or stream.resolution == '2160p'")
	cases := []struct {
		stream map[string]any
		want   bool
	}{
		{map[string]any{"cached": false, "resolution": "1080p"}, true},
		{map[string]any{"cached": true, "resolution": "1080p"}, false},
		{map[string]any{"cached": true, "resolution": "2160p"}, true},
	}
	for i, c := range cases {
		if got := e.Eval(EvalContext{Stream: c.stream}); got != c.want {
			t.Errorf("case %d: got %v, want %v", i, got, c.want)
		}
	}
}

func TestSeadexPredicate(t *testing.T) {
	e := mustCompile(t, "seadex()")
	if !e.Eval(EvalContext{Stream: map[string]any{"seadex": map[string]any{"isSeadex": true}}}) {
		t.Fatal("expected seadex() true")
	}
	if e.Eval(EvalContext{Stream: map[string]any{}}) {
		t.Fatal("expected seadex() false when absent")
	}
}

func TestExistsIstrueIsfalse(t *testing.T) {
	e := mustCompile(t, "exists(stream.torrent.infoHash)")
	if !e.Eval(EvalContext{Stream: map[string]any{"torrent": map[string]any{"infoHash": "abc"}}}) {
		t.Fatal("expected exists true")
	}
	if e.Eval(EvalContext{Stream: map[string]any{}}) {
		t.Fatal("expected exists false on absent field")
	}

	e2 := mustCompile(t, "istrue(stream.library)")
	if !e2.Eval(EvalContext{Stream: map[string]any{"library": true}}) {
		t.Fatal("expected istrue true")
	}

	e3 := mustCompile(t, "isfalse(stream.library)")
	if !e3.Eval(EvalContext{Stream: map[string]any{"library": false}}) {
		t.Fatal("expected isfalse true")
	}
}

func TestContainsAndIn(t *testing.T) {
	e := mustCompile(t, "stream.filename contains 'BluRay'")
	if !e.Eval(EvalContext{Stream: map[string]any{"filename": "Movie.2020.BluRay.1080p"}}) {
		t.Fatal("expected substring match")
	}

	e2 := mustCompile(t, "stream.resolution in ['1080p', '2160p']")
	if !e2.Eval(EvalContext{Stream: map[string]any{"resolution": "2160p"}}) {
		t.Fatal("expected membership match")
	}
	if e2.Eval(EvalContext{Stream: map[string]any{"resolution": "480p"}}) {
		t.Fatal("expected no membership match")
	}
}

func TestContextFieldBareName(t *testing.T) {
	e := mustCompile(t, "year > 2000 and isAnime")
	ctx := EvalContext{Context: map[string]any{"year": float64(2020), "isAnime": true}}
	if !e.Eval(ctx) {
		t.Fatal("expected match against context fields")
	}
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	e := mustCompile(t, "stream.cached and (stream.resolution == '720p' or stream.resolution == '1080p')")
	if !e.Eval(EvalContext{Stream: map[string]any{"cached": true, "resolution": "1080p"}}) {
		t.Fatal("expected match")
	}
	if e.Eval(EvalContext{Stream: map[string]any{"cached": false, "resolution": "1080p"}}) {
		t.Fatal("expected no match when cached is false")
	}
}

func TestCompileErrorCarriesExpression(t *testing.T) {
	_, err := Compile("stream.resolution ===")
	if err == nil {
		t.Fatal("expected a compile error")
	}
	ce, ok := err.(*CompileError)
	if !ok {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if ce.Expression != "stream.resolution ===" {
		t.Fatalf("unexpected expression field: %q", ce.Expression)
	}
}

func TestSelectFiltersStreams(t *testing.T) {
	e := mustCompile(t, "stream.resolution == '2160p'")
	streams := []map[string]any{
		{"resolution": "2160p"},
		{"resolution": "1080p"},
		{"resolution": "2160p"},
	}
	got := Select(streams, nil, e)
	if len(got) != 2 {
		t.Fatalf("expected 2 selected streams, got %d", len(got))
	}
}
