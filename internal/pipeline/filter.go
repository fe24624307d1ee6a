package pipeline

import (
	"strconv"
	"strings"

	"github.com/example/streamweave/internal/expr"
)

// filterStreams applies exclusion/requirement/inclusion rules: quality
// and visual-tag deny-lists, title/year/season-episode matching, the
// digital-release filter, and expression-based excluded/required/
// included rules. Streams that fail any active rule are dropped; no
// rule raises on data shape, and nothing is logged, per §7's
// "filter/sort/dedup do not raise on data shape".
func filterStreams(streams []ParsedStream, u UserData, ctxFields map[string]any) []ParsedStream {
	excluded := compileExpressions(u.ExcludedStreamExpressions)
	required := compileExpressions(u.RequiredStreamExpressions)
	included := compileExpressions(u.IncludedStreamExpressions)

	out := make([]ParsedStream, 0, len(streams))
	for i := range streams {
		s := &streams[i]
		if !passesQualityAndTagFilters(s, u) {
			continue
		}
		if !passesMatching(s, u, ctxFields) {
			continue
		}

		fields := streamFields(s)
		evalCtx := expr.EvalContext{Stream: fields, Context: ctxFields}

		if anySelects(excluded, evalCtx) {
			continue
		}
		if !allSelect(required, evalCtx) {
			continue
		}
		if len(included) > 0 && !anySelects(included, evalCtx) {
			continue
		}

		out = append(out, *s)
	}
	return out
}

func passesQualityAndTagFilters(s *ParsedStream, u UserData) bool {
	if s.ParsedFile == nil {
		return true
	}
	if len(u.ExcludedQualities) > 0 && containsFold(u.ExcludedQualities, s.ParsedFile.Quality) {
		return false
	}
	for _, tag := range s.ParsedFile.VisualTags {
		if containsFold(u.ExcludedVisualTags, tag) {
			return false
		}
	}
	if u.DigitalReleaseFilter && isNonDigitalQuality(s.ParsedFile.Quality) {
		return false
	}
	return true
}

// nonDigitalQualities are telesync/cam-class releases the digital
// release filter excludes when enabled.
var nonDigitalQualities = map[string]bool{
	"cam": true, "ts": true, "telesync": true, "tc": true, "telecine": true, "scr": true, "screener": true,
}

func isNonDigitalQuality(quality string) bool {
	return nonDigitalQualities[strings.ToLower(quality)]
}

// passesMatching applies title/year/season-episode matching, comparing
// the stream's filename/folder name against the Context's resolved
// title/year/season/episode. A stream with nothing to compare against
// (context field absent) is never rejected by that rule — absence
// degrades to "not applicable", not "fails".
func passesMatching(s *ParsedStream, u UserData, ctxFields map[string]any) bool {
	haystack := strings.ToLower(s.Filename + " " + s.FolderName)

	if u.TitleMatching {
		if title, ok := ctxFields["title"].(string); ok && title != "" {
			if !strings.Contains(haystack, strings.ToLower(title)) {
				return false
			}
		}
	}
	if u.YearMatching {
		if year, ok := ctxFields["year"].(float64); ok && year != 0 {
			if !strings.Contains(haystack, strconv.Itoa(int(year))) {
				return false
			}
		}
	}
	if u.SeasonEpisodeMatching {
		season, hasSeason := ctxFields["season"].(float64)
		episode, hasEpisode := ctxFields["episode"].(float64)
		if hasSeason && hasEpisode {
			tag := strings.ToLower("s" + pad2(int(season)) + "e" + pad2(int(episode)))
			if !strings.Contains(haystack, tag) {
				return false
			}
		}
	}
	return true
}

func pad2(n int) string {
	s := strconv.Itoa(n)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

func compileExpressions(exprs []string) []*expr.Expr {
	out := make([]*expr.Expr, 0, len(exprs))
	for _, src := range exprs {
		compiled, err := expr.Compile(src)
		if err != nil {
			// ExpressionCompileError: treat as empty for this stage,
			// the pipeline continues (§7).
			continue
		}
		out = append(out, compiled)
	}
	return out
}

func anySelects(exprs []*expr.Expr, ctx expr.EvalContext) bool {
	for _, e := range exprs {
		if e.Eval(ctx) {
			return true
		}
	}
	return false
}

func allSelect(exprs []*expr.Expr, ctx expr.EvalContext) bool {
	for _, e := range exprs {
		if !e.Eval(ctx) {
			return false
		}
	}
	return true
}
