package pipeline

import (
	"regexp"

	"github.com/example/streamweave/internal/expr"
)

// precomputePreferred annotates keywordMatched, regexMatched, and
// streamExpressionMatched on every surviving stream (§4.3.1).
func precomputePreferred(streams []ParsedStream, u UserData, ctxFields map[string]any) {
	keywordRe := compileUserPattern("__keyword__", buildKeywordPattern(u.PreferredKeywords), len(u.PreferredKeywords) > 0)
	patterns := make([]compiledPattern, 0, len(u.PreferredRegexPatterns))
	for _, p := range u.PreferredRegexPatterns {
		patterns = append(patterns, compileUserPattern(p.Name, p.Pattern, u.RegexAllowed))
	}
	expressions := compileExpressions(u.PreferredStreamExpressions)

	for i := range streams {
		s := &streams[i]
		candidates := streamMatchCandidates(s)

		if len(u.PreferredKeywords) > 0 && keywordRe.matches(candidates...) {
			s.KeywordMatched = true
		}

		for idx, p := range patterns {
			if p.matches(candidates...) {
				s.RegexMatched = &RegexMatch{Name: p.Name, Pattern: p.Source, Index: idx}
				break
			}
		}

		if len(expressions) > 0 {
			fields := streamFields(s)
			evalCtx := expr.EvalContext{Stream: fields, Context: ctxFields}
			for idx, e := range expressions {
				if e.Eval(evalCtx) {
					matched := idx
					s.StreamExpressionMatched = &matched
					break
				}
			}
		}
	}
}

// buildKeywordPattern turns a flat keyword list into a single
// alternation regex, so the preferred-keyword check reuses the same
// compiledPattern matcher as named regex patterns.
func buildKeywordPattern(keywords []string) string {
	if len(keywords) == 0 {
		return ""
	}
	out := ""
	for i, k := range keywords {
		if i > 0 {
			out += "|"
		}
		out += regexp.QuoteMeta(k)
	}
	return out
}
