package pipeline

import "github.com/example/streamweave/internal/expr"

// precomputeRanked evaluates every ranked expression against every
// surviving stream, adding its score to each selected stream's running
// total (§4.3.2). A stream no ranked expression touches keeps a nil
// score (distinct from zero: "not evaluated").
func precomputeRanked(streams []ParsedStream, u UserData, ctxFields map[string]any) {
	if len(u.RankedStreamExpressions) == 0 {
		return
	}
	type compiledRank struct {
		e     *expr.Expr
		score float64
	}
	compiled := make([]compiledRank, 0, len(u.RankedStreamExpressions))
	for _, r := range u.RankedStreamExpressions {
		e, err := expr.Compile(r.Expression)
		if err != nil {
			continue
		}
		compiled = append(compiled, compiledRank{e: e, score: r.Score})
	}

	for i := range streams {
		s := &streams[i]
		fields := streamFields(s)
		evalCtx := expr.EvalContext{Stream: fields, Context: ctxFields}
		for _, r := range compiled {
			if !r.e.Eval(evalCtx) {
				continue
			}
			if s.StreamExpressionScore == nil {
				total := r.score
				s.StreamExpressionScore = &total
			} else {
				*s.StreamExpressionScore += r.score
			}
		}
	}
}
