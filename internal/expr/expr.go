// Package expr compiles and evaluates the user-facing expression
// language: predicates over stream fields (stream.<field>) and bare
// context fields, used for inclusion/exclusion filtering and ranking
// scores. No expression/rule-evaluation library exists anywhere in
// the retrieval corpus, so this is a small hand-written
// lexer/recursive-descent parser/evaluator on top of text/scanner.
package expr

import "fmt"

// Expr is a compiled expression, ready for repeated evaluation against
// different stream/context pairs.
type Expr struct {
	root   node
	Source string
}

// EvalContext pairs a single stream's field map with the request's
// expression-context field map (§4.2's toExpressionContext()
// projection).
type EvalContext struct {
	Stream  map[string]any
	Context map[string]any
}

// CompileError is raised when an expression fails to parse; it always
// carries the offending expression string.
type CompileError struct {
	Expression string
	Err        error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("expr: compile %q: %v", e.Expression, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Compile parses source into an evaluable Expr.
func Compile(source string) (*Expr, error) {
	toks, err := tokenize(source)
	if err != nil {
		return nil, &CompileError{Expression: source, Err: err}
	}
	p := &parser{toks: toks}
	root, err := p.parseOr()
	if err != nil {
		return nil, &CompileError{Expression: source, Err: err}
	}
	if p.cur().kind != tokEOF {
		return nil, &CompileError{Expression: source, Err: fmt.Errorf("unexpected trailing input %q", p.cur().text)}
	}
	return &Expr{root: root, Source: source}, nil
}

// Eval evaluates the predicate against a stream/context pair.
// Evaluation is deterministic and side-effect-free by construction:
// every node is a pure function of its inputs.
func (e *Expr) Eval(ctx EvalContext) bool {
	v, err := e.root.eval(ctx)
	if err != nil {
		return false
	}
	b, _ := asBool(v)
	return b
}

// Select returns the subset of streams whose field maps satisfy e,
// evaluated against a shared context.
func Select(streams []map[string]any, ctxFields map[string]any, e *Expr) []map[string]any {
	var out []map[string]any
	for _, s := range streams {
		if e.Eval(EvalContext{Stream: s, Context: ctxFields}) {
			out = append(out, s)
		}
	}
	return out
}
