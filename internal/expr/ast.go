package expr

// node is a compiled expression term. Evaluation never returns an
// error for a missing field — absent data resolves to a nil value,
// per the "explicit null/absent rather than runtime errors" design.
// An error return is reserved for something that should never happen
// given a successfully compiled expression (an unknown function name
// slipping past compilation, for instance).
type node interface {
	eval(ctx EvalContext) (any, error)
}

type orNode struct{ left, right node }

func (n *orNode) eval(ctx EvalContext) (any, error) {
	l, err := n.left.eval(ctx)
	if err != nil {
		return nil, err
	}
	if lb, _ := asBool(l); lb {
		return true, nil
	}
	r, err := n.right.eval(ctx)
	if err != nil {
		return nil, err
	}
	rb, _ := asBool(r)
	return rb, nil
}

type andNode struct{ left, right node }

func (n *andNode) eval(ctx EvalContext) (any, error) {
	l, err := n.left.eval(ctx)
	if err != nil {
		return nil, err
	}
	if lb, _ := asBool(l); !lb {
		return false, nil
	}
	r, err := n.right.eval(ctx)
	if err != nil {
		return nil, err
	}
	rb, _ := asBool(r)
	return rb, nil
}

type notNode struct{ operand node }

func (n *notNode) eval(ctx EvalContext) (any, error) {
	v, err := n.operand.eval(ctx)
	if err != nil {
		return nil, err
	}
	b, _ := asBool(v)
	return !b, nil
}

type compareNode struct {
	op          string
	left, right node
}

func (n *compareNode) eval(ctx EvalContext) (any, error) {
	l, err := n.left.eval(ctx)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(ctx)
	if err != nil {
		return nil, err
	}
	return compareValues(n.op, l, r), nil
}

type fieldNode struct{ path []string }

func (n *fieldNode) eval(ctx EvalContext) (any, error) {
	if len(n.path) == 0 {
		return nil, nil
	}
	if n.path[0] == "stream" {
		return lookupPath(ctx.Stream, n.path[1:]), nil
	}
	return lookupPath(ctx.Context, n.path), nil
}

type literalNode struct{ value any }

func (n *literalNode) eval(EvalContext) (any, error) { return n.value, nil }

type listNode struct{ items []node }

func (n *listNode) eval(ctx EvalContext) (any, error) {
	out := make([]any, 0, len(n.items))
	for _, it := range n.items {
		v, err := it.eval(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// callNode implements the zero/one-argument predicate functions:
// seadex(), exists(field), istrue(field), isfalse(field).
type callNode struct {
	name string
	args []node
}

func (n *callNode) eval(ctx EvalContext) (any, error) {
	switch n.name {
	case "seadex":
		v := lookupPath(ctx.Stream, []string{"seadex", "isSeadex"})
		b, _ := asBool(v)
		return b, nil
	case "exists":
		if len(n.args) != 1 {
			return false, nil
		}
		v, err := n.args[0].eval(ctx)
		if err != nil {
			return nil, err
		}
		return v != nil, nil
	case "istrue":
		if len(n.args) != 1 {
			return false, nil
		}
		v, err := n.args[0].eval(ctx)
		if err != nil {
			return nil, err
		}
		b, ok := asBool(v)
		return ok && b, nil
	case "isfalse":
		if len(n.args) != 1 {
			return false, nil
		}
		v, err := n.args[0].eval(ctx)
		if err != nil {
			return nil, err
		}
		b, ok := asBool(v)
		return ok && !b, nil
	default:
		return false, nil
	}
}

func lookupPath(root map[string]any, path []string) any {
	var cur any = root
	for _, p := range path {
		m, ok := cur.(map[string]any)
		if !ok || m == nil {
			return nil
		}
		cur = m[p]
	}
	return cur
}
