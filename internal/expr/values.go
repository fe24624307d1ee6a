package expr

import "strings"

func asBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case nil:
		return false, false
	default:
		// Any other present value is truthy, including 0 and the
		// empty string.
		return true, true
	}
}

func asFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// compareValues implements the comparison and containment operators.
// A type mismatch (e.g. comparing a string to a number) resolves to
// false rather than erroring, consistent with the rest of the
// engine's absent-is-false semantics.
func compareValues(op string, l, r any) bool {
	switch op {
	case "==":
		return valuesEqual(l, r)
	case "!=":
		return !valuesEqual(l, r)
	case "<", "<=", ">", ">=":
		lf, lok := asFloat64(l)
		rf, rok := asFloat64(r)
		if lok && rok {
			switch op {
			case "<":
				return lf < rf
			case "<=":
				return lf <= rf
			case ">":
				return lf > rf
			case ">=":
				return lf >= rf
			}
		}
		ls, lsok := asString(l)
		rs, rsok := asString(r)
		if lsok && rsok {
			switch op {
			case "<":
				return ls < rs
			case "<=":
				return ls <= rs
			case ">":
				return ls > rs
			case ">=":
				return ls >= rs
			}
		}
		return false
	case "contains":
		if ls, ok := asString(l); ok {
			if rs, ok := asString(r); ok {
				return strings.Contains(strings.ToLower(ls), strings.ToLower(rs))
			}
		}
		if list, ok := asList(l); ok {
			for _, item := range list {
				if valuesEqual(item, r) {
					return true
				}
			}
		}
		return false
	case "in":
		list, ok := asList(r)
		if !ok {
			return false
		}
		for _, item := range list {
			if valuesEqual(item, l) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func valuesEqual(l, r any) bool {
	if l == nil || r == nil {
		return l == nil && r == nil
	}
	if lf, lok := asFloat64(l); lok {
		if rf, rok := asFloat64(r); rok {
			return lf == rf
		}
	}
	if ls, lok := asString(l); lok {
		if rs, rok := asString(r); rok {
			return strings.EqualFold(ls, rs)
		}
	}
	if lb, lok := l.(bool); lok {
		if rb, rok := r.(bool); rok {
			return lb == rb
		}
	}
	return l == r
}
