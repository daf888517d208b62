package expr

import "fmt"

// RowGetter is the minimal row accessor Eval needs. table.Row implements
// this so a materialized frame can apply a predicate without going back to
// SQL.
type RowGetter interface {
	Get(col string) (interface{}, bool)
}

// Eval evaluates e against row, returning the domain-indicator-style
// boolean. A column that is absent from row evaluates any comparison
// involving it to false (never an error) — callers that need strict
// column validation should instead pass availableColumns to Parse.
func Eval(e Expr, row RowGetter) (bool, error) {
	switch v := e.(type) {
	case Cmp:
		lhs, lok := evalScalar(v.LHS, row)
		rhs, rok := evalScalar(v.RHS, row)
		if !lok || !rhs2ok(rok) {
			return false, nil
		}
		return compare(v.Op, lhs, rhs)
	case And:
		for _, t := range v.Terms {
			ok, err := Eval(t, row)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case Or:
		for _, t := range v.Terms {
			ok, err := Eval(t, row)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case Not:
		ok, err := Eval(v.X, row)
		if err != nil {
			return false, err
		}
		return !ok, nil
	case In:
		val, ok := row.Get(v.Col.Name)
		if !ok || val == nil {
			return false, nil
		}
		found := false
		for _, lit := range v.Values {
			eq, err := compare(Eq, val, literalParam(lit))
			if err != nil {
				continue
			}
			if eq {
				found = true
				break
			}
		}
		if v.Negate {
			return !found, nil
		}
		return found, nil
	case Between:
		val, ok := row.Get(v.Col.Name)
		if !ok || val == nil {
			return false, nil
		}
		geLow, err := compare(Ge, val, literalParam(v.Low))
		if err != nil {
			return false, nil
		}
		leHigh, err := compare(Le, val, literalParam(v.High))
		if err != nil {
			return false, nil
		}
		return geLow && leHigh, nil
	case IsNull:
		val, ok := row.Get(v.Col.Name)
		isNull := !ok || val == nil
		if v.Negate {
			return !isNull, nil
		}
		return isNull, nil
	default:
		return false, fmt.Errorf("expr: %T is not a boolean predicate", e)
	}
}

func rhs2ok(ok bool) bool { return ok }

func evalScalar(e Expr, row RowGetter) (interface{}, bool) {
	switch v := e.(type) {
	case Column:
		val, ok := row.Get(v.Name)
		return val, ok
	case Literal:
		return literalParam(v), true
	default:
		return nil, false
	}
}

func compare(op Op, lhs, rhs interface{}) (bool, error) {
	if lhs == nil || rhs == nil {
		return false, nil
	}
	lf, lok := toFloat(lhs)
	rf, rok := toFloat(rhs)
	if lok && rok {
		return compareFloat(op, lf, rf), nil
	}
	ls := fmt.Sprintf("%v", lhs)
	rs := fmt.Sprintf("%v", rhs)
	return compareString(op, ls, rs), nil
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func compareFloat(op Op, l, r float64) bool {
	switch op {
	case Eq:
		return l == r
	case Ne:
		return l != r
	case Lt:
		return l < r
	case Le:
		return l <= r
	case Gt:
		return l > r
	case Ge:
		return l >= r
	}
	return false
}

func compareString(op Op, l, r string) bool {
	switch op {
	case Eq:
		return l == r
	case Ne:
		return l != r
	case Lt:
		return l < r
	case Le:
		return l <= r
	case Gt:
		return l > r
	case Ge:
		return l >= r
	}
	return false
}
