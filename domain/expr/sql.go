package expr

import "strings"

// Render compiles e into a parameterized SQL fragment using "?"
// placeholders, returning the fragment and the ordered parameter values.
// Column names are emitted verbatim (never as a placeholder) since SQL
// does not allow parameterizing identifiers; Parse's forbidden-token and
// tokenizer rules are what keep a Column from ever containing injected
// SQL.
func Render(e Expr) (string, []interface{}) {
	var sb strings.Builder
	var params []interface{}
	render(e, &sb, &params)
	return sb.String(), params
}

func render(e Expr, sb *strings.Builder, params *[]interface{}) {
	switch v := e.(type) {
	case Column:
		sb.WriteString(v.Name)
	case Literal:
		switch v.Kind {
		case NullLiteral:
			sb.WriteString("NULL")
		case NumberLiteral:
			sb.WriteString("?")
			*params = append(*params, v.Num)
		default:
			sb.WriteString("?")
			*params = append(*params, v.Text)
		}
	case Cmp:
		sb.WriteString("(")
		render(v.LHS, sb, params)
		sb.WriteString(" " + string(v.Op) + " ")
		render(v.RHS, sb, params)
		sb.WriteString(")")
	case And:
		renderJoined(v.Terms, " AND ", sb, params)
	case Or:
		renderJoined(v.Terms, " OR ", sb, params)
	case Not:
		sb.WriteString("NOT (")
		render(v.X, sb, params)
		sb.WriteString(")")
	case In:
		sb.WriteString(v.Col.Name)
		if v.Negate {
			sb.WriteString(" NOT IN (")
		} else {
			sb.WriteString(" IN (")
		}
		for i, lit := range v.Values {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("?")
			*params = append(*params, literalParam(lit))
		}
		sb.WriteString(")")
	case Between:
		sb.WriteString(v.Col.Name)
		sb.WriteString(" BETWEEN ? AND ?")
		*params = append(*params, literalParam(v.Low), literalParam(v.High))
	case IsNull:
		sb.WriteString(v.Col.Name)
		if v.Negate {
			sb.WriteString(" IS NOT NULL")
		} else {
			sb.WriteString(" IS NULL")
		}
	}
}

func renderJoined(terms []Expr, sep string, sb *strings.Builder, params *[]interface{}) {
	sb.WriteString("(")
	for i, t := range terms {
		if i > 0 {
			sb.WriteString(sep)
		}
		render(t, sb, params)
	}
	sb.WriteString(")")
}

func literalParam(l Literal) interface{} {
	switch l.Kind {
	case NumberLiteral:
		return l.Num
	case TextLiteral:
		return l.Text
	default:
		return nil
	}
}
