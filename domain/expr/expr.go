// Package expr implements the tagged-variant predicate representation used
// for user-supplied domain expressions (tree_domain, area_domain,
// plot_domain). A single Expr tree renders to two targets: a parameterized
// SQL fragment (for push-down) and an in-memory evaluator (for frames that
// have already been materialized). Sharing one representation between both
// frontends removes the runtime string re-parsing the original Python
// implementation relied on (spec.md §9, "Dynamic-typed domain expressions").
package expr

import "fmt"

// Op is a comparison operator.
type Op string

const (
	Eq  Op = "="
	Ne  Op = "!="
	Lt  Op = "<"
	Le  Op = "<="
	Gt  Op = ">"
	Ge  Op = ">="
)

// Expr is the tagged variant every parsed predicate compiles to.
// Concrete cases: Column, Literal, Cmp, And, Or, Not, In, Between, IsNull.
type Expr interface {
	expr()
	// String renders the expression as a debug/log form; it is not used
	// for SQL push-down (see Render in sql.go).
	String() string
}

// Column references a row field by name.
type Column struct {
	Name string
}

func (Column) expr() {}
func (c Column) String() string { return c.Name }

// LiteralKind distinguishes the two literal value domains the parser
// accepts.
type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	TextLiteral
	NullLiteral
)

// Literal is a numeric, text, or NULL constant.
type Literal struct {
	Kind LiteralKind
	Num  float64
	Text string
}

func (Literal) expr() {}
func (l Literal) String() string {
	switch l.Kind {
	case NumberLiteral:
		return fmt.Sprintf("%v", l.Num)
	case TextLiteral:
		return fmt.Sprintf("%q", l.Text)
	default:
		return "NULL"
	}
}

// Cmp is a binary comparison lhs OP rhs.
type Cmp struct {
	Op  Op
	LHS Expr
	RHS Expr
}

func (Cmp) expr() {}
func (c Cmp) String() string { return fmt.Sprintf("(%s %s %s)", c.LHS, c.Op, c.RHS) }

// And is a conjunction of two or more expressions.
type And struct{ Terms []Expr }

func (And) expr() {}
func (a And) String() string { return joinTerms(a.Terms, "AND") }

// Or is a disjunction of two or more expressions.
type Or struct{ Terms []Expr }

func (Or) expr() {}
func (o Or) String() string { return joinTerms(o.Terms, "OR") }

func joinTerms(terms []Expr, sep string) string {
	s := "("
	for i, t := range terms {
		if i > 0 {
			s += " " + sep + " "
		}
		s += t.String()
	}
	return s + ")"
}

// Not negates its operand.
type Not struct{ X Expr }

func (Not) expr() {}
func (n Not) String() string { return fmt.Sprintf("NOT %s", n.X) }

// In tests column membership in a literal set. Negate handles NOT IN.
type In struct {
	Col    Column
	Values []Literal
	Negate bool
}

func (In) expr() {}
func (i In) String() string {
	op := "IN"
	if i.Negate {
		op = "NOT IN"
	}
	return fmt.Sprintf("%s %s (...%d values)", i.Col, op, len(i.Values))
}

// Between tests Col ∈ [Low, High].
type Between struct {
	Col  Column
	Low  Literal
	High Literal
}

func (Between) expr() {}
func (b Between) String() string {
	return fmt.Sprintf("%s BETWEEN %s AND %s", b.Col, b.Low, b.High)
}

// IsNull tests a column for NULL-ness. Negate handles IS NOT NULL.
type IsNull struct {
	Col    Column
	Negate bool
}

func (IsNull) expr() {}
func (n IsNull) String() string {
	if n.Negate {
		return fmt.Sprintf("%s IS NOT NULL", n.Col)
	}
	return fmt.Sprintf("%s IS NULL", n.Col)
}
