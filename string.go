package exprql

import "github.com/zoobzio/exprql/internal/types"

// StringExpr is the view of a string expression.
type StringExpr struct {
	ComparableExpr[string]
}

func (StringExpr) wrap(n *node) StringExpr {
	return StringExpr{ComparableExpr[string]{Expr[string]{base{n}}}}
}

// Like creates a pattern match predicate. The pattern syntax belongs to the
// backend.
func (s StringExpr) Like(pattern string) BooleanExpr {
	return predicate(mustOp(types.LIKE, s.n, constantNode(pattern)))
}

// StartsWith creates a prefix predicate.
func (s StringExpr) StartsWith(prefix string) BooleanExpr {
	return predicate(mustOp(types.StartsWith, s.n, constantNode(prefix)))
}

// EndsWith creates a suffix predicate.
func (s StringExpr) EndsWith(suffix string) BooleanExpr {
	return predicate(mustOp(types.EndsWith, s.n, constantNode(suffix)))
}

// Contains creates a substring predicate.
func (s StringExpr) Contains(sub string) BooleanExpr {
	return predicate(mustOp(types.StringContains, s.n, constantNode(sub)))
}

// Lower lower-cases the expression.
func (s StringExpr) Lower() StringExpr {
	return s.wrap(mustOp(types.Lower, s.n))
}

// Upper upper-cases the expression.
func (s StringExpr) Upper() StringExpr {
	return s.wrap(mustOp(types.Upper, s.n))
}

// Length returns the character length of the expression.
func (s StringExpr) Length() NumberExpr[int] {
	return NumberExpr[int]{}.wrap(mustOp(types.StringLength, s.n))
}
