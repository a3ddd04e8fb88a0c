package exprql

import "github.com/zoobzio/exprql/internal/types"

// BooleanExpr is the view of a boolean-typed expression. It adds the logical
// combinators on top of the comparable capabilities every bool carries.
type BooleanExpr struct {
	ComparableExpr[bool]
}

// Predicate is a boolean-typed expression.
type Predicate = BooleanExpr

func (BooleanExpr) wrap(n *node) BooleanExpr {
	return predicate(n)
}

func predicate(n *node) BooleanExpr {
	return BooleanExpr{ComparableExpr[bool]{Expr[bool]{base{n}}}}
}

// And creates a conjunction of the expression and other.
func (b BooleanExpr) And(other TypedExpression[bool]) BooleanExpr {
	return predicate(mustOp(types.AND, b.n, other.ptr()))
}

// Or creates a disjunction of the expression and other.
func (b BooleanExpr) Or(other TypedExpression[bool]) BooleanExpr {
	return predicate(mustOp(types.OR, b.n, other.ptr()))
}

// Not negates the expression.
func (b BooleanExpr) Not() BooleanExpr {
	return predicate(mustOp(types.NOT, b.n))
}

// AllOf folds predicates into a left-nested conjunction.
func AllOf(first Predicate, rest ...Predicate) Predicate {
	out := first
	for _, p := range rest {
		out = out.And(p)
	}
	return out
}

// AnyOf folds predicates into a left-nested disjunction.
func AnyOf(first Predicate, rest ...Predicate) Predicate {
	out := first
	for _, p := range rest {
		out = out.Or(p)
	}
	return out
}
