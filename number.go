package exprql

import "github.com/zoobzio/exprql/internal/types"

// NumberExpr is the view of a numeric expression.
type NumberExpr[N Numeric] struct {
	ComparableExpr[N]
}

func (NumberExpr[N]) wrap(n *node) NumberExpr[N] {
	return NumberExpr[N]{ComparableExpr[N]{Expr[N]{base{n}}}}
}

func (e NumberExpr[N]) arith(op types.Operator, other *node) NumberExpr[N] {
	return e.wrap(mustOp(op, e.n, other))
}

// Add creates a sum with a constant.
func (e NumberExpr[N]) Add(v N) NumberExpr[N] {
	return e.arith(types.Add, constantNode(v))
}

// AddExpr creates a sum with another expression.
func (e NumberExpr[N]) AddExpr(other TypedExpression[N]) NumberExpr[N] {
	return e.arith(types.Add, other.ptr())
}

// Subtract creates a difference with a constant.
func (e NumberExpr[N]) Subtract(v N) NumberExpr[N] {
	return e.arith(types.Sub, constantNode(v))
}

// SubtractExpr creates a difference with another expression.
func (e NumberExpr[N]) SubtractExpr(other TypedExpression[N]) NumberExpr[N] {
	return e.arith(types.Sub, other.ptr())
}

// Multiply creates a product with a constant.
func (e NumberExpr[N]) Multiply(v N) NumberExpr[N] {
	return e.arith(types.Mult, constantNode(v))
}

// MultiplyExpr creates a product with another expression.
func (e NumberExpr[N]) MultiplyExpr(other TypedExpression[N]) NumberExpr[N] {
	return e.arith(types.Mult, other.ptr())
}

// Divide creates a quotient with a constant. Division by zero is left to the
// backend.
func (e NumberExpr[N]) Divide(v N) NumberExpr[N] {
	return e.arith(types.Div, constantNode(v))
}

// DivideExpr creates a quotient with another expression.
func (e NumberExpr[N]) DivideExpr(other TypedExpression[N]) NumberExpr[N] {
	return e.arith(types.Div, other.ptr())
}
