package exprql

import (
	"fmt"
	"reflect"
	"time"

	"github.com/zoobzio/exprql/internal/types"
	"golang.org/x/exp/constraints"
)

// Orderable is satisfied by result types that carry a total order.
type Orderable interface {
	constraints.Ordered | ~bool | time.Time
}

// Numeric is satisfied by integer and floating point result types.
type Numeric interface {
	constraints.Integer | constraints.Float
}

// ComparableExpr is the view of an expression whose result type is ordered.
// It adds range checks, ordering and casts on top of Expr.
type ComparableExpr[D Orderable] struct {
	Expr[D]
}

func (ComparableExpr[D]) wrap(n *node) ComparableExpr[D] {
	return ComparableExpr[D]{Expr[D]{base{n}}}
}

// Asc returns the ascending order specifier for the expression. Every call on
// the same expression returns the identical specifier.
func (e ComparableExpr[D]) Asc() OrderSpecifier[D] {
	return OrderSpecifier[D]{e.n.order(types.ASC)}
}

// Desc returns the descending order specifier for the expression. Every call
// on the same expression returns the identical specifier.
func (e ComparableExpr[D]) Desc() OrderSpecifier[D] {
	return OrderSpecifier[D]{e.n.order(types.DESC)}
}

// Between creates an inclusive range predicate.
func (e ComparableExpr[D]) Between(first, second D) BooleanExpr {
	return predicate(mustOp(types.BETWEEN, e.n, constantNode(first), constantNode(second)))
}

// BetweenExpr creates an inclusive range predicate with expression bounds.
func (e ComparableExpr[D]) BetweenExpr(first, second TypedExpression[D]) BooleanExpr {
	return predicate(mustOp(types.BETWEEN, e.n, first.ptr(), second.ptr()))
}

// NotBetween negates Between. It is not a primitive operator.
func (e ComparableExpr[D]) NotBetween(first, second D) BooleanExpr {
	return e.Between(first, second).Not()
}

// NotBetweenExpr negates BetweenExpr.
func (e ComparableExpr[D]) NotBetweenExpr(first, second TypedExpression[D]) BooleanExpr {
	return e.BetweenExpr(first, second).Not()
}

// Lt creates a less-than predicate.
func (e ComparableExpr[D]) Lt(v D) BooleanExpr {
	return predicate(mustOp(types.LT, e.n, constantNode(v)))
}

// LtExpr creates a less-than predicate against another expression.
func (e ComparableExpr[D]) LtExpr(other TypedExpression[D]) BooleanExpr {
	return predicate(mustOp(types.LT, e.n, other.ptr()))
}

// Gt creates a greater-than predicate.
func (e ComparableExpr[D]) Gt(v D) BooleanExpr {
	return predicate(mustOp(types.GT, e.n, constantNode(v)))
}

// GtExpr creates a greater-than predicate against another expression.
func (e ComparableExpr[D]) GtExpr(other TypedExpression[D]) BooleanExpr {
	return predicate(mustOp(types.GT, e.n, other.ptr()))
}

// Loe creates a less-than-or-equal predicate.
func (e ComparableExpr[D]) Loe(v D) BooleanExpr {
	return predicate(mustOp(types.LOE, e.n, constantNode(v)))
}

// LoeExpr creates a less-than-or-equal predicate against another expression.
func (e ComparableExpr[D]) LoeExpr(other TypedExpression[D]) BooleanExpr {
	return predicate(mustOp(types.LOE, e.n, other.ptr()))
}

// Goe creates a greater-than-or-equal predicate.
func (e ComparableExpr[D]) Goe(v D) BooleanExpr {
	return predicate(mustOp(types.GOE, e.n, constantNode(v)))
}

// GoeExpr creates a greater-than-or-equal predicate against another expression.
func (e ComparableExpr[D]) GoeExpr(other TypedExpression[D]) BooleanExpr {
	return predicate(mustOp(types.GOE, e.n, other.ptr()))
}

// StringValue returns the expression cast to string. The cast is built once
// per expression and shared by every caller.
func (e ComparableExpr[D]) StringValue() StringExpr {
	return StringExpr{ComparableExpr[string]{Expr[string]{base{e.n.stringCast()}}}}
}

func (n *node) stringCast() *node {
	return n.str.Get(func() *node {
		return mustOp(types.StringCast, n)
	})
}

// CastToNum casts an orderable expression to the numeric type T.
func CastToNum[T Numeric, D Orderable](e ComparableExpr[D]) NumberExpr[T] {
	n := mustOp(types.NumCast, e.n, typeConstant(reflect.TypeFor[T]()))
	return NumberExpr[T]{ComparableExpr[T]{Expr[T]{base{n}}}}
}

// CastToNumType is the runtime form of CastToNum for callers that only know
// the target type dynamically. Non-numeric targets and unordered operands
// yield an InvalidOperandError.
func CastToNumType(e Expression, target reflect.Type) (Expression, error) {
	if e == nil || e.ptr() == nil {
		return nil, NewInvalidOperandError(types.NumCast, 0, "operand is nil")
	}
	if target == nil {
		return nil, NewInvalidOperandError(types.NumCast, 1, "cast target is nil")
	}
	n, err := buildOperation(types.NumCast, []*node{e.ptr(), typeConstant(target)})
	if err != nil {
		return nil, fmt.Errorf("cast %s to %s: %w", e, typeName(target), err)
	}
	return base{n}, nil
}

// StringValueOf is the runtime form of StringValue. The result is memoized on
// e exactly as StringValue is.
func StringValueOf(e Expression) (StringExpr, error) {
	if e == nil || e.ptr() == nil {
		return StringExpr{}, NewInvalidOperandError(types.StringCast, 0, "operand is nil")
	}
	if !types.IsOrderable(e.Type()) {
		return StringExpr{}, NewInvalidOperandError(types.StringCast, 0,
			fmt.Sprintf("has type %s, want an orderable type", typeName(e.Type())))
	}
	return StringExpr{ComparableExpr[string]{Expr[string]{base{e.ptr().stringCast()}}}}, nil
}
