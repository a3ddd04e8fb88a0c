package exprql

import (
	"fmt"
	"reflect"

	"github.com/zoobzio/exprql/internal/types"
)

// Expression is the untyped structural view shared by every node.
//
// Expressions are immutable once built and safe for concurrent use. Two
// expressions are Equal when they are the same leaf value, or the same
// operator applied to pairwise-equal operands in the same order. Hash
// follows Equal.
type Expression interface {
	// Type returns the declared result type of the expression.
	Type() reflect.Type
	// Kind reports whether the node is a path, constant or operation.
	Kind() NodeKind
	// Equal reports structural equality.
	Equal(other Expression) bool
	// Hash returns a structural hash consistent with Equal.
	Hash() uint64
	// Same reports node identity, which is stronger than Equal.
	Same(other Expression) bool
	// String renders the expression for debugging.
	String() string

	ptr() *node
}

// TypedExpression is satisfied by every view whose result type is D.
type TypedExpression[D any] interface {
	Expression
	typed() Expr[D]
}

// capability is implemented by every typed view. The zero value of a view
// can rebuild itself around any node, which lets generic code select a view
// by type parameter alone.
type capability[V any] interface {
	Expression
	wrap(n *node) V
	carrier() reflect.Type
}

type base struct {
	n *node
}

func (b base) Type() reflect.Type { return b.n.typ }
func (b base) Kind() NodeKind { return b.n.kind }
func (b base) Hash() uint64 { return b.n.hash }
func (b base) String() string { return render(b.n) }
func (b base) ptr() *node { return b.n }

func (b base) Equal(other Expression) bool {
	if other == nil || b.n == nil {
		return false
	}
	return b.n.equal(other.ptr())
}

// IsZero reports whether the view is the zero value with no node behind it.
func (b base) IsZero() bool { return b.n == nil }

// Same reports whether other is backed by the very same node.
func (b base) Same(other Expression) bool {
	return other != nil && b.n == other.ptr()
}

// Expr is the base typed view of an expression with result type D.
type Expr[D any] struct {
	base
}

func (e Expr[D]) typed() Expr[D] { return e }
func (Expr[D]) wrap(n *node) Expr[D] { return Expr[D]{base{n}} }
func (Expr[D]) carrier() reflect.Type { return reflect.TypeFor[D]() }

// Eq creates an equality predicate against a constant.
func (e Expr[D]) Eq(v D) BooleanExpr {
	return predicate(mustOp(types.EQ, e.n, constantNode(v)))
}

// EqExpr creates an equality predicate against another expression.
func (e Expr[D]) EqExpr(other TypedExpression[D]) BooleanExpr {
	return predicate(mustOp(types.EQ, e.n, other.ptr()))
}

// Ne creates an inequality predicate against a constant.
func (e Expr[D]) Ne(v D) BooleanExpr {
	return predicate(mustOp(types.NE, e.n, constantNode(v)))
}

// NeExpr creates an inequality predicate against another expression.
func (e Expr[D]) NeExpr(other TypedExpression[D]) BooleanExpr {
	return predicate(mustOp(types.NE, e.n, other.ptr()))
}

// IsNull creates a null check.
func (e Expr[D]) IsNull() BooleanExpr {
	return predicate(mustOp(types.IsNull, e.n))
}

// IsNotNull creates a not-null check.
func (e Expr[D]) IsNotNull() BooleanExpr {
	return predicate(mustOp(types.IsNotNull, e.n))
}

// In creates a membership predicate over the given values.
func (e Expr[D]) In(values ...D) BooleanExpr {
	return predicate(mustOp(types.IN, e.n, collectionNode(values)))
}

// NotIn creates a negated membership predicate over the given values.
func (e Expr[D]) NotIn(values ...D) BooleanExpr {
	return predicate(mustOp(types.NotIn, e.n, collectionNode(values)))
}

// TryOp builds an operation from untyped operands, checking them against the
// operator's signature. The operator must yield D unless D is an interface.
func TryOp[D any](op Operator, args ...Expression) (Expr[D], error) {
	nodes := make([]*node, len(args))
	for i, arg := range args {
		if arg != nil {
			nodes[i] = arg.ptr()
		}
	}
	n, err := buildOperation(op, nodes)
	if err != nil {
		return Expr[D]{}, err
	}
	want := reflect.TypeFor[D]()
	if !assignable(n.typ, want) {
		return Expr[D]{}, NewInvalidOperandError(op, -1,
			fmt.Sprintf("yields %s, not %s", typeName(n.typ), typeName(want)))
	}
	return Expr[D]{base{n}}, nil
}

// Op builds an operation from untyped operands.
// Panics if the operands do not fit the operator.
func Op[D any](op Operator, args ...Expression) Expr[D] {
	e, err := TryOp[D](op, args...)
	if err != nil {
		panic(err)
	}
	return e
}

// View converts an expression to the typed view V, checking that the
// expression's result type is the one V carries.
func View[V capability[V]](e Expression) (V, error) {
	var zero V
	if e == nil || e.ptr() == nil {
		return zero, NewInvalidOperandError("", -1, "cannot view a nil expression")
	}
	want := zero.carrier()
	if !assignable(e.Type(), want) {
		return zero, NewInvalidOperandError("", -1,
			fmt.Sprintf("expression of type %s cannot be viewed as %s", typeName(e.Type()), typeName(want)))
	}
	return zero.wrap(e.ptr()), nil
}

// MustView is View that panics on a type mismatch.
func MustView[V capability[V]](e Expression) V {
	v, err := View[V](e)
	if err != nil {
		panic(err)
	}
	return v
}

// assignable reports whether a node of type have can back a view of type want.
// Interface views accept anything implementing them.
func assignable(have, want reflect.Type) bool {
	if have == want {
		return true
	}
	return want.Kind() == reflect.Interface && have != nil && have.Implements(want)
}

func mustOp(op types.Operator, args ...*node) *node {
	n, err := buildOperation(op, args)
	if err != nil {
		panic(err)
	}
	return n
}
