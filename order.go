package exprql

import (
	"fmt"

	"github.com/zoobzio/exprql/internal/types"
)

type orderSpec struct {
	dir    types.Direction
	target *node
}

// order returns the memoized specifier for dir.
func (n *node) order(dir types.Direction) *orderSpec {
	cell := &n.asc
	if dir == types.DESC {
		cell = &n.desc
	}
	return cell.Get(func() *orderSpec {
		return &orderSpec{dir: dir, target: n}
	})
}

// Order is the untyped view of an order specifier consumed by renderers.
type Order interface {
	Direction() Direction
	Target() Expression
	String() string

	spec() *orderSpec
}

// OrderSpecifier pairs a sort direction with an orderable expression.
// Specifiers obtained from the same expression and direction compare equal
// with ==.
type OrderSpecifier[D Orderable] struct {
	s *orderSpec
}

// Direction returns the sort direction.
func (o OrderSpecifier[D]) Direction() Direction { return o.s.dir }

// Target returns the ordered expression.
func (o OrderSpecifier[D]) Target() Expression { return base{o.s.target} }

// Expr returns the ordered expression with its typed view.
func (o OrderSpecifier[D]) Expr() ComparableExpr[D] {
	return ComparableExpr[D]{}.wrap(o.s.target)
}

func (o OrderSpecifier[D]) String() string { return o.s.String() }
func (o OrderSpecifier[D]) spec() *orderSpec { return o.s }

type untypedOrder struct {
	s *orderSpec
}

func (o untypedOrder) Direction() Direction { return o.s.dir }
func (o untypedOrder) Target() Expression { return base{o.s.target} }
func (o untypedOrder) String() string { return o.s.String() }
func (o untypedOrder) spec() *orderSpec { return o.s }

func (s *orderSpec) String() string {
	return render(s.target) + " " + string(s.dir)
}

// OrderBy returns the order specifier for an untyped expression. The result is
// the same specifier Asc or Desc return for that expression.
func OrderBy(e Expression, dir Direction) (Order, error) {
	if e == nil || e.ptr() == nil {
		return nil, NewInvalidOperandError("", -1, "cannot order by a nil expression")
	}
	if dir != types.ASC && dir != types.DESC {
		return nil, fmt.Errorf("invalid direction: %s", dir)
	}
	if !types.IsOrderable(e.Type()) {
		return nil, NewInvalidOperandError("", -1,
			fmt.Sprintf("cannot order by expression of type %s", typeName(e.Type())))
	}
	return untypedOrder{e.ptr().order(dir)}, nil
}

// SameOrder reports whether a and b are the identical specifier.
func SameOrder(a, b Order) bool {
	return a != nil && b != nil && a.spec() == b.spec()
}
