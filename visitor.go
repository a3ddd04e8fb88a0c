package exprql

import "github.com/zoobzio/exprql/internal/types"

// Path is the read view of a path leaf.
type Path struct {
	base
}

// Name returns the path segment name.
func (p Path) Name() string { return p.n.name }

// Parent returns the owning path, if any.
func (p Path) Parent() (Path, bool) {
	if p.n.parent == nil {
		return Path{}, false
	}
	return Path{base{p.n.parent}}, true
}

// Segments returns the names from the root down to this path.
func (p Path) Segments() []string {
	var out []string
	for n := p.n; n != nil; n = n.parent {
		out = append(out, n.name)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Constant is the read view of a literal leaf.
type Constant struct {
	base
}

// Value returns the wrapped literal. Collections are returned as the slice
// held by the node and must not be modified.
func (c Constant) Value() any { return c.n.value }

// Operation is the read view of a composite node.
type Operation struct {
	base
}

// Operator returns the operator identifier.
func (o Operation) Operator() Operator { return o.n.op }

// Len returns the number of operands.
func (o Operation) Len() int { return len(o.n.args) }

// Arg returns the i-th operand.
func (o Operation) Arg(i int) Expression { return base{o.n.args[i]} }

// Args returns a copy of the ordered operand list.
func (o Operation) Args() []Expression {
	out := make([]Expression, len(o.n.args))
	for i, arg := range o.n.args {
		out[i] = base{arg}
	}
	return out
}

// AsPath returns the path view of e if e is a path.
func AsPath(e Expression) (Path, bool) {
	if e == nil || e.ptr() == nil || e.Kind() != types.KindPath {
		return Path{}, false
	}
	return Path{base{e.ptr()}}, true
}

// AsConstant returns the constant view of e if e is a constant.
func AsConstant(e Expression) (Constant, bool) {
	if e == nil || e.ptr() == nil || e.Kind() != types.KindConstant {
		return Constant{}, false
	}
	return Constant{base{e.ptr()}}, true
}

// AsOperation returns the operation view of e if e is an operation.
func AsOperation(e Expression) (Operation, bool) {
	if e == nil || e.ptr() == nil || e.Kind() != types.KindOperation {
		return Operation{}, false
	}
	return Operation{base{e.ptr()}}, true
}

// Visitor translates expression trees. R is the result of a visit and C a
// caller-defined context threaded through the traversal. Implementations
// decide whether and in which order to descend into operands.
type Visitor[R, C any] interface {
	VisitConstant(c Constant, ctx C) R
	VisitPath(p Path, ctx C) R
	VisitOperation(o Operation, ctx C) R
}

// Accept dispatches e to the matching Visitor method.
func Accept[R, C any](e Expression, v Visitor[R, C], ctx C) R {
	n := e.ptr()
	switch n.kind {
	case types.KindConstant:
		return v.VisitConstant(Constant{base{n}}, ctx)
	case types.KindPath:
		return v.VisitPath(Path{base{n}}, ctx)
	default:
		return v.VisitOperation(Operation{base{n}}, ctx)
	}
}

// Inspect walks e in pre-order, calling fn for every node. Operands of a node
// are skipped when fn returns false. Path parents are not visited.
func Inspect(e Expression, fn func(Expression) bool) {
	if e == nil || e.ptr() == nil {
		return
	}
	inspect(e.ptr(), fn)
}

func inspect(n *node, fn func(Expression) bool) {
	if !fn(base{n}) {
		return
	}
	for _, arg := range n.args {
		inspect(arg, fn)
	}
}
