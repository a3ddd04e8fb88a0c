package celexpr

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zoobzio/exprql"
	exprv1 "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// operand is either a built expression or a literal waiting for the type of
// the expression it is compared with.
type operand struct {
	expr  exprql.Expression
	lit   any
	isLit bool
	list  []any
}

type builder struct {
	paths    PathResolver
	registry *exprql.Registry
}

var comparisons = map[string]exprql.Operator{
	"_==_": exprql.EQ,
	"_!=_": exprql.NE,
	"_<_":  exprql.LT,
	"_>_":  exprql.GT,
	"_<=_": exprql.LOE,
	"_>=_": exprql.GOE,
}

var arithmetic = map[string]exprql.Operator{
	"_+_": exprql.Add,
	"_-_": exprql.Sub,
	"_*_": exprql.Mult,
	"_/_": exprql.Div,
}

var stringPredicates = map[string]exprql.Operator{
	"startsWith": exprql.StartsWith,
	"endsWith":   exprql.EndsWith,
	"contains":   exprql.StringContains,
	"like":       exprql.LIKE,
}

var numericCasts = map[string]reflect.Type{
	"int":    reflect.TypeFor[int64](),
	"uint":   reflect.TypeFor[uint64](),
	"double": reflect.TypeFor[float64](),
}

// expression builds e and requires it to be an expression rather than a
// bare literal.
func (b *builder) expression(e *exprv1.Expr) (exprql.Expression, error) {
	op, err := b.operand(e)
	if err != nil {
		return nil, err
	}
	return op.lift()
}

func (o operand) lift() (exprql.Expression, error) {
	switch {
	case o.expr != nil:
		return o.expr, nil
	case o.list != nil:
		return nil, fmt.Errorf("list literal is only supported on the right of 'in'")
	default:
		return exprql.Wrap(o.lit)
	}
}

func (b *builder) operand(e *exprv1.Expr) (operand, error) {
	if ref, ok := reference(e); ok {
		p, err := b.paths.Resolve(ref)
		if err != nil {
			return operand{}, fmt.Errorf("unknown identifier %q: %w", ref, err)
		}
		return operand{expr: p}, nil
	}

	switch v := e.ExprKind.(type) {
	case *exprv1.Expr_ConstExpr:
		lit, err := constValue(v.ConstExpr)
		if err != nil {
			return operand{}, err
		}
		return operand{lit: lit, isLit: true}, nil
	case *exprv1.Expr_ListExpr:
		elems := v.ListExpr.GetElements()
		list := make([]any, len(elems))
		for i, elem := range elems {
			c := elem.GetConstExpr()
			if c == nil {
				return operand{}, fmt.Errorf("list element %d must be a literal", i)
			}
			lit, err := constValue(c)
			if err != nil {
				return operand{}, err
			}
			list[i] = lit
		}
		return operand{list: list}, nil
	case *exprv1.Expr_CallExpr:
		out, err := b.call(v.CallExpr)
		if err != nil {
			return operand{}, err
		}
		return operand{expr: out}, nil
	default:
		return operand{}, fmt.Errorf("unsupported expression %T", v)
	}
}

func (b *builder) call(call *exprv1.Expr_Call) (exprql.Expression, error) {
	fn := call.GetFunction()

	if call.GetTarget() != nil {
		return b.receiverCall(call)
	}

	switch fn {
	case "_&&_", "_||_":
		if len(call.Args) != 2 {
			return nil, fmt.Errorf("logical operator expects two arguments")
		}
		left, err := b.predicate(call.Args[0])
		if err != nil {
			return nil, err
		}
		right, err := b.predicate(call.Args[1])
		if err != nil {
			return nil, err
		}
		if fn == "_&&_" {
			return left.And(right), nil
		}
		return left.Or(right), nil

	case "!_":
		if len(call.Args) != 1 {
			return nil, fmt.Errorf("logical NOT expects one argument")
		}
		child, err := b.predicate(call.Args[0])
		if err != nil {
			return nil, err
		}
		return child.Not(), nil

	case "@in":
		return b.membership(call)

	case "string":
		if len(call.Args) != 1 {
			return nil, fmt.Errorf("string() expects one argument")
		}
		arg, err := b.expression(call.Args[0])
		if err != nil {
			return nil, err
		}
		return exprql.StringValueOf(arg)

	case "size":
		if len(call.Args) != 1 {
			return nil, fmt.Errorf("size() expects one argument")
		}
		arg, err := b.expression(call.Args[0])
		if err != nil {
			return nil, err
		}
		return exprql.TryOp[int](exprql.StringLength, arg)
	}

	if op, ok := comparisons[fn]; ok {
		return b.comparison(op, call)
	}
	if op, ok := arithmetic[fn]; ok {
		return b.binary(op, call)
	}
	if target, ok := numericCasts[fn]; ok {
		if len(call.Args) != 1 {
			return nil, fmt.Errorf("%s() expects one argument", fn)
		}
		arg, err := b.expression(call.Args[0])
		if err != nil {
			return nil, err
		}
		return exprql.CastToNumType(arg, target)
	}
	return nil, fmt.Errorf("unsupported call expression %q", fn)
}

func (b *builder) receiverCall(call *exprv1.Expr_Call) (exprql.Expression, error) {
	fn := call.GetFunction()
	recv, err := b.expression(call.GetTarget())
	if err != nil {
		return nil, err
	}

	switch fn {
	case "between":
		if len(call.Args) != 2 {
			return nil, fmt.Errorf("between() expects two arguments")
		}
		lo, err := b.operand(call.Args[0])
		if err != nil {
			return nil, err
		}
		hi, err := b.operand(call.Args[1])
		if err != nil {
			return nil, err
		}
		args, err := coerce(recv.Type(), lo, hi)
		if err != nil {
			return nil, fmt.Errorf("between(): %w", err)
		}
		return exprql.TryOp[bool](exprql.BETWEEN, recv, args[0], args[1])

	case "isNull", "isNotNull":
		if len(call.Args) != 0 {
			return nil, fmt.Errorf("%s() expects no arguments", fn)
		}
		op := exprql.IsNull
		if fn == "isNotNull" {
			op = exprql.IsNotNull
		}
		return exprql.TryOp[bool](op, recv)

	case "lower", "upper", "size":
		if len(call.Args) != 0 {
			return nil, fmt.Errorf("%s() expects no arguments", fn)
		}
		switch fn {
		case "lower":
			return exprql.TryOp[string](exprql.Lower, recv)
		case "upper":
			return exprql.TryOp[string](exprql.Upper, recv)
		default:
			return exprql.TryOp[int](exprql.StringLength, recv)
		}
	}

	if op, ok := stringPredicates[fn]; ok {
		if len(call.Args) != 1 {
			return nil, fmt.Errorf("%s() expects one argument", fn)
		}
		arg, err := b.operand(call.Args[0])
		if err != nil {
			return nil, err
		}
		args, err := coerce(recv.Type(), arg)
		if err != nil {
			return nil, fmt.Errorf("%s(): %w", fn, err)
		}
		return exprql.TryOp[bool](op, recv, args[0])
	}

	return b.delegate(fn, recv, call.Args)
}

func (b *builder) delegate(name string, recv exprql.Expression, rawArgs []*exprv1.Expr) (exprql.Expression, error) {
	if b.registry == nil {
		return nil, fmt.Errorf("unsupported call expression %q", name)
	}
	args := make([]any, len(rawArgs))
	for i, raw := range rawArgs {
		op, err := b.operand(raw)
		if err != nil {
			return nil, err
		}
		switch {
		case op.expr != nil:
			args[i] = op.expr
		case op.list != nil:
			args[i] = op.list
		default:
			args[i] = op.lit
		}
	}
	return b.registry.Invoke(name, recv, args...)
}

func (b *builder) predicate(e *exprv1.Expr) (exprql.Predicate, error) {
	out, err := b.expression(e)
	if err != nil {
		return exprql.Predicate{}, err
	}
	return exprql.View[exprql.Predicate](out)
}

func (b *builder) comparison(op exprql.Operator, call *exprv1.Expr_Call) (exprql.Expression, error) {
	if len(call.Args) != 2 {
		return nil, fmt.Errorf("comparison expects two arguments")
	}
	left, err := b.operand(call.Args[0])
	if err != nil {
		return nil, err
	}
	right, err := b.operand(call.Args[1])
	if err != nil {
		return nil, err
	}

	// x == null and x != null are null checks.
	if op == exprql.EQ || op == exprql.NE {
		nullOp := exprql.IsNull
		if op == exprql.NE {
			nullOp = exprql.IsNotNull
		}
		if right.isLit && right.lit == nil && left.expr != nil {
			return exprql.TryOp[bool](nullOp, left.expr)
		}
		if left.isLit && left.lit == nil && right.expr != nil {
			return exprql.TryOp[bool](nullOp, right.expr)
		}
	}

	args, err := pair(left, right)
	if err != nil {
		return nil, err
	}
	return exprql.TryOp[bool](op, args...)
}

func (b *builder) binary(op exprql.Operator, call *exprv1.Expr_Call) (exprql.Expression, error) {
	if len(call.Args) != 2 {
		return nil, fmt.Errorf("%s expects two arguments", op)
	}
	left, err := b.operand(call.Args[0])
	if err != nil {
		return nil, err
	}
	right, err := b.operand(call.Args[1])
	if err != nil {
		return nil, err
	}
	args, err := pair(left, right)
	if err != nil {
		return nil, err
	}
	return exprql.TryOp[any](op, args...)
}

func (b *builder) membership(call *exprv1.Expr_Call) (exprql.Expression, error) {
	if len(call.Args) != 2 {
		return nil, fmt.Errorf("'in' expects two arguments")
	}
	left, err := b.expression(call.Args[0])
	if err != nil {
		return nil, err
	}
	right, err := b.operand(call.Args[1])
	if err != nil {
		return nil, err
	}
	if right.list == nil {
		return nil, fmt.Errorf("right side of 'in' must be a list literal")
	}
	set, err := exprql.ConstantAs(reflect.SliceOf(left.Type()), right.list)
	if err != nil {
		return nil, fmt.Errorf("'in': %w", err)
	}
	return exprql.TryOp[bool](exprql.IN, left, set)
}

// pair types a literal operand after the expression on the other side.
func pair(left, right operand) ([]exprql.Expression, error) {
	switch {
	case left.expr != nil && right.expr != nil:
		return []exprql.Expression{left.expr, right.expr}, nil
	case left.expr != nil:
		args, err := coerce(left.expr.Type(), right)
		if err != nil {
			return nil, err
		}
		return []exprql.Expression{left.expr, args[0]}, nil
	case right.expr != nil:
		args, err := coerce(right.expr.Type(), left)
		if err != nil {
			return nil, err
		}
		return []exprql.Expression{args[0], right.expr}, nil
	default:
		l, err := left.lift()
		if err != nil {
			return nil, err
		}
		r, err := right.lift()
		if err != nil {
			return nil, err
		}
		return []exprql.Expression{l, r}, nil
	}
}

func coerce(t reflect.Type, ops ...operand) ([]exprql.Expression, error) {
	out := make([]exprql.Expression, len(ops))
	for i, op := range ops {
		if op.expr != nil {
			out[i] = op.expr
			continue
		}
		if op.list != nil {
			return nil, fmt.Errorf("unexpected list literal")
		}
		c, err := exprql.ConstantAs(t, op.lit)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// reference returns the dotted name of an identifier or field selection chain.
func reference(e *exprv1.Expr) (string, bool) {
	switch v := e.ExprKind.(type) {
	case *exprv1.Expr_IdentExpr:
		return v.IdentExpr.GetName(), true
	case *exprv1.Expr_SelectExpr:
		if v.SelectExpr.GetTestOnly() {
			return "", false
		}
		parent, ok := reference(v.SelectExpr.GetOperand())
		if !ok {
			return "", false
		}
		return strings.Join([]string{parent, v.SelectExpr.GetField()}, "."), true
	}
	return "", false
}

func constValue(c *exprv1.Constant) (any, error) {
	switch x := c.ConstantKind.(type) {
	case *exprv1.Constant_StringValue:
		return c.GetStringValue(), nil
	case *exprv1.Constant_Int64Value:
		return c.GetInt64Value(), nil
	case *exprv1.Constant_Uint64Value:
		return c.GetUint64Value(), nil
	case *exprv1.Constant_DoubleValue:
		return c.GetDoubleValue(), nil
	case *exprv1.Constant_BoolValue:
		return c.GetBoolValue(), nil
	case *exprv1.Constant_NullValue:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported constant %T", x)
	}
}
