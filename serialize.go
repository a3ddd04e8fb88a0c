package exprql

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/zoobzio/exprql/internal/types"
)

const precAtom = 10

type opFormat struct {
	token string
	prec  int
	form  int
}

const (
	formInfix = iota
	formPrefix
	formPostfix
	formCall
	formBetween
)

var opFormats = map[types.Operator]opFormat{
	types.OR:             {"||", 1, formInfix},
	types.AND:            {"&&", 2, formInfix},
	types.NOT:            {"!", 3, formPrefix},
	types.EQ:             {"=", 4, formInfix},
	types.NE:             {"!=", 4, formInfix},
	types.LT:             {"<", 4, formInfix},
	types.GT:             {">", 4, formInfix},
	types.LOE:            {"<=", 4, formInfix},
	types.GOE:            {">=", 4, formInfix},
	types.IN:             {"in", 4, formInfix},
	types.NotIn:          {"not in", 4, formInfix},
	types.LIKE:           {"like", 4, formInfix},
	types.BETWEEN:        {"between", 4, formBetween},
	types.IsNull:         {"is null", 4, formPostfix},
	types.IsNotNull:      {"is not null", 4, formPostfix},
	types.Add:            {"+", 5, formInfix},
	types.Sub:            {"-", 5, formInfix},
	types.Mult:           {"*", 6, formInfix},
	types.Div:            {"/", 6, formInfix},
	types.NumCast:        {"cast", precAtom, formCall},
	types.StringCast:     {"str", precAtom, formCall},
	types.StartsWith:     {"startsWith", precAtom, formCall},
	types.EndsWith:       {"endsWith", precAtom, formCall},
	types.StringContains: {"contains", precAtom, formCall},
	types.Lower:          {"lower", precAtom, formCall},
	types.Upper:          {"upper", precAtom, formCall},
	types.StringLength:   {"length", precAtom, formCall},
}

// associative operators chain without parentheses on the right.
var associative = map[types.Operator]bool{
	types.AND:  true,
	types.OR:   true,
	types.Add:  true,
	types.Mult: true,
}

// render serializes a node for debugging and golden tests. The output is not
// a query language.
func render(n *node) string {
	if n == nil {
		return "<nil>"
	}
	var sb strings.Builder
	renderNode(n, &sb)
	return sb.String()
}

func precedence(n *node) int {
	if n.kind != types.KindOperation {
		return precAtom
	}
	if f, ok := opFormats[n.op]; ok {
		return f.prec
	}
	return precAtom
}

func renderNode(n *node, sb *strings.Builder) {
	switch n.kind {
	case types.KindPath:
		if n.parent != nil {
			renderNode(n.parent, sb)
			sb.WriteString(".")
		}
		sb.WriteString(n.name)
	case types.KindConstant:
		sb.WriteString(renderLiteral(n.value))
	case types.KindOperation:
		renderOperation(n, sb)
	}
}

func renderOperation(n *node, sb *strings.Builder) {
	f, ok := opFormats[n.op]
	if !ok {
		f = opFormat{token: strings.ToLower(string(n.op)), prec: precAtom, form: formCall}
	}

	operand := func(arg *node, parens bool) {
		if parens {
			sb.WriteString("(")
			renderNode(arg, sb)
			sb.WriteString(")")
			return
		}
		renderNode(arg, sb)
	}

	switch f.form {
	case formInfix:
		left, right := n.args[0], n.args[1]
		operand(left, precedence(left) < f.prec)
		fmt.Fprintf(sb, " %s ", f.token)
		rp := precedence(right)
		operand(right, rp < f.prec || (rp == f.prec && !(associative[n.op] && right.op == n.op)))
	case formPrefix:
		sb.WriteString(f.token)
		operand(n.args[0], precedence(n.args[0]) < precAtom)
	case formPostfix:
		operand(n.args[0], precedence(n.args[0]) <= f.prec)
		sb.WriteString(" ")
		sb.WriteString(f.token)
	case formBetween:
		operand(n.args[0], precedence(n.args[0]) <= f.prec)
		sb.WriteString(" between ")
		operand(n.args[1], precedence(n.args[1]) <= f.prec)
		sb.WriteString(" and ")
		operand(n.args[2], precedence(n.args[2]) <= f.prec)
	case formCall:
		sb.WriteString(f.token)
		sb.WriteString("(")
		for i, arg := range n.args {
			if i > 0 {
				sb.WriteString(",")
			}
			renderNode(arg, sb)
		}
		sb.WriteString(")")
	}
}

func renderLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case reflect.Type:
		return x.String()
	case fmt.Stringer:
		return fmt.Sprintf("%q", x.String())
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = renderLiteral(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case reflect.String:
		return fmt.Sprintf("%q", rv.String())
	}
	return fmt.Sprint(v)
}
