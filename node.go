package exprql

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/zoobzio/exprql/internal/memo"
	"github.com/zoobzio/exprql/internal/types"
)

var (
	boolType   = reflect.TypeFor[bool]()
	stringType = reflect.TypeFor[string]()
	intType    = reflect.TypeFor[int]()
	typeType   = reflect.TypeFor[reflect.Type]()
)

// node is the single structural representation behind every typed view.
// Everything except the memo cells is fixed at construction.
type node struct {
	typ    reflect.Type
	value  any
	parent *node
	name   string
	op     types.Operator
	args   []*node
	hash   uint64
	kind   types.NodeKind

	asc  memo.Cell[orderSpec]
	desc memo.Cell[orderSpec]
	str  memo.Cell[node]
}

func newPath(typ reflect.Type, parent *node, name string) *node {
	n := &node{kind: types.KindPath, typ: typ, parent: parent, name: name}
	n.hash = n.computeHash()
	return n
}

func newConstant(typ reflect.Type, value any) *node {
	n := &node{kind: types.KindConstant, typ: typ, value: value}
	n.hash = n.computeHash()
	return n
}

func newOperation(typ reflect.Type, op types.Operator, args []*node) *node {
	owned := make([]*node, len(args))
	copy(owned, args)
	n := &node{kind: types.KindOperation, typ: typ, op: op, args: owned}
	n.hash = n.computeHash()
	return n
}

// buildOperation checks args against the operator signature and returns a
// node typed by the signature's result rule.
func buildOperation(op types.Operator, args []*node) (*node, error) {
	sig, ok := types.SignatureOf(op)
	if !ok {
		return nil, NewInvalidOperandError(op, -1, "unknown operator")
	}
	if len(args) != sig.Arity() {
		return nil, NewInvalidOperandError(op, -1,
			fmt.Sprintf("expects %d operands, got %d", sig.Arity(), len(args)))
	}
	for i, arg := range args {
		if arg == nil {
			return nil, NewInvalidOperandError(op, i, "operand is nil")
		}
	}

	first := args[0].typ
	var target reflect.Type
	for i, arg := range args {
		class := sig.Operands[i]
		if err := checkClass(op, i, class, arg, first); err != nil {
			return nil, err
		}
		if class == types.TypeOperand {
			target = arg.value.(reflect.Type) //nolint:forcetypeassert // checked by checkClass
		}
		if sig.SameType && i > 0 && class != types.CollectionOperand && class != types.TypeOperand && arg.typ != first {
			return nil, NewInvalidOperandError(op, i,
				fmt.Sprintf("has type %s, want %s", typeName(arg.typ), typeName(first)))
		}
	}

	var result reflect.Type
	switch sig.Result {
	case types.ResultBoolean:
		result = boolType
	case types.ResultString:
		result = stringType
	case types.ResultInt:
		result = intType
	case types.ResultFirst:
		result = first
	case types.ResultTarget:
		result = target
	}
	return newOperation(result, op, args), nil
}

func checkClass(op types.Operator, pos int, class types.OperandClass, arg *node, first reflect.Type) error {
	switch class {
	case types.AnyOperand:
		return nil
	case types.BooleanOperand:
		if !types.IsBoolean(arg.typ) {
			return NewInvalidOperandError(op, pos, fmt.Sprintf("has type %s, want bool", typeName(arg.typ)))
		}
	case types.NumericOperand:
		if !types.IsNumeric(arg.typ) {
			return NewInvalidOperandError(op, pos, fmt.Sprintf("has type %s, want a numeric type", typeName(arg.typ)))
		}
	case types.StringOperand:
		if !types.IsString(arg.typ) {
			return NewInvalidOperandError(op, pos, fmt.Sprintf("has type %s, want string", typeName(arg.typ)))
		}
	case types.OrderableOperand:
		if !types.IsOrderable(arg.typ) {
			return NewInvalidOperandError(op, pos, fmt.Sprintf("has type %s, want an orderable type", typeName(arg.typ)))
		}
	case types.CollectionOperand:
		if arg.kind != types.KindConstant || arg.typ.Kind() != reflect.Slice || arg.typ.Elem() != first {
			return NewInvalidOperandError(op, pos, fmt.Sprintf("must be a constant []%s", typeName(first)))
		}
	case types.TypeOperand:
		t, ok := arg.value.(reflect.Type)
		if arg.kind != types.KindConstant || !ok {
			return NewInvalidOperandError(op, pos, "must be a type constant")
		}
		if !types.IsNumeric(t) {
			return NewInvalidOperandError(op, pos, fmt.Sprintf("cast target %s is not numeric", typeName(t)))
		}
	}
	return nil
}

func (n *node) computeHash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeUint := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	writeString := func(s string) {
		writeUint(uint64(len(s)))
		_, _ = d.WriteString(s)
	}

	writeUint(uint64(n.kind))
	writeString(typeName(n.typ))
	switch n.kind {
	case types.KindPath:
		writeString(n.name)
		if n.parent != nil {
			writeUint(n.parent.hash)
		}
	case types.KindConstant:
		writeString(literalKey(n.value))
	case types.KindOperation:
		writeString(string(n.op))
		for _, arg := range n.args {
			writeUint(arg.hash)
		}
	}
	return d.Sum64()
}

func (n *node) equal(o *node) bool {
	if n == o {
		return true
	}
	if n == nil || o == nil {
		return false
	}
	if n.hash != o.hash || n.kind != o.kind || n.typ != o.typ {
		return false
	}
	switch n.kind {
	case types.KindPath:
		return n.name == o.name && n.parent.equal(o.parent)
	case types.KindConstant:
		return literalEqual(n.value, o.value)
	case types.KindOperation:
		if n.op != o.op || len(n.args) != len(o.args) {
			return false
		}
		for i := range n.args {
			if !n.args[i].equal(o.args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// literalKey encodes a constant so that equal literals produce equal keys.
func literalKey(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case reflect.Type:
		return "type:" + typeName(x)
	case time.Time:
		return fmt.Sprintf("time:%d", x.UnixNano())
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("f%d:%d", rv.Type().Bits(), floatBits(rv))
	case reflect.Slice, reflect.Array:
		var sb strings.Builder
		fmt.Fprintf(&sb, "seq:%d[", rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem := literalKey(rv.Index(i).Interface())
			fmt.Fprintf(&sb, "%d:%s", len(elem), elem)
		}
		sb.WriteString("]")
		return sb.String()
	case reflect.Pointer:
		return "ptr:" + typeName(rv.Type())
	}
	return fmt.Sprintf("%#v", v)
}

// literalEqual follows literalKey: instants compare with time.Time.Equal,
// floats by bit pattern with signed zeros merged, and sequences element-wise.
func literalEqual(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	if ta, ok := a.(reflect.Type); ok {
		tb, ok := b.(reflect.Type)
		return ok && ta == tb
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !ra.IsValid() || !rb.IsValid() {
		return ra.IsValid() == rb.IsValid()
	}
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Float32, reflect.Float64:
		return floatBits(ra) == floatBits(rb)
	case reflect.Slice, reflect.Array:
		if ra.Len() != rb.Len() {
			return false
		}
		for i := 0; i < ra.Len(); i++ {
			if !literalEqual(ra.Index(i).Interface(), rb.Index(i).Interface()) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func floatBits(v reflect.Value) uint64 {
	f := v.Float()
	if f == 0 {
		f = 0
	}
	if v.Kind() == reflect.Float32 {
		return uint64(math.Float32bits(float32(f)))
	}
	return math.Float64bits(f)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
