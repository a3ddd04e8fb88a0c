package exprql

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/zoobzio/exprql/internal/types"
)

// ConstantOf wraps a literal value in a constant expression.
func ConstantOf[D any](v D) Expr[D] {
	return Expr[D]{base{constantNode(v)}}
}

// Wrap lifts a raw value into a constant expression. Values that already are
// expressions are returned unchanged.
func Wrap(v any) (Expression, error) {
	switch x := v.(type) {
	case nil:
		return nil, NewInvalidOperandError("", -1, "cannot wrap a nil literal")
	case Expression:
		if x.ptr() == nil {
			return nil, NewInvalidOperandError("", -1, "cannot wrap a zero expression")
		}
		return x, nil
	case reflect.Type:
		return base{typeConstant(x)}, nil
	}
	return base{newConstant(reflect.TypeOf(v), v)}, nil
}

// ConstantAs builds a constant of type t from v, converting between numeric
// types, string types and bool only when no information is lost. Strings are
// parsed as RFC 3339 timestamps when t is time.Time. Expressions are returned
// unchanged if their type already is t.
func ConstantAs(t reflect.Type, v any) (Expression, error) {
	if t == nil {
		return nil, NewInvalidOperandError("", -1, "constant type is nil")
	}
	if e, ok := v.(Expression); ok {
		if e.ptr() == nil || !assignable(e.Type(), t) {
			return nil, NewInvalidOperandError("", -1,
				fmt.Sprintf("expression of type %s used where %s is required", exprTypeName(e), typeName(t)))
		}
		return e, nil
	}
	if v == nil {
		return nil, NewInvalidOperandError("", -1, "cannot wrap a nil literal")
	}
	if t.Kind() == reflect.Interface {
		return Wrap(v)
	}

	rv := reflect.ValueOf(v)
	if rv.Type() == t {
		return base{newConstant(t, v)}, nil
	}

	switch {
	case types.IsTime(t):
		s, ok := v.(string)
		if !ok {
			break
		}
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, NewInvalidOperandError("", -1, fmt.Sprintf("invalid timestamp %q: %v", s, err))
		}
		return base{newConstant(t, ts)}, nil

	case types.IsNumeric(t) && types.IsNumeric(rv.Type()):
		converted := rv.Convert(t)
		if !fits(rv, converted) {
			return nil, NewInvalidOperandError("", -1,
				fmt.Sprintf("literal %v does not fit %s", v, typeName(t)))
		}
		return base{newConstant(t, converted.Interface())}, nil

	case types.IsString(t) && types.IsString(rv.Type()),
		types.IsBoolean(t) && types.IsBoolean(rv.Type()):
		return base{newConstant(t, rv.Convert(t).Interface())}, nil

	case t.Kind() == reflect.Slice && rv.Kind() == reflect.Slice:
		out := reflect.MakeSlice(t, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := ConstantAs(t.Elem(), rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(elem.ptr().value))
		}
		return base{newConstant(t, out.Interface())}, nil
	}

	return nil, NewInvalidOperandError("", -1,
		fmt.Sprintf("literal of type %s cannot be used as %s", typeName(rv.Type()), typeName(t)))
}

// fits reports whether converted holds src without loss. Between float types
// rounding is accepted and only overflow to infinity is rejected.
func fits(src, converted reflect.Value) bool {
	if src.CanFloat() && converted.CanFloat() {
		f := src.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return true
		}
		return !math.IsInf(converted.Float(), 0)
	}
	return converted.Convert(src.Type()).Interface() == src.Interface() && negative(converted) == negative(src)
}

func negative(v reflect.Value) bool {
	switch {
	case v.CanInt():
		return v.Int() < 0
	case v.CanFloat():
		return v.Float() < 0
	}
	return false
}

func constantNode[D any](v D) *node {
	t := reflect.TypeFor[D]()
	if t.Kind() == reflect.Interface {
		if dyn := reflect.TypeOf(v); dyn != nil {
			t = dyn
		}
	}
	return newConstant(t, v)
}

func collectionNode[D any](values []D) *node {
	owned := make([]D, len(values))
	copy(owned, values)
	return newConstant(reflect.TypeFor[[]D](), owned)
}

func typeConstant(t reflect.Type) *node {
	return newConstant(typeType, t)
}

func exprTypeName(e Expression) string {
	if e.ptr() == nil {
		return "<zero>"
	}
	return typeName(e.Type())
}
