package exprql

import (
	"fmt"
	"reflect"
)

// Root creates a root path, typically naming an entity or query variable.
// Panics if name is not a valid identifier.
func Root(name string) Expr[any] {
	p, err := TryPathOf[Expr[any]](nil, name)
	if err != nil {
		panic(err)
	}
	return p
}

// TryPathOf creates a path with the view V, returning an error if the name is
// invalid. parent may be nil for root paths.
func TryPathOf[V capability[V]](parent Expression, name string) (V, error) {
	var zero V
	if !isValidIdentifier(name) {
		return zero, fmt.Errorf("invalid path name '%s': must be alphanumeric/underscore and start with a letter or underscore", name)
	}
	var pn *node
	if parent != nil {
		pn = parent.ptr()
		if pn == nil {
			return zero, fmt.Errorf("invalid parent for path '%s': zero expression", name)
		}
	}
	return zero.wrap(newPath(zero.carrier(), pn, name)), nil
}

// PathOf creates a path with the view V.
// Panics if the name is invalid.
func PathOf[V capability[V]](parent Expression, name string) V {
	p, err := TryPathOf[V](parent, name)
	if err != nil {
		panic(err)
	}
	return p
}

// TryBooleanPath creates a boolean path, returning an error if invalid.
func TryBooleanPath(parent Expression, name string) (BooleanExpr, error) {
	return TryPathOf[BooleanExpr](parent, name)
}

// BooleanPath creates a boolean path.
func BooleanPath(parent Expression, name string) BooleanExpr {
	return PathOf[BooleanExpr](parent, name)
}

// TryStringPath creates a string path, returning an error if invalid.
func TryStringPath(parent Expression, name string) (StringExpr, error) {
	return TryPathOf[StringExpr](parent, name)
}

// StringPath creates a string path.
func StringPath(parent Expression, name string) StringExpr {
	return PathOf[StringExpr](parent, name)
}

// TryNumberPath creates a numeric path, returning an error if invalid.
func TryNumberPath[N Numeric](parent Expression, name string) (NumberExpr[N], error) {
	return TryPathOf[NumberExpr[N]](parent, name)
}

// NumberPath creates a numeric path.
func NumberPath[N Numeric](parent Expression, name string) NumberExpr[N] {
	return PathOf[NumberExpr[N]](parent, name)
}

// TryComparablePath creates an orderable path, returning an error if invalid.
func TryComparablePath[D Orderable](parent Expression, name string) (ComparableExpr[D], error) {
	return TryPathOf[ComparableExpr[D]](parent, name)
}

// ComparablePath creates an orderable path.
func ComparablePath[D Orderable](parent Expression, name string) ComparableExpr[D] {
	return PathOf[ComparableExpr[D]](parent, name)
}

// TrySimplePath creates a path without ordering capabilities, returning an
// error if invalid.
func TrySimplePath[D any](parent Expression, name string) (Expr[D], error) {
	return TryPathOf[Expr[D]](parent, name)
}

// SimplePath creates a path without ordering capabilities.
func SimplePath[D any](parent Expression, name string) Expr[D] {
	return PathOf[Expr[D]](parent, name)
}

// TryPathType creates a path of a runtime type t. The result is untyped; use
// View to select a capability once the type is known.
func TryPathType(parent Expression, name string, t reflect.Type) (Expression, error) {
	if t == nil {
		return nil, fmt.Errorf("invalid path '%s': nil type", name)
	}
	if _, err := TryPathOf[Expr[any]](parent, name); err != nil {
		return nil, err
	}
	var pn *node
	if parent != nil {
		pn = parent.ptr()
	}
	return base{newPath(t, pn, name)}, nil
}

// Only allows alphanumeric characters and underscores, must start with letter or underscore.
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}

	first := s[0]
	if !((first >= 'a' && first <= 'z') ||
		(first >= 'A' && first <= 'Z') ||
		first == '_') {
		return false
	}

	for i := 1; i < len(s); i++ {
		ch := s[i]
		if !((ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') ||
			ch == '_') {
			return false
		}
	}

	return true
}
