// Package booleans provides delegates for boolean-typed expressions.
package booleans

import "github.com/zoobzio/exprql"

// Delegate names.
const (
	NameIsTrue  = "isTrue"
	NameIsFalse = "isFalse"
)

// IsTrue returns p = true.
func IsTrue(p exprql.BooleanExpr) exprql.Predicate {
	return p.Eq(true)
}

// IsFalse returns p is not null || p = false.
//
// The disjunction holds for every non-null p, not only false ones. Callers that
// want "known to be false" should use p.Eq(false).
func IsFalse(p exprql.BooleanExpr) exprql.Predicate {
	return p.IsNotNull().Or(p.Eq(false))
}

// Register installs IsTrue and IsFalse under the bool carrier.
func Register(r *exprql.Registry) error {
	if err := exprql.Register(r, NameIsTrue, 0, func(p exprql.BooleanExpr, _ []exprql.Expression) (exprql.Expression, error) {
		return IsTrue(p), nil
	}); err != nil {
		return err
	}
	return exprql.Register(r, NameIsFalse, 0, func(p exprql.BooleanExpr, _ []exprql.Expression) (exprql.Expression, error) {
		return IsFalse(p), nil
	})
}
