package exprql

import "github.com/zoobzio/exprql/internal/types"

// Operator identifies the operation applied by an Operation node.
type Operator = types.Operator

// Re-export operator constants for public API.
const (
	// Comparison operators.
	EQ  = types.EQ
	NE  = types.NE
	LT  = types.LT
	GT  = types.GT
	LOE = types.LOE
	GOE = types.GOE

	// Range and membership.
	BETWEEN = types.BETWEEN
	IN      = types.IN
	NotIn   = types.NotIn

	// Boolean logic.
	AND = types.AND
	OR  = types.OR
	NOT = types.NOT

	// Null checks.
	IsNull    = types.IsNull
	IsNotNull = types.IsNotNull

	// Casts.
	NumCast    = types.NumCast
	StringCast = types.StringCast

	// String operators.
	LIKE           = types.LIKE
	StartsWith     = types.StartsWith
	EndsWith       = types.EndsWith
	StringContains = types.StringContains
	Lower          = types.Lower
	Upper          = types.Upper
	StringLength   = types.StringLength

	// Arithmetic.
	Add  = types.Add
	Sub  = types.Sub
	Mult = types.Mult
	Div  = types.Div
)

// Arity returns the number of operands op takes, or -1 for unknown operators.
func Arity(op Operator) int {
	sig, ok := types.SignatureOf(op)
	if !ok {
		return -1
	}
	return sig.Arity()
}
