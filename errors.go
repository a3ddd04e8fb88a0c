package exprql

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/zoobzio/exprql/internal/types"
)

var (
	// ErrInvalidOperand matches every InvalidOperandError.
	ErrInvalidOperand = errors.New("invalid operand")

	// ErrUnresolvedDelegate matches every UnresolvedDelegateError.
	ErrUnresolvedDelegate = errors.New("unresolved delegate")
)

// InvalidOperandError reports operands that do not fit an operator's signature.
// Position is the zero-based operand index, or -1 when the whole operand list
// is at fault.
type InvalidOperandError struct {
	Operator types.Operator
	Reason   string
	Position int
}

func (e InvalidOperandError) Error() string {
	if e.Operator == "" {
		return e.Reason
	}
	if e.Position < 0 {
		return fmt.Sprintf("%s: %s", e.Operator, e.Reason)
	}
	return fmt.Sprintf("%s: operand %d %s", e.Operator, e.Position, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidOperand) succeed.
func (e InvalidOperandError) Is(target error) bool {
	return target == ErrInvalidOperand
}

// NewInvalidOperandError creates a new invalid operand error.
func NewInvalidOperandError(op types.Operator, position int, reason string) error {
	return InvalidOperandError{Operator: op, Position: position, Reason: reason}
}

// UnresolvedDelegateError reports a delegate lookup with no registered factory.
type UnresolvedDelegateError struct {
	Carrier reflect.Type
	Name    string
}

func (e UnresolvedDelegateError) Error() string {
	return fmt.Sprintf("no delegate %q registered for %s", e.Name, typeName(e.Carrier))
}

// Is makes errors.Is(err, ErrUnresolvedDelegate) succeed.
func (e UnresolvedDelegateError) Is(target error) bool {
	return target == ErrUnresolvedDelegate
}

// NewUnresolvedDelegateError creates a new unresolved delegate error.
func NewUnresolvedDelegateError(carrier reflect.Type, name string) error {
	return UnresolvedDelegateError{Carrier: carrier, Name: name}
}

var (
	// ErrRegistrySealed is returned when adding to a sealed registry.
	ErrRegistrySealed = errors.New("registry is sealed")

	// ErrDuplicateDelegate is returned when a (carrier, name) pair is registered twice.
	ErrDuplicateDelegate = errors.New("duplicate delegate")
)
