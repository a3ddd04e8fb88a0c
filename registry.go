package exprql

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Factory builds an expression from a receiver and its explicit arguments.
// Factories must be pure and must not retain or alter the receiver.
type Factory func(receiver Expression, args []Expression) (Expression, error)

// Entry is a registered delegate.
type Entry struct {
	// Carrier is the exact result type of receivers the delegate extends.
	Carrier reflect.Type
	Name    string
	// Arity is the number of explicit arguments, not counting the receiver.
	Arity int
	// ArgTypes optionally fixes the type of each argument. Raw values passed
	// to Invoke are converted with ConstantAs when set.
	ArgTypes []reflect.Type
	Factory  Factory
}

type registryKey struct {
	carrier reflect.Type
	name    string
}

// Registry maps (carrier type, name) to delegate factories.
//
// A registry is populated during configuration and sealed before use. Lookups
// are exact: a delegate registered for one type never resolves for another.
type Registry struct {
	mu      sync.RWMutex
	entries map[registryKey]Entry
	sealed  bool
	log     logrus.FieldLogger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for registration events.
func WithLogger(log logrus.FieldLogger) RegistryOption {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		entries: make(map[registryKey]Entry),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Add registers an entry.
func (r *Registry) Add(e Entry) error {
	if e.Carrier == nil {
		return fmt.Errorf("delegate %q: carrier type is required", e.Name)
	}
	if !isValidIdentifier(e.Name) {
		return fmt.Errorf("invalid delegate name '%s': must be alphanumeric/underscore and start with a letter or underscore", e.Name)
	}
	if e.Factory == nil {
		return fmt.Errorf("delegate %q: factory is required", e.Name)
	}
	if e.Arity < 0 {
		return fmt.Errorf("delegate %q: negative arity %d", e.Name, e.Arity)
	}
	if e.ArgTypes != nil && len(e.ArgTypes) != e.Arity {
		return fmt.Errorf("delegate %q: %d argument types for arity %d", e.Name, len(e.ArgTypes), e.Arity)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("delegate %q: %w", e.Name, ErrRegistrySealed)
	}
	key := registryKey{e.Carrier, e.Name}
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("delegate %q for %s: %w", e.Name, typeName(e.Carrier), ErrDuplicateDelegate)
	}
	r.entries[key] = e.clone()

	r.log.WithFields(logrus.Fields{
		"carrier": typeName(e.Carrier),
		"name":    e.Name,
		"arity":   e.Arity,
	}).Debug("delegate registered")
	return nil
}

// Register adds a delegate whose receiver is the view V. The carrier is the
// result type V carries.
func Register[V capability[V]](r *Registry, name string, arity int, fn func(recv V, args []Expression) (Expression, error)) error {
	if fn == nil {
		return fmt.Errorf("delegate %q: factory is required", name)
	}
	var zero V
	return r.Add(Entry{
		Carrier: zero.carrier(),
		Name:    name,
		Arity:   arity,
		Factory: func(receiver Expression, args []Expression) (Expression, error) {
			recv, err := View[V](receiver)
			if err != nil {
				return nil, err
			}
			return fn(recv, args)
		},
	})
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return
	}
	r.sealed = true
	r.log.WithField("delegates", len(r.entries)).Info("delegate registry sealed")
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Lookup returns the entry registered for exactly (carrier, name).
func (r *Registry) Lookup(carrier reflect.Type, name string) (Entry, error) {
	r.mu.RLock()
	e, ok := r.entries[registryKey{carrier, name}]
	r.mu.RUnlock()
	if !ok {
		return Entry{}, NewUnresolvedDelegateError(carrier, name)
	}
	return e.clone(), nil
}

func (e Entry) clone() Entry {
	if e.ArgTypes != nil {
		e.ArgTypes = append([]reflect.Type(nil), e.ArgTypes...)
	}
	return e
}

// Has reports whether a delegate is registered for (carrier, name).
func (r *Registry) Has(carrier reflect.Type, name string) bool {
	_, err := r.Lookup(carrier, name)
	return err == nil
}

// Invoke resolves name against the receiver's result type and applies the
// factory. Arguments that are not expressions are lifted to constants.
func (r *Registry) Invoke(name string, receiver Expression, args ...any) (Expression, error) {
	if receiver == nil || receiver.ptr() == nil {
		return nil, NewInvalidOperandError("", -1, fmt.Sprintf("delegate %q: receiver is nil", name))
	}
	e, err := r.Lookup(receiver.Type(), name)
	if err != nil {
		return nil, err
	}
	if len(args) != e.Arity {
		return nil, NewInvalidOperandError("", -1,
			fmt.Sprintf("delegate %q expects %d arguments, got %d", name, e.Arity, len(args)))
	}

	wrapped := make([]Expression, len(args))
	for i, arg := range args {
		var w Expression
		if e.ArgTypes != nil {
			w, err = ConstantAs(e.ArgTypes[i], arg)
		} else {
			w, err = Wrap(arg)
		}
		if err != nil {
			return nil, fmt.Errorf("delegate %q argument %d: %w", name, i, err)
		}
		wrapped[i] = w
	}
	return callFactory(e, receiver, wrapped)
}

// callFactory converts construction panics raised by capability methods into
// errors.
func callFactory(e Entry, receiver Expression, args []Expression) (out Expression, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			perr, ok := rec.(error)
			if !ok || !errors.Is(perr, ErrInvalidOperand) {
				panic(rec)
			}
			out, err = nil, fmt.Errorf("delegate %q: %w", e.Name, perr)
		}
	}()
	out, err = e.Factory(receiver, args)
	if err != nil {
		return nil, fmt.Errorf("delegate %q: %w", e.Name, err)
	}
	if out == nil || out.ptr() == nil {
		return nil, fmt.Errorf("delegate %q returned no expression", e.Name)
	}
	return out, nil
}

// InvokeAs is Invoke followed by View.
func InvokeAs[V capability[V]](r *Registry, name string, receiver Expression, args ...any) (V, error) {
	var zero V
	out, err := r.Invoke(name, receiver, args...)
	if err != nil {
		return zero, err
	}
	return View[V](out)
}

// Entries returns all registered entries ordered by carrier then name.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		ci, cj := typeName(out[i].Carrier), typeName(out[j].Carrier)
		if ci != cj {
			return ci < cj
		}
		return out[i].Name < out[j].Name
	})
	return out
}
