// Package schema builds predicates and orderings from declarative YAML or
// JSON documents.
package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zoobzio/exprql"
	"gopkg.in/yaml.v3"
)

// QuerySchema is a filter and ordering in declarative form.
type QuerySchema struct {
	Where   *ConditionSchema `json:"where,omitempty" yaml:"where,omitempty"`
	OrderBy []OrderSchema    `json:"order_by,omitempty" yaml:"order_by,omitempty"`
}

// ConditionSchema represents a condition in declarative form.
//
//nolint:govet // fieldalignment: logical grouping is preferred for readability
type ConditionSchema struct {
	// For simple conditions
	Field    string `json:"field,omitempty" yaml:"field,omitempty"`
	Operator string `json:"operator,omitempty" yaml:"operator,omitempty"`
	Values   []any  `json:"values,omitempty" yaml:"values,omitempty"`

	// For field-to-field comparisons
	RightField string `json:"right_field,omitempty" yaml:"right_field,omitempty"`

	// For registered delegates, applied to Field
	Delegate string `json:"delegate,omitempty" yaml:"delegate,omitempty"`
	Args     []any  `json:"args,omitempty" yaml:"args,omitempty"`

	// For grouped conditions
	Logic      string            `json:"logic,omitempty" yaml:"logic,omitempty"` // "AND" or "OR"
	Conditions []ConditionSchema `json:"conditions,omitempty" yaml:"conditions,omitempty"`

	// Negates the condition
	Not bool `json:"not,omitempty" yaml:"not,omitempty"`
}

// OrderSchema represents ordering in declarative form.
type OrderSchema struct {
	Field     string `json:"field" yaml:"field"`
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty"` // defaults to ASC
}

// PathResolver resolves field references such as "users.age" to paths.
type PathResolver interface {
	Resolve(ref string) (exprql.Expression, error)
}

// Query is the result of building a QuerySchema.
type Query struct {
	// Where is the zero Predicate when the schema has no filter.
	Where   exprql.Predicate
	OrderBy []exprql.Order
}

// Parse decodes a YAML or JSON document.
func Parse(data []byte) (*QuerySchema, error) {
	var qs QuerySchema
	if err := yaml.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("invalid query schema: %w", err)
	}
	return &qs, nil
}

// Build converts a QuerySchema into a predicate and order specifiers. reg may
// be nil when the schema uses no delegates.
func Build(qs *QuerySchema, paths PathResolver, reg *exprql.Registry) (*Query, error) {
	if qs == nil {
		return nil, fmt.Errorf("schema cannot be nil")
	}
	if paths == nil {
		return nil, fmt.Errorf("path resolver cannot be nil")
	}
	b := &builder{paths: paths, reg: reg}

	q := &Query{}
	if qs.Where != nil {
		where, err := b.condition(qs.Where)
		if err != nil {
			return nil, fmt.Errorf("invalid where: %w", err)
		}
		q.Where = where
	}
	for i, o := range qs.OrderBy {
		order, err := b.order(o)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		q.OrderBy = append(q.OrderBy, order)
	}
	return q, nil
}

type builder struct {
	paths PathResolver
	reg   *exprql.Registry
}

func (b *builder) condition(cs *ConditionSchema) (exprql.Predicate, error) {
	p, err := b.positive(cs)
	if err != nil {
		return exprql.Predicate{}, err
	}
	if cs.Not {
		return p.Not(), nil
	}
	return p, nil
}

func (b *builder) positive(cs *ConditionSchema) (exprql.Predicate, error) {
	// Check if it's a group condition
	if cs.Logic != "" {
		if len(cs.Conditions) == 0 {
			return exprql.Predicate{}, fmt.Errorf("condition group requires at least one condition")
		}
		conditions := make([]exprql.Predicate, len(cs.Conditions))
		for i := range cs.Conditions {
			cond, err := b.condition(&cs.Conditions[i])
			if err != nil {
				return exprql.Predicate{}, fmt.Errorf("condition %d: %w", i, err)
			}
			conditions[i] = cond
		}
		switch strings.ToUpper(cs.Logic) {
		case "AND":
			return exprql.AllOf(conditions[0], conditions[1:]...), nil
		case "OR":
			return exprql.AnyOf(conditions[0], conditions[1:]...), nil
		default:
			return exprql.Predicate{}, fmt.Errorf("invalid logic operator: %s", cs.Logic)
		}
	}

	if cs.Field == "" {
		return exprql.Predicate{}, fmt.Errorf("field is required for condition")
	}
	field, err := b.paths.Resolve(cs.Field)
	if err != nil {
		return exprql.Predicate{}, fmt.Errorf("invalid condition field '%s': %w", cs.Field, err)
	}

	// Check if it's a delegate condition
	if cs.Delegate != "" {
		if b.reg == nil {
			return exprql.Predicate{}, fmt.Errorf("delegate %q used without a registry", cs.Delegate)
		}
		return exprql.InvokeAs[exprql.Predicate](b.reg, cs.Delegate, field, cs.Args...)
	}

	if cs.Operator == "" {
		return exprql.Predicate{}, fmt.Errorf("operator is required for condition")
	}
	op, negate, err := ParseOperator(cs.Operator)
	if err != nil {
		return exprql.Predicate{}, err
	}

	// Check if it's a field-to-field comparison
	if cs.RightField != "" {
		if exprql.Arity(op) != 2 || op == exprql.IN || op == exprql.NotIn {
			return exprql.Predicate{}, fmt.Errorf("operator %s cannot compare two fields", cs.Operator)
		}
		right, err := b.paths.Resolve(cs.RightField)
		if err != nil {
			return exprql.Predicate{}, fmt.Errorf("invalid right field '%s': %w", cs.RightField, err)
		}
		return predicate(op, negate, field, right)
	}

	args, err := operands(op, field, cs.Values)
	if err != nil {
		return exprql.Predicate{}, fmt.Errorf("%s: %w", cs.Field, err)
	}
	return predicate(op, negate, args...)
}

func operands(op exprql.Operator, field exprql.Expression, values []any) ([]exprql.Expression, error) {
	switch op {
	case exprql.IN, exprql.NotIn:
		if len(values) == 0 {
			return nil, fmt.Errorf("%s requires at least one value", op)
		}
		set, err := exprql.ConstantAs(reflect.SliceOf(field.Type()), values)
		if err != nil {
			return nil, err
		}
		return []exprql.Expression{field, set}, nil
	}

	want := exprql.Arity(op) - 1
	if len(values) != want {
		return nil, fmt.Errorf("%s requires %d values, got %d", op, want, len(values))
	}
	out := []exprql.Expression{field}
	for i, v := range values {
		c, err := exprql.ConstantAs(field.Type(), v)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func predicate(op exprql.Operator, negate bool, args ...exprql.Expression) (exprql.Predicate, error) {
	e, err := exprql.TryOp[bool](op, args...)
	if err != nil {
		return exprql.Predicate{}, err
	}
	p, err := exprql.View[exprql.Predicate](e)
	if err != nil {
		return exprql.Predicate{}, err
	}
	if negate {
		return p.Not(), nil
	}
	return p, nil
}

func (b *builder) order(o OrderSchema) (exprql.Order, error) {
	if o.Field == "" {
		return nil, fmt.Errorf("field is required for ordering")
	}
	field, err := b.paths.Resolve(o.Field)
	if err != nil {
		return nil, fmt.Errorf("invalid order field '%s': %w", o.Field, err)
	}
	dir, err := ParseDirection(o.Direction)
	if err != nil {
		return nil, err
	}
	return exprql.OrderBy(field, dir)
}

// ParseOperator converts an operator string to an Operator. negate is set for
// operators expressed as the negation of a primitive, such as NOT BETWEEN.
func ParseOperator(opStr string) (op exprql.Operator, negate bool, err error) {
	switch strings.ToUpper(strings.TrimSpace(opStr)) {
	case "=", "==", "EQ":
		return exprql.EQ, false, nil
	case "!=", "<>", "NE":
		return exprql.NE, false, nil
	case ">", "GT":
		return exprql.GT, false, nil
	case ">=", "GE", "GOE":
		return exprql.GOE, false, nil
	case "<", "LT":
		return exprql.LT, false, nil
	case "<=", "LE", "LOE":
		return exprql.LOE, false, nil
	case "BETWEEN":
		return exprql.BETWEEN, false, nil
	case "NOT BETWEEN":
		return exprql.BETWEEN, true, nil
	case "IN":
		return exprql.IN, false, nil
	case "NOT IN":
		return exprql.NotIn, false, nil
	case "IS NULL":
		return exprql.IsNull, false, nil
	case "IS NOT NULL":
		return exprql.IsNotNull, false, nil
	case "LIKE":
		return exprql.LIKE, false, nil
	case "NOT LIKE":
		return exprql.LIKE, true, nil
	case "STARTS WITH", "STARTS_WITH":
		return exprql.StartsWith, false, nil
	case "ENDS WITH", "ENDS_WITH":
		return exprql.EndsWith, false, nil
	case "CONTAINS":
		return exprql.StringContains, false, nil
	default:
		return "", false, fmt.Errorf("unsupported operator: %s", opStr)
	}
}

// ParseDirection converts a direction string to a Direction. The empty string
// means ascending.
func ParseDirection(s string) (exprql.Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ASC":
		return exprql.ASC, nil
	case "DESC":
		return exprql.DESC, nil
	default:
		return "", fmt.Errorf("invalid direction: %s", s)
	}
}
