package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/exprql"
	"github.com/zoobzio/exprql/ext/booleans"
	"github.com/zoobzio/exprql/schema"
	exprqltesting "github.com/zoobzio/exprql/testing"
)

func testRegistry(t *testing.T) *exprql.Registry {
	t.Helper()
	reg := exprql.NewRegistry()
	require.NoError(t, booleans.Register(reg))
	reg.Seal()
	return reg
}

func TestParseAndBuild_YAML(t *testing.T) {
	catalog := exprqltesting.TestCatalog(t)

	doc := `
where:
  logic: AND
  conditions:
    - field: users.age
      operator: BETWEEN
      values: [18, 65]
    - logic: OR
      conditions:
        - field: users.email
          operator: ENDS WITH
          values: ["@example.com"]
        - field: users.username
          operator: IS NULL
    - field: users.active
      delegate: isTrue
order_by:
  - field: users.score
    direction: desc
  - field: users.username
`
	qs, err := schema.Parse([]byte(doc))
	require.NoError(t, err)

	q, err := schema.Build(qs, catalog, testRegistry(t))
	require.NoError(t, err)

	exprqltesting.AssertTree(t,
		`users.age between 18 and 65 && (endsWith(users.email,"@example.com") || users.username is null) && users.active = true`,
		q.Where)

	require.Len(t, q.OrderBy, 2)
	assert.Equal(t, "users.score DESC", q.OrderBy[0].String())
	username, err := catalog.Text("users.username")
	require.NoError(t, err)
	assert.True(t, exprql.SameOrder(q.OrderBy[1], username.Asc()))
}

func TestParseAndBuild_JSON(t *testing.T) {
	catalog := exprqltesting.TestCatalog(t)

	qs, err := schema.Parse([]byte(`{"where": {"field": "users.age", "operator": ">=", "right_field": "posts.views", "not": true}}`))
	require.NoError(t, err)

	q, err := schema.Build(qs, catalog, nil)
	require.NoError(t, err)
	exprqltesting.AssertTree(t, "!(users.age >= posts.views)", q.Where)
	assert.Empty(t, q.OrderBy)
}

func TestBuild_Operators(t *testing.T) {
	catalog := exprqltesting.TestCatalog(t)

	tests := []struct {
		name string
		cond schema.ConditionSchema
		want string
	}{
		{"equals", schema.ConditionSchema{Field: "users.age", Operator: "=", Values: []any{30}}, "users.age = 30"},
		{"not equals", schema.ConditionSchema{Field: "users.age", Operator: "<>", Values: []any{30}}, "users.age != 30"},
		{"not between", schema.ConditionSchema{Field: "users.age", Operator: "not between", Values: []any{1, 2}}, "!(users.age between 1 and 2)"},
		{"in", schema.ConditionSchema{Field: "users.age", Operator: "IN", Values: []any{18, 21}}, "users.age in [18, 21]"},
		{"not in", schema.ConditionSchema{Field: "users.username", Operator: "NOT IN", Values: []any{"a", "b"}}, `users.username not in ["a", "b"]`},
		{"not like", schema.ConditionSchema{Field: "users.email", Operator: "NOT LIKE", Values: []any{"%@test%"}}, `!(users.email like "%@test%")`},
		{"is not null", schema.ConditionSchema{Field: "users.score", Operator: "IS NOT NULL"}, "users.score is not null"},
		{"contains", schema.ConditionSchema{Field: "users.username", Operator: "contains", Values: []any{"bob"}}, `contains(users.username,"bob")`},
		{"starts with", schema.ConditionSchema{Field: "users.username", Operator: "STARTS_WITH", Values: []any{"b"}}, `startsWith(users.username,"b")`},
		{"widened literal", schema.ConditionSchema{Field: "users.score", Operator: "<", Values: []any{2}}, "users.score < 2"},
		{"float32 column", schema.ConditionSchema{Field: "products.rating", Operator: ">=", Values: []any{4.7}}, "products.rating >= 4.7"},
		{"timestamp literal", schema.ConditionSchema{Field: "users.created_at", Operator: ">", Values: []any{"2024-01-01T00:00:00Z"}}, "users.created_at > 2024-01-01T00:00:00Z"},
		{"negated group", schema.ConditionSchema{Logic: "or", Not: true, Conditions: []schema.ConditionSchema{
			{Field: "users.age", Operator: "<", Values: []any{18}},
			{Field: "users.active", Operator: "=", Values: []any{false}},
		}}, "!(users.age < 18 || users.active = false)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond := tt.cond
			q, err := schema.Build(&schema.QuerySchema{Where: &cond}, catalog, nil)
			require.NoError(t, err)
			exprqltesting.AssertTree(t, tt.want, q.Where)
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	catalog := exprqltesting.TestCatalog(t)
	reg := testRegistry(t)

	tests := []struct {
		name string
		qs   schema.QuerySchema
		want string
	}{
		{"unsupported operator", schema.QuerySchema{Where: &schema.ConditionSchema{Field: "users.age", Operator: "~", Values: []any{1}}}, "unsupported operator: ~"},
		{"missing field", schema.QuerySchema{Where: &schema.ConditionSchema{Operator: "="}}, "field is required for condition"},
		{"missing operator", schema.QuerySchema{Where: &schema.ConditionSchema{Field: "users.age"}}, "operator is required for condition"},
		{"unknown field", schema.QuerySchema{Where: &schema.ConditionSchema{Field: "users.nope", Operator: "=", Values: []any{1}}}, "invalid condition field 'users.nope'"},
		{"value count", schema.QuerySchema{Where: &schema.ConditionSchema{Field: "users.age", Operator: "BETWEEN", Values: []any{1}}}, "BETWEEN requires 2 values, got 1"},
		{"empty in", schema.QuerySchema{Where: &schema.ConditionSchema{Field: "users.age", Operator: "IN"}}, "IN requires at least one value"},
		{"lossy value", schema.QuerySchema{Where: &schema.ConditionSchema{Field: "users.age", Operator: "=", Values: []any{1.5}}}, "value 0: literal 1.5 does not fit int32"},
		{"mistyped value", schema.QuerySchema{Where: &schema.ConditionSchema{Field: "users.age", Operator: "LIKE", Values: []any{"x"}}}, "literal of type string cannot be used as int32"},
		{"operator class", schema.QuerySchema{Where: &schema.ConditionSchema{Field: "users.age", Operator: "LIKE", RightField: "users.username"}}, "LIKE: operand 0 has type int32, want string"},
		{"field comparison with in", schema.QuerySchema{Where: &schema.ConditionSchema{Field: "users.age", Operator: "IN", RightField: "posts.views"}}, "operator IN cannot compare two fields"},
		{"invalid logic", schema.QuerySchema{Where: &schema.ConditionSchema{Logic: "XOR", Conditions: []schema.ConditionSchema{{Field: "users.age", Operator: "IS NULL"}}}}, "invalid logic operator: XOR"},
		{"empty group", schema.QuerySchema{Where: &schema.ConditionSchema{Logic: "AND"}}, "condition group requires at least one condition"},
		{"nested error", schema.QuerySchema{Where: &schema.ConditionSchema{Logic: "AND", Conditions: []schema.ConditionSchema{{Field: "users.age", Operator: "IS NULL"}, {Field: "x.y", Operator: "IS NULL"}}}}, "condition 1: invalid condition field 'x.y'"},
		{"unknown delegate", schema.QuerySchema{Where: &schema.ConditionSchema{Field: "users.age", Delegate: "isTrue"}}, `no delegate "isTrue" registered for int32`},
		{"order direction", schema.QuerySchema{OrderBy: []schema.OrderSchema{{Field: "users.age", Direction: "up"}}}, "order 0: invalid direction: up"},
		{"order field", schema.QuerySchema{OrderBy: []schema.OrderSchema{{Field: ""}}}, "field is required for ordering"},
		{"order unknown field", schema.QuerySchema{OrderBy: []schema.OrderSchema{{Field: "users.metadata"}}}, "invalid order field 'users.metadata'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := tt.qs
			_, err := schema.Build(&qs, catalog, reg)
			exprqltesting.AssertErrorContains(t, err, tt.want)
		})
	}

	t.Run("delegate without registry", func(t *testing.T) {
		qs := &schema.QuerySchema{Where: &schema.ConditionSchema{Field: "users.active", Delegate: "isFalse"}}
		_, err := schema.Build(qs, catalog, nil)
		exprqltesting.AssertErrorContains(t, err, `delegate "isFalse" used without a registry`)

		q, err := schema.Build(qs, catalog, reg)
		require.NoError(t, err)
		exprqltesting.AssertTree(t, "users.active is not null || users.active = false", q.Where)
	})

	t.Run("nil inputs", func(t *testing.T) {
		_, err := schema.Build(nil, catalog, nil)
		exprqltesting.AssertErrorContains(t, err, "schema cannot be nil")
		_, err = schema.Build(&schema.QuerySchema{}, nil, nil)
		exprqltesting.AssertErrorContains(t, err, "path resolver cannot be nil")
	})

	t.Run("invalid document", func(t *testing.T) {
		_, err := schema.Parse([]byte("where: ["))
		exprqltesting.AssertErrorContains(t, err, "invalid query schema")
	})
}

func TestParseOperator(t *testing.T) {
	tests := []struct {
		in     string
		op     exprql.Operator
		negate bool
	}{
		{"==", exprql.EQ, false},
		{"ne", exprql.NE, false},
		{" >= ", exprql.GOE, false},
		{"LE", exprql.LOE, false},
		{"NOT BETWEEN", exprql.BETWEEN, true},
		{"not in", exprql.NotIn, false},
		{"is null", exprql.IsNull, false},
		{"NOT LIKE", exprql.LIKE, true},
		{"ends_with", exprql.EndsWith, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			op, negate, err := schema.ParseOperator(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.op, op)
			assert.Equal(t, tt.negate, negate)
		})
	}
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]exprql.Direction{"": exprql.ASC, "asc": exprql.ASC, "DESC": exprql.DESC} {
		got, err := schema.ParseDirection(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := schema.ParseDirection("sideways")
	exprqltesting.AssertErrorContains(t, err, "invalid direction: sideways")
}
