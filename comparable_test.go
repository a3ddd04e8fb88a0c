package exprql_test

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/exprql"
	exprqltesting "github.com/zoobzio/exprql/testing"
)

func TestAscDesc_Memoized(t *testing.T) {
	u := newUserPaths()

	asc := u.age.Asc()
	desc := u.age.Desc()
	for i := 0; i < 10; i++ {
		assert.True(t, asc == u.age.Asc(), "Asc() returned a new specifier on call %d", i)
		assert.True(t, desc == u.age.Desc(), "Desc() returned a new specifier on call %d", i)
	}
	assert.False(t, exprql.SameOrder(asc, desc))

	// Views over the same node share the cache.
	view := exprql.MustView[exprql.ComparableExpr[int]](u.age)
	assert.True(t, asc == view.Asc())

	assert.Equal(t, exprql.ASC, asc.Direction())
	assert.Equal(t, exprql.DESC, desc.Direction())
	assert.True(t, asc.Target().Equal(u.age))
	assert.True(t, desc.Expr().Same(u.age))
	assert.Equal(t, "users.age ASC", asc.String())
	assert.Equal(t, "users.age DESC", desc.String())
}

func TestAscDesc_Concurrent(t *testing.T) {
	score := exprql.ComparablePath[float64](exprql.Root("users"), "score")

	const n = 64
	results := make([]exprql.OrderSpecifier[float64], n)
	var start, done sync.WaitGroup
	start.Add(1)
	for i := 0; i < n; i++ {
		done.Add(1)
		go func(i int) {
			defer done.Done()
			start.Wait()
			results[i] = score.Desc()
		}(i)
	}
	start.Done()
	done.Wait()

	for i := range results {
		assert.True(t, results[i] == results[0], "caller %d observed a different specifier", i)
	}
	assert.True(t, results[0] == score.Desc())
}

func TestBetween(t *testing.T) {
	u := newUserPaths()

	p := u.age.Between(18, 65)
	op, ok := exprql.AsOperation(p)
	require.True(t, ok)
	assert.Equal(t, exprql.BETWEEN, op.Operator())
	require.Equal(t, 3, op.Len())
	assert.True(t, op.Arg(0).Same(u.age))

	lo, ok := exprql.AsConstant(op.Arg(1))
	require.True(t, ok)
	hi, ok := exprql.AsConstant(op.Arg(2))
	require.True(t, ok)
	assert.Equal(t, 18, lo.Value())
	assert.Equal(t, 65, hi.Value())

	exprqltesting.AssertTree(t, "users.age between 18 and 65", p)
}

func TestNotBetween_IsNegatedBetween(t *testing.T) {
	u := newUserPaths()

	nb := u.age.NotBetween(18, 65)
	exprqltesting.AssertEqualExpr(t, u.age.Between(18, 65).Not(), nb)

	op, ok := exprql.AsOperation(nb)
	require.True(t, ok)
	assert.Equal(t, exprql.NOT, op.Operator())
	assert.Equal(t, 1, op.Len())

	bounds := exprql.NumberPath[int](u.root, "limit")
	exprqltesting.AssertEqualExpr(t,
		u.age.BetweenExpr(exprql.ConstantOf(0), bounds).Not(),
		u.age.NotBetweenExpr(exprql.ConstantOf(0), bounds))

	exprqltesting.AssertTree(t, "!(users.age between 18 and 65)", nb)
}

func TestOrderingComparisons(t *testing.T) {
	u := newUserPaths()
	since := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	created := exprql.ComparablePath[time.Time](u.root, "created_at")

	tests := []struct {
		name string
		expr exprql.Predicate
		want string
	}{
		{"Lt", u.age.Lt(18), "users.age < 18"},
		{"Gt", u.score.Gt(0.5), "users.score > 0.5"},
		{"Loe", u.name.Loe("m"), `users.name <= "m"`},
		{"Goe", created.Goe(since), "users.created_at >= 2024-01-02T03:04:05Z"},
		{"LtExpr", u.age.LtExpr(exprql.NumberPath[int](u.root, "limit")), "users.age < users.limit"},
		{"GtExpr", u.score.GtExpr(exprql.ConstantOf(1.5)), "users.score > 1.5"},
		{"LoeExpr", u.id.LoeExpr(u.id), "users.id <= users.id"},
		{"GoeExpr", created.GoeExpr(exprql.ConstantOf(since)), "users.created_at >= 2024-01-02T03:04:05Z"},
		{"bool ordering", u.active.Gt(false), "users.active > false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exprqltesting.AssertTree(t, tt.want, tt.expr)
		})
	}
}

func TestCastToNum(t *testing.T) {
	u := newUserPaths()

	cast := exprql.CastToNum[float64](u.age.ComparableExpr)
	assert.Equal(t, reflect.TypeFor[float64](), cast.Type())
	exprqltesting.AssertTree(t, "cast(users.age,float64)", cast)

	op, ok := exprql.AsOperation(cast)
	require.True(t, ok)
	assert.Equal(t, exprql.NumCast, op.Operator())
	target, ok := exprql.AsConstant(op.Arg(1))
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[float64](), target.Value())

	// The cast result is numeric and composes further.
	exprqltesting.AssertTree(t, "cast(users.name,int64) > 10",
		exprql.CastToNum[int64](u.name.ComparableExpr).Gt(10))
}

func TestCastToNumType(t *testing.T) {
	u := newUserPaths()

	t.Run("numeric target", func(t *testing.T) {
		e, err := exprql.CastToNumType(u.score, reflect.TypeFor[int32]())
		require.NoError(t, err)
		assert.Equal(t, reflect.TypeFor[int32](), e.Type())
		exprqltesting.AssertEqualExpr(t, exprql.CastToNum[int32](u.score), e)
	})

	tests := []struct {
		name   string
		expr   exprql.Expression
		target reflect.Type
		msg    string
	}{
		{"string target", u.age, reflect.TypeFor[string](), "cast target string is not numeric"},
		{"bool target", u.age, reflect.TypeFor[bool](), "cast target bool is not numeric"},
		{"time target", u.age, reflect.TypeFor[time.Time](), "cast target time.Time is not numeric"},
		{"nil target", u.age, nil, "cast target is nil"},
		{"unordered operand", u.tags, reflect.TypeFor[int](), "want an orderable type"},
		{"nil operand", nil, reflect.TypeFor[int](), "operand is nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := exprql.CastToNumType(tt.expr, tt.target)
			assert.ErrorIs(t, err, exprql.ErrInvalidOperand)
			exprqltesting.AssertErrorContains(t, err, tt.msg)
		})
	}
}

func TestStringValue_Memoized(t *testing.T) {
	u := newUserPaths()

	s := u.age.StringValue()
	assert.True(t, s.Same(u.age.StringValue()))
	assert.Equal(t, reflect.TypeFor[string](), s.Type())
	exprqltesting.AssertTree(t, `str(users.age) = "42"`, s.Eq("42"))

	viaRuntime, err := exprql.StringValueOf(u.age)
	require.NoError(t, err)
	assert.True(t, viaRuntime.Same(s))

	_, err = exprql.StringValueOf(u.tags)
	assert.ErrorIs(t, err, exprql.ErrInvalidOperand)
}

func TestStringValue_ConcurrentFirstCalls(t *testing.T) {
	for round := 0; round < 20; round++ {
		age := exprql.NumberPath[int](exprql.Root("users"), "age")

		const n = 64
		results := make([]exprql.StringExpr, n)
		var start, done sync.WaitGroup
		start.Add(1)
		for i := 0; i < n; i++ {
			done.Add(1)
			go func(i int) {
				defer done.Done()
				start.Wait()
				results[i] = age.StringValue()
			}(i)
		}
		start.Done()
		done.Wait()

		first := results[0]
		for i, r := range results {
			require.False(t, r.IsZero(), "caller %d got no value", i)
			assert.True(t, r.Same(first), "round %d: caller %d observed a different node", round, i)
		}
		assert.True(t, age.StringValue().Same(first))
		assert.Equal(t, "str(users.age)", first.String())
	}
}
