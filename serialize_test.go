package exprql_test

import (
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/zoobzio/exprql"
)

func TestRender_Golden(t *testing.T) {
	u := newUserPaths()
	createdAt := exprql.ComparablePath[time.Time](u.root, "created_at")
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name string
		expr exprql.Expression
	}{
		{"precedence", u.age.Gt(18).And(u.name.StartsWith("A")).Or(u.active.Not())},
		{"grouping", u.active.Eq(true).And(u.age.Lt(18).Or(u.age.Gt(65)))},
		{"arithmetic", u.age.Multiply(2).AddExpr(u.age.Subtract(1)).GtExpr(u.age.Subtract(1).Multiply(3))},
		{"between_and_null", u.score.NotBetween(1.5, 9.5).Or(u.name.Lower().IsNull())},
		{"membership", u.name.In("a", "b").And(u.id.NotIn(1, 2))},
		{"casts", exprql.CastToNum[float64](u.age.ComparableExpr).Goe(1.5).And(u.score.StringValue().Contains("9"))},
		{"time_range", createdAt.Between(from, to)},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.Assert(t, tt.name, []byte(tt.expr.String()))
		})
	}
}

func TestRender_OrderSpecifiers(t *testing.T) {
	u := newUserPaths()

	orders := []exprql.Order{u.age.Desc(), u.name.Length().Asc(), u.score.Asc()}
	parts := make([]string, len(orders))
	for i, o := range orders {
		parts[i] = o.String()
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "order_by", []byte(strings.Join(parts, "\n")))
}
