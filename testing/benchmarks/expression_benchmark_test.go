// Package benchmarks provides performance benchmarks for exprql.
package benchmarks

import (
	"testing"

	"github.com/zoobzio/exprql"
	"github.com/zoobzio/exprql/celexpr"
	"github.com/zoobzio/exprql/ext/booleans"
	"github.com/zoobzio/exprql/metamodel"
	exprqltesting "github.com/zoobzio/exprql/testing"
)

func createBenchmarkCatalog(b *testing.B) *metamodel.Catalog {
	b.Helper()
	return exprqltesting.TestCatalog(b)
}

// BenchmarkSimplePredicate measures a single comparison.
func BenchmarkSimplePredicate(b *testing.B) {
	age := exprql.ComparablePath[int](exprql.Root("users"), "age")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = age.Gt(18)
	}
}

// BenchmarkCompoundPredicate measures a predicate with several combinators.
func BenchmarkCompoundPredicate(b *testing.B) {
	users := exprql.Root("users")
	age := exprql.ComparablePath[int](users, "age")
	active := exprql.BooleanPath(users, "active")
	name := exprql.StringPath(users, "username")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = exprql.AllOf(
			age.Between(18, 65),
			active.Eq(true),
			name.StartsWith("a").Or(name.In("bob", "carol")),
		)
	}
}

// BenchmarkAscMemoized measures repeated access to a cached order specifier.
func BenchmarkAscMemoized(b *testing.B) {
	age := exprql.ComparablePath[int](exprql.Root("users"), "age")
	_ = age.Asc()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = age.Asc()
	}
}

// BenchmarkStringValueParallel measures concurrent access to the cached cast.
func BenchmarkStringValueParallel(b *testing.B) {
	age := exprql.ComparablePath[int](exprql.Root("users"), "age")

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = age.StringValue()
		}
	})
}

// BenchmarkEqual measures structural comparison of separately built trees.
func BenchmarkEqual(b *testing.B) {
	build := func() exprql.Predicate {
		users := exprql.Root("users")
		return exprql.ComparablePath[int](users, "age").Between(18, 65).
			And(exprql.BooleanPath(users, "active").Eq(true))
	}
	x, y := build(), build()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if !x.Equal(y) {
			b.Fatal("expected equal trees")
		}
	}
}

// BenchmarkDelegateInvoke measures registry resolution and expansion.
func BenchmarkDelegateInvoke(b *testing.B) {
	reg := exprql.NewRegistry()
	if err := booleans.Register(reg); err != nil {
		b.Fatal(err)
	}
	reg.Seal()
	active := exprql.BooleanPath(exprql.Root("users"), "active")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := reg.Invoke(booleans.NameIsFalse, active); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCELCompile measures CEL filter compilation.
func BenchmarkCELCompile(b *testing.B) {
	engine, err := celexpr.NewEngine(createBenchmarkCatalog(b))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := engine.Compile(`users.age >= 18 && users.active == true && users.username.startsWith("a")`); err != nil {
			b.Fatal(err)
		}
	}
}
