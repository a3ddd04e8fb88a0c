// Package exprql provides a typed, immutable expression and predicate algebra.
//
// Expressions are trees of paths, constants and operations. Each tree carries
// a declared result type, and typed views expose only the builder methods
// that make sense for that type. Trees are compared structurally with Equal
// and Hash, so they can be used as map keys through their hash or cached by
// callers.
//
// # Basic Usage
//
// Paths name properties of a root entity. Predicates are built from the
// typed views and composed with boolean operators:
//
//	users := exprql.Root("users")
//	age := exprql.NumberPath[int](users, "age")
//	name := exprql.StringPath(users, "name")
//	active := exprql.BooleanPath(users, "active")
//
//	filter := exprql.AllOf(
//		active.Eq(true),
//		age.Between(18, 65),
//		name.StartsWith("b"),
//	)
//	// filter.String(): users.active = true && users.age between 18 and 65 && startsWith(users.name,"b")
//
// # Ordering
//
// Orderable views produce order specifiers:
//
//	score := exprql.ComparablePath[float64](users, "score")
//	byScore := score.Desc()
//
// # Untyped Construction
//
// Generic code builds operations from untyped operands with TryOp and
// recovers a typed view with View:
//
//	sum, err := exprql.TryOp[int](exprql.Add, age, exprql.ConstantOf(1))
//	num, err := exprql.View[exprql.NumberExpr[int]](sum)
//
// # Delegates
//
// A Registry binds named factories to a carrier type so that front ends
// can resolve method-style calls:
//
//	reg := exprql.NewRegistry()
//	err := exprql.Register(reg, "isAdult", 0,
//		func(recv exprql.NumberExpr[int], _ []exprql.Expression) (exprql.Expression, error) {
//			return recv.Goe(18), nil
//		})
//
// # Front Ends
//
// The celexpr, schema and metamodel packages build expressions from CEL
// filters, YAML condition documents and DBML table definitions.
package exprql
