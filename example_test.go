package exprql_test

import (
	"fmt"

	"github.com/zoobzio/exprql"
)

func Example() {
	users := exprql.Root("users")
	age := exprql.NumberPath[int](users, "age")
	name := exprql.StringPath(users, "name")
	active := exprql.BooleanPath(users, "active")

	where := exprql.AllOf(
		active.Eq(true),
		age.Between(18, 65),
		name.Lower().StartsWith("a").Or(name.IsNull()),
	)
	fmt.Println(where)
	fmt.Println(age.Desc())
	// Output:
	// users.active = true && users.age between 18 and 65 && (startsWith(lower(users.name),"a") || users.name is null)
	// users.age DESC
}

func ExampleComparableExpr_Asc() {
	age := exprql.NumberPath[int](exprql.Root("users"), "age")

	fmt.Println(age.Asc() == age.Asc())
	fmt.Println(age.Asc() == age.Desc())
	// Output:
	// true
	// false
}

func ExampleRegistry_Invoke() {
	age := exprql.NumberPath[int](exprql.Root("users"), "age")

	r := exprql.NewRegistry()
	_ = exprql.Register(r, "adult", 0, func(recv exprql.NumberExpr[int], _ []exprql.Expression) (exprql.Expression, error) {
		return recv.Goe(18), nil
	})
	r.Seal()

	adult, err := r.Invoke("adult", age)
	fmt.Println(adult, err)

	_, err = r.Invoke("adult", exprql.NumberPath[int64](exprql.Root("users"), "id"))
	fmt.Println(err)
	// Output:
	// users.age >= 18 <nil>
	// no delegate "adult" registered for int64
}

func ExampleInspect() {
	age := exprql.NumberPath[int](exprql.Root("users"), "age")

	var paths []string
	exprql.Inspect(age.Gt(1).And(age.Lt(9)), func(e exprql.Expression) bool {
		if p, ok := exprql.AsPath(e); ok {
			paths = append(paths, p.Name())
		}
		return true
	})
	fmt.Println(paths)
	// Output:
	// [age age]
}
