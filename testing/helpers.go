// Package testing provides test utilities for exprql.
package testing

import (
	"strings"
	"testing"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/exprql"
	"github.com/zoobzio/exprql/metamodel"
)

// TestProject returns the DBML project shared by tests.
// Includes users, posts, orders and products tables.
func TestProject() *dbml.Project {
	project := dbml.NewProject("test")

	// Users table
	users := dbml.NewTable("users")
	users.AddColumn(dbml.NewColumn("id", "bigint"))
	users.AddColumn(dbml.NewColumn("username", "varchar"))
	users.AddColumn(dbml.NewColumn("email", "varchar(255)"))
	users.AddColumn(dbml.NewColumn("age", "int"))
	users.AddColumn(dbml.NewColumn("active", "boolean"))
	users.AddColumn(dbml.NewColumn("score", "double precision"))
	users.AddColumn(dbml.NewColumn("created_at", "timestamp"))
	users.AddColumn(dbml.NewColumn("metadata", "jsonb"))
	project.AddTable(users)

	// Posts table
	posts := dbml.NewTable("posts")
	posts.AddColumn(dbml.NewColumn("id", "bigint"))
	posts.AddColumn(dbml.NewColumn("user_id", "bigint"))
	posts.AddColumn(dbml.NewColumn("title", "varchar"))
	posts.AddColumn(dbml.NewColumn("body", "text"))
	posts.AddColumn(dbml.NewColumn("published", "boolean"))
	posts.AddColumn(dbml.NewColumn("views", "int"))
	project.AddTable(posts)

	// Orders table
	orders := dbml.NewTable("orders")
	orders.AddColumn(dbml.NewColumn("id", "bigint"))
	orders.AddColumn(dbml.NewColumn("user_id", "bigint"))
	orders.AddColumn(dbml.NewColumn("total", "numeric(10,2)"))
	orders.AddColumn(dbml.NewColumn("status", "varchar"))
	orders.AddColumn(dbml.NewColumn("created_at", "timestamptz"))
	project.AddTable(orders)

	// Products table
	products := dbml.NewTable("products")
	products.AddColumn(dbml.NewColumn("id", "bigint"))
	products.AddColumn(dbml.NewColumn("name", "varchar"))
	products.AddColumn(dbml.NewColumn("price", "numeric"))
	products.AddColumn(dbml.NewColumn("stock", "smallint"))
	products.AddColumn(dbml.NewColumn("rating", "real"))
	project.AddTable(products)

	return project
}

// TestCatalog builds a path catalog over TestProject.
func TestCatalog(t testing.TB) *metamodel.Catalog {
	t.Helper()
	catalog, err := metamodel.FromDBML(TestProject())
	if err != nil {
		t.Fatalf("Failed to create test catalog: %v", err)
	}
	return catalog
}

// AssertTree compares the serialized form of an expression.
func AssertTree(t *testing.T, expected string, actual exprql.Expression) {
	t.Helper()
	if actual == nil {
		t.Fatalf("Tree mismatch:\nExpected: %s\nActual:   <nil>", expected)
	}
	if got := actual.String(); got != expected {
		t.Errorf("Tree mismatch:\nExpected: %s\nActual:   %s", expected, got)
	}
}

// AssertEqualExpr checks structural equality and hash agreement.
func AssertEqualExpr(t *testing.T, expected, actual exprql.Expression) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("Expressions differ:\nExpected: %s\nActual:   %s", expected, actual)
		return
	}
	if expected.Hash() != actual.Hash() {
		t.Errorf("Equal expressions hash differently: %d != %d (%s)", expected.Hash(), actual.Hash(), expected)
	}
}

// AssertNotEqualExpr checks structural inequality.
func AssertNotEqualExpr(t *testing.T, a, b exprql.Expression) {
	t.Helper()
	if a.Equal(b) {
		t.Errorf("Expected expressions to differ: %s", a)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertErrorContains checks that error message contains substring.
func AssertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q but got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("Expected error containing %q, got: %v", substr, err)
	}
}

// AssertPanics verifies that a function panics.
func AssertPanics(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic but function completed normally")
		}
	}()
	fn()
}

// AssertPanicsWithMessage verifies that a function panics with a specific message.
func AssertPanicsWithMessage(t *testing.T, fn func(), substr string) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("Expected panic containing %q but function completed normally", substr)
			return
		}
		var msg string
		switch v := r.(type) {
		case error:
			msg = v.Error()
		case string:
			msg = v
		default:
			t.Errorf("Panic value is not string or error: %T", r)
			return
		}
		if !strings.Contains(msg, substr) {
			t.Errorf("Expected panic containing %q, got: %s", substr, msg)
		}
	}()
	fn()
}
