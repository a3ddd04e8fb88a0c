// Package metamodel derives typed paths from a DBML schema.
//
// Each table becomes a root path and each column a child path whose result
// type follows the column's declared DBML type.
package metamodel

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zoobzio/dbml"
	"github.com/zoobzio/exprql"
)

// Catalog holds the paths derived from a DBML project.
type Catalog struct {
	tables  map[string]exprql.Expr[any]
	columns map[string]map[string]exprql.Expression
	log     logrus.FieldLogger
}

// Option configures FromDBML.
type Option func(*Catalog)

// WithLogger sets the logger used to report skipped columns.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Catalog) {
		if log != nil {
			c.log = log
		}
	}
}

// FromDBML builds a catalog from a DBML project. Columns whose type has no
// mapping are skipped with a warning.
func FromDBML(project *dbml.Project, opts ...Option) (*Catalog, error) {
	if project == nil {
		return nil, fmt.Errorf("project cannot be nil")
	}

	c := &Catalog{
		tables:  make(map[string]exprql.Expr[any]),
		columns: make(map[string]map[string]exprql.Expression),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	for _, table := range project.Tables {
		root, err := exprql.TrySimplePath[any](nil, table.Name)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", table.Name, err)
		}
		c.tables[table.Name] = root
		cols := make(map[string]exprql.Expression)
		c.columns[table.Name] = cols

		for _, col := range table.Columns {
			t, ok := ColumnType(col.Type)
			if !ok {
				c.log.WithFields(logrus.Fields{
					"table":  table.Name,
					"column": col.Name,
					"type":   col.Type,
				}).Warn("skipping column with unmapped type")
				continue
			}
			p, err := exprql.TryPathType(root, col.Name, t)
			if err != nil {
				return nil, fmt.Errorf("column %s.%s: %w", table.Name, col.Name, err)
			}
			cols[col.Name] = p
		}
	}
	return c, nil
}

var (
	boolType    = reflect.TypeFor[bool]()
	int16Type   = reflect.TypeFor[int16]()
	int32Type   = reflect.TypeFor[int32]()
	int64Type   = reflect.TypeFor[int64]()
	float32Type = reflect.TypeFor[float32]()
	float64Type = reflect.TypeFor[float64]()
	stringType  = reflect.TypeFor[string]()
	timeType    = reflect.TypeFor[time.Time]()
)

var columnTypes = map[string]reflect.Type{
	"bool":    boolType,
	"boolean": boolType,

	"smallint": int16Type,
	"int2":     int16Type,

	"int":     int32Type,
	"integer": int32Type,
	"int4":    int32Type,
	"serial":  int32Type,

	"bigint":    int64Type,
	"int8":      int64Type,
	"bigserial": int64Type,

	"real":   float32Type,
	"float4": float32Type,

	"float":            float64Type,
	"float8":           float64Type,
	"double":           float64Type,
	"double precision": float64Type,
	"numeric":          float64Type,
	"decimal":          float64Type,

	"varchar": stringType,
	"char":    stringType,
	"text":    stringType,
	"uuid":    stringType,

	"date":        timeType,
	"timestamp":   timeType,
	"timestamptz": timeType,
	"datetime":    timeType,
}

// ColumnType maps a DBML column type to a Go result type. Size and precision
// suffixes such as varchar(255) or numeric(10,2) are ignored.
func ColumnType(dbmlType string) (reflect.Type, bool) {
	name := strings.ToLower(strings.TrimSpace(dbmlType))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	t, ok := columnTypes[name]
	return t, ok
}

// Tables returns the table names in sorted order.
func (c *Catalog) Tables() []string {
	out := make([]string, 0, len(c.tables))
	for name := range c.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Columns returns the mapped column names of table in sorted order.
func (c *Catalog) Columns(table string) []string {
	cols := c.columns[table]
	out := make([]string, 0, len(cols))
	for name := range cols {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Table returns the root path of a table.
func (c *Catalog) Table(name string) (exprql.Expr[any], error) {
	root, ok := c.tables[name]
	if !ok {
		return exprql.Expr[any]{}, fmt.Errorf("table '%s' not found in schema", name)
	}
	return root, nil
}

// Resolve returns the path for a "table.column" reference.
func (c *Catalog) Resolve(ref string) (exprql.Expression, error) {
	table, column, ok := strings.Cut(ref, ".")
	if !ok {
		return nil, fmt.Errorf("invalid reference '%s': want table.column", ref)
	}
	cols, ok := c.columns[table]
	if !ok {
		return nil, fmt.Errorf("table '%s' not found in schema", table)
	}
	p, ok := cols[column]
	if !ok {
		return nil, fmt.Errorf("field '%s' not found in table '%s'", column, table)
	}
	return p, nil
}

// Path is Resolve that panics on unknown references.
func (c *Catalog) Path(ref string) exprql.Expression {
	p, err := c.Resolve(ref)
	if err != nil {
		panic(err)
	}
	return p
}

// Boolean returns a boolean column.
func (c *Catalog) Boolean(ref string) (exprql.BooleanExpr, error) {
	p, err := c.Resolve(ref)
	if err != nil {
		return exprql.BooleanExpr{}, err
	}
	return exprql.View[exprql.BooleanExpr](p)
}

// Text returns a string column.
func (c *Catalog) Text(ref string) (exprql.StringExpr, error) {
	p, err := c.Resolve(ref)
	if err != nil {
		return exprql.StringExpr{}, err
	}
	return exprql.View[exprql.StringExpr](p)
}

// Time returns a timestamp column.
func (c *Catalog) Time(ref string) (exprql.ComparableExpr[time.Time], error) {
	p, err := c.Resolve(ref)
	if err != nil {
		return exprql.ComparableExpr[time.Time]{}, err
	}
	return exprql.View[exprql.ComparableExpr[time.Time]](p)
}

// Number returns a numeric column of type N.
func Number[N exprql.Numeric](c *Catalog, ref string) (exprql.NumberExpr[N], error) {
	p, err := c.Resolve(ref)
	if err != nil {
		return exprql.NumberExpr[N]{}, err
	}
	return exprql.View[exprql.NumberExpr[N]](p)
}
