// Package fixturecatalog is an in-memory catalog.Driver backed by static
// fixture definitions instead of a live data source connection. It is
// the catalog cmd/sqlassist and the test suite run against: schemas load
// lazily, chunk by chunk, the way a real driver would page in metadata
// from a remote server.
package fixturecatalog

import "github.com/bastiangx/sqlassist/internal/catalog"

// AttributeFixture describes one column.
type AttributeFixture struct {
	Name string
	Type string
	// Values backs catalog.ValueSourceEnumerable when non-empty.
	Values []string
	// Dictionary backs catalog.ValueSourceDictionary when non-empty.
	// Values and Dictionary are mutually exclusive; Dictionary wins if
	// both are set.
	Dictionary []catalog.DictionaryValue
}

// ReferenceFixture is a foreign-key-like link from the owning table's
// Column to RefTable.RefColumn, resolved within the same schema.
type ReferenceFixture struct {
	Column    string
	RefTable  string
	RefColumn string
}

// TableFixture describes one entity.
type TableFixture struct {
	Name       string
	Columns    []AttributeFixture
	References []ReferenceFixture
}

// ProcedureFixture describes one stored procedure or function.
type ProcedureFixture struct {
	Name       string
	Parameters []string
	IsFunction bool
}

// SchemaFixture is one chunk: the unit the loader materializes as a
// whole, in one step, the first time it's touched.
type SchemaFixture struct {
	Name       string
	Tables     []TableFixture
	Procedures []ProcedureFixture
	// EntityFilter, if non-zero, is installed on the schema's Container
	// for KindEntity when the chunk materializes.
	EntityFilter catalog.GlobFilter
}

// DataSourceFixture is the root fixture: a named data source containing
// zero or more schema chunks.
type DataSourceFixture struct {
	Name    string
	Schemas []SchemaFixture
}

// Sample returns a small, fully-wired data source used by cmd/sqlassist's
// default run and by tests that want a realistic multi-table catalog
// without writing their own fixture.
func Sample() DataSourceFixture {
	return DataSourceFixture{
		Name: "sampledb",
		Schemas: []SchemaFixture{
			{
				Name: "public",
				Tables: []TableFixture{
					{
						Name: "customers",
						Columns: []AttributeFixture{
							{Name: "id", Type: "integer"},
							{Name: "name", Type: "text"},
							{Name: "status", Type: "text", Values: []string{"active", "inactive", "pending"}},
						},
					},
					{
						Name: "orders",
						Columns: []AttributeFixture{
							{Name: "id", Type: "integer"},
							{Name: "customer_id", Type: "integer"},
							{Name: "total", Type: "numeric"},
							{
								Name: "status",
								Type: "text",
								Dictionary: []catalog.DictionaryValue{
									{Label: "New", Value: "NEW"},
									{Label: "Shipped", Value: "SHIPPED"},
									{Label: "Cancelled", Value: "CANCELLED"},
								},
							},
						},
						References: []ReferenceFixture{
							{Column: "customer_id", RefTable: "customers", RefColumn: "id"},
						},
					},
					{
						Name: "order_items",
						Columns: []AttributeFixture{
							{Name: "id", Type: "integer"},
							{Name: "order_id", Type: "integer"},
							{Name: "product_id", Type: "integer"},
							{Name: "quantity", Type: "integer"},
						},
						References: []ReferenceFixture{
							{Column: "order_id", RefTable: "orders", RefColumn: "id"},
							{Column: "product_id", RefTable: "products", RefColumn: "id"},
						},
					},
					{
						Name: "products",
						Columns: []AttributeFixture{
							{Name: "id", Type: "integer"},
							{Name: "name", Type: "text"},
							{Name: "price", Type: "numeric"},
						},
					},
				},
				Procedures: []ProcedureFixture{
					{Name: "calc_total", Parameters: []string{"order_id"}, IsFunction: true},
					{Name: "archive_order", Parameters: []string{"order_id"}, IsFunction: false},
				},
			},
			{
				Name: "audit",
				Tables: []TableFixture{
					{
						Name: "change_log",
						Columns: []AttributeFixture{
							{Name: "id", Type: "integer"},
							{Name: "table_name", Type: "text"},
							{Name: "changed_at", Type: "timestamp"},
						},
					},
					{
						Name: "tmp_staging",
						Columns: []AttributeFixture{
							{Name: "id", Type: "integer"},
						},
					},
				},
				EntityFilter: catalog.GlobFilter{Exclude: []string{"tmp_*"}},
			},
		},
	}
}
