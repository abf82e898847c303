// Package query builds parameterized SQL queries from logical field names
// mapped to table columns.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps logical field names to qualified column references for
// one table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns map[string]string
	order   []string
}

// NewProjectionMap creates a ProjectionMap for schema.table with the given
// alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps a column to a logical field name, preserving declaration
// order for SELECT lists.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	p.columns[field] = p.alias + "." + column
	p.order = append(p.order, field)
	return p
}

// From returns the FROM clause target ("schema.table alias").
func (p *ProjectionMap) From() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Columns returns the comma-separated SELECT list in declaration order.
func (p *ProjectionMap) Columns() string {
	cols := make([]string, len(p.order))
	for i, field := range p.order {
		cols[i] = p.columns[field]
	}
	return strings.Join(cols, ", ")
}

// Column resolves a logical field name to its qualified column reference.
// Unmapped names pass through unchanged.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.columns[field]; ok {
		return col
	}
	return field
}
