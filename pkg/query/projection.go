// Package query builds parameterized SELECT statements over a fixed set of
// columns. Only projected fields can appear in WHERE or ORDER BY clauses,
// so caller-supplied field names never reach the SQL text.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps API field names to qualified columns of one table.
type ProjectionMap struct {
	table   string
	alias   string
	columns map[string]string
	order   []string
}

func NewProjectionMap(table, alias string) *ProjectionMap {
	return &ProjectionMap{
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project exposes column under field. Columns are selected in the order
// they are projected.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns[field] = qualified
	p.order = append(p.order, qualified)
	return p
}

// From returns the table reference with its alias.
func (p *ProjectionMap) From() string {
	return fmt.Sprintf("%s %s", p.table, p.alias)
}

// Column returns the qualified column for field.
func (p *ProjectionMap) Column(field string) (string, bool) {
	col, ok := p.columns[field]
	return col, ok
}

// Columns returns the select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.order, ", ")
}
