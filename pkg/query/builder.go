package query

import (
	"fmt"
	"strings"
)

// SortField is one ORDER BY term.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields reads "field,-other" into sort terms. A leading "-"
// sorts descending.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if after, ok := strings.CutPrefix(part, "-"); ok {
			fields = append(fields, SortField{Field: after, Descending: true})
		} else {
			fields = append(fields, SortField{Field: part})
		}
	}
	return fields
}

type condition struct {
	clause string // uses %s for each placeholder
	args   []any
}

// Builder accumulates conditions and ordering for one projection.
// Placeholders are numbered when a statement is built.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// OrderByFields replaces the default ordering. Unknown fields are ignored.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// WhereEquals adds field = value. Unknown fields are ignored.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	col, ok := b.projection.Column(field)
	if !ok || value == nil {
		return b
	}
	b.conditions = append(b.conditions, condition{
		clause: col + " = %s",
		args:   []any{value},
	})
	return b
}

// WhereSearch matches search as a case-insensitive substring of any of
// fields. An empty search adds nothing.
func (b *Builder) WhereSearch(search string, fields ...string) *Builder {
	search = strings.TrimSpace(search)
	if search == "" {
		return b
	}

	pattern := "%" + escapeLike(search) + "%"
	var clauses []string
	var args []any
	for _, f := range fields {
		if col, ok := b.projection.Column(f); ok {
			clauses = append(clauses, col+" ILIKE %s")
			args = append(args, pattern)
		}
	}
	if len(clauses) == 0 {
		return b
	}

	b.conditions = append(b.conditions, condition{
		clause: "(" + strings.Join(clauses, " OR ") + ")",
		args:   args,
	})
	return b
}

// Build returns the full filtered, ordered SELECT.
func (b *Builder) Build() (string, []any) {
	where, args := b.where()
	return fmt.Sprintf("SELECT %s FROM %s%s%s",
		b.projection.Columns(), b.projection.From(), where, b.orderBy()), args
}

// BuildCount counts the rows Build would return.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.where()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.From(), where), args
}

// BuildPage returns one page of Build. page is 1-based.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	q, args := b.Build()
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", q, pageSize, (page-1)*pageSize), args
}

func (b *Builder) where() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var args []any
	clauses := make([]string, len(b.conditions))
	for i, c := range b.conditions {
		marks := make([]any, len(c.args))
		for j := range c.args {
			args = append(args, c.args[j])
			marks[j] = fmt.Sprintf("$%d", len(args))
		}
		clauses[i] = fmt.Sprintf(c.clause, marks...)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (b *Builder) orderBy() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}

	var parts []string
	for _, f := range fields {
		col, ok := b.projection.Column(f.Field)
		if !ok {
			continue
		}
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
