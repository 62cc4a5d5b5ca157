// Package querybuilder renders small PostgreSQL statements with numbered
// placeholders. It only covers the shapes the repositories need.
package querybuilder

import (
	"errors"
	"strconv"
	"strings"
)

// params accumulates bound arguments while a statement renders.
type params struct {
	sb   strings.Builder
	args []any
}

func (p *params) bind(v any) {
	p.args = append(p.args, v)
	p.sb.WriteByte('$')
	p.sb.WriteString(strconv.Itoa(len(p.args)))
}

// expr writes raw SQL, replacing each '?' with the next bound value.
func (p *params) expr(sql string, values []any) {
	next := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] == '?' && next < len(values) {
			p.bind(values[next])
			next++
			continue
		}
		p.sb.WriteByte(sql[i])
	}
}

func (p *params) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			p.sb.WriteString(" WHERE ")
		} else {
			p.sb.WriteString(" AND ")
		}
		c.render(p)
	}
}

type Condition interface {
	render(p *params)
}

type condFunc func(p *params)

func (f condFunc) render(p *params) { f(p) }

func Eq(column string, value any) Condition {
	return condFunc(func(p *params) {
		p.sb.WriteString(column)
		p.sb.WriteString(" = ")
		p.bind(value)
	})
}

// In renders column IN (...). An empty list matches nothing.
func In[T any](column string, values []T) Condition {
	return condFunc(func(p *params) {
		if len(values) == 0 {
			p.sb.WriteString("1=0")
			return
		}
		p.sb.WriteString(column)
		p.sb.WriteString(" IN (")
		for i, v := range values {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.bind(v)
		}
		p.sb.WriteByte(')')
	})
}

func IsNull(column string) Condition {
	return condFunc(func(p *params) {
		p.sb.WriteString(column)
		p.sb.WriteString(" IS NULL")
	})
}

func IsNotNull(column string) Condition {
	return condFunc(func(p *params) {
		p.sb.WriteString(column)
		p.sb.WriteString(" IS NOT NULL")
	})
}

// Expr is a raw predicate using '?' for bound values.
func Expr(sql string, values ...any) Condition {
	return condFunc(func(p *params) { p.expr(sql, values) })
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, errors.New("select: no columns")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("select: no table")
	}

	var p params
	p.sb.WriteString("SELECT ")
	p.sb.WriteString(strings.Join(b.columns, ", "))
	p.sb.WriteString(" FROM ")
	p.sb.WriteString(b.table)
	p.where(b.where)
	if len(b.orderBy) > 0 {
		p.sb.WriteString(" ORDER BY ")
		p.sb.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		p.sb.WriteString(" LIMIT ")
		p.sb.WriteString(strconv.Itoa(b.limit))
	}
	return p.sb.String(), p.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	values  []any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = columns
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.values = values
	return b
}

// Suffix appends raw SQL such as an ON CONFLICT clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("insert: no table")
	case len(b.columns) == 0:
		return "", nil, errors.New("insert: no columns")
	case len(b.columns) != len(b.values):
		return "", nil, errors.New("insert: column and value counts differ")
	}

	var p params
	p.sb.WriteString("INSERT INTO ")
	p.sb.WriteString(b.table)
	p.sb.WriteString(" (")
	p.sb.WriteString(strings.Join(b.columns, ", "))
	p.sb.WriteString(") VALUES (")
	for i, v := range b.values {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.bind(v)
	}
	p.sb.WriteByte(')')
	if b.suffix != "" {
		p.sb.WriteByte(' ')
		p.sb.WriteString(b.suffix)
	}
	return p.sb.String(), p.args, nil
}

type assignment struct {
	column string
	sql    string
	values []any
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, sql: "?", values: []any{value}})
	return b
}

// SetExpr assigns a raw expression, e.g. SetExpr("updated_at", "NOW()").
func (b *UpdateBuilder) SetExpr(column, sql string, values ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, sql: sql, values: values})
	return b
}

func (b *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("update: no table")
	}
	if len(b.sets) == 0 {
		return "", nil, errors.New("update: no assignments")
	}

	var p params
	p.sb.WriteString("UPDATE ")
	p.sb.WriteString(b.table)
	p.sb.WriteString(" SET ")
	for i, s := range b.sets {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.sb.WriteString(s.column)
		p.sb.WriteString(" = ")
		p.expr(s.sql, s.values)
	}
	p.where(b.where)
	return p.sb.String(), p.args, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conds ...Condition) *DeleteBuilder {
	b.where = append(b.where, conds...)
	return b
}

// ToSQL refuses to render an unconditional delete.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("delete: no table")
	}
	if len(b.where) == 0 {
		return "", nil, errors.New("delete: no conditions")
	}

	var p params
	p.sb.WriteString("DELETE FROM ")
	p.sb.WriteString(b.table)
	p.where(b.where)
	return p.sb.String(), p.args, nil
}
