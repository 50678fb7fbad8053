package querybuilder

import (
	"strconv"
	"strings"
)

// Condition renders one predicate of a WHERE clause using numbered placeholders.
type Condition interface {
	render(w *writer)
}

// writer accumulates SQL text and positional arguments.
type writer struct {
	buf  strings.Builder
	args []any
}

func (w *writer) bind(value any) {
	w.args = append(w.args, value)
	w.buf.WriteString("$")
	w.buf.WriteString(strconv.Itoa(len(w.args)))
}

// expr writes a fragment that uses ? for arguments.
func (w *writer) expr(fragment string, values []any) {
	next := 0
	for i := 0; i < len(fragment); i++ {
		if fragment[i] == '?' && next < len(values) {
			w.bind(values[next])
			next++
			continue
		}
		w.buf.WriteByte(fragment[i])
	}
}

func (w *writer) where(conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	w.buf.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			w.buf.WriteString(" AND ")
		}
		c.render(w)
	}
}

type compare struct {
	column string
	op     string
	value  any
}

func (c compare) render(w *writer) {
	w.buf.WriteString(c.column)
	w.buf.WriteString(" ")
	w.buf.WriteString(c.op)
	w.buf.WriteString(" ")
	w.bind(c.value)
}

func Eq(column string, value any) Condition    { return compare{column: column, op: "=", value: value} }
func NotEq(column string, value any) Condition { return compare{column: column, op: "<>", value: value} }
func Lt(column string, value any) Condition    { return compare{column: column, op: "<", value: value} }
func Gte(column string, value any) Condition   { return compare{column: column, op: ">=", value: value} }

type inList struct {
	column string
	values []any
}

// In renders column IN (...). An empty list renders a predicate that matches nothing.
func In[T any](column string, values []T) Condition {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return inList{column: column, values: out}
}

func (c inList) render(w *writer) {
	if len(c.values) == 0 {
		w.buf.WriteString("1=0")
		return
	}
	w.buf.WriteString(c.column)
	w.buf.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			w.buf.WriteString(", ")
		}
		w.bind(v)
	}
	w.buf.WriteString(")")
}

type isNull struct {
	column string
	not    bool
}

func IsNull(column string) Condition    { return isNull{column: column} }
func IsNotNull(column string) Condition { return isNull{column: column, not: true} }

func (c isNull) render(w *writer) {
	w.buf.WriteString(c.column)
	if c.not {
		w.buf.WriteString(" IS NOT NULL")
		return
	}
	w.buf.WriteString(" IS NULL")
}

type rawExpr struct {
	fragment string
	values   []any
}

// Expr is a free-form predicate; each ? is bound to the next value.
func Expr(fragment string, values ...any) Condition {
	return rawExpr{fragment: fragment, values: values}
}

func (c rawExpr) render(w *writer) {
	w.expr(c.fragment, c.values)
}
