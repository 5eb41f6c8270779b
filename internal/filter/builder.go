// AngelaMos | 2026
// builder.go

package filter

import (
	"fmt"
	"strings"
)

// Builder composes optional list filters into one AND-combined WHERE clause
// with positional arguments. Columns are always package constants; only
// values come from callers.
type Builder struct {
	conditions []string
	args       []any
	keys       []string
}

func New() *Builder {
	return &Builder{}
}

// Contains adds a case-insensitive substring match. An empty value leaves the
// filter inactive.
func (b *Builder) Contains(column, value string) *Builder {
	if value == "" {
		return b
	}

	b.args = append(b.args, "%"+EscapeLike(strings.ToLower(value))+"%")
	b.conditions = append(b.conditions, fmt.Sprintf(
		`LOWER(%s) LIKE $%d ESCAPE '\'`, column, len(b.args)))
	b.keys = append(b.keys, fmt.Sprintf("%s~%q", column, value))

	return b
}

// Equals adds a mandatory exact match, used for owner and parent scoping.
func (b *Builder) Equals(column string, value any) *Builder {
	b.args = append(b.args, value)
	b.conditions = append(b.conditions, fmt.Sprintf("%s = $%d", column, len(b.args)))
	b.keys = append(b.keys, fmt.Sprintf("%s=%q", column, fmt.Sprint(value)))

	return b
}

// Where is empty when no filter is active, so the listing is unfiltered.
func (b *Builder) Where() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conditions, " AND ")
}

func (b *Builder) Args() []any {
	return b.args
}

// Next returns the placeholder index following the filter arguments.
func (b *Builder) Next() int {
	return len(b.args) + 1
}

func (b *Builder) Active() int {
	return len(b.conditions)
}

// Key identifies the active filter set, stable across calls with the same
// values in the same order. Values are quoted so no value can spell out
// another filter set.
func (b *Builder) Key() string {
	return strings.Join(b.keys, "&")
}

func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
