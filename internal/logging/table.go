// Package logging generates the human-readable trim reports and console
// analysis output. This file holds the reusable aligned-table formatter.

package logging

import (
	"fmt"
	"strings"
)

// MetricRow is one line of a report table. Values are pre-formatted strings
// so rows can mix decimal places and notations.
type MetricRow struct {
	Label  string
	Values []string // one per column
	Unit   string   // suffix after the last value, "" for unitless
}

// MetricTable renders aligned label/value columns, optionally with column
// headers for before/after comparisons.
type MetricTable struct {
	Headers []string // empty for single-column tables
	Rows    []MetricRow
}

// String renders the table. Labels are left-aligned, values right-aligned
// within their column, units appended after the final value.
func (t *MetricTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	labelWidth := 0
	for _, row := range t.Rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}

	columns := len(t.Headers)
	for _, row := range t.Rows {
		if len(row.Values) > columns {
			columns = len(row.Values)
		}
	}
	widths := make([]int, columns)
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, v := range row.Values {
			if len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
	}

	var b strings.Builder
	if len(t.Headers) > 0 {
		b.WriteString(strings.Repeat(" ", labelWidth+2))
		for i, h := range t.Headers {
			fmt.Fprintf(&b, "%*s", widths[i], h)
			if i < len(t.Headers)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}

	for _, row := range t.Rows {
		fmt.Fprintf(&b, "%-*s  ", labelWidth, row.Label)
		for i, v := range row.Values {
			fmt.Fprintf(&b, "%*s", widths[i], v)
			if i < len(row.Values)-1 {
				b.WriteString("  ")
			}
		}
		if row.Unit != "" {
			b.WriteString(" " + row.Unit)
		}
		b.WriteString("\n")
	}
	return b.String()
}
