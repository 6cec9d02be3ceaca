package main

import (
	"fmt"
	"io"
	"strings"
)

// resultTable is a minimal fixed-width table renderer for printing cursor
// result sets to a terminal.
type resultTable struct {
	writer  io.Writer
	headers []string
	rows    [][]string
}

func newResultTable(w io.Writer, headers []string) *resultTable {
	return &resultTable{writer: w, headers: headers}
}

func (t *resultTable) addRow(row []string) {
	t.rows = append(t.rows, row)
}

func (t *resultTable) render() {
	if len(t.headers) == 0 {
		return
	}
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	separator := t.separator(widths)
	fmt.Fprintln(t.writer, separator)
	fmt.Fprintln(t.writer, t.formatRow(t.headers, widths))
	fmt.Fprintln(t.writer, separator)
	for _, row := range t.rows {
		fmt.Fprintln(t.writer, t.formatRow(row, widths))
	}
	fmt.Fprintln(t.writer, separator)
}

func (t *resultTable) separator(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w+2)
	}
	return "+" + strings.Join(parts, "+") + "+"
}

func (t *resultTable) formatRow(row []string, widths []int) string {
	cells := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = " " + cell + strings.Repeat(" ", widths[i]-len(cell)) + " "
	}
	return "|" + strings.Join(cells, "|") + "|"
}

func cellString(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
