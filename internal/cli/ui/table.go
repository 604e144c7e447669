package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Table renders aligned columns under a bold header row
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	noColor bool
}

// TableOptions configures table behavior
type TableOptions struct {
	NoColor bool
}

// NewTable creates a new table with the given headers
func NewTable(w io.Writer, headers []string, opts *TableOptions) *Table {
	t := &Table{writer: w, headers: headers}
	if opts != nil {
		t.noColor = opts.NoColor
	}
	return t
}

// AddRow adds a row to the table. Cells beyond the header count are dropped.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows added so far
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table. A table without headers renders nothing.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = width(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && width(cell) > widths[i] {
				widths[i] = width(cell)
			}
		}
	}

	bold := color.New(color.Bold, color.FgCyan)
	gray := color.New(color.FgHiBlack)
	if t.noColor {
		bold.DisableColor()
		gray.DisableColor()
	}

	cells := make([]string, len(t.headers))
	for i, header := range t.headers {
		cells[i] = bold.Sprint(padRight(header, widths[i]))
	}
	t.writeLine(cells)

	for i, w := range widths {
		cells[i] = gray.Sprint(strings.Repeat("─", w))
	}
	t.writeLine(cells)

	for _, row := range t.rows {
		n := min(len(row), len(widths))
		line := make([]string, n)
		for i := 0; i < n; i++ {
			line[i] = padRight(row[i], widths[i])
		}
		t.writeLine(line)
	}
}

func (t *Table) writeLine(cells []string) {
	fmt.Fprintln(t.writer, strings.TrimRight(strings.Join(cells, "  "), " "))
}

func width(s string) int {
	return utf8.RuneCountInString(s)
}

// padRight pads s with spaces on the right to reach the target width
func padRight(s string, w int) string {
	if n := width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

// KeyValueTable renders "key: value" lines with the values aligned
type KeyValueTable struct {
	writer  io.Writer
	keys    []string
	values  []string
	noColor bool
}

// NewKeyValueTable creates a new key-value table
func NewKeyValueTable(w io.Writer, noColor bool) *KeyValueTable {
	return &KeyValueTable{writer: w, noColor: noColor}
}

// AddRow adds a key-value pair to the table
func (t *KeyValueTable) AddRow(key, value string) {
	t.keys = append(t.keys, key)
	t.values = append(t.values, value)
}

// Render renders the key-value table
func (t *KeyValueTable) Render() {
	keyWidth := 0
	for _, k := range t.keys {
		keyWidth = max(keyWidth, width(k)+1)
	}

	cyan := color.New(color.FgCyan)
	if t.noColor {
		cyan.DisableColor()
	}
	for i, k := range t.keys {
		cyan.Fprint(t.writer, padRight(k+":", keyWidth))
		fmt.Fprintf(t.writer, " %s\n", t.values[i])
	}
}

// List renders a bulleted list
type List struct {
	writer  io.Writer
	items   []string
	noColor bool
}

// NewList creates a new list
func NewList(w io.Writer, noColor bool) *List {
	return &List{writer: w, noColor: noColor}
}

// AddItem adds an item to the list
func (l *List) AddItem(format string, args ...any) {
	l.items = append(l.items, fmt.Sprintf(format, args...))
}

// Render renders the list
func (l *List) Render() {
	cyan := color.New(color.FgCyan)
	if l.noColor {
		cyan.DisableColor()
	}
	for _, item := range l.items {
		cyan.Fprint(l.writer, "• ")
		fmt.Fprintln(l.writer, item)
	}
}

// Divider renders a horizontal divider line; zero width means 80
func Divider(w io.Writer, n int, noColor bool) {
	if n == 0 {
		n = 80
	}
	gray := color.New(color.FgHiBlack)
	if noColor {
		gray.DisableColor()
	}
	gray.Fprintln(w, strings.Repeat("─", n))
}

// Header renders a bold title underlined to its own width
func Header(w io.Writer, title string, noColor bool) {
	bold := color.New(color.Bold, color.FgCyan)
	if noColor {
		bold.DisableColor()
	}
	bold.Fprintln(w, title)
	Divider(w, width(title), noColor)
}
