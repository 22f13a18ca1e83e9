package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxCellWidth truncates long cells, such as long choice lists.
const maxCellWidth = 40

func validateFormat(format string, valid ...string) error {
	for _, v := range valid {
		if format == v {
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q (supported: %s)", format, strings.Join(valid, ", "))
}

// writeTable prints rows under title-cased headers. Widths are measured in
// terminal cells so wide characters in column names stay aligned.
func writeTable(w io.Writer, headers []string, rows [][]string) {
	title := cases.Title(language.English)

	widths := make([]int, len(headers))
	cells := make([][]string, 0, len(rows)+1)

	head := make([]string, len(headers))
	for i, h := range headers {
		head[i] = title.String(h)
	}
	cells = append(cells, head)
	for _, row := range rows {
		line := make([]string, len(headers))
		for i := range headers {
			if i < len(row) {
				line[i] = runewidth.Truncate(row[i], maxCellWidth, "…")
			}
		}
		cells = append(cells, line)
	}

	for _, line := range cells {
		for i, cell := range line {
			if n := runewidth.StringWidth(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for r, line := range cells {
		parts := make([]string, len(line))
		for i, cell := range line {
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))

		if r == 0 {
			rules := make([]string, len(widths))
			for i, n := range widths {
				rules[i] = strings.Repeat("-", n)
			}
			fmt.Fprintln(w, strings.Join(rules, "  "))
		}
	}
}
