package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RenderText writes the matrix as aligned plain-text tables, one per
// group. Cells show relative time (fastest = 1.00) with the absolute
// per-call cost in parentheses.
func RenderText(w io.Writer, m Matrix) error {
	p := message.NewPrinter(language.English)
	for ti, tv := range m.Tables {
		if ti > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := renderTable(w, p, tv); err != nil {
			return err
		}
	}
	return nil
}

func renderTable(w io.Writer, p *message.Printer, tv TableView) error {
	header := make([]string, 0, len(tv.Sources)+1)
	header = append(header, "function")
	header = append(header, tv.Sources...)

	grid := [][]string{header}
	for _, row := range tv.Rows {
		line := make([]string, 0, len(row.Cells)+1)
		line = append(line, row.Series)
		for _, c := range row.Cells {
			line = append(line, formatCell(p, c))
		}
		grid = append(grid, line)
	}

	widths := make([]int, len(header))
	for _, line := range grid {
		for i, cell := range line {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if _, err := fmt.Fprintf(w, "%s\n\n", tv.Group); err != nil {
		return err
	}
	for _, line := range grid {
		parts := make([]string, len(line))
		for i, cell := range line {
			parts[i] = pad(cell, widths[i])
		}
		if _, err := fmt.Fprintf(w, "%s\n", strings.TrimRight(strings.Join(parts, "  "), " ")); err != nil {
			return err
		}
	}
	return nil
}

func formatCell(p *message.Printer, c *Cell) string {
	if c == nil {
		return "-"
	}
	return p.Sprintf("%.2f (%.1fns)", c.Relative, c.MeanNsPerCall)
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
