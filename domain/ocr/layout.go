package ocr

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Layout defaults.
const (
	DefaultColumns       = 4
	DefaultLineTolerance = 50.0
)

// LayoutOptions tunes LayoutTable.
type LayoutOptions struct {
	// Columns is the number of equal-width columns used when ColumnEdges is
	// empty.
	Columns int
	// LineTolerance is the maximum vertical distance, in pixels, between a
	// word centre and a line's anchor for the word to join that line.
	LineTolerance float64
	// ColumnEdges are explicit x positions separating columns (for example
	// from the gridline overlay). When set, len(ColumnEdges)+1 columns are
	// produced.
	ColumnEdges []float64
}

func (o LayoutOptions) withDefaults() LayoutOptions {
	if o.Columns < 1 {
		o.Columns = DefaultColumns
	}
	if o.LineTolerance <= 0 {
		o.LineTolerance = DefaultLineTolerance
	}
	if len(o.ColumnEdges) > 0 {
		o.ColumnEdges = append([]float64(nil), o.ColumnEdges...)
		sort.Float64s(o.ColumnEdges)
		o.Columns = len(o.ColumnEdges) + 1
	}
	return o
}

type placedWord struct {
	x    float64
	text string
}

type textLine struct {
	y     float64 // centre of the first word that opened the line
	words []placedWord
}

// LayoutTable arranges recognised words into a table. Words are grouped into
// lines by vertical centre, lines are ordered top to bottom and words left to
// right, then each word is assigned to a column by its horizontal centre.
// Rows without text are dropped. The first row becomes the header; with no
// rows at all the header is "Column 1".."Column N".
func LayoutTable(page Page, opts LayoutOptions) Table {
	opts = opts.withDefaults()
	lines := groupLines(page.Words, opts.LineTolerance)
	if len(lines) == 0 {
		return Table{Header: defaultHeader(opts.Columns)}
	}

	edges := opts.ColumnEdges
	if len(edges) == 0 {
		edges = equalEdges(lines, page.Width, opts.Columns)
	}

	var rows [][]string
	for _, l := range lines {
		row := make([]string, opts.Columns)
		for _, w := range l.words {
			col := columnFor(w.x, edges)
			row[col] = strings.TrimSpace(row[col] + " " + w.text)
		}
		if hasText(row) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return Table{Header: defaultHeader(opts.Columns)}
	}
	return Table{Header: rows[0], Rows: rows[1:]}
}

func groupLines(words []Word, tolerance float64) []textLine {
	var lines []textLine
	for _, w := range words {
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		x, y := w.Center()
		placed := false
		for i := range lines {
			if math.Abs(y-lines[i].y) < tolerance {
				lines[i].words = append(lines[i].words, placedWord{x: x, text: w.Text})
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, textLine{y: y, words: []placedWord{{x: x, text: w.Text}}})
		}
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y < lines[j].y })
	for i := range lines {
		sort.SliceStable(lines[i].words, func(a, b int) bool { return lines[i].words[a].x < lines[i].words[b].x })
	}
	return lines
}

// equalEdges splits [minX, max(pageWidth, maxX)] into n equal columns.
func equalEdges(lines []textLine, pageWidth, n int) []float64 {
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, l := range lines {
		for _, w := range l.words {
			minX = math.Min(minX, w.x)
			maxX = math.Max(maxX, w.x)
		}
	}
	width := math.Max(float64(pageWidth), maxX) - minX
	if width <= 0 {
		width = 1
	}
	colWidth := width / float64(n)
	edges := make([]float64, n-1)
	for i := range edges {
		edges[i] = minX + float64(i+1)*colWidth
	}
	return edges
}

func columnFor(x float64, edges []float64) int {
	col := 0
	for i, e := range edges {
		if x > e {
			col = i + 1
		} else {
			break
		}
	}
	return col
}

func hasText(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return true
		}
	}
	return false
}

func defaultHeader(n int) []string {
	h := make([]string, n)
	for i := range h {
		h[i] = fmt.Sprintf("Column %d", i+1)
	}
	return h
}

// Normalize pads or truncates every row to the header width.
func (t Table) Normalize() Table {
	n := t.Columns()
	out := Table{Header: append([]string(nil), t.Header...)}
	for _, r := range t.Rows {
		row := make([]string, n)
		copy(row, r)
		out.Rows = append(out.Rows, row)
	}
	return out
}
