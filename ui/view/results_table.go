package view

import (
	"github.com/soocke/pagewarp-go/domain/ocr"
	"github.com/soocke/pagewarp-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// maxResultRows caps the rows rendered in the grid; the rest are summarised.
const maxResultRows = 200

// ResultsTable renders an OCR table as a grid of labels.
type ResultsTable interface {
	Show(t ocr.Table)
	Clear()
}

type resultsTable struct {
	row   int
	frame *FrameWidget
}

// NewResultsTable reserves grid row for the table (spanning all columns).
func NewResultsTable(row int) ResultsTable {
	v := &resultsTable{row: row}
	v.Clear()
	return v
}

// Show rebuilds the grid: header row first, then data rows.
func (v *resultsTable) Show(t ocr.Table) {
	f := v.reset()
	pal := theme.CurrentPalette()
	for c, h := range t.Header {
		cell := TLabel(Txt(h), Style(theme.StyleHeaderLabel), Anchor("w"))
		Grid(cell, In(f), Row(0), Column(c), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	}
	for r, cells := range t.Rows {
		if r == maxResultRows {
			more := Label(Txt(moreRowsText(len(t.Rows)-r)), Foreground(pal.TextMuted), Background(pal.Surface))
			Grid(more, In(f), Row(r+1), Column(0), Columnspan(max(len(t.Header), 1)), Sticky("w"))
			break
		}
		for c, s := range cells {
			cell := Label(Txt(s), Anchor("w"), Borderwidth(1), Relief("groove"), Background(pal.Surface), Foreground(pal.Text))
			Grid(cell, In(f), Row(r+1), Column(c), Sticky("we"), Padx("0.2m"))
		}
	}
}

// Clear removes all cells and shows the empty hint.
func (v *resultsTable) Clear() {
	f := v.reset()
	pal := theme.CurrentPalette()
	hint := Label(Txt("No OCR results yet."), Foreground(pal.TextMuted), Background(pal.Surface))
	Grid(hint, In(f), Row(0), Column(0), Sticky("w"))
}

func (v *resultsTable) reset() *FrameWidget {
	if v.frame != nil {
		func() { defer func() { _ = recover() }(); Destroy(v.frame) }()
	}
	v.frame = Frame(Borderwidth(1), Relief("sunken"), Background(theme.CurrentPalette().Surface))
	Grid(v.frame, Row(v.row), Column(0), Columnspan(5), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	return v.frame
}
