// Package ocr turns a straightened table image into rows and columns of
// text. Recognition itself is delegated to an Engine; this package owns the
// engine contract, the error vocabulary and the table layout heuristics.
package ocr

import (
	"context"
	"image"
)

// ImageFormat identifies the content type of an OCR input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
)

// Input is a single encoded image submitted for recognition.
type Input struct {
	Image  []byte
	Format ImageFormat
	// Languages are hints such as "en" (Vision) or "eng" (Tesseract).
	Languages []string
}

// Word is a recognised token and its bounding box in image pixels.
type Word struct {
	Text   string
	Bounds image.Rectangle
}

// Center returns the centre of the word's box.
func (w Word) Center() (x, y float64) {
	return float64(w.Bounds.Min.X+w.Bounds.Max.X) / 2, float64(w.Bounds.Min.Y+w.Bounds.Max.Y) / 2
}

// Page is the raw recognition result for one image.
type Page struct {
	Width  int
	Height int
	Words  []Word
}

// Engine recognises words in one image. Implementations make a single
// blocking attempt; retries are the caller's business.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Page, error)
}

// Table is the row/column result shown in the results grid.
type Table struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// Columns returns the column count used for display.
func (t Table) Columns() int {
	if len(t.Header) > 0 {
		return len(t.Header)
	}
	if len(t.Rows) > 0 {
		return len(t.Rows[0])
	}
	return 0
}
