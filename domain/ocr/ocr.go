package ocr

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
)

// Options configures Recognize.
type Options struct {
	Languages []string
	Layout    LayoutOptions
}

// Recognize encodes img as PNG, runs engine over it and lays the words out as
// a table. A page without words yields ErrNoResults.
func Recognize(ctx context.Context, engine Engine, img image.Image, opts Options) (Table, error) {
	if engine == nil {
		return Table{}, fmt.Errorf("recognize: %w", ErrEngineUnavailable)
	}
	if img == nil || img.Bounds().Empty() {
		return Table{}, fmt.Errorf("recognize: empty image")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return Table{}, fmt.Errorf("encode png: %w", err)
	}
	page, err := engine.Recognize(ctx, Input{Image: buf.Bytes(), Format: ImageFormatPNG, Languages: opts.Languages})
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", engine.Name(), err)
	}
	if page.Width == 0 && page.Height == 0 {
		b := img.Bounds()
		page.Width, page.Height = b.Dx(), b.Dy()
	}
	if !hasWords(page) {
		return Table{}, ErrNoResults
	}
	t := LayoutTable(page, opts.Layout)
	if t.Empty() && !hasText(t.Header) {
		return Table{}, ErrNoResults
	}
	return t, nil
}

// hasWords reports whether any word carries visible text.
func hasWords(p Page) bool {
	for _, w := range p.Words {
		if strings.TrimSpace(w.Text) != "" {
			return true
		}
	}
	return false
}

// WriteCSV writes the header followed by every row.
func (t Table) WriteCSV(w io.Writer) error {
	n := t.Normalize()
	cw := csv.NewWriter(w)
	if len(n.Header) > 0 {
		if err := cw.Write(n.Header); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(n.Rows); err != nil {
		return err
	}
	return cw.Error()
}
