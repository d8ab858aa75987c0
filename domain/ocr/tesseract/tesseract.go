//go:build tesseract

package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/soocke/pagewarp-go/domain/ocr"
)

// Engine runs Tesseract through a fresh gosseract client per call.
type Engine struct {
	clientFactory func() *gosseract.Client
}

var _ ocr.Engine = (*Engine)(nil)

// New returns a Tesseract-backed engine.
func New() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

// Available reports whether this build includes the Tesseract engine.
func Available() bool { return true }

func (e *Engine) Name() string { return "tesseract" }

// Recognize preprocesses the image and returns word boxes. Tesseract cannot
// be interrupted mid-page, so ctx is only checked before the call.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Page, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Page{}, err
	}
	data, err := preprocess(in.Image)
	if err != nil {
		return ocr.Page{}, fmt.Errorf("preprocess: %w", err)
	}
	c := e.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(languages(in.Languages)...); err != nil {
		return ocr.Page{}, fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return ocr.Page{}, fmt.Errorf("set page seg mode: %w", err)
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return ocr.Page{}, fmt.Errorf("set image: %w", err)
	}
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return ocr.Page{}, fmt.Errorf("recognize words: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return ocr.Page{}, err
	}
	var page ocr.Page
	for _, b := range boxes {
		if b.Word == "" {
			continue
		}
		page.Words = append(page.Words, ocr.Word{Text: b.Word, Bounds: b.Box})
		page.Width = max(page.Width, b.Box.Max.X)
		page.Height = max(page.Height, b.Box.Max.Y)
	}
	return page, nil
}
