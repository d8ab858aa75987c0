//go:build !tesseract

package tesseract

import (
	"context"

	"github.com/soocke/pagewarp-go/domain/ocr"
)

// Engine is a placeholder used when the binary is built without the
// "tesseract" tag.
type Engine struct{}

var _ ocr.Engine = (*Engine)(nil)

func New() *Engine { return &Engine{} }

// Available reports whether this build includes the Tesseract engine.
func Available() bool { return false }

func (e *Engine) Name() string { return "tesseract" }

func (e *Engine) Recognize(context.Context, ocr.Input) (ocr.Page, error) {
	return ocr.Page{}, ocr.ErrEngineUnavailable
}
