//go:build !tesseract

package tesseract

import (
	"context"
	"errors"
	"testing"

	"github.com/soocke/pagewarp-go/domain/ocr"
)

func TestStub_ReportsUnavailable(t *testing.T) {
	if Available() {
		t.Fatalf("stub build should not report availability")
	}
	_, err := New().Recognize(context.Background(), ocr.Input{Image: []byte("x")})
	if !errors.Is(err, ocr.ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
}
