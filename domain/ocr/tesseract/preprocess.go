// Package tesseract implements ocr.Engine with a local Tesseract install via
// gosseract. The cgo engine is only compiled with the "tesseract" build tag;
// other builds get a stub that reports ocr.ErrEngineUnavailable.
package tesseract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// Preprocess settings applied before recognition.
const (
	contrastBoost = 20
	sharpenSigma  = 1.0
)

// preprocess converts the encoded image to a sharpened, higher-contrast
// grayscale PNG. Geometry is untouched so word boxes stay in input pixels.
func preprocess(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, contrastBoost)
	out = imaging.Sharpen(out, sharpenSigma)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

var isoToTesseract = map[string]string{
	"en": "eng",
	"de": "deu",
	"fr": "fra",
	"es": "spa",
	"it": "ita",
	"pt": "por",
	"nl": "nld",
}

// languages maps two-letter hints to Tesseract traineddata names. Unknown
// values pass through unchanged; an empty list defaults to English.
func languages(hints []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, h := range hints {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if t, ok := isoToTesseract[h]; ok {
			h = t
		}
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	if len(out) == 0 {
		out = []string{"eng"}
	}
	return out
}
