// Package engines resolves configured OCR engine names to implementations.
package engines

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/soocke/pagewarp-go/config"
	"github.com/soocke/pagewarp-go/domain/ocr"
	"github.com/soocke/pagewarp-go/domain/ocr/tesseract"
	"github.com/soocke/pagewarp-go/domain/ocr/vision"
)

// Factory builds engines by name using cfg for engine options. The vision
// engine is created once and reused so its token source caches credentials.
type Factory struct {
	cfg    *config.Config
	logger *slog.Logger
	vision *vision.Engine
}

func NewFactory(cfg *config.Config, logger *slog.Logger) *Factory {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{cfg: cfg, logger: logger}
}

// New returns the engine called name ("vision" or "tesseract").
func (f *Factory) New(name string) (ocr.Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case config.EngineVision, "":
		if f.vision == nil {
			f.vision = vision.New(vision.Options{Endpoint: f.cfg.VisionEndpoint, Logger: f.logger.With("engine", config.EngineVision)})
		}
		return f.vision, nil
	case config.EngineTesseract:
		if !tesseract.Available() {
			return nil, fmt.Errorf("%s: %w (rebuild with -tags tesseract)", name, ocr.ErrEngineUnavailable)
		}
		return tesseract.New(), nil
	default:
		return nil, fmt.Errorf("unknown OCR engine %q", name)
	}
}
