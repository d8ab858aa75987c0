package config

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"strings"
)

// Interpolation modes accepted by Config.Interpolation.
const (
	InterpolationBilinear = "bilinear"
	InterpolationNearest  = "nearest"
)

// OCR engine names accepted by Config.OCREngine.
const (
	EngineVision    = "vision"
	EngineTesseract = "tesseract"
)

const defaultVisionEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// Config holds runtime configuration for editing, reshaping and OCR.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug    bool `json:"debug"`
	DarkMode bool `json:"dark_mode"`

	// Editor
	HitRadiusPx    int `json:"hit_radius_px"`
	MarkerRadiusPx int `json:"marker_radius_px"`
	WindowWidth    int `json:"window_width"`
	WindowHeight   int `json:"window_height"`

	// Reshape output
	Interpolation string `json:"interpolation"`
	OutputDir     string `json:"output_dir"` // used for sources without a file path (screen grabs)
	JPEGQuality   int    `json:"jpeg_quality"`

	// OCR
	OCREngine         string   `json:"ocr_engine"`
	OCRLanguages      []string `json:"ocr_languages"`
	VisionEndpoint    string   `json:"vision_endpoint"`
	OCRTimeoutSeconds int      `json:"ocr_timeout_seconds"` // 0 disables the timeout
	TableColumns      int      `json:"table_columns"`
	LineTolerancePx   float64  `json:"line_tolerance_px"`

	// Gridline overlay
	GridRows int `json:"grid_rows"`
	GridCols int `json:"grid_cols"`

	// Screen region used by "Capture Region"; zero size means none chosen.
	CaptureX int `json:"capture_x"`
	CaptureY int `json:"capture_y"`
	CaptureW int `json:"capture_w"`
	CaptureH int `json:"capture_h"`

	// Last directory used by the open dialog (persisted).
	LastDir string `json:"last_dir"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:             false,
		HitRadiusPx:       10,
		MarkerRadiusPx:    10,
		WindowWidth:       1000,
		WindowHeight:      700,
		Interpolation:     InterpolationBilinear,
		OutputDir:         "",
		JPEGQuality:       95,
		OCREngine:         EngineVision,
		OCRLanguages:      []string{"en"},
		VisionEndpoint:    defaultVisionEndpoint,
		OCRTimeoutSeconds: 0,
		TableColumns:      4,
		LineTolerancePx:   50,
		GridRows:          4,
		GridCols:          4,
		LastDir:           "",
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.HitRadiusPx <= 0 {
		c.HitRadiusPx = 10
	}
	if c.MarkerRadiusPx <= 0 {
		c.MarkerRadiusPx = c.HitRadiusPx
	}
	if c.WindowWidth < 320 {
		c.WindowWidth = 1000
	}
	if c.WindowHeight < 240 {
		c.WindowHeight = 700
	}
	switch strings.ToLower(strings.TrimSpace(c.Interpolation)) {
	case InterpolationNearest:
		c.Interpolation = InterpolationNearest
	default:
		c.Interpolation = InterpolationBilinear
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		c.JPEGQuality = 95
	}
	switch strings.ToLower(strings.TrimSpace(c.OCREngine)) {
	case EngineTesseract:
		c.OCREngine = EngineTesseract
	default:
		c.OCREngine = EngineVision
	}
	if strings.TrimSpace(c.VisionEndpoint) == "" {
		c.VisionEndpoint = defaultVisionEndpoint
	}
	if c.OCRTimeoutSeconds < 0 {
		c.OCRTimeoutSeconds = 0
	}
	if c.TableColumns < 1 {
		c.TableColumns = 4
	}
	if c.LineTolerancePx <= 0 {
		c.LineTolerancePx = 50
	}
	if c.GridRows < 1 {
		c.GridRows = 4
	}
	if c.GridCols < 1 {
		c.GridCols = 4
	}
	if c.CaptureW < 0 || c.CaptureH < 0 {
		c.CaptureW, c.CaptureH = 0, 0
	}
	return nil
}

// CaptureRegion returns the saved capture rectangle, if any.
func (c *Config) CaptureRegion() (image.Rectangle, bool) {
	if c == nil || c.CaptureW <= 0 || c.CaptureH <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(c.CaptureX, c.CaptureY, c.CaptureX+c.CaptureW, c.CaptureY+c.CaptureH), true
}

// SetCaptureRegion stores r; an empty rectangle clears it.
func (c *Config) SetCaptureRegion(r image.Rectangle) {
	if r.Empty() {
		c.CaptureX, c.CaptureY, c.CaptureW, c.CaptureH = 0, 0, 0, 0
		return
	}
	c.CaptureX, c.CaptureY = r.Min.X, r.Min.Y
	c.CaptureW, c.CaptureH = r.Dx(), r.Dy()
}

// DefaultPath returns <user config dir>/pagewarp/config.json, falling back to
// pagewarp.json in the working directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "pagewarp.json"
	}
	return filepath.Join(dir, "pagewarp", "config.json")
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
