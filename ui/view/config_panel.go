package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/pagewarp-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the settings form. ApplyChanges writes the parsed
// values back into *config.Config, saves it and calls the onApplied hook.
type ConfigPanel interface {
	Build(parent *FrameWidget, startRow int) (endRow int)
	SetEditable(enabled bool)
	ApplyChanges()
}

type configPanel struct {
	cfg       *config.Config
	cfgPath   string
	logger    *slog.Logger
	onApplied func(*config.Config)
	applyBtn  *ButtonWidget
	widgets   map[string]*TextWidget // keyed by field id
}

// NewConfigPanel creates the view bound to cfg. onApplied may be nil.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApplied func(*config.Config)) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, onApplied: onApplied, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(parent *FrameWidget, startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, In(parent), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(22))
		Grid(w, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("hitRadius", "Hit Radius Px", fmt.Sprintf("%d", c.HitRadiusPx))
	makeRow("markerRadius", "Marker Radius Px", fmt.Sprintf("%d", c.MarkerRadiusPx))
	makeRow("interpolation", "Interpolation (bilinear/nearest)", c.Interpolation)
	makeRow("outputDir", "Output Dir (screen grabs)", c.OutputDir)
	makeRow("jpegQuality", "JPEG Quality (1-100)", fmt.Sprintf("%d", c.JPEGQuality))
	makeRow("ocrEngine", "OCR Engine (vision/tesseract)", c.OCREngine)
	makeRow("ocrLanguages", "OCR Languages (comma separated)", strings.Join(c.OCRLanguages, ","))
	makeRow("ocrTimeout", "OCR Timeout Seconds (0 = none)", fmt.Sprintf("%d", c.OCRTimeoutSeconds))
	makeRow("tableColumns", "Table Columns", fmt.Sprintf("%d", c.TableColumns))
	makeRow("lineTolerance", "Line Tolerance Px", fmt.Sprintf("%.0f", c.LineTolerancePx))
	makeRow("gridRows", "Grid Rows", fmt.Sprintf("%d", c.GridRows))
	makeRow("gridCols", "Grid Cols", fmt.Sprintf("%d", c.GridCols))
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(id string) (string, bool) {
	w := v.widgets[id]
	if w == nil {
		return "", false
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), "")), true
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	applyForm(&cfg, v.text)
	if verr := cfg.Validate(); verr != nil {
		return
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
	if v.onApplied != nil {
		v.onApplied(v.cfg)
	}
}

// applyForm parses form fields into cfg. Fields that are missing or fail to
// parse keep their previous value.
func applyForm(cfg *config.Config, field func(id string) (string, bool)) {
	assignInt := func(id string, dst *int) {
		if s, ok := field(id); ok {
			if i, ok := parseIntField(s); ok {
				*dst = i
			}
		}
	}
	assignFloat := func(id string, dst *float64) {
		if s, ok := field(id); ok {
			if f, ok := parseFloatField(s); ok {
				*dst = f
			}
		}
	}
	assignString := func(id string, dst *string) {
		if s, ok := field(id); ok && s != "" {
			*dst = s
		}
	}
	assignInt("hitRadius", &cfg.HitRadiusPx)
	assignInt("markerRadius", &cfg.MarkerRadiusPx)
	assignString("interpolation", &cfg.Interpolation)
	// empty output dir is meaningful (current directory)
	if s, ok := field("outputDir"); ok {
		cfg.OutputDir = s
	}
	assignInt("jpegQuality", &cfg.JPEGQuality)
	assignString("ocrEngine", &cfg.OCREngine)
	if s, ok := field("ocrLanguages"); ok {
		cfg.OCRLanguages = parseList(s)
	}
	assignInt("ocrTimeout", &cfg.OCRTimeoutSeconds)
	assignInt("tableColumns", &cfg.TableColumns)
	assignFloat("lineTolerance", &cfg.LineTolerancePx)
	assignInt("gridRows", &cfg.GridRows)
	assignInt("gridCols", &cfg.GridCols)
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseList(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == ';' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
