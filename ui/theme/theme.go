package theme

// Palette and ttk style setup for the pagewarp window. InitStyles activates
// the base theme and configures the semantic button/label styles used by the
// root view.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	ColorBg        = "#f7f9fb" // app background
	ColorSurface   = "#ffffff" // panels, results grid
	ColorBorder    = "#d0d7de"
	ColorPrimary   = "#2563eb" // reshape / OCR
	ColorDanger    = "#dc2626" // cancel / exit
	ColorAccent    = "#10b981"
	ColorText      = "#1e293b"
	ColorTextMuted = "#64748b"
)

// PaletteSnapshot represents resolved colors for the active mode.
type PaletteSnapshot struct {
	AppBg     string
	Surface   string
	Border    string
	Primary   string
	Danger    string
	Accent    string
	Text      string
	TextMuted string
}

var darkPalette = PaletteSnapshot{
	AppBg:     "#0f172a",
	Surface:   "#1e293b",
	Border:    "#334155",
	Primary:   "#3b82f6",
	Danger:    "#ef4444",
	Accent:    "#10b981",
	Text:      "#f1f5f9",
	TextMuted: "#94a3b8",
}

var lightPalette = PaletteSnapshot{
	AppBg:     ColorBg,
	Surface:   ColorSurface,
	Border:    ColorBorder,
	Primary:   ColorPrimary,
	Danger:    ColorDanger,
	Accent:    ColorAccent,
	Text:      ColorText,
	TextMuted: ColorTextMuted,
}

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStatusLabel   = "status.TLabel"
	StyleHeaderLabel   = "header.TLabel"
)

var darkMode bool

// CurrentPalette returns colors for the current dark/light mode.
func CurrentPalette() PaletteSnapshot { return paletteFor(darkMode) }

// paletteFor returns the colors for the requested mode.
func paletteFor(dark bool) PaletteSnapshot {
	if dark {
		return darkPalette
	}
	return lightPalette
}

// InitStyles applies the palette for the given mode.
func InitStyles(dark bool) {
	darkMode = dark
	applyStyles(paletteFor(dark))
}

// IsDark reports current mode.
func IsDark() bool { return darkMode }

func applyStyles(p PaletteSnapshot) {
	_ = ActivateTheme("azure light") // baseline metrics
	App.Configure(Background(p.AppBg))

	StyleConfigure(StylePrimaryButton,
		Background(p.Primary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(p.Danger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleStatusLabel,
		Foreground(p.Text),
		Background(p.Surface),
		Padding("4p 2p"),
		Borderwidth(1),
		Relief("groove"),
	)
	// results header cells
	StyleConfigure(StyleHeaderLabel,
		Foreground("white"),
		Background(p.Accent),
		Padding("2p 1p"),
	)
}
