package view

import (
	"fmt"
	"image"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// RegionPicker opens a see-through window the user moves and resizes over
// the screen area to capture. Confirm reports the window geometry.
type RegionPicker interface {
	OpenOrFocus(initial image.Rectangle)
	Close()
}

type regionPicker struct {
	logger    *slog.Logger
	onConfirm func(image.Rectangle)
	win       *ToplevelWidget
}

const transparentKey = "#008080"

// NewRegionPicker creates a picker calling onConfirm with the chosen screen
// rectangle.
func NewRegionPicker(onConfirm func(image.Rectangle), logger *slog.Logger) RegionPicker {
	return &regionPicker{logger: logger, onConfirm: onConfirm}
}

// OpenOrFocus shows the picker at initial, or centred when initial is empty.
func (v *regionPicker) OpenOrFocus(initial image.Rectangle) {
	if v.win != nil {
		WmGeometry(v.win.Window)
		return
	}
	win := App.Toplevel(Borderwidth(2), Background(transparentKey))
	win.WmTitle("Capture Region")
	v.win = win
	WmGeometry(win.Window, initialGeometry(initial, defaultScreen))
	WmAttributes(win.Window, "-topmost", 1)
	WmAttributes(win.Window, "-alpha", 0.6)
	WmProtocol(win.Window, "WM_DELETE_WINDOW", v.Close)
	GridRowConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 0, Weight(0))
	GridColumnConfigure(win.Window, 1, Weight(1))
	GridColumnConfigure(win.Window, 2, Weight(0))
	left := win.Frame(Width(4), Background("#FFFFFF"))
	Grid(left, Row(0), Column(0), Sticky("ns"))
	center := win.Frame(Background(transparentKey))
	Grid(center, Row(0), Column(1), Sticky("nsew"))
	right := win.Frame(Width(4), Background("#FFFFFF"))
	Grid(right, Row(0), Column(2), Sticky("ns"))
	controls := win.Frame()
	Grid(controls, Row(1), Column(0), Columnspan(3), Sticky("we"))
	confirm := win.Button(Txt("Capture [Enter]"), Command(v.confirm))
	Grid(confirm, In(controls), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	cancel := win.Button(Txt("Cancel [Esc]"), Command(v.Close))
	Grid(cancel, In(controls), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(win, "<Return>", Command(v.confirm))
	Bind(win, "<Escape>", Command(v.Close))
}

func (v *regionPicker) confirm() {
	if v.win == nil {
		return
	}
	geom := WmGeometry(v.win.Window)
	rect, ok := parseGeometry(geom)
	// hide the picker before the grab so it is not part of the capture
	v.Close()
	if !ok {
		if v.logger != nil {
			v.logger.Warn("region geometry parse failed", "geometry", geom)
		}
		return
	}
	if v.onConfirm != nil {
		v.onConfirm(rect)
	}
}

func (v *regionPicker) Close() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
	}
}

// defaultScreen is the assumed screen size for the first placement; the
// user resizes the window anyway.
var defaultScreen = image.Pt(1920, 1080)

// initialGeometry returns a Tk geometry string for r, or a centred window
// covering 2/3 x 5/9 of screen when r is empty.
func initialGeometry(r image.Rectangle, screen image.Point) string {
	if !r.Empty() {
		return fmt.Sprintf("%dx%d+%d+%d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y)
	}
	w, h := max(screen.X*2/3, 1), max(screen.Y*5/9, 1)
	return fmt.Sprintf("%dx%d+%d+%d", w, h, (screen.X-w)/2, (screen.Y-h)/2)
}

// geomRe matches window geometry strings in the format "WIDTHxHEIGHT+X+Y".
var geomRe = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

// parseGeometry parses a Tk geometry string into a screen rectangle.
func parseGeometry(g string) (image.Rectangle, bool) {
	m := geomRe.FindStringSubmatch(strings.TrimSpace(g))
	if len(m) != 5 {
		return image.Rectangle{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, _ := strconv.Atoi(m[3])
	y, _ := strconv.Atoi(m[4])
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}
