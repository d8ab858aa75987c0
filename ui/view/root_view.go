package view

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/pagewarp-go/config"
	"github.com/soocke/pagewarp-go/domain/ocr"
	"github.com/soocke/pagewarp-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are the callbacks invoked by the root view's buttons and canvas.
type Handlers struct {
	LoadImage      func()
	CaptureScreen  func()
	CaptureRegion  func()
	Reshape        func()
	ResetCorners   func()
	ToggleGrid     func()
	ToggleGridLock func()
	OCR            func()
	Cancel         func()
	Exit           func()
	Pointer        PointerHandlers
	ConfigApplied  func(*config.Config)
}

// RootView composes the top-level window layout: toolbar, status line,
// editing canvas with loupe, settings panel and the OCR results grid.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Clock       TaskClock
	ConfigPanel ConfigPanel
	Canvas      CanvasPane
	Results     ResultsTable

	StatusLabel *TLabelWidget
	actions     []*TButtonWidget // disabled while a task runs
	cancelBtn   *TButtonWidget
	lockBtn     *TButtonWidget
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// imageFileTypes lists the formats offered by the open dialog.
var imageFileTypes = []FileType{
	{TypeName: "Images", Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}},
	{TypeName: "All files", Extensions: []string{"*"}},
}

// Build constructs the layout. area is the canvas size in display pixels.
func (rv *RootView) Build(area image.Point, h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: toolbar and task clock
	bar := Frame()
	Grid(bar, Row(0), Column(0), Columnspan(5), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	col := 0
	button := func(label, style string, fn func(), action bool) *TButtonWidget {
		b := TButton(Txt(label), Style(style), Command(func() {
			if fn != nil {
				fn()
			}
		}))
		Grid(b, In(bar), Row(0), Column(col), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		col++
		if action {
			rv.actions = append(rv.actions, b)
		}
		return b
	}
	button("Load Image", theme.StylePrimaryButton, h.LoadImage, true)
	button("Capture Screen", theme.StylePrimaryButton, h.CaptureScreen, true)
	button("Capture Region", theme.StylePrimaryButton, h.CaptureRegion, true)
	button("Reshape", theme.StylePrimaryButton, h.Reshape, true)
	button("Reset Corners", theme.StylePrimaryButton, h.ResetCorners, true)
	button("Grid", theme.StylePrimaryButton, h.ToggleGrid, true)
	rv.lockBtn = button("Lock Grid", theme.StylePrimaryButton, h.ToggleGridLock, true)
	button("OCR", theme.StylePrimaryButton, h.OCR, true)
	rv.cancelBtn = button("Cancel", theme.StyleDangerButton, h.Cancel, false)
	button("Exit", theme.StyleDangerButton, h.Exit, false)
	rv.Clock = NewTaskClock(bar, 0, col)

	// Row 1: status line
	rv.StatusLabel = TLabel(Txt("Load an image to begin."), Style(theme.StyleStatusLabel), Anchor("w"))
	Grid(rv.StatusLabel, Row(1), Column(0), Columnspan(5), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	// Row 2: canvas (columns 0-3) and loupe (column 4); settings to the right
	rv.Canvas = NewCanvasPane(2, area, h.Pointer)
	side := Frame()
	Grid(side, Row(2), Column(5), Rowspan(2), Sticky("n"), Padx("0.4m"), Pady("0.4m"))
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.ConfigApplied)
	rv.ConfigPanel.Build(side, 0)

	// Row 3: OCR results
	rv.Results = NewResultsTable(3)
	rv.SetBusy(false)
}

// SetStatus updates the status line.
func (rv *RootView) SetStatus(text string) {
	if rv != nil && rv.StatusLabel != nil {
		rv.StatusLabel.Configure(Txt(text))
	}
}

// SetBusy disables the action buttons and settings while a task runs and
// enables Cancel.
func (rv *RootView) SetBusy(busy bool) {
	if rv == nil {
		return
	}
	actions, cancel := "normal", "disabled"
	if busy {
		actions, cancel = "disabled", "normal"
	}
	for _, b := range rv.actions {
		b.Configure(State(actions))
	}
	if rv.cancelBtn != nil {
		rv.cancelBtn.Configure(State(cancel))
	}
	if rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(!busy)
	}
}

// SetGridLocked flips the lock button caption.
func (rv *RootView) SetGridLocked(locked bool) {
	if rv == nil || rv.lockBtn == nil {
		return
	}
	if locked {
		rv.lockBtn.Configure(Txt("Unlock Grid"))
	} else {
		rv.lockBtn.Configure(Txt("Lock Grid"))
	}
}

// ShowError pops up a blocking error dialog.
func (rv *RootView) ShowError(title, msg string) {
	if rv != nil && rv.logger != nil {
		rv.logger.Debug("dialog", "title", title, "message", msg)
	}
	MessageBox(Icon("error"), Title(title), Msg(msg))
}

// AskOpenFile shows the open dialog starting in dir and returns the chosen
// path, or "" when cancelled.
func (rv *RootView) AskOpenFile(dir string) string {
	opts := []Opt{Title("Open Image"), Filetypes(imageFileTypes)}
	if dir != "" {
		opts = append(opts, Initialdir(dir))
	}
	files := GetOpenFile(opts...)
	if len(files) == 0 {
		return ""
	}
	return files[0]
}

// --- presenter view contracts ---

func (rv *RootView) ShowCanvas(img image.Image) {
	if rv != nil && rv.Canvas != nil {
		rv.Canvas.ShowCanvas(img)
	}
}

func (rv *RootView) ShowLoupe(img image.Image) {
	if rv != nil && rv.Canvas != nil {
		rv.Canvas.ShowLoupe(img)
	}
}

func (rv *RootView) ShowTable(t ocr.Table) {
	if rv != nil && rv.Results != nil {
		rv.Results.Show(t)
	}
}

func (rv *RootView) ClearTable() {
	if rv != nil && rv.Results != nil {
		rv.Results.Clear()
	}
}

// SetTaskClock updates both the running task and total busy durations.
func (rv *RootView) SetTaskClock(task, total time.Duration) {
	if rv == nil || rv.Clock == nil {
		return
	}
	rv.Clock.SetTask(task)
	rv.Clock.SetTotal(total)
}
