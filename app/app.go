package app

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/pagewarp-go/config"
	"github.com/soocke/pagewarp-go/debug"
	"github.com/soocke/pagewarp-go/ui/presenter"
	"github.com/soocke/pagewarp-go/ui/theme"
	"github.com/soocke/pagewarp-go/ui/view"
)

const (
	tick = 100 * time.Millisecond
	// regionDelay lets the window manager unmap the region picker before the
	// screen is grabbed.
	regionDelay = 250 * time.Millisecond
	debugEvery  = 5 * time.Second
)

type app struct {
	c       *AppContainer
	title   string
	afterID string
	picker  view.RegionPicker
	stop    context.CancelFunc
}

// NewApp builds the container and configures the main window.
func NewApp(title string, cfg *config.Config, cfgPath string, logger *slog.Logger) *app {
	a := &app{title: title, c: BuildContainer(cfg, logger, cfgPath)}
	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", cfg.WindowWidth, cfg.WindowHeight))
	return a
}

// Start lays out the UI, starts the tick loop and blocks in the Tk event
// loop until the window closes.
func (a *app) Start() {
	c := a.c
	ctx, cancel := context.WithCancel(context.Background())
	a.stop = cancel
	if c.Config.Debug {
		debug.StartGoroutineLogger(ctx, debugEvery, c.Logger.With("component", "debug"))
		debug.StartMemLogger(ctx, debugEvery, c.Logger.With("component", "debug"))
	}

	theme.InitStyles(c.Config.DarkMode)
	a.picker = view.NewRegionPicker(a.captureRegion, c.Logger)
	c.RootView.Build(c.Area, view.Handlers{
		LoadImage:      a.loadImage,
		CaptureScreen:  a.captureScreen,
		CaptureRegion:  a.openRegionPicker,
		Reshape:        c.TaskPresenter.Reshape,
		ResetCorners:   c.EditorPresenter.ResetCorners,
		ToggleGrid:     a.toggleGrid,
		ToggleGridLock: a.toggleGridLock,
		OCR:            c.TaskPresenter.OCR,
		Cancel:         c.TaskPresenter.Cancel,
		Exit:           a.exitHandler,
		Pointer: view.PointerHandlers{
			Press:   c.EditorPresenter.Press,
			Drag:    c.EditorPresenter.Drag,
			Release: c.EditorPresenter.Release,
		},
		ConfigApplied: c.ApplyConfig,
	})
	c.StatusPresenter.OnStatus(c.State.Status())

	c.Loop = presenter.NewLoop(c.TaskPresenter, c.ClockPresenter, c.StatusPresenter, a.scheduleUpdate)
	a.scheduleUpdate()
	c.Logger.Info("app started", "canvas_w", c.Area.X, "canvas_h", c.Area.Y, "engine", c.Config.OCREngine)

	App.Wait()
}

func (a *app) scheduleUpdate() {
	// TclAfter keeps the tick on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.c.Loop.Tick() })
}

func (a *app) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	if a.picker != nil {
		a.picker.Close()
	}
	a.c.TaskPresenter.Close()
	if a.stop != nil {
		a.stop()
	}
	Destroy(App)
}

func (a *app) loadImage() {
	path := a.c.RootView.AskOpenFile(a.c.Config.LastDir)
	if err := a.c.DocumentPresenter.Open(path); err == nil && path != "" {
		a.c.RootView.SetGridLocked(false)
	}
}

func (a *app) captureScreen() {
	if err := a.c.DocumentPresenter.CaptureScreen(); err == nil {
		a.c.RootView.SetGridLocked(false)
	}
}

func (a *app) openRegionPicker() {
	r, _ := a.c.Config.CaptureRegion()
	a.picker.OpenOrFocus(r)
}

func (a *app) captureRegion(r image.Rectangle) {
	TclAfter(regionDelay, func() {
		if err := a.c.DocumentPresenter.CaptureRegion(r); err == nil {
			a.c.RootView.SetGridLocked(false)
		}
	})
}

func (a *app) toggleGrid() {
	if !a.c.State.HasImage() {
		a.c.RootView.ShowError(presenter.TitleNoImage, "Please load an image first.")
		return
	}
	visible := a.c.EditorPresenter.ToggleGrid()
	if visible {
		a.c.StatusPresenter.OnStatus("Grid shown. Drag line ends to match the table.")
	} else {
		a.c.StatusPresenter.OnStatus("Grid hidden.")
	}
}

func (a *app) toggleGridLock() {
	locked, ok := a.c.EditorPresenter.ToggleGridLock()
	if !ok {
		a.c.StatusPresenter.OnStatus("Show the grid first.")
		return
	}
	a.c.RootView.SetGridLocked(locked)
	if locked {
		a.c.StatusPresenter.OnStatus("Grid locked.")
	} else {
		a.c.StatusPresenter.OnStatus("Grid unlocked.")
	}
}
