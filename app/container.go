package app

import (
	"image"
	"log/slog"

	"github.com/soocke/pagewarp-go/config"
	"github.com/soocke/pagewarp-go/domain/capture"
	"github.com/soocke/pagewarp-go/domain/editor"
	"github.com/soocke/pagewarp-go/domain/imageio"
	"github.com/soocke/pagewarp-go/domain/ocr/engines"
	"github.com/soocke/pagewarp-go/ui/model"
	"github.com/soocke/pagewarp-go/ui/presenter"
	"github.com/soocke/pagewarp-go/ui/view"
)

// Side panel and toolbar space reserved around the canvas, in pixels.
const (
	sideReserveW = 420
	rowsReserveH = 260
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger
	State      *model.AppState
	Clock      *model.TaskClock
	Editor     *editor.Editor
	CaptureSvc *capture.Service
	Engines    *engines.Factory
	RootView   *view.RootView
	Area       image.Point

	// Presenters
	EditorPresenter   *presenter.EditorPresenter
	DocumentPresenter *presenter.DocumentPresenter
	TaskPresenter     *presenter.TaskPresenter
	StatusPresenter   *presenter.StatusPresenter
	ClockPresenter    *presenter.ClockPresenter
	Loop              *presenter.Loop
}

// CanvasArea returns the editing canvas size for the configured window.
func CanvasArea(cfg *config.Config) image.Point {
	return image.Pt(max(cfg.WindowWidth-sideReserveW, 320), max(cfg.WindowHeight-rowsReserveH, 240))
}

// BuildContainer constructs all components. No Tk calls happen here; the
// root view is laid out later by Build.
func BuildContainer(cfg *config.Config, logger *slog.Logger, cfgPath string) *AppContainer {
	c := &AppContainer{Config: cfg, ConfigPath: cfgPath, Logger: logger}
	c.Area = CanvasArea(cfg)
	c.State = model.NewAppState()
	c.Clock = model.NewTaskClock()
	c.Editor = editor.New(float64(cfg.HitRadiusPx))
	c.CaptureSvc = capture.NewService(logger.With("component", "capture"), nil)
	c.Engines = engines.NewFactory(cfg, logger)
	c.RootView = view.NewRootView(cfg, cfgPath, logger)

	c.StatusPresenter = presenter.NewStatusPresenter(c.RootView)
	c.EditorPresenter = presenter.NewEditorPresenter(c.Editor, c.RootView, c.Area, cfg, logger.With("component", "editor"))
	c.DocumentPresenter = presenter.NewDocumentPresenter(c.State, c.EditorPresenter, c.RootView, c.StatusPresenter,
		imageio.Load, c.CaptureSvc, cfg, c.saveConfig, logger.With("component", "document"))
	c.TaskPresenter = presenter.NewTaskPresenter(c.State, c.EditorPresenter, c.RootView, c.StatusPresenter,
		cfg, c.Engines.New, logger.With("component", "task"))
	c.ClockPresenter = presenter.NewClockPresenter(c.Clock, c.State, c.RootView)
	return c
}

func (c *AppContainer) saveConfig() error {
	if c.ConfigPath == "" {
		return nil
	}
	return c.Config.Save(c.ConfigPath)
}

// ApplyConfig pushes edited settings into long-lived components. Marker
// radius and grid size are read live by the editor presenter.
func (c *AppContainer) ApplyConfig(cfg *config.Config) {
	c.Editor.SetHitRadius(float64(cfg.HitRadiusPx))
	c.Logger.Info("config applied", "engine", cfg.OCREngine, "interpolation", cfg.Interpolation)
}
