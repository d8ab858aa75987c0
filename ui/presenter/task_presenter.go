package presenter

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/soocke/pagewarp-go/config"
	"github.com/soocke/pagewarp-go/domain/geometry"
	"github.com/soocke/pagewarp-go/domain/imageio"
	"github.com/soocke/pagewarp-go/domain/ocr"
	"github.com/soocke/pagewarp-go/domain/warp"
	"github.com/soocke/pagewarp-go/ui/model"
)

// Dialog titles shown for task failures.
const (
	TitleNoImage       = "No Image"
	TitleGeometry      = "Invalid Geometry"
	TitleAuth          = "Authentication Error"
	TitleNoResults     = "No Results"
	TitleReshapeFailed = "Reshape Failed"
	TitleOCRFailed     = "OCR Failed"
	TitleBusy          = "Busy"
)

// DocumentEditor is the part of the editor presenter used by tasks.
type DocumentEditor interface {
	SetImage(img image.Image)
	Corners() geometry.Quad
	ColumnEdges() []float64
}

// TaskView is the UI surface updated when tasks start and finish.
type TaskView interface {
	SetBusy(busy bool)
	ShowTable(t ocr.Table)
	ClearTable()
	ShowError(title, msg string)
}

// StatusSink receives status line messages.
type StatusSink interface{ OnStatus(string) }

// EngineFactory returns the OCR engine registered under name.
type EngineFactory func(name string) (ocr.Engine, error)

type taskKind int

const (
	taskReshape taskKind = iota + 1
	taskOCR
)

func (k taskKind) String() string {
	switch k {
	case taskReshape:
		return "reshape"
	case taskOCR:
		return "ocr"
	default:
		return "unknown"
	}
}

type task struct {
	kind taskKind
	id   uint64
	ctx  context.Context

	src image.Image

	// reshape
	quad    geometry.Quad
	interp  warp.Interpolation
	outPath string
	quality int

	// ocr
	engine  ocr.Engine
	ocrOpts ocr.Options
}

type taskResult struct {
	kind     taskKind
	id       uint64
	err      error
	image    *image.NRGBA
	path     string
	table    ocr.Table
	duration time.Duration
}

// TaskPresenter runs reshape and OCR on a single background worker. Only one
// task is in flight at a time; results are applied on the Tk thread by
// ProcessResults. The running task's context backs Cancel.
type TaskPresenter struct {
	State   *model.AppState
	Editor  DocumentEditor
	View    TaskView
	Status  StatusSink
	Config  *config.Config
	Engines EngineFactory
	logger  *slog.Logger

	workerOnce sync.Once
	closeOnce  sync.Once
	workCh     chan task
	resultCh   chan taskResult

	seq     uint64
	current uint64
	cancel  context.CancelFunc
}

// NewTaskPresenter constructs a task presenter.
func NewTaskPresenter(state *model.AppState, ed DocumentEditor, view TaskView, status StatusSink, cfg *config.Config, engines EngineFactory, logger *slog.Logger) *TaskPresenter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskPresenter{
		State:    state,
		Editor:   ed,
		View:     view,
		Status:   status,
		Config:   cfg,
		Engines:  engines,
		logger:   logger,
		workCh:   make(chan task, 1),
		resultCh: make(chan taskResult, 1),
	}
}

// Reshape straightens the current corners into a new image, saves it as
// <name>_cropped.<ext> and makes it the current document.
func (p *TaskPresenter) Reshape() {
	if !p.ready() {
		return
	}
	doc := p.State.Document()
	t := task{
		kind:    taskReshape,
		src:     doc.Image,
		quad:    p.Editor.Corners(),
		interp:  warp.ParseInterpolation(p.Config.Interpolation),
		outPath: p.outputPath(doc),
		quality: p.Config.JPEGQuality,
	}
	p.start(t, 0, "Reshaping...")
}

// OCR reads the current image into a table using the configured engine.
// Visible gridlines supply the column boundaries.
func (p *TaskPresenter) OCR() {
	if !p.ready() {
		return
	}
	if p.Engines == nil {
		p.View.ShowError(TitleOCRFailed, "No OCR engine configured.")
		return
	}
	engine, err := p.Engines(p.Config.OCREngine)
	if err != nil {
		p.logger.Error("ocr engine", "engine", p.Config.OCREngine, "error", err)
		p.View.ShowError(TitleOCRFailed, err.Error())
		return
	}
	t := task{
		kind:   taskOCR,
		src:    p.State.Document().Image,
		engine: engine,
		ocrOpts: ocr.Options{
			Languages: p.Config.OCRLanguages,
			Layout: ocr.LayoutOptions{
				Columns:       p.Config.TableColumns,
				LineTolerance: p.Config.LineTolerancePx,
				ColumnEdges:   p.Editor.ColumnEdges(),
			},
		},
	}
	timeout := time.Duration(p.Config.OCRTimeoutSeconds) * time.Second
	p.start(t, timeout, "Processing OCR... Please wait.")
}

// Cancel requests cancellation of the running task.
func (p *TaskPresenter) Cancel() {
	if p == nil || p.cancel == nil {
		return
	}
	p.cancel()
	p.status("Cancelling...")
}

// Close cancels any running task and stops the worker.
func (p *TaskPresenter) Close() {
	if p == nil {
		return
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.closeOnce.Do(func() { close(p.workCh) })
}

func (p *TaskPresenter) status(msg string) {
	if p.Status != nil {
		p.Status.OnStatus(msg)
	}
}

func (p *TaskPresenter) ready() bool {
	if p == nil || p.State == nil || p.Editor == nil || p.View == nil {
		return false
	}
	if p.State.Busy() {
		p.View.ShowError(TitleBusy, "Another operation is still running.")
		return false
	}
	if !p.State.HasImage() {
		p.View.ShowError(TitleNoImage, "Please load an image first.")
		return false
	}
	return true
}

func (p *TaskPresenter) outputPath(doc model.Document) string {
	if doc.Path != "" {
		return imageio.CroppedPath(doc.Path, imageio.DefaultSuffix)
	}
	dir := p.Config.OutputDir
	if dir == "" {
		dir = "."
	}
	name := doc.Name
	if name == "" {
		name = "image"
	}
	return filepath.Join(dir, name+imageio.DefaultSuffix+".png")
}

func (p *TaskPresenter) start(t task, timeout time.Duration, status string) {
	p.ensureWorker()
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	p.seq++
	t.id = p.seq
	t.ctx = ctx
	p.current = t.id
	p.cancel = cancel
	p.State.SetBusy(true)
	p.View.SetBusy(true)
	p.status(status)
	p.logger.Debug("task.start", "kind", t.kind.String(), "id", t.id)
	p.dispatchTask(t)
}

func (p *TaskPresenter) ensureWorker() {
	p.workerOnce.Do(func() {
		go p.runWorker()
	})
}

func (p *TaskPresenter) runWorker() {
	for t := range p.workCh {
		res := p.executeTask(t)
		select {
		case p.resultCh <- res:
		default:
			select {
			case <-p.resultCh:
			default:
			}
			select {
			case p.resultCh <- res:
			default:
			}
		}
	}
}

func (p *TaskPresenter) dispatchTask(t task) {
	select {
	case p.workCh <- t:
	default:
		select {
		case <-p.workCh:
		default:
		}
		select {
		case p.workCh <- t:
		default:
		}
	}
}

func (p *TaskPresenter) executeTask(t task) taskResult {
	start := time.Now()
	res := taskResult{kind: t.kind, id: t.id}
	switch t.kind {
	case taskReshape:
		out, err := warp.TransformContext(t.ctx, t.src, t.quad, warp.Options{Interpolation: t.interp})
		if err != nil {
			res.err = err
			break
		}
		if err := t.ctx.Err(); err != nil {
			res.err = err
			break
		}
		if err := imageio.Save(t.outPath, out.Image, t.quality); err != nil {
			res.err = fmt.Errorf("save %s: %w", t.outPath, err)
			break
		}
		res.image = out.Image
		res.path = t.outPath
	case taskOCR:
		res.table, res.err = ocr.Recognize(t.ctx, t.engine, t.src, t.ocrOpts)
	default:
		res.err = errors.New("unknown task kind")
	}
	res.duration = time.Since(start)
	return res
}

// ProcessResults applies finished tasks. Call from the Tk thread.
func (p *TaskPresenter) ProcessResults() {
	if p == nil {
		return
	}
	for {
		select {
		case res := <-p.resultCh:
			p.handleResult(res)
		default:
			return
		}
	}
}

func (p *TaskPresenter) handleResult(res taskResult) {
	if res.id != p.current {
		p.logger.Debug("task.stale", "kind", res.kind.String(), "id", res.id)
		return
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.current = 0
	p.State.SetBusy(false)
	p.View.SetBusy(false)

	if res.err != nil {
		p.handleError(res)
		return
	}
	p.logger.Info("task.done", "kind", res.kind.String(), "duration", res.duration)
	switch res.kind {
	case taskReshape:
		p.State.SetDocument(model.Document{Path: res.path, Image: res.image})
		p.Editor.SetImage(res.image)
		p.View.ClearTable()
		b := res.image.Bounds()
		p.status(fmt.Sprintf("Saved %s (%dx%d)", res.path, b.Dx(), b.Dy()))
	case taskOCR:
		p.State.SetTable(res.table)
		p.View.ShowTable(res.table)
		p.status(fmt.Sprintf("OCR complete: %d rows", len(res.table.Rows)))
	}
}

func (p *TaskPresenter) handleError(res taskResult) {
	err := res.err
	switch {
	case errors.Is(err, context.Canceled):
		p.logger.Info("task.cancelled", "kind", res.kind.String())
		p.status("Cancelled.")
		return
	case errors.Is(err, context.DeadlineExceeded):
		p.logger.Warn("task.timeout", "kind", res.kind.String())
		p.status("Timed out.")
		p.View.ShowError(TitleOCRFailed, "The OCR request timed out.")
		return
	}
	p.logger.Error("task.failed", "kind", res.kind.String(), "error", err)
	p.status("Failed.")
	switch {
	case errors.Is(err, geometry.ErrInvalidGeometry):
		p.View.ShowError(TitleGeometry, err.Error())
	case errors.Is(err, ocr.ErrAuthentication):
		p.View.ShowError(TitleAuth, fmt.Sprintf("Could not authenticate with the OCR service: %v", err))
	case errors.Is(err, ocr.ErrNoResults):
		p.View.ShowError(TitleNoResults, "No table data could be extracted from the image.")
	case res.kind == taskReshape:
		p.View.ShowError(TitleReshapeFailed, err.Error())
	default:
		p.View.ShowError(TitleOCRFailed, err.Error())
	}
}
