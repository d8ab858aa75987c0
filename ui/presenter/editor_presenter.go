package presenter

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/soocke/pagewarp-go/config"
	"github.com/soocke/pagewarp-go/domain/editor"
	"github.com/soocke/pagewarp-go/domain/geometry"
	"github.com/soocke/pagewarp-go/domain/gridlines"
	"github.com/soocke/pagewarp-go/ui/images"
)

const (
	loupeSize = 41
	loupeZoom = 4
)

var canvasBackground = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}

// CanvasView shows the rendered editing canvas and the corner loupe.
type CanvasView interface {
	ShowCanvas(img image.Image)
	ShowLoupe(img image.Image) // nil clears the loupe
}

// EditorPresenter routes pointer events to the corner editor or the grid
// overlay and renders the preview with its overlay. All methods run on the
// Tk thread.
type EditorPresenter struct {
	editor *editor.Editor
	view   CanvasView
	logger *slog.Logger
	cfg    *config.Config
	area   image.Point
	style  images.OverlayStyle

	gridHitRadius float64

	src          image.Image
	preview      *image.NRGBA // src scaled by the viewport
	grid         *gridlines.Grid
	gridVisible  bool
	gridDragging bool
}

// NewEditorPresenter wires ed to view. area is the canvas size in display
// pixels.
func NewEditorPresenter(ed *editor.Editor, view CanvasView, area image.Point, cfg *config.Config, logger *slog.Logger) *EditorPresenter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	p := &EditorPresenter{
		editor:        ed,
		view:          view,
		logger:        logger,
		cfg:           cfg,
		area:          area,
		style:         images.DefaultOverlayStyle(),
		gridHitRadius: gridlines.DefaultHitRadius,
	}
	ed.AddListener(func(geometry.Quad) { p.redraw() })
	return p
}

// SetImage shows img, fits it to the canvas and resets corners to its bounds.
// Any grid from the previous image is discarded.
func (p *EditorPresenter) SetImage(img image.Image) {
	if p == nil || img == nil {
		return
	}
	size := img.Bounds().Size()
	vp := editor.FitViewport(size, p.area)
	p.src = img
	p.preview = images.ScaleBy(img, vp.Scale)
	p.grid = nil
	p.gridVisible = false
	p.gridDragging = false
	p.editor.SetViewport(vp)
	p.editor.SetImage(size) // listener redraws
}

// Corners returns the current corners in image coordinates.
func (p *EditorPresenter) Corners() geometry.Quad { return p.editor.Corners() }

// ResetCorners moves the corners back to the image bounds.
func (p *EditorPresenter) ResetCorners() {
	if p.editor.Loaded() {
		p.editor.Reset()
	}
}

// Press starts a grid or corner drag at display point (x, y). Unlocked grid
// handles take priority over corners.
func (p *EditorPresenter) Press(x, y int) {
	if p == nil || !p.editor.Loaded() {
		return
	}
	pt := geometry.Pt(float64(x), float64(y))
	if p.gridVisible && !p.grid.Locked() {
		vp := p.editor.Viewport()
		if p.grid.Press(vp.ToImage(pt), p.gridHitRadius/vp.Scale) {
			p.gridDragging = true
			return
		}
	}
	if p.editor.Press(pt) {
		p.showLoupe()
		p.redraw()
	}
}

// Drag moves whatever Press grabbed.
func (p *EditorPresenter) Drag(x, y int) {
	if p == nil {
		return
	}
	pt := geometry.Pt(float64(x), float64(y))
	if p.gridDragging {
		if p.grid.Drag(p.editor.Viewport().ToImage(pt)) {
			p.redraw()
		}
		return
	}
	if p.editor.Drag(pt) {
		p.showLoupe()
	}
}

// Release ends any drag.
func (p *EditorPresenter) Release() {
	if p == nil {
		return
	}
	_, wasDragging := p.editor.Dragging()
	p.grid.Release()
	p.gridDragging = false
	p.editor.Release()
	if wasDragging {
		p.view.ShowLoupe(nil)
		p.redraw()
	}
}

// ToggleGrid shows or hides the grid overlay, creating it over the image on
// first use with the configured row and column counts. It returns the new
// visibility.
func (p *EditorPresenter) ToggleGrid() bool {
	if p == nil || p.src == nil {
		return false
	}
	if p.grid == nil {
		p.grid = gridlines.New(image.Rectangle{Max: p.src.Bounds().Size()}, p.cfg.GridRows, p.cfg.GridCols)
	}
	p.gridVisible = !p.gridVisible
	p.gridDragging = false
	p.redraw()
	return p.gridVisible
}

// ToggleGridLock locks or unlocks a visible grid. ok is false when no grid
// is shown.
func (p *EditorPresenter) ToggleGridLock() (locked, ok bool) {
	if p == nil || !p.gridVisible {
		return false, false
	}
	locked = p.grid.ToggleLock()
	p.gridDragging = false
	p.redraw()
	return locked, true
}

// ColumnEdges returns the grid's interior column positions in image
// coordinates, or nil when no grid is shown.
func (p *EditorPresenter) ColumnEdges() []float64 {
	if p == nil || !p.gridVisible {
		return nil
	}
	return p.grid.ColumnEdges()
}

func (p *EditorPresenter) showLoupe() {
	i, ok := p.editor.Dragging()
	if !ok || p.src == nil {
		return
	}
	c := p.editor.Corners()[i].Image().Add(p.src.Bounds().Min)
	loupe, err := images.Loupe(p.src, c.X, c.Y, loupeSize, loupeZoom)
	if err != nil {
		if p.logger != nil {
			p.logger.Debug("loupe", "error", err)
		}
		return
	}
	p.view.ShowLoupe(loupe)
}

// Render composes the canvas: background, scaled image at the viewport offset,
// then quad, markers and grid.
func (p *EditorPresenter) Render() *image.NRGBA {
	if p == nil || p.preview == nil {
		return nil
	}
	vp := p.editor.Viewport()
	canvas := imaging.New(max(p.area.X, 1), max(p.area.Y, 1), canvasBackground)
	canvas = imaging.Paste(canvas, p.preview, vp.Offset.Image())

	active, _ := p.editor.Dragging()
	ov := images.Overlay{Active: active, ShowCorners: true, GridLocked: p.grid.Locked()}
	for _, c := range p.editor.Corners() {
		ov.Corners = append(ov.Corners, vp.ToDisplay(c).Image())
	}
	if p.gridVisible {
		for _, l := range append(append([]gridlines.Line(nil), p.grid.H...), p.grid.V...) {
			ov.Grid = append(ov.Grid, images.Segment{From: vp.ToDisplay(l.Start).Image(), To: vp.ToDisplay(l.End).Image()})
		}
	}
	st := p.style
	st.MarkerRadius = float64(p.cfg.MarkerRadiusPx)
	images.DrawOverlay(canvas, ov, st)
	return canvas
}

func (p *EditorPresenter) redraw() {
	if p.view == nil {
		return
	}
	if img := p.Render(); img != nil {
		p.view.ShowCanvas(img)
	}
}
