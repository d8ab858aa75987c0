package presenter

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/soocke/pagewarp-go/config"
	"github.com/soocke/pagewarp-go/domain/capture"
	"github.com/soocke/pagewarp-go/domain/editor"
	"github.com/soocke/pagewarp-go/domain/geometry"
	"github.com/soocke/pagewarp-go/domain/ocr"
	"github.com/soocke/pagewarp-go/ui/model"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type mockCanvas struct {
	canvases  int
	last      image.Image
	loupes    int
	lastLoupe image.Image
}

func (m *mockCanvas) ShowCanvas(img image.Image) { m.canvases++; m.last = img }
func (m *mockCanvas) ShowLoupe(img image.Image)  { m.loupes++; m.lastLoupe = img }

type mockTaskView struct {
	busy      bool
	busyCalls int
	tables    []ocr.Table
	cleared   int
	errTitles []string
	errMsgs   []string
}

func (v *mockTaskView) SetBusy(b bool)        { v.busy = b; v.busyCalls++ }
func (v *mockTaskView) ShowTable(t ocr.Table) { v.tables = append(v.tables, t) }
func (v *mockTaskView) ClearTable()           { v.cleared++ }
func (v *mockTaskView) ShowError(title, msg string) {
	v.errTitles = append(v.errTitles, title)
	v.errMsgs = append(v.errMsgs, msg)
}

type mockStatus struct{ msgs []string }

func (s *mockStatus) OnStatus(m string) { s.msgs = append(s.msgs, m) }
func (s *mockStatus) last() string {
	if len(s.msgs) == 0 {
		return ""
	}
	return s.msgs[len(s.msgs)-1]
}

type mockEditor struct {
	quad   geometry.Quad
	edges  []float64
	images []image.Image
}

func (e *mockEditor) SetImage(img image.Image) { e.images = append(e.images, img) }
func (e *mockEditor) Corners() geometry.Quad   { return e.quad }
func (e *mockEditor) ColumnEdges() []float64   { return e.edges }

type mockEngine struct {
	page  ocr.Page
	err   error
	block bool
	got   ocr.Input
}

func (m *mockEngine) Name() string { return "mock" }

func (m *mockEngine) Recognize(ctx context.Context, in ocr.Input) (ocr.Page, error) {
	m.got = in
	if m.block {
		<-ctx.Done()
		return ocr.Page{}, ctx.Err()
	}
	return m.page, m.err
}

func solidImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 5), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	return img
}

func waitIdle(t *testing.T, p *TaskPresenter) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		p.ProcessResults()
		if !p.State.Busy() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("task did not finish")
}

func newTaskFixture(t *testing.T, engine ocr.Engine) (*TaskPresenter, *mockTaskView, *mockEditor, *mockStatus, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "page.png")
	img := solidImage(40, 30)
	state := model.NewAppState()
	state.SetDocument(model.Document{Path: path, Image: img})
	ed := &mockEditor{quad: geometry.RectQuad(img.Bounds())}
	view := &mockTaskView{}
	status := &mockStatus{}
	factory := func(name string) (ocr.Engine, error) {
		if engine == nil {
			return nil, errors.New("no engine")
		}
		return engine, nil
	}
	p := NewTaskPresenter(state, ed, view, status, config.DefaultConfig(), factory, quietLogger())
	t.Cleanup(p.Close)
	return p, view, ed, status, path
}

func TestTaskPresenter_ReshapeSavesAndReplacesDocument(t *testing.T) {
	p, view, ed, status, path := newTaskFixture(t, nil)
	p.Reshape()
	if !view.busy || !p.State.Busy() {
		t.Fatalf("expected busy while reshaping")
	}
	waitIdle(t, p)

	want := strings.TrimSuffix(path, ".png") + "_cropped.png"
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if got := p.State.Document().Path; got != want {
		t.Fatalf("document path = %q, want %q", got, want)
	}
	if len(ed.images) != 1 || ed.images[0].Bounds().Size() != image.Pt(40, 30) {
		t.Fatalf("editor not reloaded with result")
	}
	if view.busy || view.cleared != 1 || len(view.errTitles) != 0 {
		t.Fatalf("unexpected view state: %+v", view)
	}
	if !strings.HasPrefix(status.last(), "Saved ") {
		t.Fatalf("status = %q", status.last())
	}
}

func TestTaskPresenter_ReshapeInvalidGeometry(t *testing.T) {
	p, view, ed, _, path := newTaskFixture(t, nil)
	ed.quad = geometry.Quad{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}, {X: 0, Y: 10}}
	p.Reshape()
	waitIdle(t, p)
	if len(view.errTitles) != 1 || view.errTitles[0] != TitleGeometry {
		t.Fatalf("expected geometry error dialog, got %v", view.errTitles)
	}
	if _, err := os.Stat(strings.TrimSuffix(path, ".png") + "_cropped.png"); !os.IsNotExist(err) {
		t.Fatalf("no output expected on failure")
	}
}

func TestTaskPresenter_OCRShowsTableAndForwardsEdges(t *testing.T) {
	eng := &mockEngine{page: ocr.Page{Width: 40, Words: []ocr.Word{
		{Text: "a", Bounds: image.Rect(0, 0, 4, 4)},
		{Text: "b", Bounds: image.Rect(30, 0, 34, 4)},
		{Text: "c", Bounds: image.Rect(0, 100, 4, 104)},
	}}}
	p, view, ed, status, _ := newTaskFixture(t, eng)
	ed.edges = []float64{20}
	p.OCR()
	waitIdle(t, p)

	if len(view.tables) != 1 {
		t.Fatalf("expected one table, got %d (errors %v)", len(view.tables), view.errMsgs)
	}
	tbl := view.tables[0]
	if strings.Join(tbl.Header, "|") != "a|b" || len(tbl.Rows) != 1 || tbl.Rows[0][0] != "c" {
		t.Fatalf("unexpected table %+v", tbl)
	}
	if eng.got.Format != ocr.ImageFormatPNG || eng.got.Languages[0] != "en" {
		t.Fatalf("unexpected engine input: %+v", eng.got.Format)
	}
	if p.State.Table().Columns() != 2 {
		t.Fatalf("state table not stored")
	}
	if status.last() != "OCR complete: 1 rows" {
		t.Fatalf("status = %q", status.last())
	}
}

func TestTaskPresenter_OCRAuthenticationError(t *testing.T) {
	eng := &mockEngine{err: &ocr.AuthenticationError{Engine: "mock", Err: errors.New("credentials missing")}}
	p, view, _, _, _ := newTaskFixture(t, eng)
	p.OCR()
	waitIdle(t, p)
	if len(view.errTitles) != 1 || view.errTitles[0] != TitleAuth {
		t.Fatalf("expected auth dialog, got %v", view.errTitles)
	}
	if !strings.Contains(view.errMsgs[0], "credentials missing") {
		t.Fatalf("message = %q", view.errMsgs[0])
	}
}

func TestTaskPresenter_OCRNoResults(t *testing.T) {
	p, view, _, _, _ := newTaskFixture(t, &mockEngine{})
	p.OCR()
	waitIdle(t, p)
	if len(view.errTitles) != 1 || view.errTitles[0] != TitleNoResults {
		t.Fatalf("expected no-results dialog, got %v", view.errTitles)
	}
}

func TestTaskPresenter_CancelStopsRunningTask(t *testing.T) {
	p, view, _, status, _ := newTaskFixture(t, &mockEngine{block: true})
	p.OCR()
	p.OCR() // rejected while busy
	if len(view.errTitles) != 1 || view.errTitles[0] != TitleBusy {
		t.Fatalf("expected busy dialog, got %v", view.errTitles)
	}
	p.Cancel()
	waitIdle(t, p)
	if status.last() != "Cancelled." {
		t.Fatalf("status = %q", status.last())
	}
	if len(view.errTitles) != 1 || len(view.tables) != 0 {
		t.Fatalf("cancel should not raise dialogs or tables: %v", view.errTitles)
	}
}

func TestTaskPresenter_RequiresImage(t *testing.T) {
	view := &mockTaskView{}
	p := NewTaskPresenter(model.NewAppState(), &mockEditor{}, view, &mockStatus{}, nil, nil, quietLogger())
	defer p.Close()
	p.Reshape()
	p.OCR()
	if len(view.errTitles) != 2 || view.errTitles[0] != TitleNoImage || view.errTitles[1] != TitleNoImage {
		t.Fatalf("expected two no-image dialogs, got %v", view.errTitles)
	}
	if view.busyCalls != 0 {
		t.Fatalf("nothing should start")
	}
}

func TestTaskPresenter_ScreenCaptureOutputPath(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = "/tmp/out"
	p := &TaskPresenter{Config: cfg}
	got := p.outputPath(model.Document{Name: "screen-20260102-150405"})
	if got != filepath.Join("/tmp/out", "screen-20260102-150405_cropped.png") {
		t.Fatalf("output path = %q", got)
	}
}

func TestEditorPresenter_DragCornerThroughViewport(t *testing.T) {
	canvas := &mockCanvas{}
	ed := editor.New(10)
	p := NewEditorPresenter(ed, canvas, image.Pt(1000, 600), config.DefaultConfig(), quietLogger())
	p.SetImage(solidImage(2000, 1000))

	if canvas.canvases == 0 || canvas.last.Bounds().Size() != image.Pt(1000, 600) {
		t.Fatalf("canvas not rendered at area size")
	}
	// scale 0.5, offset (0,50): TL corner sits at display (0,50)
	p.Press(3, 52)
	p.Drag(100, 150)
	if got := p.Corners()[geometry.TopLeft]; got != geometry.Pt(200, 200) {
		t.Fatalf("TL = %v, want (200,200)", got)
	}
	if canvas.lastLoupe == nil {
		t.Fatalf("loupe should be shown while dragging")
	}
	p.Release()
	if canvas.lastLoupe != nil {
		t.Fatalf("loupe should clear on release")
	}
	p.ResetCorners()
	if got := p.Corners()[geometry.TopLeft]; got != geometry.Pt(0, 0) {
		t.Fatalf("reset TL = %v", got)
	}
}

func TestEditorPresenter_GridTakesPriorityUntilLocked(t *testing.T) {
	canvas := &mockCanvas{}
	cfg := config.DefaultConfig()
	cfg.GridRows, cfg.GridCols = 3, 4
	p := NewEditorPresenter(editor.New(10), canvas, image.Pt(400, 300), cfg, quietLogger())
	p.SetImage(solidImage(400, 300))

	if _, ok := p.ToggleGridLock(); ok {
		t.Fatalf("lock should need a visible grid")
	}
	if p.ColumnEdges() != nil {
		t.Fatalf("hidden grid should not supply edges")
	}
	if !p.ToggleGrid() {
		t.Fatalf("grid should become visible")
	}
	p.Press(200, 299)
	p.Drag(240, 250)
	p.Release()
	edges := p.ColumnEdges()
	if len(edges) != 3 || edges[1] != 220 {
		t.Fatalf("edges = %v, want middle edge at 220", edges)
	}

	if locked, ok := p.ToggleGridLock(); !ok || !locked {
		t.Fatalf("expected locked grid")
	}
	p.Press(100, 0)
	p.Drag(150, 0)
	p.Release()
	if got := p.ColumnEdges(); got[0] != 100 {
		t.Fatalf("locked grid moved: %v", got)
	}

	if p.ToggleGrid() {
		t.Fatalf("grid should hide")
	}
	if p.ColumnEdges() != nil {
		t.Fatalf("hidden grid should not supply edges")
	}
}

type mockSnap struct {
	snap   capture.FrameSnapshot
	err    error
	rect   image.Rectangle
	rectOK bool
}

func (m *mockSnap) Snapshot() (capture.FrameSnapshot, error) { return m.snap, m.err }

func (m *mockSnap) SnapshotRect(r image.Rectangle) (capture.FrameSnapshot, error) {
	m.rect, m.rectOK = r, true
	return m.snap, m.err
}

func TestDocumentPresenter_OpenLoadsAndPersistsDir(t *testing.T) {
	state := model.NewAppState()
	ed := &mockEditor{}
	view := &mockTaskView{}
	status := &mockStatus{}
	cfg := config.DefaultConfig()
	saved := 0
	load := func(path string) (image.Image, error) { return solidImage(8, 6), nil }
	p := NewDocumentPresenter(state, ed, view, status, load, nil, cfg, func() error { saved++; return nil }, quietLogger())

	if err := p.Open(""); err != nil || len(ed.images) != 0 {
		t.Fatalf("empty path should be ignored")
	}
	if err := p.Open(filepath.Join("scans", "page.jpg")); err != nil {
		t.Fatalf("open: %v", err)
	}
	if state.Document().Name != "page" || len(ed.images) != 1 || view.cleared != 1 {
		t.Fatalf("document not shown: %+v", state.Document())
	}
	if cfg.LastDir != "scans" || saved != 1 {
		t.Fatalf("last dir not persisted: %q saved=%d", cfg.LastDir, saved)
	}
	if status.last() != "Loaded page (8x6)" {
		t.Fatalf("status = %q", status.last())
	}
}

func TestDocumentPresenter_OpenFailureShowsDialog(t *testing.T) {
	view := &mockTaskView{}
	boom := errors.New("corrupt")
	p := NewDocumentPresenter(model.NewAppState(), &mockEditor{}, view, nil, func(string) (image.Image, error) { return nil, boom }, nil, nil, nil, quietLogger())
	if err := p.Open("x.png"); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
	if len(view.errTitles) != 1 || !strings.Contains(view.errMsgs[0], "corrupt") {
		t.Fatalf("expected error dialog, got %v", view.errMsgs)
	}
}

func TestDocumentPresenter_CaptureScreen(t *testing.T) {
	state := model.NewAppState()
	ed := &mockEditor{}
	frame := image.NewRGBA(image.Rect(0, 0, 16, 9))
	snap := &mockSnap{snap: capture.FrameSnapshot{Image: frame, CapturedAt: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), Sequence: 1}}
	p := NewDocumentPresenter(state, ed, &mockTaskView{}, nil, nil, snap, nil, nil, quietLogger())
	if err := p.CaptureScreen(); err != nil {
		t.Fatalf("capture: %v", err)
	}
	doc := state.Document()
	if doc.Path != "" || doc.Name != "screen-20260102-150405" || doc.Image != frame {
		t.Fatalf("unexpected document %+v", doc)
	}
	if len(ed.images) != 1 {
		t.Fatalf("editor not updated")
	}
}

func TestDocumentPresenter_CaptureRegionRemembersRect(t *testing.T) {
	cfg := config.DefaultConfig()
	saved := 0
	snap := &mockSnap{snap: capture.FrameSnapshot{Image: image.NewRGBA(image.Rect(0, 0, 100, 50)), CapturedAt: time.Now()}}
	p := NewDocumentPresenter(model.NewAppState(), &mockEditor{}, &mockTaskView{}, nil, nil, snap, cfg, func() error { saved++; return nil }, quietLogger())
	r := image.Rect(5, 5, 105, 55)
	if err := p.CaptureRegion(r); err != nil {
		t.Fatalf("capture region: %v", err)
	}
	if !snap.rectOK || snap.rect != r {
		t.Fatalf("rect not forwarded: %v", snap.rect)
	}
	if got, ok := cfg.CaptureRegion(); !ok || got != r || saved != 1 {
		t.Fatalf("region not persisted: %v saved=%d", got, saved)
	}
	_ = p.CaptureRegion(r)
	if saved != 1 {
		t.Fatalf("unchanged region should not be saved again")
	}
}

func TestDocumentPresenter_CaptureFailureShowsDialog(t *testing.T) {
	view := &mockTaskView{}
	p := NewDocumentPresenter(model.NewAppState(), &mockEditor{}, view, nil, nil, &mockSnap{err: errors.New("no display")}, nil, nil, quietLogger())
	if err := p.CaptureScreen(); err == nil {
		t.Fatalf("expected capture error")
	}
	if len(view.errMsgs) != 1 || !strings.Contains(view.errMsgs[0], "no display") {
		t.Fatalf("dialog = %v", view.errMsgs)
	}
}

type mockStatusView struct{ set []string }

func (v *mockStatusView) SetStatus(s string) { v.set = append(v.set, s) }

type mockClockView struct{ task, total time.Duration }

func (v *mockClockView) SetTaskClock(task, total time.Duration) { v.task, v.total = task, total }

type busyFlag bool

func (b busyFlag) Busy() bool { return bool(b) }

func TestStatusPresenter_ReflectsLatestOnly(t *testing.T) {
	v := &mockStatusView{}
	p := NewStatusPresenter(v)
	p.OnStatus("one")
	p.OnStatus("two")
	p.Tick()
	p.Tick()
	p.OnStatus("two")
	p.Tick()
	if len(v.set) != 1 || v.set[0] != "two" {
		t.Fatalf("status updates = %v", v.set)
	}
}

func TestLoop_TickDrivesPresentersAndReschedules(t *testing.T) {
	sv := &mockStatusView{}
	status := NewStatusPresenter(sv)
	cv := &mockClockView{}
	clock := NewClockPresenter(model.NewTaskClock(), busyFlag(true), cv)
	scheduled := 0
	l := NewLoop(nil, clock, status, func() { scheduled++ })
	status.OnStatus("ready")
	l.Tick()
	l.Tick()
	if scheduled != 2 || len(sv.set) != 1 {
		t.Fatalf("scheduled=%d status=%v", scheduled, sv.set)
	}
	if cv.task < 0 || cv.total < cv.task {
		t.Fatalf("clock values inconsistent: %v %v", cv.task, cv.total)
	}
	var nilLoop *Loop
	nilLoop.Tick()
}
