package presenter

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"github.com/soocke/pagewarp-go/config"
	"github.com/soocke/pagewarp-go/domain/capture"
	"github.com/soocke/pagewarp-go/ui/model"
)

const TitleLoadFailed = "Error"

// ImageLoader decodes an image file.
type ImageLoader func(path string) (image.Image, error)

// Snapshotter grabs the screen or a region of it.
type Snapshotter interface {
	Snapshot() (capture.FrameSnapshot, error)
	SnapshotRect(r image.Rectangle) (capture.FrameSnapshot, error)
}

// ImageSink receives a newly loaded image.
type ImageSink interface {
	SetImage(img image.Image)
}

// DocumentView is the UI surface touched when a new document is loaded.
type DocumentView interface {
	ClearTable()
	ShowError(title, msg string)
}

// DocumentPresenter loads images from disk or from a screen capture into the
// editor.
type DocumentPresenter struct {
	state   *model.AppState
	editor  ImageSink
	view    DocumentView
	status  StatusSink
	load    ImageLoader
	snap    Snapshotter
	cfg     *config.Config
	persist func() error // saves cfg after LastDir changes; may be nil
	logger  *slog.Logger
}

func NewDocumentPresenter(state *model.AppState, ed ImageSink, view DocumentView, status StatusSink, load ImageLoader, snap Snapshotter, cfg *config.Config, persist func() error, logger *slog.Logger) *DocumentPresenter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentPresenter{state: state, editor: ed, view: view, status: status, load: load, snap: snap, cfg: cfg, persist: persist, logger: logger}
}

// Open loads path into the editor. An empty path (dialog cancelled) is a
// no-op.
func (p *DocumentPresenter) Open(path string) error {
	if p == nil || p.state == nil || p.editor == nil || p.load == nil {
		return nil
	}
	if path == "" {
		return nil
	}
	if p.state.Busy() {
		p.view.ShowError(TitleBusy, "Another operation is still running.")
		return nil
	}
	img, err := p.load(path)
	if err != nil {
		p.logger.Error("document.open", "path", path, "error", err)
		p.view.ShowError(TitleLoadFailed, fmt.Sprintf("Could not load image: %v", err))
		return err
	}
	p.show(model.Document{Path: path, Image: img})
	if dir := filepath.Dir(path); dir != p.cfg.LastDir {
		p.cfg.LastDir = dir
		p.saveConfig()
	}
	return nil
}

// CaptureScreen grabs the screen and loads it as an unsaved document named
// after the capture time.
func (p *DocumentPresenter) CaptureScreen() error {
	if p == nil || p.state == nil || p.editor == nil || p.snap == nil {
		return nil
	}
	if p.state.Busy() {
		p.view.ShowError(TitleBusy, "Another operation is still running.")
		return nil
	}
	return p.capture(p.snap.Snapshot)
}

// CaptureRegion grabs r (screen coordinates), remembers it in the config and
// loads it like CaptureScreen.
func (p *DocumentPresenter) CaptureRegion(r image.Rectangle) error {
	if p == nil || p.state == nil || p.editor == nil || p.snap == nil {
		return nil
	}
	if r.Empty() {
		return nil
	}
	if p.state.Busy() {
		p.view.ShowError(TitleBusy, "Another operation is still running.")
		return nil
	}
	if cur, ok := p.cfg.CaptureRegion(); !ok || cur != r {
		p.cfg.SetCaptureRegion(r)
		p.saveConfig()
	}
	return p.capture(func() (capture.FrameSnapshot, error) { return p.snap.SnapshotRect(r) })
}

func (p *DocumentPresenter) capture(grab func() (capture.FrameSnapshot, error)) error {
	snap, err := grab()
	if err != nil {
		p.logger.Error("document.capture", "error", err)
		p.view.ShowError(TitleLoadFailed, fmt.Sprintf("Could not capture the screen: %v", err))
		return err
	}
	p.show(model.Document{Name: snap.Name(), Image: snap.Image})
	return nil
}

func (p *DocumentPresenter) saveConfig() {
	if p.persist == nil {
		return
	}
	if err := p.persist(); err != nil {
		p.logger.Warn("config save failed", "error", err)
	}
}

func (p *DocumentPresenter) show(doc model.Document) {
	p.state.SetDocument(doc)
	p.editor.SetImage(doc.Image)
	p.view.ClearTable()
	d := p.state.Document()
	b := doc.Image.Bounds()
	p.logger.Info("document.loaded", "name", d.Name, "path", d.Path, "width", b.Dx(), "height", b.Dy())
	if p.status != nil {
		p.status.OnStatus(fmt.Sprintf("Loaded %s (%dx%d)", d.Name, b.Dx(), b.Dy()))
	}
}
