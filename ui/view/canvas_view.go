package view

import (
	"image"

	"github.com/soocke/pagewarp-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PointerHandlers receive canvas pointer events in display pixels.
type PointerHandlers struct {
	Press   func(x, y int)
	Drag    func(x, y int)
	Release func()
}

// CanvasPane shows the editing canvas and the corner loupe next to it.
type CanvasPane interface {
	ShowCanvas(img image.Image)
	ShowLoupe(img image.Image)
	Reset()
}

type canvasPane struct {
	canvasLabel *LabelWidget
	loupeLabel  *LabelWidget
	canvasPhoto *Img // current Tk photo, deleted before replacement
	loupePhoto  *Img
	area        image.Point
}

const loupePlaceholder = 164

// NewCanvasPane creates the canvas label (area sized, spanning columns 0-3)
// and the loupe label in column 4 of row, and binds pointer events.
func NewCanvasPane(row int, area image.Point, h PointerHandlers) CanvasPane {
	v := &canvasPane{area: area}
	v.canvasPhoto = NewPhoto(Data(placeholderPNG(area.X, area.Y)))
	v.loupePhoto = NewPhoto(Data(placeholderPNG(loupePlaceholder, loupePlaceholder)))
	v.canvasLabel = Label(Image(v.canvasPhoto), Borderwidth(0), Cursor("crosshair"))
	v.loupeLabel = Label(Image(v.loupePhoto), Borderwidth(1), Relief("sunken"))
	Grid(v.canvasLabel, Row(row), Column(0), Columnspan(4), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	Grid(v.loupeLabel, Row(row), Column(4), Sticky("n"), Padx("0.4m"), Pady("0.4m"))
	if h.Press != nil {
		Bind(v.canvasLabel, "<ButtonPress-1>", Command(func(e *Event) { h.Press(e.X, e.Y) }))
	}
	if h.Drag != nil {
		Bind(v.canvasLabel, "<B1-Motion>", Command(func(e *Event) { h.Drag(e.X, e.Y) }))
	}
	if h.Release != nil {
		Bind(v.canvasLabel, "<ButtonRelease-1>", Command(func() { h.Release() }))
	}
	return v
}

func placeholderPNG(w, h int) []byte {
	return images.EncodePNG(image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1))))
}

func (v *canvasPane) ShowCanvas(img image.Image) {
	if v.canvasLabel == nil || img == nil {
		return
	}
	v.canvasPhoto = replacePhoto(v.canvasLabel, v.canvasPhoto, images.EncodePNG(img))
}

// ShowLoupe shows img in the loupe; nil restores the blank placeholder.
func (v *canvasPane) ShowLoupe(img image.Image) {
	if v.loupeLabel == nil {
		return
	}
	if img == nil {
		v.loupePhoto = replacePhoto(v.loupeLabel, v.loupePhoto, placeholderPNG(loupePlaceholder, loupePlaceholder))
		return
	}
	v.loupePhoto = replacePhoto(v.loupeLabel, v.loupePhoto, images.EncodePNG(img))
}

func (v *canvasPane) Reset() {
	if v.canvasLabel != nil {
		v.canvasPhoto = replacePhoto(v.canvasLabel, v.canvasPhoto, placeholderPNG(v.area.X, v.area.Y))
	}
	v.ShowLoupe(nil)
}

// replacePhoto swaps the label image, deleting the previous photo so stale
// pixel buffers do not accumulate inside Tk.
func replacePhoto(lbl *LabelWidget, prev *Img, pngBytes []byte) *Img {
	if prev != nil {
		prev.Delete()
	}
	next := NewPhoto(Data(pngBytes))
	lbl.Configure(Image(next))
	return next
}
