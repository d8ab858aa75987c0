package vision

import (
	"image"
	"strings"

	"github.com/soocke/pagewarp-go/domain/ocr"
)

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image        imagePayload  `json:"image"`
	Features     []feature     `json:"features"`
	ImageContext *imageContext `json:"imageContext,omitempty"`
}

type imagePayload struct {
	Content string `json:"content"`
}

type feature struct {
	Type string `json:"type"`
}

type imageContext struct {
	LanguageHints []string `json:"languageHints,omitempty"`
}

type annotateResponse struct {
	Responses []imageResponse `json:"responses"`
}

type imageResponse struct {
	FullTextAnnotation *textAnnotation `json:"fullTextAnnotation"`
	Error              *status         `json:"error"`
}

type status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type textAnnotation struct {
	Pages []page `json:"pages"`
	Text  string `json:"text"`
}

type page struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Blocks []block `json:"blocks"`
}

type block struct {
	Paragraphs []paragraph `json:"paragraphs"`
}

type paragraph struct {
	Words []word `json:"words"`
}

type word struct {
	BoundingBox boundingPoly `json:"boundingBox"`
	Symbols     []symbol     `json:"symbols"`
}

type symbol struct {
	Text string `json:"text"`
}

// Zero coordinates are omitted from the wire format.
type vertex struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type boundingPoly struct {
	Vertices []vertex `json:"vertices"`
}

func (b boundingPoly) rect() (image.Rectangle, bool) {
	if len(b.Vertices) == 0 {
		return image.Rectangle{}, false
	}
	v0 := b.Vertices[0]
	r := image.Rectangle{Min: image.Pt(v0.X, v0.Y), Max: image.Pt(v0.X, v0.Y)}
	for _, v := range b.Vertices[1:] {
		r.Min.X = min(r.Min.X, v.X)
		r.Min.Y = min(r.Min.Y, v.Y)
		r.Max.X = max(r.Max.X, v.X)
		r.Max.Y = max(r.Max.Y, v.Y)
	}
	return r, true
}

// page flattens the first page's words; words without a box are skipped.
func (r imageResponse) page() ocr.Page {
	if r.FullTextAnnotation == nil || len(r.FullTextAnnotation.Pages) == 0 {
		return ocr.Page{}
	}
	p := r.FullTextAnnotation.Pages[0]
	out := ocr.Page{Width: p.Width, Height: p.Height}
	for _, b := range p.Blocks {
		for _, para := range b.Paragraphs {
			for _, w := range para.Words {
				rect, ok := w.BoundingBox.rect()
				if !ok {
					continue
				}
				var sb strings.Builder
				for _, s := range w.Symbols {
					sb.WriteString(s.Text)
				}
				out.Words = append(out.Words, ocr.Word{Text: sb.String(), Bounds: rect})
			}
		}
	}
	return out
}
