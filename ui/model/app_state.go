package model

import (
	"image"
	"path/filepath"
	"sync/atomic"

	"github.com/soocke/pagewarp-go/domain/ocr"
)

// Document is the image currently shown in the editor.
type Document struct {
	// Path is the file the image came from or was last saved to. Screen
	// captures have no path until their first reshape is saved.
	Path  string
	Name  string // base name without extension, used for output naming
	Image image.Image
}

// AppState holds the editing session shared by presenters. Document, table
// and status are only touched on the Tk thread; the busy flag is atomic
// because the worker reads it.
type AppState struct {
	doc    Document
	table  ocr.Table
	status string
	busy   atomic.Bool
}

// NewAppState returns an empty state.
func NewAppState() *AppState { return &AppState{status: "Load an image to begin."} }

// SetDocument replaces the current document and clears the previous table.
func (s *AppState) SetDocument(d Document) {
	if s == nil {
		return
	}
	if d.Name == "" && d.Path != "" {
		base := filepath.Base(d.Path)
		d.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	s.doc = d
	s.table = ocr.Table{}
}

// Document returns the current document.
func (s *AppState) Document() Document {
	if s == nil {
		return Document{}
	}
	return s.doc
}

// HasImage reports whether an image is loaded.
func (s *AppState) HasImage() bool {
	return s != nil && s.doc.Image != nil && !s.doc.Image.Bounds().Empty()
}

func (s *AppState) SetTable(t ocr.Table) {
	if s != nil {
		s.table = t
	}
}

func (s *AppState) Table() ocr.Table {
	if s == nil {
		return ocr.Table{}
	}
	return s.table
}

func (s *AppState) SetStatus(msg string) {
	if s != nil {
		s.status = msg
	}
}

func (s *AppState) Status() string {
	if s == nil {
		return ""
	}
	return s.status
}

// Busy reports whether a background task is running.
func (s *AppState) Busy() bool { return s != nil && s.busy.Load() }

// SetBusy stores the busy flag and reports whether it changed.
func (s *AppState) SetBusy(b bool) bool {
	if s == nil {
		return false
	}
	return s.busy.Swap(b) != b
}
