package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

func word(text string, x0, y0, x1, y1 int) Word {
	return Word{Text: text, Bounds: image.Rect(x0, y0, x1, y1)}
}

type fakeEngine struct {
	page  Page
	err   error
	calls int
	last  Input
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(_ context.Context, in Input) (Page, error) {
	f.calls++
	f.last = in
	return f.page, f.err
}

func TestLayoutTable_GroupsLinesAndColumns(t *testing.T) {
	page := Page{Width: 400, Height: 300, Words: []Word{
		word("Qty", 110, 10, 150, 30),
		word("Name", 10, 12, 60, 32),
		word("apples", 10, 110, 70, 130),
		word("3", 130, 112, 140, 132),
		word("red", 75, 108, 95, 128),
	}}
	tbl := LayoutTable(page, LayoutOptions{Columns: 4})
	if got := strings.Join(tbl.Header, "|"); got != "Name|Qty||" {
		t.Fatalf("header = %q", got)
	}
	if len(tbl.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(tbl.Rows))
	}
	if got := strings.Join(tbl.Rows[0], "|"); got != "apples red|3||" {
		t.Fatalf("row = %q", got)
	}
}

func TestLayoutTable_NoWordsUsesDefaultHeader(t *testing.T) {
	tbl := LayoutTable(Page{Width: 100}, LayoutOptions{Columns: 3})
	if got := strings.Join(tbl.Header, ","); got != "Column 1,Column 2,Column 3" {
		t.Fatalf("header = %q", got)
	}
	if !tbl.Empty() {
		t.Fatalf("expected no rows")
	}
}

func TestLayoutTable_ExplicitColumnEdges(t *testing.T) {
	page := Page{Width: 300, Words: []Word{
		word("a", 0, 0, 20, 20),
		word("b", 40, 0, 60, 20),
		word("c", 200, 0, 220, 20),
	}}
	tbl := LayoutTable(page, LayoutOptions{ColumnEdges: []float64{150, 30}})
	if got := strings.Join(tbl.Header, "|"); got != "a|b|c" {
		t.Fatalf("header = %q", got)
	}
}

func TestLayoutTable_LinesSortedTopToBottom(t *testing.T) {
	page := Page{Width: 100, Words: []Word{
		word("second", 0, 200, 10, 210),
		word("first", 0, 0, 10, 10),
	}}
	tbl := LayoutTable(page, LayoutOptions{Columns: 1})
	if tbl.Header[0] != "first" || len(tbl.Rows) != 1 || tbl.Rows[0][0] != "second" {
		t.Fatalf("unexpected order: %+v", tbl)
	}
}

func TestRecognize_EncodesPNGAndLaysOut(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	img.Set(1, 1, color.Black)
	eng := &fakeEngine{page: Page{Words: []Word{word("hello", 0, 0, 10, 10)}}}
	tbl, err := Recognize(context.Background(), eng, img, Options{Languages: []string{"en"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eng.calls != 1 || eng.last.Format != ImageFormatPNG {
		t.Fatalf("engine not called with png: %+v", eng.last.Format)
	}
	if !strings.HasPrefix(string(eng.last.Image), "\x89PNG") {
		t.Fatalf("payload is not a png")
	}
	if tbl.Header[0] != "hello" {
		t.Fatalf("header = %v", tbl.Header)
	}
}

func TestRecognize_NoWordsIsNoResults(t *testing.T) {
	eng := &fakeEngine{}
	_, err := Recognize(context.Background(), eng, image.NewGray(image.Rect(0, 0, 4, 4)), Options{})
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestRecognize_BlankWordsAreNoResults(t *testing.T) {
	eng := &fakeEngine{page: Page{Width: 100, Height: 40, Words: []Word{word(" ", 0, 0, 10, 10), word("\t", 20, 0, 30, 10)}}}
	_, err := Recognize(context.Background(), eng, image.NewGray(image.Rect(0, 0, 100, 40)), Options{})
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults for blank words, got %v", err)
	}
}

func TestRecognize_PropagatesAuthenticationError(t *testing.T) {
	eng := &fakeEngine{err: &AuthenticationError{Engine: "fake", Err: errors.New("no creds")}}
	_, err := Recognize(context.Background(), eng, image.NewGray(image.Rect(0, 0, 4, 4)), Options{})
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	var ae *AuthenticationError
	if !errors.As(err, &ae) || ae.Engine != "fake" {
		t.Fatalf("errors.As failed: %v", err)
	}
}

func TestTable_WriteCSVPadsRows(t *testing.T) {
	tbl := Table{Header: []string{"a", "b"}, Rows: [][]string{{"1"}, {"2", "x,y"}}}
	var sb strings.Builder
	if err := tbl.WriteCSV(&sb); err != nil {
		t.Fatal(err)
	}
	want := "a,b\n1,\n2,\"x,y\"\n"
	if sb.String() != want {
		t.Fatalf("csv = %q, want %q", sb.String(), want)
	}
}
