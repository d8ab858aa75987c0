package imageio

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCroppedPath_PreservesExtension(t *testing.T) {
	cases := map[string]string{
		"scan.jpg":              "scan_cropped.jpg",
		"/data/page.01.PNG":     "/data/page.01_cropped.PNG",
		"noext":                 "noext_cropped",
		"dir.v2/photo.tiff":     "dir.v2/photo_cropped.tiff",
		"C:/scans/table 3.jpeg": "C:/scans/table 3_cropped.jpeg",
	}
	for in, want := range cases {
		if got := CroppedPath(in, ""); got != want {
			t.Fatalf("CroppedPath(%q) = %q, want %q", in, got, want)
		}
	}
	if got := CroppedPath("a.png", "_fixed"); got != "a_fixed.png" {
		t.Fatalf("custom suffix ignored: %q", got)
	}
}

func TestSaveLoad_PNGRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page.png")
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	img.SetNRGBA(2, 1, color.NRGBA{10, 20, 30, 255})
	out, err := SaveCropped(src, "", img, 0)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if out != filepath.Join(dir, "page_cropped.png") {
		t.Fatalf("unexpected output path %q", out)
	}
	got, err := Load(out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Bounds().Dx() != 6 || got.Bounds().Dy() != 4 {
		t.Fatalf("unexpected bounds %v", got.Bounds())
	}
	r, g, b, _ := got.At(2, 1).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Fatalf("pixel changed: %d %d %d", r>>8, g>>8, b>>8)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected only the output file, found %d entries", len(entries))
	}
}

func TestSave_OutputIsWorldReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := filepath.Join(t.TempDir(), "page_cropped.png")
	if err := Save(path, image.NewNRGBA(image.Rect(0, 0, 2, 2)), 0); err != nil {
		t.Fatalf("save: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Mode().Perm() != 0o644 {
		t.Fatalf("mode = %v, want 0644", fi.Mode().Perm())
	}
}

func TestSave_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.xyz")
	err := Save(path, image.NewNRGBA(image.Rect(0, 0, 1, 1)), 90)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("no file should be written on failure")
	}
}

func TestSave_UnwritableDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "page.png")
	if err := Save(path, image.NewNRGBA(image.Rect(0, 0, 1, 1)), 90); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatalf("expected error")
	}
}
