// Package imageio loads source photos and writes straightened pages next to
// them.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // decode only
)

// DefaultSuffix is appended to the base name of corrected images.
const DefaultSuffix = "_cropped"

// ErrUnsupportedFormat is returned when an output extension has no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Load decodes the image at path, applying its EXIF orientation so that the
// pixels match what the user sees.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return img, nil
}

// CroppedPath returns path with suffix inserted before the extension:
// scan.jpg -> scan_cropped.jpg. An empty suffix selects DefaultSuffix.
func CroppedPath(path, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// Save encodes img in the format implied by path's extension. Output is
// written to a temporary file in the same directory and renamed into place,
// so a failed save leaves nothing behind.
func Save(path string, img image.Image, jpegQuality int) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, ErrUnsupportedFormat)
	}
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = 95
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pagewarp-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := imaging.Encode(tmp, img, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	// CreateTemp uses 0600; outputs get the permissions of a regular file
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// SaveCropped writes img next to srcPath using CroppedPath and returns the
// path written.
func SaveCropped(srcPath, suffix string, img image.Image, jpegQuality int) (string, error) {
	out := CroppedPath(srcPath, suffix)
	if err := Save(out, img, jpegQuality); err != nil {
		return "", err
	}
	return out, nil
}
