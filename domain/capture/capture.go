// Package capture grabs the screen as a source image for the editor.
package capture

import (
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/vova616/screenshot"
)

// Grab returns a capture of the primary screen.
func Grab() (*image.RGBA, error) {
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, fmt.Errorf("capture screen: %w", err)
	}
	return img, nil
}

// GrabRect captures a rectangle of the screen in screen coordinates.
func GrabRect(r image.Rectangle) (*image.RGBA, error) {
	if r.Empty() {
		return nil, fmt.Errorf("capture rect: empty rectangle %v", r)
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, fmt.Errorf("capture rect: %w", err)
	}
	return img, nil
}

// GrabFunc produces one frame.
type GrabFunc func() (*image.RGBA, error)

// FrameSnapshot is one captured frame and its metadata.
type FrameSnapshot struct {
	Image      *image.RGBA
	CapturedAt time.Time
	Sequence   uint64
}

// Name is the base file name used when a snapshot is saved, for example
// "screen-20260102-150405".
func (f FrameSnapshot) Name() string {
	return "screen-" + f.CapturedAt.Format("20060102-150405")
}

// Stats summarises captures taken by a Service.
type Stats struct {
	Captures   uint64
	Failures   uint64
	AvgCapture time.Duration
	Sequence   uint64
}

// Service takes on-demand screen snapshots and keeps simple counters.
type Service struct {
	grab     GrabFunc
	grabRect func(image.Rectangle) (*image.RGBA, error)
	now      func() time.Time
	logger   *slog.Logger
	captures atomic.Uint64
	failures atomic.Uint64
	nanos    atomic.Uint64
	sequence atomic.Uint64
}

// NewService returns a Service using grab, or Grab when grab is nil.
func NewService(logger *slog.Logger, grab GrabFunc) *Service {
	if grab == nil {
		grab = Grab
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{grab: grab, grabRect: GrabRect, now: time.Now, logger: logger}
}

// Snapshot grabs one frame of the whole screen.
func (s *Service) Snapshot() (FrameSnapshot, error) {
	return s.snapshot(s.grab)
}

// SnapshotRect grabs one frame of the screen rectangle r.
func (s *Service) SnapshotRect(r image.Rectangle) (FrameSnapshot, error) {
	return s.snapshot(func() (*image.RGBA, error) { return s.grabRect(r) })
}

func (s *Service) snapshot(grab GrabFunc) (FrameSnapshot, error) {
	start := s.now()
	img, err := grab()
	if err == nil && (img == nil || img.Bounds().Empty()) {
		err = fmt.Errorf("capture screen: empty frame")
	}
	if err != nil {
		s.failures.Add(1)
		s.logger.Error("capture.snapshot", "error", err)
		return FrameSnapshot{}, err
	}
	end := s.now()
	s.nanos.Add(uint64(end.Sub(start).Nanoseconds()))
	s.captures.Add(1)
	snap := FrameSnapshot{Image: img, CapturedAt: end, Sequence: s.sequence.Add(1)}
	s.logger.Debug("capture.snapshot", "seq", snap.Sequence, "size", img.Bounds().Size(), "elapsed", end.Sub(start))
	return snap, nil
}

// Stats returns the counters accumulated so far.
func (s *Service) Stats() Stats {
	captures := s.captures.Load()
	var avg time.Duration
	if captures > 0 {
		avg = time.Duration(s.nanos.Load() / captures)
	}
	return Stats{
		Captures:   captures,
		Failures:   s.failures.Load(),
		AvgCapture: avg,
		Sequence:   s.sequence.Load(),
	}
}
