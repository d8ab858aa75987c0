package debug

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func waitFor(t *testing.T, buf *syncBuffer, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), msg) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("log %q not written; got %q", msg, buf.String())
}

func TestLoggersEmitUntilCancelled(t *testing.T) {
	buf := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartGoroutineLogger(ctx, 10*time.Millisecond, logger)
	StartMemLogger(ctx, 10*time.Millisecond, logger)
	waitFor(t, buf, `"msg":"goroutine-stacks"`)
	waitFor(t, buf, `"msg":"memstats"`)
}
