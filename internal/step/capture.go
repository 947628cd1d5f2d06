package step

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
)

// MaxCapturedOutput bounds how much merged stdout+stderr a step keeps,
// per spec §4.4 ("Capture both output streams, merged, bounded length").
const MaxCapturedOutput = 256 * 1024

// capturedWriter is a thread-safe, size-bounded sink for a subprocess's
// merged output streams. Writes past the bound are counted but dropped,
// and a human-readable truncation notice is appended once at read time.
type capturedWriter struct {
	mu        sync.Mutex
	buf       []byte
	total     int
	truncated bool
}

func newCapturedWriter() *capturedWriter {
	return &capturedWriter{}
}

func (w *capturedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.total += len(p)
	if len(w.buf) >= MaxCapturedOutput {
		w.truncated = true
		return len(p), nil
	}
	remaining := MaxCapturedOutput - len(w.buf)
	if len(p) > remaining {
		w.buf = append(w.buf, p[:remaining]...)
		w.truncated = true
		return len(p), nil
	}
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func (w *capturedWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.truncated {
		return string(w.buf)
	}
	return string(w.buf) + fmt.Sprintf(
		"\n... output truncated, %s captured of %s total ...\n",
		humanize.Bytes(uint64(len(w.buf))), humanize.Bytes(uint64(w.total)))
}
