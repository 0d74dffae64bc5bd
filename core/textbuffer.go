package live

import (
	"strings"
	"sync"
)

// turnBuffer accumulates the model text segments of the in-progress turn.
// Finalize drains it atomically so a turn is appended to history exactly once.
type turnBuffer struct {
	mu       sync.Mutex
	segments []string
}

func newTurnBuffer() *turnBuffer {
	return &turnBuffer{}
}

// AddSegment appends one streamed text segment. Segments that are empty after
// trimming carry no conversational content and are skipped.
func (b *turnBuffer) AddSegment(segment string) {
	trimmed := strings.TrimSpace(segment)
	if trimmed == "" {
		return
	}

	b.mu.Lock()
	b.segments = append(b.segments, trimmed)
	b.mu.Unlock()
}

func (b *turnBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return strings.Join(b.segments, " ")
}

// Finalize returns the joined turn text and resets the accumulator. The
// second return is false when the turn held no text, in which case nothing
// should be appended to history.
func (b *turnBuffer) Finalize() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	text := strings.TrimSpace(strings.Join(b.segments, " "))
	b.segments = nil
	return text, text != ""
}
