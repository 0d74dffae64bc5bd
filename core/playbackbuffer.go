package live

import (
	"sync"

	"github.com/koscakluka/live-core/core/audio"
)

// playbackBuffer is the ownership-exclusive queue between the event-handling
// path (producer) and the playback drain (consumer). Depth is bounded: when
// arrival outruns playback past maxDepth frames, the oldest unplayed frames
// are dropped, because live conversational audio values recency over
// completeness.
type playbackBuffer struct {
	mu sync.Mutex

	encodingInfo audio.EncodingInfo

	frames   [][]byte
	playhead int
	maxDepth int
	dropped  int

	closed bool

	updateSignal chan struct{}
}

func newPlaybackBuffer(encodingInfo audio.EncodingInfo, maxDepth int) *playbackBuffer {
	return &playbackBuffer{
		encodingInfo: encodingInfo,
		maxDepth:     maxDepth,
		updateSignal: make(chan struct{}, 1),
	}
}

// AddFrame enqueues one frame. It never blocks the caller; at the depth
// ceiling it advances the playhead past the oldest unplayed frames instead.
func (b *playbackBuffer) AddFrame(frame []byte) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}

	b.frames = append(b.frames, frame)
	if b.maxDepth > 0 {
		for len(b.frames)-b.playhead > b.maxDepth {
			b.playhead++
			b.dropped++
		}
	}
	b.mu.Unlock()
	b.signalUpdate()
}

// Frames yields enqueued frames strictly in enqueue order, blocking while the
// buffer is empty. The iteration ends only when the buffer is closed.
func (b *playbackBuffer) Frames(yield func(frame []byte) bool) {
	for {
		frame, ok := b.consumeNextFrame()
		if ok {
			if !yield(frame) {
				return
			}
			continue
		}

		b.mu.Lock()
		closed := b.closed
		drained := b.playhead == len(b.frames)
		b.mu.Unlock()

		if closed {
			return
		}
		if drained {
			<-b.updateSignal
		}
	}
}

func (b *playbackBuffer) consumeNextFrame() ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, false
	}

	if b.playhead < len(b.frames) {
		frame := b.frames[b.playhead]
		b.playhead++
		return frame, true
	}

	// Fully drained: release consumed frames instead of growing forever.
	b.frames = nil
	b.playhead = 0
	return nil, false
}

// Flush discards every buffered, not-yet-consumed frame. Used on
// interruption; the buffer remains usable for later frames.
func (b *playbackBuffer) Flush() {
	b.mu.Lock()
	b.frames = nil
	b.playhead = 0
	b.mu.Unlock()
	b.signalUpdate()
}

// Depth reports the number of enqueued frames not yet consumed.
func (b *playbackBuffer) Depth() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.frames) - b.playhead
}

// Dropped reports how many frames the backpressure policy discarded.
func (b *playbackBuffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.dropped
}

// Close terminates the consumer iteration. The buffer accepts no frames
// afterwards.
func (b *playbackBuffer) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.frames = nil
	b.playhead = 0
	b.mu.Unlock()
	b.signalUpdate()
}

func (b *playbackBuffer) signalUpdate() {
	select {
	case b.updateSignal <- struct{}{}:
	default:
	}
}
