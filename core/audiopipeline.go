package live

import (
	"math"
	"sync"
	"time"
)

const (
	defaultPlaybackBufferDepth = 128
	defaultMeterInterval       = 50 * time.Millisecond

	// drainLead is how far ahead of real time frames are handed to the sink
	// so its device callback never starves on arrival jitter.
	drainLead = 200 * time.Millisecond

	// meterFullScale is the amplitude of a full-scale 16-bit sample.
	meterFullScale = 32768.0
)

// audioPipeline owns the playback buffer and the drain/metering timelines.
// Frames enter from the event-handling path via Enqueue and leave toward the
// sink paced at real-time rate; a metering tap on the drain reports
// instantaneous loudness on a fixed interval.
type audioPipeline struct {
	output *audioOutput
	buffer *playbackBuffer

	meterInterval time.Duration
	onVolume      func(volume float64)

	meterMu     sync.Mutex
	sumSquares  float64
	sampleCount int

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
}

func newAudioPipeline(output *audioOutput, bufferDepth int, meterInterval time.Duration, onVolume func(float64)) *audioPipeline {
	if bufferDepth <= 0 {
		bufferDepth = defaultPlaybackBufferDepth
	}
	if meterInterval <= 0 {
		meterInterval = defaultMeterInterval
	}
	if onVolume == nil {
		onVolume = func(float64) {}
	}

	return &audioPipeline{
		output:        output,
		buffer:        newPlaybackBuffer(output.EncodingInfo(), bufferDepth),
		meterInterval: meterInterval,
		onVolume:      onVolume,
		done:          make(chan struct{}),
	}
}

// Start launches the drain and metering loops. Lazily exactly-once: calls
// after the first are no-ops until Close.
func (p *audioPipeline) Start() {
	p.startOnce.Do(func() {
		go p.drain()
		go p.meterLoop()
	})
}

// Enqueue hands one frame to the playback buffer. Never blocks the caller.
func (p *audioPipeline) Enqueue(frame []byte) {
	p.buffer.AddFrame(frame)
}

// Interrupt discards all buffered-but-not-yet-played audio, both in the
// pipeline's own queue and in the sink's device buffer, and zeroes the meter.
func (p *audioPipeline) Interrupt() {
	p.buffer.Flush()
	p.output.Clear()
	p.resetMeter()
}

// Close tears the pipeline down. Buffered frames are discarded.
func (p *audioPipeline) Close() {
	p.closeOnce.Do(func() {
		p.buffer.Close()
		close(p.done)
	})
}

// drain forwards frames to the sink in enqueue order, paced by the frames'
// own duration so the bounded buffer absorbs arrival jitter while the sink
// stays at most drainLead ahead of its device clock.
func (p *audioPipeline) drain() {
	encodingInfo := p.output.EncodingInfo()

	var deadline time.Time
	for frame := range p.buffer.Frames {
		now := time.Now()
		if deadline.Before(now) {
			deadline = now
		}

		if p.output.isConfigured() {
			p.output.SendAudio(frame)
			p.recordSamples(frame)
		}

		deadline = deadline.Add(encodingInfo.Duration(len(frame)))
		if wait := time.Until(deadline) - drainLead; wait > 0 {
			time.Sleep(wait)
		}
	}
}

func (p *audioPipeline) meterLoop() {
	ticker := time.NewTicker(p.meterInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.onVolume(p.drainMeter())
		}
	}
}

// recordSamples feeds 16-bit little-endian samples into the metering window.
func (p *audioPipeline) recordSamples(frame []byte) {
	var sumSquares float64
	count := 0
	for i := 0; i+1 < len(frame); i += 2 {
		sample := float64(int16(uint16(frame[i]) | uint16(frame[i+1])<<8))
		sumSquares += sample * sample
		count++
	}

	p.meterMu.Lock()
	p.sumSquares += sumSquares
	p.sampleCount += count
	p.meterMu.Unlock()
}

// drainMeter computes the RMS loudness of the samples forwarded since the
// previous tick, normalized so a full-scale sine reads near 0.7.
func (p *audioPipeline) drainMeter() float64 {
	p.meterMu.Lock()
	defer p.meterMu.Unlock()

	if p.sampleCount == 0 {
		return 0
	}

	volume := math.Sqrt(p.sumSquares/float64(p.sampleCount)) / meterFullScale
	p.sumSquares = 0
	p.sampleCount = 0
	return volume
}

func (p *audioPipeline) resetMeter() {
	p.meterMu.Lock()
	p.sumSquares = 0
	p.sampleCount = 0
	p.meterMu.Unlock()
}
