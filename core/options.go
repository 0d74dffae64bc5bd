package live

import (
	"context"
	"time"

	"github.com/koscakluka/live-core/core/audio"
	"github.com/koscakluka/live-core/core/events"
	"github.com/koscakluka/live-core/core/liveapi"
)

type SessionOption func(*Session)

// LiveClient is the streaming protocol client the session talks to. It is
// the session's sole channel to the network: it decodes wire traffic into
// typed events and guarantees at most one active connection per instance.
type LiveClient interface {
	Connect(ctx context.Context, config liveapi.SessionConfig) error
	Disconnect() error
	Send(turns []liveapi.Turn, turnComplete bool) error
	SendToolResponse(response liveapi.ToolResponse) error
	Subscribe(kind events.Kind, handler func(events.Event)) (liveapi.Subscription, error)
}

// WithLiveClient replaces the default protocol client, mostly for tests and
// alternative providers.
func WithLiveClient(client LiveClient) SessionOption {
	return func(s *Session) { s.client = client }
}

// AudioOutput is a playback sink for model audio. Sinks own their device
// lifecycle; the session only forwards frames and clears buffers.
type AudioOutput interface {
	SendAudio(audio []byte) error
	ClearBuffer()
	EncodingInfo() audio.EncodingInfo
}

func WithAudioOutput(client AudioOutput) SessionOption {
	return func(s *Session) { s.audioOutput.Set(client) }
}

// WithTool registers a tool whose declaration is added to the session
// configuration at connect time and whose handler services matching
// invocations.
func WithTool(tool Tool) SessionOption {
	return func(s *Session) {
		s.tools[tool.declaration.Name] = tool
	}
}

// WithToolResponseDelay tunes how long tool responses are held back before
// being sent. Zero sends synchronously.
func WithToolResponseDelay(delay time.Duration) SessionOption {
	return func(s *Session) { s.toolResponseDelay = delay }
}

// WithVolumeCallback registers a callback observing the playback loudness
// meter, sampled on the playback timeline.
func WithVolumeCallback(callback func(volume float64)) SessionOption {
	return func(s *Session) { s.onVolume = callback }
}

// WithPlaybackBufferDepth bounds how many frames may sit unplayed before the
// oldest are dropped to keep latency down.
func WithPlaybackBufferDepth(depth int) SessionOption {
	return func(s *Session) { s.playbackBufferDepth = depth }
}

// WithMeterInterval tunes how often the loudness meter reports.
func WithMeterInterval(interval time.Duration) SessionOption {
	return func(s *Session) { s.meterInterval = interval }
}
