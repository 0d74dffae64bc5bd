package live

import (
	"bytes"
	"sync"
	"testing"

	"github.com/koscakluka/live-core/core/audio"
)

type recordingAudioOutput struct {
	mu     sync.Mutex
	sent   [][]byte
	clears int
}

func (o *recordingAudioOutput) SendAudio(frame []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, bytes.Clone(frame))
	return nil
}

func (o *recordingAudioOutput) ClearBuffer() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clears++
}

func (o *recordingAudioOutput) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

func (o *recordingAudioOutput) sendCalls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sent)
}

func (o *recordingAudioOutput) clearCalls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.clears
}

func TestAudioOutputForwardsToConfiguredSink(t *testing.T) {
	sink := &recordingAudioOutput{}
	facade := newAudioOutput(sink)

	facade.SendAudio([]byte{0x01})
	facade.Clear()

	if got := sink.sendCalls(); got != 1 {
		t.Fatalf("expected one forwarded chunk, got %d", got)
	}
	if got := sink.clearCalls(); got != 1 {
		t.Fatalf("expected one clear, got %d", got)
	}
}

func TestAudioOutputTreatsTypedNilAsUnconfigured(t *testing.T) {
	var sink *recordingAudioOutput

	facade := newAudioOutput(sink)

	if facade.isConfigured() {
		t.Fatalf("expected typed nil sink to be treated as unconfigured")
	}
	if facade.base != nil {
		t.Fatalf("expected base sink to be nil for typed nil sink")
	}
}

func TestAudioOutputDropsAudioWithoutSink(t *testing.T) {
	facade := newAudioOutput(nil)

	// Must not panic; playback is a non-fatal side effect.
	facade.SendAudio([]byte{0x01})
	facade.Clear()

	if got := facade.EncodingInfo(); got != audio.GetDefaultEncodingInfo() {
		t.Fatalf("expected default encoding fallback, got %+v", got)
	}
}
