package live

import (
	"reflect"

	"github.com/koscakluka/live-core/core/audio"
)

// audioOutput is a thin facade over the configured output sink so session
// code never type-asserts or nil-checks the client at call sites.
//
// NOTE: methods intentionally do best-effort forwarding and ignore client
// return errors because playback is a non-fatal side effect of the session.
type audioOutput struct {
	base AudioOutput
}

func newAudioOutput(client AudioOutput) *audioOutput {
	audioOutput := audioOutput{}
	audioOutput.Set(client)
	return &audioOutput
}

// Set replaces the configured output sink. Nil and typed-nil clients are
// treated as unconfigured.
func (a *audioOutput) Set(client AudioOutput) {
	if a == nil {
		return
	}

	a.base = nil
	if isNilAudioOutput(client) {
		return
	}
	a.base = client
}

func (a *audioOutput) isConfigured() bool {
	return a != nil && a.base != nil
}

// SendAudio forwards a chunk to the configured sink. Without a sink the
// chunk is dropped.
func (a *audioOutput) SendAudio(audio []byte) {
	if a.base != nil {
		_ = a.base.SendAudio(audio)
	}
}

// Clear flushes buffered output on the configured sink.
func (a *audioOutput) Clear() {
	if a.base != nil {
		a.base.ClearBuffer()
	}
}

// EncodingInfo returns the active output encoding metadata, falling back to
// the project default when no sink is configured.
func (a *audioOutput) EncodingInfo() audio.EncodingInfo {
	if a.base != nil {
		return a.base.EncodingInfo()
	}

	return audio.GetDefaultEncodingInfo()
}

// isNilAudioOutput detects nil and typed-nil interface values so Set can
// avoid storing unusable interface wrappers as configured clients.
func isNilAudioOutput(client AudioOutput) bool {
	if client == nil {
		return true
	}

	v := reflect.ValueOf(client)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
