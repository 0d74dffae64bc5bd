package gemini

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/koscakluka/live-core/core/events"
)

func TestDecodeServerContentOrdersAudioTextAndTurnComplete(t *testing.T) {
	audio := base64.StdEncoding.EncodeToString([]byte{0x01, 0x02, 0x03, 0x04})
	msg := []byte(`{
		"serverContent": {
			"modelTurn": {
				"parts": [
					{"inlineData": {"mimeType": "audio/pcm;rate=24000", "data": "` + audio + `"}},
					{"text": "Hello"},
					{"text": " world"}
				]
			},
			"turnComplete": true
		}
	}`)

	decoded := decodeServerMessage(msg)
	if len(decoded) != 3 {
		t.Fatalf("expected 3 events, got %d: %v", len(decoded), decoded)
	}

	frame, ok := decoded[0].(events.AudioFrame)
	if !ok {
		t.Fatalf("expected first event to be an audio frame, got %T", decoded[0])
	}
	if !bytes.Equal(frame.Audio, []byte{0x01, 0x02, 0x03, 0x04}) {
		t.Fatalf("expected decoded audio bytes, got %v", frame.Audio)
	}

	turn, ok := decoded[1].(events.ModelTurn)
	if !ok {
		t.Fatalf("expected second event to be a model turn, got %T", decoded[1])
	}
	if len(turn.Segments) != 2 || turn.Segments[0] != "Hello" || turn.Segments[1] != " world" {
		t.Fatalf("expected text segments in stream order, got %v", turn.Segments)
	}

	if _, ok := decoded[2].(events.TurnComplete); !ok {
		t.Fatalf("expected turn complete after bundled content, got %T", decoded[2])
	}
}

func TestDecodeServerContentInterruptedSupersedesBundledContent(t *testing.T) {
	msg := []byte(`{
		"serverContent": {
			"modelTurn": {"parts": [{"text": "discarded"}]},
			"turnComplete": true,
			"interrupted": true
		}
	}`)

	decoded := decodeServerMessage(msg)
	if len(decoded) != 1 {
		t.Fatalf("expected interruption to supersede bundled content, got %v", decoded)
	}
	if _, ok := decoded[0].(events.Interrupted); !ok {
		t.Fatalf("expected interrupted event, got %T", decoded[0])
	}
}

func TestDecodeServerMessageToolCallCarriesInvocationsInOrder(t *testing.T) {
	msg := []byte(`{
		"toolCall": {
			"functionCalls": [
				{"id": "call-1", "name": "render_altair", "args": {"json_graph": "{}"}},
				{"id": "call-2", "name": "lookup", "args": {"query": "weather"}}
			]
		}
	}`)

	decoded := decodeServerMessage(msg)
	if len(decoded) != 1 {
		t.Fatalf("expected one tool call event, got %d", len(decoded))
	}

	toolCall, ok := decoded[0].(events.ToolCall)
	if !ok {
		t.Fatalf("expected tool call event, got %T", decoded[0])
	}
	if len(toolCall.FunctionCalls) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(toolCall.FunctionCalls))
	}
	if toolCall.FunctionCalls[0].ID != "call-1" || toolCall.FunctionCalls[0].Name != "render_altair" {
		t.Fatalf("expected first invocation preserved, got %+v", toolCall.FunctionCalls[0])
	}
	if string(toolCall.FunctionCalls[1].Arguments) != `{"query": "weather"}` {
		t.Fatalf("expected raw arguments preserved, got %s", toolCall.FunctionCalls[1].Arguments)
	}
}

func TestDecodeServerMessageCancellationCarriesIDs(t *testing.T) {
	msg := []byte(`{"toolCallCancellation": {"ids": ["call-1", "call-2"]}}`)

	decoded := decodeServerMessage(msg)
	if len(decoded) != 1 {
		t.Fatalf("expected one cancellation event, got %d", len(decoded))
	}
	cancellation, ok := decoded[0].(events.ToolCallCancellation)
	if !ok {
		t.Fatalf("expected cancellation event, got %T", decoded[0])
	}
	if len(cancellation.IDs) != 2 || cancellation.IDs[0] != "call-1" {
		t.Fatalf("expected withdrawn ids preserved, got %v", cancellation.IDs)
	}
}

func TestDecodeServerMessageSetupComplete(t *testing.T) {
	decoded := decodeServerMessage([]byte(`{"setupComplete": {}}`))
	if len(decoded) != 1 {
		t.Fatalf("expected one event, got %d", len(decoded))
	}
	if _, ok := decoded[0].(events.SetupComplete); !ok {
		t.Fatalf("expected setup complete event, got %T", decoded[0])
	}
}

func TestDecodeServerMessageSkipsMalformedPayloads(t *testing.T) {
	for _, msg := range []string{
		`not json at all`,
		`{"serverContent": {"modelTurn": {"parts": [{"inlineData": {"mimeType": "audio/pcm", "data": "!!!not base64!!!"}}]}}}`,
		`{"serverContent": {"modelTurn": {"parts": [{"inlineData": {"mimeType": "image/png", "data": "AAAA"}}]}}}`,
		`{"toolCall": {"functionCalls": []}}`,
		`{"unknownField": true}`,
	} {
		if decoded := decodeServerMessage([]byte(msg)); len(decoded) != 0 {
			t.Fatalf("expected no events for %q, got %v", msg, decoded)
		}
	}
}

func TestDecodeServerContentAudioOnlyTurnEmitsNoModelTurn(t *testing.T) {
	audio := base64.StdEncoding.EncodeToString([]byte{0x00, 0x10})
	msg := []byte(`{"serverContent": {"modelTurn": {"parts": [{"inlineData": {"mimeType": "audio/pcm", "data": "` + audio + `"}}]}}}`)

	decoded := decodeServerMessage(msg)
	if len(decoded) != 1 {
		t.Fatalf("expected exactly the audio frame, got %v", decoded)
	}
	if _, ok := decoded[0].(events.AudioFrame); !ok {
		t.Fatalf("expected audio frame, got %T", decoded[0])
	}
}
