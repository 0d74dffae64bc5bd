package events

import (
	"encoding/json"
	"testing"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "setup complete", event: NewSetupComplete(), expected: KindSetupComplete},
		{name: "connection closed", event: NewConnectionClosed("going away"), expected: KindConnectionClosed},
		{name: "model turn", event: NewModelTurn([]string{"seg"}), expected: KindModelTurn},
		{name: "audio frame", event: NewAudioFrame([]byte{1}), expected: KindAudioFrame},
		{name: "turn complete", event: NewTurnComplete(), expected: KindTurnComplete},
		{name: "interrupted", event: NewInterrupted(), expected: KindInterrupted},
		{name: "client content", event: NewClientContent([]ClientTurn{{Role: "user", Parts: []string{"hi"}}}), expected: KindClientContent},
		{name: "tool call", event: NewToolCall([]FunctionCall{{ID: "1", Name: "fn", Arguments: json.RawMessage(`{}`)}}), expected: KindToolCall},
		{name: "tool call cancellation", event: NewToolCallCancellation([]string{"1"}), expected: KindToolCallCancellation},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestTurnCompleteAndInterruptedKindsAreDistinct(t *testing.T) {
	complete := NewTurnComplete()
	interrupted := NewInterrupted()

	if complete.Kind() == interrupted.Kind() {
		t.Fatalf("expected turn complete and interrupted kinds to differ, both were %q", complete.Kind())
	}
}

func TestEventsCarryNonZeroTimestamps(t *testing.T) {
	event := NewModelTurn([]string{"seg"})

	if event.Timestamp().IsZero() {
		t.Fatalf("expected constructor to stamp the event with a timestamp")
	}
}
