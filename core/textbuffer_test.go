package live

import "testing"

func TestTurnBufferJoinsSegmentsWithSingleSpaces(t *testing.T) {
	b := newTurnBuffer()
	b.AddSegment("Hello")
	b.AddSegment(" world")

	text, ok := b.Finalize()
	if !ok {
		t.Fatalf("expected finalize to report text present")
	}
	if text != "Hello world" {
		t.Fatalf("expected %q, got %q", "Hello world", text)
	}
}

func TestTurnBufferFinalizeResetsAccumulator(t *testing.T) {
	b := newTurnBuffer()
	b.AddSegment("first turn")

	if _, ok := b.Finalize(); !ok {
		t.Fatalf("expected first finalize to report text present")
	}

	if text, ok := b.Finalize(); ok {
		t.Fatalf("expected accumulator to be empty after finalize, got %q", text)
	}
}

func TestTurnBufferSkipsWhitespaceOnlySegments(t *testing.T) {
	b := newTurnBuffer()
	b.AddSegment("   ")
	b.AddSegment("\n\t")

	if text, ok := b.Finalize(); ok {
		t.Fatalf("expected whitespace-only segments to finalize empty, got %q", text)
	}
}

func TestTurnBufferStringPreviewsPendingText(t *testing.T) {
	b := newTurnBuffer()
	b.AddSegment("partial")
	b.AddSegment("response")

	if got := b.String(); got != "partial response" {
		t.Fatalf("expected pending preview %q, got %q", "partial response", got)
	}
}
