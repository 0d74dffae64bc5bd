package events

const (
	// KindModelTurn identifies streamed model text segments.
	KindModelTurn Kind = "server_content.model_turn"
	// KindAudioFrame identifies a decoded model audio frame.
	KindAudioFrame Kind = "server_content.audio_frame"
	// KindTurnComplete identifies the end of the in-progress model turn.
	KindTurnComplete Kind = "server_content.turn_complete"
	// KindInterrupted identifies server preemption of in-flight generation.
	KindInterrupted Kind = "server_content.interrupted"
)

// ModelTurn carries model-authored text segments in stream order.
type ModelTurn struct {
	Base
	Segments []string
}

// NewModelTurn creates a model turn content event.
func NewModelTurn(segments []string) ModelTurn {
	return ModelTurn{Base: NewBase(KindModelTurn), Segments: segments}
}

// AudioFrame carries one decoded audio frame destined for playback.
type AudioFrame struct {
	Base
	Audio []byte
}

// NewAudioFrame creates an audio frame event.
func NewAudioFrame(audio []byte) AudioFrame {
	return AudioFrame{Base: NewBase(KindAudioFrame), Audio: audio}
}

// TurnComplete marks the model turn as finished.
type TurnComplete struct {
	Base
}

// NewTurnComplete creates a turn complete event.
func NewTurnComplete() TurnComplete {
	return TurnComplete{Base: NewBase(KindTurnComplete)}
}

// Interrupted marks in-flight generation as preempted by the server.
type Interrupted struct {
	Base
}

// NewInterrupted creates an interruption event.
func NewInterrupted() Interrupted {
	return Interrupted{Base: NewBase(KindInterrupted)}
}
