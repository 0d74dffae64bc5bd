package liveapi

// ResponseModality selects what the model is allowed to produce for a session.
type ResponseModality string

const (
	ModalityText  ResponseModality = "TEXT"
	ModalityAudio ResponseModality = "AUDIO"
)

// GenerationConfig holds the generation options captured at connect time.
type GenerationConfig struct {
	ResponseModalities []ResponseModality
	Temperature        *float64
	MaxOutputTokens    *int
}

// ToolDeclaration describes one callable function exposed to the model.
//
// Parameters holds an already-built JSON schema object; the session layer
// produces it by reflecting the tool handler's parameter struct.
type ToolDeclaration struct {
	Name        string
	Description string
	Parameters  any
}

// SessionConfig is the full session configuration sent in the setup message.
//
// Extra is passed through to the transport untouched so callers can use
// protocol capabilities this package has no typed support for yet.
type SessionConfig struct {
	Model             string
	GenerationConfig  GenerationConfig
	SystemInstruction []string
	Tools             []ToolDeclaration

	// EnableSearch turns on the provider-hosted search grounding tool.
	EnableSearch bool

	Extra map[string]any
}

// IsZero reports whether the config was never populated.
func (c SessionConfig) IsZero() bool {
	return c.Model == "" &&
		len(c.GenerationConfig.ResponseModalities) == 0 &&
		len(c.SystemInstruction) == 0 &&
		len(c.Tools) == 0 &&
		!c.EnableSearch &&
		len(c.Extra) == 0
}
