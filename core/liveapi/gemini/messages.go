package gemini

import "encoding/json"

// Wire shapes for the bidirectional generate-content websocket protocol.
// Field names follow the provider's camelCase JSON; anything this package has
// no typed support for travels through the Extra passthrough untouched.

type setupMessage struct {
	Setup setupPayload `json:"setup"`
}

type setupPayload struct {
	Model             string                   `json:"model"`
	GenerationConfig  *generationConfigPayload `json:"generationConfig,omitempty"`
	SystemInstruction *contentPayload          `json:"systemInstruction,omitempty"`
	Tools             []toolPayload            `json:"tools,omitempty"`

	Extra map[string]any `json:"-"`
}

// MarshalJSON folds the opaque Extra fields into the setup object so unknown
// session options reach the server without this package knowing their shape.
func (p setupPayload) MarshalJSON() ([]byte, error) {
	type plain setupPayload
	base, err := json.Marshal(plain(p))
	if err != nil {
		return nil, err
	}

	if len(p.Extra) == 0 {
		return base, nil
	}

	merged := map[string]any{}
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for key, value := range p.Extra {
		if _, exists := merged[key]; !exists {
			merged[key] = value
		}
	}

	return json.Marshal(merged)
}

type generationConfigPayload struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
	Temperature        *float64 `json:"temperature,omitempty"`
	MaxOutputTokens    *int     `json:"maxOutputTokens,omitempty"`
}

type contentPayload struct {
	Role  string        `json:"role,omitempty"`
	Parts []partPayload `json:"parts,omitempty"`
}

type partPayload struct {
	Text       string             `json:"text,omitempty"`
	InlineData *inlineDataPayload `json:"inlineData,omitempty"`
}

type inlineDataPayload struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type toolPayload struct {
	FunctionDeclarations []functionDeclarationPayload `json:"functionDeclarations,omitempty"`
	GoogleSearch         *struct{}                    `json:"googleSearch,omitempty"`
}

type functionDeclarationPayload struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  any    `json:"parameters,omitempty"`
}

type clientContentMessage struct {
	ClientContent clientContentPayload `json:"clientContent"`
}

type clientContentPayload struct {
	Turns        []contentPayload `json:"turns"`
	TurnComplete bool             `json:"turnComplete"`
}

type toolResponseMessage struct {
	ToolResponse toolResponsePayload `json:"toolResponse"`
}

type toolResponsePayload struct {
	FunctionResponses []functionResponsePayload `json:"functionResponses"`
}

type functionResponsePayload struct {
	ID       string         `json:"id"`
	Response map[string]any `json:"response"`
}

type serverMessage struct {
	SetupComplete        *struct{}                    `json:"setupComplete"`
	ServerContent        *serverContentPayload        `json:"serverContent"`
	ToolCall             *toolCallPayload             `json:"toolCall"`
	ToolCallCancellation *toolCallCancellationPayload `json:"toolCallCancellation"`
}

type serverContentPayload struct {
	ModelTurn    *contentPayload `json:"modelTurn"`
	TurnComplete bool            `json:"turnComplete"`
	Interrupted  bool            `json:"interrupted"`
}

type toolCallPayload struct {
	FunctionCalls []functionCallPayload `json:"functionCalls"`
}

type functionCallPayload struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

type toolCallCancellationPayload struct {
	IDs []string `json:"ids"`
}
