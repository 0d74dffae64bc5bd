package gemini

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/live-core/core/events"
)

func (c *Client) processIncomingMessages(conn *websocket.Conn, readDone chan struct{}) {
	defer close(readDone)

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			reason := err.Error()
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				reason = "normal closure"
			}

			c.mu.Lock()
			if c.ws == conn {
				c.ws = nil
				c.readDone = nil
			}
			c.mu.Unlock()

			c.dispatch(events.NewConnectionClosed(reason))
			return
		}

		switch msgType {
		// The live endpoint frames JSON messages as binary or text depending
		// on the path; both carry the same payload shape.
		case websocket.TextMessage, websocket.BinaryMessage:
			for _, event := range decodeServerMessage(msg) {
				c.dispatch(event)
			}
		default:
		}
	}
}

// decodeServerMessage turns one wire message into typed events in the order
// the session layer must observe them. Malformed or unrecognized payloads are
// skipped silently; the stream must survive anything the server sends.
func decodeServerMessage(msg []byte) []events.Event {
	var parsedMsg serverMessage
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		return nil
	}

	var decoded []events.Event

	if parsedMsg.SetupComplete != nil {
		decoded = append(decoded, events.NewSetupComplete())
	}

	if parsedMsg.ServerContent != nil {
		decoded = append(decoded, decodeServerContent(*parsedMsg.ServerContent)...)
	}

	if parsedMsg.ToolCall != nil {
		calls := make([]events.FunctionCall, 0, len(parsedMsg.ToolCall.FunctionCalls))
		for _, call := range parsedMsg.ToolCall.FunctionCalls {
			calls = append(calls, events.FunctionCall{ID: call.ID, Name: call.Name, Arguments: call.Args})
		}
		if len(calls) > 0 {
			decoded = append(decoded, events.NewToolCall(calls))
		}
	}

	if parsedMsg.ToolCallCancellation != nil && len(parsedMsg.ToolCallCancellation.IDs) > 0 {
		decoded = append(decoded, events.NewToolCallCancellation(parsedMsg.ToolCallCancellation.IDs))
	}

	return decoded
}

func decodeServerContent(content serverContentPayload) []events.Event {
	// Preemption supersedes anything else bundled into the same message.
	if content.Interrupted {
		return []events.Event{events.NewInterrupted()}
	}

	var decoded []events.Event

	if content.ModelTurn != nil {
		var segments []string
		for _, part := range content.ModelTurn.Parts {
			if part.InlineData != nil {
				if !strings.HasPrefix(part.InlineData.MimeType, "audio/pcm") {
					continue
				}
				audio, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil || len(audio) == 0 {
					continue
				}
				decoded = append(decoded, events.NewAudioFrame(audio))
				continue
			}

			if part.Text != "" {
				segments = append(segments, part.Text)
			}
		}
		if len(segments) > 0 {
			decoded = append(decoded, events.NewModelTurn(segments))
		}
	}

	// Turn completion is emitted after any content bundled with it so text
	// seen in the same message still belongs to the finalized turn.
	if content.TurnComplete {
		decoded = append(decoded, events.NewTurnComplete())
	}

	return decoded
}
