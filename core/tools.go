package live

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/koscakluka/live-core/core/events"
	"github.com/koscakluka/live-core/core/liveapi"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Tool pairs a function declaration exposed to the model with the local
// handler that services its invocations.
type Tool struct {
	declaration liveapi.ToolDeclaration
	handler     func(arguments json.RawMessage) (map[string]any, error)
}

// Declaration returns the declaration announced in the session setup.
func (t Tool) Declaration() liveapi.ToolDeclaration {
	return t.declaration
}

// NewTool builds a Tool whose parameter schema is reflected from the
// handler's parameter struct, so declaration and handler cannot drift apart.
func NewTool[T any](name string, description string, handler func(parameters T) (map[string]any, error)) Tool {
	// TODO: Implement a custom reflector that only emits the schema subset
	// the live endpoint accepts for function declarations
	reflector := jsonschema.Reflector{DoNotReference: true}
	var parameters T
	schema := reflector.Reflect(&parameters)
	schema.Version = ""

	return Tool{
		declaration: liveapi.ToolDeclaration{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
		handler: func(arguments json.RawMessage) (map[string]any, error) {
			var parsed T
			if len(arguments) > 0 {
				if err := json.Unmarshal(arguments, &parsed); err != nil {
					return nil, fmt.Errorf("failed to parse arguments for tool %q: %w", name, err)
				}
			}
			return handler(parsed)
		},
	}
}

// respondToToolCall services every function invocation of one tool call
// event, in invocation order, and sends exactly one correlated response per
// invocation. Unknown tools and failing handlers still get the generic
// success response: from the server's perspective, an unanswered invocation
// is a protocol violation and must never happen.
func (s *Session) respondToToolCall(toolCall events.ToolCall) {
	if len(toolCall.FunctionCalls) == 0 {
		return
	}

	response := liveapi.ToolResponse{}
	for _, call := range toolCall.FunctionCalls {
		response.FunctionResponses = append(response.FunctionResponses, liveapi.FunctionResponse{
			ID:       call.ID,
			Response: map[string]any{"output": s.executeTool(call)},
		})
	}

	send := func() {
		if err := s.client.SendToolResponse(response); err != nil {
			logger.Warn("failed to send tool response", "error", err)
		}
	}

	// The delay is a policy knob that lets UI settle before the model
	// continues; correctness only requires that the send happens.
	if s.toolResponseDelay > 0 {
		time.AfterFunc(s.toolResponseDelay, send)
		return
	}
	send()
}

func (s *Session) executeTool(call events.FunctionCall) (output map[string]any) {
	_, span := tracer.Start(s.baseContext(), "execute tool")
	defer span.End()
	span.SetAttributes(attribute.String("tool.name", call.Name))

	output = map[string]any{"success": true}

	tool, ok := s.tools[call.Name]
	if !ok {
		err := fmt.Errorf("tool not found: %s", call.Name)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return output
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			err := fmt.Errorf("tool %q panicked: %v", call.Name, recovered)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			output = map[string]any{"success": true}
		}
	}()

	result, err := tool.handler(call.Arguments)
	if err != nil {
		err = fmt.Errorf("failed to execute tool %q: %w", call.Name, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return output
	}
	if result == nil {
		return output
	}

	return result
}
