package live

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewToolReflectsParameterSchemaFromHandler(t *testing.T) {
	tool := NewTool("render_altair", "Displays an altair graph in json format.",
		func(parameters struct {
			JSONGraph string `json:"json_graph" jsonschema:"description=JSON string representation of the graph to render"`
		}) (map[string]any, error) {
			return nil, nil
		})

	declaration := tool.Declaration()
	if declaration.Name != "render_altair" {
		t.Fatalf("expected declaration name %q, got %q", "render_altair", declaration.Name)
	}

	encoded, err := json.Marshal(declaration.Parameters)
	if err != nil {
		t.Fatalf("failed to marshal reflected schema: %v", err)
	}
	if !strings.Contains(string(encoded), `"json_graph"`) {
		t.Fatalf("expected reflected schema to declare json_graph, got %s", encoded)
	}
	if strings.Contains(string(encoded), `"$schema"`) {
		t.Fatalf("expected schema version stripped from declaration, got %s", encoded)
	}
}

func TestToolHandlerReceivesParsedArguments(t *testing.T) {
	var received string
	tool := NewTool("echo", "returns its argument",
		func(parameters struct {
			Value string `json:"value"`
		}) (map[string]any, error) {
			received = parameters.Value
			return map[string]any{"echoed": parameters.Value}, nil
		})

	output, err := tool.handler(json.RawMessage(`{"value":"ping"}`))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if received != "ping" {
		t.Fatalf("expected handler to receive %q, got %q", "ping", received)
	}
	if output["echoed"] != "ping" {
		t.Fatalf("expected output to carry the argument, got %v", output)
	}
}

func TestToolHandlerToleratesAbsentArguments(t *testing.T) {
	tool := NewTool("no_args", "takes nothing",
		func(struct{}) (map[string]any, error) {
			return map[string]any{"ran": true}, nil
		})

	output, err := tool.handler(nil)
	if err != nil {
		t.Fatalf("handler failed on absent arguments: %v", err)
	}
	if output["ran"] != true {
		t.Fatalf("expected handler to run without arguments, got %v", output)
	}
}

func TestToolHandlerRejectsMalformedArguments(t *testing.T) {
	tool := NewTool("strict", "expects an object",
		func(parameters struct {
			Value string `json:"value"`
		}) (map[string]any, error) {
			return nil, nil
		})

	if _, err := tool.handler(json.RawMessage(`not json`)); err == nil {
		t.Fatalf("expected parse error for malformed arguments")
	}
}
