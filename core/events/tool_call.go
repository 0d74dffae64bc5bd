package events

import "encoding/json"

const (
	// KindToolCall identifies server-issued function invocations.
	KindToolCall Kind = "tool_call.received"
	// KindToolCallCancellation identifies withdrawn function invocations.
	KindToolCallCancellation Kind = "tool_call.cancellation"
)

// FunctionCall is one server-issued invocation of a declared tool.
type FunctionCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolCall carries the invocations of one tool call event, in issue order.
type ToolCall struct {
	Base
	FunctionCalls []FunctionCall
}

// NewToolCall creates a tool call event.
func NewToolCall(calls []FunctionCall) ToolCall {
	return ToolCall{Base: NewBase(KindToolCall), FunctionCalls: calls}
}

// ToolCallCancellation lists invocation ids the server withdrew.
type ToolCallCancellation struct {
	Base
	IDs []string
}

// NewToolCallCancellation creates a tool call cancellation event.
func NewToolCallCancellation(ids []string) ToolCallCancellation {
	return ToolCallCancellation{Base: NewBase(KindToolCallCancellation), IDs: ids}
}
