package liveapi

// Part is one piece of turn content. Only text parts are produced by this
// package; other part shapes pass through the transport untouched.
type Part struct {
	Text string
}

// Turn is one user-authored conversational turn.
type Turn struct {
	Role  string
	Parts []Part
}

// FunctionResponse is the correlated reply to one function invocation.
type FunctionResponse struct {
	ID       string
	Response map[string]any
}

// ToolResponse carries the replies for one tool call event, in invocation
// order.
type ToolResponse struct {
	FunctionResponses []FunctionResponse
}
