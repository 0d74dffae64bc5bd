// Package events defines the typed live-session event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - connection.*
//   - server_content.*
//   - client_content.*
//   - tool_call.*
//
// Semantics used across the package:
//
//   - Frame: binary audio frame/chunk payload.
//   - Segment: append-only text piece emitted in stream order.
//   - Complete: terminal boundary for the current stream/turn phase.
//
// connection events
//
//   - SetupComplete (connection.setup_complete): the server acknowledged the
//     session setup message; generation may begin.
//   - ConnectionClosed (connection.closed): the transport closed, cleanly or
//     not; carries the close reason when one is known.
//
// server_content events
//
//   - ModelTurn (server_content.model_turn): model-authored text segments for
//     the in-progress turn, in stream order.
//   - AudioFrame (server_content.audio_frame): decoded model audio frame.
//   - TurnComplete (server_content.turn_complete): the in-progress model turn
//     is finished and should be finalized.
//   - Interrupted (server_content.interrupted): in-flight generation was
//     preempted; buffered playback should stop immediately.
//
// client_content events
//
//   - ClientContent (client_content.turns): user-authored turns submitted to
//     the session, echoed locally so consumers observe them in stream order.
//
// tool_call events
//
//   - ToolCall (tool_call.received): server-issued function invocations, each
//     of which must receive exactly one correlated response.
//   - ToolCallCancellation (tool_call.cancellation): previously issued
//     invocations the server no longer wants results for.
package events
