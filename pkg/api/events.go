package api

import "encoding/json"

// StreamEventType classifies a unified streaming event.
type StreamEventType int

const (
	// EventStart opens a stream and carries the stream id.
	EventStart StreamEventType = iota
	// EventTextDelta carries an incremental text fragment.
	EventTextDelta
	// EventToolCallStart announces a tool call id and function name.
	EventToolCallStart
	// EventToolCallDelta carries a partial-JSON argument fragment.
	EventToolCallDelta
	// EventToolCallEnd delivers a complete tool call.
	EventToolCallEnd
	// EventFinish terminates the stream with usage and a finish reason.
	EventFinish
	// EventError terminates the stream with a decode or vendor error.
	EventError
)

// String returns the wire-style name of the event type.
func (t StreamEventType) String() string {
	switch t {
	case EventStart:
		return "start"
	case EventTextDelta:
		return "text_delta"
	case EventToolCallStart:
		return "tool_call_start"
	case EventToolCallDelta:
		return "tool_call_delta"
	case EventToolCallEnd:
		return "tool_call_end"
	case EventFinish:
		return "finish"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// StreamEvent is one unified streaming event. Per stream the sequence is:
// zero or one Start, any number of text/tool-call events, then exactly one
// Finish or Error and nothing after it.
type StreamEvent struct {
	Type StreamEventType

	// ID is the stream id (Start, TextDelta) or tool call id (tool call
	// events).
	ID string

	// Delta is an incremental text or argument fragment.
	Delta string

	// Name is the function name (ToolCallStart, ToolCallEnd).
	Name string

	// Arguments is the complete argument JSON (ToolCallEnd).
	Arguments json.RawMessage

	// Usage and Reason are populated on Finish.
	Usage  Usage
	Reason FinishReason

	// Err is populated on Error.
	Err error
}

// Terminal reports whether the event ends its stream.
func (e StreamEvent) Terminal() bool {
	return e.Type == EventFinish || e.Type == EventError
}

// StartEvent creates a stream start event.
func StartEvent(id string) StreamEvent {
	return StreamEvent{Type: EventStart, ID: id}
}

// TextDeltaEvent creates a text delta event.
func TextDeltaEvent(id, delta string) StreamEvent {
	return StreamEvent{Type: EventTextDelta, ID: id, Delta: delta}
}

// ToolCallStartEvent creates a tool call start event.
func ToolCallStartEvent(id, name string) StreamEvent {
	return StreamEvent{Type: EventToolCallStart, ID: id, Name: name}
}

// ToolCallDeltaEvent creates a tool call argument delta event.
func ToolCallDeltaEvent(id, delta string) StreamEvent {
	return StreamEvent{Type: EventToolCallDelta, ID: id, Delta: delta}
}

// ToolCallEndEvent creates a completed tool call event.
func ToolCallEndEvent(id, name string, arguments json.RawMessage) StreamEvent {
	return StreamEvent{Type: EventToolCallEnd, ID: id, Name: name, Arguments: arguments}
}

// FinishEvent creates the terminal finish event.
func FinishEvent(usage Usage, reason FinishReason) StreamEvent {
	return StreamEvent{Type: EventFinish, Usage: usage, Reason: reason}
}

// ErrorEvent creates the terminal error event.
func ErrorEvent(err error) StreamEvent {
	return StreamEvent{Type: EventError, Err: err}
}
