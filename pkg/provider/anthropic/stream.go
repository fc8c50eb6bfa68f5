package anthropic

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/modelmux/modelmux/pkg/api"
	"github.com/modelmux/modelmux/pkg/debug"
	"github.com/modelmux/modelmux/pkg/observability"
)

// streamState accumulates per-stream data across SSE frames.
type streamState struct {
	id         string
	usage      api.Usage
	sawToolUse bool
}

// processStream reads the named-event SSE body and emits unified events on
// ch. It closes ch when the stream ends and never emits past a terminal
// event. The caller owns body; processStream only reads it. Canceling ctx
// unblocks a pending send so an abandoned consumer cannot strand the
// producer.
func processStream(ctx context.Context, body io.Reader, ch chan<- api.StreamEvent) {
	defer close(ch)

	emit := func(ev api.StreamEvent) bool {
		select {
		case ch <- ev:
			observability.StreamEventsTotal.WithLabelValues("anthropic", ev.Type.String()).Inc()
			return true
		case <-ctx.Done():
			return false
		}
	}

	state := &streamState{}
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "event:") {
			continue
		}
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		if data == "[DONE]" {
			return
		}

		var frame anthropicStreamEvent
		if err := json.Unmarshal([]byte(data), &frame); err != nil {
			debug.Log("streaming", "anthropic: unparseable frame", "data", debug.Truncate(data, 200), "error", err)
			emit(api.ErrorEvent(api.NewDecodeError("anthropic", "unparseable stream frame: "+err.Error())))
			return
		}

		switch frame.Type {
		case "message_start":
			if frame.Message != nil {
				state.id = frame.Message.ID
				state.usage.PromptTokens = frame.Message.Usage.InputTokens
			}

		case "content_block_start":
			if frame.ContentBlock != nil && frame.ContentBlock.Type == "tool_use" {
				state.sawToolUse = true
				if !emit(api.ToolCallStartEvent(frame.ContentBlock.ID, frame.ContentBlock.Name)) {
					return
				}
			}

		case "content_block_delta":
			if frame.Delta == nil {
				continue
			}
			var ev api.StreamEvent
			switch frame.Delta.Type {
			case "text_delta":
				ev = api.TextDeltaEvent(state.id, frame.Delta.Text)
			case "thinking_delta":
				ev = api.TextDeltaEvent(state.id, "[Thinking: "+frame.Delta.Thinking+"]")
			case "input_json_delta":
				// Argument deltas carry no tool-call id on the wire, only
				// the numeric block index.
				ev = api.ToolCallDeltaEvent(strconv.Itoa(frame.Index), frame.Delta.PartialJSON)
			default:
				continue
			}
			if !emit(ev) {
				return
			}

		case "message_delta":
			if frame.Usage != nil {
				state.usage.CompletionTokens = frame.Usage.OutputTokens
				state.usage.TotalTokens = state.usage.PromptTokens + frame.Usage.OutputTokens
			}

		case "message_stop":
			reason := api.FinishStop
			if state.sawToolUse {
				reason = api.FinishToolCalls
			}
			emit(api.FinishEvent(state.usage, reason))
			return

		case "error":
			msg := "stream error"
			if frame.Error != nil {
				msg = frame.Error.Message
			}
			emit(api.ErrorEvent(api.NewInvalidResponseError("anthropic", msg)))
			return

		case "ping", "content_block_stop":
			// No unified event for these frames.

		default:
			debug.Log("streaming", "anthropic: ignoring unknown frame type", "type", frame.Type)
		}
	}

	if err := scanner.Err(); err != nil {
		emit(api.ErrorEvent(api.NewDecodeError("anthropic", "reading stream: "+err.Error())))
	}
}
