package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/modelmux/modelmux/pkg/api"
	"github.com/modelmux/modelmux/pkg/debug"
	"github.com/modelmux/modelmux/pkg/observability"
)

// toolCallBuffer accumulates argument fragments for one tool call, keyed by
// the choice-level tool call index.
type toolCallBuffer struct {
	id   string
	name string
	args strings.Builder
}

// chunkState accumulates per-stream data across SSE chunks.
type chunkState struct {
	usage    api.Usage
	calls    map[int]*toolCallBuffer
	order    []int
	finished bool
}

// processStream reads the undifferentiated SSE chunk stream and emits
// unified events on ch. Chunks after the terminal Finish are consumed but
// ignored until the [DONE] sentinel. ch is closed when the stream ends.
// Canceling ctx unblocks a pending send so an abandoned consumer cannot
// strand the producer.
func processStream(ctx context.Context, body io.Reader, ch chan<- api.StreamEvent) {
	defer close(ch)

	emit := func(ev api.StreamEvent) bool {
		select {
		case ch <- ev:
			observability.StreamEventsTotal.WithLabelValues("openai", ev.Type.String()).Inc()
			return true
		case <-ctx.Done():
			return false
		}
	}

	state := &chunkState{calls: make(map[int]*toolCallBuffer)}
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		if data == "[DONE]" {
			return
		}

		var chunk openaiChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			debug.Log("streaming", "openai: unparseable chunk", "data", debug.Truncate(data, 200), "error", err)
			emit(api.ErrorEvent(api.NewDecodeError("openai", "unparseable stream chunk: "+err.Error())))
			return
		}

		if chunk.Usage != nil {
			state.usage = api.Usage{
				PromptTokens:     chunk.Usage.PromptTokens,
				CompletionTokens: chunk.Usage.CompletionTokens,
				TotalTokens:      chunk.Usage.TotalTokens,
			}
		}

		// The terminal event is already out; later chunks may still carry
		// usage (handled above) but emit nothing.
		if state.finished || len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]

		// One event per chunk, priority: finish > tool call > text > start.
		switch {
		case choice.FinishReason != nil && *choice.FinishReason != "":
			for _, idx := range state.order {
				buf := state.calls[idx]
				if !emit(api.ToolCallEndEvent(buf.id, buf.name, completeArguments(buf.args.String()))) {
					return
				}
			}
			if !emit(api.FinishEvent(state.usage, mapFinishReason(*choice.FinishReason))) {
				return
			}
			state.finished = true

		case len(choice.Delta.ToolCalls) > 0:
			if ev, ok := toolCallEvent(state, choice.Delta.ToolCalls); ok {
				if !emit(ev) {
					return
				}
			}

		case choice.Delta.Content != nil:
			if !emit(api.TextDeltaEvent(chunk.ID, *choice.Delta.Content)) {
				return
			}

		case choice.Delta.Role != "":
			if !emit(api.StartEvent(chunk.ID)) {
				return
			}
		}
	}

	if err := scanner.Err(); err != nil {
		emit(api.ErrorEvent(api.NewDecodeError("openai", "reading stream: "+err.Error())))
	}
}

// toolCallEvent processes the first actionable tool-call fragment of a
// chunk: a named fragment opens a call, an arguments-only fragment extends
// one.
func toolCallEvent(state *chunkState, fragments []openaiToolCallDelta) (api.StreamEvent, bool) {
	for _, frag := range fragments {
		if frag.Function == nil {
			continue
		}
		if frag.Function.Name != "" {
			id := frag.ID
			if id == "" {
				id = api.NewCallID()
			}
			buf := &toolCallBuffer{id: id, name: frag.Function.Name}
			buf.args.WriteString(frag.Function.Arguments)
			state.calls[frag.Index] = buf
			state.order = append(state.order, frag.Index)
			return api.ToolCallStartEvent(id, frag.Function.Name), true
		}
		if frag.Function.Arguments != "" {
			buf, ok := state.calls[frag.Index]
			if !ok {
				// Argument fragment for a call that never started; drop it.
				debug.Log("streaming", "openai: argument fragment without tool call start", "index", frag.Index)
				return api.StreamEvent{}, false
			}
			buf.args.WriteString(frag.Function.Arguments)
			return api.ToolCallDeltaEvent(buf.id, frag.Function.Arguments), true
		}
	}
	return api.StreamEvent{}, false
}

// completeArguments returns the accumulated fragments as JSON, falling back
// to an empty object when the pieces do not assemble into valid JSON.
func completeArguments(raw string) json.RawMessage {
	if raw != "" && json.Valid([]byte(raw)) {
		return json.RawMessage(raw)
	}
	return json.RawMessage(`{}`)
}
