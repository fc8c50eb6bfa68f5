package gemini

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

// ndjsonState accumulates per-stream data across response lines.
type ndjsonState struct {
	id    string
	usage api.Usage
}

// processStream reads the newline-delimited JSON body and emits unified
// events on ch. Every line is a complete response object carrying only the
// incremental text, so each parsed line yields at most one event. The vendor
// has no terminal marker: when the byte stream ends without an explicit
// finish and usage was seen, a trailing Finish{Stop} is synthesized. ch is
// closed when the stream ends. Canceling ctx unblocks a pending send so an
// abandoned consumer cannot strand the producer.
func processStream(ctx context.Context, body io.Reader, ch chan<- api.StreamEvent) {
	defer close(ch)

	emit := func(ev api.StreamEvent) bool {
		select {
		case ch <- ev:
			observability.StreamEventsTotal.WithLabelValues("google", ev.Type.String()).Inc()
			return true
		case <-ctx.Done():
			return false
		}
	}

	state := &ndjsonState{}
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var resp geminiResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			debug.Log("streaming", "google: unparseable line", "data", debug.Truncate(line, 200), "error", err)
			emit(api.ErrorEvent(api.NewDecodeError("google", "unparseable stream line: "+err.Error())))
			return
		}

		// Usage metadata is a running total: last write wins, never summed.
		if resp.UsageMetadata != nil {
			state.usage = api.Usage{
				PromptTokens:     resp.UsageMetadata.PromptTokenCount,
				CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
				TotalTokens:      resp.UsageMetadata.TotalTokenCount,
			}
		}

		if len(resp.Candidates) == 0 {
			continue
		}
		candidate := resp.Candidates[0]

		if state.id == "" {
			state.id = api.NewStreamID("gemini")
		}

		if ev, ok := candidateEvent(state, candidate); ok {
			if !emit(ev) || ev.Terminal() {
				return
			}
		}
	}

	if err := scanner.Err(); err != nil {
		emit(api.ErrorEvent(api.NewDecodeError("google", "reading stream: "+err.Error())))
		return
	}

	// No explicit terminal marker arrived; close out the stream when usage
	// shows that generation actually happened.
	if state.usage.TotalTokens > 0 {
		emit(api.FinishEvent(state.usage, api.FinishStop))
	}
}

// candidateEvent derives at most one event from a parsed line: the first
// non-empty text or function-call part wins, then a finish reason.
func candidateEvent(state *ndjsonState, candidate geminiCandidate) (api.StreamEvent, bool) {
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			return api.TextDeltaEvent(state.id, part.Text), true
		}
		// Function calls arrive complete, never as deltas, and carry no id.
		if part.FunctionCall != nil {
			return api.ToolCallEndEvent(api.NewCallID(), part.FunctionCall.Name, part.FunctionCall.Args), true
		}
	}
	if candidate.FinishReason != "" {
		return api.FinishEvent(state.usage, mapFinishReason(candidate.FinishReason)), true
	}
	return api.StreamEvent{}, false
}
