package anthropic

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/modelmux/modelmux/pkg/api"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// collectEvents runs processStream over a synthetic SSE body and returns all
// emitted events.
func collectEvents(t *testing.T, sseData string) []api.StreamEvent {
	t.Helper()
	ch := make(chan api.StreamEvent, 64)
	go processStream(context.Background(), strings.NewReader(sseData), ch)

	var events []api.StreamEvent
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func TestProcessStream_TextDeltas(t *testing.T) {
	sseData := `event: message_start
data: {"type":"message_start","message":{"id":"msg_01","type":"message","role":"assistant","content":[],"model":"claude-sonnet-4-5","usage":{"input_tokens":10,"output_tokens":0}}}

event: content_block_start
data: {"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}

event: content_block_delta
data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hello"}}

event: content_block_delta
data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":" world"}}

event: content_block_stop
data: {"type":"content_block_stop","index":0}

event: message_delta
data: {"type":"message_delta","delta":{"stop_reason":"end_turn"},"usage":{"output_tokens":5}}

event: message_stop
data: {"type":"message_stop"}
`
	events := collectEvents(t, sseData)

	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
	}
	if events[0].Type != api.EventTextDelta || events[0].Delta != "Hello" || events[0].ID != "msg_01" {
		t.Errorf("event 0 = %+v", events[0])
	}
	if events[1].Type != api.EventTextDelta || events[1].Delta != " world" {
		t.Errorf("event 1 = %+v", events[1])
	}
	fin := events[2]
	if fin.Type != api.EventFinish || fin.Reason != api.FinishStop {
		t.Errorf("final event = %+v, want Finish(stop)", fin)
	}
	if fin.Usage.PromptTokens != 10 || fin.Usage.CompletionTokens != 5 || fin.Usage.TotalTokens != 15 {
		t.Errorf("usage = %+v, want accumulated 10/5/15", fin.Usage)
	}
}

func TestProcessStream_ToolUse(t *testing.T) {
	sseData := `data: {"type":"message_start","message":{"id":"msg_02","usage":{"input_tokens":20,"output_tokens":0}}}

data: {"type":"content_block_start","index":0,"content_block":{"type":"tool_use","id":"toolu_01","name":"get_weather"}}

data: {"type":"content_block_delta","index":0,"delta":{"type":"input_json_delta","partial_json":"{\"city\":"}}

data: {"type":"content_block_delta","index":0,"delta":{"type":"input_json_delta","partial_json":"\"Berlin\"}"}}

data: {"type":"content_block_stop","index":0}

data: {"type":"message_delta","delta":{"stop_reason":"tool_use"},"usage":{"output_tokens":12}}

data: {"type":"message_stop"}
`
	events := collectEvents(t, sseData)

	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d: %+v", len(events), events)
	}
	if events[0].Type != api.EventToolCallStart || events[0].ID != "toolu_01" || events[0].Name != "get_weather" {
		t.Errorf("event 0 = %+v, want ToolCallStart", events[0])
	}
	// Argument deltas are keyed by the stringified block index.
	if events[1].Type != api.EventToolCallDelta || events[1].ID != "0" || events[1].Delta != `{"city":` {
		t.Errorf("event 1 = %+v", events[1])
	}
	if events[2].Type != api.EventToolCallDelta || events[2].Delta != `"Berlin"}` {
		t.Errorf("event 2 = %+v", events[2])
	}
	if events[3].Type != api.EventFinish || events[3].Reason != api.FinishToolCalls {
		t.Errorf("final event = %+v, want Finish(tool_calls)", events[3])
	}
}

func TestProcessStream_ThinkingDelta(t *testing.T) {
	sseData := `data: {"type":"message_start","message":{"id":"msg_03","usage":{"input_tokens":5,"output_tokens":0}}}

data: {"type":"content_block_delta","index":0,"delta":{"type":"thinking_delta","thinking":"hmm"}}

data: {"type":"message_stop"}
`
	events := collectEvents(t, sseData)

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}
	if events[0].Type != api.EventTextDelta || events[0].Delta != "[Thinking: hmm]" {
		t.Errorf("event 0 = %+v, want wrapped thinking text", events[0])
	}
}

func TestProcessStream_MalformedFrame(t *testing.T) {
	sseData := `data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hi"}}

data: {not valid json}

data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"ignored"}}
`
	events := collectEvents(t, sseData)

	if len(events) != 2 {
		t.Fatalf("expected 2 events (stream stops at bad frame), got %d: %+v", len(events), events)
	}
	last := events[len(events)-1]
	if last.Type != api.EventError {
		t.Fatalf("last event = %+v, want Error", last)
	}
	var apiErr *api.Error
	if !errors.As(last.Err, &apiErr) || apiErr.Kind != api.ErrDecode {
		t.Errorf("err = %v, want decode error", last.Err)
	}
}

func TestProcessStream_ErrorFrame(t *testing.T) {
	sseData := `data: {"type":"message_start","message":{"id":"msg_04","usage":{"input_tokens":5,"output_tokens":0}}}

data: {"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}

data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"never emitted"}}
`
	events := collectEvents(t, sseData)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d: %+v", len(events), events)
	}
	if events[0].Type != api.EventError || !strings.Contains(events[0].Err.Error(), "Overloaded") {
		t.Errorf("event = %+v, want vendor error", events[0])
	}
}

func TestProcessStream_DoneSentinel(t *testing.T) {
	sseData := `data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hi"}}

data: [DONE]

data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"after"}}
`
	events := collectEvents(t, sseData)

	if len(events) != 1 || events[0].Delta != "Hi" {
		t.Fatalf("expected only the pre-sentinel delta, got %+v", events)
	}
}

func TestProcessStream_CancelReleasesProducer(t *testing.T) {
	// More frames than the channel buffer holds, so the producer blocks on
	// send once the consumer walks away.
	var sse strings.Builder
	for i := 0; i < 40; i++ {
		sse.WriteString(`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"x"}}` + "\n\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan api.StreamEvent, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		processStream(ctx, strings.NewReader(sse.String()), ch)
	}()

	// Take one event, then abandon the channel without draining.
	<-ch
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("producer still running after cancellation")
	}
}

func TestProcessStream_AtMostOneTerminal(t *testing.T) {
	sseData := `data: {"type":"message_start","message":{"id":"msg_05","usage":{"input_tokens":1,"output_tokens":0}}}

data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"x"}}

data: {"type":"message_stop"}

data: {"type":"message_stop"}
`
	events := collectEvents(t, sseData)

	terminals := 0
	for i, ev := range events {
		if ev.Terminal() {
			terminals++
			if i != len(events)-1 {
				t.Errorf("terminal event at index %d is not last", i)
			}
		}
	}
	if terminals != 1 {
		t.Errorf("terminal events = %d, want exactly 1", terminals)
	}
}
