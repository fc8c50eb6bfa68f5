package api

import (
	"encoding/json"
	"fmt"
)

// Role identifies the sender of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// PartType identifies the kind of a content part.
type PartType string

const (
	PartText       PartType = "text"
	PartImage      PartType = "image"
	PartToolCall   PartType = "tool_call"
	PartToolResult PartType = "tool_result"
)

// ImageDetail selects the processing detail level for image parts.
type ImageDetail string

const (
	DetailLow  ImageDetail = "low"
	DetailHigh ImageDetail = "high"
	DetailAuto ImageDetail = "auto"
)

// ContentPart is one element of structured message content. The Type field
// selects which of the remaining fields are meaningful.
type ContentPart struct {
	Type PartType `json:"type"`

	// Text content (PartText).
	Text string `json:"text,omitempty"`

	// Image URL or data URI, with optional detail (PartImage).
	URL    string      `json:"url,omitempty"`
	Detail ImageDetail `json:"detail,omitempty"`

	// Tool call id, name and JSON arguments (PartToolCall).
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`

	// Tool result: the call being answered and its JSON payload
	// (PartToolResult).
	ToolCallID string          `json:"tool_call_id,omitempty"`
	Content    json.RawMessage `json:"content,omitempty"`
}

// TextPart creates a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// ImagePart creates an image content part from a URL or data URI.
func ImagePart(url string) ContentPart {
	return ContentPart{Type: PartImage, URL: url}
}

// ImagePartWithDetail creates an image content part with a detail level.
func ImagePartWithDetail(url string, detail ImageDetail) ContentPart {
	return ContentPart{Type: PartImage, URL: url, Detail: detail}
}

// ToolCallPart creates a tool call content part for assistant history.
func ToolCallPart(id, name string, arguments json.RawMessage) ContentPart {
	return ContentPart{Type: PartToolCall, ID: id, Name: name, Arguments: arguments}
}

// ToolResultPart creates a tool result content part.
func ToolResultPart(toolCallID string, content json.RawMessage) ContentPart {
	return ContentPart{Type: PartToolResult, ToolCallID: toolCallID, Content: content}
}

// MessageContent is either plain text or an ordered sequence of content
// parts, never both. On the wire the text variant serializes as a bare
// string and the parts variant as an array of tagged objects; a parts
// sequence holding a single text part collapses to the bare-string form.
type MessageContent struct {
	text    string
	parts   []ContentPart
	isParts bool
}

// TextContent creates plain-text message content.
func TextContent(text string) MessageContent {
	return MessageContent{text: text}
}

// PartsContent creates structured message content.
func PartsContent(parts ...ContentPart) MessageContent {
	return MessageContent{parts: parts, isParts: true}
}

// Text returns the concatenated text of the content. For the parts variant
// only text parts contribute; ok is false when no text is present.
func (c MessageContent) Text() (text string, ok bool) {
	if !c.isParts {
		return c.text, true
	}
	found := false
	for _, p := range c.parts {
		if p.Type == PartText {
			text += p.Text
			found = true
		}
	}
	return text, found
}

// Parts returns the content as a part sequence, converting the text variant
// to a single text part.
func (c MessageContent) Parts() []ContentPart {
	if !c.isParts {
		return []ContentPart{TextPart(c.text)}
	}
	return c.parts
}

// IsParts reports whether the content holds structured parts rather than
// plain text.
func (c MessageContent) IsParts() bool {
	return c.isParts
}

// MarshalJSON serializes the text variant as a bare string and the parts
// variant as an array. A single text part is collapsed to the string form so
// the round trip lands back on the text variant.
func (c MessageContent) MarshalJSON() ([]byte, error) {
	if !c.isParts {
		return json.Marshal(c.text)
	}
	if len(c.parts) == 1 && c.parts[0].Type == PartText {
		return json.Marshal(c.parts[0].Text)
	}
	return json.Marshal(c.parts)
}

// UnmarshalJSON accepts either a bare string or an array of content parts.
func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = TextContent(s)
		return nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err == nil {
		*c = PartsContent(parts...)
		return nil
	}
	return fmt.Errorf("message content must be a string or an array of parts")
}

// Message is a single conversation turn.
type Message struct {
	Role    Role           `json:"role"`
	Content MessageContent `json:"content"`
	Name    string         `json:"name,omitempty"`
}

// NewMessage creates a message with plain-text content.
func NewMessage(role Role, text string) Message {
	return Message{Role: role, Content: TextContent(text)}
}

// Text returns the text content of the message, if any.
func (m Message) Text() (string, bool) {
	return m.Content.Text()
}

// Parts returns the message content as a part sequence.
func (m Message) Parts() []ContentPart {
	return m.Content.Parts()
}
