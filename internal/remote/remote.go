// Package remote defines the boundary with the stateful remote completion
// API: the wire item types the payload assembler emits, and the collaborator
// interface the host's API client implements. The actual network call lives
// outside this module.
package remote

import "context"

// Item types on the wire.
const (
	ItemTypeMessage            = "message"
	ItemTypeFunctionCallOutput = "function_call_output"
)

// Content part types within a message item.
const (
	ContentTypeInputText  = "input_text"
	ContentTypeInputImage = "input_image"
)

// Item is one entry in the request item sequence.
//
// A message item carries Role and Content; a function_call_output item
// carries CallID and Output. The remote service rejects requests mixing the
// two shapes in one item, so the assembler never populates both.
type Item struct {
	Type    string        `json:"type"`
	Role    string        `json:"role,omitempty"`
	Content []ContentPart `json:"content,omitempty"`
	CallID  string        `json:"call_id,omitempty"`
	Output  string        `json:"output,omitempty"`
}

// ContentPart is one part of a message item's content.
type ContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// TextMessage constructs a flat role+text message item.
func TextMessage(role, text string) Item {
	return Item{
		Type:    ItemTypeMessage,
		Role:    role,
		Content: []ContentPart{{Type: ContentTypeInputText, Text: text}},
	}
}

// FunctionCallOutput constructs a function-output item echoing one tool
// result back to the remote service.
func FunctionCallOutput(callID, output string) Item {
	return Item{
		Type:   ItemTypeFunctionCallOutput,
		CallID: callID,
		Output: output,
	}
}

// ToolInvocation describes one tool call requested by the assistant.
type ToolInvocation struct {
	CallID    string
	Name      string
	Arguments string
}

// Completion is the result of one remote API call.
type Completion struct {
	// Token is the opaque continuation token identifying this exchange.
	// Passing it on the next request lets the client omit previously
	// transmitted context.
	Token string

	// Text is the assistant's text output, possibly empty when the
	// assistant only requested tool invocations.
	Text string

	// ToolInvocations lists tool calls the assistant requested, in order.
	ToolInvocations []ToolInvocation
}

// Completer is implemented by the host's API client. Complete sends the
// assembled item sequence, with previousToken identifying the server-side
// retained context (empty on the first exchange).
type Completer interface {
	Complete(ctx context.Context, previousToken string, items []Item) (Completion, error)
}
