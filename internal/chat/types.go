// Package chat provides the conversation history model, the continuation
// resolver, and the wire payload assembler.
package chat

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Turn is one role-tagged entry in a conversation history.
//
// Which optional fields may be populated depends on the role: Images is
// meaningful on user and tool turns, ToolCallIDs only on assistant turns
// that requested tool invocations, and ToolCallID only on tool-result
// turns. Use the constructors below rather than populating fields by hand;
// they keep illegal combinations out of reach.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`

	// Images holds base64-encoded image payloads attached to this turn.
	Images []string `json:"images,omitempty"`

	// ToolCallIDs lists the invocation identifiers requested by an
	// assistant turn.
	ToolCallIDs []string `json:"tool_call_ids,omitempty"`

	// ToolCallID correlates a tool-result turn to one invocation.
	ToolCallID string `json:"tool_call_id,omitempty"`

	// ToolCallsDescriptor is an opaque serialized representation of the
	// invocation(s) requested by the assistant. It is carried for display
	// and reconstruction and never reinterpreted here.
	ToolCallsDescriptor string `json:"tool_calls,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// IsToolInvocation reports whether this is an assistant turn that requested
// tool invocations.
func (t Turn) IsToolInvocation() bool {
	return t.Role == RoleAssistant && len(t.ToolCallIDs) > 0
}

// IsToolResult reports whether this turn echoes the output of a tool
// invocation.
func (t Turn) IsToolResult() bool {
	return t.Role == RoleTool && t.ToolCallID != ""
}

// NewUserTurn constructs a user turn with no tool metadata.
func NewUserTurn(text string) Turn {
	return Turn{
		Role:      RoleUser,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewUserTurnWithImages constructs a user turn carrying base64-encoded
// images alongside its text.
func NewUserTurnWithImages(text string, images []string) Turn {
	t := NewUserTurn(text)
	t.Images = images
	return t
}

// NewAssistantTurn constructs a plain assistant turn.
func NewAssistantTurn(text string) Turn {
	return Turn{
		Role:      RoleAssistant,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewAssistantToolCallTurn constructs an assistant turn that requested the
// given tool invocations. Text may be empty for tool-call-only turns.
func NewAssistantToolCallTurn(text string, callIDs []string, descriptor string) Turn {
	return Turn{
		Role:                RoleAssistant,
		Text:                text,
		ToolCallIDs:         callIDs,
		ToolCallsDescriptor: descriptor,
		Timestamp:           time.Now(),
	}
}

// NewToolResultTurn constructs a tool-result turn correlating to one
// invocation.
func NewToolResultTurn(callID string, result string, images []string) Turn {
	return Turn{
		Role:       RoleTool,
		Text:       result,
		Images:     images,
		ToolCallID: callID,
		Timestamp:  time.Now(),
	}
}

// NewSystemTurn constructs a system turn.
func NewSystemTurn(text string) Turn {
	return Turn{
		Role:      RoleSystem,
		Text:      text,
		Timestamp: time.Now(),
	}
}
