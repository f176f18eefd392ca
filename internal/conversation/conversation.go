// Package conversation wires the history model, continuation resolver,
// payload assembler, and auto-save controller into one conversation loop
// against a remote Completer.
package conversation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ajmckee/parley/internal/chat"
	"github.com/ajmckee/parley/internal/remote"
	"github.com/ajmckee/parley/internal/session"
	"github.com/ajmckee/parley/internal/telemetry"
)

// ToolResult carries the output of one externally executed tool invocation
// back into the conversation.
type ToolResult struct {
	CallID    string
	Name      string
	Arguments string
	Result    string
	Images    []string
}

// Conversation owns one live conversation: its history, its continuation
// token, and its auto-save binding. Not safe for concurrent use; the host
// drives it from a single control thread.
type Conversation struct {
	history   *chat.History
	token     string
	assembler chat.Assembler
	completer remote.Completer
	autosave  *session.AutoSaver
	telemetry *telemetry.Provider
	id        string
}

// New starts a fresh conversation and activates auto-saving under a newly
// generated session id. autosave and tel may be nil.
func New(completer remote.Completer, assembler chat.Assembler, autosave *session.AutoSaver, tel *telemetry.Provider) *Conversation {
	id := session.NewSessionID(time.Now())
	if autosave != nil {
		autosave.Begin(id)
	}
	return &Conversation{
		history:   chat.NewHistory(nil),
		assembler: assembler,
		completer: completer,
		autosave:  autosave,
		telemetry: tel,
		id:        id,
	}
}

// Resume continues a previously saved session. The outgoing conversation, if
// any, must have been flushed by its own controller first.
func Resume(sess session.Session, completer remote.Completer, assembler chat.Assembler, autosave *session.AutoSaver, tel *telemetry.Provider) *Conversation {
	if autosave != nil {
		autosave.Adopt(sess)
	}
	return &Conversation{
		history:   chat.NewHistory(sess.Turns),
		token:     sess.ContinuationToken,
		assembler: assembler,
		completer: completer,
		autosave:  autosave,
		telemetry: tel,
		id:        sess.ID,
	}
}

// ID returns the session id this conversation persists under.
func (c *Conversation) ID() string {
	return c.id
}

// Turns returns the conversation history. Read-only for callers.
func (c *Conversation) Turns() []chat.Turn {
	return c.history.Turns()
}

// SendUserMessage appends a user turn, sends the minimal continuation
// payload, and records the assistant's reply. The returned completion lists
// any tool invocations the assistant requested; the caller executes them and
// delivers the outputs via SubmitToolResults.
func (c *Conversation) SendUserMessage(ctx context.Context, text string, images []string) (remote.Completion, error) {
	turn := chat.NewUserTurnWithImages(text, images)
	c.appendTurn(turn)

	return c.exchange(ctx, true, nil)
}

// SubmitToolResults appends tool-result turns for externally executed
// invocations and resumes the conversation to deliver them.
func (c *Conversation) SubmitToolResults(ctx context.Context, results []ToolResult) (remote.Completion, error) {
	var newImages []string
	for _, r := range results {
		c.appendTurn(chat.NewToolResultTurn(r.CallID, r.Result, r.Images))
		newImages = append(newImages, r.Images...)

		if c.autosave != nil {
			c.autosave.AppendToolCall(session.ToolCallRecord{
				ID:        r.CallID,
				Name:      r.Name,
				Arguments: r.Arguments,
				Result:    r.Result,
				Timestamp: time.Now(),
			})
		}
		c.telemetry.RecordToolUse(ctx, telemetry.ToolUse{
			ToolName:       r.Name,
			CallID:         r.CallID,
			ResultSize:     len(r.Result),
			ConversationID: c.id,
		})
	}

	return c.exchange(ctx, false, newImages)
}

func (c *Conversation) exchange(ctx context.Context, isNewUserMessage bool, newImages []string) (remote.Completion, error) {
	turns := c.history.Turns()
	res, err := chat.Resolve(turns, c.token, isNewUserMessage)
	if err != nil {
		return remote.Completion{}, fmt.Errorf("failed to resolve continuation: %w", err)
	}

	items := c.assembler.Build(turns, res, newImages)

	comp, err := c.completer.Complete(ctx, c.token, items)
	if err != nil {
		return remote.Completion{}, fmt.Errorf("completion request failed: %w", err)
	}

	c.token = comp.Token
	if c.autosave != nil {
		c.autosave.SetContinuationToken(comp.Token)
	}

	c.appendTurn(assistantTurn(comp))

	if c.autosave != nil {
		if err := c.autosave.Flush(ctx); err != nil {
			// A failed save must not lose the exchange; the turn stays in
			// memory and the next flush retries.
			log.Printf("Failed to persist conversation %s: %v", c.id, err)
		}
	}
	return comp, nil
}

// End flushes and deactivates the auto-save binding.
func (c *Conversation) End(ctx context.Context) error {
	if c.autosave == nil {
		return nil
	}
	return c.autosave.End(ctx)
}

func (c *Conversation) appendTurn(t chat.Turn) {
	c.history.Append(t)
	if c.autosave != nil {
		c.autosave.AppendTurn(t)
	}
}

func assistantTurn(comp remote.Completion) chat.Turn {
	if len(comp.ToolInvocations) == 0 {
		return chat.NewAssistantTurn(comp.Text)
	}
	ids := make([]string, 0, len(comp.ToolInvocations))
	descriptor := ""
	for _, inv := range comp.ToolInvocations {
		ids = append(ids, inv.CallID)
		if descriptor != "" {
			descriptor += ","
		}
		descriptor += fmt.Sprintf("%s(%s)", inv.Name, inv.Arguments)
	}
	return chat.NewAssistantToolCallTurn(comp.Text, ids, descriptor)
}
