package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendPreservesOrder(t *testing.T) {
	h := NewHistory(nil)
	h.Append(NewUserTurn("first"))
	h.Append(NewAssistantTurn("second"))
	h.Append(NewUserTurn("third"))

	turns := h.Turns()
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, "first", turns[0].Text)
	assert.Equal(t, "second", turns[1].Text)
	assert.Equal(t, "third", turns[2].Text)
}

func TestNewUserTurnHasNoToolMetadata(t *testing.T) {
	turn := NewUserTurn("hello")

	assert.Equal(t, RoleUser, turn.Role)
	assert.Empty(t, turn.ToolCallIDs)
	assert.Empty(t, turn.ToolCallID)
	assert.False(t, turn.IsToolInvocation())
	assert.False(t, turn.IsToolResult())
}

func TestNewHistoryCopiesSeedTurns(t *testing.T) {
	seed := []Turn{NewUserTurn("a")}
	h := NewHistory(seed)
	h.Append(NewUserTurn("b"))

	assert.Len(t, seed, 1)
	assert.Equal(t, 2, h.Len())
}

func TestAppendUncorrelatedToolResultIsTolerated(t *testing.T) {
	h := NewHistory(nil)
	// No prior invocation; the append is logged but must succeed.
	h.Append(NewToolResultTurn("call_missing", "output", nil))

	assert.Equal(t, 1, h.Len())
}

func TestAppendCorrelatedToolResult(t *testing.T) {
	h := NewHistory(nil)
	h.Append(NewAssistantToolCallTurn("", []string{"call_1"}, `[{"name":"run"}]`))
	h.Append(NewToolResultTurn("call_1", "done", nil))

	turns := h.Turns()
	assert.True(t, turns[0].IsToolInvocation())
	assert.True(t, turns[1].IsToolResult())
}
