package chat

import (
	"log"
	"strings"

	"github.com/ajmckee/parley/internal/remote"
)

// toolOutputBudgetMultiplier relaxes the interactive tool-output budget when
// emitting a batch of function-output items, so that some results still get
// through even when the strict limit is exceeded for this batch.
const toolOutputBudgetMultiplier = 2

// imagePromptText is the fixed prompt attached to the synthetic message that
// carries newly captured images.
const imagePromptText = "Here are the requested images."

// jpegBase64Prefix is the base64 rendering of the JPEG magic bytes (FF D8 FF).
const jpegBase64Prefix = "/9j/"

// Assembler renders a continuation resolution into the wire item sequence.
type Assembler struct {
	// ToolOutputBudget is the per-request tool-output byte budget. Zero or
	// negative disables the budget.
	ToolOutputBudget int
}

// Build renders the resolved window plus any newly captured images into an
// ordered item sequence ready for transport-layer serialization.
//
// Construction order: function-output items for the resolver's tool-result
// list first, then one synthetic user message carrying the new images, then
// the conversational turns in [res.StartIndex, len(turns)). An empty result
// is valid for pure-continuation requests driven entirely by the token.
func (a Assembler) Build(turns []Turn, res Resolution, newImages []string) []remote.Item {
	var items []remote.Item

	items = append(items, a.buildToolOutputs(res.ToolResults)...)

	if len(newImages) > 0 {
		items = append(items, imageMessage(imagePromptText, newImages))
	}

	start := clampStartIndex(res.StartIndex, len(turns))
	for _, t := range turns[start:] {
		switch {
		case t.IsToolInvocation():
			// Already implied by the retained continuation state; restating
			// it confuses the remote service.
			continue
		case t.IsToolResult():
			// Either emitted above or covered by the token.
			continue
		case t.Role == RoleUser && len(t.Images) > 0:
			items = append(items, imageMessage(t.Text, t.Images))
		default:
			items = append(items, remote.TextMessage(string(t.Role), t.Text))
		}
	}

	if len(items) == 0 {
		log.Printf("Assembled empty item sequence; request will be driven by the continuation token alone")
	}
	return items
}

// buildToolOutputs emits one function-output item per tool result, tracking
// a cumulative byte total against the relaxed budget. A result that would
// push the total past the budget is dropped whole: partial tool output is
// worse than none, since truncation can leave structured results invalid.
func (a Assembler) buildToolOutputs(results []Turn) []remote.Item {
	var items []remote.Item
	budget := a.ToolOutputBudget * toolOutputBudgetMultiplier
	total := 0
	for _, t := range results {
		size := len(t.Text)
		if a.ToolOutputBudget > 0 && total+size > budget {
			log.Printf("Dropping tool result %q (%d bytes): batch budget of %d bytes exceeded", t.ToolCallID, size, budget)
			continue
		}
		total += size
		items = append(items, remote.FunctionCallOutput(t.ToolCallID, t.Text))
	}
	return items
}

// imageMessage renders a user message whose content is text plus one image
// entry per payload, each tagged with a best-effort MIME type.
func imageMessage(text string, images []string) remote.Item {
	content := make([]remote.ContentPart, 0, len(images)+1)
	content = append(content, remote.ContentPart{Type: remote.ContentTypeInputText, Text: text})
	for _, img := range images {
		content = append(content, remote.ContentPart{
			Type:     remote.ContentTypeInputImage,
			ImageURL: "data:" + sniffImageMIME(img) + ";base64," + img,
		})
	}
	return remote.Item{
		Type:    remote.ItemTypeMessage,
		Role:    string(RoleUser),
		Content: content,
	}
}

// sniffImageMIME infers a MIME type from the leading bytes of the encoded
// payload. A recognized JPEG magic prefix maps to JPEG; everything else
// defaults to PNG.
func sniffImageMIME(encoded string) string {
	if strings.HasPrefix(encoded, jpegBase64Prefix) {
		return "image/jpeg"
	}
	return "image/png"
}
