package chat

import (
	"errors"
	"fmt"
	"log"
)

// ErrProtocolFault reports that a pure tool-continuation resolved with no
// tool results to send. The remote API requires some input on every call, so
// this condition must surface to the caller rather than produce a request
// that is known to fail remotely.
var ErrProtocolFault = errors.New("continuation requires tool results but none were resolved")

// fallbackScanLimit bounds the backward history scan used to recover tool
// results when upstream state tracking has drifted. See recoverToolResults.
const fallbackScanLimit = 10

// Resolution describes the minimal wire payload needed to continue a
// conversation.
//
// StartIndex is the index of the first turn that must be re-sent verbatim;
// it may equal the history length, meaning no conversational turns are
// re-sent. ToolResults lists tool-result turns that must be sent as discrete
// function-output items regardless of StartIndex.
type Resolution struct {
	StartIndex  int
	ToolResults []Turn
}

// Resolve computes which suffix of history and which tool results must be
// included in the next request.
//
// The remote service retains everything associated with a continuation token
// server-side, so once a token exists only new information since the last
// exchange is transmitted. With no token the full history is sent.
// isNewUserMessage distinguishes a fresh user message from a resumption that
// exists purely to deliver tool results.
func Resolve(turns []Turn, token string, isNewUserMessage bool) (Resolution, error) {
	if token == "" {
		// Nothing is retained server-side yet; the full window carries
		// everything, including any tool results.
		return Resolution{StartIndex: 0}, nil
	}

	res := Resolution{
		ToolResults: outstandingToolResults(turns),
	}

	if isNewUserMessage {
		res.StartIndex = trailingUserWindow(turns)
	} else {
		// Resuming purely to deliver tool results: zero conversational
		// turns are re-sent and the tool-result list is mandatory.
		res.StartIndex = len(turns)
		if len(res.ToolResults) == 0 {
			res.ToolResults = recoverToolResults(turns)
		}
		if len(res.ToolResults) == 0 {
			return res, fmt.Errorf("resolving continuation for %d turns: %w", len(turns), ErrProtocolFault)
		}
	}

	res.StartIndex = clampStartIndex(res.StartIndex, len(turns))
	return res, nil
}

// trailingUserWindow returns the index of the first turn in the trailing run
// of user turns, i.e. the user input not yet acknowledged by the remote
// service. If the history does not end with user turns it returns the
// history length.
func trailingUserWindow(turns []Turn) int {
	start := len(turns)
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role != RoleUser {
			break
		}
		start = i
	}
	return start
}

// outstandingToolResults collects tool-result turns that follow the most
// recent assistant tool-invocation turn. These have not been covered by any
// prior exchange and must be surfaced as function-output items even when the
// conversational window excludes them, e.g. when the user interrupted a tool
// continuation with a fresh message.
func outstandingToolResults(turns []Turn) []Turn {
	var results []Turn
	for i := len(turns) - 1; i >= 0; i-- {
		t := turns[i]
		switch {
		case t.IsToolResult():
			results = append([]Turn{t}, results...)
		case t.Role == RoleUser:
			// Skip past trailing user input; results before it may still
			// be outstanding.
			continue
		default:
			return results
		}
	}
	return results
}

// recoverToolResults is a best-effort compensation for upstream
// state-tracking drift: it scans backward through the most recent
// fallbackScanLimit turns for contiguous trailing tool-result turns and
// adopts those. The scan stops at the first assistant turn.
func recoverToolResults(turns []Turn) []Turn {
	var results []Turn
	limit := len(turns) - fallbackScanLimit
	if limit < 0 {
		limit = 0
	}
	for i := len(turns) - 1; i >= limit; i-- {
		t := turns[i]
		if t.IsToolResult() {
			results = append([]Turn{t}, results...)
			continue
		}
		if t.Role == RoleAssistant {
			break
		}
	}
	if len(results) > 0 {
		log.Printf("Warning: recovered %d trailing tool result(s) by fallback scan", len(results))
	}
	return results
}

// clampStartIndex corrects an out-of-range start index to 0. The window is
// always [0, length]; a value outside that range indicates a bookkeeping
// bug and must be corrected, never propagated as a crash.
func clampStartIndex(start, length int) int {
	if start < 0 || start > length {
		log.Printf("Warning: continuation start index %d out of range [0, %d], resetting to 0", start, length)
		return 0
	}
	return start
}
