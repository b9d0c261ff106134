package engine

import (
	"encoding/json"
	"strings"

	"github.com/coursepilot/coursepilot/internal/state"
)

// Model output beyond this is not scanned. The brace search below is
// quadratic in the worst case, so the input has to be bounded.
const maxScanBytes = 64 << 10

// ExtractToolCall scans model output for an embedded JSON tool call of the
// shape {"tool": "...", "parameters": {...}} and returns the first valid
// match. The scan tolerates prose wrapped around or interleaved with the
// JSON: for each opening brace left to right it tries closing braces right
// to left until a substring parses into an object with the two required
// keys. Returns false when no call is found, which is the normal case for
// conversational replies.
func ExtractToolCall(text string) (*state.PendingAction, bool) {
	if !strings.Contains(text, "{") || !strings.Contains(text, "tool") {
		return nil, false
	}
	if len(text) > maxScanBytes {
		text = text[:maxScanBytes]
	}

	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		for end := len(text); end > start; end-- {
			if text[end-1] != '}' {
				continue
			}
			var obj map[string]any
			if err := json.Unmarshal([]byte(text[start:end]), &obj); err != nil {
				continue
			}
			tool, ok := obj["tool"].(string)
			if !ok {
				continue
			}
			params, ok := obj["parameters"].(map[string]any)
			if !ok {
				continue
			}
			return &state.PendingAction{Action: tool, Arguments: params}, true
		}
	}
	return nil, false
}
