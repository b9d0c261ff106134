package engine

import (
	"sort"
	"strings"
)

var placeholderMarkers = []string{"<YOUR_", "<HTML_", "<INSERT_", "<COURSE_", "<PAGE_", "<MODULE_"}

// CheckPlaceholders fails when any string argument still carries a template
// artifact the model should have replaced with a real value. A bare single
// tag like <COURSE_ID> counts as a placeholder; genuine HTML fragments are
// allowed because they contain a closing tag marker. Runs after Normalize
// and before execution.
func CheckPlaceholders(args Args) error {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		s, ok := args[key].(string)
		if !ok {
			continue
		}
		upper := strings.ToUpper(s)
		for _, marker := range placeholderMarkers {
			if strings.Contains(upper, marker) {
				return &ValidationError{Param: key, Value: s, Reason: "placeholder value"}
			}
		}
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "<") && strings.HasSuffix(trimmed, ">") && !strings.Contains(trimmed, "</") {
			return &ValidationError{Param: key, Value: s, Reason: "placeholder value"}
		}
	}
	return nil
}
