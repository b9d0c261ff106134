package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

const maxListEntries = 20

// renderLines turns a list result into one bullet per record, using a
// best-effort label and id. Capped at maxListEntries with an ellipsis
// marker when more exist.
func renderLines(items []any) string {
	var lines []string
	for i, item := range items {
		if i >= maxListEntries {
			break
		}
		rec, ok := item.(map[string]any)
		if !ok {
			lines = append(lines, fmt.Sprintf("- %v", item))
			continue
		}
		name := firstString(rec, "name", "title", "short_name")
		if name == "" {
			name = "Unnamed"
		}
		id := firstValue(rec, "id", "course_id", "uuid")
		lines = append(lines, fmt.Sprintf("- %s (ID: %s)", name, formatID(id)))
	}
	more := ""
	if len(items) > maxListEntries {
		more = "\n…"
	}
	return strings.Join(lines, "\n") + more
}

// renderExecution renders the result of a confirmed action.
func renderExecution(result any) string {
	if items, ok := result.([]any); ok {
		if len(items) == 0 {
			return "No results returned. If you expected courses, check enrollment type/state (e.g., try enrollment_type='teacher', enrollment_state='active')."
		}
		return "✅ Operation completed successfully!\n\n" + renderLines(items)
	}
	return "✅ Operation completed successfully!\n\n" + renderValue(result)
}

// renderCourses renders the fallback list-courses result.
func renderCourses(items []any) string {
	if len(items) == 0 {
		return "No courses found for your teacher enrollments. Try changing enrollment_type/state."
	}
	return "✅ Courses:\n\n" + renderLines(items)
}

func renderValue(v any) string {
	switch v.(type) {
	case nil:
		return "Done."
	case map[string]any:
		if b, err := json.MarshalIndent(v, "", "  "); err == nil {
			return string(b)
		}
	}
	return fmt.Sprintf("%v", v)
}

func firstString(rec map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstValue(rec map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// formatID prints JSON-decoded numeric ids without a trailing ".0".
func formatID(v any) string {
	switch n := v.(type) {
	case nil:
		return "?"
	case float64:
		if n == math.Trunc(n) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%v", n)
	default:
		return fmt.Sprintf("%v", v)
	}
}
