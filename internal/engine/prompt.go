package engine

import (
	"fmt"
	"strings"

	"github.com/coursepilot/coursepilot/internal/catalog"
)

const (
	maxPromptActions  = 20 // keep the system prompt small
	maxDescriptionLen = 100
)

// SystemPrompt renders the instruction message that tells the model which
// actions it may request and how to emit a tool call.
func SystemPrompt(c *catalog.Catalog) string {
	var lines []string
	for i, a := range c.List() {
		if i >= maxPromptActions {
			break
		}
		params := make([]string, 0, len(a.Parameters))
		for _, p := range a.Parameters {
			marker := ""
			if p.Required {
				marker = "*"
			}
			params = append(params, p.Name+marker)
		}
		desc := a.Description
		if len(desc) > maxDescriptionLen {
			desc = desc[:maxDescriptionLen]
		}
		lines = append(lines, fmt.Sprintf("- %s(%s): %s", a.Name, strings.Join(params, ", "), desc))
	}

	return fmt.Sprintf(`You are a Canvas LMS assistant that helps instructors manage courses.

AVAILABLE TOOLS (* = required parameter):
%s

RULES:
1. To call a tool, output ONLY this JSON: {"tool": "name", "parameters": {...}}
2. Use EXACT parameter names shown above.
3. NEVER use placeholder values like <YOUR_COURSE_ID>. Ask for missing required values.
4. If you cannot find a suitable tool, say so; do not invent actions.
5. Do NOT claim an action was done unless you output a tool call JSON.
6. For HTML content, provide the actual HTML.

EXAMPLE:
User: "Create a page called Welcome in course 123"
Response: {"tool": "create_page", "parameters": {"course_id": 123, "title": "Welcome", "body": "<h1>Welcome</h1>"}}`,
		strings.Join(lines, "\n"))
}
