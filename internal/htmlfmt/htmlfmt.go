// Package htmlfmt builds small HTML fragments for rich content: page
// bodies sent to the LMS and the gateway's transcript view. Inputs are
// escaped; callers pass plain text, not markup.
package htmlfmt

import (
	"fmt"
	"html"
	"strings"
)

// Header renders a styled header. Levels outside 1..6 are clamped.
func Header(text string, level int) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return fmt.Sprintf("<h%d>%s</h%d>", level, html.EscapeString(text), level)
}

// Paragraph renders a paragraph, optionally bold and/or italic.
func Paragraph(text string, bold, italic bool) string {
	s := html.EscapeString(text)
	if bold {
		s = "<strong>" + s + "</strong>"
	}
	if italic {
		s = "<em>" + s + "</em>"
	}
	return "<p>" + s + "</p>"
}

// List renders an unordered list, or an ordered list when ordered is true.
func List(items []string, ordered bool) string {
	tag := "ul"
	if ordered {
		tag = "ol"
	}
	var sb strings.Builder
	sb.WriteString("<" + tag + ">")
	for _, item := range items {
		sb.WriteString("<li>")
		sb.WriteString(html.EscapeString(item))
		sb.WriteString("</li>")
	}
	sb.WriteString("</" + tag + ">")
	return sb.String()
}

var alertColors = map[string]string{
	"info":    "#d1ecf1",
	"warning": "#fff3cd",
	"error":   "#f8d7da",
	"success": "#d4edda",
}

// AlertBox renders a colored alert box. Unknown alert types fall back to "info".
func AlertBox(message, alertType string) string {
	bg, ok := alertColors[alertType]
	if !ok {
		bg = alertColors["info"]
	}
	return fmt.Sprintf(
		`<div style="padding: 15px; margin: 10px 0; border-radius: 5px; background-color: %s; border-left: 5px solid #0c5460;">%s</div>`,
		bg, html.EscapeString(message))
}

// Link renders an anchor that opens in a new tab.
func Link(text, url string) string {
	return fmt.Sprintf(`<a href="%s" target="_blank">%s</a>`,
		html.EscapeString(url), html.EscapeString(text))
}

// CodeBlock renders a preformatted code block with a language class.
func CodeBlock(code, language string) string {
	return fmt.Sprintf(`<pre><code class="language-%s">%s</code></pre>`,
		html.EscapeString(language), html.EscapeString(code))
}

// Table renders a simple table with a header row.
func Table(headers []string, rows [][]string) string {
	var sb strings.Builder
	sb.WriteString(`<table style="border-collapse: collapse; width: 100%;"><thead style="background-color: #f0f0f0;"><tr>`)
	for _, h := range headers {
		sb.WriteString("<th>")
		sb.WriteString(html.EscapeString(h))
		sb.WriteString("</th>")
	}
	sb.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		sb.WriteString("<tr>")
		for _, cell := range row {
			sb.WriteString("<td>")
			sb.WriteString(html.EscapeString(cell))
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table>")
	return sb.String()
}
