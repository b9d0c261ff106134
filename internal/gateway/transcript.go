package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/coursepilot/coursepilot/internal/htmlfmt"
	"github.com/coursepilot/coursepilot/internal/provider"
)

// handleSessionIndex lists session ids with links to their transcripts.
func (s *Server) handleSessionIndex(w http.ResponseWriter, _ *http.Request) {
	ids, err := s.store.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var b strings.Builder
	b.WriteString(htmlfmt.Header("Sessions", 1))
	if len(ids) == 0 {
		b.WriteString(htmlfmt.Paragraph("No sessions yet.", false, true))
	}
	for _, id := range ids {
		b.WriteString("<p>")
		b.WriteString(htmlfmt.Link(id, "/sessions/"+id))
		b.WriteString("</p>")
	}
	writePage(w, "Sessions", b.String())
}

// handleTranscript renders one session read-only: a summary table, the
// pending confirmation if any, and the message history.
func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	var b strings.Builder
	b.WriteString(htmlfmt.Header("Session "+sess.ID, 1))
	b.WriteString(htmlfmt.Table(
		[]string{"Messages", "Current course", "Created", "Updated"},
		[][]string{{
			strconv.Itoa(len(sess.Messages)),
			strconv.Itoa(sess.CurrentCourse),
			sess.CreatedAt.UTC().Format(time.RFC3339),
			sess.UpdatedAt.UTC().Format(time.RFC3339),
		}},
	))

	if sess.Pending != nil {
		b.WriteString(htmlfmt.AlertBox("Awaiting confirmation for "+sess.Pending.Action, "warning"))
		if args, err := json.MarshalIndent(sess.Pending.Arguments, "", "  "); err == nil {
			b.WriteString(htmlfmt.CodeBlock(string(args), "json"))
		}
	}

	for _, msg := range sess.Messages {
		b.WriteString(htmlfmt.Header(string(msg.Role), 3))
		b.WriteString(htmlfmt.Paragraph(msg.Content, msg.Role == provider.RoleUser, false))
	}
	b.WriteString(htmlfmt.Link("All sessions", "/sessions"))
	writePage(w, "Session "+sess.ID, b.String())
}

func writePage(w http.ResponseWriter, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!doctype html><html><head><title>%s</title></head><body>%s</body></html>", title, body)
}
