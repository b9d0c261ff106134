package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/coursepilot/coursepilot/internal/catalog"
	"github.com/coursepilot/coursepilot/internal/provider"
	"github.com/coursepilot/coursepilot/internal/state"
)

type fakeProvider struct {
	reply   string
	err     error
	calls   int
	lastReq *provider.CompletionRequest
}

func (p *fakeProvider) ID() string { return "fake" }

func (p *fakeProvider) Complete(_ context.Context, req *provider.CompletionRequest) (*provider.CompletionResponse, error) {
	p.calls++
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return &provider.CompletionResponse{Content: p.reply}, nil
}

type invocation struct {
	action string
	args   Args
}

type fakeExecutor struct {
	invocations []invocation
	result      any
	err         error
}

func (e *fakeExecutor) Invoke(_ context.Context, action string, args Args) (any, error) {
	e.invocations = append(e.invocations, invocation{action: action, args: args})
	if e.err != nil {
		return nil, e.err
	}
	return e.result, nil
}

func newTestEngine(t *testing.T, llm provider.Provider, exec Executor) *Engine {
	t.Helper()
	e, err := New(Config{
		Provider: llm,
		Catalog:  catalog.Default(),
		Executor: exec,
		Model:    "test-model",
	})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func newSession() *state.Session {
	return &state.Session{ID: "s1"}
}

const pageCallReply = `{"tool": "create_page", "parameters": {"course_id": 5, "title": "Welcome", "body": "<h1>Welcome</h1>"}}`

func TestProposeThenConfirm(t *testing.T) {
	llm := &fakeProvider{reply: pageCallReply}
	exec := &fakeExecutor{result: map[string]any{"id": float64(10), "title": "Welcome"}}
	e := newTestEngine(t, llm, exec)
	sess := newSession()

	out := e.HandleTurn(context.Background(), sess, "Create a welcome page in course 5")
	if out.Kind != OutcomeProposed {
		t.Fatalf("kind = %s, want proposed", out.Kind)
	}
	if sess.Pending == nil || sess.Pending.Action != "create_page" {
		t.Fatalf("pending = %+v", sess.Pending)
	}
	if !strings.Contains(out.Reply, "I want to call 'create_page'") {
		t.Errorf("reply = %q", out.Reply)
	}
	if !strings.HasSuffix(out.Reply, "Do you want to proceed? (yes/no)") {
		t.Errorf("reply missing yes/no prompt: %q", out.Reply)
	}
	if len(exec.invocations) != 0 {
		t.Fatal("nothing may execute before confirmation")
	}

	out = e.HandleTurn(context.Background(), sess, "yes")
	if out.Kind != OutcomeExecuted {
		t.Fatalf("kind = %s, want executed", out.Kind)
	}
	if len(exec.invocations) != 1 {
		t.Fatalf("invocations = %d, want exactly 1", len(exec.invocations))
	}
	if exec.invocations[0].action != "create_page" {
		t.Errorf("action = %q", exec.invocations[0].action)
	}
	if sess.Pending != nil {
		t.Error("pending not cleared after execution")
	}
	if !strings.Contains(out.Reply, "✅ Operation completed successfully!") {
		t.Errorf("reply = %q", out.Reply)
	}
}

func TestConfirmTokensCaseInsensitive(t *testing.T) {
	for _, token := range []string{"Yes", "Y", "CONFIRM", "ok", " yes "} {
		llm := &fakeProvider{reply: pageCallReply}
		exec := &fakeExecutor{result: nil}
		e := newTestEngine(t, llm, exec)
		sess := newSession()

		e.HandleTurn(context.Background(), sess, "make a page")
		e.HandleTurn(context.Background(), sess, token)
		if len(exec.invocations) != 1 {
			t.Errorf("token %q: invocations = %d, want 1", token, len(exec.invocations))
		}
	}
}

func TestReject(t *testing.T) {
	llm := &fakeProvider{reply: pageCallReply}
	exec := &fakeExecutor{}
	e := newTestEngine(t, llm, exec)
	sess := newSession()

	e.HandleTurn(context.Background(), sess, "make a page")
	out := e.HandleTurn(context.Background(), sess, "no")

	if out.Reply != "✅ Operation cancelled. No changes were made." {
		t.Errorf("reply = %q", out.Reply)
	}
	if sess.Pending != nil {
		t.Error("pending not discarded on reject")
	}
	if len(exec.invocations) != 0 {
		t.Error("rejected action must not execute")
	}
}

func TestAmbiguousConfirmationKeepsPending(t *testing.T) {
	llm := &fakeProvider{reply: pageCallReply}
	exec := &fakeExecutor{}
	e := newTestEngine(t, llm, exec)
	sess := newSession()

	e.HandleTurn(context.Background(), sess, "make a page")
	historyBefore := len(sess.Messages)

	out := e.HandleTurn(context.Background(), sess, "maybe")
	if out.Reply != "Please respond with 'yes' or 'no' to the confirmation request." {
		t.Errorf("reply = %q", out.Reply)
	}
	if sess.Pending == nil {
		t.Fatal("pending must survive an ambiguous turn")
	}
	if len(exec.invocations) != 0 {
		t.Error("ambiguous turn must not execute")
	}
	// The ambiguous operator turn is still recorded in history.
	if len(sess.Messages) != historyBefore+1 {
		t.Errorf("history grew by %d, want 1", len(sess.Messages)-historyBefore)
	}
	last := sess.Messages[len(sess.Messages)-1]
	if last.Role != provider.RoleUser || last.Content != "maybe" {
		t.Errorf("last message = %+v", last)
	}

	// A later yes still executes the original action.
	e.HandleTurn(context.Background(), sess, "yes")
	if len(exec.invocations) != 1 {
		t.Errorf("invocations = %d after late confirm", len(exec.invocations))
	}
}

func TestConfirmedFailureClearsPending(t *testing.T) {
	llm := &fakeProvider{reply: pageCallReply}
	exec := &fakeExecutor{err: errors.New("canvas: 502 bad gateway")}
	e := newTestEngine(t, llm, exec)
	sess := newSession()

	e.HandleTurn(context.Background(), sess, "make a page")
	out := e.HandleTurn(context.Background(), sess, "yes")

	if out.Kind != OutcomeFailed {
		t.Errorf("kind = %s, want failed", out.Kind)
	}
	if !strings.HasPrefix(out.Reply, "❌ Error:") {
		t.Errorf("reply = %q", out.Reply)
	}
	if sess.Pending != nil {
		t.Error("a failed confirmed action must still clear pending")
	}

	// The failure is scoped to the turn; the next yes-less turn is normal.
	llm.reply = "Happy to help."
	out = e.HandleTurn(context.Background(), sess, "thanks")
	if out.Kind != OutcomeReply {
		t.Errorf("kind = %s, want reply", out.Kind)
	}
}

func TestUnknownConfirmedAction(t *testing.T) {
	llm := &fakeProvider{reply: `{"tool": "launch_rocket", "parameters": {"course_id": 1}}`}
	exec := &fakeExecutor{}
	e := newTestEngine(t, llm, exec)
	sess := newSession()

	e.HandleTurn(context.Background(), sess, "do the thing with my course")
	out := e.HandleTurn(context.Background(), sess, "yes")

	if !strings.Contains(out.Reply, "❌ Invalid tool 'launch_rocket'") {
		t.Errorf("reply = %q", out.Reply)
	}
	if !strings.Contains(out.Reply, "Available tools:") {
		t.Errorf("reply = %q", out.Reply)
	}
	if len(exec.invocations) != 0 {
		t.Error("unknown action must not reach the executor")
	}
	if sess.Pending != nil {
		t.Error("pending not cleared")
	}
}

func TestPlaceholderBlocksExecution(t *testing.T) {
	llm := &fakeProvider{reply: `{"tool": "create_page", "parameters": {"course_id": "<YOUR_COURSE_ID>", "title": "t", "body": "b"}}`}
	exec := &fakeExecutor{}
	e := newTestEngine(t, llm, exec)
	sess := newSession()

	e.HandleTurn(context.Background(), sess, "make a page")
	out := e.HandleTurn(context.Background(), sess, "yes")

	if out.Kind != OutcomeFailed {
		t.Errorf("kind = %s, want failed", out.Kind)
	}
	if len(exec.invocations) != 0 {
		t.Error("placeholder arguments must never reach the executor")
	}
}

func TestUpdateCourseEventValidation(t *testing.T) {
	llm := &fakeProvider{reply: `{"tool": "update_course", "parameters": {"course_id": 1, "event": "explode"}}`}
	exec := &fakeExecutor{}
	e := newTestEngine(t, llm, exec)
	sess := newSession()

	e.HandleTurn(context.Background(), sess, "update my course")
	out := e.HandleTurn(context.Background(), sess, "yes")

	if !strings.Contains(out.Reply, "❌ Invalid event 'explode' for update_course") {
		t.Errorf("reply = %q", out.Reply)
	}
	if !strings.Contains(out.Reply, "offer, claim, conclude, delete, undelete") {
		t.Errorf("reply = %q", out.Reply)
	}
	if len(exec.invocations) != 0 {
		t.Error("invalid event must not reach the executor")
	}
}

func TestCourseContextInjectedOnConfirm(t *testing.T) {
	llm := &fakeProvider{reply: `{"tool": "list_pages", "parameters": {}}`}
	exec := &fakeExecutor{result: []any{}}
	e := newTestEngine(t, llm, exec)
	sess := newSession()
	sess.CurrentCourse = 42

	e.HandleTurn(context.Background(), sess, "show pages")
	e.HandleTurn(context.Background(), sess, "yes")

	if len(exec.invocations) != 1 {
		t.Fatalf("invocations = %d", len(exec.invocations))
	}
	if exec.invocations[0].args["course_id"] != 42 {
		t.Errorf("course_id = %v, want injected 42", exec.invocations[0].args["course_id"])
	}
}

func TestPlainReply(t *testing.T) {
	llm := &fakeProvider{reply: "A module groups related pages and assignments."}
	exec := &fakeExecutor{}
	e := newTestEngine(t, llm, exec)
	sess := newSession()

	out := e.HandleTurn(context.Background(), sess, "what is a module?")
	if out.Kind != OutcomeReply {
		t.Errorf("kind = %s", out.Kind)
	}
	if out.Reply != "A module groups related pages and assignments." {
		t.Errorf("reply = %q", out.Reply)
	}
	if len(sess.Messages) != 2 {
		t.Errorf("history = %d messages, want user+assistant", len(sess.Messages))
	}
}

func TestHallucinationWarning(t *testing.T) {
	llm := &fakeProvider{reply: "The page has been created successfully."}
	exec := &fakeExecutor{}
	e := newTestEngine(t, llm, exec)
	sess := newSession()

	out := e.HandleTurn(context.Background(), sess, "create a page called Welcome")
	if !strings.Contains(out.Reply, "⚠️ Note: No Canvas action was executed") {
		t.Errorf("warning missing: %q", out.Reply)
	}
}

func TestHallucinationWarningNeedsTopic(t *testing.T) {
	llm := &fakeProvider{reply: "It has been a pleasure."}
	exec := &fakeExecutor{}
	e := newTestEngine(t, llm, exec)
	sess := newSession()

	out := e.HandleTurn(context.Background(), sess, "thanks, goodbye")
	if strings.Contains(out.Reply, "⚠️") {
		t.Errorf("warning should need an action topic in the operator message: %q", out.Reply)
	}
}

func TestListCoursesFallback(t *testing.T) {
	// Model invents a course list as prose; the fallback must bypass it.
	llm := &fakeProvider{reply: "Here are your courses: Biology 101, Chemistry 202."}
	exec := &fakeExecutor{result: []any{
		map[string]any{"name": "Intro to Go", "id": float64(7)},
	}}
	e := newTestEngine(t, llm, exec)
	sess := newSession()

	out := e.HandleTurn(context.Background(), sess, "list my courses")
	if out.Kind != OutcomeExecuted {
		t.Errorf("kind = %s, want executed", out.Kind)
	}
	if len(exec.invocations) != 1 {
		t.Fatalf("invocations = %d", len(exec.invocations))
	}
	inv := exec.invocations[0]
	if inv.action != "list_courses" {
		t.Errorf("action = %q", inv.action)
	}
	if inv.args["enrollment_type"] != "teacher" || inv.args["enrollment_state"] != "active" {
		t.Errorf("args = %v", inv.args)
	}
	if !strings.Contains(out.Reply, "✅ Courses:") {
		t.Errorf("reply = %q", out.Reply)
	}
	if !strings.Contains(out.Reply, "- Intro to Go (ID: 7)") {
		t.Errorf("reply = %q", out.Reply)
	}
	if strings.Contains(out.Reply, "Biology") {
		t.Errorf("fabricated list leaked into reply: %q", out.Reply)
	}
}

func TestListCoursesFallbackEmpty(t *testing.T) {
	llm := &fakeProvider{reply: "some prose"}
	exec := &fakeExecutor{result: []any{}}
	e := newTestEngine(t, llm, exec)

	out := e.HandleTurn(context.Background(), newSession(), "list courses please")
	if !strings.Contains(out.Reply, "No courses found for your teacher enrollments") {
		t.Errorf("reply = %q", out.Reply)
	}
}

func TestListCoursesFallbackError(t *testing.T) {
	llm := &fakeProvider{reply: "some prose"}
	exec := &fakeExecutor{err: errors.New("canvas: 401 unauthorized")}
	e := newTestEngine(t, llm, exec)

	out := e.HandleTurn(context.Background(), newSession(), "list my courses")
	if !strings.HasPrefix(out.Reply, "❌ Error listing courses:") {
		t.Errorf("reply = %q", out.Reply)
	}
}

func TestFallbackSkippedWhenCallProposed(t *testing.T) {
	llm := &fakeProvider{reply: `{"tool": "list_courses", "parameters": {"enrollment_type": "teacher"}}`}
	exec := &fakeExecutor{}
	e := newTestEngine(t, llm, exec)

	out := e.HandleTurn(context.Background(), newSession(), "list my courses")
	if out.Kind != OutcomeProposed {
		t.Errorf("kind = %s, want proposed when the model emits a call", out.Kind)
	}
	if len(exec.invocations) != 0 {
		t.Error("fallback must not run when a call is pending")
	}
}

func TestProviderErrorBecomesReply(t *testing.T) {
	llm := &fakeProvider{err: errors.New("connection refused")}
	exec := &fakeExecutor{}
	e := newTestEngine(t, llm, exec)
	sess := newSession()

	out := e.HandleTurn(context.Background(), sess, "what is a quiz?")
	if out.Kind != OutcomeReply {
		t.Errorf("kind = %s, a provider failure must not abort the session", out.Kind)
	}
	if !strings.Contains(out.Reply, "Error communicating with the model") {
		t.Errorf("reply = %q", out.Reply)
	}
	if sess.Pending != nil {
		t.Error("pending must never be set on a failed provider call")
	}
}

func TestHistoryWindowSentToProvider(t *testing.T) {
	llm := &fakeProvider{reply: "ok"}
	exec := &fakeExecutor{}
	e := newTestEngine(t, llm, exec)
	sess := newSession()

	for i := 0; i < 12; i++ {
		e.HandleTurn(context.Background(), sess, "ping")
	}

	// system prompt + bounded window of 10.
	if len(llm.lastReq.Messages) != 11 {
		t.Errorf("provider saw %d messages, want 11", len(llm.lastReq.Messages))
	}
	if llm.lastReq.Messages[0].Role != provider.RoleSystem {
		t.Errorf("first message role = %q, want system", llm.lastReq.Messages[0].Role)
	}
	if !strings.Contains(llm.lastReq.Messages[0].Content, "AVAILABLE TOOLS") {
		t.Error("system prompt missing tool list")
	}
}

func TestRunDirect(t *testing.T) {
	llm := &fakeProvider{}
	exec := &fakeExecutor{result: []any{map[string]any{"name": "Go 101", "id": float64(1)}}}
	e := newTestEngine(t, llm, exec)

	result, err := e.RunDirect(context.Background(), "list_courses", Args{"enrollment_type": "teacher"})
	if err != nil {
		t.Fatal(err)
	}
	if result == nil {
		t.Fatal("nil result")
	}

	if _, err := e.RunDirect(context.Background(), "launch_rocket", nil); err == nil {
		t.Error("unknown action should fail")
	}

	if _, err := e.RunDirect(context.Background(), "create_page", Args{"course_id": 1, "title": "t", "body": "<COURSE_ID>"}); err == nil {
		t.Error("placeholder should fail")
	}
}
