// Package engine turns operator messages into Canvas actions. It extracts
// tool calls from model output, normalizes and validates their arguments
// and drives the propose/confirm/execute protocol so no mutating call
// happens without an explicit yes from the operator.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coursepilot/coursepilot/internal/catalog"
	"github.com/coursepilot/coursepilot/internal/metrics"
	"github.com/coursepilot/coursepilot/internal/provider"
	"github.com/coursepilot/coursepilot/internal/state"
)

// Executor invokes a named Canvas action with normalized arguments.
type Executor interface {
	Invoke(ctx context.Context, action string, args Args) (any, error)
}

// OutcomeKind tags what a turn produced.
type OutcomeKind string

const (
	OutcomeExecuted OutcomeKind = "executed" // an action ran, successfully or not rendered into Reply
	OutcomeProposed OutcomeKind = "proposed" // a tool call is pending confirmation
	OutcomeReply    OutcomeKind = "reply"    // plain conversational reply
	OutcomeFailed   OutcomeKind = "failed"   // an action or validation failed
)

// Outcome is the result of one handled operator turn. Reply is always set
// and is what the operator sees.
type Outcome struct {
	Kind     OutcomeKind
	Reply    string
	Proposed *state.PendingAction
}

const (
	defaultHistoryWindow = 10
	defaultTemperature   = 0.2
)

var (
	affirmTokens = map[string]bool{"yes": true, "y": true, "confirm": true, "ok": true}
	rejectTokens = map[string]bool{"no": true, "n": true, "cancel": true}

	actionPhrases = []string{"has been", "successfully", "created", "updated", "added", "deleted", "i have", "i will", "i've"}
	actionTopics  = []string{"course", "page", "module", "announcement"}

	validCourseEvents = []string{"offer", "claim", "conclude", "delete", "undelete"}
)

type Config struct {
	Provider    provider.Provider
	Catalog     *catalog.Catalog
	Executor    Executor
	Model       string
	Temperature *float64
	// HistoryWindow bounds how many messages are sent to the provider.
	// 0 means the default of 10.
	HistoryWindow int
	Log           *logrus.Logger
}

type Engine struct {
	llm         provider.Provider
	catalog     *catalog.Catalog
	exec        Executor
	model       string
	temperature float64
	window      int
	log         *logrus.Logger
}

func New(cfg Config) (*Engine, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("engine: provider is required")
	}
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("engine: catalog is required")
	}
	if cfg.Executor == nil {
		return nil, fmt.Errorf("engine: executor is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("engine: model is required")
	}
	temp := defaultTemperature
	if cfg.Temperature != nil {
		temp = *cfg.Temperature
	}
	window := cfg.HistoryWindow
	if window <= 0 {
		window = defaultHistoryWindow
	}
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		llm:         cfg.Provider,
		catalog:     cfg.Catalog,
		exec:        cfg.Executor,
		model:       cfg.Model,
		temperature: temp,
		window:      window,
		log:         log,
	}, nil
}

// HandleTurn processes one operator message against the session. It mutates
// only the session's history and pending action; every failure is scoped to
// the turn and rendered into the Reply.
func (e *Engine) HandleTurn(ctx context.Context, sess *state.Session, text string) Outcome {
	var out Outcome
	if sess.Pending != nil {
		out = e.handleConfirmation(ctx, sess, text)
	} else {
		out = e.handleMessage(ctx, sess, text)
	}
	metrics.TurnsTotal.WithLabelValues(string(out.Kind)).Inc()
	return out
}

// handleConfirmation classifies the operator's reply to a pending action as
// affirm, reject or ambiguous. Ambiguous turns keep the action pending but
// are still recorded in history.
func (e *Engine) handleConfirmation(ctx context.Context, sess *state.Session, text string) Outcome {
	token := strings.ToLower(strings.TrimSpace(text))

	switch {
	case affirmTokens[token]:
		sess.Append(provider.Message{Role: provider.RoleUser, Content: text})
		pending := sess.Pending
		sess.Pending = nil // cleared regardless of execution outcome
		reply, failed := e.executeConfirmed(ctx, sess, pending)
		sess.Append(provider.Message{Role: provider.RoleAssistant, Content: reply})
		kind := OutcomeExecuted
		if failed {
			kind = OutcomeFailed
		}
		return Outcome{Kind: kind, Reply: reply}

	case rejectTokens[token]:
		sess.Append(provider.Message{Role: provider.RoleUser, Content: text})
		sess.Pending = nil
		reply := "✅ Operation cancelled. No changes were made."
		sess.Append(provider.Message{Role: provider.RoleAssistant, Content: reply})
		return Outcome{Kind: OutcomeReply, Reply: reply}

	default:
		sess.Append(provider.Message{Role: provider.RoleUser, Content: text})
		return Outcome{
			Kind:     OutcomeReply,
			Reply:    "Please respond with 'yes' or 'no' to the confirmation request.",
			Proposed: sess.Pending,
		}
	}
}

// handleMessage is the idle-state path: call the model, scan the reply for
// a tool call, and fall through the hallucination and list-courses checks
// when none is found.
func (e *Engine) handleMessage(ctx context.Context, sess *state.Session, text string) Outcome {
	sess.Append(provider.Message{Role: provider.RoleUser, Content: text})

	reply := e.complete(ctx, sess)

	if call, ok := ExtractToolCall(reply); ok {
		sess.Pending = call
		proposal := e.renderProposal(call)
		sess.Append(provider.Message{Role: provider.RoleAssistant, Content: proposal})
		e.log.WithFields(logrus.Fields{"session": sess.ID, "action": call.Action}).Info("tool call proposed")
		return Outcome{Kind: OutcomeProposed, Reply: proposal, Proposed: call}
	}

	lowerText := strings.ToLower(text)

	if containsAny(strings.ToLower(reply), actionPhrases) && containsAny(lowerText, actionTopics) {
		e.log.WithField("session", sess.ID).Warn("model claimed an action without a tool call")
		reply += "\n\n⚠️ Note: No Canvas action was executed because no tool call was issued. Please provide a clear request so I can call the correct tool."
	}

	kind := OutcomeReply
	if strings.Contains(lowerText, "list") && strings.Contains(lowerText, "course") {
		reply = e.listCoursesFallback(ctx)
		kind = OutcomeExecuted
	}

	sess.Append(provider.Message{Role: provider.RoleAssistant, Content: reply})
	return Outcome{Kind: kind, Reply: reply}
}

// complete calls the provider over the bounded history window. A transport
// failure becomes ordinary reply text; it contains no JSON tool call, so it
// flows through the downstream checks harmlessly.
func (e *Engine) complete(ctx context.Context, sess *state.Session) string {
	messages := make([]provider.Message, 0, e.window+1)
	messages = append(messages, provider.Message{Role: provider.RoleSystem, Content: SystemPrompt(e.catalog)})
	messages = append(messages, sess.Window(e.window)...)

	temp := e.temperature
	start := time.Now()
	resp, err := e.llm.Complete(ctx, &provider.CompletionRequest{
		Model:       e.model,
		Messages:    messages,
		Temperature: &temp,
	})
	metrics.ProviderLatency.WithLabelValues(e.llm.ID()).Observe(time.Since(start).Seconds())
	if err != nil {
		e.log.WithError(err).Error("completion failed")
		return fmt.Sprintf("Error communicating with the model: %v\n\nCheck the provider API key and base URL.", err)
	}
	return resp.Content
}

func (e *Engine) renderProposal(call *state.PendingAction) string {
	params, err := json.MarshalIndent(call.Arguments, "", "  ")
	if err != nil {
		params = []byte("{}")
	}
	return fmt.Sprintf("I want to call '%s' with these parameters:\n\n%s\n\nDo you want to proceed? (yes/no)", call.Action, params)
}

// executeConfirmed runs a confirmed action through normalize, the
// placeholder guard and the executor. The returned bool reports failure.
func (e *Engine) executeConfirmed(ctx context.Context, sess *state.Session, pending *state.PendingAction) (string, bool) {
	action, ok := e.catalog.Get(pending.Action)
	if !ok {
		names := e.catalog.Names()
		if len(names) > 10 {
			names = names[:10]
		}
		metrics.ActionsTotal.WithLabelValues(pending.Action, "unknown").Inc()
		return fmt.Sprintf("❌ Invalid tool '%s'. Available tools: %s...", pending.Action, strings.Join(names, ", ")), true
	}

	defaults := Args{}
	if sess.CurrentCourse != 0 {
		defaults["course_id"] = sess.CurrentCourse
	}
	args, dropped := Normalize(action, pending.Arguments, DefaultAliases, defaults)
	if len(dropped) > 0 {
		e.log.WithFields(logrus.Fields{"action": action.Name, "dropped": dropped}).Info("filtered undeclared arguments")
	}

	if err := CheckPlaceholders(args); err != nil {
		metrics.ActionsTotal.WithLabelValues(action.Name, "invalid").Inc()
		return fmt.Sprintf("❌ Error: %v", err), true
	}

	if action.Name == "update_course" {
		if ev, ok := args["event"].(string); ok && !validEvent(ev) {
			metrics.ActionsTotal.WithLabelValues(action.Name, "invalid").Inc()
			return fmt.Sprintf("❌ Invalid event '%s' for update_course. Valid events: %s", ev, strings.Join(validCourseEvents, ", ")), true
		}
	}

	result, err := e.exec.Invoke(ctx, action.Name, args)
	if err != nil {
		metrics.ActionsTotal.WithLabelValues(action.Name, "error").Inc()
		e.log.WithError(err).WithField("action", action.Name).Error("action failed")
		return fmt.Sprintf("❌ Error: %v", err), true
	}
	metrics.ActionsTotal.WithLabelValues(action.Name, "ok").Inc()
	return renderExecution(result), false
}

// listCoursesFallback bypasses the model's textual answer and asks Canvas
// directly, so a fabricated course list can never reach the operator.
func (e *Engine) listCoursesFallback(ctx context.Context) string {
	result, err := e.exec.Invoke(ctx, "list_courses", Args{
		"enrollment_type":  "teacher",
		"enrollment_state": "active",
	})
	if err != nil {
		metrics.ActionsTotal.WithLabelValues("list_courses", "error").Inc()
		return fmt.Sprintf("❌ Error listing courses: %v", err)
	}
	metrics.ActionsTotal.WithLabelValues("list_courses", "ok").Inc()
	items, _ := result.([]any)
	return renderCourses(items)
}

// RunDirect invokes an action outside any conversation, for scheduled jobs.
// Arguments still pass through normalization and the placeholder guard.
func (e *Engine) RunDirect(ctx context.Context, name string, raw Args) (any, error) {
	action, ok := e.catalog.Get(name)
	if !ok {
		return nil, &UnknownActionError{Action: name, Available: e.catalog.Names()}
	}
	args, _ := Normalize(action, raw, DefaultAliases, nil)
	if err := CheckPlaceholders(args); err != nil {
		return nil, err
	}
	return e.exec.Invoke(ctx, action.Name, args)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func validEvent(ev string) bool {
	for _, v := range validCourseEvents {
		if ev == v {
			return true
		}
	}
	return false
}
