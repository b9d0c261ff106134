// Package gateway serves the chat surface: a WebSocket endpoint speaking
// JSON frames, health and metrics endpoints, and a read-only HTML
// transcript view over the session store.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/coursepilot/coursepilot/internal/engine"
	"github.com/coursepilot/coursepilot/internal/state"
)

const (
	turnTimeout   = 2 * time.Minute
	maxFrameBytes = 64 << 10
)

// TurnHandler processes one operator message against a session.
// *engine.Engine is the production implementation.
type TurnHandler interface {
	HandleTurn(ctx context.Context, sess *state.Session, text string) engine.Outcome
}

// Preparer runs before the engine sees an operator message. When forward
// is false the returned text is sent straight back as the reply and the
// engine is skipped for that turn.
type Preparer func(text string) (out string, forward bool, err error)

type Config struct {
	Engine   TurnHandler
	Store    state.Store
	Preparer Preparer // optional
	Log      *logrus.Logger
}

type Server struct {
	engine   TurnHandler
	store    state.Store
	preparer Preparer
	log      *logrus.Logger
	mux      *http.ServeMux
	http     *http.Server
}

func New(cfg Config) (*Server, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("gateway: engine is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("gateway: session store is required")
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	s := &Server{
		engine:   cfg.Engine,
		store:    cfg.Store,
		preparer: cfg.Preparer,
		log:      cfg.Log,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /chat", s.handleChat)
	mux.HandleFunc("GET /sessions", s.handleSessionIndex)
	mux.HandleFunc("GET /sessions/{id}", s.handleTranscript)
	s.mux = mux
	return s, nil
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.WithField("addr", addr).Info("gateway listening")
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

// ChatRequest is one inbound frame. Text is an operator message. Course,
// when nonzero, selects the course context injected into tool calls; a
// frame may set the course, carry a message, or both.
type ChatRequest struct {
	Text   string `json:"text,omitempty"`
	Course int    `json:"course,omitempty"`
}

// ChatResponse is one outbound frame. The first frame after accept has
// Kind "session" and carries only the session id.
type ChatResponse struct {
	SessionID string               `json:"session_id"`
	Kind      string               `json:"kind"`
	Reply     string               `json:"reply,omitempty"`
	Proposed  *state.PendingAction `json:"proposed,omitempty"`
}

// handleChat runs one conversation per connection. Frames are handled
// strictly in order; a turn finishes before the next frame is read.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket accept failed")
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxFrameBytes)

	id := uuid.NewString()
	if _, err := s.store.Create(id); err != nil {
		s.log.WithError(err).Error("session create failed")
		conn.Close(websocket.StatusInternalError, "session create failed")
		return
	}
	log := s.log.WithField("session", id)
	log.Info("chat session opened")

	ctx := r.Context()
	if err := wsjson.Write(ctx, conn, ChatResponse{SessionID: id, Kind: "session"}); err != nil {
		return
	}

	for {
		var req ChatRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				log.Info("chat session closed")
			} else {
				log.WithError(err).Info("chat session dropped")
			}
			return
		}
		if err := wsjson.Write(ctx, conn, s.turn(ctx, id, req)); err != nil {
			log.WithError(err).Warn("write reply failed")
			return
		}
	}
}

func (s *Server) turn(ctx context.Context, id string, req ChatRequest) ChatResponse {
	sess, err := s.store.Get(id)
	if err != nil {
		return ChatResponse{
			SessionID: id,
			Kind:      string(engine.OutcomeFailed),
			Reply:     fmt.Sprintf("❌ Error: %v", err),
		}
	}

	if req.Course != 0 && req.Course != sess.CurrentCourse {
		sess.CurrentCourse = req.Course
		if err := s.store.Save(sess); err != nil {
			s.log.WithError(err).WithField("session", id).Error("session save failed")
		}
	}
	text := req.Text
	if text == "" && req.Course != 0 {
		return ChatResponse{
			SessionID: id,
			Kind:      string(engine.OutcomeReply),
			Reply:     fmt.Sprintf("✅ Course context set to %d.", req.Course),
		}
	}

	if s.preparer != nil {
		out, forward, err := s.preparer(text)
		if err != nil {
			// Policy scripts fail closed.
			s.log.WithError(err).WithField("session", id).Error("preparer failed")
			return ChatResponse{
				SessionID: id,
				Kind:      string(engine.OutcomeFailed),
				Reply:     fmt.Sprintf("❌ Error: %v", err),
			}
		}
		if !forward {
			return ChatResponse{SessionID: id, Kind: string(engine.OutcomeReply), Reply: out}
		}
		text = out
	}

	tctx, cancel := context.WithTimeout(ctx, turnTimeout)
	defer cancel()
	outcome := s.engine.HandleTurn(tctx, sess, text)

	if err := s.store.Save(sess); err != nil {
		s.log.WithError(err).WithField("session", id).Error("session save failed")
	}
	return ChatResponse{
		SessionID: id,
		Kind:      string(outcome.Kind),
		Reply:     outcome.Reply,
		Proposed:  outcome.Proposed,
	}
}
