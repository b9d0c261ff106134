package state

import (
	"time"

	"github.com/coursepilot/coursepilot/internal/provider"
)

// PendingAction is a destructive tool call awaiting user confirmation.
// While set, the next user message is interpreted as a yes/no answer.
type PendingAction struct {
	Action    string         `json:"action"`
	Arguments map[string]any `json:"arguments"`
}

type Session struct {
	ID            string             `json:"id"`
	Messages      []provider.Message `json:"messages"`
	Pending       *PendingAction     `json:"pending,omitempty"`
	CurrentCourse int                `json:"current_course,omitempty"` // course context injected into tool calls
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Append adds a message to the transcript and bumps UpdatedAt.
func (s *Session) Append(msg provider.Message) {
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
}

// Window returns the last n messages, or all of them if fewer exist.
func (s *Session) Window(n int) []provider.Message {
	if n <= 0 || len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// Store persists sessions across turns. Implementations must be safe for
// concurrent use.
type Store interface {
	Create(id string) (*Session, error)
	Get(id string) (*Session, error)
	Save(sess *Session) error
	Delete(id string) error
	List() ([]string, error)
}
