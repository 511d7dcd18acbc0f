package state

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const DefaultMaxMemory = 5

var (
	ErrInvalidRole      = errors.New("invalid message role")
	ErrNilConversation  = errors.New("conversation is nil")
	ErrMissingSystemMsg = errors.New("conversation must start with exactly one system message")
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is the message log that drives model context for one session.
// Messages[0] is the system message; it is never evicted. The remaining
// user/assistant turns are trimmed to the most recent 2*MaxMemory entries.
type Conversation struct {
	SessionID string    `json:"session_id"`
	MaxMemory int       `json:"max_memory"`
	Messages  []Message `json:"messages"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewConversation(sessionID, systemPrompt string, maxMemory int, now time.Time) *Conversation {
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}
	return &Conversation{
		SessionID: sessionID,
		MaxMemory: maxMemory,
		Messages:  []Message{{Role: RoleSystem, Content: systemPrompt}},
		UpdatedAt: now.UTC(),
	}
}

// Append adds a user or assistant message. System messages cannot be appended.
func (c *Conversation) Append(role Role, content string) error {
	if c == nil {
		return ErrNilConversation
	}
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	c.Messages = append(c.Messages, Message{Role: role, Content: content})
	return nil
}

func (c *Conversation) Window() int {
	if c == nil || c.MaxMemory <= 0 {
		return 2 * DefaultMaxMemory
	}
	return 2 * c.MaxMemory
}

// Trim applies the retention policy: system messages first, then the trailing
// window of user/assistant turns.
func (c *Conversation) Trim() {
	if c == nil {
		return
	}
	var system, turns []Message
	for _, m := range c.Messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m)
		case RoleUser, RoleAssistant:
			turns = append(turns, m)
		}
	}
	if limit := c.Window(); len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	c.Messages = append(system, turns...)
}

// History returns a copy of the messages.
func (c *Conversation) History() []Message {
	if c == nil {
		return nil
	}
	return append([]Message(nil), c.Messages...)
}

func (c *Conversation) LastAssistant() (Message, bool) {
	if c == nil {
		return Message{}, false
	}
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	out := *c
	out.Messages = c.History()
	return &out
}

func (c *Conversation) Touch(now time.Time) {
	if c != nil {
		c.UpdatedAt = now.UTC()
	}
}

func (c *Conversation) Validate() error {
	if c == nil {
		return ErrNilConversation
	}
	if strings.TrimSpace(c.SessionID) == "" {
		return ErrInvalidSession
	}
	if len(c.Messages) == 0 || c.Messages[0].Role != RoleSystem {
		return ErrMissingSystemMsg
	}
	for i, m := range c.Messages[1:] {
		switch m.Role {
		case RoleSystem:
			return fmt.Errorf("%w: extra system message at index %d", ErrMissingSystemMsg, i+1)
		case RoleUser, RoleAssistant:
		default:
			return fmt.Errorf("%w: %q at index %d", ErrInvalidRole, m.Role, i+1)
		}
	}
	if turns := len(c.Messages) - 1; turns > c.Window() {
		return fmt.Errorf("conversation holds %d turns, window is %d", turns, c.Window())
	}
	return nil
}
