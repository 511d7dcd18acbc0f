package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func contents(msgs []Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Content)
	}
	return out
}

func TestConversationTrimKeepsSystemFirst(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 15, 10, 0, 0, 0, time.UTC)
	c := NewConversation("s1", "persona", 2, now)

	for i := 0; i < 9; i++ {
		require.NoError(t, c.Append(RoleUser, fmt.Sprintf("u%d", i)))
		require.NoError(t, c.Append(RoleAssistant, fmt.Sprintf("a%d", i)))
		c.Trim()

		require.NoError(t, c.Validate(), "turn %d", i)
		systems := 0
		for _, m := range c.Messages {
			if m.Role == RoleSystem {
				systems++
			}
		}
		require.Equal(t, 1, systems)
		require.Equal(t, RoleSystem, c.Messages[0].Role)
		require.LessOrEqual(t, len(c.Messages)-1, 4)
	}

	require.Equal(t, []string{"persona", "u7", "a7", "u8", "a8"}, contents(c.Messages))
}

func TestConversationDefaultWindow(t *testing.T) {
	t.Parallel()

	c := NewConversation("s1", "persona", 0, time.Now())
	require.Equal(t, DefaultMaxMemory, c.MaxMemory)
	require.Equal(t, 10, c.Window())
	for i := 0; i < 25; i++ {
		_ = c.Append(RoleUser, "x")
	}
	c.Trim()
	require.Len(t, c.Messages, 11)
}

func TestConversationAppendRejectsSystem(t *testing.T) {
	t.Parallel()

	c := NewConversation("s1", "persona", 5, time.Now())
	require.ErrorIs(t, c.Append(RoleSystem, "second persona"), ErrInvalidRole)
	require.ErrorIs(t, c.Append(Role("tool"), "x"), ErrInvalidRole)

	var nilConv *Conversation
	require.ErrorIs(t, nilConv.Append(RoleUser, "x"), ErrNilConversation)
}

func TestConversationCloneIsIndependent(t *testing.T) {
	t.Parallel()

	c := NewConversation("s1", "persona", 5, time.Now())
	_ = c.Append(RoleUser, "hi")

	clone := c.Clone()
	_ = clone.Append(RoleAssistant, "hello")
	clone.Messages[1].Content = "changed"

	require.Equal(t, []string{"persona", "hi"}, contents(c.Messages))
	last, ok := clone.LastAssistant()
	require.True(t, ok)
	require.Equal(t, "hello", last.Content)
	_, ok = c.LastAssistant()
	require.False(t, ok)
}

func TestConversationValidate(t *testing.T) {
	t.Parallel()

	c := NewConversation("s1", "persona", 1, time.Now())
	c.Messages = append(c.Messages, Message{Role: RoleSystem, Content: "again"})
	require.ErrorIs(t, c.Validate(), ErrMissingSystemMsg)

	c = NewConversation(" ", "persona", 1, time.Now())
	require.ErrorIs(t, c.Validate(), ErrInvalidSession)

	c = NewConversation("s1", "persona", 1, time.Now())
	_ = c.Append(RoleUser, "1")
	_ = c.Append(RoleAssistant, "2")
	_ = c.Append(RoleUser, "3")
	require.Error(t, c.Validate(), "window is exceeded before Trim")
	c.Trim()
	require.NoError(t, c.Validate())
}
