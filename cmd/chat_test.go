package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
)

type fakeChatAgent struct {
	sessions []string
	texts    []string
	resets   int
	fail     bool
}

func (f *fakeChatAgent) HandleMessage(_ context.Context, sessionID string, text string) (contractx.TurnResult, error) {
	f.sessions = append(f.sessions, sessionID)
	f.texts = append(f.texts, text)
	if f.fail {
		return contractx.TurnResult{}, errors.New("upstream down")
	}
	return contractx.TurnResult{
		SessionID: sessionID,
		Reply:     "echo: " + text,
		Reasoning: []contractx.ToolTrace{{Tool: "check_availability", Result: `{"available":true}`}},
	}, nil
}

func (f *fakeChatAgent) Reset(context.Context, string) error {
	f.resets++
	return nil
}

func init() {
	color.NoColor = true
}

func TestRunChat_RepliesAndKeepsSession(t *testing.T) {
	agent := &fakeChatAgent{}
	in := strings.NewReader("hello\n\n  table for two  \n/exit\nignored\n")
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), agent, in, &out, false))

	require.Equal(t, []string{"hello", "table for two"}, agent.texts)
	require.Equal(t, agent.sessions[0], agent.sessions[1])
	require.Contains(t, out.String(), "assistant> echo: hello")
	require.NotContains(t, out.String(), "check_availability")
}

func TestRunChat_ResetStartsNewSession(t *testing.T) {
	agent := &fakeChatAgent{}
	in := strings.NewReader("one\n/reset\ntwo\n")
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), agent, in, &out, true))

	require.Equal(t, 1, agent.resets)
	require.Len(t, agent.sessions, 2)
	require.NotEqual(t, agent.sessions[0], agent.sessions[1])
	require.Contains(t, out.String(), "[check_availability]")
}

func TestRunChat_ErrorsDoNotEndSession(t *testing.T) {
	agent := &fakeChatAgent{fail: true}
	in := strings.NewReader("a\nb\n")
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), agent, in, &out, false))

	require.Len(t, agent.texts, 2)
	require.Equal(t, 2, strings.Count(out.String(), "Error processing query: upstream down"))
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := NewRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	require.Subset(t, names, []string{"serve", "chat", "migrate", "tools", "ping", "version"})
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newVersionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "reservation-agent "+Version)
}
