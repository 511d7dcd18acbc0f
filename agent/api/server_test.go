package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
	statex "github.com/tanpawarit/Chative-Reservation-Agent/agent/state"
)

type fakeAgent struct {
	err       error
	sessionID string
	text      string
	resetID   string
	// block waits for the turn context to end and returns its error.
	block bool
}

func (f *fakeAgent) HandleMessage(ctx context.Context, sessionID string, text string) (contractx.TurnResult, error) {
	f.sessionID, f.text = sessionID, text
	if f.block {
		<-ctx.Done()
		return contractx.TurnResult{}, fmt.Errorf("%w: %w", contractx.ErrTimeout, ctx.Err())
	}
	if f.err != nil {
		return contractx.TurnResult{}, f.err
	}
	return contractx.TurnResult{
		SessionID: sessionID,
		Reply:     "You're booked!",
		Context: []statex.Message{
			{Role: statex.RoleSystem, Content: "persona"},
			{Role: statex.RoleUser, Content: text},
			{Role: statex.RoleAssistant, Content: "You're booked!"},
		},
		Reasoning: []contractx.ToolTrace{{Tool: "make_reservation", Result: "{}", Summary: "You're booked!"}},
	}, nil
}

func (f *fakeAgent) ListTools(ctx context.Context) ([]contractx.ToolDescriptor, error) {
	return []contractx.ToolDescriptor{{Name: "check_availability", Description: "d", InputSchema: json.RawMessage(`{"type":"object"}`)}}, nil
}

func (f *fakeAgent) Reset(ctx context.Context, sessionID string) error {
	f.resetID = sessionID
	return nil
}

func newTestServer(agent Agent) http.Handler {
	return (&Server{Agent: agent, Logger: zerolog.Nop()}).Routes()
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newTestServer(&fakeAgent{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestChatCompletion(t *testing.T) {
	t.Parallel()

	agent := &fakeAgent{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat-completions", strings.NewReader(`{"text":"book a table","session_id":"abc"}`))
	newTestServer(agent).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Responses string            `json:"responses"`
		Context   []statex.Message  `json:"context"`
		Reasoning []json.RawMessage `json:"reasoning"`
		SessionID string            `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "You're booked!", body.Responses)
	require.Equal(t, "abc", body.SessionID)
	require.Len(t, body.Context, 3)
	require.Len(t, body.Reasoning, 1)
	require.Equal(t, "book a table", agent.text)
}

func TestChatCompletionMintsSessionID(t *testing.T) {
	t.Parallel()

	agent := &fakeAgent{}
	rec := httptest.NewRecorder()
	newTestServer(agent).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat-completions", strings.NewReader(`{"text":"hi"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	_, err := uuid.Parse(agent.sessionID)
	require.NoError(t, err)
}

func TestChatCompletionErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		body   string
		err    error
		status int
		detail string
	}{
		{"malformed json", `{"text":`, nil, http.StatusBadRequest, "Invalid request body"},
		{"empty text", `{"text":"  "}`, nil, http.StatusBadRequest, "Field 'text' is required."},
		{"turn failure", `{"text":"hi"}`, errors.New("model invoke failed: 502"), http.StatusInternalServerError, "Error processing query: model invoke failed: 502"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestServer(&fakeAgent{err: tc.err}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat-completions", strings.NewReader(tc.body)))
			require.Equal(t, tc.status, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Contains(t, body.Detail, tc.detail)
		})
	}
}

func TestToolsAndReset(t *testing.T) {
	t.Parallel()

	agent := &fakeAgent{}
	h := newTestServer(agent)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tools", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"name":"check_availability"`)
	require.Contains(t, rec.Body.String(), `"inputSchema":{"type":"object"}`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/sessions/abc", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "abc", agent.resetID)
}

func TestCORS(t *testing.T) {
	t.Parallel()

	h := newTestServer(&fakeAgent{})

	req := httptest.NewRequest(http.MethodOptions, "/v1/chat-completions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	require.Equal(t, "content-type", rec.Header().Get("Access-Control-Allow-Headers"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestChatTurnDeadline(t *testing.T) {
	t.Parallel()

	agent := &fakeAgent{block: true}
	h := (&Server{Agent: agent, Logger: zerolog.Nop(), TurnTimeout: 20 * time.Millisecond}).Routes()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat-completions", strings.NewReader(`{"text":"table for 12 please","session_id":"slow"}`))
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Error processing query")
	require.Contains(t, rec.Body.String(), "timed out")
}

func TestConfigTurnBudget(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		cfg  Config
		want time.Duration
	}{
		{"derived from write timeout", Config{WriteTimeout: 180 * time.Second}, 175 * time.Second},
		{"short write timeout keeps a tenth", Config{WriteTimeout: 10 * time.Second}, 9 * time.Second},
		{"explicit turn timeout below limit", Config{WriteTimeout: 180 * time.Second, TurnTimeout: 90 * time.Second}, 90 * time.Second},
		{"explicit turn timeout clamped", Config{WriteTimeout: 60 * time.Second, TurnTimeout: 120 * time.Second}, 55 * time.Second},
		{"no write timeout", Config{TurnTimeout: 30 * time.Second}, 30 * time.Second},
		{"unbounded", Config{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.cfg.TurnBudget())
		})
	}
}
