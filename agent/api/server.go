// Package api serves the chat agent over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Reservation-Agent/agent/contract"
	statex "github.com/tanpawarit/Chative-Reservation-Agent/agent/state"
)

const maxBodyBytes = 1 << 20

type Config struct {
	ListenAddr      string        `envconfig:"LISTEN_ADDR" split_words:"true" default:":8000"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" split_words:"true" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" split_words:"true" default:"180s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"10s"`
	// TurnTimeout bounds one chat turn. Zero derives it from WriteTimeout.
	TurnTimeout time.Duration `envconfig:"TURN_TIMEOUT" split_words:"true"`
}

// turnMargin is kept between the turn deadline and the write deadline so an
// aborted turn can still write its error response.
const turnMargin = 5 * time.Second

// TurnBudget returns the deadline applied to each chat turn. It never exceeds
// WriteTimeout minus a margin; zero means unbounded.
func (c Config) TurnBudget() time.Duration {
	limit := time.Duration(0)
	if c.WriteTimeout > 0 {
		limit = c.WriteTimeout - min(turnMargin, c.WriteTimeout/10)
	}
	switch {
	case c.TurnTimeout > 0 && (limit == 0 || c.TurnTimeout < limit):
		return c.TurnTimeout
	default:
		return limit
	}
}

// Agent is the conversational backend the server exposes.
type Agent interface {
	HandleMessage(ctx context.Context, sessionID string, text string) (contractx.TurnResult, error)
	ListTools(ctx context.Context) ([]contractx.ToolDescriptor, error)
	Reset(ctx context.Context, sessionID string) error
}

type Server struct {
	Agent  Agent
	Logger zerolog.Logger
	// TurnTimeout, when positive, is the deadline of each chat turn.
	TurnTimeout time.Duration
}

type chatRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Responses string                `json:"responses"`
	Context   []statex.Message      `json:"context"`
	Reasoning []contractx.ToolTrace `json:"reasoning"`
	SessionID string                `json:"session_id"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("POST /v1/chat-completions", s.handleChat)
	mux.HandleFunc("GET /v1/tools", s.handleTools)
	mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleReset)

	var h http.Handler = withCORS(mux)
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	h = hlog.NewHandler(s.Logger)(h)
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Field 'text' is required."})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx := r.Context()
	if s.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.TurnTimeout)
		defer cancel()
	}

	out, err := s.Agent.HandleMessage(ctx, sessionID, req.Text)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("session_id", sessionID).Msg("chat turn failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: fmt.Sprintf("Error processing query: %v", err)})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Responses: out.Reply,
		Context:   out.Context,
		Reasoning: out.Reasoning,
		SessionID: out.SessionID,
	})
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	tools, err := s.Agent.ListTools(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: fmt.Sprintf("Error listing tools: %v", err)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": tools})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	err := s.Agent.Reset(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, statex.ErrInvalidSession):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Session id is required."})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: fmt.Sprintf("Error resetting session: %v", err)})
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// withCORS allows any origin, method and header, with credentials.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		if origin := r.Header.Get("Origin"); origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		} else {
			h.Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
				h.Set("Access-Control-Allow-Headers", reqHeaders)
			} else {
				h.Set("Access-Control-Allow-Headers", "*")
			}
			h.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write response")
	}
}

// Start serves h on cfg.ListenAddr until ctx is cancelled.
func Start(ctx context.Context, cfg Config, h http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	log.Info().Msg("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
