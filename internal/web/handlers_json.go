package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vitos/crypto_trader_ai/internal/domain"
	"github.com/vitos/crypto_trader_ai/internal/usecase"
	"go.uber.org/zap"
)

type inputRequest struct {
	Text string `json:"text"`
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeState(w http.ResponseWriter, state usecase.SessionState, err error) {
	if err != nil {
		if errors.Is(err, usecase.ErrSessionClosed) {
			http.Error(w, "Session closed", http.StatusServiceUnavailable)
			return
		}
		s.logger.Error("Failed to apply session event", zap.Error(err))
		http.Error(w, "Failed to update session", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, NewStateView(state))
}

// apply runs ev, waiting for the dispatch to settle when ?wait=true.
func apply(ctx context.Context, r *http.Request, session *usecase.Session, ev usecase.Event) (usecase.SessionState, error) {
	if r.URL.Query().Get("wait") == "true" {
		return session.Await(ctx, ev)
	}
	return session.Apply(ctx, ev)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessionFor(w, r)
	if err != nil {
		s.writeState(w, usecase.SessionState{}, err)
		return
	}
	s.writeJSON(w, NewStateView(session.Snapshot()))
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var req inputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := s.sessionFor(w, r)
	if err != nil {
		s.writeState(w, usecase.SessionState{}, err)
		return
	}
	state, err := session.StartTyping(r.Context(), req.Text)
	s.writeState(w, state, err)
}

// handleSubmit submits the current input. A JSON body with "text" types it
// first.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req *inputRequest
	if r.ContentLength != 0 {
		req = &inputRequest{}
		err := json.NewDecoder(r.Body).Decode(req)
		switch {
		case errors.Is(err, io.EOF):
			req = nil
		case err != nil:
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	session, err := s.sessionFor(w, r)
	if err != nil {
		s.writeState(w, usecase.SessionState{}, err)
		return
	}
	if req != nil {
		if _, err := session.StartTyping(r.Context(), req.Text); err != nil {
			s.writeState(w, usecase.SessionState{}, err)
			return
		}
	}

	state, err := apply(r.Context(), r, session, usecase.Submit{})
	s.writeState(w, state, err)
}

func (s *Server) handleQuickPick(w http.ResponseWriter, r *http.Request) {
	symbol, err := domain.ValidateSymbol(r.PathValue("symbol"))
	if err != nil || !s.isQuickPick(symbol) {
		http.Error(w, "Unknown quick pick", http.StatusNotFound)
		return
	}

	session, err := s.sessionFor(w, r)
	if err != nil {
		s.writeState(w, usecase.SessionState{}, err)
		return
	}
	state, err := apply(r.Context(), r, session, usecase.QuickPick{Symbol: symbol.String()})
	s.writeState(w, state, err)
}

func (s *Server) handleQuickPicks(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.quickPicks)
}

func (s *Server) handleMarketStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.marketStats)
}
