package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vitos/crypto_trader_ai/internal/usecase"
	"go.uber.org/zap"
)

const (
	wsWriteWait      = 5 * time.Second
	wsMaxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// clientMessage is what the dashboard script sends over /ws.
type clientMessage struct {
	Type   string `json:"type"` // input, submit, quick_pick
	Text   string `json:"text,omitempty"`
	Symbol string `json:"symbol,omitempty"`
}

func (m clientMessage) event() (usecase.Event, bool) {
	switch m.Type {
	case "input":
		return usecase.StartTyping{Text: m.Text}, true
	case "submit":
		return usecase.Submit{}, true
	case "quick_pick":
		return usecase.QuickPick{Symbol: m.Symbol}, true
	default:
		return nil, false
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}
	session, newID, err := s.sessions.Session(id)
	if err != nil {
		s.logger.Error("Failed to open session", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	header := http.Header{}
	if newID != id {
		header.Add("Set-Cookie", (&http.Cookie{Name: sessionCookie, Value: newID, Path: "/", HttpOnly: true}).String())
	}

	conn, err := upgrader.Upgrade(w, r, header)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := s.logger.With(zap.String("session", session.ID()))
	log.Debug("WebSocket connected")

	updates, cancel := session.Subscribe()
	defer cancel()

	go s.readClientMessages(r.Context(), conn, session, cancel, log)

	for state := range updates {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(NewStateView(state)); err != nil {
			log.Debug("WebSocket write failed", zap.Error(err))
			return
		}
	}
	log.Debug("WebSocket closed")
}

// readClientMessages applies client events until the connection drops,
// then cancels the subscription so the writer loop ends.
func (s *Server) readClientMessages(ctx context.Context, conn *websocket.Conn, session *usecase.Session, cancel func(), log *zap.Logger) {
	defer cancel()
	conn.SetReadLimit(wsMaxMessageSize)

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("WebSocket read failed", zap.Error(err))
			}
			return
		}

		ev, ok := msg.event()
		if !ok {
			log.Warn("Ignoring unknown client message", zap.String("type", msg.Type))
			continue
		}
		if _, err := session.Apply(ctx, ev); err != nil {
			log.Debug("Session rejected client message", zap.Error(err))
			return
		}
	}
}
