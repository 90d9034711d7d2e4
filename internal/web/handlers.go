package web

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/vitos/crypto_trader_ai/internal/domain"
	"github.com/vitos/crypto_trader_ai/internal/usecase"
	"go.uber.org/zap"
)

const sessionCookie = "cta_session"

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"lower": strings.ToLower,
}).ParseFS(templateFS, "templates/*.html"))

// sessionFor returns the caller's session, setting the cookie when a new
// one had to be created.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*usecase.Session, error) {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}

	session, newID, err := s.sessions.Session(id)
	if err != nil {
		return nil, err
	}
	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return session, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessionFor(w, r)
	if err != nil {
		s.logger.Error("Failed to open session", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := dashboardData{
		State:       NewStateView(session.Snapshot()),
		QuickPicks:  s.quickPicks,
		MarketStats: s.marketStats,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("Template error", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (s *Server) isQuickPick(symbol domain.TradingPairSymbol) bool {
	for _, p := range s.quickPicks {
		if p == symbol {
			return true
		}
	}
	return false
}
