package usecase

import (
	"context"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid"
	"github.com/vitos/crypto_trader_ai/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultIdleTTL = 30 * time.Minute

	sessionIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_-"
	sessionIDLength   = 21
)

// NewSessionID returns a random url-safe browser session id.
func NewSessionID() (string, error) {
	return gonanoid.Generate(sessionIDAlphabet, sessionIDLength)
}

// SessionManager keeps one Session per browser session id.
type SessionManager struct {
	dispatcher domain.AnalysisDispatcher
	resolver   *Resolver
	timeout    time.Duration
	idleTTL    time.Duration
	logger     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager(
	dispatcher domain.AnalysisDispatcher,
	resolver *Resolver,
	timeout time.Duration,
	idleTTL time.Duration,
	logger *zap.Logger,
) *SessionManager {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SessionManager{
		dispatcher: dispatcher,
		resolver:   resolver,
		timeout:    timeout,
		idleTTL:    idleTTL,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		sessions:   make(map[string]*Session),
	}
}

// Start runs the idle eviction loop until ctx is done.
func (m *SessionManager) Start(ctx context.Context) {
	interval := m.idleTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	m.logger.Info("Starting session manager", zap.Duration("idle_ttl", m.idleTTL))

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.ctx.Done():
				return
			case now := <-ticker.C:
				if n := m.Evict(now); n > 0 {
					m.logger.Info("Evicted idle sessions", zap.Int("count", n))
				}
			}
		}
	}()
}

// Session returns the session for id, creating it when id is empty or
// unknown. The returned id is the one to hand back to the client.
func (m *SessionManager) Session(id string) (*Session, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok && id != "" {
		return s, id, nil
	}

	if id == "" {
		var err error
		if id, err = NewSessionID(); err != nil {
			return nil, "", err
		}
	}

	s := NewSession(id, m.dispatcher, m.resolver, m.timeout, m.logger)
	m.sessions[id] = s
	go s.Run(m.ctx)

	m.logger.Debug("Created session", zap.String("session", id))
	return s, id, nil
}

// Evict closes sessions idle for longer than the TTL.
func (m *SessionManager) Evict(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		if now.Sub(s.IdleSince()) > m.idleTTL {
			s.Close()
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close closes every session.
func (m *SessionManager) Close() {
	m.cancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.Close()
		delete(m.sessions, id)
	}
}
