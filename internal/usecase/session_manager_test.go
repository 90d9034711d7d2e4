package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T, ttl time.Duration) *SessionManager {
	t.Helper()
	m := NewSessionManager(NewMockDispatcher(), NewResolver(demoCatalog(t), false, zap.NewNop()), time.Second, ttl, zap.NewNop())
	t.Cleanup(m.Close)
	return m
}

func TestSessionManager_CreatesAndReuses(t *testing.T) {
	m := newTestManager(t, time.Minute)

	first, id, err := m.Session("")
	require.NoError(t, err)
	assert.Len(t, id, sessionIDLength)

	again, sameID, err := m.Session(id)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, id, sameID)

	other, otherID, err := m.Session("")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.NotEqual(t, id, otherID)
	assert.Equal(t, 2, m.Len())
}

func TestSessionManager_SessionsAreIsolated(t *testing.T) {
	m := newTestManager(t, time.Minute)
	a, _, err := m.Session("")
	require.NoError(t, err)
	b, _, err := m.Session("")
	require.NoError(t, err)

	state, err := a.Analyze(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, PanelResult, state.Panel())

	assert.Equal(t, PanelNone, b.Snapshot().Panel())
}

func TestSessionManager_UnknownIDIsAdopted(t *testing.T) {
	m := newTestManager(t, time.Minute)

	s, id, err := m.Session("restored-cookie")
	require.NoError(t, err)
	assert.Equal(t, "restored-cookie", id)
	assert.Equal(t, "restored-cookie", s.ID())
}

func TestSessionManager_EvictsIdle(t *testing.T) {
	m := newTestManager(t, time.Minute)
	idle, _, err := m.Session("")
	require.NoError(t, err)

	evicted := m.Evict(time.Now().Add(2 * time.Minute))

	assert.Equal(t, 1, evicted)
	assert.Zero(t, m.Len())
	_, err = idle.Apply(context.Background(), Submit{})
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSessionManager_KeepsActive(t *testing.T) {
	m := newTestManager(t, time.Minute)
	_, _, err := m.Session("")
	require.NoError(t, err)

	assert.Zero(t, m.Evict(time.Now().Add(30*time.Second)))
	assert.Equal(t, 1, m.Len())
}

func TestSessionManager_Close(t *testing.T) {
	m := newTestManager(t, time.Minute)
	s, _, err := m.Session("")
	require.NoError(t, err)

	m.Close()

	assert.Zero(t, m.Len())
	_, err = s.StartTyping(context.Background(), "ETHUSDT")
	assert.ErrorIs(t, err, ErrSessionClosed)
}
