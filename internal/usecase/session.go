package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/vitos/crypto_trader_ai/internal/domain"
	"go.uber.org/zap"
)

// ErrSessionClosed is returned by a Session after Close.
var ErrSessionClosed = errors.New("session closed")

type envelope struct {
	event Event
	reply chan SessionState
	// settled receives the state once the dispatch started by event
	// has settled or been superseded.
	settled chan SessionState
}

// Session owns one SessionState. Events are applied one at a time by the
// Run loop; dispatches run on their own goroutines and report back with
// Settle events.
type Session struct {
	id         string
	dispatcher domain.AnalysisDispatcher
	resolver   *Resolver
	timeout    time.Duration
	logger     *zap.Logger

	events   chan envelope
	done     chan struct{}
	stopOnce sync.Once

	state      atomic.Pointer[SessionState]
	lastActive atomic.Int64

	mu          sync.Mutex
	subscribers map[int]chan SessionState
	nextSub     int

	// waiters is owned by the Run loop.
	waiters map[uint64][]chan SessionState
}

func NewSession(id string, dispatcher domain.AnalysisDispatcher, resolver *Resolver, timeout time.Duration, logger *zap.Logger) *Session {
	s := &Session{
		id:          id,
		dispatcher:  dispatcher,
		resolver:    resolver,
		timeout:     timeout,
		logger:      logger.With(zap.String("session", id)),
		events:      make(chan envelope, 16),
		done:        make(chan struct{}),
		subscribers: make(map[int]chan SessionState),
		waiters:     make(map[uint64][]chan SessionState),
	}
	s.state.Store(&SessionState{})
	s.touch()
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Run applies events until ctx is cancelled or Close is called.
func (s *Session) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.Close()
			return
		case <-s.done:
			return
		case env := <-s.events:
			s.handle(ctx, env)
		}
	}
}

func (s *Session) handle(ctx context.Context, env envelope) {
	current := *s.state.Load()
	next, effect := Reduce(current, env.event)

	if settle, ok := env.event.(Settle); ok && next == current {
		s.logger.Debug("Discarding stale analysis outcome",
			zap.Uint64("generation", settle.Generation),
			zap.Uint64("current_generation", current.Generation),
			zap.String("symbol", settle.Outcome.Symbol.String()))
	}

	s.state.Store(&next)

	if effect != nil {
		s.logger.Info("Dispatching analysis request",
			zap.String("symbol", effect.Symbol.String()),
			zap.Uint64("generation", effect.Generation))
		go s.execute(ctx, *effect)
		if env.settled != nil {
			s.waiters[effect.Generation] = append(s.waiters[effect.Generation], env.settled)
		}
	} else if env.settled != nil {
		env.settled <- next
	}

	if env.reply != nil {
		env.reply <- next
	}

	s.releaseWaiters(next)
	s.publish(next)
}

func (s *Session) releaseWaiters(state SessionState) {
	for gen, chans := range s.waiters {
		if gen == state.Generation && state.IsLoading {
			continue
		}
		for _, ch := range chans {
			ch <- state
		}
		delete(s.waiters, gen)
	}
}

func (s *Session) execute(ctx context.Context, effect DispatchEffect) {
	dispatchCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		dispatchCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.dispatcher.Dispatch(dispatchCtx, effect.Symbol)
	if err != nil {
		s.logger.Warn("Analysis request failed",
			zap.String("symbol", effect.Symbol.String()),
			zap.Uint64("generation", effect.Generation),
			zap.Error(err))
	}

	outcome := s.resolver.Resolve(ctx, effect.Symbol, resp, err)

	select {
	case s.events <- envelope{event: Settle{Generation: effect.Generation, Outcome: outcome}}:
	case <-s.done:
	case <-ctx.Done():
	}
}

func (s *Session) send(ctx context.Context, env envelope) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	s.touch()
	select {
	case s.events <- env:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Apply sends ev to the session and returns the state right after it.
func (s *Session) Apply(ctx context.Context, ev Event) (SessionState, error) {
	env := envelope{event: ev, reply: make(chan SessionState, 1)}
	if err := s.send(ctx, env); err != nil {
		return SessionState{}, err
	}
	select {
	case state := <-env.reply:
		return state, nil
	case <-s.done:
		return SessionState{}, ErrSessionClosed
	case <-ctx.Done():
		return SessionState{}, ctx.Err()
	}
}

// Await is Apply followed by waiting for the dispatch ev started, if any,
// to settle or be replaced by a newer one.
func (s *Session) Await(ctx context.Context, ev Event) (SessionState, error) {
	env := envelope{event: ev, settled: make(chan SessionState, 1)}
	if err := s.send(ctx, env); err != nil {
		return SessionState{}, err
	}
	select {
	case state := <-env.settled:
		return state, nil
	case <-s.done:
		return SessionState{}, ErrSessionClosed
	case <-ctx.Done():
		return SessionState{}, ctx.Err()
	}
}

// Analyze types text and submits it, then waits for the result.
func (s *Session) Analyze(ctx context.Context, text string) (SessionState, error) {
	if _, err := s.Apply(ctx, StartTyping{Text: text}); err != nil {
		return SessionState{}, err
	}
	return s.Await(ctx, Submit{})
}

func (s *Session) StartTyping(ctx context.Context, text string) (SessionState, error) {
	return s.Apply(ctx, StartTyping{Text: text})
}

func (s *Session) Submit(ctx context.Context) (SessionState, error) {
	return s.Apply(ctx, Submit{})
}

func (s *Session) QuickPick(ctx context.Context, symbol string) (SessionState, error) {
	return s.Apply(ctx, QuickPick{Symbol: symbol})
}

func (s *Session) Snapshot() SessionState {
	return *s.state.Load()
}

// Subscribe returns a channel that always holds the latest state.
// Intermediate states may be skipped by slow readers. On a closed session
// the channel yields the final state and is already closed.
func (s *Session) Subscribe() (<-chan SessionState, func()) {
	ch := make(chan SessionState, 1)
	ch <- s.Snapshot()

	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	default:
	}
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

func (s *Session) publish(state SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}

// IdleSince reports when the session last received an event.
func (s *Session) IdleSince() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// Close stops the session and closes every subscription.
func (s *Session) Close() {
	s.stopOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		defer s.mu.Unlock()
		for id, ch := range s.subscribers {
			close(ch)
			delete(s.subscribers, id)
		}
	})
}
