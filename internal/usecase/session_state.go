package usecase

import (
	"errors"

	"github.com/vitos/crypto_trader_ai/internal/domain"
)

// TransportFailureMessage is shown when the analysis service could not be reached.
const TransportFailureMessage = "Failed to analyze trading pair. Please try again."

// Panel is the single result area the dashboard shows.
type Panel string

const (
	PanelNone     Panel = "none"
	PanelLoading  Panel = "loading"
	PanelError    Panel = "error"
	PanelResult   Panel = "result"
	PanelNotFound Panel = "not_found"
)

// resultView is the part of the state a failed search must not clobber.
type resultView struct {
	result   *domain.CoinAnalysis
	notFound domain.TradingPairSymbol
}

// SessionState is an immutable snapshot; Reduce returns a new value.
type SessionState struct {
	InputText  string
	IsLoading  bool
	LastError  string
	LastResult *domain.CoinAnalysis

	// NotFound is set when the last settled search had no data.
	NotFound domain.TradingPairSymbol

	// Generation and Pending identify the latest dispatched request.
	Generation uint64
	Pending    domain.TradingPairSymbol

	stashed resultView
}

// Panel applies the display precedence
// loading > error > result > not found > nothing.
func (s SessionState) Panel() Panel {
	switch {
	case s.IsLoading:
		return PanelLoading
	case s.LastError != "":
		return PanelError
	case s.LastResult != nil:
		return PanelResult
	case s.NotFound != "":
		return PanelNotFound
	default:
		return PanelNone
	}
}

type Event interface {
	isEvent()
}

type StartTyping struct {
	Text string
}

type Submit struct{}

type QuickPick struct {
	Symbol string
}

// Settle carries the outcome of the dispatch started at Generation.
type Settle struct {
	Generation uint64
	Outcome    domain.AnalysisOutcome
}

func (StartTyping) isEvent() {}
func (Submit) isEvent()      {}
func (QuickPick) isEvent()   {}
func (Settle) isEvent()      {}

// DispatchEffect asks the runtime to dispatch Symbol and to report back
// with a Settle for Generation.
type DispatchEffect struct {
	Generation uint64
	Symbol     domain.TradingPairSymbol
}

// Reduce is the only way a SessionState changes.
func Reduce(s SessionState, ev Event) (SessionState, *DispatchEffect) {
	switch e := ev.(type) {
	case StartTyping:
		s.InputText = e.Text
		s.LastError = ""
		return s, nil

	case Submit:
		symbol, err := domain.ValidateSymbol(s.InputText)
		if err != nil {
			// an invalid submit while loading leaves the pending request alone
			if s.IsLoading {
				return s, nil
			}
			s.LastError = validationMessage(err)
			return s, nil
		}

		// a second submit while loading replaces the pending request,
		// the stash still holds the last settled view
		if !s.IsLoading {
			s.stashed = resultView{result: s.LastResult, notFound: s.NotFound}
		}
		s.IsLoading = true
		s.LastError = ""
		s.LastResult = nil
		s.NotFound = ""
		s.Generation++
		s.Pending = symbol
		return s, &DispatchEffect{Generation: s.Generation, Symbol: symbol}

	case QuickPick:
		s, _ = Reduce(s, StartTyping{Text: e.Symbol})
		return Reduce(s, Submit{})

	case Settle:
		if !s.IsLoading || e.Generation != s.Generation {
			return s, nil
		}
		s.IsLoading = false

		switch e.Outcome.Kind {
		case domain.OutcomeFound:
			s.LastResult = e.Outcome.Analysis
			s.NotFound = ""
			s.LastError = ""
		case domain.OutcomeNotFound:
			s.LastResult = nil
			s.NotFound = e.Outcome.Symbol
			s.LastError = ""
		default:
			s.LastError = TransportFailureMessage
			s.LastResult = s.stashed.result
			s.NotFound = s.stashed.notFound
		}
		s.stashed = resultView{}
		return s, nil
	}

	return s, nil
}

func validationMessage(err error) string {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return vErr.UserMessage()
	}
	return err.Error()
}
