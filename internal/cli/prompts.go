package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/pkg/errors"
	"github.com/vitos/crypto_trader_ai/internal/domain"
	"github.com/vitos/crypto_trader_ai/internal/usecase"
)

const (
	customOption = "Enter a trading pair..."
	exitOption   = "Exit"
)

// Prompter asks the user what to analyze next.
type Prompter interface {
	SelectPair(picks []domain.TradingPairSymbol) (string, error)
	InputPair() (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) SelectPair(picks []domain.TradingPairSymbol) (string, error) {
	options := make([]string, 0, len(picks)+2)
	for _, p := range picks {
		options = append(options, p.String())
	}
	options = append(options, customOption, exitOption)

	var selected string
	prompt := &survey.Select{
		Message: "Select a trading pair to analyze:",
		Options: options,
		Help:    "Quick picks are analyzed immediately. Choose the custom option to type any pair.",
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	return selected, nil
}

func (surveyPrompter) InputPair() (string, error) {
	var text string
	prompt := &survey.Input{
		Message: "Enter a trading pair (e.g., BTCUSDT, ETHUSDT):",
		Help:    "The pair must end in a quote currency such as USDT, USDC, BUSD, BTC, ETH or BNB.",
	}
	if err := survey.AskOne(prompt, &text); err != nil {
		return "", err
	}
	return text, nil
}

// runInteractive loops until the user exits or interrupts.
func runInteractive(ctx context.Context, out io.Writer, session *usecase.Session, prompter Prompter, picks []domain.TradingPairSymbol, stats []domain.MarketStat) error {
	fmt.Fprintln(out, RenderTitle())
	fmt.Fprintln(out, RenderMarketStats(stats))

	for {
		choice, err := prompter.SelectPair(picks)
		if errors.Is(err, terminal.InterruptErr) {
			return nil
		}
		if err != nil {
			return err
		}

		var state usecase.SessionState
		switch choice {
		case exitOption:
			return nil
		case customOption:
			text, err := prompter.InputPair()
			if errors.Is(err, terminal.InterruptErr) {
				return nil
			}
			if err != nil {
				return err
			}
			state, err = session.Analyze(ctx, text)
			if err != nil {
				return err
			}
		default:
			state, err = session.Await(ctx, usecase.QuickPick{Symbol: choice})
			if err != nil {
				return err
			}
		}

		fmt.Fprintln(out, RenderState(state))
	}
}
