package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vitos/crypto_trader_ai/internal/domain"
	"github.com/vitos/crypto_trader_ai/internal/usecase"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 1).
		Width(76)

	tileStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#374151")).
		Padding(0, 1)

	upStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	downStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)

	actionStyles = map[domain.Action]lipgloss.Style{
		domain.ActionBuy:  lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
		domain.ActionSell: lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		domain.ActionHold: lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308")).Bold(true),
	}
)

func RenderTitle() string {
	return titleStyle.Render("CryptoTrader AI")
}

// RenderMarketStats lays the overview tiles out on one row.
func RenderMarketStats(stats []domain.MarketStat) string {
	tiles := make([]string, 0, len(stats))
	for _, st := range stats {
		change := upStyle.Render(st.Change)
		if !st.Positive {
			change = downStyle.Render(st.Change)
		}
		tiles = append(tiles, tileStyle.Render(fmt.Sprintf("%s\n%s %s", mutedStyle.Render(st.Label), st.Value, change)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

// RenderState draws whichever panel the state selects.
func RenderState(s usecase.SessionState) string {
	switch s.Panel() {
	case usecase.PanelLoading:
		return panelStyle.Render(loadingStyle.Render(fmt.Sprintf("Analyzing %s...", s.Pending)))
	case usecase.PanelError:
		return panelStyle.Render(errorStyle.Render(s.LastError))
	case usecase.PanelResult:
		return panelStyle.Render(renderAnalysis(s.LastResult))
	case usecase.PanelNotFound:
		return panelStyle.Render(fmt.Sprintf("No analysis available for %s.\n%s",
			s.NotFound, mutedStyle.Render("Try BTCUSDT, ETHUSDT or SOLUSDT.")))
	default:
		return panelStyle.Render(mutedStyle.Render("Enter a trading pair to get an AI analysis."))
	}
}

func renderAnalysis(a *domain.CoinAnalysis) string {
	var b strings.Builder

	change := upStyle.Render("+" + a.Change24h.StringFixed(2) + "%")
	if a.Change24h.IsNegative() {
		change = downStyle.Render(a.Change24h.StringFixed(2) + "%")
	}

	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(a.Name), mutedStyle.Render(a.Symbol.String()))
	fmt.Fprintf(&b, "$%s %s\n", a.CurrentPrice.StringFixed(2), change)
	fmt.Fprintf(&b, "Market cap %s  Volume %s\n", a.MarketCap, a.Volume)

	for _, sg := range a.Suggestions {
		style, ok := actionStyles[sg.Action]
		if !ok {
			style = mutedStyle
		}
		fmt.Fprintf(&b, "\n%s %d%% confidence  %s  %s risk\n",
			style.Render(strings.ToUpper(string(sg.Action))), sg.Confidence, sg.Timeframe, sg.RiskLevel)
		fmt.Fprintf(&b, "%s\n", sg.Rationale)
		fmt.Fprintf(&b, "Target $%s  Stop loss $%s\n", sg.TargetPrice.StringFixed(2), sg.StopLoss.StringFixed(2))
	}

	return strings.TrimRight(b.String(), "\n")
}
