package domain

import (
	"fmt"
	"strings"
)

// QuoteCurrencies lists the recognized quote-currency suffixes.
// Longer suffixes come first so BUSD wins over a shorter match.
var QuoteCurrencies = []string{"USDT", "USDC", "BUSD", "BTC", "ETH", "BNB"}

// TradingPairSymbol is a normalized trading pair such as BTCUSDT.
// The only way to get a non-empty value is ValidateSymbol.
type TradingPairSymbol string

func (s TradingPairSymbol) String() string {
	return string(s)
}

// Quote returns the quote currency suffix, or "" for the zero value.
func (s TradingPairSymbol) Quote() string {
	return quoteSuffix(string(s))
}

// Base returns the base asset in front of the quote currency. It is empty
// for a bare quote such as "USDT".
func (s TradingPairSymbol) Base() string {
	return strings.TrimSuffix(string(s), s.Quote())
}

type ValidationKind string

const (
	ValidationEmpty                ValidationKind = "empty"
	ValidationMissingQuoteCurrency ValidationKind = "missing_quote_currency"
	ValidationInvalidCharacters    ValidationKind = "invalid_characters"
)

// ValidationError is returned by ValidateSymbol.
type ValidationError struct {
	Kind  ValidationKind
	Input string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid trading pair %q: %s", e.Input, e.Kind)
}

// UserMessage is the inline message shown next to the search box.
func (e *ValidationError) UserMessage() string {
	switch e.Kind {
	case ValidationEmpty:
		return "Please enter a trading pair (e.g., BTCUSDT)"
	case ValidationInvalidCharacters:
		return "Trading pairs may only contain letters and digits (e.g., BTCUSDT)"
	default:
		return "Please include the quote currency (e.g., BTCUSDT, ETHUSDT, SOLUSDT)"
	}
}

// ValidateSymbol trims and uppercases raw before checking it.
func ValidateSymbol(raw string) (TradingPairSymbol, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized == "" {
		return "", &ValidationError{Kind: ValidationEmpty, Input: raw}
	}

	if quoteSuffix(normalized) == "" {
		return "", &ValidationError{Kind: ValidationMissingQuoteCurrency, Input: raw}
	}

	for _, r := range normalized {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", &ValidationError{Kind: ValidationInvalidCharacters, Input: raw}
		}
	}

	return TradingPairSymbol(normalized), nil
}

func quoteSuffix(symbol string) string {
	for _, q := range QuoteCurrencies {
		if strings.HasSuffix(symbol, q) {
			return q
		}
	}
	return ""
}
