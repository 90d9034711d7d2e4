package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vitos/crypto_trader_ai/internal/config"
	"github.com/vitos/crypto_trader_ai/internal/domain"
	"github.com/vitos/crypto_trader_ai/internal/infrastructure/analysis"
	"github.com/vitos/crypto_trader_ai/internal/infrastructure/logger"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	symbol := "BTCUSDT"
	if len(os.Args) > 1 {
		symbol = os.Args[1]
	}
	pair, err := domain.ValidateSymbol(symbol)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Testing analysis webhook...\n")
	fmt.Printf("Endpoint: %s\n", cfg.Analysis.WebhookURL)
	fmt.Printf("Timeout: %s\n", cfg.Analysis.Timeout)

	client := analysis.NewWebhookClient(cfg.Analysis.WebhookURL, cfg.Analysis.Timeout, log)

	// 2. Send one request
	resp, err := client.Dispatch(context.Background(), pair)
	if err != nil {
		var tErr *domain.TransportError
		if errors.As(err, &tErr) && tErr.Kind == domain.TransportNonSuccessStatus {
			fmt.Printf("❌ Webhook answered HTTP %d (request %s)\n", tErr.StatusCode, tErr.RequestID)
		} else {
			fmt.Printf("❌ Webhook unreachable: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("✅ Webhook accepted %s: HTTP %d, request %s\n", pair, resp.StatusCode, resp.Request.RequestID)
	if len(resp.Body) > 0 {
		fmt.Printf("Body (%d bytes): %s\n", len(resp.Body), resp.Body)
	}
}
