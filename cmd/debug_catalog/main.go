package main

import (
	"context"
	"fmt"
	"os"

	"github.com/vitos/crypto_trader_ai/internal/config"
	"github.com/vitos/crypto_trader_ai/internal/infrastructure/storage"
)

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	catalog, closeCatalog, err := storage.OpenCatalog(ctx, cfg.Catalog.Driver, cfg.Catalog.DSN)
	if err != nil {
		fmt.Printf("Failed to open catalog: %v\n", err)
		os.Exit(1)
	}
	defer closeCatalog()

	analyses, err := catalog.List(ctx)
	if err != nil {
		fmt.Printf("Failed to list analyses: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Catalog driver %q, %d analyses:\n", cfg.Catalog.Driver, len(analyses))
	for _, a := range analyses {
		fmt.Printf("- %s (%s): price %s, 24h %s%%, %d suggestions\n",
			a.Symbol, a.Name, a.CurrentPrice.StringFixed(2), a.Change24h.StringFixed(2), len(a.Suggestions))
		if err := a.Validate(); err != nil {
			fmt.Printf("  ❌ Invalid: %v\n", err)
			continue
		}
		for _, s := range a.Suggestions {
			fmt.Printf("  ✅ %s %d%% target %s stop %s (%s, %s risk)\n",
				s.Action, s.Confidence, s.TargetPrice.StringFixed(2), s.StopLoss.StringFixed(2), s.Timeframe, s.RiskLevel)
		}
	}

	for _, pick := range cfg.QuickPickSymbols() {
		a, err := catalog.Lookup(ctx, pick)
		switch {
		case err != nil:
			fmt.Printf("❌ Quick pick %s: %v\n", pick, err)
		case a == nil:
			fmt.Printf("⚠️ Quick pick %s has no analysis\n", pick)
		default:
			fmt.Printf("✅ Quick pick %s -> %s\n", pick, a.Name)
		}
	}
}
