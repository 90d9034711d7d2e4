package main

import (
	"context"
	"os"

	"github.com/vitos/crypto_trader_ai/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
