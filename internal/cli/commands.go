package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vitos/crypto_trader_ai/internal/config"
	"github.com/vitos/crypto_trader_ai/internal/infrastructure/storage"
	"github.com/vitos/crypto_trader_ai/internal/usecase"
	"github.com/vitos/crypto_trader_ai/internal/web"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// NewRootCmd creates the cryptotrader command tree.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		cfg        *config.Config
	)

	rootCmd := &cobra.Command{
		Use:   "cryptotrader",
		Short: "CryptoTrader AI - trading pair analysis dashboard",
		Long: `CryptoTrader AI sends trading pairs to an analysis workflow and shows
the resulting price snapshot and trade suggestions in a browser dashboard or
in the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveCommand(cmd.Context(), cmd.OutOrStdout(), cfg, surveyPrompter{})
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Configuration file path")

	current := func() *config.Config { return cfg }
	rootCmd.AddCommand(newServeCmd(current))
	rootCmd.AddCommand(newAnalyzeCmd(current))
	rootCmd.AddCommand(newInteractiveCmd(current))
	rootCmd.AddCommand(newQuickPicksCmd(current))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newServeCmd(cfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if port, _ := cmd.Flags().GetInt("port"); port > 0 {
				c.Server.Port = port
			}
			return runServe(cmd.Context(), c)
		},
	}
	cmd.Flags().Int("port", 0, "Port to listen on (overrides server.port)")
	return cmd
}

func newAnalyzeCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [SYMBOL]",
		Short: "Analyze one trading pair and print the result",
		Long: `Validate SYMBOL, send it to the analysis workflow and print the result.
Example: cryptotrader analyze BTCUSDT`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), cfg(), args[0])
		},
	}
}

func newInteractiveCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Pick trading pairs from a menu and analyze them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveCommand(cmd.Context(), cmd.OutOrStdout(), cfg(), surveyPrompter{})
		},
	}
}

func newQuickPicksCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "quick-picks",
		Short: "List the configured quick-pick trading pairs",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range cfg().QuickPickSymbols() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cryptotrader %s\n", Version)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log, err := newLogger(cfg, false)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Sessions.Start(ctx)
	server := web.NewServer(cfg.Server.Port, app.Sessions, cfg.QuickPickSymbols(), storage.MarketOverview(), log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	return nil
}

func runAnalyze(ctx context.Context, out io.Writer, cfg *config.Config, text string) error {
	log, err := newLogger(cfg, true)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	session, _, err := app.Sessions.Session("")
	if err != nil {
		return err
	}

	state, err := session.Analyze(ctx, text)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, RenderState(state))
	if state.Panel() == usecase.PanelError {
		return fmt.Errorf("%s", state.LastError)
	}
	return nil
}

func runInteractiveCommand(ctx context.Context, out io.Writer, cfg *config.Config, prompter Prompter) error {
	log, err := newLogger(cfg, true)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	session, _, err := app.Sessions.Session("")
	if err != nil {
		return err
	}

	return runInteractive(ctx, out, session, prompter, cfg.QuickPickSymbols(), storage.MarketOverview())
}
