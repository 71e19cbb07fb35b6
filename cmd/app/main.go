package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"Assemblief/internal/di"
	"Assemblief/pkg/config"
	"Assemblief/pkg/server"
)

var (
	configPath string
	timeframe  string
	signalID   string
	date       string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "assemblief",
	Short: "Market regime, signal and backtest analytics",
	Long: `assemblief fetches OHLCV series for crypto, forex and futures assets,
classifies the market regime, proposes trade candidates and ranks them by
backtested confidence. Without a subcommand it serves the HTTP API.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE:  runServe,
}

func evalCmd(use, short string, run func(ctx context.Context, app *server.App, asset string) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <asset>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := initApp(true)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			res, err := run(ctx, app, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&timeframe, "timeframe", "1h", "candle timeframe: 1m, 5m, 1h, 1d, 1w")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "evaluation timeout")

	backtestCmd := evalCmd("backtest", "Backtest one strategy", func(ctx context.Context, app *server.App, asset string) (any, error) {
		return app.Analytics.RunBacktest(ctx, asset, timeframe, signalID)
	})
	backtestCmd.Flags().StringVar(&signalID, "signal", "trend_v1", "strategy id")

	replayCmd := evalCmd("replay", "Replay the recommendation made on a past date", func(ctx context.Context, app *server.App, asset string) (any, error) {
		return app.Replayer.Replay(ctx, asset, timeframe, date)
	})
	replayCmd.Flags().StringVar(&date, "date", "", "replay date (YYYY-MM-DD)")
	_ = replayCmd.MarkFlagRequired("date")

	rootCmd.AddCommand(
		serveCmd,
		evalCmd("data", "Print the normalized candle series", func(ctx context.Context, app *server.App, asset string) (any, error) {
			return app.Analytics.GetData(ctx, asset, timeframe)
		}),
		evalCmd("regime", "Classify the market regime", func(ctx context.Context, app *server.App, asset string) (any, error) {
			return app.Analytics.ClassifyRegime(ctx, asset, timeframe)
		}),
		evalCmd("signals", "Generate trade candidates", func(ctx context.Context, app *server.App, asset string) (any, error) {
			return app.Analytics.GenerateSignals(ctx, asset, timeframe)
		}),
		backtestCmd,
		evalCmd("rank", "Rank all strategies by confidence", func(ctx context.Context, app *server.App, asset string) (any, error) {
			return app.Ranker.Rank(ctx, asset, timeframe)
		}),
		replayCmd,
	)
}

// initApp loads config and wires the application. One-shot commands log to
// stderr so stdout carries only the JSON result.
func initApp(oneShot bool) (*server.App, func(), error) {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config load failed: %w", err)
	}
	if oneShot && cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("app initialization failed: %w", err)
	}
	return app, cleanup, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, cleanup, err := initApp(false)
	if err != nil {
		return err
	}
	defer cleanup()
	return app.Run(cmd.Context())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
