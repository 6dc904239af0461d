package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/quantlab/rotor/internal/app"
	"github.com/quantlab/rotor/internal/archive"
	"github.com/quantlab/rotor/internal/loader"
	"github.com/quantlab/rotor/internal/logger"
	"github.com/quantlab/rotor/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	backtestPool    []string
	backtestVariant string
	backtestFrom    string
	backtestTo      string
	backtestCapital float64
	backtestArchive bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a rotation backtest over the instrument pool",
	Long:  "Simulate the rotation strategy against local price history and report performance",
	RunE:  runBacktest,
}

func init() {
	backtestCmd.Flags().StringSliceVar(&backtestPool, "pool", nil, "instrument codes, in priority order (overrides config)")
	backtestCmd.Flags().StringVar(&backtestVariant, "variant", "", "scoring variant: A or B (overrides config)")
	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "start date YYYY-MM-DD (default: full common history)")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "end date YYYY-MM-DD")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", 0, "initial capital (overrides config)")
	backtestCmd.Flags().BoolVar(&backtestArchive, "archive", false, "archive the run result to cold storage")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(backtestPool) > 0 {
		cfg.Backtest.InstrumentPool = backtestPool
	}
	if backtestVariant != "" {
		cfg.Backtest.ScoringVariant = backtestVariant
	}
	if backtestFrom != "" {
		cfg.Backtest.StartDate = backtestFrom
	}
	if backtestTo != "" {
		cfg.Backtest.EndDate = backtestTo
	}
	if backtestCapital > 0 {
		cfg.Backtest.InitialCapital = backtestCapital
	}
	if backtestArchive {
		cfg.Archive.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Must(debug)
	defer log.Sync()

	store, err := loader.New(cfg.Data.Dir, log).LoadPool(cfg.Backtest.InstrumentPool)
	if err != nil {
		return err
	}

	result, runErr := app.RunBacktest(context.Background(), cfg.Backtest, store, log)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		// A halted run still reports the state up to the fatal date.
		fmt.Printf("backtest halted: %v\n\n", runErr)
	}

	fmt.Println("=== ROTOR Backtest ===")
	fmt.Printf("Strategy: %s\n", result.Strategy)
	fmt.Printf("Pool:     %v\n", result.Pool)
	fmt.Printf("Period:   %s to %s (%d trading days)\n",
		result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"), len(result.Snapshots))
	fmt.Println()
	fmt.Printf("Initial capital:   %.2f\n", cfg.Backtest.InitialCapital)
	fmt.Printf("Final value:       %.2f\n", result.Summary.FinalValue)
	fmt.Printf("Total return:      %.2f%%\n", result.Summary.TotalReturn*100)
	fmt.Printf("Annualized return: %.2f%%\n", result.Summary.AnnualizedReturn*100)
	fmt.Printf("Max drawdown:      %.2f%%\n", result.Summary.MaxDrawdown*100)
	fmt.Printf("Sharpe ratio:      %.2f\n", result.Summary.SharpeRatio)
	fmt.Printf("Trades:            %d\n", len(result.Trades))

	historyPath := filepath.Join(cfg.Report.Dir, "rotation_history.csv")
	tradesPath := filepath.Join(cfg.Report.Dir, "rotation_trades.csv")
	if err := report.WriteHistory(result, historyPath); err != nil {
		return fmt.Errorf("writing history report: %w", err)
	}
	if err := report.WriteTrades(result, tradesPath); err != nil {
		return fmt.Errorf("writing trades report: %w", err)
	}
	fmt.Printf("\nReports written to %s\n", cfg.Report.Dir)

	if cfg.Archive.Enabled {
		storage, err := newArchiveStorage(cfg)
		if err != nil {
			return err
		}
		path, err := archive.NewArchiver(storage).SaveRun(context.Background(), result)
		if err != nil {
			return err
		}
		log.Info("run archived", zap.String("path", path))
	}

	return runErr
}
