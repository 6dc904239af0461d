package main

import (
	"context"
	"fmt"
	"time"

	"github.com/quantlab/rotor/internal/app"
	"github.com/quantlab/rotor/internal/core"
	"github.com/quantlab/rotor/internal/loader"
	"github.com/quantlab/rotor/internal/logger"
	"github.com/spf13/cobra"
)

var rankDate string

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Print the pool's momentum ranking for a date",
	Long:  "Score every pool instrument as of the given date and print the ranking with diagnostics",
	RunE:  runRank,
}

func init() {
	rankCmd.Flags().StringVar(&rankDate, "date", "", "evaluation date YYYY-MM-DD (default: today)")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	date := core.Day(time.Now())
	if rankDate != "" {
		parsed, err := time.Parse("2006-01-02", rankDate)
		if err != nil {
			return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
		}
		date = core.Day(parsed)
	}

	log := logger.Must(debug)
	defer log.Sync()

	store, err := loader.New(cfg.Data.Dir, log).LoadPool(cfg.Backtest.InstrumentPool)
	if err != nil {
		return err
	}
	ranker, err := app.NewRanker(cfg.Backtest, store, log)
	if err != nil {
		return err
	}

	ranked, details, err := ranker.Rank(context.Background(), cfg.Backtest.InstrumentPool, date)
	if err != nil {
		return err
	}

	fmt.Printf("=== Ranking as of %s (%s) ===\n", date.Format("2006-01-02"), ranker.Strategy().Name())
	if len(ranked) == 0 {
		fmt.Println("No instrument is scoreable on this date.")
	}
	for i, r := range ranked {
		fmt.Printf("%d. %-12s score=%.6f annualized=%.2f%% r2=%.4f\n",
			i+1, r.Code,
			float64(r.Detail.Score),
			float64(r.Detail.Annualized)*100,
			float64(r.Detail.RSquared))
	}
	for _, code := range cfg.Backtest.InstrumentPool {
		if d, ok := details[code]; ok && !d.Valid {
			fmt.Printf("   %-12s insufficient history\n", code)
		}
	}

	return nil
}
