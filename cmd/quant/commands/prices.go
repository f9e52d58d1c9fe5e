package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/astroquant/internal/prices"
)

// pricesCmd represents the prices command
var pricesCmd = &cobra.Command{
	Use:   "prices SYMBOL",
	Short: "합성 가격 통계",
	Long: `합성 일봉 시계열을 만들고 수익률, 변동성, 이동평균을 계산합니다.

Example:
  go run ./cmd/quant prices TCS --from 2024-01-01 --to 2024-06-30
  go run ./cmd/quant prices TCS --horizons 1,5,20 --ma 20 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runPrices,
}

var (
	pricesFrom      string
	pricesTo        string
	pricesHorizons  []int
	pricesVolWindow int
	pricesMA        int
)

func init() {
	rootCmd.AddCommand(pricesCmd)

	pricesCmd.Flags().StringVar(&pricesFrom, "from", "", "series start YYYY-MM-DD (default: RESEARCH_DATE_START)")
	pricesCmd.Flags().StringVar(&pricesTo, "to", "", "series end YYYY-MM-DD (default: RESEARCH_DATE_END)")
	pricesCmd.Flags().IntSliceVar(&pricesHorizons, "horizons", []int{1, 5, 20}, "return horizons in trading days")
	pricesCmd.Flags().IntVar(&pricesVolWindow, "vol-window", 20, "volatility window in trading days")
	pricesCmd.Flags().IntVar(&pricesMA, "ma", 0, "moving average window (0: skip)")
}

func runPrices(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	from, err := time.Parse("2006-01-02", or(pricesFrom, cfg.Research.DateStart))
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to, err := time.Parse("2006-01-02", or(pricesTo, cfg.Research.DateEnd))
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}

	a, err := newApp(context.Background(), cfg, cliLogger(cfg), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	series, err := a.synthesizer.Synthesize(strings.ToUpper(args[0]), from, to)
	if err != nil {
		return err
	}
	stats, err := prices.Compute(series, pricesHorizons, pricesVolWindow, pricesMA)
	if err != nil {
		return err
	}

	if jsonOutput {
		return PrintJSON(stats)
	}

	PrintHeader(fmt.Sprintf("%s  %s ~ %s", stats.Symbol, from.Format("2006-01-02"), to.Format("2006-01-02")))
	if s := stats.Summary; s != nil && !s.IsEmpty() {
		PrintKeyValue("Bars", fmt.Sprintf("%d", s.Count), 12)
		PrintKeyValue("Current", fmt.Sprintf("%.2f", s.CurrentPrice), 12)
		PrintKeyValue("Range", fmt.Sprintf("%.2f ~ %.2f", s.MinPrice, s.MaxPrice), 12)
		PrintKeyValue("Average", fmt.Sprintf("%.2f", s.AvgPrice), 12)
		PrintKeyValue("Change", fmt.Sprintf("%+.2f (%+.2f%%)", s.PriceChange, s.PriceChangePct), 12)
	} else {
		PrintWarning("no trading days in range")
	}
	PrintKeyValue("Volatility", fmt.Sprintf("%.4f", stats.Volatility), 12)
	if r := stats.Risk; r != nil {
		PrintKeyValue(fmt.Sprintf("VaR %.0f%%", r.Confidence*100), fmt.Sprintf("%.2f%%", r.VaR*100), 12)
		PrintKeyValue("CVaR", fmt.Sprintf("%.2f%%", r.CVaR*100), 12)
		PrintKeyValue("Max DD", fmt.Sprintf("%.2f%%", r.MaxDrawdown*100), 12)
	}

	PrintSeparator()
	for _, h := range pricesHorizons {
		key := prices.HorizonKey(h)
		PrintKeyValue("Return "+key, fmt.Sprintf("%+.4f%%", stats.Returns[key]), 12)
	}

	if n := len(stats.MovingAverage); n > 0 {
		last := stats.MovingAverage[n-1]
		if last.MA != nil {
			PrintKeyValue(fmt.Sprintf("MA%d", pricesMA), fmt.Sprintf("%.2f", *last.MA), 12)
		}
	}
	return nil
}
