package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/astroquant/internal/contracts"
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank SYMBOL [SYMBOL...]",
	Short: "점성 점수 랭킹",
	Long: `호로스코프 → 피처 → 점수 집계 후 상위 N개 종목을 출력합니다.

Example:
  go run ./cmd/quant rank TCS INFY RELIANCE --top 2
  go run ./cmd/quant rank TCS INFY --weights house=0.4,planetary=0.3,yoga=0.2,timing=0.1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRank,
}

var (
	rankFlags   chartFlags
	rankTop     int
	rankWeights string
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankFlags.register(rankCmd)
	rankCmd.Flags().IntVar(&rankTop, "top", 0, "number of symbols to keep (default: RESEARCH_TOP_N)")
	rankCmd.Flags().StringVar(&rankWeights, "weights", "", "category weight overrides, e.g. house=0.4,yoga=0.3")
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	weights, err := parseWeights(rankWeights)
	if err != nil {
		return err
	}

	a, err := newApp(context.Background(), cfg, cliLogger(cfg), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	seed, dates, times, location := rankFlags.resolve(cfg.Research)
	hs, err := a.generator.GenerateBatch(upperSymbols(args), seed, dates, times, location)
	if err != nil {
		return err
	}
	fs, err := a.extractor.ExtractBatch(hs)
	if err != nil {
		return err
	}
	scores, err := a.aggregator.AggregateBatch(fs, weights)
	if err != nil {
		return err
	}

	top := rankTop
	if top == 0 {
		top = cfg.Research.TopN
	}
	ranked, err := a.aggregator.Rank(scores, top)
	if err != nil {
		return err
	}
	dist := a.aggregator.Distribution(scores)

	if jsonOutput {
		return PrintJSON(map[string]interface{}{
			"ranking":      ranked,
			"distribution": dist,
		})
	}

	printRanking(ranked)
	printDistribution(dist)
	return nil
}

func printRanking(ranked []contracts.RankedScore) {
	PrintHeader(fmt.Sprintf("Ranking (top %d)", len(ranked)))

	widths := []int{4, 12, 8, 10, 12}
	PrintTableHeader([]string{"#", "SYMBOL", "SCORE", "CONFIDENCE", "RECOMMEND"}, widths)
	for _, r := range ranked {
		PrintTableRow([]string{
			fmt.Sprintf("%d", r.Rank),
			r.Symbol,
			fmt.Sprintf("%.3f", r.AstrologicalScore),
			fmt.Sprintf("%.3f", r.Confidence),
			string(r.Recommendation),
		}, widths)
	}
}

func printDistribution(d contracts.ScoreDistribution) {
	PrintHeader("Score distribution")
	if d.Count == 0 {
		PrintInfo("no scores")
		return
	}

	PrintKeyValue("Count", fmt.Sprintf("%d", d.Count), 8)
	PrintKeyValue("Min", fmt.Sprintf("%.3f", d.Min), 8)
	PrintKeyValue("Max", fmt.Sprintf("%.3f", d.Max), 8)
	PrintKeyValue("Mean", fmt.Sprintf("%.3f", d.Mean), 8)
	PrintKeyValue("StdDev", fmt.Sprintf("%.3f", d.StdDev), 8)

	items := make([]string, 0, len(contracts.Recommendations))
	for _, rec := range contracts.Recommendations {
		items = append(items, fmt.Sprintf("%-12s %d", rec, d.Recommendations[rec]))
	}
	PrintList(items)
}
