package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/astroquant/internal/catalog"
	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/internal/features"
)

// horoscopeCmd represents the horoscope command
var horoscopeCmd = &cobra.Command{
	Use:   "horoscope SYMBOL [SYMBOL...]",
	Short: "종목 호로스코프 생성",
	Long: `종목별 합성 호로스코프를 생성합니다.
같은 seed와 입력이면 항상 같은 결과가 나옵니다.

Example:
  go run ./cmd/quant horoscope TCS --seed 42
  go run ./cmd/quant horoscope TCS INFY --features
  go run ./cmd/quant horoscope TCS --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHoroscope,
}

var (
	horoscopeFlags    chartFlags
	horoscopeFeatures bool
)

func init() {
	rootCmd.AddCommand(horoscopeCmd)

	horoscopeFlags.register(horoscopeCmd)
	horoscopeCmd.Flags().BoolVar(&horoscopeFeatures, "features", false, "print extracted features instead of charts")
}

func runHoroscope(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := newApp(context.Background(), cfg, cliLogger(cfg), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	seed, dates, times, location := horoscopeFlags.resolve(cfg.Research)
	hs, err := a.generator.GenerateBatch(upperSymbols(args), seed, dates, times, location)
	if err != nil {
		return err
	}

	if !horoscopeFeatures {
		if jsonOutput {
			return PrintJSON(hs)
		}
		printHoroscopes(hs)
		return nil
	}

	fs, err := a.extractor.ExtractBatch(hs)
	if err != nil {
		return err
	}
	if jsonOutput {
		return PrintJSON(fs)
	}
	printFeatureSets(fs)
	return nil
}

func printHoroscopes(hs []*contracts.Horoscope) {
	PrintHeader(fmt.Sprintf("Horoscopes (%d)", len(hs)))

	widths := []int{12, 19, 12, 12, 12, 18, 8, 30}
	PrintTableHeader([]string{"SYMBOL", "BIRTH", "SUN", "MOON", "ASCENDANT", "NAKSHATRA", "DASHA", "YOGAS"}, widths)
	for _, h := range hs {
		PrintTableRow([]string{
			h.Symbol,
			h.BirthDate + " " + h.BirthTime[:5],
			h.SunSign,
			h.MoonSign,
			h.Ascendant,
			h.Nakshatra,
			h.DashaLord,
			strings.Join(h.ActiveYogas, ","),
		}, widths)
	}
}

func printFeatureSets(fs []*contracts.FeatureSet) {
	PrintHeader(fmt.Sprintf("Features (%d)", len(fs)))

	widths := []int{12, 8, 10, 8, 8, 8}
	PrintTableHeader([]string{"SYMBOL", "HOUSE", "PLANETARY", "YOGA", "TIMING", "TOTAL"}, widths)
	for _, f := range fs {
		PrintTableRow([]string{
			f.Symbol,
			fmt.Sprintf("%.3f", features.GroupSum(f, contracts.CategoryHouse)),
			fmt.Sprintf("%.3f", features.GroupSum(f, contracts.CategoryPlanetary)),
			fmt.Sprintf("%.3f", features.GroupSum(f, contracts.CategoryYoga)),
			fmt.Sprintf("%.3f", features.GroupSum(f, contracts.CategoryTiming)),
			fmt.Sprintf("%.3f", f.TotalScore),
		}, widths)

		if len(f.UnknownYogas) > 0 {
			PrintWarning(fmt.Sprintf("%s: unlisted yogas %s scored at %.2f each", f.Symbol, strings.Join(f.UnknownYogas, ","), catalog.DefaultUnknownYogaScore))
		}
	}
}
