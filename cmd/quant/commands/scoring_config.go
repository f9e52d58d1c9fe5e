package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/astroquant/internal/scoringconfig"
)

// scoringConfigCmd represents the scoring-config command
var scoringConfigCmd = &cobra.Command{
	Use:   "scoring-config",
	Short: "점수 규칙 조회/검증",
	Long: `점수 규칙(YAML) 파일을 조회하거나 검증합니다.

Subcommands:
  show      - 적용 중인 규칙과 해시 출력
  validate  - 규칙 파일 검증

Example:
  go run ./cmd/quant scoring-config show
  go run ./cmd/quant scoring-config validate config/scoring.yaml`,
}

var (
	scoringShowCmd = &cobra.Command{
		Use:   "show",
		Short: "적용 중인 규칙 출력",
		RunE:  showScoringConfig,
	}

	scoringValidateCmd = &cobra.Command{
		Use:   "validate PATH",
		Short: "규칙 파일 검증",
		Args:  cobra.ExactArgs(1),
		RunE:  validateScoringConfig,
	}
)

func init() {
	rootCmd.AddCommand(scoringConfigCmd)
	scoringConfigCmd.AddCommand(scoringShowCmd)
	scoringConfigCmd.AddCommand(scoringValidateCmd)
}

func showScoringConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	scfg, err := scoringconfig.LoadOrDefault(cfg.ScoringConfigPath)
	if err != nil {
		return err
	}
	return printScoringConfig(scfg, or(cfg.ScoringConfigPath, "(built-in)"))
}

func validateScoringConfig(cmd *cobra.Command, args []string) error {
	scfg, _, err := scoringconfig.Load(args[0])
	if err != nil {
		PrintError(err.Error())
		return err
	}

	PrintSuccess(args[0] + " is valid")
	return printScoringConfig(scfg, args[0])
}

func printScoringConfig(scfg *scoringconfig.Config, source string) error {
	hash, err := scoringconfig.Hash(scfg)
	if err != nil {
		return err
	}

	if jsonOutput {
		return PrintJSON(map[string]interface{}{
			"source": source,
			"config": scfg,
			"hash":   hash,
		})
	}

	PrintHeader(fmt.Sprintf("Scoring rules %s v%s", scfg.Meta.RulesetID, scfg.Meta.Version))
	PrintKeyValue("Source", source, 10)
	PrintKeyValue("Hash", hash, 10)
	PrintKeyValue("Normalize", scfg.Normalization, 10)

	PrintSeparator()
	w := scfg.Weights
	PrintKeyValue("house", fmt.Sprintf("%.2f", w.House), 10)
	PrintKeyValue("planetary", fmt.Sprintf("%.2f", w.Planetary), 10)
	PrintKeyValue("yoga", fmt.Sprintf("%.2f", w.Yoga), 10)
	PrintKeyValue("timing", fmt.Sprintf("%.2f", w.Timing), 10)

	PrintSeparator()
	for _, t := range scfg.Thresholds {
		PrintKeyValue(string(t.Name), fmt.Sprintf(">= %.2f", t.Min), 12)
	}
	PrintKeyValue("confidence", fmt.Sprintf("floor %.2f", scfg.Confidence.Floor), 12)
	PrintKeyValue("buckets", fmt.Sprintf("%d", scfg.Distribution.Buckets), 12)
	return nil
}
