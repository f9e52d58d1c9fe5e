package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/astroquant/internal/research"
)

// researchCmd represents the research command
var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "리서치 세션 실행/조회",
	Long: `전체 파이프라인(호로스코프 → 피처 → 점수 → 랭킹 + 가격 통계 + 백테스트 비교)을
실행하고 세션을 저장합니다. DATABASE_URL이 없으면 세션은 프로세스 메모리에만 남습니다.

Subcommands:
  run   - 세션 실행
  get   - 세션 조회
  list  - 최근 세션 목록

Example:
  go run ./cmd/quant research run TCS INFY RELIANCE --top 2
  go run ./cmd/quant research list --limit 10`,
}

var (
	researchRunCmd = &cobra.Command{
		Use:   "run SYMBOL [SYMBOL...]",
		Short: "세션 실행",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runResearch,
	}

	researchGetCmd = &cobra.Command{
		Use:   "get ID",
		Short: "세션 조회",
		Args:  cobra.ExactArgs(1),
		RunE:  getResearch,
	}

	researchListCmd = &cobra.Command{
		Use:   "list",
		Short: "최근 세션 목록",
		RunE:  listResearch,
	}
)

var (
	researchFlags   chartFlags
	researchTop     int
	researchHorizon int
	researchWeights string
	researchLimit   int
)

func init() {
	rootCmd.AddCommand(researchCmd)
	researchCmd.AddCommand(researchRunCmd)
	researchCmd.AddCommand(researchGetCmd)
	researchCmd.AddCommand(researchListCmd)

	researchFlags.register(researchRunCmd)
	researchRunCmd.Flags().IntVar(&researchTop, "top", 0, "ranking size (default: RESEARCH_TOP_N)")
	researchRunCmd.Flags().IntVar(&researchHorizon, "horizon", 0, "backtest horizon in trading days (default: RESEARCH_HORIZON)")
	researchRunCmd.Flags().StringVar(&researchWeights, "weights", "", "category weight overrides, e.g. house=0.4,yoga=0.3")
	researchListCmd.Flags().IntVar(&researchLimit, "limit", 20, "number of sessions")
}

func openResearch(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	a, err := newApp(cmd.Context(), cfg, cliLogger(cfg), appOptions{persist: true})
	if err != nil {
		return nil, err
	}
	if a.db == nil {
		PrintWarning("DATABASE_URL not set: sessions are kept in memory for this process only")
	}
	return a, nil
}

func runResearch(cmd *cobra.Command, args []string) error {
	weights, err := parseWeights(researchWeights)
	if err != nil {
		return err
	}

	a, err := openResearch(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	req := research.Request{
		Symbols: upperSymbols(args),
		Weights: weights,
		TopN:    researchTop,
		Horizon: researchHorizon,
		Source:  "cli",
	}
	// unset flags leave fields empty so the orchestrator applies its defaults
	req.Seed = researchFlags.seed
	req.Dates.Start, req.Dates.End = researchFlags.from, researchFlags.to
	req.Times.Start, req.Times.End = researchFlags.timeFrom, researchFlags.timeTo
	req.Location = researchFlags.location

	session, err := a.orchestrator.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	if jsonOutput {
		return PrintJSON(session)
	}
	printSession(session)
	return nil
}

func getResearch(cmd *cobra.Command, args []string) error {
	a, err := openResearch(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := a.orchestrator.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		return PrintJSON(session)
	}
	printSession(session)
	return nil
}

func listResearch(cmd *cobra.Command, args []string) error {
	a, err := openResearch(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	sessions, err := a.orchestrator.List(cmd.Context(), researchLimit)
	if err != nil {
		return err
	}

	if jsonOutput {
		return PrintJSON(sessions)
	}

	PrintHeader(fmt.Sprintf("Research sessions (%d)", len(sessions)))
	widths := []int{36, 20, 10, 8, 12, 8, 8}
	PrintTableHeader([]string{"ID", "CREATED", "SOURCE", "SYMBOLS", "TOP", "CORR", "HIT"}, widths)
	for _, s := range sessions {
		PrintTableRow([]string{
			s.ID,
			s.CreatedAt.Format("2006-01-02 15:04:05"),
			s.Source,
			fmt.Sprintf("%d", s.SymbolCount),
			s.TopSymbol,
			fmt.Sprintf("%.3f", s.Correlation),
			fmt.Sprintf("%.1f%%", s.HitRate*100),
		}, widths)
	}
	return nil
}

func printSession(s *research.Session) {
	PrintHeader("Research session " + s.ID)
	PrintKeyValue("Created", s.CreatedAt.Format("2006-01-02 15:04:05"), 10)
	PrintKeyValue("Duration", fmt.Sprintf("%dms", s.DurationMs), 10)
	PrintKeyValue("Symbols", fmt.Sprintf("%d", len(s.Request.Symbols)), 10)
	PrintKeyValue("Config", s.ConfigHash[:min(12, len(s.ConfigHash))], 10)
	PrintKeyValue("Persisted", fmt.Sprintf("%v", s.Persisted), 10)

	printRanking(s.Ranking)
	printDistribution(s.Distribution)

	if c := s.Comparison; c != nil {
		PrintHeader(fmt.Sprintf("Backtest comparison (%dd)", c.Horizon))
		PrintKeyValue("Pairs", fmt.Sprintf("%d", c.Pairs), 12)
		PrintKeyValue("Correlation", fmt.Sprintf("%.3f", c.Correlation), 12)
		PrintKeyValue("Hit rate", fmt.Sprintf("%d/%d (%.1f%%)", c.Hits, c.Calls, c.HitRate*100), 12)
	}
}
