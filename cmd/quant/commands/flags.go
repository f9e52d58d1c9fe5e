package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/pkg/config"
)

// chartFlags are the generation inputs shared by horoscope, rank and research.
// Unset values fall back to RESEARCH_* config.
type chartFlags struct {
	seed     int64
	from     string
	to       string
	timeFrom string
	timeTo   string
	location string
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "base seed (default: RESEARCH_SEED)")
	cmd.Flags().StringVar(&f.from, "from", "", "birth date range start YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "birth date range end YYYY-MM-DD")
	cmd.Flags().StringVar(&f.timeFrom, "time-from", "", "birth time window start HH:MM")
	cmd.Flags().StringVar(&f.timeTo, "time-to", "", "birth time window end HH:MM")
	cmd.Flags().StringVar(&f.location, "location", "", "birth location label")
}

func (f *chartFlags) resolve(d config.ResearchConfig) (int64, contracts.DateRange, contracts.TimeRange, string) {
	seed := f.seed
	if seed == 0 {
		seed = d.Seed
	}
	dates := contracts.DateRange{Start: or(f.from, d.DateStart), End: or(f.to, d.DateEnd)}
	times := contracts.TimeRange{Start: or(f.timeFrom, d.TimeStart), End: or(f.timeTo, d.TimeEnd)}
	return seed, dates, times, or(f.location, d.Location)
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// parseWeights reads "house=0.4,planetary=0.3" into a map
func parseWeights(s string) (map[string]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	out := make(map[string]float64)
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid weight %q, want category=value", part)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q: %w", part, err)
		}
		out[strings.TrimSpace(kv[0])] = v
	}
	return out, nil
}

// upperSymbols normalizes CLI symbol arguments
func upperSymbols(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if s := strings.ToUpper(strings.TrimSpace(a)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
