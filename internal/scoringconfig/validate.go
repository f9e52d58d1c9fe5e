package scoringconfig

import (
	"fmt"
	"math"

	"github.com/wonny/astroquant/internal/contracts"
)

// ValidationError 검증 실패 (로드 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Weights ===
	for name, w := range cfg.Weights.Map() {
		if w < 0 {
			return ValidationError{"weights." + name, "must be >= 0"}
		}
	}
	if sum := cfg.Weights.Sum(); math.Abs(sum-1.0) > 1e-6 {
		return ValidationError{"weights", fmt.Sprintf("sum must be 1.0, got %.6f", sum)}
	}

	// === Normalization ===
	switch cfg.Normalization {
	case NormalizationNone, NormalizationCatalogMax:
	case "":
		return ValidationError{"normalization", fmt.Sprintf("required, one of %v", NormalizationModes)}
	default:
		return ValidationError{"normalization", fmt.Sprintf("unknown mode %q, expected one of %v", cfg.Normalization, NormalizationModes)}
	}

	// === Thresholds ===
	if len(cfg.Thresholds) == 0 {
		return ValidationError{"thresholds", "required"}
	}
	seen := make(map[contracts.Recommendation]bool, len(cfg.Thresholds))
	for i, th := range cfg.Thresholds {
		field := fmt.Sprintf("thresholds[%d]", i)
		if th.Name == "" {
			return ValidationError{field + ".name", "required"}
		}
		if seen[th.Name] {
			return ValidationError{field + ".name", fmt.Sprintf("duplicate %q", th.Name)}
		}
		seen[th.Name] = true

		if th.Min > 1 {
			return ValidationError{field + ".min", "must be <= 1"}
		}
		// 내림차순 정렬 필수
		if i > 0 && th.Min >= cfg.Thresholds[i-1].Min {
			return ValidationError{field + ".min", "thresholds must be strictly descending"}
		}
	}
	if last := cfg.Thresholds[len(cfg.Thresholds)-1]; last.Min > 0 {
		return ValidationError{"thresholds", "last threshold must have min <= 0 so every score is bucketed"}
	}

	// === Confidence ===
	if cfg.Confidence.Floor < 0 || cfg.Confidence.Floor > 1 {
		return ValidationError{"confidence.floor", "must be in [0, 1]"}
	}

	// === Distribution ===
	if cfg.Distribution.Buckets < 1 {
		return ValidationError{"distribution.buckets", "must be >= 1"}
	}

	return nil
}
