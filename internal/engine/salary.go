package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/akashvinod-2003/empmanage/internal/shared/config"
)

// trailingMonths is how many prior records feed the average-net-pay rule.
const trailingMonths = 3

// SalarySnapshot is one salary record as seen by the detector.
type SalarySnapshot struct {
	Month      time.Time
	Basic      float64
	Deductions float64
	Net        float64
}

type SalaryAssessment struct {
	Flagged bool
	Rules   []string // one entry per rule that fired, fixed order
	Summary string
}

// DetectSalaryAnomaly flags a salary record against the employee's
// trailing history. history must be ordered most recent month first.
// compChangeExplained reports whether a performance rating or role
// change accompanies a basic-salary change this month.
func DetectSalaryAnomaly(cfg config.Engine, rec SalarySnapshot, history []SalarySnapshot, compChangeExplained bool) SalaryAssessment {
	var rules []string

	if avg, ok := trailingAverageNet(history); ok && avg > 0 {
		deviation := math.Abs(rec.Net-avg) / avg
		if deviation > cfg.SalaryDeviationPct {
			rules = append(rules, fmt.Sprintf(
				"net pay deviates %.1f%% from the trailing %d-month average (limit %.0f%%)",
				deviation*100, trailingMonths, cfg.SalaryDeviationPct*100))
		}
	}

	if rec.Basic > 0 {
		fraction := rec.Deductions / rec.Basic
		if fraction > cfg.DeductionFractionMax {
			rules = append(rules, fmt.Sprintf(
				"deductions are %.1f%% of basic salary (limit %.0f%%)",
				fraction*100, cfg.DeductionFractionMax*100))
		}
	}

	if len(history) > 0 && rec.Basic != history[0].Basic && !compChangeExplained {
		rules = append(rules, "basic salary changed from the prior month without a performance rating or role change")
	}

	summary := "No salary anomalies detected."
	if len(rules) > 0 {
		summary = "Salary anomaly: " + strings.Join(rules, "; ") + "."
	}

	return SalaryAssessment{
		Flagged: len(rules) > 0,
		Rules:   rules,
		Summary: summary,
	}
}

func trailingAverageNet(history []SalarySnapshot) (float64, bool) {
	n := len(history)
	if n == 0 {
		return 0, false
	}
	if n > trailingMonths {
		n = trailingMonths
	}
	var sum float64
	for _, h := range history[:n] {
		sum += h.Net
	}
	return sum / float64(n), true
}
