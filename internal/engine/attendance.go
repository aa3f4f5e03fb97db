// Package engine holds the anomaly and recommendation scorers. Every
// scorer is a pure function of (current record, bounded history window,
// config): same inputs always produce the same assessment, which keeps
// the workflow operations safe to retry and lets a batch job re-run the
// scorers without touching workflow state.
package engine

import (
	"math"
	"time"

	"github.com/akashvinod-2003/empmanage/internal/domain"
	"github.com/akashvinod-2003/empmanage/internal/shared/config"
)

// AttendanceDay is one day of attendance history handed to the flagger.
type AttendanceDay struct {
	Date   time.Time
	Status string
}

type FlagReason string

const (
	ReasonNone              FlagReason = ""
	ReasonExcessiveAbsence  FlagReason = "EXCESSIVE_ABSENCE"
	ReasonExcessiveLateness FlagReason = "EXCESSIVE_LATENESS"
	ReasonPatternDeviation  FlagReason = "PATTERN_DEVIATION"
)

type AttendanceAssessment struct {
	Flagged bool
	Reason  FlagReason
	Score   float64
}

// recentStreakDays is the short span compared against the rolling
// absence rate for the pattern-deviation rule.
const recentStreakDays = 7

// FlagAttendance scores a new attendance record against the employee's
// trailing window. history may contain days outside the window; they are
// ignored. The current day is included in all counts.
func FlagAttendance(cfg config.Engine, history []AttendanceDay, current AttendanceDay) AttendanceAssessment {
	windowStart := current.Date.AddDate(0, 0, -cfg.AttendanceWindowDays)

	var absent, late, total int
	var recentAbsent int
	recentStart := current.Date.AddDate(0, 0, -recentStreakDays)

	days := make([]AttendanceDay, 0, len(history)+1)
	for _, d := range history {
		if d.Date.Before(windowStart) || d.Date.After(current.Date) {
			continue
		}
		days = append(days, d)
	}
	days = append(days, current)

	for _, d := range days {
		total++
		switch d.Status {
		case domain.AttendanceAbsent:
			absent++
			if !d.Date.Before(recentStart) {
				recentAbsent++
			}
		case domain.AttendanceLate:
			late++
		}
	}

	var reason FlagReason
	var score float64

	if absent > cfg.AbsenceThreshold {
		reason = ReasonExcessiveAbsence
		score = ratioScore(absent, cfg.AbsenceThreshold)
	}
	if late > cfg.LateThreshold {
		if reason == ReasonNone {
			reason = ReasonExcessiveLateness
		}
		score = math.Max(score, ratioScore(late, cfg.LateThreshold))
	}
	if devScore, fired := deviationScore(cfg, total, absent, recentAbsent); fired {
		if reason == ReasonNone {
			reason = ReasonPatternDeviation
		}
		score = math.Max(score, devScore)
	}

	return AttendanceAssessment{
		Flagged: reason != ReasonNone,
		Reason:  reason,
		Score:   score,
	}
}

// deviationScore compares the last week against the rolling absence
// rate of the full window. Fires when the recent count sits more than
// DeviationSigma standard deviations above expectation.
func deviationScore(cfg config.Engine, total, absent, recentAbsent int) (float64, bool) {
	// Too little history to estimate a rate.
	if total < 2*recentStreakDays {
		return 0, false
	}
	p := float64(absent) / float64(total)
	if p <= 0 || p >= 1 {
		return 0, false
	}
	expected := p * recentStreakDays
	std := math.Sqrt(recentStreakDays * p * (1 - p))
	z := (float64(recentAbsent) - expected) / std
	if z <= cfg.DeviationSigma {
		return 0, false
	}
	return clamp01(z / (2 * cfg.DeviationSigma)), true
}

// ratioScore grows linearly past the threshold and saturates at twice it.
func ratioScore(count, threshold int) float64 {
	return clamp01(float64(count) / float64(2*(threshold+1)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
