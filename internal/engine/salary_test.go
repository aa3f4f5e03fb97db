package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/akashvinod-2003/empmanage/internal/engine"
	"github.com/akashvinod-2003/empmanage/internal/shared/config"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func steadyHistory() []engine.SalarySnapshot {
	return []engine.SalarySnapshot{
		{Month: month(2026, 7), Basic: 4500, Deductions: 500, Net: 4000},
		{Month: month(2026, 6), Basic: 4500, Deductions: 500, Net: 4000},
		{Month: month(2026, 5), Basic: 4500, Deductions: 500, Net: 4000},
	}
}

func TestDetectSalaryAnomaly_Clean(t *testing.T) {
	cfg := config.DefaultEngine()
	rec := engine.SalarySnapshot{Month: month(2026, 8), Basic: 4500, Deductions: 500, Net: 4000}

	got := engine.DetectSalaryAnomaly(cfg, rec, steadyHistory(), false)

	assert.False(t, got.Flagged)
	assert.Empty(t, got.Rules)
	assert.Equal(t, "No salary anomalies detected.", got.Summary)
}

func TestDetectSalaryAnomaly_NetPayDeviation(t *testing.T) {
	cfg := config.DefaultEngine()

	// Net pay 50% below the trailing three-month average.
	rec := engine.SalarySnapshot{Month: month(2026, 8), Basic: 4500, Deductions: 2500, Net: 2000}

	got := engine.DetectSalaryAnomaly(cfg, rec, steadyHistory(), false)

	assert.True(t, got.Flagged)
	assert.Contains(t, got.Summary, "Salary anomaly:")
	assert.Contains(t, got.Rules[0], "trailing 3-month average")
}

func TestDetectSalaryAnomaly_DeductionFraction(t *testing.T) {
	cfg := config.DefaultEngine()

	// Deductions at 45% of basic, over the 40% limit, with net pay kept
	// inside the deviation bound.
	history := []engine.SalarySnapshot{
		{Month: month(2026, 7), Basic: 1000, Deductions: 450, Net: 550},
	}
	rec := engine.SalarySnapshot{Month: month(2026, 8), Basic: 1000, Deductions: 450, Net: 550}

	got := engine.DetectSalaryAnomaly(cfg, rec, history, false)

	assert.True(t, got.Flagged)
	assert.Len(t, got.Rules, 1)
	assert.Contains(t, got.Rules[0], "deductions")
}

func TestDetectSalaryAnomaly_UnexplainedBasicChange(t *testing.T) {
	cfg := config.DefaultEngine()

	history := []engine.SalarySnapshot{
		{Month: month(2026, 7), Basic: 1000, Deductions: 250, Net: 750},
	}
	rec := engine.SalarySnapshot{Month: month(2026, 8), Basic: 1100, Deductions: 250, Net: 850}

	unexplained := engine.DetectSalaryAnomaly(cfg, rec, history, false)
	assert.True(t, unexplained.Flagged)
	assert.Contains(t, unexplained.Rules[0], "basic salary changed")

	explained := engine.DetectSalaryAnomaly(cfg, rec, history, true)
	assert.False(t, explained.Flagged)
}

func TestDetectSalaryAnomaly_NoHistory(t *testing.T) {
	cfg := config.DefaultEngine()
	rec := engine.SalarySnapshot{Month: month(2026, 8), Basic: 3000, Deductions: 300, Net: 2700}

	got := engine.DetectSalaryAnomaly(cfg, rec, nil, false)

	assert.False(t, got.Flagged)
}

func TestDetectSalaryAnomaly_MultipleRulesEnumerated(t *testing.T) {
	cfg := config.DefaultEngine()

	// Deep net drop, heavy deductions and a basic change all at once.
	rec := engine.SalarySnapshot{Month: month(2026, 8), Basic: 3000, Deductions: 1500, Net: 1500}

	got := engine.DetectSalaryAnomaly(cfg, rec, steadyHistory(), false)

	assert.True(t, got.Flagged)
	assert.Len(t, got.Rules, 3)
	assert.Contains(t, got.Summary, "; ")
}

func TestDetectSalaryAnomaly_Deterministic(t *testing.T) {
	cfg := config.DefaultEngine()
	rec := engine.SalarySnapshot{Month: month(2026, 8), Basic: 4500, Deductions: 2500, Net: 2000}
	history := steadyHistory()

	first := engine.DetectSalaryAnomaly(cfg, rec, history, false)
	second := engine.DetectSalaryAnomaly(cfg, rec, history, false)

	assert.Equal(t, first, second)
}
