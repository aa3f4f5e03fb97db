package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/akashvinod-2003/empmanage/internal/shared/apperror"
)

// Engine holds the threshold surface for the anomaly and recommendation
// scorers. Every field has a default; env vars override. Malformed values
// fail at startup, never per-call.
type Engine struct {
	AttendanceWindowDays   int     // trailing window for the attendance flagger
	AbsenceThreshold       int     // absences in window before flagging
	LateThreshold          int     // lates in window before flagging
	DeviationSigma         float64 // standard deviations from the rolling absence rate
	SalaryDeviationPct     float64 // net pay deviation vs trailing average (fraction)
	DeductionFractionMax   float64 // deductions over basic salary (fraction)
	DepartmentCapacity     float64 // fraction of a department on overlapping leave
	ApprovalLookbackMonths int     // history window for the approval rate
}

func DefaultEngine() Engine {
	return Engine{
		AttendanceWindowDays:   30,
		AbsenceThreshold:       3,
		LateThreshold:          5,
		DeviationSigma:         2.0,
		SalaryDeviationPct:     0.25,
		DeductionFractionMax:   0.40,
		DepartmentCapacity:     0.30,
		ApprovalLookbackMonths: 6,
	}
}

// EngineFromEnv builds the engine config from defaults plus env overrides.
func EngineFromEnv() (Engine, error) {
	cfg := DefaultEngine()

	var err error
	if cfg.AttendanceWindowDays, err = intEnv("ENGINE_ATTENDANCE_WINDOW_DAYS", cfg.AttendanceWindowDays); err != nil {
		return Engine{}, err
	}
	if cfg.AbsenceThreshold, err = intEnv("ENGINE_ABSENCE_THRESHOLD", cfg.AbsenceThreshold); err != nil {
		return Engine{}, err
	}
	if cfg.LateThreshold, err = intEnv("ENGINE_LATE_THRESHOLD", cfg.LateThreshold); err != nil {
		return Engine{}, err
	}
	if cfg.DeviationSigma, err = floatEnv("ENGINE_DEVIATION_SIGMA", cfg.DeviationSigma); err != nil {
		return Engine{}, err
	}
	if cfg.SalaryDeviationPct, err = floatEnv("ENGINE_SALARY_DEVIATION_PCT", cfg.SalaryDeviationPct); err != nil {
		return Engine{}, err
	}
	if cfg.DeductionFractionMax, err = floatEnv("ENGINE_DEDUCTION_FRACTION_MAX", cfg.DeductionFractionMax); err != nil {
		return Engine{}, err
	}
	if cfg.DepartmentCapacity, err = floatEnv("ENGINE_DEPARTMENT_CAPACITY", cfg.DepartmentCapacity); err != nil {
		return Engine{}, err
	}
	if cfg.ApprovalLookbackMonths, err = intEnv("ENGINE_APPROVAL_LOOKBACK_MONTHS", cfg.ApprovalLookbackMonths); err != nil {
		return Engine{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Engine{}, err
	}
	return cfg, nil
}

func (c Engine) Validate() error {
	switch {
	case c.AttendanceWindowDays < 1:
		return configErr("attendance window must be at least 1 day")
	case c.AbsenceThreshold < 0 || c.LateThreshold < 0:
		return configErr("absence and late thresholds must be non-negative")
	case c.DeviationSigma <= 0:
		return configErr("deviation sigma must be positive")
	case c.SalaryDeviationPct <= 0 || c.SalaryDeviationPct > 1:
		return configErr("salary deviation must be a fraction in (0,1]")
	case c.DeductionFractionMax <= 0 || c.DeductionFractionMax > 1:
		return configErr("deduction fraction must be a fraction in (0,1]")
	case c.DepartmentCapacity <= 0 || c.DepartmentCapacity > 1:
		return configErr("department capacity must be a fraction in (0,1]")
	case c.ApprovalLookbackMonths < 1:
		return configErr("approval lookback must be at least 1 month")
	}
	return nil
}

func configErr(msg string) error {
	return apperror.New(apperror.CodeConfiguration, msg, http.StatusInternalServerError)
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, configErr(fmt.Sprintf("%s must be an integer, got %q", key, raw))
	}
	return v, nil
}

func floatEnv(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, configErr(fmt.Sprintf("%s must be a number, got %q", key, raw))
	}
	return v, nil
}
