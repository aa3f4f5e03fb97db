package salary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/akashvinod-2003/empmanage/internal/domain"
	"github.com/akashvinod-2003/empmanage/internal/engine"
	"github.com/akashvinod-2003/empmanage/internal/events"
	"github.com/akashvinod-2003/empmanage/internal/messaging/kafka"
	"github.com/akashvinod-2003/empmanage/internal/performance"
	salaryerrors "github.com/akashvinod-2003/empmanage/internal/salary/errors"
	"github.com/akashvinod-2003/empmanage/internal/shared/config"
)

// historyMonths is how many trailing records are loaded for the detector.
const historyMonths = 3

//go:generate mockgen -source=salary_service.go -destination=mock/salary_service_mock.go -package=mock
type Service interface {
	// Create enters a salary record for a month. A second entry for the
	// same month conflicts unless marked corrective, in which case the
	// prior record is superseded rather than edited.
	Create(ctx context.Context, actor domain.Actor, req CreateSalaryRequest) (SalaryResponse, error)

	// Score re-runs the anomaly detector against the stored record and
	// refreshes its advisory fields.
	Score(ctx context.Context, id string) (SalaryResponse, error)

	// Payslip builds the human-readable digest for a record.
	Payslip(ctx context.Context, id string) (PayslipSummary, error)

	GetByID(ctx context.Context, id string) (SalaryResponse, error)
	GetAllByEmployee(ctx context.Context, employeeID string) ([]SalaryResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	ratings performance.Repository
	outbox  kafka.OutboxRepository
	cfg     config.Engine
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	ratings performance.Repository,
	cfg config.Engine,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, ratings, nil, cfg, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	ratings performance.Repository,
	outboxRepo kafka.OutboxRepository,
	cfg config.Engine,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("salary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		ratings: ratings,
		outbox:  outboxRepo,
		cfg:     cfg,
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateSalaryRequest) (SalaryResponse, error) {
	if !actor.Role.CanManagePayroll() {
		return SalaryResponse{}, salaryerrors.ErrForbidden
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidEmployeeID
	}
	month, err := parseMonth(req.Month)
	if err != nil {
		return SalaryResponse{}, err
	}
	if req.BasicSalary < 0 || req.Deductions < 0 {
		return SalaryResponse{}, salaryerrors.ErrNegativeAmount
	}
	netPay := req.BasicSalary - req.Deductions
	if netPay < 0 {
		return SalaryResponse{}, salaryerrors.ErrNegativeNetPay
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create salary begin tx failed", zap.Error(err))
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	var prior *SalaryRecord
	existing, err := qtx.FindActive(ctx, req.EmployeeID, month)
	switch {
	case err == nil:
		if !req.Corrective {
			return SalaryResponse{}, salaryerrors.ErrDuplicateActiveRecord
		}
		prior = existing
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first entry for the month
	default:
		return SalaryResponse{}, err
	}

	history, err := s.repo.ListHistory(ctx, req.EmployeeID, month, historyMonths)
	if err != nil {
		return SalaryResponse{}, err
	}

	explained, err := s.ratings.ExistsForMonth(ctx, req.EmployeeID, month)
	if err != nil {
		return SalaryResponse{}, err
	}

	rec := &SalaryRecord{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		Month:       month,
		BasicSalary: req.BasicSalary,
		Deductions:  req.Deductions,
		NetPay:      netPay,
		EnteredBy:   actor.ID,
	}

	assessment := engine.DetectSalaryAnomaly(s.cfg, snapshot(rec), snapshots(history), explained)
	rec.AnomalyFlag = assessment.Flagged
	if assessment.Flagged {
		summary := assessment.Summary
		rec.AnomalySummary = &summary
	}

	if prior != nil {
		ok, err := qtx.MarkSuperseded(ctx, prior.ID.String(), rec.ID.String())
		if err != nil {
			return SalaryResponse{}, err
		}
		if !ok {
			return SalaryResponse{}, salaryerrors.ErrDuplicateActiveRecord
		}
	}

	if err := qtx.Create(ctx, rec); err != nil {
		s.logger.Error("create salary persist failed", zap.Error(err))
		return SalaryResponse{}, mapRepositoryError(err)
	}

	if assessment.Flagged && s.outbox != nil {
		event, err := kafka.Stage(ctx, "salary_record", rec.ID.String(),
			events.SalaryAnomalyEvent, events.SalaryAnomalyTopic,
			events.SalaryAnomaly{
				RecordID:   rec.ID.String(),
				EmployeeID: rec.EmployeeID.String(),
				Month:      month.Format("2006-01"),
				Rules:      assessment.Rules,
				Summary:    assessment.Summary,
			})
		if err != nil {
			return SalaryResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			return SalaryResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create salary commit failed", zap.Error(err))
		return SalaryResponse{}, err
	}

	s.logger.Info("create salary success",
		zap.String("record_id", rec.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("month", req.Month),
		zap.Bool("anomaly", rec.AnomalyFlag),
		zap.Bool("corrective", prior != nil),
	)
	return mapToResponse(*rec), nil
}

func (s *service) Score(ctx context.Context, id string) (SalaryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidRecordID
	}

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if rec.Superseded {
		return SalaryResponse{}, salaryerrors.ErrRecordSuperseded
	}

	assessment, err := s.assess(ctx, rec)
	if err != nil {
		return SalaryResponse{}, err
	}

	rec.AnomalyFlag = assessment.Flagged
	rec.AnomalySummary = nil
	if assessment.Flagged {
		summary := assessment.Summary
		rec.AnomalySummary = &summary
	}
	if err := s.repo.UpdateAssessment(ctx, id, rec.AnomalyFlag, rec.AnomalySummary); err != nil {
		return SalaryResponse{}, err
	}

	s.logger.Info("score salary success",
		zap.String("record_id", id),
		zap.Bool("anomaly", rec.AnomalyFlag),
	)
	return mapToResponse(*rec), nil
}

func (s *service) Payslip(ctx context.Context, id string) (PayslipSummary, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PayslipSummary{}, salaryerrors.ErrInvalidRecordID
	}

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PayslipSummary{}, mapRepositoryError(err)
	}

	history, err := s.repo.ListHistory(ctx, rec.EmployeeID.String(), rec.Month, historyMonths)
	if err != nil {
		return PayslipSummary{}, err
	}

	assessment, err := s.assess(ctx, rec)
	if err != nil {
		return PayslipSummary{}, err
	}

	summary := PayslipSummary{
		Headline: fmt.Sprintf("Net pay %.2f for %s (basic %.2f, deductions %.2f).",
			rec.NetPay, rec.Month.Format("January 2006"), rec.BasicSalary, rec.Deductions),
		Insights: []string{},
		Warnings: assessment.Rules,
	}

	if len(history) > 0 {
		var sum float64
		for _, h := range history {
			sum += h.NetPay
		}
		avg := sum / float64(len(history))
		switch {
		case rec.NetPay > avg:
			summary.Insights = append(summary.Insights, fmt.Sprintf(
				"Net pay is %.2f above the %d-month average of %.2f.", rec.NetPay-avg, len(history), avg))
		case rec.NetPay < avg:
			summary.Insights = append(summary.Insights, fmt.Sprintf(
				"Net pay is %.2f below the %d-month average of %.2f.", avg-rec.NetPay, len(history), avg))
		default:
			summary.Insights = append(summary.Insights, "Net pay matches the trailing average.")
		}
	} else {
		summary.Insights = append(summary.Insights, "First salary record on file for this employee.")
	}

	if rec.BasicSalary > 0 {
		summary.Insights = append(summary.Insights, fmt.Sprintf(
			"Deductions are %.1f%% of basic salary.", rec.Deductions/rec.BasicSalary*100))
	}

	return summary, nil
}

// assess reloads the detector inputs and re-runs it for the record.
func (s *service) assess(ctx context.Context, rec *SalaryRecord) (engine.SalaryAssessment, error) {
	history, err := s.repo.ListHistory(ctx, rec.EmployeeID.String(), rec.Month, historyMonths)
	if err != nil {
		return engine.SalaryAssessment{}, err
	}
	explained, err := s.ratings.ExistsForMonth(ctx, rec.EmployeeID.String(), rec.Month)
	if err != nil {
		return engine.SalaryAssessment{}, err
	}
	return engine.DetectSalaryAnomaly(s.cfg, snapshot(rec), snapshots(history), explained), nil
}

func (s *service) GetByID(ctx context.Context, id string) (SalaryResponse, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*rec), nil
}

func (s *service) GetAllByEmployee(ctx context.Context, employeeID string) ([]SalaryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, salaryerrors.ErrInvalidEmployeeID
	}
	records, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	resp := make([]SalaryResponse, len(records))
	for i, rec := range records {
		resp[i] = mapToResponse(rec)
	}
	return resp, nil
}

func snapshot(rec *SalaryRecord) engine.SalarySnapshot {
	return engine.SalarySnapshot{
		Month:      rec.Month,
		Basic:      rec.BasicSalary,
		Deductions: rec.Deductions,
		Net:        rec.NetPay,
	}
}

func snapshots(records []SalaryRecord) []engine.SalarySnapshot {
	out := make([]engine.SalarySnapshot, len(records))
	for i := range records {
		out[i] = snapshot(&records[i])
	}
	return out
}

func parseMonth(v string) (time.Time, error) {
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return time.Time{}, salaryerrors.ErrInvalidMonthFormat
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, sql.ErrNoRows) {
		return salaryerrors.ErrRecordNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_salary_employee_month_active" {
			return salaryerrors.ErrDuplicateActiveRecord
		}
	}
	return err
}

func mapToResponse(rec SalaryRecord) SalaryResponse {
	resp := SalaryResponse{
		ID:             rec.ID.String(),
		EmployeeID:     rec.EmployeeID.String(),
		Month:          rec.Month.Format("2006-01"),
		BasicSalary:    rec.BasicSalary,
		Deductions:     rec.Deductions,
		NetPay:         rec.NetPay,
		AnomalyFlag:    rec.AnomalyFlag,
		AnomalySummary: rec.AnomalySummary,
		Superseded:     rec.Superseded,
	}
	if rec.SupersededBy != nil {
		v := rec.SupersededBy.String()
		resp.SupersededBy = &v
	}
	return resp
}
