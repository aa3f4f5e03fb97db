package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/akashvinod-2003/empmanage/internal/employee"
	ledgererrors "github.com/akashvinod-2003/empmanage/internal/ledger/errors"
)

// maxApplyAttempts bounds the compare-and-update retry loop. A retry
// happens only when another writer changed the balance between our read
// and our update, so contention this deep means something is wrong.
const maxApplyAttempts = 3

//go:generate mockgen -source=ledger_service.go -destination=mock/ledger_service_mock.go -package=mock
type Service interface {
	// ReserveCheck reports whether the balance covers days. Pure read.
	ReserveCheck(ctx context.Context, employeeID string, days int) (bool, error)

	// Apply deducts days exactly once for leaveRequestID. A repeat call
	// for the same request is a silent no-op, which makes approval safe
	// to retry. Fails with InsufficientBalance when the deduction would
	// take the balance negative.
	Apply(ctx context.Context, employeeID, leaveRequestID string, days int) error

	// Reverse returns days to the balance for a previously applied
	// request. Fails with NotApplied when the request was never applied
	// or was already reversed.
	Reverse(ctx context.Context, employeeID, leaveRequestID string, days int) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("ledger.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.service")
	}
	return &service{db: db, repo: repo, employees: employees, logger: l}
}

func (s *service) ReserveCheck(ctx context.Context, employeeID string, days int) (bool, error) {
	if days <= 0 {
		return false, ledgererrors.ErrInvalidDays
	}
	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return false, err
	}
	return emp.LeaveBalance >= days, nil
}

func (s *service) Apply(ctx context.Context, employeeID, leaveRequestID string, days int) error {
	if days <= 0 {
		return ledgererrors.ErrInvalidDays
	}
	requestUUID, err := uuid.Parse(leaveRequestID)
	if err != nil {
		return ledgererrors.ErrInvalidDays
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return ledgererrors.ErrInvalidDays
	}

	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		applied, err := s.tryApply(ctx, employeeUUID, requestUUID, days)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
		// Balance moved under us; re-read and try again.
		s.logger.Debug("apply balance contention, retrying",
			zap.String("leave_request_id", leaveRequestID),
			zap.Int("attempt", attempt),
		)
	}

	s.logger.Warn("apply exhausted retries",
		zap.String("employee_id", employeeID),
		zap.String("leave_request_id", leaveRequestID),
	)
	return ledgererrors.ErrBalanceContention
}

// tryApply runs one optimistic attempt inside its own transaction. The
// applied-set row and the balance decrement commit together or not at
// all. Returns (false, nil) when the compare-and-update lost the race.
func (s *service) tryApply(ctx context.Context, employeeID, requestID uuid.UUID, days int) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	etx := s.employees.WithTx(tx)

	existing, err := qtx.FindApplication(ctx, requestID.String())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err == nil && existing != nil {
		// Idempotency collision: absorbed, never surfaced as failure.
		s.logger.Info("apply skipped, request already applied",
			zap.String("leave_request_id", requestID.String()),
		)
		return true, nil
	}

	emp, err := etx.FindByID(ctx, employeeID.String())
	if err != nil {
		return false, err
	}
	if emp.LeaveBalance < days {
		return false, ledgererrors.ErrInsufficientBalance
	}

	app := &LeaveApplication{
		ID:             uuid.New(),
		LeaveRequestID: requestID,
		EmployeeID:     employeeID,
		Days:           days,
		AppliedAt:      time.Now().UTC(),
	}
	if err := qtx.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, ledgererrors.ErrAlreadyApplied) {
			// Another caller won the insert race; their deduction stands.
			return true, nil
		}
		return false, err
	}

	ok, err := etx.UpdateBalance(ctx, employeeID.String(), emp.LeaveBalance-days, emp.LeaveBalance)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	s.logger.Info("leave days applied",
		zap.String("employee_id", employeeID.String()),
		zap.String("leave_request_id", requestID.String()),
		zap.Int("days", days),
		zap.Int("balance", emp.LeaveBalance-days),
	)
	return true, nil
}

func (s *service) Reverse(ctx context.Context, employeeID, leaveRequestID string, days int) error {
	if days <= 0 {
		return ledgererrors.ErrInvalidDays
	}

	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		reversed, err := s.tryReverse(ctx, employeeID, leaveRequestID, days)
		if err != nil {
			return err
		}
		if reversed {
			return nil
		}
	}
	return ledgererrors.ErrBalanceContention
}

func (s *service) tryReverse(ctx context.Context, employeeID, leaveRequestID string, days int) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	etx := s.employees.WithTx(tx)

	app, err := qtx.FindApplication(ctx, leaveRequestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, ledgererrors.ErrNotApplied
	}
	if err != nil {
		return false, err
	}
	if app.ReversedAt != nil {
		return false, ledgererrors.ErrNotApplied
	}

	emp, err := etx.FindByID(ctx, employeeID)
	if err != nil {
		return false, err
	}

	ok, err := etx.UpdateBalance(ctx, employeeID, emp.LeaveBalance+days, emp.LeaveBalance)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if err := qtx.MarkReversed(ctx, app.ID.String(), time.Now().UTC()); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	s.logger.Info("leave days reversed",
		zap.String("employee_id", employeeID),
		zap.String("leave_request_id", leaveRequestID),
		zap.Int("days", days),
	)
	return true, nil
}
