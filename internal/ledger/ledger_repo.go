package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	ledgererrors "github.com/akashvinod-2003/empmanage/internal/ledger/errors"
)

//go:generate mockgen -source=ledger_repo.go -destination=mock/ledger_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindApplication(ctx context.Context, leaveRequestID string) (*LeaveApplication, error)
	CreateApplication(ctx context.Context, app *LeaveApplication) error
	MarkReversed(ctx context.Context, id string, at time.Time) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) FindApplication(ctx context.Context, leaveRequestID string) (*LeaveApplication, error) {
	if r.tx != nil {
		row := r.tx.QueryRowContext(ctx, `
			SELECT id, leave_request_id, employee_id, days, applied_at, reversed_at
			FROM leave_applications
			WHERE leave_request_id = $1
		`, leaveRequestID)

		var app LeaveApplication
		err := row.Scan(&app.ID, &app.LeaveRequestID, &app.EmployeeID, &app.Days, &app.AppliedAt, &app.ReversedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gorm.ErrRecordNotFound
		}
		if err != nil {
			return nil, err
		}
		return &app, nil
	}

	var app LeaveApplication
	err := r.db.WithContext(ctx).First(&app, "leave_request_id = ?", leaveRequestID).Error
	return &app, err
}

func (r *repository) CreateApplication(ctx context.Context, app *LeaveApplication) error {
	var err error
	if r.tx != nil {
		_, err = r.tx.ExecContext(ctx, `
			INSERT INTO leave_applications (id, leave_request_id, employee_id, days, applied_at)
			VALUES ($1, $2, $3, $4, $5)
		`, app.ID, app.LeaveRequestID, app.EmployeeID, app.Days, app.AppliedAt)
	} else {
		err = r.db.WithContext(ctx).Create(app).Error
	}
	return mapUniqueViolation(err)
}

func (r *repository) MarkReversed(ctx context.Context, id string, at time.Time) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			UPDATE leave_applications SET reversed_at = $1 WHERE id = $2
		`, at, id)
		return err
	}
	return r.db.WithContext(ctx).
		Model(&LeaveApplication{}).
		Where("id = ?", id).
		Update("reversed_at", at).Error
}

func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_leave_application_request" {
			return ledgererrors.ErrAlreadyApplied
		}
	}
	return err
}
