package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)

	// HasOverlappingPeriod reports whether a PENDING or APPROVED request
	// for the employee overlaps [startDate, endDate].
	HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)

	// UpdateStatus moves status from fromStatus to toStatus with a guard
	// on the current value, so a terminal request is never rewritten.
	// Returns false when the guard did not match.
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus, deciderID string, at time.Time) (bool, error)

	// CountDecided returns (approved, decided) requests for the employee
	// created after the lookback cutoff.
	CountDecided(ctx context.Context, employeeID string, since time.Time) (int, int, error)

	// CountDepartmentOnLeave returns how many employees of the department
	// (requester excluded) hold an APPROVED request overlapping the span.
	CountDepartmentOnLeave(ctx context.Context, department, excludeEmployeeID string, startDate, endDate time.Time) (int, error)

	// CountPendingByEmployee counts the employee's undecided requests.
	CountPendingByEmployee(ctx context.Context, employeeID string) (int, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			INSERT INTO leave_requests
				(id, employee_id, leave_type, start_date, end_date, total_days,
				 reason, status, recommend_score, recommend_label, recommend_reasons,
				 created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		`, l.ID, l.EmployeeID, l.LeaveType, l.StartDate, l.EndDate, l.TotalDays,
			l.Reason, l.Status, l.RecommendScore, l.RecommendLabel, l.RecommendReasons)
		return err
	}
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	if r.tx != nil {
		var count int
		err := r.tx.QueryRowContext(ctx, `
			SELECT COUNT(*)
			FROM leave_requests
			WHERE employee_id = $1
			  AND status IN ('PENDING', 'APPROVED')
			  AND NOT (end_date < $2 OR start_date > $3)
			  AND deleted_at IS NULL
		`, employeeID, startDate, endDate).Scan(&count)
		return count > 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) UpdateStatus(ctx context.Context, id, fromStatus, toStatus, deciderID string, at time.Time) (bool, error) {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, `
			UPDATE leave_requests
			SET status = $1, decided_by = $2, decided_at = $3, updated_at = NOW()
			WHERE id = $4 AND status = $5 AND deleted_at IS NULL
		`, toStatus, deciderID, at, id, fromStatus)
		if err != nil {
			return false, err
		}
		affected, err := res.RowsAffected()
		return affected == 1, err
	}

	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Where("status = ?", fromStatus).
		Updates(map[string]any{
			"status":     toStatus,
			"decided_by": deciderID,
			"decided_at": at,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) CountDecided(ctx context.Context, employeeID string, since time.Time) (int, int, error) {
	var counts struct {
		Approved int64
		Decided  int64
	}
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Select(
			"COUNT(*) FILTER (WHERE status = ?) AS approved, COUNT(*) AS decided",
			StatusApproved,
		).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusApproved, StatusRejected}).
		Where("created_at >= ?", since).
		Scan(&counts).Error
	return int(counts.Approved), int(counts.Decided), err
}

func (r *repository) CountPendingByEmployee(ctx context.Context, employeeID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusPending).
		Count(&count).Error
	return int(count), err
}

func (r *repository) CountDepartmentOnLeave(ctx context.Context, department, excludeEmployeeID string, startDate, endDate time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Distinct("leave_requests.employee_id").
		Joins("JOIN employees ON employees.id = leave_requests.employee_id").
		Where("employees.department = ?", department).
		Where("employees.deleted_at IS NULL").
		Where("leave_requests.employee_id <> ?", excludeEmployeeID).
		Where("leave_requests.status = ?", StatusApproved).
		Where("NOT (leave_requests.end_date < ? OR leave_requests.start_date > ?)", startDate, endDate).
		Count(&count).Error
	return int(count), err
}
