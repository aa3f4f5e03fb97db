package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	FindByID(ctx context.Context, id string) (*Attendance, error)
	FindAll(ctx context.Context) ([]Attendance, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]Attendance, error)

	// ListWindow returns the employee's records with date in [from, to].
	ListWindow(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)

	// UpdateReview moves review_status from fromStatus to toStatus,
	// guarded so a terminal record is never rewritten. Returns false
	// when the guard did not match.
	UpdateReview(ctx context.Context, id, fromStatus, toStatus, reviewerID string, at time.Time) (bool, error)

	// UpdateAssessment rewrites only the advisory fields; used by the
	// batch re-scoring job.
	UpdateAssessment(ctx context.Context, id string, score float64, reason string) error

	// CountPendingReview counts the employee's records awaiting review.
	CountPendingReview(ctx context.Context, employeeID string) (int, error)
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

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			INSERT INTO attendances
				(id, employee_id, date, status, review_status, submitted_by,
				 anomaly_score, anomaly_reason, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		`, a.ID, a.EmployeeID, a.Date, a.Status, a.ReviewStatus, a.SubmittedBy,
			a.AnomalyScore, a.AnomalyReason)
		return err
	}
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindAll(ctx context.Context) ([]Attendance, error) {
	var records []Attendance
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]Attendance, error) {
	var records []Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("date DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) ListWindow(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error) {
	var records []Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date BETWEEN ? AND ?", from, to).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) UpdateReview(ctx context.Context, id, fromStatus, toStatus, reviewerID string, at time.Time) (bool, error) {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, `
			UPDATE attendances
			SET review_status = $1, reviewed_by = $2, reviewed_at = $3, updated_at = NOW()
			WHERE id = $4 AND review_status = $5 AND deleted_at IS NULL
		`, toStatus, reviewerID, at, id, fromStatus)
		if err != nil {
			return false, err
		}
		affected, err := res.RowsAffected()
		return affected == 1, err
	}

	res := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("id = ?", id).
		Where("review_status = ?", fromStatus).
		Updates(map[string]any{
			"review_status": toStatus,
			"reviewed_by":   reviewerID,
			"reviewed_at":   at,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) CountPendingReview(ctx context.Context, employeeID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("employee_id = ?", employeeID).
		Where("review_status = ?", ReviewPending).
		Count(&count).Error
	return int(count), err
}

func (r *repository) UpdateAssessment(ctx context.Context, id string, score float64, reason string) error {
	return r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"anomaly_score":  score,
			"anomaly_reason": reason,
		}).Error
}
