package performance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=performance_repo.go -destination=mock/performance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *PerformanceRating) error
	FindByID(ctx context.Context, id string) (*PerformanceRating, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]PerformanceRating, error)

	// ExistsForMonth reports whether the employee has a rating for the
	// given month (normalized to its first day).
	ExistsForMonth(ctx context.Context, employeeID string, month time.Time) (bool, error)
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

func (r *repository) Create(ctx context.Context, p *PerformanceRating) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			INSERT INTO performance_ratings (id, employee_id, month, rating, comments, reviewer_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		`, p.ID, p.EmployeeID, p.Month, p.Rating, p.Comments, p.ReviewerID)
		return err
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*PerformanceRating, error) {
	var p PerformanceRating
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]PerformanceRating, error) {
	var ratings []PerformanceRating
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("month DESC").
		Find(&ratings).Error
	return ratings, err
}

func (r *repository) ExistsForMonth(ctx context.Context, employeeID string, month time.Time) (bool, error) {
	if r.tx != nil {
		var count int
		err := r.tx.QueryRowContext(ctx, `
			SELECT COUNT(1) FROM performance_ratings
			WHERE employee_id = $1 AND month = $2 AND deleted_at IS NULL
		`, employeeID, month).Scan(&count)
		return count > 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&PerformanceRating{}).
		Where("employee_id = ?", employeeID).
		Where("month = ?", month).
		Count(&count).Error
	return count > 0, err
}
