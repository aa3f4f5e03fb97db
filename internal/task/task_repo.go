package task

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=task_repo.go -destination=mock/task_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	FindAll(ctx context.Context) ([]Task, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]Task, error)
	CountOpenByEmployee(ctx context.Context, employeeID string) (int, error)

	// UpdateStatus moves status from fromStatus to toStatus with a guard
	// on the current value. Returns false when the guard misses.
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus string, completedAt *time.Time) (bool, error)
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

func (r *repository) Create(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Task, error) {
	var t Task
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) FindAll(ctx context.Context) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) CountOpenByEmployee(ctx context.Context, employeeID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Task{}).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", StatusDone).
		Count(&count).Error
	return int(count), err
}

func (r *repository) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string, completedAt *time.Time) (bool, error) {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, `
			UPDATE tasks
			SET status = $1, completed_at = $2, updated_at = NOW()
			WHERE id = $3 AND status = $4 AND deleted_at IS NULL
		`, toStatus, completedAt, id, fromStatus)
		if err != nil {
			return false, err
		}
		affected, err := res.RowsAffected()
		return affected == 1, err
	}

	res := r.db.WithContext(ctx).
		Model(&Task{}).
		Where("id = ?", id).
		Where("status = ?", fromStatus).
		Updates(map[string]any{"status": toStatus, "completed_at": completedAt})
	return res.RowsAffected == 1, res.Error
}
