package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	FindByDepartment(ctx context.Context, department string) ([]Employee, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id string) error

	// UpdateBalance performs an optimistic compare-and-update on the
	// leave balance. Returns false when the expected balance no longer
	// matches, i.e. a concurrent writer got there first.
	UpdateBalance(ctx context.Context, id string, newBalance, expectedBalance int) (bool, error)
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

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	if r.tx != nil {
		// The transactional read takes a row lock, so concurrent leave
		// submits and balance writers for the same employee serialize.
		var e Employee
		err := r.tx.QueryRowContext(ctx, `
			SELECT id, full_name, email, password_hash, role, department, leave_balance
			FROM employees
			WHERE id = $1 AND deleted_at IS NULL
			FOR UPDATE
		`, id).Scan(
			&e.ID, &e.FullName, &e.Email, &e.PasswordHash,
			&e.Role, &e.Department, &e.LeaveBalance,
		)
		if err == sql.ErrNoRows {
			return nil, gorm.ErrRecordNotFound
		}
		if err != nil {
			return nil, err
		}
		return &e, nil
	}

	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "email = ?", email).Error
	return &e, err
}

func (r *repository) FindByDepartment(ctx context.Context, department string) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Where("department = ?", department).
		Find(&employees).Error
	return employees, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Employee{}, "id = ?", id).Error
}

func (r *repository) UpdateBalance(ctx context.Context, id string, newBalance, expectedBalance int) (bool, error) {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, `
			UPDATE employees
			SET leave_balance = $1, updated_at = NOW()
			WHERE id = $2 AND leave_balance = $3 AND deleted_at IS NULL
		`, newBalance, id, expectedBalance)
		if err != nil {
			return false, err
		}
		affected, err := res.RowsAffected()
		return affected == 1, err
	}

	res := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Where("leave_balance = ?", expectedBalance).
		Update("leave_balance", newBalance)
	return res.RowsAffected == 1, res.Error
}
