package employee_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/akashvinod-2003/empmanage/internal/domain"
	"github.com/akashvinod-2003/empmanage/internal/employee"
	employeeerrors "github.com/akashvinod-2003/empmanage/internal/employee/errors"
)

type fakeEmployeeRepository struct {
	createFn        func(ctx context.Context, e *employee.Employee) error
	findAllFn       func(ctx context.Context) ([]employee.Employee, error)
	findByIDFn      func(ctx context.Context, id string) (*employee.Employee, error)
	updateFn        func(ctx context.Context, e *employee.Employee) error
	deleteFn        func(ctx context.Context, id string) error
	updateBalanceFn func(ctx context.Context, id string, newBalance, expectedBalance int) (bool, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository {
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByDepartment(ctx context.Context, department string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeEmployeeRepository) UpdateBalance(ctx context.Context, id string, newBalance, expectedBalance int) (bool, error) {
	if f.updateBalanceFn != nil {
		return f.updateBalanceFn(ctx, id, newBalance, expectedBalance)
	}
	return true, nil
}

func setupEmployeeServiceTest(t *testing.T, repo employee.Repository) employee.Service {
	t.Helper()
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return employee.NewService(db, repo)
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("grants the default balance and hashes the password", func(t *testing.T) {
		var stored *employee.Employee
		repo := &fakeEmployeeRepository{
			createFn: func(ctx context.Context, e *employee.Employee) error {
				stored = e
				return nil
			},
		}
		svc := setupEmployeeServiceTest(t, repo)

		resp, err := svc.Create(ctx, employee.CreateEmployeeRequest{
			FullName:   "Asha Nair",
			Email:      "asha@example.com",
			Password:   "correct horse",
			Role:       "EMPLOYEE",
			Department: "Engineering",
		})

		assert.NoError(t, err)
		assert.Equal(t, 12, resp.LeaveBalance)
		assert.Equal(t, "EMPLOYEE", resp.Role)
		assert.NotNil(t, stored)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(stored.PasswordHash), []byte("correct horse")))
	})

	t.Run("explicit balance overrides the default", func(t *testing.T) {
		balance := 20
		svc := setupEmployeeServiceTest(t, &fakeEmployeeRepository{})

		resp, err := svc.Create(ctx, employee.CreateEmployeeRequest{
			FullName:     "Asha Nair",
			Email:        "asha@example.com",
			Password:     "correct horse",
			Role:         "HR",
			LeaveBalance: &balance,
		})

		assert.NoError(t, err)
		assert.Equal(t, 20, resp.LeaveBalance)
	})

	t.Run("negative balance rejected", func(t *testing.T) {
		balance := -1
		svc := setupEmployeeServiceTest(t, &fakeEmployeeRepository{})

		_, err := svc.Create(ctx, employee.CreateEmployeeRequest{
			FullName:     "Asha Nair",
			Email:        "asha@example.com",
			Password:     "correct horse",
			Role:         "EMPLOYEE",
			LeaveBalance: &balance,
		})

		assert.ErrorIs(t, err, employeeerrors.ErrNegativeBalance)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		svc := setupEmployeeServiceTest(t, &fakeEmployeeRepository{})

		_, err := svc.Create(ctx, employee.CreateEmployeeRequest{
			FullName: "Asha Nair",
			Email:    "asha@example.com",
			Password: "correct horse",
			Role:     "INTERN",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidRole)
	})

	t.Run("duplicate email maps the unique constraint", func(t *testing.T) {
		repo := &fakeEmployeeRepository{
			createFn: func(ctx context.Context, e *employee.Employee) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_email"}
			},
		}
		svc := setupEmployeeServiceTest(t, repo)

		_, err := svc.Create(ctx, employee.CreateEmployeeRequest{
			FullName: "Asha Nair",
			Email:    "asha@example.com",
			Password: "correct horse",
			Role:     "EMPLOYEE",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmailAlreadyExists)
	})

	t.Run("other unique violations pass through", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_something_else"}
		repo := &fakeEmployeeRepository{
			createFn: func(ctx context.Context, e *employee.Employee) error {
				return pgErr
			},
		}
		svc := setupEmployeeServiceTest(t, repo)

		_, err := svc.Create(ctx, employee.CreateEmployeeRequest{
			FullName: "Asha Nair",
			Email:    "asha@example.com",
			Password: "correct horse",
			Role:     "EMPLOYEE",
		})

		assert.NotErrorIs(t, err, employeeerrors.ErrEmailAlreadyExists)
		assert.ErrorIs(t, err, pgErr)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, got string) (*employee.Employee, error) {
				assert.Equal(t, id.String(), got)
				return &employee.Employee{
					ID:           id,
					FullName:     "Asha Nair",
					Email:        "asha@example.com",
					Role:         domain.RoleManager,
					Department:   "Engineering",
					LeaveBalance: 7,
				}, nil
			},
		}
		svc := setupEmployeeServiceTest(t, repo)

		resp, err := svc.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "MANAGER", resp.Role)
		assert.Equal(t, 7, resp.LeaveBalance)
	})

	t.Run("malformed id", func(t *testing.T) {
		svc := setupEmployeeServiceTest(t, &fakeEmployeeRepository{})

		_, err := svc.GetByID(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc := setupEmployeeServiceTest(t, &fakeEmployeeRepository{})

		_, err := svc.GetByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("rewrites name, role and department", func(t *testing.T) {
		var saved *employee.Employee
		repo := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, got string) (*employee.Employee, error) {
				return &employee.Employee{
					ID:       id,
					FullName: "Asha Nair",
					Email:    "asha@example.com",
					Role:     domain.RoleEmployee,
				}, nil
			},
			updateFn: func(ctx context.Context, e *employee.Employee) error {
				saved = e
				return nil
			},
		}
		svc := setupEmployeeServiceTest(t, repo)

		resp, err := svc.Update(ctx, id.String(), employee.UpdateEmployeeRequest{
			FullName:   "Asha Pillai",
			Role:       "MANAGER",
			Department: "Platform",
		})

		assert.NoError(t, err)
		assert.Equal(t, "MANAGER", resp.Role)
		assert.NotNil(t, saved)
		assert.Equal(t, "Asha Pillai", saved.FullName)
		assert.Equal(t, domain.RoleManager, saved.Role)
		assert.Equal(t, "Platform", saved.Department)
	})

	t.Run("unknown role rejected before the lookup", func(t *testing.T) {
		svc := setupEmployeeServiceTest(t, &fakeEmployeeRepository{})

		_, err := svc.Update(ctx, id.String(), employee.UpdateEmployeeRequest{
			FullName: "Asha Pillai",
			Role:     "DIRECTOR",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidRole)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed id", func(t *testing.T) {
		svc := setupEmployeeServiceTest(t, &fakeEmployeeRepository{})

		err := svc.Delete(ctx, "42")

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("success", func(t *testing.T) {
		var deleted string
		repo := &fakeEmployeeRepository{
			deleteFn: func(ctx context.Context, id string) error {
				deleted = id
				return nil
			},
		}
		svc := setupEmployeeServiceTest(t, repo)
		id := uuid.New().String()

		assert.NoError(t, svc.Delete(ctx, id))
		assert.Equal(t, id, deleted)
	})
}
