package employee_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/akashvinod-2003/empmanage/internal/employee"
)

func TestEmployeeRepository_FindByIDInTx(t *testing.T) {
	ctx := context.Background()

	t.Run("locks the row for the transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		id := uuid.New()
		rows := sqlmock.NewRows([]string{
			"id", "full_name", "email", "password_hash", "role", "department", "leave_balance",
		}).AddRow(id.String(), "Asha Nair", "asha@example.com", "hash", "EMPLOYEE", "Engineering", 9)

		mock.ExpectBegin()
		mock.ExpectQuery("(?s)FROM employees.+FOR UPDATE").
			WithArgs(id.String()).
			WillReturnRows(rows)
		mock.ExpectRollback()

		tx, err := db.BeginTx(ctx, nil)
		assert.NoError(t, err)

		repo := employee.NewRepository(nil).WithTx(tx)
		e, err := repo.FindByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id, e.ID)
		assert.Equal(t, 9, e.LeaveBalance)
		assert.Equal(t, "Engineering", e.Department)

		assert.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to record not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		id := uuid.New()
		mock.ExpectBegin()
		mock.ExpectQuery("(?s)FROM employees.+FOR UPDATE").
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		tx, err := db.BeginTx(ctx, nil)
		assert.NoError(t, err)

		repo := employee.NewRepository(nil).WithTx(tx)
		_, err = repo.FindByID(ctx, id.String())

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.NoError(t, tx.Rollback())
	})
}

func TestEmployeeRepository_UpdateBalanceInTx(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	t.Run("guard matches", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE employees").
			WithArgs(8, id, 12).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		tx, err := db.BeginTx(ctx, nil)
		assert.NoError(t, err)

		repo := employee.NewRepository(nil).WithTx(tx)
		ok, err := repo.UpdateBalance(ctx, id, 8, 12)

		assert.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, tx.Rollback())
	})

	t.Run("guard misses when a concurrent writer won", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE employees").
			WithArgs(8, id, 12).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		tx, err := db.BeginTx(ctx, nil)
		assert.NoError(t, err)

		repo := employee.NewRepository(nil).WithTx(tx)
		ok, err := repo.UpdateBalance(ctx, id, 8, 12)

		assert.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, tx.Rollback())
	})
}
