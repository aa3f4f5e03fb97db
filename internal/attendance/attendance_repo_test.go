package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/akashvinod-2003/empmanage/internal/attendance"
)

// A record created through WithTx must ride that transaction, so a
// failed outbox stage or commit leaves no attendance row behind.
func TestAttendanceRepository_CreateInTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	score := 0.75
	reason := "EXCESSIVE_ABSENCE"
	record := &attendance.Attendance{
		ID:            uuid.New(),
		EmployeeID:    uuid.New(),
		Date:          time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:        "ABSENT",
		ReviewStatus:  attendance.ReviewPending,
		SubmittedBy:   uuid.New(),
		AnomalyScore:  &score,
		AnomalyReason: &reason,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO attendances").
		WithArgs(record.ID, record.EmployeeID, record.Date, record.Status,
			record.ReviewStatus, record.SubmittedBy, &score, &reason).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	assert.NoError(t, err)

	repo := attendance.NewRepository(nil).WithTx(tx)
	assert.NoError(t, repo.Create(ctx, record))
	assert.NoError(t, tx.Rollback())

	assert.NoError(t, mock.ExpectationsWereMet())
}
