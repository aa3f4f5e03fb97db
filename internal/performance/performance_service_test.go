package performance_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/akashvinod-2003/empmanage/internal/domain"
	"github.com/akashvinod-2003/empmanage/internal/performance"
	performanceerrors "github.com/akashvinod-2003/empmanage/internal/performance/errors"
)

type fakeRatingRepository struct {
	createFn   func(ctx context.Context, p *performance.PerformanceRating) error
	findByIDFn func(ctx context.Context, id string) (*performance.PerformanceRating, error)
}

func (f *fakeRatingRepository) WithTx(tx *sql.Tx) performance.Repository {
	return f
}

func (f *fakeRatingRepository) Create(ctx context.Context, p *performance.PerformanceRating) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakeRatingRepository) FindByID(ctx context.Context, id string) (*performance.PerformanceRating, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRatingRepository) FindAllByEmployee(ctx context.Context, employeeID string) ([]performance.PerformanceRating, error) {
	return nil, nil
}

func (f *fakeRatingRepository) ExistsForMonth(ctx context.Context, employeeID string, month time.Time) (bool, error) {
	return false, nil
}

func TestPerformanceService_Create(t *testing.T) {
	ctx := context.Background()
	manager := domain.Actor{ID: uuid.New(), Role: domain.RoleManager}
	employeeID := uuid.New()

	t.Run("stores a normalized month", func(t *testing.T) {
		var created *performance.PerformanceRating
		repo := &fakeRatingRepository{
			createFn: func(ctx context.Context, p *performance.PerformanceRating) error {
				created = p
				return nil
			},
		}
		svc := performance.NewService(repo)

		resp, err := svc.Create(ctx, manager, performance.CreateRatingRequest{
			EmployeeID: employeeID.String(),
			Month:      "2026-03",
			Rating:     4,
			Comments:   "solid quarter",
		})

		assert.NoError(t, err)
		assert.Equal(t, "2026-03", resp.Month)
		assert.Equal(t, manager.ID.String(), resp.ReviewerID)
		assert.NotNil(t, created)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), created.Month)
	})

	t.Run("second rating for a month conflicts", func(t *testing.T) {
		repo := &fakeRatingRepository{
			createFn: func(ctx context.Context, p *performance.PerformanceRating) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_performance_employee_month"}
			},
		}
		svc := performance.NewService(repo)

		_, err := svc.Create(ctx, manager, performance.CreateRatingRequest{
			EmployeeID: employeeID.String(),
			Month:      "2026-03",
			Rating:     3,
		})

		assert.ErrorIs(t, err, performanceerrors.ErrDuplicateRating)
	})

	t.Run("employees cannot rate", func(t *testing.T) {
		svc := performance.NewService(&fakeRatingRepository{})
		employeeActor := domain.Actor{ID: employeeID, Role: domain.RoleEmployee}

		_, err := svc.Create(ctx, employeeActor, performance.CreateRatingRequest{
			EmployeeID: employeeID.String(),
			Month:      "2026-03",
			Rating:     4,
		})

		assert.ErrorIs(t, err, performanceerrors.ErrForbidden)
	})

	t.Run("rejects out-of-scale ratings", func(t *testing.T) {
		svc := performance.NewService(&fakeRatingRepository{})

		for _, rating := range []int{0, 6, -1} {
			_, err := svc.Create(ctx, manager, performance.CreateRatingRequest{
				EmployeeID: employeeID.String(),
				Month:      "2026-03",
				Rating:     rating,
			})
			assert.ErrorIs(t, err, performanceerrors.ErrInvalidRating)
		}
	})

	t.Run("rejects malformed month", func(t *testing.T) {
		svc := performance.NewService(&fakeRatingRepository{})

		_, err := svc.Create(ctx, manager, performance.CreateRatingRequest{
			EmployeeID: employeeID.String(),
			Month:      "2026-03-01",
			Rating:     4,
		})

		assert.ErrorIs(t, err, performanceerrors.ErrInvalidMonthFormat)
	})
}

func TestParseMonth(t *testing.T) {
	got, err := performance.ParseMonth("2026-12")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = performance.ParseMonth("December")
	assert.ErrorIs(t, err, performanceerrors.ErrInvalidMonthFormat)
}
