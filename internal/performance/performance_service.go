package performance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/akashvinod-2003/empmanage/internal/domain"
	performanceerrors "github.com/akashvinod-2003/empmanage/internal/performance/errors"
)

//go:generate mockgen -source=performance_service.go -destination=mock/performance_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateRatingRequest) (RatingResponse, error)
	GetByID(ctx context.Context, id string) (RatingResponse, error)
	GetAllByEmployee(ctx context.Context, employeeID string) ([]RatingResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("performance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("performance.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateRatingRequest) (RatingResponse, error) {
	if !actor.Role.CanRatePerformance() {
		return RatingResponse{}, performanceerrors.ErrForbidden
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return RatingResponse{}, performanceerrors.ErrInvalidEmployeeID
	}
	month, err := ParseMonth(req.Month)
	if err != nil {
		return RatingResponse{}, err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return RatingResponse{}, performanceerrors.ErrInvalidRating
	}

	p := &PerformanceRating{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Month:      month,
		Rating:     req.Rating,
		Comments:   req.Comments,
		ReviewerID: actor.ID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Warn("create rating failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("month", req.Month),
			zap.Error(err),
		)
		return RatingResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create rating success",
		zap.String("rating_id", p.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("rating", req.Rating),
	)
	return mapToResponse(*p), nil
}

func (s *service) GetByID(ctx context.Context, id string) (RatingResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return RatingResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) GetAllByEmployee(ctx context.Context, employeeID string) ([]RatingResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, performanceerrors.ErrInvalidEmployeeID
	}
	ratings, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	resp := make([]RatingResponse, len(ratings))
	for i, p := range ratings {
		resp[i] = mapToResponse(p)
	}
	return resp, nil
}

// ParseMonth normalizes a YYYY-MM value to the first day of the month,
// the canonical form every monthly record is stored with.
func ParseMonth(v string) (time.Time, error) {
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return time.Time{}, performanceerrors.ErrInvalidMonthFormat
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, sql.ErrNoRows) {
		return performanceerrors.ErrRatingNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_performance_employee_month" {
			return performanceerrors.ErrDuplicateRating
		}
	}
	return err
}

func mapToResponse(p PerformanceRating) RatingResponse {
	return RatingResponse{
		ID:         p.ID.String(),
		EmployeeID: p.EmployeeID.String(),
		Month:      p.Month.Format("2006-01"),
		Rating:     p.Rating,
		Comments:   p.Comments,
		ReviewerID: p.ReviewerID.String(),
	}
}
