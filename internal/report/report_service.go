package report

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/akashvinod-2003/empmanage/internal/attendance"
	"github.com/akashvinod-2003/empmanage/internal/domain"
	"github.com/akashvinod-2003/empmanage/internal/employee"
	"github.com/akashvinod-2003/empmanage/internal/leave"
	"github.com/akashvinod-2003/empmanage/internal/salary"
	"github.com/akashvinod-2003/empmanage/internal/shared/apperror"
	"github.com/akashvinod-2003/empmanage/internal/task"
)

const (
	cacheKey = "report:hr"
	cacheTTL = 5 * time.Minute
)

var ErrForbidden = apperror.New(
	apperror.CodeForbidden,
	"only HR may build the organization report",
	http.StatusForbidden,
)

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	// Build returns the organization-wide HR report. The result is
	// cached in redis and concurrent builds collapse into one.
	Build(ctx context.Context, actor domain.Actor) (HRReport, error)
}

type service struct {
	employees   employee.Repository
	attendances attendance.Repository
	leaves      leave.Repository
	salaries    salary.Repository
	tasks       task.Repository
	cache       *redis.Client
	group       singleflight.Group
	logger      *zap.Logger
}

func NewService(
	employees employee.Repository,
	attendances attendance.Repository,
	leaves leave.Repository,
	salaries salary.Repository,
	tasks task.Repository,
	cache *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{
		employees:   employees,
		attendances: attendances,
		leaves:      leaves,
		salaries:    salaries,
		tasks:       tasks,
		cache:       cache,
		logger:      l,
	}
}

func (s *service) Build(ctx context.Context, actor domain.Actor) (HRReport, error) {
	if actor.Role != domain.RoleHR {
		return HRReport{}, ErrForbidden
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var report HRReport
			if uerr := json.Unmarshal(cached, &report); uerr == nil {
				s.logger.Debug("report cache hit")
				return report, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("report cache read failed", zap.Error(err))
		}
	}

	v, err, shared := s.group.Do(cacheKey, func() (any, error) {
		return s.build(ctx)
	})
	if err != nil {
		return HRReport{}, err
	}
	report := v.(HRReport)
	if shared {
		s.logger.Debug("report build shared with concurrent caller")
	}

	if s.cache != nil {
		if body, merr := json.Marshal(report); merr == nil {
			if serr := s.cache.Set(ctx, cacheKey, body, cacheTTL).Err(); serr != nil {
				s.logger.Warn("report cache write failed", zap.Error(serr))
			}
		}
	}
	return report, nil
}

func (s *service) build(ctx context.Context) (HRReport, error) {
	employees, err := s.employees.FindAll(ctx)
	if err != nil {
		return HRReport{}, err
	}

	report := HRReport{
		GeneratedAt: time.Now().UTC(),
		Employees:   make([]EmployeeLine, 0, len(employees)),
	}

	for _, e := range employees {
		id := e.ID.String()

		openTasks, err := s.tasks.CountOpenByEmployee(ctx, id)
		if err != nil {
			return HRReport{}, err
		}
		pendingAttendance, err := s.attendances.CountPendingReview(ctx, id)
		if err != nil {
			return HRReport{}, err
		}
		pendingLeaves, err := s.leaves.CountPendingByEmployee(ctx, id)
		if err != nil {
			return HRReport{}, err
		}
		anomalies, err := s.salaries.CountAnomalies(ctx, id)
		if err != nil {
			return HRReport{}, err
		}

		report.Employees = append(report.Employees, EmployeeLine{
			EmployeeID:        id,
			FullName:          e.FullName,
			Department:        e.Department,
			LeaveBalance:      e.LeaveBalance,
			OpenTasks:         openTasks,
			PendingAttendance: pendingAttendance,
			PendingLeaves:     pendingLeaves,
			SalaryAnomalies:   anomalies,
		})

		report.Totals.OpenTasks += openTasks
		report.Totals.PendingAttendance += pendingAttendance
		report.Totals.PendingLeaves += pendingLeaves
		report.Totals.SalaryAnomalies += anomalies
	}
	report.Totals.Employees = len(employees)

	s.logger.Info("report built",
		zap.Int("employees", report.Totals.Employees),
		zap.Int("pending_leaves", report.Totals.PendingLeaves),
	)
	return report, nil
}
