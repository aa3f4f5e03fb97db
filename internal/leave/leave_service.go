package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/akashvinod-2003/empmanage/internal/domain"
	"github.com/akashvinod-2003/empmanage/internal/employee"
	"github.com/akashvinod-2003/empmanage/internal/engine"
	"github.com/akashvinod-2003/empmanage/internal/events"
	"github.com/akashvinod-2003/empmanage/internal/ledger"
	ledgererrors "github.com/akashvinod-2003/empmanage/internal/ledger/errors"
	leaveerrors "github.com/akashvinod-2003/empmanage/internal/leave/errors"
	"github.com/akashvinod-2003/empmanage/internal/messaging/kafka"
	"github.com/akashvinod-2003/empmanage/internal/shared/config"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusRevoked  = "REVOKED"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	// Submit validates the span, checks balance upfront (a pre-check,
	// not a reservation) and attaches the advisory recommendation.
	Submit(ctx context.Context, actor domain.Actor, req SubmitLeaveRequest) (LeaveResponse, error)

	// Decide moves a PENDING request to APPROVED or REJECTED. Approval
	// deducts the balance through the ledger; if the balance no longer
	// covers the span the request stays PENDING for re-decision.
	Decide(ctx context.Context, actor domain.Actor, requestID string, req DecideLeaveRequest) (LeaveResponse, error)

	// Revoke administratively reverses an APPROVED request. HR only.
	Revoke(ctx context.Context, actor domain.Actor, requestID string) (LeaveResponse, error)

	GetAll(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	balances  ledger.Service
	outbox    kafka.OutboxRepository
	cfg       config.Engine
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	balances ledger.Service,
	cfg config.Engine,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, employees, balances, nil, cfg, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	balances ledger.Service,
	outboxRepo kafka.OutboxRepository,
	cfg config.Engine,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		balances:  balances,
		outbox:    outboxRepo,
		cfg:       cfg,
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, actor domain.Actor, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	totalDays := inclusiveDayCount(startDate, endDate)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	etx := s.employees.WithTx(tx)

	// The transactional read locks the employee row, so concurrent
	// submits serialize and the overlap check cannot race an insert
	// from another request.
	emp, err := etx.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
		}
		return LeaveResponse{}, err
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, req.EmployeeID, startDate, endDate)
	if err != nil {
		s.logger.Error("submit leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("submit leave overlap detected",
			zap.String("employee_id", req.EmployeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrOverlappingRequest
	}

	// Upfront check only; the balance is re-checked by the ledger at
	// approval time.
	covered, err := s.balances.ReserveCheck(ctx, req.EmployeeID, totalDays)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !covered {
		return LeaveResponse{}, ledgererrors.ErrInsufficientBalance
	}

	assessment, err := s.scoreRequest(ctx, qtx, emp, startDate, endDate, totalDays)
	if err != nil {
		s.logger.Error("submit leave recommendation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	reasons, err := json.Marshal(assessment.Reasons)
	if err != nil {
		return LeaveResponse{}, err
	}
	label := string(assessment.Label)
	reasonsStr := string(reasons)

	l := &LeaveRequest{
		ID:               uuid.New(),
		EmployeeID:       employeeID,
		LeaveType:        req.LeaveType,
		StartDate:        startDate,
		EndDate:          endDate,
		TotalDays:        totalDays,
		Reason:           req.Reason,
		Status:           StatusPending,
		RecommendScore:   &assessment.Score,
		RecommendLabel:   &label,
		RecommendReasons: &reasonsStr,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("total_days", totalDays),
		zap.String("recommendation", label),
	)
	return mapToResponse(*l), nil
}

// scoreRequest gathers the bounded signals and runs the pure scorer.
func (s *service) scoreRequest(
	ctx context.Context,
	qtx Repository,
	emp *employee.Employee,
	startDate, endDate time.Time,
	totalDays int,
) (engine.LeaveAssessment, error) {
	since := time.Now().UTC().AddDate(0, -s.cfg.ApprovalLookbackMonths, 0)
	approved, decided, err := qtx.CountDecided(ctx, emp.ID.String(), since)
	if err != nil {
		return engine.LeaveAssessment{}, err
	}

	deptSize := 0
	deptOnLeave := 0
	if emp.Department != "" {
		peers, err := s.employees.FindByDepartment(ctx, emp.Department)
		if err != nil {
			return engine.LeaveAssessment{}, err
		}
		for _, p := range peers {
			if p.ID != emp.ID {
				deptSize++
			}
		}
		if deptSize > 0 {
			deptOnLeave, err = qtx.CountDepartmentOnLeave(ctx, emp.Department, emp.ID.String(), startDate, endDate)
			if err != nil {
				return engine.LeaveAssessment{}, err
			}
		}
	}

	return engine.RecommendLeave(s.cfg, engine.LeaveSignals{
		Balance:           emp.LeaveBalance,
		DaysRequested:     totalDays,
		ApprovedRequests:  approved,
		DecidedRequests:   decided,
		DepartmentSize:    deptSize,
		DepartmentOnLeave: deptOnLeave,
	}), nil
}

func (s *service) Decide(ctx context.Context, actor domain.Actor, requestID string, req DecideLeaveRequest) (LeaveResponse, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}
	if req.Decision != StatusApproved && req.Decision != StatusRejected {
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}
	if !actor.Role.CanDecideLeave() {
		s.logger.Warn("decide leave forbidden",
			zap.String("leave_id", requestID),
			zap.String("role", string(actor.Role)),
		)
		return LeaveResponse{}, leaveerrors.ErrForbidden
	}

	l, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		s.logger.Warn("decide leave invalid transition",
			zap.String("leave_id", requestID),
			zap.String("status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	if req.Decision == StatusApproved {
		// Apply is idempotent per request id, so a retried decision
		// after a timeout never double-deducts.
		if err := s.balances.Apply(ctx, l.EmployeeID.String(), requestID, l.TotalDays); err != nil {
			s.logger.Warn("decide leave apply failed",
				zap.String("leave_id", requestID),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	now := time.Now().UTC()
	ok, err := s.transition(ctx, l, StatusPending, req.Decision, actor.ID, now)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !ok {
		// Lost the race to another decider. If they rejected while we
		// already deducted, give the days back.
		if req.Decision == StatusApproved {
			current, ferr := s.repo.FindByID(ctx, requestID)
			if ferr == nil && current.Status == StatusRejected {
				if rerr := s.balances.Reverse(ctx, l.EmployeeID.String(), requestID, l.TotalDays); rerr != nil {
					s.logger.Error("decide leave compensating reverse failed",
						zap.String("leave_id", requestID),
						zap.Error(rerr),
					)
				}
			}
		}
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	l.Status = req.Decision
	l.DecidedBy = &actor.ID
	l.DecidedAt = &now

	s.logger.Info("decide leave success",
		zap.String("leave_id", requestID),
		zap.String("decision", req.Decision),
		zap.String("decider_id", actor.ID.String()),
	)
	return mapToResponse(*l), nil
}

func (s *service) Revoke(ctx context.Context, actor domain.Actor, requestID string) (LeaveResponse, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}
	if !actor.Role.CanRevokeLeave() {
		return LeaveResponse{}, leaveerrors.ErrRevokeForbidden
	}

	l, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusApproved {
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	if err := s.balances.Reverse(ctx, l.EmployeeID.String(), requestID, l.TotalDays); err != nil {
		return LeaveResponse{}, err
	}

	now := time.Now().UTC()
	ok, err := s.transition(ctx, l, StatusApproved, StatusRevoked, actor.ID, now)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	l.Status = StatusRevoked
	l.DecidedBy = &actor.ID
	l.DecidedAt = &now

	s.logger.Info("revoke leave success",
		zap.String("leave_id", requestID),
		zap.String("revoker_id", actor.ID.String()),
	)
	return mapToResponse(*l), nil
}

// transition performs the guarded status update and stages the matching
// outbox event in the same transaction.
func (s *service) transition(ctx context.Context, l *LeaveRequest, from, to string, actorID uuid.UUID, at time.Time) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ok, err := qtx.UpdateStatus(ctx, l.ID.String(), from, to, actorID.String(), at)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if s.outbox != nil {
		event, err := s.stageTransitionEvent(ctx, l, to, actorID)
		if err != nil {
			return false, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) stageTransitionEvent(ctx context.Context, l *LeaveRequest, to string, actorID uuid.UUID) (kafka.OutboxEvent, error) {
	if to == StatusRevoked {
		return kafka.Stage(ctx, "leave_request", l.ID.String(),
			events.LeaveRevokedEvent, events.LeaveRevokedTopic,
			events.LeaveRevoked{
				RequestID:  l.ID.String(),
				EmployeeID: l.EmployeeID.String(),
				RevokerID:  actorID.String(),
				TotalDays:  l.TotalDays,
			})
	}
	return kafka.Stage(ctx, "leave_request", l.ID.String(),
		events.LeaveDecidedEvent, events.LeaveDecidedTopic,
		events.LeaveDecided{
			RequestID:  l.ID.String(),
			EmployeeID: l.EmployeeID.String(),
			Decision:   to,
			DeciderID:  actorID.String(),
			TotalDays:  l.TotalDays,
		})
}

func (s *service) GetAll(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error) {
	var (
		leaves []LeaveRequest
		err    error
	)
	if actor.Role.CanDecideLeave() {
		leaves, err = s.repo.FindAll(ctx)
	} else {
		leaves, err = s.repo.FindAllByEmployee(ctx, actor.ID.String())
	}
	if err != nil {
		return nil, err
	}

	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

// inclusiveDayCount counts calendar days with both endpoints included.
func inclusiveDayCount(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		TotalDays:  l.TotalDays,
		Reason:     l.Reason,
		Status:     l.Status,
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	if l.RecommendScore != nil && l.RecommendLabel != nil {
		payload := RecommendationPayload{
			Score: *l.RecommendScore,
			Label: *l.RecommendLabel,
		}
		if l.RecommendReasons != nil {
			if err := json.Unmarshal([]byte(*l.RecommendReasons), &payload.Reasons); err != nil {
				zap.L().Debug("stored recommendation reasons unreadable",
					zap.String("leave_id", l.ID.String()),
					zap.Error(err),
				)
			}
		}
		resp.Recommendation = &payload
	}
	return resp
}
