package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/akashvinod-2003/empmanage/internal/domain"
	taskerrors "github.com/akashvinod-2003/empmanage/internal/task/errors"
)

const (
	StatusAssigned   = "ASSIGNED"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// nextStatus encodes the forward-only chain.
var nextStatus = map[string]string{
	StatusAssigned:   StatusInProgress,
	StatusInProgress: StatusDone,
}

//go:generate mockgen -source=task_service.go -destination=mock/task_service_mock.go -package=mock
type Service interface {
	Assign(ctx context.Context, actor domain.Actor, req AssignTaskRequest) (TaskResponse, error)

	// Advance moves the task to the requested status. Only the next
	// status in the chain is accepted; the update is guarded so a
	// concurrent advance loses cleanly.
	Advance(ctx context.Context, actor domain.Actor, taskID string, req UpdateTaskStatusRequest) (TaskResponse, error)

	GetAll(ctx context.Context, actor domain.Actor) ([]TaskResponse, error)
	GetByID(ctx context.Context, id string) (TaskResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("task.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("task.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Assign(ctx context.Context, actor domain.Actor, req AssignTaskRequest) (TaskResponse, error) {
	if !actor.Role.CanRatePerformance() {
		return TaskResponse{}, taskerrors.ErrForbidden
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return TaskResponse{}, taskerrors.ErrInvalidEmployeeID
	}

	t := &Task{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		Title:       req.Title,
		Description: req.Description,
		Status:      StatusAssigned,
		AssignedBy:  actor.ID,
	}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return TaskResponse{}, taskerrors.ErrInvalidDateFormat
		}
		t.DueDate = &due
	}

	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("assign task failed", zap.Error(err))
		return TaskResponse{}, err
	}

	s.logger.Info("assign task success",
		zap.String("task_id", t.ID.String()),
		zap.String("employee_id", req.EmployeeID),
	)
	return mapToResponse(*t), nil
}

func (s *service) Advance(ctx context.Context, actor domain.Actor, taskID string, req UpdateTaskStatusRequest) (TaskResponse, error) {
	if _, err := uuid.Parse(taskID); err != nil {
		return TaskResponse{}, taskerrors.ErrInvalidTaskID
	}
	if req.Status != StatusInProgress && req.Status != StatusDone {
		return TaskResponse{}, taskerrors.ErrInvalidStatus
	}

	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaskResponse{}, taskerrors.ErrTaskNotFound
		}
		return TaskResponse{}, err
	}

	// Assignees move their own tasks; managers and HR can move any.
	if t.EmployeeID != actor.ID && !actor.Role.CanRatePerformance() {
		return TaskResponse{}, taskerrors.ErrForbidden
	}

	if nextStatus[t.Status] != req.Status {
		return TaskResponse{}, taskerrors.ErrInvalidTransition
	}

	var completedAt *time.Time
	if req.Status == StatusDone {
		now := time.Now().UTC()
		completedAt = &now
	}

	ok, err := s.repo.UpdateStatus(ctx, taskID, t.Status, req.Status, completedAt)
	if err != nil {
		return TaskResponse{}, err
	}
	if !ok {
		return TaskResponse{}, taskerrors.ErrInvalidTransition
	}

	t.Status = req.Status
	t.CompletedAt = completedAt

	s.logger.Info("advance task success",
		zap.String("task_id", taskID),
		zap.String("status", req.Status),
	)
	return mapToResponse(*t), nil
}

func (s *service) GetAll(ctx context.Context, actor domain.Actor) ([]TaskResponse, error) {
	var (
		tasks []Task
		err   error
	)
	if actor.Role.CanRatePerformance() {
		tasks, err = s.repo.FindAll(ctx)
	} else {
		tasks, err = s.repo.FindAllByEmployee(ctx, actor.ID.String())
	}
	if err != nil {
		return nil, err
	}
	resp := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		resp[i] = mapToResponse(t)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (TaskResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaskResponse{}, taskerrors.ErrTaskNotFound
		}
		return TaskResponse{}, err
	}
	return mapToResponse(*t), nil
}

func mapToResponse(t Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID.String(),
		EmployeeID:  t.EmployeeID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		AssignedBy:  t.AssignedBy.String(),
	}
	if t.DueDate != nil {
		v := t.DueDate.Format("2006-01-02")
		resp.DueDate = &v
	}
	if t.CompletedAt != nil {
		v := t.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	return resp
}
