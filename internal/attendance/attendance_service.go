package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	attendanceerrors "github.com/akashvinod-2003/empmanage/internal/attendance/errors"
	"github.com/akashvinod-2003/empmanage/internal/domain"
	"github.com/akashvinod-2003/empmanage/internal/engine"
	"github.com/akashvinod-2003/empmanage/internal/events"
	"github.com/akashvinod-2003/empmanage/internal/messaging/kafka"
	"github.com/akashvinod-2003/empmanage/internal/shared/config"
)

const (
	ReviewNone     = "NONE"
	ReviewPending  = "PENDING"
	ReviewApproved = "APPROVED"
	ReviewRejected = "REJECTED"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	// Record creates the attendance record for (employee, date) and runs
	// the anomaly flagger. A flagged record enters review as PENDING;
	// everything else is final with review status NONE.
	Record(ctx context.Context, actor domain.Actor, req RecordAttendanceRequest) (AttendanceResponse, error)

	// Review decides a pending record. HR and managers only; terminal
	// once decided.
	Review(ctx context.Context, actor domain.Actor, recordID string, req ReviewAttendanceRequest) (AttendanceResponse, error)

	GetAll(ctx context.Context, actor domain.Actor) ([]AttendanceResponse, error)

	// Rescore recomputes the advisory score for one record; the batch
	// job drives it. Review status is never touched.
	Rescore(ctx context.Context, recordID string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	cfg    config.Engine
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, cfg config.Engine, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, cfg, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	cfg config.Engine,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, cfg: cfg, logger: l}
}

func (s *service) Record(ctx context.Context, actor domain.Actor, req RecordAttendanceRequest) (AttendanceResponse, error) {
	s.logger.Debug("record attendance requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
		zap.String("status", req.Status),
	)

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDateFormat
	}
	if !validStatus(req.Status) {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("record attendance begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	windowStart := date.AddDate(0, 0, -s.cfg.AttendanceWindowDays)
	history, err := qtx.ListWindow(ctx, req.EmployeeID, windowStart, date)
	if err != nil {
		s.logger.Error("record attendance window query failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	assessment := engine.FlagAttendance(s.cfg, toHistory(history), engine.AttendanceDay{
		Date:   date,
		Status: req.Status,
	})

	record := &Attendance{
		ID:           uuid.New(),
		EmployeeID:   employeeID,
		Date:         date,
		Status:       req.Status,
		ReviewStatus: ReviewNone,
		SubmittedBy:  actor.ID,
	}
	if assessment.Flagged {
		reason := string(assessment.Reason)
		record.ReviewStatus = ReviewPending
		record.AnomalyScore = &assessment.Score
		record.AnomalyReason = &reason
	}

	if err := qtx.Create(ctx, record); err != nil {
		mapped := mapRepositoryError(err)
		s.logger.Warn("record attendance persist failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("date", req.Date),
			zap.Error(mapped),
		)
		return AttendanceResponse{}, mapped
	}

	if assessment.Flagged && s.outbox != nil {
		event, err := kafka.Stage(ctx, "attendance", record.ID.String(),
			events.AttendanceFlaggedEvent, events.AttendanceFlaggedTopic,
			events.AttendanceFlagged{
				RecordID:   record.ID.String(),
				EmployeeID: req.EmployeeID,
				Date:       req.Date,
				Status:     req.Status,
				Reason:     string(assessment.Reason),
				Score:      assessment.Score,
			})
		if err != nil {
			return AttendanceResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			s.logger.Error("record attendance stage event failed", zap.Error(err))
			return AttendanceResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("record attendance commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("record attendance success",
		zap.String("record_id", record.ID.String()),
		zap.String("review_status", record.ReviewStatus),
		zap.Bool("flagged", assessment.Flagged),
	)
	return mapToResponse(*record), nil
}

func (s *service) Review(ctx context.Context, actor domain.Actor, recordID string, req ReviewAttendanceRequest) (AttendanceResponse, error) {
	if _, err := uuid.Parse(recordID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidRecordID
	}
	if req.Decision != ReviewApproved && req.Decision != ReviewRejected {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDecision
	}
	if !actor.Role.CanReviewAttendance() {
		s.logger.Warn("review attendance forbidden",
			zap.String("record_id", recordID),
			zap.String("role", string(actor.Role)),
		)
		return AttendanceResponse{}, attendanceerrors.ErrForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}
	if record.ReviewStatus != ReviewPending {
		s.logger.Warn("review attendance invalid transition",
			zap.String("record_id", recordID),
			zap.String("review_status", record.ReviewStatus),
		)
		return AttendanceResponse{}, attendanceerrors.ErrInvalidTransition
	}

	now := time.Now().UTC()
	ok, err := qtx.UpdateReview(ctx, recordID, ReviewPending, req.Decision, actor.ID.String(), now)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !ok {
		// Another reviewer decided first; the record is terminal.
		return AttendanceResponse{}, attendanceerrors.ErrInvalidTransition
	}

	if s.outbox != nil {
		event, err := kafka.Stage(ctx, "attendance", recordID,
			events.AttendanceReviewedEvent, events.AttendanceReviewedTopic,
			events.AttendanceReviewed{
				RecordID:   recordID,
				EmployeeID: record.EmployeeID.String(),
				Decision:   req.Decision,
				ReviewerID: actor.ID.String(),
			})
		if err != nil {
			return AttendanceResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			return AttendanceResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	record.ReviewStatus = req.Decision
	record.ReviewedBy = &actor.ID
	record.ReviewedAt = &now

	s.logger.Info("review attendance success",
		zap.String("record_id", recordID),
		zap.String("decision", req.Decision),
		zap.String("reviewer_id", actor.ID.String()),
	)
	return mapToResponse(*record), nil
}

func (s *service) GetAll(ctx context.Context, actor domain.Actor) ([]AttendanceResponse, error) {
	var (
		records []Attendance
		err     error
	)
	if actor.Role.CanReviewAttendance() {
		records, err = s.repo.FindAll(ctx)
	} else {
		records, err = s.repo.FindAllByEmployee(ctx, actor.ID.String())
	}
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]AttendanceResponse, len(records))
	for i, r := range records {
		resp[i] = mapToResponse(r)
	}
	return resp, nil
}

func (s *service) Rescore(ctx context.Context, recordID string) error {
	record, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		return mapRepositoryError(err)
	}

	windowStart := record.Date.AddDate(0, 0, -s.cfg.AttendanceWindowDays)
	history, err := s.repo.ListWindow(ctx, record.EmployeeID.String(), windowStart, record.Date)
	if err != nil {
		return err
	}

	// Drop the record itself from its own history.
	days := make([]engine.AttendanceDay, 0, len(history))
	for _, h := range history {
		if h.ID == record.ID {
			continue
		}
		days = append(days, engine.AttendanceDay{Date: h.Date, Status: h.Status})
	}

	assessment := engine.FlagAttendance(s.cfg, days, engine.AttendanceDay{
		Date:   record.Date,
		Status: record.Status,
	})
	return s.repo.UpdateAssessment(ctx, recordID, assessment.Score, string(assessment.Reason))
}

func validStatus(status string) bool {
	switch status {
	case domain.AttendancePresent, domain.AttendanceAbsent, domain.AttendanceLate:
		return true
	}
	return false
}

func toHistory(records []Attendance) []engine.AttendanceDay {
	days := make([]engine.AttendanceDay, len(records))
	for i, r := range records {
		days[i] = engine.AttendanceDay{Date: r.Date, Status: r.Status}
	}
	return days
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:            a.ID.String(),
		EmployeeID:    a.EmployeeID.String(),
		Date:          a.Date.Format("2006-01-02"),
		Status:        a.Status,
		ReviewStatus:  a.ReviewStatus,
		AnomalyScore:  a.AnomalyScore,
		AnomalyReason: a.AnomalyReason,
	}
	if a.ReviewedBy != nil {
		v := a.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if a.ReviewedAt != nil {
		v := a.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}
