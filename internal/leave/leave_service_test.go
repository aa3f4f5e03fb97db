package leave_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/akashvinod-2003/empmanage/internal/domain"
	"github.com/akashvinod-2003/empmanage/internal/employee"
	"github.com/akashvinod-2003/empmanage/internal/leave"
	leaveerrors "github.com/akashvinod-2003/empmanage/internal/leave/errors"
	ledgererrors "github.com/akashvinod-2003/empmanage/internal/ledger/errors"
	"github.com/akashvinod-2003/empmanage/internal/shared/config"
)

type fakeLeaveRepository struct {
	createFn         func(ctx context.Context, l *leave.LeaveRequest) error
	findByIDFn       func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	findAllFn        func(ctx context.Context) ([]leave.LeaveRequest, error)
	findAllByEmpFn   func(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error)
	hasOverlapFn     func(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
	updateStatusFn   func(ctx context.Context, id, fromStatus, toStatus, deciderID string, at time.Time) (bool, error)
	countDecidedFn   func(ctx context.Context, employeeID string, since time.Time) (int, int, error)
	countDeptLeaveFn func(ctx context.Context, department, excludeEmployeeID string, startDate, endDate time.Time) (int, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	if f.findAllByEmpFn != nil {
		return f.findAllByEmpFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	if f.hasOverlapFn != nil {
		return f.hasOverlapFn(ctx, employeeID, startDate, endDate)
	}
	return false, nil
}

func (f *fakeLeaveRepository) UpdateStatus(ctx context.Context, id, fromStatus, toStatus, deciderID string, at time.Time) (bool, error) {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, fromStatus, toStatus, deciderID, at)
	}
	return true, nil
}

func (f *fakeLeaveRepository) CountDecided(ctx context.Context, employeeID string, since time.Time) (int, int, error) {
	if f.countDecidedFn != nil {
		return f.countDecidedFn(ctx, employeeID, since)
	}
	return 0, 0, nil
}

func (f *fakeLeaveRepository) CountDepartmentOnLeave(ctx context.Context, department, excludeEmployeeID string, startDate, endDate time.Time) (int, error) {
	if f.countDeptLeaveFn != nil {
		return f.countDeptLeaveFn(ctx, department, excludeEmployeeID, startDate, endDate)
	}
	return 0, nil
}

func (f *fakeLeaveRepository) CountPendingByEmployee(ctx context.Context, employeeID string) (int, error) {
	return 0, nil
}

type fakeEmployeeRepository struct {
	findByIDFn         func(ctx context.Context, id string) (*employee.Employee, error)
	findByDepartmentFn func(ctx context.Context, department string) ([]employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository {
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
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
	if f.findByDepartmentFn != nil {
		return f.findByDepartmentFn(ctx, department)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	return nil
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func (f *fakeEmployeeRepository) UpdateBalance(ctx context.Context, id string, newBalance, expectedBalance int) (bool, error) {
	return true, nil
}

type fakeLedgerService struct {
	reserveCheckFn func(ctx context.Context, employeeID string, days int) (bool, error)
	applyFn        func(ctx context.Context, employeeID, leaveRequestID string, days int) error
	reverseFn      func(ctx context.Context, employeeID, leaveRequestID string, days int) error
}

func (f *fakeLedgerService) ReserveCheck(ctx context.Context, employeeID string, days int) (bool, error) {
	if f.reserveCheckFn != nil {
		return f.reserveCheckFn(ctx, employeeID, days)
	}
	return true, nil
}

func (f *fakeLedgerService) Apply(ctx context.Context, employeeID, leaveRequestID string, days int) error {
	if f.applyFn != nil {
		return f.applyFn(ctx, employeeID, leaveRequestID, days)
	}
	return nil
}

func (f *fakeLedgerService) Reverse(ctx context.Context, employeeID, leaveRequestID string, days int) error {
	if f.reverseFn != nil {
		return f.reverseFn(ctx, employeeID, leaveRequestID, days)
	}
	return nil
}

func setupLeaveServiceTest(
	t *testing.T,
	repo leave.Repository,
	employees employee.Repository,
	balances *fakeLedgerService,
) (leave.Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := leave.NewService(db, repo, employees, balances, config.DefaultEngine())
	return svc, mock
}

func expectLeaveTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func stubLeaveEmployee(id uuid.UUID, balance int, department string) *employee.Employee {
	return &employee.Employee{
		ID:           id,
		FullName:     "Asha Nair",
		Email:        "asha@example.com",
		Role:         domain.RoleEmployee,
		Department:   department,
		LeaveBalance: balance,
	}
}

func pendingLeave(id, employeeID uuid.UUID, totalDays int) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:         id,
		EmployeeID: employeeID,
		LeaveType:  "ANNUAL",
		StartDate:  time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC).AddDate(0, 0, totalDays-1),
		TotalDays:  totalDays,
		Status:     leave.StatusPending,
	}
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	actor := domain.Actor{ID: employeeID, Role: domain.RoleEmployee}

	submitReq := leave.SubmitLeaveRequest{
		EmployeeID: employeeID.String(),
		LeaveType:  "ANNUAL",
		StartDate:  "2026-04-06",
		EndDate:    "2026-04-08",
		Reason:     "family visit",
	}

	t.Run("creates pending request with recommendation attached", func(t *testing.T) {
		var created *leave.LeaveRequest
		repo := &fakeLeaveRepository{
			createFn: func(ctx context.Context, l *leave.LeaveRequest) error {
				created = l
				return nil
			},
		}
		employees := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return stubLeaveEmployee(employeeID, 12, ""), nil
			},
		}
		svc, mock := setupLeaveServiceTest(t, repo, employees, &fakeLedgerService{})
		expectLeaveTx(t, mock, true)

		resp, err := svc.Submit(ctx, actor, submitReq)

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, 3, resp.TotalDays)
		assert.NotNil(t, created)
		assert.NotNil(t, resp.Recommendation)
		// Balance 12 against 3 days with no history and no peers.
		assert.Equal(t, "RECOMMEND", resp.Recommendation.Label)
		assert.Len(t, resp.Recommendation.Reasons, 3)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("overlapping request is rejected", func(t *testing.T) {
		repo := &fakeLeaveRepository{
			hasOverlapFn: func(ctx context.Context, empID string, start, end time.Time) (bool, error) {
				return true, nil
			},
		}
		employees := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return stubLeaveEmployee(employeeID, 12, ""), nil
			},
		}
		svc, mock := setupLeaveServiceTest(t, repo, employees, &fakeLedgerService{})
		expectLeaveTx(t, mock, false)

		_, err := svc.Submit(ctx, actor, submitReq)

		assert.ErrorIs(t, err, leaveerrors.ErrOverlappingRequest)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient balance fails the pre-check", func(t *testing.T) {
		employees := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return stubLeaveEmployee(employeeID, 1, ""), nil
			},
		}
		balances := &fakeLedgerService{
			reserveCheckFn: func(ctx context.Context, empID string, days int) (bool, error) {
				assert.Equal(t, 3, days)
				return false, nil
			},
		}
		svc, mock := setupLeaveServiceTest(t, &fakeLeaveRepository{}, employees, balances)
		expectLeaveTx(t, mock, false)

		_, err := svc.Submit(ctx, actor, submitReq)

		assert.ErrorIs(t, err, ledgererrors.ErrInsufficientBalance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("department capacity discourages the request", func(t *testing.T) {
		dept := "ENGINEERING"
		peers := make([]employee.Employee, 0, 11)
		peers = append(peers, *stubLeaveEmployee(employeeID, 12, dept))
		for i := 0; i < 10; i++ {
			peers = append(peers, *stubLeaveEmployee(uuid.New(), 12, dept))
		}

		repo := &fakeLeaveRepository{
			countDeptLeaveFn: func(ctx context.Context, department, exclude string, start, end time.Time) (int, error) {
				assert.Equal(t, dept, department)
				assert.Equal(t, employeeID.String(), exclude)
				return 4, nil
			},
		}
		employees := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return stubLeaveEmployee(employeeID, 12, dept), nil
			},
			findByDepartmentFn: func(ctx context.Context, department string) ([]employee.Employee, error) {
				return peers, nil
			},
		}
		svc, mock := setupLeaveServiceTest(t, repo, employees, &fakeLedgerService{})
		expectLeaveTx(t, mock, true)

		resp, err := svc.Submit(ctx, actor, submitReq)

		assert.NoError(t, err)
		assert.NotNil(t, resp.Recommendation)
		// 4 of 10 peers on overlapping leave, over the 30% capacity.
		assert.Equal(t, "DISCOURAGE", resp.Recommendation.Label)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects end date before start date", func(t *testing.T) {
		svc, _ := setupLeaveServiceTest(t, &fakeLeaveRepository{}, &fakeEmployeeRepository{}, &fakeLedgerService{})

		_, err := svc.Submit(ctx, actor, leave.SubmitLeaveRequest{
			EmployeeID: employeeID.String(),
			LeaveType:  "ANNUAL",
			StartDate:  "2026-04-08",
			EndDate:    "2026-04-06",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		svc, _ := setupLeaveServiceTest(t, &fakeLeaveRepository{}, &fakeEmployeeRepository{}, &fakeLedgerService{})

		_, err := svc.Submit(ctx, actor, leave.SubmitLeaveRequest{
			EmployeeID: employeeID.String(),
			LeaveType:  "ANNUAL",
			StartDate:  "06/04/2026",
			EndDate:    "2026-04-08",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("rejects unknown employee", func(t *testing.T) {
		svc, mock := setupLeaveServiceTest(t, &fakeLeaveRepository{}, &fakeEmployeeRepository{}, &fakeLedgerService{})
		expectLeaveTx(t, mock, false)

		_, err := svc.Submit(ctx, actor, submitReq)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidEmployeeID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLeaveService_Decide(t *testing.T) {
	ctx := context.Background()
	decider := domain.Actor{ID: uuid.New(), Role: domain.RoleManager}
	requestID := uuid.New()
	employeeID := uuid.New()

	t.Run("approval deducts through the ledger then transitions", func(t *testing.T) {
		applied := false
		var guardedFrom, guardedTo string
		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				return pendingLeave(requestID, employeeID, 3), nil
			},
			updateStatusFn: func(ctx context.Context, id, fromStatus, toStatus, deciderID string, at time.Time) (bool, error) {
				assert.True(t, applied, "balance must be deducted before the transition")
				guardedFrom, guardedTo = fromStatus, toStatus
				return true, nil
			},
		}
		balances := &fakeLedgerService{
			applyFn: func(ctx context.Context, empID, leaveRequestID string, days int) error {
				applied = true
				assert.Equal(t, employeeID.String(), empID)
				assert.Equal(t, requestID.String(), leaveRequestID)
				assert.Equal(t, 3, days)
				return nil
			},
		}
		svc, mock := setupLeaveServiceTest(t, repo, &fakeEmployeeRepository{}, balances)
		expectLeaveTx(t, mock, true)

		resp, err := svc.Decide(ctx, decider, requestID.String(), leave.DecideLeaveRequest{
			Decision: leave.StatusApproved,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Equal(t, leave.StatusPending, guardedFrom)
		assert.Equal(t, leave.StatusApproved, guardedTo)
		assert.NotNil(t, resp.DecidedBy)
		assert.Equal(t, decider.ID.String(), *resp.DecidedBy)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejection never touches the ledger", func(t *testing.T) {
		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				return pendingLeave(requestID, employeeID, 3), nil
			},
		}
		balances := &fakeLedgerService{
			applyFn: func(ctx context.Context, empID, leaveRequestID string, days int) error {
				t.Fatal("reject must not deduct balance")
				return nil
			},
		}
		svc, mock := setupLeaveServiceTest(t, repo, &fakeEmployeeRepository{}, balances)
		expectLeaveTx(t, mock, true)

		resp, err := svc.Decide(ctx, decider, requestID.String(), leave.DecideLeaveRequest{
			Decision: leave.StatusRejected,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient balance leaves the request pending", func(t *testing.T) {
		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				return pendingLeave(requestID, employeeID, 3), nil
			},
			updateStatusFn: func(ctx context.Context, id, fromStatus, toStatus, deciderID string, at time.Time) (bool, error) {
				t.Fatal("a failed deduction must not transition the request")
				return false, nil
			},
		}
		balances := &fakeLedgerService{
			applyFn: func(ctx context.Context, empID, leaveRequestID string, days int) error {
				return ledgererrors.ErrInsufficientBalance
			},
		}
		svc, _ := setupLeaveServiceTest(t, repo, &fakeEmployeeRepository{}, balances)

		_, err := svc.Decide(ctx, decider, requestID.String(), leave.DecideLeaveRequest{
			Decision: leave.StatusApproved,
		})

		assert.ErrorIs(t, err, ledgererrors.ErrInsufficientBalance)
	})

	t.Run("decided request cannot be decided again", func(t *testing.T) {
		approved := pendingLeave(requestID, employeeID, 3)
		approved.Status = leave.StatusApproved
		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				return approved, nil
			},
		}
		svc, _ := setupLeaveServiceTest(t, repo, &fakeEmployeeRepository{}, &fakeLedgerService{})

		_, err := svc.Decide(ctx, decider, requestID.String(), leave.DecideLeaveRequest{
			Decision: leave.StatusRejected,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
	})

	t.Run("lost race against a rejection reverses the deduction", func(t *testing.T) {
		rejected := pendingLeave(requestID, employeeID, 3)
		rejected.Status = leave.StatusRejected

		calls := 0
		reversed := false
		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				calls++
				if calls == 1 {
					return pendingLeave(requestID, employeeID, 3), nil
				}
				// The concurrent decider rejected between our read and
				// the guarded update.
				return rejected, nil
			},
			updateStatusFn: func(ctx context.Context, id, fromStatus, toStatus, deciderID string, at time.Time) (bool, error) {
				return false, nil
			},
		}
		balances := &fakeLedgerService{
			reverseFn: func(ctx context.Context, empID, leaveRequestID string, days int) error {
				reversed = true
				assert.Equal(t, requestID.String(), leaveRequestID)
				assert.Equal(t, 3, days)
				return nil
			},
		}
		svc, mock := setupLeaveServiceTest(t, repo, &fakeEmployeeRepository{}, balances)
		expectLeaveTx(t, mock, false)

		_, err := svc.Decide(ctx, decider, requestID.String(), leave.DecideLeaveRequest{
			Decision: leave.StatusApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
		assert.True(t, reversed, "deducted days must be returned when the winner rejected")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("employees cannot decide", func(t *testing.T) {
		svc, _ := setupLeaveServiceTest(t, &fakeLeaveRepository{}, &fakeEmployeeRepository{}, &fakeLedgerService{})
		employeeActor := domain.Actor{ID: employeeID, Role: domain.RoleEmployee}

		_, err := svc.Decide(ctx, employeeActor, requestID.String(), leave.DecideLeaveRequest{
			Decision: leave.StatusApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrForbidden)
	})

	t.Run("rejects unknown decision", func(t *testing.T) {
		svc, _ := setupLeaveServiceTest(t, &fakeLeaveRepository{}, &fakeEmployeeRepository{}, &fakeLedgerService{})

		_, err := svc.Decide(ctx, decider, requestID.String(), leave.DecideLeaveRequest{
			Decision: "MAYBE",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDecision)
	})

	t.Run("unknown request maps to not found", func(t *testing.T) {
		svc, _ := setupLeaveServiceTest(t, &fakeLeaveRepository{}, &fakeEmployeeRepository{}, &fakeLedgerService{})

		_, err := svc.Decide(ctx, decider, uuid.NewString(), leave.DecideLeaveRequest{
			Decision: leave.StatusApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_Revoke(t *testing.T) {
	ctx := context.Background()
	hr := domain.Actor{ID: uuid.New(), Role: domain.RoleHR}
	requestID := uuid.New()
	employeeID := uuid.New()

	approvedLeave := func() *leave.LeaveRequest {
		l := pendingLeave(requestID, employeeID, 4)
		l.Status = leave.StatusApproved
		return l
	}

	t.Run("returns days and transitions to revoked", func(t *testing.T) {
		reversed := false
		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				return approvedLeave(), nil
			},
			updateStatusFn: func(ctx context.Context, id, fromStatus, toStatus, deciderID string, at time.Time) (bool, error) {
				assert.Equal(t, leave.StatusApproved, fromStatus)
				assert.Equal(t, leave.StatusRevoked, toStatus)
				return true, nil
			},
		}
		balances := &fakeLedgerService{
			reverseFn: func(ctx context.Context, empID, leaveRequestID string, days int) error {
				reversed = true
				assert.Equal(t, 4, days)
				return nil
			},
		}
		svc, mock := setupLeaveServiceTest(t, repo, &fakeEmployeeRepository{}, balances)
		expectLeaveTx(t, mock, true)

		resp, err := svc.Revoke(ctx, hr, requestID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRevoked, resp.Status)
		assert.True(t, reversed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("only approved requests can be revoked", func(t *testing.T) {
		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				return pendingLeave(requestID, employeeID, 4), nil
			},
		}
		svc, _ := setupLeaveServiceTest(t, repo, &fakeEmployeeRepository{}, &fakeLedgerService{})

		_, err := svc.Revoke(ctx, hr, requestID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
	})

	t.Run("managers cannot revoke", func(t *testing.T) {
		svc, _ := setupLeaveServiceTest(t, &fakeLeaveRepository{}, &fakeEmployeeRepository{}, &fakeLedgerService{})
		manager := domain.Actor{ID: uuid.New(), Role: domain.RoleManager}

		_, err := svc.Revoke(ctx, manager, requestID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrRevokeForbidden)
	})
}

func TestLeaveService_GetAll(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("employees see only their own requests", func(t *testing.T) {
		var askedFor string
		repo := &fakeLeaveRepository{
			findAllByEmpFn: func(ctx context.Context, empID string) ([]leave.LeaveRequest, error) {
				askedFor = empID
				return []leave.LeaveRequest{*pendingLeave(uuid.New(), employeeID, 2)}, nil
			},
		}
		svc, _ := setupLeaveServiceTest(t, repo, &fakeEmployeeRepository{}, &fakeLedgerService{})
		actor := domain.Actor{ID: employeeID, Role: domain.RoleEmployee}

		resp, err := svc.GetAll(ctx, actor)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, employeeID.String(), askedFor)
	})

	t.Run("deciders see all requests", func(t *testing.T) {
		repo := &fakeLeaveRepository{
			findAllFn: func(ctx context.Context) ([]leave.LeaveRequest, error) {
				return []leave.LeaveRequest{
					*pendingLeave(uuid.New(), employeeID, 2),
					*pendingLeave(uuid.New(), uuid.New(), 5),
				}, nil
			},
		}
		svc, _ := setupLeaveServiceTest(t, repo, &fakeEmployeeRepository{}, &fakeLedgerService{})
		actor := domain.Actor{ID: uuid.New(), Role: domain.RoleManager}

		resp, err := svc.GetAll(ctx, actor)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("garbled stored reasons degrade to an empty list", func(t *testing.T) {
		leaveID := uuid.New()
		score := 0.68
		label := "RECOMMEND"
		garbled := `{"not": "a json array`
		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				l := pendingLeave(leaveID, uuid.New(), 3)
				l.RecommendScore = &score
				l.RecommendLabel = &label
				l.RecommendReasons = &garbled
				return l, nil
			},
		}
		svc, _ := setupLeaveServiceTest(t, repo, &fakeEmployeeRepository{}, &fakeLedgerService{})

		resp, err := svc.GetByID(ctx, leaveID.String())

		assert.NoError(t, err)
		assert.NotNil(t, resp.Recommendation)
		assert.Equal(t, "RECOMMEND", resp.Recommendation.Label)
		assert.Empty(t, resp.Recommendation.Reasons)
	})

	t.Run("unknown request", func(t *testing.T) {
		svc, _ := setupLeaveServiceTest(t, &fakeLeaveRepository{}, &fakeEmployeeRepository{}, &fakeLedgerService{})

		_, err := svc.GetByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}
