package domain

import "github.com/google/uuid"

// Role is the closed three-tier hierarchy: HR > Manager > Employee.
type Role string

const (
	RoleHR       Role = "HR"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

func (r Role) Valid() bool {
	switch r {
	case RoleHR, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// CanReviewAttendance reports whether the role may decide a pending
// attendance review.
func (r Role) CanReviewAttendance() bool {
	return r == RoleHR || r == RoleManager
}

// CanDecideLeave reports whether the role may approve or reject a
// pending leave request.
func (r Role) CanDecideLeave() bool {
	return r == RoleHR || r == RoleManager
}

// CanRevokeLeave reports whether the role may administratively reverse
// an approved leave request.
func (r Role) CanRevokeLeave() bool {
	return r == RoleHR
}

// CanManagePayroll reports whether the role may enter salary records.
func (r Role) CanManagePayroll() bool {
	return r == RoleHR
}

// CanRatePerformance reports whether the role may record a monthly
// performance rating.
func (r Role) CanRatePerformance() bool {
	return r == RoleHR || r == RoleManager
}

// Actor identifies the caller of a workflow operation. The HTTP layer
// fills it from the verified token; services trust it as given.
type Actor struct {
	ID   uuid.UUID
	Role Role
}
