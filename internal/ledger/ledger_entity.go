package ledger

import (
	"time"

	"github.com/google/uuid"
)

// LeaveApplication is the applied-set membership record: one row per
// leave request whose balance deduction has been committed. The unique
// index on LeaveRequestID is what makes Apply idempotent under retry.
type LeaveApplication struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_application_request"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Days           int       `gorm:"type:int;not null"`

	AppliedAt  time.Time
	ReversedAt *time.Time
}

func (LeaveApplication) TableName() string {
	return "leave_applications"
}
