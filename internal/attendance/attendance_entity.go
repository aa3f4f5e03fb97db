package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Attendance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendance_employee_date"`
	Status     string    `gorm:"type:varchar(10);not null"`

	// ReviewStatus only moves forward: NONE and PENDING are set at
	// creation by the flagger, APPROVED/REJECTED are terminal and set
	// only through Review.
	ReviewStatus string     `gorm:"type:varchar(20);not null;default:'NONE';index"`
	ReviewedBy   *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt   *time.Time

	SubmittedBy uuid.UUID `gorm:"type:uuid;not null"`

	AnomalyScore  *float64 `gorm:"type:float"`
	AnomalyReason *string  `gorm:"type:varchar(40)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Attendance) TableName() string {
	return "attendances"
}
