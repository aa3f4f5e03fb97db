package salary

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalaryRecord is immutable once created. A corrective re-entry inserts
// a new row and marks the prior one superseded; only one active row may
// exist per employee and month, enforced by a partial unique index.
type SalaryRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_salary_employee_month_active,where:superseded = false"`
	Month      time.Time `gorm:"type:date;not null;uniqueIndex:uq_salary_employee_month_active,where:superseded = false"`

	BasicSalary float64 `gorm:"type:numeric(12,2);not null"`
	Deductions  float64 `gorm:"type:numeric(12,2);not null;default:0"`
	NetPay      float64 `gorm:"type:numeric(12,2);not null"`

	AnomalyFlag    bool    `gorm:"not null;default:false"`
	AnomalySummary *string `gorm:"type:text"`

	Superseded   bool       `gorm:"not null;default:false"`
	SupersededBy *uuid.UUID `gorm:"type:uuid"`

	EnteredBy uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (SalaryRecord) TableName() string {
	return "salary_records"
}
