package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akashvinod-2003/empmanage/internal/domain"
)

type Employee struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName     string      `gorm:"type:varchar(120);not null"`
	Email        string      `gorm:"type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	PasswordHash string      `gorm:"type:varchar(100);not null"`
	Role         domain.Role `gorm:"type:varchar(20);not null;default:'EMPLOYEE'"`
	Department   string      `gorm:"type:varchar(80);index"`

	// LeaveBalance is mutated exclusively through the leave ledger's
	// apply/reverse operations, guarded by a compare-and-update.
	LeaveBalance int `gorm:"type:int;not null;default:12"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}
