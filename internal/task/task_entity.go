package task

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`

	// Status only moves forward: ASSIGNED, IN_PROGRESS, DONE.
	Status string `gorm:"type:varchar(20);not null;default:'ASSIGNED';index"`

	DueDate     *time.Time `gorm:"type:date"`
	AssignedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Task) TableName() string {
	return "tasks"
}
