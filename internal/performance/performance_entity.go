package performance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PerformanceRating is append-only: corrections are new rows for later
// months, never edits.
type PerformanceRating struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_performance_employee_month"`
	Month      time.Time `gorm:"type:date;not null;uniqueIndex:uq_performance_employee_month"`
	Rating     int       `gorm:"not null"`
	Comments   string    `gorm:"type:text"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (PerformanceRating) TableName() string {
	return "performance_ratings"
}
