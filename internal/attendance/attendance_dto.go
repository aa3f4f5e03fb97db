package attendance

type RecordAttendanceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Date       string `json:"date" binding:"required"`
	Status     string `json:"status" binding:"required,oneof=PRESENT ABSENT LATE"`
}

type ReviewAttendanceRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
}

type AttendanceResponse struct {
	ID            string   `json:"id"`
	EmployeeID    string   `json:"employee_id"`
	Date          string   `json:"date"`
	Status        string   `json:"status"`
	ReviewStatus  string   `json:"review_status"`
	ReviewedBy    *string  `json:"reviewed_by,omitempty"`
	ReviewedAt    *string  `json:"reviewed_at,omitempty"`
	AnomalyScore  *float64 `json:"anomaly_score,omitempty"`
	AnomalyReason *string  `json:"anomaly_reason,omitempty"`
}
