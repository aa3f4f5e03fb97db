package leave

type SubmitLeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	LeaveType  string `json:"leave_type" binding:"required,oneof=ANNUAL SICK UNPAID"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason"`
}

type DecideLeaveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
}

type RecommendationPayload struct {
	Score   float64  `json:"score"`
	Label   string   `json:"label"`
	Reasons []string `json:"reasons"`
}

type LeaveResponse struct {
	ID             string                 `json:"id"`
	EmployeeID     string                 `json:"employee_id"`
	LeaveType      string                 `json:"leave_type"`
	StartDate      string                 `json:"start_date"`
	EndDate        string                 `json:"end_date"`
	TotalDays      int                    `json:"total_days"`
	Reason         string                 `json:"reason"`
	Status         string                 `json:"status"`
	DecidedBy      *string                `json:"decided_by,omitempty"`
	DecidedAt      *string                `json:"decided_at,omitempty"`
	Recommendation *RecommendationPayload `json:"recommendation,omitempty"`
}
