// Package events defines the payloads written to the transactional
// outbox when a workflow record changes state. Downstream consumers
// (notification delivery, reporting) live outside this service.
package events

const (
	AttendanceFlaggedTopic  = "hr.attendance.flagged"
	AttendanceReviewedTopic = "hr.attendance.reviewed"
	LeaveDecidedTopic       = "hr.leave.decided"
	LeaveRevokedTopic       = "hr.leave.revoked"
	SalaryAnomalyTopic      = "hr.salary.anomaly"
)

const (
	AttendanceFlaggedEvent  = "attendance.flagged"
	AttendanceReviewedEvent = "attendance.reviewed"
	LeaveDecidedEvent       = "leave.decided"
	LeaveRevokedEvent       = "leave.revoked"
	SalaryAnomalyEvent      = "salary.anomaly_detected"
)

type AttendanceFlagged struct {
	RecordID   string  `json:"record_id"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	Reason     string  `json:"reason"`
	Score      float64 `json:"score"`
}

type AttendanceReviewed struct {
	RecordID   string `json:"record_id"`
	EmployeeID string `json:"employee_id"`
	Decision   string `json:"decision"`
	ReviewerID string `json:"reviewer_id"`
}

type LeaveDecided struct {
	RequestID  string `json:"request_id"`
	EmployeeID string `json:"employee_id"`
	Decision   string `json:"decision"`
	DeciderID  string `json:"decider_id"`
	TotalDays  int    `json:"total_days"`
}

type LeaveRevoked struct {
	RequestID  string `json:"request_id"`
	EmployeeID string `json:"employee_id"`
	RevokerID  string `json:"revoker_id"`
	TotalDays  int    `json:"total_days"`
}

type SalaryAnomaly struct {
	RecordID   string   `json:"record_id"`
	EmployeeID string   `json:"employee_id"`
	Month      string   `json:"month"`
	Rules      []string `json:"rules"`
	Summary    string   `json:"summary"`
}
