package report

import "time"

// EmployeeLine is one employee's row in the HR report.
type EmployeeLine struct {
	EmployeeID        string `json:"employee_id"`
	FullName          string `json:"full_name"`
	Department        string `json:"department,omitempty"`
	LeaveBalance      int    `json:"leave_balance"`
	OpenTasks         int    `json:"open_tasks"`
	PendingAttendance int    `json:"pending_attendance_reviews"`
	PendingLeaves     int    `json:"pending_leaves"`
	SalaryAnomalies   int    `json:"salary_anomalies"`
}

type Totals struct {
	Employees         int `json:"employees"`
	OpenTasks         int `json:"open_tasks"`
	PendingAttendance int `json:"pending_attendance_reviews"`
	PendingLeaves     int `json:"pending_leaves"`
	SalaryAnomalies   int `json:"salary_anomalies"`
}

type HRReport struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Employees   []EmployeeLine `json:"employees"`
	Totals      Totals         `json:"totals"`
}
