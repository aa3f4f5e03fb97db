package salary

type CreateSalaryRequest struct {
	EmployeeID  string  `json:"employee_id" binding:"required,uuid"`
	Month       string  `json:"month" binding:"required"`
	BasicSalary float64 `json:"basic_salary" binding:"required"`
	Deductions  float64 `json:"deductions"`

	// Corrective supersedes the month's active record instead of
	// conflicting with it.
	Corrective bool `json:"corrective"`
}

type SalaryResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	Month          string  `json:"month"`
	BasicSalary    float64 `json:"basic_salary"`
	Deductions     float64 `json:"deductions"`
	NetPay         float64 `json:"net_pay"`
	AnomalyFlag    bool    `json:"anomaly_flag"`
	AnomalySummary *string `json:"anomaly_summary,omitempty"`
	Superseded     bool    `json:"superseded"`
	SupersededBy   *string `json:"superseded_by,omitempty"`
}

// PayslipSummary is the human-readable digest built from a record and
// its trailing history.
type PayslipSummary struct {
	Headline string   `json:"headline"`
	Insights []string `json:"insights"`
	Warnings []string `json:"warnings"`
}
