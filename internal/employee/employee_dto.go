package employee

type CreateEmployeeRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Role         string `json:"role" binding:"required,oneof=HR MANAGER EMPLOYEE"`
	Department   string `json:"department"`
	LeaveBalance *int   `json:"leave_balance"`
}

type UpdateEmployeeRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Role       string `json:"role" binding:"required,oneof=HR MANAGER EMPLOYEE"`
	Department string `json:"department"`
}

type EmployeeResponse struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Department   string `json:"department"`
	LeaveBalance int    `json:"leave_balance"`
}
