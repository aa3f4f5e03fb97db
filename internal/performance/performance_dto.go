package performance

type CreateRatingRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Month      string `json:"month" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Comments   string `json:"comments"`
}

type RatingResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Month      string `json:"month"`
	Rating     int    `json:"rating"`
	Comments   string `json:"comments,omitempty"`
	ReviewerID string `json:"reviewer_id"`
}
