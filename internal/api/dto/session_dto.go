package dto

type IssueSessionRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SessionResponse struct {
	Success bool `json:"success"`
}
