package auth

import "github.com/Taanawutana-gai/LMS/internal/employee"

type LoginRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

type LoginResponse struct {
	Token   string                   `json:"token"`
	Profile employee.ProfileResponse `json:"profile"`
}
