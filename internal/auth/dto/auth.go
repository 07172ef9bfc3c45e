package dto

import authdomain "inboxcal-backend/internal/auth/domain"

type GoogleCallbackRequest struct {
	Code  string `form:"code"`
	State string `form:"state"`
	Error string `form:"error"`
}

type UserResponse struct {
	User *authdomain.User `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
