package dto

import "yamdb/internal/apperr"

// Data Transfer Objects for the sign-up and token exchange flow

// ReservedUsername is the path alias of the self-service profile endpoint.
const ReservedUsername = "me"

// SignUpRequest: payload for POST /auth/signup/
type SignUpRequest struct {
	Username string `json:"username" binding:"required,max=20,username"`
	Email    string `json:"email" binding:"required,max=30,email"`
}

func (r SignUpRequest) Validate() error {
	return checkUsername(r.Username)
}

// SignUpResponse echoes the submitted pair.
type SignUpResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest: payload for POST /auth/token/
type TokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func checkUsername(username string) error {
	if username == ReservedUsername {
		return apperr.Field("username", `Username "me" is not allowed`)
	}
	return nil
}
