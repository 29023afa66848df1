package dto

import (
	"yamdb/internal/http-api/models"
)

// UserCreateRequest is used by admins on POST /users/.
type UserCreateRequest struct {
	Username  string  `json:"username" binding:"required,max=20,username"`
	Email     string  `json:"email" binding:"required,max=30,email"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string `json:"bio" binding:"omitempty,max=300"`
	Role      *string `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

func (r UserCreateRequest) Validate() error {
	return checkUsername(r.Username)
}

func (r UserCreateRequest) ToModel() *models.User {
	u := models.NewUser(r.Username, r.Email)
	if r.FirstName != nil {
		u.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
	}
	if r.Bio != nil {
		u.Bio = *r.Bio
	}
	if r.Role != nil {
		u.Role = models.Role(*r.Role)
	}
	return u
}

// UserUpdateRequest is a partial profile update (PATCH).
type UserUpdateRequest struct {
	Username  *string `json:"username" binding:"omitempty,max=20,username"`
	Email     *string `json:"email" binding:"omitempty,max=30,email"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string `json:"bio" binding:"omitempty,max=300"`
	Role      *string `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

func (r UserUpdateRequest) Validate() error {
	if r.Username != nil {
		return checkUsername(*r.Username)
	}
	return nil
}

// ApplyTo copies the present fields onto u. The role is only copied when
// allowRole is set; otherwise u keeps its current role.
func (r UserUpdateRequest) ApplyTo(u *models.User, allowRole bool) {
	if r.Username != nil {
		u.Username = *r.Username
	}
	if r.Email != nil {
		u.Email = *r.Email
	}
	if r.FirstName != nil {
		u.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
	}
	if r.Bio != nil {
		u.Bio = *r.Bio
	}
	if r.Role != nil && allowRole {
		u.Role = models.Role(*r.Role)
	}
}

type UserResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

func FromModelToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      string(u.Role),
	}
}
