package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of user roles. Superuser is a separate flag.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Field limits shared with the request DTOs.
const (
	UsernameMaxLen = 20
	EmailMaxLen    = 30
	NameMaxLen     = 150
	BioMaxLen      = 300
)

type User struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username    string     `gorm:"uniqueIndex;size:20;not null" json:"username"`
	Email       string     `gorm:"uniqueIndex;size:30;not null" json:"email"`
	FirstName   string     `gorm:"size:150;not null;default:''" json:"first_name"`
	LastName    string     `gorm:"size:150;not null;default:''" json:"last_name"`
	Bio         string     `gorm:"type:text;not null;default:''" json:"bio"`
	Role        Role       `gorm:"size:16;not null" json:"role"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
	IsStaff     bool       `gorm:"not null" json:"is_staff"`
	IsSuperuser bool       `gorm:"not null" json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	DateJoined  time.Time  `gorm:"autoCreateTime" json:"date_joined"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewUser returns an active user with the default role.
func NewUser(username, email string) *User {
	return &User{
		Username: username,
		Email:    email,
		Role:     RoleUser,
		IsActive: true,
	}
}

// IsAdmin is true for the admin role or the superuser flag.
func (u *User) IsAdmin() bool {
	return u != nil && (u.Role == RoleAdmin || u.IsSuperuser)
}

func (u *User) IsModerator() bool {
	return u != nil && u.Role == RoleModerator
}

// OwnerID makes a user its own resource for profile permissions.
func (u *User) OwnerID() string { return u.ID }

// BeforeCreate hook to set UUID before creating a User
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// BeforeSave enforces the column constraints the schema cannot express portably.
// GORM runs it before BeforeCreate, so the role default is applied here.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleUser
	}
	return collect(
		required("username", u.Username),
		maxLen("username", u.Username, UsernameMaxLen),
		required("email", u.Email),
		maxLen("email", u.Email, EmailMaxLen),
		maxLen("first_name", u.FirstName, NameMaxLen),
		maxLen("last_name", u.LastName, NameMaxLen),
		maxLen("bio", u.Bio, BioMaxLen),
		oneOf("role", u.Role.Valid(), "Must be one of: user, moderator, admin"),
	)
}

func (User) TableName() string {
	return "users"
}
