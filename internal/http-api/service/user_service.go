package service

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"yamdb/internal/apperr"
	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/pkg/pagination"
)

type UserService interface {
	List(ctx context.Context, search string, page pagination.Params) ([]models.User, int64, error)
	Get(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, in dto.UserCreateRequest) (*models.User, error)
	Update(ctx context.Context, actor, target *models.User, in dto.UserUpdateRequest) (*models.User, error)
	Delete(ctx context.Context, target *models.User) error
	CreateSuperuser(ctx context.Context, username, email string) (*models.User, error)
}

type userService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, logger *slog.Logger) UserService {
	return &userService{users: users, logger: logger}
}

func (s *userService) List(ctx context.Context, search string, page pagination.Params) ([]models.User, int64, error) {
	list, total, err := s.users.List(ctx, search, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, apperr.FromStorage(err, "User")
	}
	return list, total, nil
}

func (s *userService) Get(ctx context.Context, username string) (*models.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperr.FromStorage(err, "User")
	}
	return u, nil
}

func (s *userService) Create(ctx context.Context, in dto.UserCreateRequest) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	u := in.ToModel()
	if err := s.ensureUnique(ctx, u); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, apperr.FromStorage(err, "User")
	}
	s.logger.InfoContext(ctx, "user_created", slog.String("username", u.Username), slog.String("role", string(u.Role)))
	return u, nil
}

// Update applies a partial profile change. Only admins may change roles; for
// anyone else a submitted role is dropped and the stored one kept.
func (s *userService) Update(ctx context.Context, actor, target *models.User, in dto.UserUpdateRequest) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	updated := *target
	in.ApplyTo(&updated, actor.IsAdmin())
	if err := s.ensureUnique(ctx, &updated); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, &updated); err != nil {
		return nil, apperr.FromStorage(err, "User")
	}

	*target = updated
	return target, nil
}

func (s *userService) Delete(ctx context.Context, target *models.User) error {
	if err := s.users.Delete(ctx, target); err != nil {
		return apperr.FromStorage(err, "User")
	}
	s.logger.InfoContext(ctx, "user_deleted", slog.String("username", target.Username))
	return nil
}

// CreateSuperuser creates an active admin with the superuser and staff flags.
func (s *userService) CreateSuperuser(ctx context.Context, username, email string) (*models.User, error) {
	if err := (dto.SignUpRequest{Username: username, Email: email}).Validate(); err != nil {
		return nil, err
	}
	u := models.NewUser(username, email)
	u.Role = models.RoleAdmin
	u.IsStaff = true
	u.IsSuperuser = true
	if err := s.ensureUnique(ctx, u); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, apperr.FromStorage(err, "User")
	}
	return u, nil
}

// ensureUnique rejects a username or email held by another user before any
// write is attempted.
func (s *userService) ensureUnique(ctx context.Context, u *models.User) error {
	if other, err := s.users.FindByUsername(ctx, u.Username); err == nil && other.ID != u.ID {
		return conflictOn("username", "A user with that username already exists")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.FromStorage(err, "User")
	}
	if other, err := s.users.FindByEmail(ctx, u.Email); err == nil && other.ID != u.ID {
		return conflictOn("email", "A user with that email already exists")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.FromStorage(err, "User")
	}
	return nil
}
