package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"yamdb/internal/apperr"
	"yamdb/internal/config"
	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/mailer"
	"yamdb/internal/middleware/auth"
	"yamdb/internal/shared"
)

// ErrInvalidCode is returned by ExchangeToken when the confirmation code
// does not match the user's current state.
var ErrInvalidCode = &apperr.AppError{
	Code:       "INVALID_CODE",
	Message:    "invalid code",
	HTTPStatus: http.StatusBadRequest,
}

var errInvalidToken = apperr.Unauthorized("Given token not valid for any token type")

type AuthService interface {
	SignUp(ctx context.Context, in dto.SignUpRequest) (*models.User, error)
	ExchangeToken(ctx context.Context, in dto.TokenRequest) (string, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	IssueCode(ctx context.Context, username string) (string, error)
}

type authService struct {
	users     repository.UserRepository
	codes     *auth.CodeGenerator
	mailer    mailer.Mailer
	logger    *slog.Logger
	jwtSecret []byte
	accessTTL time.Duration
	now       func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	codes *auth.CodeGenerator,
	m mailer.Mailer,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		users:     users,
		codes:     codes,
		mailer:    m,
		logger:    logger,
		jwtSecret: []byte(cfg.JWTSecret),
		accessTTL: cfg.AccessTokenTTL,
		now:       time.Now,
	}
}

// SignUp gets or creates the user for the (username, email) pair and mails a
// fresh confirmation code. Repeating a sign-up with the same pair is a no-op
// apart from the new code.
func (s *authService) SignUp(ctx context.Context, in dto.SignUpRequest) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user, err := s.getOrCreate(ctx, in.Username, in.Email)
	if err != nil {
		return nil, err
	}

	msg := mailer.Message{
		To:      []string{user.Email},
		Subject: "YaMDb confirmation code",
		Body: fmt.Sprintf("Hello, %s!\n\nYour confirmation code: %s\n\n"+
			"Exchange it for an access token at /auth/token/.\n", user.Username, s.codes.Make(user)),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "confirmation_mail_failed",
			slog.String("username", user.Username),
			slog.Any("error", err),
		)
		return nil, apperr.Internal(fmt.Errorf("send confirmation code: %w", err))
	}

	s.logger.InfoContext(ctx, "confirmation_code_sent", slog.String("username", user.Username))
	return user, nil
}

func (s *authService) getOrCreate(ctx context.Context, username, email string) (*models.User, error) {
	byName, err := s.findOptional(ctx, s.users.FindByUsername, username)
	if err != nil {
		return nil, err
	}
	byEmail, err := s.findOptional(ctx, s.users.FindByEmail, email)
	if err != nil {
		return nil, err
	}

	if byName != nil && byName.Email != email {
		return nil, conflictOn("username", "A user with that username already exists")
	}
	if byEmail != nil && byEmail.Username != username {
		return nil, conflictOn("email", "A user with that email already exists")
	}
	if byName != nil {
		return byName, nil
	}

	user := models.NewUser(username, email)
	if err := s.users.Create(ctx, user); err != nil {
		if storageErr := apperr.FromStorage(err, "User"); !apperr.IsConflict(storageErr) {
			return nil, storageErr
		}
		// a concurrent sign-up won the insert; it is ours only if the pair matches
		existing, lookupErr := s.users.FindByUsername(ctx, username)
		if lookupErr == nil && existing.Email == email {
			return existing, nil
		}
		return nil, conflictOn("username", "A user with that username or email already exists")
	}
	return user, nil
}

func (s *authService) findOptional(ctx context.Context, find func(context.Context, string) (*models.User, error), key string) (*models.User, error) {
	u, err := find(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "User")
	}
	return u, nil
}

// ExchangeToken trades a confirmation code for an access token. A successful
// exchange stamps last_login, which invalidates the code.
func (s *authService) ExchangeToken(ctx context.Context, in dto.TokenRequest) (string, error) {
	user, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		return "", apperr.FromStorage(err, "User")
	}
	if !user.IsActive || !s.codes.Check(user, in.ConfirmationCode) {
		s.logger.WarnContext(ctx, "confirmation_code_rejected", slog.String("username", user.Username))
		return "", ErrInvalidCode
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user, now); err != nil {
		return "", apperr.FromStorage(err, "User")
	}

	token, err := s.generateAccessToken(user, now)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("sign access token: %w", err))
	}
	s.logger.InfoContext(ctx, "access_token_issued", slog.String("username", user.Username))
	return token, nil
}

func (s *authService) generateAccessToken(user *models.User, now time.Time) (string, error) {
	claims := shared.AuthClaims{
		Username: user.Username,
		Role:     string(user.Role),
		Type:     shared.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// Authenticate validates a bearer token and reloads its user. Deleted or
// inactive users are rejected even while the token is unexpired.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &shared.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.Type != shared.TokenTypeAccess || claims.Subject == "" {
		return nil, errInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthorized("User not found")
	}
	if err != nil {
		return nil, apperr.FromStorage(err, "User")
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized("User is inactive or deleted")
	}
	return user, nil
}

// IssueCode returns a fresh confirmation code without mailing it.
func (s *authService) IssueCode(ctx context.Context, username string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", apperr.FromStorage(err, "User")
	}
	return s.codes.Make(user), nil
}

// conflictOn is a uniqueness failure attributed to one field.
func conflictOn(field, msg string) *apperr.AppError {
	e := apperr.Conflict(msg)
	e.Details = []apperr.FieldError{{Field: field, Message: msg}}
	return e
}
