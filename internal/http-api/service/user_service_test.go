package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"yamdb/internal/apperr"
	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/testutil"
	"yamdb/pkg/pagination"
)

func newUserService(t *testing.T) (UserService, *gorm.DB) {
	db := testutil.NewDB(t)
	return NewUserService(repository.NewUserRepository(db), discardLogger()), db
}

func strPtr(s string) *string { return &s }

func TestUserService_RoleGuard(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "plain", models.RoleUser)
	moderator := testutil.CreateUser(t, db, "mod", models.RoleModerator)
	admin := testutil.CreateUser(t, db, "boss", models.RoleAdmin)

	t.Run("user escalating to admin keeps user", func(t *testing.T) {
		got, err := svc.Update(ctx, user, user, dto.UserUpdateRequest{Role: strPtr("admin"), Bio: strPtr("hi")})
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, got.Role)
		assert.Equal(t, "hi", got.Bio)

		stored, err := svc.Get(ctx, "plain")
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, stored.Role)
	})

	t.Run("moderator cannot change own role", func(t *testing.T) {
		got, err := svc.Update(ctx, moderator, moderator, dto.UserUpdateRequest{Role: strPtr("admin")})
		require.NoError(t, err)
		assert.Equal(t, models.RoleModerator, got.Role)
	})

	t.Run("admin can promote", func(t *testing.T) {
		got, err := svc.Update(ctx, admin, user, dto.UserUpdateRequest{Role: strPtr("moderator")})
		require.NoError(t, err)
		assert.Equal(t, models.RoleModerator, got.Role)
	})
}

func TestUserService_Uniqueness(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()
	testutil.CreateUser(t, db, "taken", models.RoleUser)
	admin := testutil.CreateUser(t, db, "boss", models.RoleAdmin)

	_, err := svc.Create(ctx, dto.UserCreateRequest{Username: "taken", Email: "new@x.com"})
	assert.True(t, apperr.IsConflict(err))

	_, err = svc.Create(ctx, dto.UserCreateRequest{Username: "fresh", Email: "taken@example.com"})
	assert.True(t, apperr.IsConflict(err))

	_, err = svc.Update(ctx, admin, admin, dto.UserUpdateRequest{Username: strPtr("taken")})
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, "boss", admin.Username, "target is untouched on failure")

	_, err = svc.Update(ctx, admin, admin, dto.UserUpdateRequest{Username: strPtr("me")})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

func TestUserService_CreateAndList(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, dto.UserCreateRequest{Username: "alice", Email: "alice@x.com", Role: strPtr("moderator")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, u.Role)
	_, err = svc.Create(ctx, dto.UserCreateRequest{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)

	list, total, err := svc.List(ctx, "", pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "alice", list[0].Username)

	list, total, err = svc.List(ctx, "BO", pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "bob", list[0].Username)
}

func TestUserService_DeleteCascades(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author", models.RoleUser)
	other := testutil.CreateUser(t, db, "other", models.RoleUser)
	title := testutil.CreateTitle(t, db, "Dune", 1965, nil)
	review := testutil.CreateReview(t, db, title, author, 8)
	testutil.CreateComment(t, db, review, other, "on author's review")
	otherReview := testutil.CreateReview(t, db, title, other, 5)
	testutil.CreateComment(t, db, otherReview, author, "author's comment")
	kept := testutil.CreateComment(t, db, otherReview, other, "survives")

	require.NoError(t, svc.Delete(ctx, author))

	var reviews, comments int64
	db.Model(&models.Review{}).Count(&reviews)
	db.Model(&models.Comment{}).Count(&comments)
	assert.EqualValues(t, 1, reviews)
	assert.EqualValues(t, 1, comments)

	var left models.Comment
	require.NoError(t, db.First(&left).Error)
	assert.Equal(t, kept.ID, left.ID)

	_, err := svc.Get(ctx, "author")
	assert.True(t, apperr.IsNotFound(err))
}

func TestUserService_CreateSuperuser(t *testing.T) {
	svc, _ := newUserService(t)

	u, err := svc.CreateSuperuser(context.Background(), "root", "root@x.com")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
	assert.True(t, u.IsSuperuser)
	assert.True(t, u.IsStaff)

	_, err = svc.CreateSuperuser(context.Background(), "root", "root2@x.com")
	assert.True(t, apperr.IsConflict(err))
}
