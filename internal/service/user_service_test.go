package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeslam/CarRentalManager-sub003/internal/auth"
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"github.com/keeslam/CarRentalManager-sub003/internal/repository"
	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
)

func newUserService(t *testing.T) UserService {
	t.Helper()
	db := testDB(t)
	return NewUserService(
		repository.NewUserRepository(db),
		NewAuditLogService(repository.NewAuditLogRepository(db)),
		auth.NewTokenManager("test-secret", time.Hour),
	)
}

func TestUserCreateAndLogin(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateUserRequest{
		Username: "jdoe",
		Password: "s3cret-password",
		FullName: "J. Doe",
		Role:     model.RoleStaff,
	})
	require.NoError(t, err)
	assert.True(t, created.Active)

	result, err := svc.Login(ctx, "jdoe", "s3cret-password")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))
	assert.Equal(t, "jdoe", result.User.Username)

	// 签发的令牌可被校验
	tm := auth.NewTokenManager("test-secret", time.Hour)
	claims, err := tm.Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, model.RoleStaff, claims.Role)
}

func TestUserLoginFailuresUniform(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateUserRequest{
		Username: "jdoe",
		Password: "s3cret-password",
		Role:     model.RoleStaff,
	})
	require.NoError(t, err)

	// 未知用户与错误密码返回同一错误,不泄露用户是否存在
	_, err = svc.Login(ctx, "nobody", "whatever-pass")
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
	_, err = svc.Login(ctx, "jdoe", "wrong-password")
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}

func TestUserLoginInactive(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateUserRequest{
		Username: "jdoe",
		Password: "s3cret-password",
		Role:     model.RoleStaff,
	})
	require.NoError(t, err)

	active := false
	_, err = svc.Update(ctx, created.ID, &UpdateUserRequest{Active: &active})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "jdoe", "s3cret-password")
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}

func TestUserCreateGuards(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateUserRequest{
		Username: "jdoe",
		Password: "s3cret-password",
		Role:     model.RoleStaff,
	})
	require.NoError(t, err)

	// 用户名唯一
	_, err = svc.Create(ctx, &CreateUserRequest{
		Username: "jdoe",
		Password: "another-password",
		Role:     model.RoleStaff,
	})
	assert.Error(t, err)

	// 非法角色
	_, err = svc.Create(ctx, &CreateUserRequest{
		Username: "other",
		Password: "s3cret-password",
		Role:     model.UserRole("superuser"),
	})
	assert.Error(t, err)

	// 非法邮箱
	_, err = svc.Create(ctx, &CreateUserRequest{
		Username: "third",
		Password: "s3cret-password",
		Email:    "not-an-email",
		Role:     model.RoleStaff,
	})
	assert.ErrorIs(t, err, utils.ErrInvalidEmail)
}

func TestUserChangePassword(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateUserRequest{
		Username: "jdoe",
		Password: "s3cret-password",
		Role:     model.RoleStaff,
	})
	require.NoError(t, err)

	// 旧密码不对
	err = svc.ChangePassword(ctx, created.ID, "wrong-password", "new-password-1")
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	require.NoError(t, svc.ChangePassword(ctx, created.ID, "s3cret-password", "new-password-1"))

	_, err = svc.Login(ctx, "jdoe", "s3cret-password")
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
	_, err = svc.Login(ctx, "jdoe", "new-password-1")
	assert.NoError(t, err)
}

func TestUserDetailHidesHash(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateUserRequest{
		Username: "jdoe",
		Password: "s3cret-password",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", got.Username)
	assert.Equal(t, model.RoleAdmin, got.Role)

	list, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestEnsureAdminIdempotent(t *testing.T) {
	svc := newUserService(t)

	require.NoError(t, svc.EnsureAdmin("admin", "bootstrap-pass"))
	// 再次调用不报错也不重置密码
	require.NoError(t, svc.EnsureAdmin("admin", "different-pass"))

	result, err := svc.Login(context.Background(), "admin", "bootstrap-pass")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, result.User.Role)

	_, err = svc.Login(context.Background(), "admin", "different-pass")
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}
