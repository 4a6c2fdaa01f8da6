// internal/service/auth_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"go_5_course_keep/internal/config"
	"go_5_course_keep/internal/model"
	"go_5_course_keep/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.Config {
	cfg := config.Config{}
	cfg.App.Name = "course-keep-test"
	cfg.JWT = config.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenTTL: time.Hour,
	}
	return cfg
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBEnrollment(t)
	svc := NewAuthService(db, repository.NewGormUserRepository(), testAuthConfig())

	registerReq := &model.RegisterRequest{
		Name:     "田中太郎",
		Email:    "tanaka@example.com",
		Password: "secret123",
		Role:     model.RoleStudent,
	}

	t.Run("正常系: 登録してログインできる", func(t *testing.T) {
		user, err := svc.Register(ctx, registerReq)
		require.NoError(t, err)
		assert.Equal(t, model.RoleStudent, user.Role)
		assert.NotEqual(t, "secret123", user.PasswordHash, "パスワードは平文で保存しない")

		resp, err := svc.Login(ctx, &model.LoginRequest{
			Email:    "tanaka@example.com",
			Password: "secret123",
			Role:     model.RoleStudent,
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.AccessToken)

		// トークンにsubjectとroleが入っている
		token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		sub, err := claims.GetSubject()
		require.NoError(t, err)
		assert.Equal(t, user.UserID.String(), sub)
		assert.Equal(t, "student", claims["role"])
	})

	t.Run("異常系: メールアドレスの重複登録", func(t *testing.T) {
		_, err := svc.Register(ctx, registerReq)
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("異常系: パスワード不一致", func(t *testing.T) {
		_, err := svc.Login(ctx, &model.LoginRequest{
			Email:    "tanaka@example.com",
			Password: "wrong-password",
			Role:     model.RoleStudent,
		})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("異常系: 役割違いのログインは存在しない扱い", func(t *testing.T) {
		_, err := svc.Login(ctx, &model.LoginRequest{
			Email:    "tanaka@example.com",
			Password: "secret123",
			Role:     model.RoleTeacher,
		})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBEnrollment(t)
	svc := NewAuthService(db, repository.NewGormUserRepository(), testAuthConfig())

	user, err := svc.Register(ctx, &model.RegisterRequest{
		Name:     "佐藤花子",
		Email:    "sato@example.com",
		Password: "secret123",
		Role:     model.RoleTeacher,
	})
	require.NoError(t, err)

	newName := "佐藤はな"
	newPassword := "newsecret456"

	t.Run("異常系: 現在のパスワードが違うと更新できない", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, user.UserID, &model.UpdateProfileRequest{
			Name:            &newName,
			CurrentPassword: "wrong",
		})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("正常系: 名前とパスワードを更新できる", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, user.UserID, &model.UpdateProfileRequest{
			Name:            &newName,
			CurrentPassword: "secret123",
			NewPassword:     &newPassword,
		})
		require.NoError(t, err)
		assert.Equal(t, newName, updated.Name)

		// 新パスワードでログインできる
		_, err = svc.Login(ctx, &model.LoginRequest{
			Email:    "sato@example.com",
			Password: newPassword,
			Role:     model.RoleTeacher,
		})
		assert.NoError(t, err)
	})
}

func TestAuthService_ListTeachers(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBEnrollment(t)
	svc := NewAuthService(db, repository.NewGormUserRepository(), testAuthConfig())

	_, err := svc.Register(ctx, &model.RegisterRequest{
		Name: "講師A", Email: "a@example.com", Password: "secret123", Role: model.RoleTeacher,
	})
	require.NoError(t, err)
	_, err = svc.Register(ctx, &model.RegisterRequest{
		Name: "受講者B", Email: "b@example.com", Password: "secret123", Role: model.RoleStudent,
	})
	require.NoError(t, err)

	teachers, err := svc.ListTeachers(ctx)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "講師A", teachers[0].Name)
}
