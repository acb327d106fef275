package service

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/albadr/lighting-pos/internal/model"
	"github.com/albadr/lighting-pos/internal/repository"
	"github.com/albadr/lighting-pos/pkg/jwt"
)

func newAuthService(t *testing.T, db *gorm.DB) AuthService {
	t.Helper()
	return NewAuthService(repository.NewUserRepo(db), jwt.NewManager("test-secret"), zerolog.Nop())
}

func seedUser(t *testing.T, db *gorm.DB, email, password string, active bool) *model.User {
	t.Helper()
	user := &model.User{
		Email:    email,
		FullName: "Test User",
		IsActive: active,
	}
	require.NoError(t, user.SetPassword(password))
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	seedUser(t, db, "huda@lighting.example", "s3cret99", true)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login("huda@lighting.example", "s3cret99")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "huda@lighting.example", resp.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("huda@lighting.example", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login("ghost@lighting.example", "s3cret99")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginInactiveUser(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	seedUser(t, db, "former@lighting.example", "s3cret99", false)

	_, err := svc.Login("former@lighting.example", "s3cret99")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestSecondLoginInvalidatesFirstToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	seedUser(t, db, "omar@lighting.example", "s3cret99", true)

	first, err := svc.Login("omar@lighting.example", "s3cret99")
	require.NoError(t, err)
	_, err = svc.ValidateToken(first.Token)
	require.NoError(t, err)

	second, err := svc.Login("omar@lighting.example", "s3cret99")
	require.NoError(t, err)

	// Each login rotates the token version, so only the newest session holds.
	_, err = svc.ValidateToken(first.Token)
	assert.ErrorIs(t, err, ErrSessionReplaced)
	_, err = svc.ValidateToken(second.Token)
	assert.NoError(t, err)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	user := seedUser(t, db, "sara@lighting.example", "s3cret99", true)

	resp, err := svc.Login("sara@lighting.example", "s3cret99")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(user.ID))
	_, err = svc.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrSessionReplaced)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	seedUser(t, db, "ali@lighting.example", "oldpass1", true)

	resp, err := svc.Login("ali@lighting.example", "oldpass1")
	require.NoError(t, err)

	t.Run("wrong old password", func(t *testing.T) {
		err := svc.ChangePassword("ali@lighting.example", "wrong", "newpass1")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("rotates session", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword("ali@lighting.example", "oldpass1", "newpass1"))

		_, err := svc.ValidateToken(resp.Token)
		assert.ErrorIs(t, err, ErrSessionReplaced)

		_, err = svc.Login("ali@lighting.example", "oldpass1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = svc.Login("ali@lighting.example", "newpass1")
		assert.NoError(t, err)
	})
}
