package service

import (
	"testing"
	"time"

	"opoboost_backend/internal/model"
	"opoboost_backend/internal/repository"
	"opoboost_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) (*AuthService, *repository.UserRepository) {
	t.Helper()
	db := newTestDB(t)
	cfg := testConfig()
	userRepo := repository.NewUserRepository(db)
	email := NewEmailService(cfg)
	return NewAuthService(userRepo, email, nil, cfg), userRepo
}

func TestRegisterAndLoginFlow(t *testing.T) {
	auth, userRepo := newTestAuth(t)

	user := &model.User{Name: "Ana", Email: "Ana@Test.com", Password: "secreta123", Role: model.Student}
	require.NoError(t, auth.Register(user))

	// Email is stored lowercased and the password hashed.
	stored, err := userRepo.FindByEmail("ana@test.com")
	require.NoError(t, err)
	assert.Equal(t, "ana@test.com", stored.Email)
	assert.NotEqual(t, "secreta123", stored.Password)
	assert.False(t, stored.Validated)

	// Duplicate registration, case-insensitive.
	dup := &model.User{Name: "Otra", Email: "ANA@test.com", Password: "secreta123"}
	assert.ErrorIs(t, auth.Register(dup), util.ErrEmailRegistered)

	// Login before validation is rejected.
	_, _, err = auth.Login("ana@test.com", "secreta123")
	assert.ErrorIs(t, err, util.ErrAccountNotValidated)

	_, err = auth.ValidateUser(stored.ID)
	require.NoError(t, err)

	token, logged, err := auth.Login("ana@test.com", "secreta123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, stored.ID, logged.ID)

	_, _, err = auth.Login("ana@test.com", "incorrecta")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, _, err = auth.Login("nadie@test.com", "secreta123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestPasswordResetFlow(t *testing.T) {
	auth, userRepo := newTestAuth(t)

	user := &model.User{Name: "Luis", Email: "luis@test.com", Password: "original123"}
	require.NoError(t, auth.Register(user))

	// Unknown emails do not error, so callers cannot probe accounts.
	require.NoError(t, auth.RequestPasswordReset("nadie@test.com", "https://opoboost.com"))

	require.NoError(t, auth.RequestPasswordReset("luis@test.com", "https://opoboost.com"))
	stored, err := userRepo.FindByEmail("luis@test.com")
	require.NoError(t, err)
	require.NotEmpty(t, stored.ResetToken)
	require.NotNil(t, stored.ResetTokenExpiry)

	require.NoError(t, auth.ResetPassword(stored.ResetToken, "nueva12345"))

	// The token is single-use.
	assert.ErrorIs(t, auth.ResetPassword(stored.ResetToken, "otra12345"), util.ErrResetTokenInvalid)

	// Validate and log in with the new password.
	_, err = auth.ValidateUser(stored.ID)
	require.NoError(t, err)
	_, _, err = auth.Login("luis@test.com", "nueva12345")
	assert.NoError(t, err)
}

func TestExpiredResetToken(t *testing.T) {
	auth, userRepo := newTestAuth(t)

	user := &model.User{Name: "Eva", Email: "eva@test.com", Password: "original123"}
	require.NoError(t, auth.Register(user))

	expired := time.Now().Add(-time.Minute)
	stored, err := userRepo.FindByEmail("eva@test.com")
	require.NoError(t, err)
	stored.ResetToken = "caducado"
	stored.ResetTokenExpiry = &expired
	require.NoError(t, userRepo.Update(stored))

	assert.ErrorIs(t, auth.ResetPassword("caducado", "nueva12345"), util.ErrResetTokenInvalid)
}
