package service

import (
	"testing"

	"orbitcloud/config"
	"orbitcloud/internal/repository"
	"orbitcloud/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	st, err := store.New(t.TempDir())
	require.NoError(t, err)
	cfg := config.Load()
	return NewAuthService(cfg, repository.NewUserRepository(st))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	u, err := svc.Register("Budi Santoso", "budi@gmail.com", "rahasia123")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, 0, u.Balance)
	assert.NotEqual(t, "rahasia123", u.PasswordHash, "password must be hashed")

	got, access, refresh, err := svc.Login("budi@gmail.com", "rahasia123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	_, err := svc.Register("Budi", "budi@gmail.com", "rahasia123")
	require.NoError(t, err)

	_, err = svc.Register("Budi Dua", "budi@gmail.com", "lainlain")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthService(t)
	_, err := svc.Register("Budi", "budi@gmail.com", "rahasia123")
	require.NoError(t, err)

	_, _, _, err = svc.Login("budi@gmail.com", "salah")
	assert.ErrorIs(t, err, ErrInvalidCreds)

	_, _, _, err = svc.Login("tidakada@gmail.com", "rahasia123")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}
