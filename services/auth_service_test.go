package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinity-hospitality/event-system/models"
)

func TestAuthRegisterAndLogin(t *testing.T) {
	env := newTestEnv()
	svc := NewAuthService(env.users)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "mira", Email: " Mira@Example.com ", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "mira@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Register(ctx, RegisterInput{Username: "mira2", Email: "mira@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrUserEmailConflict)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Register(ctx, RegisterInput{Username: "mira", Email: "other@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrUserUsernameConflict)

	_, err = svc.Register(ctx, RegisterInput{Username: "short", Email: "short@example.com", Password: "123"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.Register(ctx, RegisterInput{Username: "bad", Email: "bad@", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrValidationFailed)

	logged, err := svc.Login(ctx, LoginInput{Email: "mira@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.Empty(t, logged.PasswordHash)

	_, err = svc.Login(ctx, LoginInput{Email: "mira@example.com", Password: "wrong-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	me, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "mira", me.Username)

	_, err = svc.GetUser(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
