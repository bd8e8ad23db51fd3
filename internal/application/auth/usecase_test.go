package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/internal/application/auth"
	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/infrastructure/memory"
	"github.com/jhoicas/procurement-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth() *auth.AuthUseCase {
	store := memory.NewStore()
	return auth.NewAuthUseCase(store.Repos().Users, auth.JWTConfig{
		Secret:            secret,
		ExpMinutes:        15,
		RefreshExpMinutes: 60,
		Issuer:            "procurement-api",
	})
}

func TestRegisterUser_PrimeroEsAdmin(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	first, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Admin@Acme.test", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, first.Role)
	assert.Equal(t, "admin@acme.test", first.Email)

	second, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "buyer@acme.test", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBuyer, second.Role)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ADMIN@acme.test", Password: "otherpass"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@acme.test", Password: "supersecret"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@acme.test", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nobody@acme.test", Password: "supersecret"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_EmiteTokensYRefresh(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@acme.test", Password: "supersecret"})
	require.NoError(t, err)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "a@acme.test", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)

	userID, role, err := jwt.Parse(secret, res.Token, jwt.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)

	_, err = uc.Refresh(ctx, dto.RefreshRequest{RefreshToken: res.Token})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un access token no sirve como refresh")

	renewed, err := uc.Refresh(ctx, dto.RefreshRequest{RefreshToken: res.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.Token)
}
