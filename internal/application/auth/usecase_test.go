package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/autoparts-api/internal/application/auth"
	"github.com/jhoicas/autoparts-api/internal/application/dto"
	"github.com/jhoicas/autoparts-api/internal/domain"
	"github.com/jhoicas/autoparts-api/internal/domain/entity"
	"github.com/jhoicas/autoparts-api/internal/infrastructure/memory"
	"github.com/jhoicas/autoparts-api/pkg/jwt"
)

var jwtCfg = auth.JWTConfig{
	Secret:            "secreto-de-prueba",
	ExpMinutes:        15,
	RefreshSecret:     "secreto-refresh",
	RefreshExpMinutes: 60,
	Issuer:            "autoparts-api",
}

func setupAuth(t *testing.T) (*auth.AuthUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store.Users(), jwtCfg)
	created, err := uc.SeedAdmin(context.Background(), auth.AdminSeed{Email: "Admin@Repuestos.co", Password: "clave-segura"}, nil)
	require.NoError(t, err)
	require.True(t, created)
	return uc, store
}

func TestSeedAdmin_SoloUnaVez(t *testing.T) {
	uc, _ := setupAuth(t)
	created, err := uc.SeedAdmin(context.Background(), auth.AdminSeed{Email: "otro@repuestos.co", Password: "x"}, nil)
	require.NoError(t, err)
	assert.False(t, created, "ya existe un administrador")

	created, err = auth.NewAuthUseCase(memory.NewStore().Users(), jwtCfg).SeedAdmin(context.Background(), auth.AdminSeed{}, nil)
	require.NoError(t, err)
	assert.False(t, created, "sin credenciales no se crea nada")
}

func TestLogin_EmiteTokensConRol(t *testing.T) {
	uc, _ := setupAuth(t)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: " ADMIN@repuestos.co ", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, "admin@repuestos.co", out.User.Email)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)

	userID, role, err := jwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)

	_, _, err = jwt.Parse(jwtCfg.Secret, out.RefreshToken)
	assert.Error(t, err, "el refresh token se firma con otro secreto")
}

func TestLogin_Errores(t *testing.T) {
	uc, store := setupAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "nadie@repuestos.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "admin@repuestos.co", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	hash, err := bcrypt.GenerateFromPassword([]byte("clave"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(ctx, &entity.User{
		ID: "u2", Email: "inactivo@repuestos.co", PasswordHash: string(hash),
		Role: entity.RoleCustomer, IsActive: false, CreatedAt: time.Now(),
	}))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "inactivo@repuestos.co", Password: "clave"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRefreshYMe(t *testing.T) {
	uc, _ := setupAuth(t)
	ctx := context.Background()
	login, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@repuestos.co", Password: "clave-segura"})
	require.NoError(t, err)

	refreshed, err := uc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)
	assert.Equal(t, login.User.ID, refreshed.User.ID)

	_, err = uc.Refresh(ctx, login.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un access token no sirve como refresh")

	me, err := uc.Me(ctx, login.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Administrador", me.Name)

	_, err = uc.Me(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
