package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/autoparts-api/internal/application/dto"
	"github.com/jhoicas/autoparts-api/internal/domain"
	"github.com/jhoicas/autoparts-api/internal/domain/entity"
	"github.com/jhoicas/autoparts-api/internal/domain/repository"
	"github.com/jhoicas/autoparts-api/pkg/jwt"
	"github.com/jhoicas/autoparts-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret            string
	ExpMinutes        int
	RefreshSecret     string
	RefreshExpMinutes int
	Issuer            string
}

// AdminSeed credenciales del administrador inicial.
type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

// AuthUseCase casos de uso de autenticación: login, refresh, perfil y semilla de admin.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica email/password y emite access + refresh token.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	return uc.issue(user)
}

// Refresh valida el refresh token y emite un nuevo par de tokens.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	userID, _, err := jwt.Parse(uc.refreshSecret(), refreshToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return uc.issue(user)
}

// Me devuelve el perfil del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// SeedAdmin crea el administrador inicial si todavía no existe ninguno.
// Devuelve true cuando lo creó.
func (uc *AuthUseCase) SeedAdmin(ctx context.Context, seed AdminSeed, log *logger.Logger) (bool, error) {
	if seed.Email == "" || seed.Password == "" {
		return false, nil
	}
	exists, err := uc.userRepo.ExistsWithRole(ctx, entity.RoleAdmin)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	name := seed.Name
	if name == "" {
		name = "Administrador"
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        normalizeEmail(seed.Email),
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	if log != nil {
		log.Info().Str("email", user.Email).Msg("administrador inicial creado")
	}
	return true, nil
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	refreshExp := uc.jwtCfg.RefreshExpMinutes
	if refreshExp <= 0 {
		refreshExp = 7 * 24 * 60
	}
	refresh, err := jwt.Generate(uc.refreshSecret(), user.ID, user.Role, uc.jwtCfg.Issuer, refreshExp)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:        token,
		RefreshToken: refresh,
		User:         *toUserResponse(user),
	}, nil
}

func (uc *AuthUseCase) refreshSecret() string {
	if uc.jwtCfg.RefreshSecret != "" {
		return uc.jwtCfg.RefreshSecret
	}
	return uc.jwtCfg.Secret
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
