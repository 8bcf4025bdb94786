package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/interfac/user-manager/internal/core/domain"
	"github.com/interfac/user-manager/internal/core/ports"
)

// AuthService maps a login name to an authenticated principal. The issued
// token carries the username plus the authorities derived from the user's
// role: the role name and its privilege names.
type AuthService struct {
	users     ports.UserService
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(users ports.UserService, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}

	if !user.Enabled {
		return "", nil, domain.ErrAccountDisabled
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn().Str("username", username).Msg("login rejected: bad password")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("username", username).Msg("login succeeded")
	return token, user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	role := ""
	if len(user.Roles) > 0 {
		role = user.Roles[0].Name
	}

	claims := jwt.MapClaims{
		"username":   user.Username,
		"role":       role,
		"privileges": domain.PrivilegeNames(user.Roles),
		"exp":        time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
