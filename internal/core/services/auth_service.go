package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/domain"
	"github.com/taskhive/backend/internal/infrastructure/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type authService struct {
	repo     ports.UserRepository
	logger   *logger.Logger
	secret   []byte
	tokenTTL time.Duration
}

type AuthServiceConfig struct {
	Repository ports.UserRepository
	Logger     *logger.Logger
	JWTSecret  string
	TokenTTL   time.Duration
}

func NewAuthService(cfg AuthServiceConfig) ports.AuthService {
	return &authService{
		repo:     cfg.Repository,
		logger:   cfg.Logger,
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: cfg.TokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" || name == "" {
		return nil, ErrInvalidCredentials
	}
	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = domain.RoleUser
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Infow("auth_register_ok", "user_id", user.ID, "email", user.Email, "role", user.Role)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	s.logger.Infow("auth_login_ok", "user_id", user.ID)
	return token, user, nil
}

// ParseToken resolves the caller's identity and role once; the resulting
// Actor is what every downstream permission check sees.
func (s *authService) ParseToken(tokenStr string) (domain.Actor, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Actor{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Actor{}, ErrInvalidToken
	}

	actor := domain.Actor{Role: domain.RoleUser}
	if v, ok := claims["user_id"].(string); ok {
		actor.ID = v
	}
	if v, ok := claims["name"].(string); ok {
		actor.Name = v
	}
	if v, ok := claims["email"].(string); ok {
		actor.Email = v
	}
	if v, ok := claims["role"].(string); ok && v != "" {
		actor.Role = domain.Role(v)
	}
	if actor.Email == "" {
		return domain.Actor{}, ErrInvalidToken
	}
	return actor, nil
}
