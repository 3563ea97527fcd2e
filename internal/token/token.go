package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yukikurage/tenant-task-api/internal/models"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token has expired")
	ErrEmptySecret     = errors.New("secret cannot be empty")
	ErrInvalidDuration = errors.New("token lifetime must be positive")
)

// Claims is the signed payload. TenantID is nil for the super admin.
type Claims struct {
	UserID   string          `json:"userId"`
	TenantID *string         `json:"tenantId"`
	Role     models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret    string
	ExpiresIn time.Duration
	Issuer    string
}

// Service issues and verifies HS256 session tokens
type Service struct {
	config Config
	now    func() time.Time
}

func NewService(config Config) (*Service, error) {
	if config.Secret == "" {
		return nil, ErrEmptySecret
	}
	if config.ExpiresIn <= 0 {
		return nil, ErrInvalidDuration
	}
	return &Service{config: config, now: time.Now}, nil
}

// ExpiresIn is the lifetime of issued tokens
func (s *Service) ExpiresIn() time.Duration {
	return s.config.ExpiresIn
}

// Issue signs a token for the given identity
func (s *Service) Issue(userID string, tenantID *string, role models.UserRole) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:   userID,
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.ExpiresIn)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}

// Verify checks signature, algorithm and expiry
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
