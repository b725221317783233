package auth

import (
	"fmt"
	"time"

	"github.com/clinicore/clinicore/internal/config"
	"github.com/clinicore/clinicore/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and validates access tokens
type TokenService struct {
	cfg config.TokenConfig
}

// TokenClaims represents the claims in an access token
type TokenClaims struct {
	jwt.RegisteredClaims
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	Scheme string `json:"scheme,omitempty"`
}

// NewTokenService creates a new TokenService
func NewTokenService(cfg config.TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	return &TokenService{cfg: cfg}, nil
}

// Issue creates a signed access token for the user
func (s *TokenService) Issue(user *model.User, scheme string) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
		},
		Name:   user.DisplayName,
		Email:  user.Email,
		Role:   user.Role,
		Scheme: scheme,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies an access token
func (s *TokenService) Validate(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithIssuer(s.cfg.Issuer))
	if err != nil {
		return nil, fmt.Errorf("failed to validate access token: %w", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid access token")
	}
	return claims, nil
}

// Identity converts token claims into a request identity
func (c *TokenClaims) Identity() Identity {
	scheme := c.Scheme
	if scheme == "" {
		scheme = DefaultScheme
	}
	return Identity{
		UserID:        c.Subject,
		Name:          c.Name,
		Email:         c.Email,
		Role:          c.Role,
		Scheme:        scheme,
		Authenticated: c.Subject != "",
	}
}
