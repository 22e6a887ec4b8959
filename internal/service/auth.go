package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/bytebasket/backend/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

const tokenTTL = 24 * time.Hour

// TokenService issues and validates the bearer tokens accepted by the API.
// Accounts themselves live in the auth service; this only checks signatures.
type TokenService struct {
	jwtSecret string
	now       func() time.Time
}

// Ensure TokenService implements ITokenService
var _ ITokenService = (*TokenService)(nil)

func NewTokenService(jwtSecret string) *TokenService {
	return &TokenService{
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

// GenerateToken signs a token for the given user.
func (s *TokenService) GenerateToken(userID uuid.UUID, email, role string) (string, error) {
	now := s.now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a signed token.
func (s *TokenService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
