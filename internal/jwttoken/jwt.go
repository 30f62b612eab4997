// Package jwttoken issues and validates the bearer tokens guarding the admin
// API. Operators mint tokens out of band with the deployment's signing key.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"zkdrop/pkg/faults"
)

// Claims are the claims carried by admin access tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RoleAdmin is the only role the settlement admin surface accepts.
const RoleAdmin = "admin"

// Service handles JWT creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
}

func NewService(signingKey []byte, issuer string) *Service {
	return &Service{signingKey: signingKey, issuer: issuer}
}

// GenerateToken mints an admin token for the given operator subject.
func (s *Service) GenerateToken(subject string, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken parses and verifies an admin token.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, faults.New(faults.CodeUnauthorized, "token has expired")
		}
		return nil, faults.New(faults.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, faults.New(faults.CodeUnauthorized, "invalid token claims")
	}
	if claims.Role != RoleAdmin {
		return nil, faults.New(faults.CodeUnauthorized, "insufficient role")
	}
	return claims, nil
}
