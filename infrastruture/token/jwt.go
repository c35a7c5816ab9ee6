package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/dgrijalva/jwt-go"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrWrongIssuer   = errors.New("token issued by another service")
	ErrSigningMethod = errors.New("unexpected signing method")
)

// JwtService signs and verifies HS256 tokens carrying an issuer claim.
type JwtService struct {
	secretKey string
	issuer    string
}

var _ i.Tokenizer = &JwtService{}

// NewJwtService creates a new JWT Service with the provided configuration.
func NewJwtService(secretKey, issuer string) *JwtService {
	return &JwtService{
		secretKey: secretKey,
		issuer:    issuer,
	}
}

// Generate creates a JWT for the given claims expiring after expTime.
// The "exp", "iat" and "iss" claims are set by the service.
func (s *JwtService) Generate(claims map[string]interface{}, expTime time.Duration) (string, error) {
	now := time.Now().UTC()
	jwtClaims := jwt.MapClaims{}
	for key, val := range claims {
		jwtClaims[key] = val
	}
	jwtClaims["exp"] = now.Add(expTime).Unix()
	jwtClaims["iat"] = now.Unix()
	jwtClaims["iss"] = s.issuer

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	return token.SignedString([]byte(s.secretKey))
}

// Decode parses and validates a JWT, returning its claims.
func (s *JwtService) Decode(tokenString string) (map[string]interface{}, error) {
	token, err := jwt.Parse(tokenString, s.getSigningKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return nil, ErrWrongIssuer
	}

	return claims, nil
}

// getSigningKey returns the signing key for token validation.
func (s *JwtService) getSigningKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrSigningMethod
	}
	return []byte(s.secretKey), nil
}
