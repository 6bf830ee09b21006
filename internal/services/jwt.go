package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"valoratbot-casino/internal/config"
)

// JWTService validates the dashboard identity token. The dashboard's
// OAuth layer issues these after the Discord exchange; this service
// only needs to verify and read them.
type JWTService struct {
	secret []byte
}

type IdentityClaims struct {
	UserID   string `json:"user_id"` // Discord snowflake
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

func NewJWTService(cfg *config.Config) *JWTService {
	return &JWTService{secret: []byte(cfg.JWTSecret)}
}

func (s *JWTService) ValidateToken(tokenString string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("token missing user id")
	}
	return claims, nil
}

// IssueToken signs an identity token. Used by tests and local tooling;
// production tokens come from the dashboard's auth service.
func (s *JWTService) IssueToken(userID, username string, ttl time.Duration) (string, error) {
	claims := &IdentityClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
