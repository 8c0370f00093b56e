package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/spf13/viper"
)

const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"

	tokenIssuer = "bloodbank"
)

type AuthTokenWrapper struct {
	jwt.StandardClaims
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"role"`
	Kind   string      `json:"kind"`
}

func (w *AuthTokenWrapper) Actor() domain.Actor {
	return domain.Actor{UserID: w.UserID, Role: w.Role}
}

// TTL is the time left until the token expires.
func (w *AuthTokenWrapper) TTL(now time.Time) time.Duration {
	return time.Unix(w.ExpiresAt, 0).Sub(now)
}

func secret() []byte {
	return []byte(viper.GetString(constants.ViperSecretKey))
}

// GenerateAuthToken signs the wrapper, filling in id, issue and expiry times.
func GenerateAuthToken(wrapper *AuthTokenWrapper, ttl time.Duration) (string, error) {
	now := time.Now()
	wrapper.Id = uuid.NewString()
	wrapper.Issuer = tokenIssuer
	wrapper.IssuedAt = now.Unix()
	wrapper.ExpiresAt = now.Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, wrapper)
	signed, err := token.SignedString(secret())
	if err != nil {
		return "", fmt.Errorf("token.SignedString: %w", err)
	}

	return signed, nil
}

func ParseAuthToken(tokenString string) (*AuthTokenWrapper, error) {
	wrapper := new(AuthTokenWrapper)
	token, err := jwt.ParseWithClaims(tokenString, wrapper, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret(), nil
	})
	if err != nil || !token.Valid {
		return nil, constants.ErrInvalidToken
	}

	return wrapper, nil
}
