package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity carried by a token: everything the handlers need
// for authorization checks without a user lookup.
type Claims struct {
	UserID   int64
	Username string
	Role     string
}

var ErrInvalidToken = errors.New("invalid token")

// GenerateToken creates a signed JWT for the given identity.
func GenerateToken(secret []byte, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      claims.UserID,
		"username": claims.Username,
		"role":     claims.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	})

	return token.SignedString(secret)
}

// ValidateToken parses a token string and returns the identity it carries.
func ValidateToken(secret []byte, tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return Claims{}, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	// JSON numbers decode as float64.
	sub, ok := mapClaims["sub"].(float64)
	if !ok {
		return Claims{}, errors.New("invalid subject claim")
	}

	claims := Claims{UserID: int64(sub)}
	if username, ok := mapClaims["username"].(string); ok {
		claims.Username = username
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = role
	}

	return claims, nil
}
