package security

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const Issuer = "staffhub"

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is carried in the session token under the ASP.NET identity claim names.
type Identity struct {
	ID         string `json:"nameid"`
	UniqueName string `json:"unique_name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

type IdentityClaims struct {
	Identity
	jwt.RegisteredClaims
}

// DecodeSecret decodes a base64 signing secret.
func DecodeSecret(base64Secret string) ([]byte, error) {
	secret, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signing secret: %w", err)
	}
	if len(secret) == 0 {
		return nil, errors.New("signing secret is empty")
	}
	return secret, nil
}

func CreateIdentityToken(identity Identity, secret []byte, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := IdentityClaims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseIdentityToken(tokenStr string, secret []byte) (*Identity, error) {
	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, jwt.WithIssuer(Issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Identity.ID == "" {
		return nil, fmt.Errorf("%w: missing nameid", ErrInvalidToken)
	}
	return &claims.Identity, nil
}
