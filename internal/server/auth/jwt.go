// Package auth implements the access-token codec and password hashing.
// Access tokens are self-contained HS256 JWTs; validity is determined by
// signature and expiry alone, never by a store lookup.
package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookdelivery/backend/internal/common"
	"github.com/bookdelivery/backend/internal/server/models"
)

// BearerPrefix is the scheme marker expected in Authorization header
// values. Matching is case- and space-sensitive.
const BearerPrefix = "Bearer "

// Claims carries the subject identity and role inside an access token.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64       `json:"uid"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

// GenerateToken mints a signed access token for user with expiry
// issued-at + validityDuration.
func GenerateToken(user *models.User, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken reports whether tokenString carries a valid signature and
// has not expired. It is safe to call on attacker-controlled input: any
// parse, signature, or format problem yields false, never a panic or error.
func ValidateToken(tokenString string, secretKey []byte) bool {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return false
	}

	return token.Valid
}

// ExtractTokenFromHeader returns the raw token from an Authorization header
// value of the form "Bearer <token>". ok is false when the header is empty
// or the prefix is missing.
func ExtractTokenFromHeader(header string) (token string, ok bool) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}

	token = strings.TrimPrefix(header, BearerPrefix)
	if token == "" {
		return "", false
	}

	return token, true
}

// GetClaimsFromToken decodes the claim set of tokenString. Callers must run
// ValidateToken first; the result for an unvalidated token is undefined.
func GetClaimsFromToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// GetUserIDFromToken decodes the user-id claim of a previously validated
// token.
func GetUserIDFromToken(tokenString string, secretKey []byte) (int64, error) {
	claims, err := GetClaimsFromToken(tokenString, secretKey)
	if err != nil {
		return 0, err
	}

	return claims.UserID, nil
}
