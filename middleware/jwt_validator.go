package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	// ErrTokenExpired is returned when the token's exp claim has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers signature and format failures.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenMissingClaim is returned when sub or role is absent.
	ErrTokenMissingClaim = errors.New("token missing required claim")
)

// Claims is the identity carried by an access token.
type Claims struct {
	UserID       string
	Role         string
	DepartmentID string
}

// Validator turns a bearer token into verified claims.
type Validator interface {
	Validate(tokenString string) (*Claims, error)
}

// JWTValidator verifies HS256 tokens signed with the shared secret.
type JWTValidator struct {
	secret []byte
	skew   time.Duration
}

var _ Validator = (*JWTValidator)(nil)

func NewJWTValidator(secret string) (*JWTValidator, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT validator configuration error: secret is empty")
	}
	return &JWTValidator{secret: []byte(secret), skew: 30 * time.Second}, nil
}

func (v *JWTValidator) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.Parse([]byte(tokenString),
		jwt.WithKey(jwa.HS256, v.secret),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(v.skew),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims := &Claims{UserID: token.Subject()}
	if role, ok := token.Get("role"); ok {
		claims.Role, _ = role.(string)
	}
	if dept, ok := token.Get("department_id"); ok {
		claims.DepartmentID, _ = dept.(string)
	}
	if claims.UserID == "" || claims.Role == "" {
		return nil, ErrTokenMissingClaim
	}
	return claims, nil
}
