package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// Principal is the authenticated caller of a request.
type Principal struct {
	Subject string
	// UserID is set when the subject is a user id.
	UserID *kernel.UUID
	Admin  bool
}

// TokenVerifier turns a bearer token into the caller it was issued to.
type TokenVerifier interface {
	Verify(token string) (Principal, error)
}

// Claims are the token claims the API reads.
type Claims struct {
	Admin bool `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier accepts HS256 tokens signed with a shared secret.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) (JWTVerifier, error) {
	if secret == "" {
		return JWTVerifier{}, errs.NewValueIsRequiredError("jwt secret")
	}
	return JWTVerifier{secret: []byte(secret)}, nil
}

func (v JWTVerifier) Verify(token string) (Principal, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return Principal{}, errs.NewUnauthorizedError("The access token is invalid")
	}
	if claims.Subject == "" {
		return Principal{}, errs.NewUnauthorizedError("The access token has no subject")
	}

	p := Principal{Subject: claims.Subject, Admin: claims.Admin}
	if id, err := kernel.UUIDFromString(claims.Subject); err == nil {
		p.UserID = &id
	}
	return p, nil
}

// Issue signs a token for subject valid for ttl.
func (v JWTVerifier) Issue(subject string, admin bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// authenticate requires a valid bearer token on every request it wraps.
func authenticate(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return errs.NewUnauthorizedError("The access token is missing")
			}
			p, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				var authErr *errs.AuthorizationError
				if errors.As(err, &authErr) {
					return authErr
				}
				return errs.NewUnauthorizedError("The access token is invalid")
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// requireAdmin lets only admin callers through.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !principal(c).Admin {
			return errs.NewForbiddenError("You are not authorized to perform that action.")
		}
		return next(c)
	}
}

func principal(c echo.Context) Principal {
	p, _ := c.Get(principalKey).(Principal)
	return p
}
