package middleware // middleware provides shared request processing for handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/forwarding-portal/internal/utils"
)

var (
	// ErrUnauthenticated means the request carried no usable credentials.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the credentials are valid but lack the capability.
	ErrForbidden = errors.New("forbidden")
)

// AdminPolicy decides whether a request may use back-office operations
// (listing contacts, changing package status, intake, user lookup).
type AdminPolicy interface {
	Authorize(c echo.Context) error
}

// OpenPolicy admits every request.
type OpenPolicy struct{}

func (OpenPolicy) Authorize(echo.Context) error { return nil }

// JWTRolePolicy admits requests bearing an HS256 token signed with Secret
// whose role claim is one of Roles.  The token subject is stored in the
// context under "admin_subject".
type JWTRolePolicy struct {
	Secret string
	Roles  map[string]bool
}

func NewJWTRolePolicy(secret string, roles ...string) *JWTRolePolicy {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return &JWTRolePolicy{Secret: secret, Roles: allowed}
}

func (p *JWTRolePolicy) Authorize(c echo.Context) error {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ErrUnauthenticated
	}
	claims, err := utils.ParseAdminToken(p.Secret, strings.TrimPrefix(auth, "Bearer "))
	if err != nil {
		return ErrUnauthenticated
	}
	if !p.Roles[claims.Role] {
		return ErrForbidden
	}
	c.Set("admin_subject", claims.Subject)
	return nil
}

// RequireAdmin runs the policy before the wrapped handler and answers 401
// or 403 when it refuses.
func RequireAdmin(p AdminPolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch err := p.Authorize(c); {
			case err == nil:
				return next(c)
			case errors.Is(err, ErrForbidden):
				return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
			default:
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
			}
		}
	}
}
