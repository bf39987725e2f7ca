// Package middleware resolves the session principal and gates routes on it.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/apperr"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/service/auth"
)

// SessionHeader carries the session token for clients without cookies.
const SessionHeader = "X-Session-Token"

// Resolver maps a session token to its principal.
type Resolver interface {
	Resolve(ctx context.Context, token string) (models.Principal, error)
}

// Token returns the session token of the request: the cookie first, then the header.
func Token(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	return c.GetHeader(SessionHeader)
}

// Session attaches the principal behind the request's session token to the
// request context. Unknown or expired tokens leave the request anonymous.
func Session(resolver Resolver, cookieName string, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		token := Token(c, cookieName)
		if token == "" {
			c.Next()
			return
		}

		p, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			var unauthorized *apperr.UnauthorizedError
			if !errors.As(err, &unauthorized) {
				logger.Error("session lookup failed", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, apperr.Body(err, "Internal server error"))
				return
			}
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequireAuth rejects anonymous requests with 401 when required is set.
func RequireAuth(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !required {
			c.Next()
			return
		}
		if _, ok := auth.PrincipalFrom(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// RequireRole rejects principals outside roles with 403.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.PrincipalFrom(c.Request.Context())
		if ok {
			for _, r := range roles {
				if p.Role == r {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	}
}
