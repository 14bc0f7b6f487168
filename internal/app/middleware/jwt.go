package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/services"
	"github.com/juniu86/rr-guanabara/internal/error/code"
	"github.com/juniu86/rr-guanabara/internal/error/response"
)

// Context keys set by Authenticate.
const (
	ContextActor  = "actor"
	ContextClaims = "claims"
	ContextUserID = "userID"
	ContextRole   = "role"
)

// extractToken prefers the session cookie and falls back to a Bearer header.
func extractToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// Authenticate resolves the caller from the session token when one is present.
// Anonymous requests pass through; RequireAuth rejects them where needed.
func Authenticate(auth services.InterfaceAuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c, cookieName)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := auth.ParseToken(tokenString)
		if err != nil {
			// A stale cookie is treated as no session.
			c.Next()
			return
		}

		c.Set(ContextActor, claims.Actor())
		c.Set(ContextClaims, claims)
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireAuth rejects requests without a valid session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ActorFrom(c); !ok {
			response.AbortWithMessage(c, code.ErrTokenInvalid, code.GetMessage(code.ErrTokenInvalid))
			return
		}
		c.Next()
	}
}

// RequireRoles rejects authenticated callers whose role is not listed.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			response.AbortWithMessage(c, code.ErrTokenInvalid, code.GetMessage(code.ErrTokenInvalid))
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		response.AbortWithMessage(c, code.ErrForbidden, code.GetMessage(code.ErrForbidden))
	}
}

// ActorFrom returns the caller stored by Authenticate.
func ActorFrom(c *gin.Context) (services.Actor, bool) {
	v, ok := c.Get(ContextActor)
	if !ok {
		return services.Actor{}, false
	}
	actor, ok := v.(services.Actor)
	return actor, ok
}
