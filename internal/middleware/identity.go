package middleware

import (
	"strings"

	"softcart/config"
	"softcart/internal/auth"
	"softcart/internal/domain"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// SessionHeader carries the anonymous session id the storefront assigns
// on first visit.
const SessionHeader = "X-Session-ID"

// Identity resolves who the request belongs to without requiring auth:
// a valid Bearer token wins, then the session header, then anonymous.
// Invalid tokens degrade to session/anonymous instead of failing, so the
// spin widget keeps working for logged-out visitors with stale tokens.
func Identity(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(identityKey, resolveIdentity(cfg, c))
		c.Next()
	}
}

func resolveIdentity(cfg *config.JWTConfig, c *gin.Context) domain.Identity {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := auth.ParseAccessToken(cfg, parts[1]); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("email", claims.Email)
				c.Set("role", claims.Role)
				return domain.UserIdentity(claims.UserID)
			}
		}
	}
	if sid := c.GetHeader(SessionHeader); sid != "" && len(sid) <= 64 {
		return domain.SessionIdentity(sid)
	}
	return domain.Anonymous()
}

// GetIdentity returns the resolved identity (must be used after Identity).
func GetIdentity(c *gin.Context) domain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Anonymous()
	}
	return v.(domain.Identity)
}
