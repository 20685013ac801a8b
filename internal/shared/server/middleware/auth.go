package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"workvouch/internal/shared/auth"
	"workvouch/internal/shared/server/respond"
)

const (
	userIDKey     = "userId"
	userEmailKey  = "userEmail"
	userRoleKey   = "userRole"
	employerIDKey = "employerId"
)

// AuthConfig controls token verification.
type AuthConfig struct {
	Verifier *auth.Verifier
	// AllowDevHeaders accepts X-User-Id / X-User-Role / X-Employer-Id
	// without a token. Only enabled in dev-like environments.
	AllowDevHeaders bool
	// PublicPaths bypass authentication.
	PublicPaths []string
}

// Auth validates bearer tokens issued by the identity provider and stores the
// caller's identity in the gin context.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	public := make(map[string]struct{}, len(cfg.PublicPaths))
	for _, p := range cfg.PublicPaths {
		public[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}
		if _, ok := public[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") || cfg.Verifier == nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			claims, err := cfg.Verifier.Verify(token)
			if err != nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			c.Set(userIDKey, claims.Subject)
			c.Set(userRoleKey, claims.Role)
			if claims.Email != "" {
				c.Set(userEmailKey, claims.Email)
			}
			if claims.EmployerID != "" {
				c.Set(employerIDKey, claims.EmployerID)
			}
			c.Next()
			return
		}

		if cfg.AllowDevHeaders {
			if userID := strings.TrimSpace(c.GetHeader("X-User-Id")); userID != "" {
				c.Set(userIDKey, userID)
				c.Set(userRoleKey, strings.TrimSpace(c.GetHeader("X-User-Role")))
				if employerID := strings.TrimSpace(c.GetHeader("X-Employer-Id")); employerID != "" {
					c.Set(employerIDKey, employerID)
				}
				c.Next()
				return
			}
		}

		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
	}
}

// RequireRole rejects callers whose role is not one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := RoleFromContext(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		respond.Error(c, http.StatusForbidden, "forbidden", "insufficient role", nil)
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return contextString(c, userIDKey)
}

// RoleFromContext fetches the caller's role.
func RoleFromContext(c *gin.Context) string {
	return contextString(c, userRoleKey)
}

// EmployerIDFromContext fetches the employer account the caller belongs to.
func EmployerIDFromContext(c *gin.Context) string {
	return contextString(c, employerIDKey)
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	return contextString(c, userEmailKey)
}

func contextString(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
