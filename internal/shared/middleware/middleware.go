package middleware

import (
	"net/http"
	"strings"
	"time"

	"swiftbus/internal/shared/config"
	"swiftbus/internal/shared/utils/response"
	"swiftbus/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// SessionAuth validates the session token and aborts with 401 when it is
// missing or invalid. The token is read from the HTTP-only session cookie
// (browser clients) or from an Authorization: Bearer header (API clients).
func SessionAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionClaims(c, cfg)
		if !ok {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
			c.Abort()
			return
		}

		setSessionContext(c, claims)
		c.Next()
	}
}

// OptionalSession validates the session token if present but never aborts.
// Used by reads whose response shape depends on who is asking.
func OptionalSession(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := sessionClaims(c, cfg); ok {
			setSessionContext(c, claims)
		}
		c.Next()
	}
}

// RequireRole checks the authenticated user's role. Absence of a session is
// 401; a valid session with the wrong role is 403.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
			c.Abort()
			return
		}

		if userRole.(string) != requiredRole {
			response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin requires the administrator role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(string(users.RoleAdmin))
}

// RequireRider requires the rider role
func RequireRider() gin.HandlerFunc {
	return RequireRole(string(users.RoleRider))
}

func sessionClaims(c *gin.Context, cfg *config.Config) (jwt.MapClaims, bool) {
	tokenString := tokenFromRequest(c, cfg)
	if tokenString == "" {
		return nil, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}

	if tokenType, ok := claims["type"]; !ok || tokenType != "session" {
		return nil, false
	}

	// Expiry is re-checked against the clock on top of the library's own
	// validation.
	if exp, ok := claims["exp"].(float64); !ok || time.Now().Unix() >= int64(exp) {
		return nil, false
	}

	return claims, true
}

func tokenFromRequest(c *gin.Context, cfg *config.Config) string {
	if cookie, err := c.Cookie(cfg.JWT.CookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func setSessionContext(c *gin.Context, claims jwt.MapClaims) {
	c.Set("user_id", claims["user_id"])
	c.Set("user_email", claims["email"])
	c.Set("user_role", claims["role"])
	c.Set("session_id", claims["session_id"])
}
