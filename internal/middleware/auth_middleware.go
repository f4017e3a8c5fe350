package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tickethub/internal/helpers"
	"tickethub/internal/models"
)

// SessionCookie is the HTTP-only cookie carrying the admin session JWT.
const SessionCookie = "session"

// ParseSessionToken validates a session JWT and returns its claims.
func ParseSessionToken(tokenString string) (jwt.MapClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

func sessionTokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// JWTAuthMiddleware authenticates the request from the session cookie
// or a bearer header and stashes the claims in the context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := sessionTokenFromRequest(c)
		if tokenString == "" {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required.")
			c.Abort()
			return
		}

		claims, err := ParseSessionToken(tokenString)
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired session.")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(fmt.Sprint(claims["user_id"]))
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired session.")
			c.Abort()
			return
		}
		tenantID, err := uuid.Parse(fmt.Sprint(claims["tenant_id"]))
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired session.")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("tenant_id", tenantID)
		c.Set("role", fmt.Sprint(claims["role"]))
		c.Set("email", fmt.Sprint(claims["email"]))
		c.Next()
	}
}

// RequireTenantAdmin ensures the authenticated admin belongs to the
// tenant resolved from the URL. Runs after TenantMiddleware and
// JWTAuthMiddleware.
func RequireTenantAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, exists := c.Get("tenant")
		if !exists {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Tenant not resolved.")
			c.Abort()
			return
		}
		tenantID, exists := c.Get("tenant_id")
		if !exists || tenant.(models.Tenant).ID != tenantID.(uuid.UUID) {
			helpers.RespondWithError(c, http.StatusForbidden, "You don't have access to this tenant.")
			c.Abort()
			return
		}
		c.Next()
	}
}
