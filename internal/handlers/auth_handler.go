package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tickethub/internal/helpers"
	"tickethub/internal/middleware"
	"tickethub/internal/models"
)

type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	TenantSlug string `json:"tenant_slug" binding:"required"`
}

const sessionLifetime = 7 * 24 * time.Hour

// invalidCredentials collapses unknown email, inactive account and
// wrong password into one response so account existence never leaks.
func invalidCredentials(c *gin.Context) {
	helpers.RespondWithCode(c, http.StatusUnauthorized, helpers.CodeInvalidCredentials, "Invalid credentials.")
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithCode(c, http.StatusBadRequest, helpers.CodeValidation, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var tenant models.Tenant
	if err := gormDB.Where("slug = ?", req.TenantSlug).First(&tenant).Error; err != nil {
		invalidCredentials(c)
		return
	}

	var user models.AdminUser
	if err := gormDB.Where("tenant_id = ? AND email = ?", tenant.ID, req.Email).First(&user).Error; err != nil {
		invalidCredentials(c)
		return
	}

	if !user.IsActive {
		invalidCredentials(c)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		invalidCredentials(c)
		return
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		helpers.RespondWithError(c, http.StatusInternalServerError, "JWT_SECRET not configured.")
		return
	}

	now := time.Now()
	if err := gormDB.Model(&user).UpdateColumn("last_login_at", now).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update login timestamp.")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID,
		"tenant_id": tenant.ID,
		"role":      user.Role,
		"email":     user.Email,
		"exp":       now.Add(sessionLifetime).Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, tokenString, int(sessionLifetime.Seconds()), "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
		"tenant": gin.H{
			"id":   tenant.ID,
			"slug": tenant.Slug,
			"name": tenant.Name,
		},
	})
}

// VerifySession runs behind JWTAuthMiddleware and echoes the session
// claims back to the caller.
func VerifySession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id":   c.MustGet("user_id"),
		"tenant_id": c.MustGet("tenant_id"),
		"role":      c.MustGet("role"),
		"email":     c.MustGet("email"),
	})
}

func Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}
