package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tickethub/internal/helpers"
	"tickethub/internal/models"
)

// TenantMiddleware resolves the :tenant path segment to a tenant record
// and stores it in the context. Unknown slugs are a 404, never a crash.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("tenant")

		db, exists := c.Get("db")
		if !exists {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
			c.Abort()
			return
		}
		gormDB := db.(*gorm.DB)

		var tenant models.Tenant
		if err := gormDB.Where("slug = ?", slug).First(&tenant).Error; err != nil {
			helpers.RespondWithCode(c, http.StatusNotFound, helpers.CodeNotFound, "Tenant not found.")
			c.Abort()
			return
		}

		c.Set("tenant", tenant)
		c.Next()
	}
}
