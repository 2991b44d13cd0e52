package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gestibat/api/internal/model"
)

// ModuleMiddleware enforces per-module access on business route groups.
// The checks mirror what the profile carries: ADMIN passes everything,
// everyone else needs the module in their allowed set.
type ModuleMiddleware struct {
	db *gorm.DB
}

// NewModuleMiddleware creates the module gate
func NewModuleMiddleware(db *gorm.DB) *ModuleMiddleware {
	return &ModuleMiddleware{db: db}
}

// RequireModule checks access to the given module
func (m *ModuleMiddleware) RequireModule(module string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		var profile model.Profile
		if err := m.db.Where("id = ?", userID).First(&profile).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "profile not found"})
			c.Abort()
			return
		}

		// A deactivated profile must never act authenticated, even with a
		// token issued before deactivation.
		if !profile.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			c.Abort()
			return
		}

		if !profile.HasModuleAccess(module) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":  "module access denied",
				"module": module,
			})
			c.Abort()
			return
		}

		c.Set("profile", &profile)
		c.Next()
	}
}

// RequireAnyModule checks access to any of the given modules
func (m *ModuleMiddleware) RequireAnyModule(modules ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		var profile model.Profile
		if err := m.db.Where("id = ?", userID).First(&profile).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "profile not found"})
			c.Abort()
			return
		}

		if !profile.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			c.Abort()
			return
		}

		for _, module := range modules {
			if profile.HasModuleAccess(module) {
				c.Set("profile", &profile)
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":   "module access denied",
			"modules": modules,
		})
		c.Abort()
	}
}
