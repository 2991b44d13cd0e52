package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gestibat/api/internal/model"
	"gestibat/api/internal/service"
)

// ProfileHandler manages user accounts and their authorization profiles.
// Only the admin module reaches these routes.
type ProfileHandler struct {
	db          *gorm.DB
	authService *service.AuthService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(db *gorm.DB, authService *service.AuthService) *ProfileHandler {
	return &ProfileHandler{db: db, authService: authService}
}

// RegisterRoutes registers profile administration routes
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("", h.List)
		users.POST("", h.Create)
		users.GET("/:id", h.Get)
		users.PUT("/:id", h.Update)
		users.DELETE("/:id", h.Delete)
	}
}

// List returns all profiles
func (h *ProfileHandler) List(c *gin.Context) {
	var profiles []model.Profile
	if err := h.db.Order("email ASC").Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// Get returns one profile
func (h *ProfileHandler) Get(c *gin.Context) {
	var profile model.Profile
	if err := h.db.Where("id = ?", c.Param("id")).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Create provisions credentials and a profile together
// @Summary Create user
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body model.CreateUserRequest true "User data"
// @Success 201 {object} model.Profile
// @Failure 400 {object} map[string]string
// @Router /users [post]
func (h *ProfileHandler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int64
	h.db.Model(&model.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
		return
	}

	profile, err := h.authService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// Update changes the authorization fields of a profile. Any change drops the
// cached session so a live token cannot keep serving stale role or module
// data; deactivation makes in-flight tokens stop working entirely.
func (h *ProfileHandler) Update(c *gin.Context) {
	var profile model.Profile
	if err := h.db.Where("id = ?", c.Param("id")).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != "" {
		profile.Name = req.Name
	}
	if req.Role != "" {
		profile.Role = req.Role
	}
	if req.AllowedModules != nil {
		profile.AllowedModules = *req.AllowedModules
	}
	if req.IsActive != nil {
		profile.IsActive = *req.IsActive
	}
	profile.UpdatedAt = time.Now()

	if err := h.db.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.ClearSession(c.Request.Context(), profile.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Delete removes the credentials and the profile together
func (h *ProfileHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if id == c.GetString("userID") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Delete(&model.Profile{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.User{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.authService.ClearSession(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
