package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gestibat/api/internal/service"
)

// BootstrapHandler serves the initial dataset a client mirrors after login
type BootstrapHandler struct {
	snapshotService *service.SnapshotService
}

// NewBootstrapHandler creates a new bootstrap handler
func NewBootstrapHandler(snapshotService *service.SnapshotService) *BootstrapHandler {
	return &BootstrapHandler{snapshotService: snapshotService}
}

// RegisterRoutes registers the bootstrap route
func (h *BootstrapHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/bootstrap", h.Load)
}

// Load returns every business collection in one response
// @Summary Bootstrap snapshot
// @Description Bulk-load all collections so the client can populate its local mirror
// @Tags Bootstrap
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Snapshot
// @Router /bootstrap [get]
func (h *BootstrapHandler) Load(c *gin.Context) {
	snapshot, err := h.snapshotService.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
