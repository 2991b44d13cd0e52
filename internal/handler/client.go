package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gestibat/api/internal/model"
)

// ClientHandler manages customer records
type ClientHandler struct {
	db *gorm.DB
}

// NewClientHandler creates a new client handler
func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// RegisterRoutes registers client routes
func (h *ClientHandler) RegisterRoutes(r *gin.RouterGroup) {
	clients := r.Group("/clients")
	{
		clients.GET("", h.List)
		clients.POST("", h.Create)
		clients.GET("/:id", h.Get)
		clients.PUT("/:id", h.Update)
		clients.DELETE("/:id", h.Delete)
	}
}

// List returns all clients sorted by name
func (h *ClientHandler) List(c *gin.Context) {
	var clients []model.Client
	if err := h.db.Order("nom_client ASC").Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, clients)
}

// Get returns one client
func (h *ClientHandler) Get(c *gin.Context) {
	var client model.Client
	if err := h.db.Where("id_client = ?", c.Param("id")).First(&client).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}
	c.JSON(http.StatusOK, client)
}

// Create adds a new client
func (h *ClientHandler) Create(c *gin.Context) {
	var req model.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := model.Client{
		IDClient:           uuid.NewString(),
		NomClient:          req.NomClient,
		CodeClient:         req.CodeClient,
		ICE:                req.ICE,
		VilleCode:          req.VilleCode,
		Adresse:            req.Adresse,
		ContactResponsable: req.ContactResponsable,
		Telephone:          req.Telephone,
		Email:              req.Email,
	}

	if err := h.db.Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, client)
}

// Update replaces the client record
func (h *ClientHandler) Update(c *gin.Context) {
	var client model.Client
	if err := h.db.Where("id_client = ?", c.Param("id")).First(&client).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}

	var req model.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client.NomClient = req.NomClient
	client.CodeClient = req.CodeClient
	client.ICE = req.ICE
	client.VilleCode = req.VilleCode
	client.Adresse = req.Adresse
	client.ContactResponsable = req.ContactResponsable
	client.Telephone = req.Telephone
	client.Email = req.Email

	if err := h.db.Save(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, client)
}

// Delete removes a client
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.db.Where("id_client = ?", c.Param("id")).Delete(&model.Client{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "client deleted"})
}
