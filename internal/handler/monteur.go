package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gestibat/api/internal/model"
)

// MonteurHandler manages the registered workforce
type MonteurHandler struct {
	db *gorm.DB
}

// NewMonteurHandler creates a new monteur handler
func NewMonteurHandler(db *gorm.DB) *MonteurHandler {
	return &MonteurHandler{db: db}
}

// RegisterRoutes registers monteur routes
func (h *MonteurHandler) RegisterRoutes(r *gin.RouterGroup) {
	monteurs := r.Group("/monteurs")
	{
		monteurs.GET("", h.List)
		monteurs.POST("", h.Create)
		monteurs.GET("/:matricule", h.Get)
		monteurs.PUT("/:matricule", h.Update)
		monteurs.DELETE("/:matricule", h.Delete)
	}
}

// List returns all monteurs sorted by name
func (h *MonteurHandler) List(c *gin.Context) {
	db := h.db.Model(&model.Monteur{})
	if actif := c.Query("actif"); actif != "" {
		db = db.Where("actif = ?", actif == "true")
	}

	var monteurs []model.Monteur
	if err := db.Order("nom_monteur ASC").Find(&monteurs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, monteurs)
}

// Get returns one monteur by matricule
func (h *MonteurHandler) Get(c *gin.Context) {
	matricule, err := strconv.Atoi(c.Param("matricule"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid matricule"})
		return
	}

	var monteur model.Monteur
	if err := h.db.First(&monteur, "matricule = ?", matricule).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "monteur not found"})
		return
	}
	c.JSON(http.StatusOK, monteur)
}

// Create registers a new monteur. The matricule comes from HR and must be
// unused.
func (h *MonteurHandler) Create(c *gin.Context) {
	var req model.CreateMonteurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int64
	h.db.Model(&model.Monteur{}).Where("matricule = ?", req.Matricule).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "matricule already exists"})
		return
	}

	monteur := model.Monteur{
		Matricule:    req.Matricule,
		NomMonteur:   req.NomMonteur,
		RoleMonteur:  req.RoleMonteur,
		CIN:          req.CIN,
		Telephone:    req.Telephone,
		SalaireJour:  req.SalaireJour,
		TypeContrat:  req.TypeContrat,
		Actif:        true,
		ScanCINRecto: req.ScanCINRecto,
		ScanCINVerso: req.ScanCINVerso,
	}
	if monteur.RoleMonteur == "" {
		monteur.RoleMonteur = model.MonteurOuvrier
	}
	if req.Actif != nil {
		monteur.Actif = *req.Actif
	}
	if req.DateNaissance != "" {
		if d, err := parseDate(req.DateNaissance); err == nil {
			monteur.DateNaissance = &d
		}
	}
	if req.DateDebutContrat != "" {
		if d, err := parseDate(req.DateDebutContrat); err == nil {
			monteur.DateDebutContrat = &d
		}
	}

	if err := h.db.Create(&monteur).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, monteur)
}

// Update replaces the monteur record. The wage change only affects future
// assignments: existing affectations keep their snapshot.
func (h *MonteurHandler) Update(c *gin.Context) {
	matricule, err := strconv.Atoi(c.Param("matricule"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid matricule"})
		return
	}

	var monteur model.Monteur
	if err := h.db.First(&monteur, "matricule = ?", matricule).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "monteur not found"})
		return
	}

	var req model.CreateMonteurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	monteur.NomMonteur = req.NomMonteur
	monteur.RoleMonteur = req.RoleMonteur
	monteur.CIN = req.CIN
	monteur.Telephone = req.Telephone
	monteur.SalaireJour = req.SalaireJour
	monteur.TypeContrat = req.TypeContrat
	monteur.ScanCINRecto = req.ScanCINRecto
	monteur.ScanCINVerso = req.ScanCINVerso
	if req.Actif != nil {
		monteur.Actif = *req.Actif
	}
	monteur.DateNaissance = nil
	if req.DateNaissance != "" {
		if d, err := parseDate(req.DateNaissance); err == nil {
			monteur.DateNaissance = &d
		}
	}
	monteur.DateDebutContrat = nil
	if req.DateDebutContrat != "" {
		if d, err := parseDate(req.DateDebutContrat); err == nil {
			monteur.DateDebutContrat = &d
		}
	}

	if err := h.db.Save(&monteur).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, monteur)
}

// Delete removes a monteur
func (h *MonteurHandler) Delete(c *gin.Context) {
	matricule, err := strconv.Atoi(c.Param("matricule"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid matricule"})
		return
	}

	if err := h.db.Delete(&model.Monteur{}, "matricule = ?", matricule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "monteur deleted"})
}

// parseDate accepts the wire date format used across the API.
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
