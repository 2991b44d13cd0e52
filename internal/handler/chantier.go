package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gestibat/api/internal/model"
)

// ChantierHandler manages construction sites and their nested records:
// assignments, cost lines, payments and the embedded local-worker list.
type ChantierHandler struct {
	db *gorm.DB
}

// NewChantierHandler creates a new chantier handler
func NewChantierHandler(db *gorm.DB) *ChantierHandler {
	return &ChantierHandler{db: db}
}

// RegisterRoutes registers chantier routes
func (h *ChantierHandler) RegisterRoutes(r *gin.RouterGroup) {
	chantiers := r.Group("/chantiers")
	{
		chantiers.GET("", h.List)
		chantiers.POST("", h.Create)
		chantiers.GET("/:id", h.Get)
		chantiers.PUT("/:id", h.Update)
		chantiers.DELETE("/:id", h.Delete)

		chantiers.GET("/:id/affectations", h.ListAffectations)
		chantiers.POST("/:id/affectations", h.CreateAffectation)
		chantiers.GET("/:id/couts", h.ListCouts)
		chantiers.POST("/:id/couts", h.CreateCout)
		chantiers.GET("/:id/versements", h.ListVersements)
		chantiers.POST("/:id/versements", h.CreateVersement)
	}

	r.DELETE("/affectations/:id", h.DeleteAffectation)
	r.DELETE("/couts/:id", h.DeleteCout)
	r.DELETE("/versements/:id", h.DeleteVersement)
}

// List returns chantiers, optionally filtered by status or client
func (h *ChantierHandler) List(c *gin.Context) {
	db := h.db.Model(&model.Chantier{})
	if statut := c.Query("statut"); statut != "" {
		db = db.Where("statut = ?", statut)
	}
	if idClient := c.Query("id_client"); idClient != "" {
		db = db.Where("id_client = ?", idClient)
	}

	var chantiers []model.Chantier
	if err := db.Order("numero_ordre ASC").Find(&chantiers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, chantiers)
}

// Get returns one chantier
func (h *ChantierHandler) Get(c *gin.Context) {
	var chantier model.Chantier
	if err := h.db.Where("id_chantier = ?", c.Param("id")).First(&chantier).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chantier not found"})
		return
	}
	c.JSON(http.StatusOK, chantier)
}

// Create opens a new chantier. Client name and code are denormalized onto
// the row; the order number and reference are assigned server-side.
func (h *ChantierHandler) Create(c *gin.Context) {
	var req model.CreateChantierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var client model.Client
	if err := h.db.Where("id_client = ?", req.IDClient).First(&client).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client not found"})
		return
	}

	dateDebut, err := parseDate(req.DateDebut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_debut"})
		return
	}
	dateFin, err := parseDate(req.DateFin)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_fin"})
		return
	}

	var maxNumero int
	h.db.Model(&model.Chantier{}).Select("COALESCE(MAX(numero_ordre), 0)").Scan(&maxNumero)
	numero := maxNumero + 1

	ref := req.RefChantier
	if ref == "" {
		ref = fmt.Sprintf("%d-%s-%s", numero, client.CodeClient, dateDebut.Format("020106"))
	}

	statut := req.Statut
	if statut == "" {
		statut = model.ChantierActif
	}
	transCompta := req.TransCompta
	if transCompta == "" {
		transCompta = "Manuel"
	}
	villeCode := req.VilleCode
	if villeCode == "" {
		villeCode = client.VilleCode
	}

	chantier := model.Chantier{
		IDChantier:          uuid.NewString(),
		NumeroOrdre:         numero,
		RefChantier:         ref,
		IDClient:            client.IDClient,
		CodeClient:          client.CodeClient,
		NomClient:           client.NomClient,
		DateDebut:           dateDebut,
		DateFin:             dateFin,
		BudgetPrevu:         req.BudgetPrevu,
		TransCompta:         transCompta,
		ResponsableChantier: req.ResponsableChantier,
		PlanReference:       req.PlanReference,
		DocumentsATRC:       req.DocumentsATRC,
		VehiculeUtilise:     req.VehiculeUtilise,
		Statut:              statut,
		VilleCode:           villeCode,
		Adresse:             req.Adresse,
		Commentaire:         req.Commentaire,
		MonteursLocaux:      req.MonteursLocaux,
	}
	if chantier.MonteursLocaux == nil {
		chantier.MonteursLocaux = model.MonteurLocalList{}
	}

	if err := h.db.Create(&chantier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, chantier)
}

// Update replaces the chantier record, embedded local workers included.
func (h *ChantierHandler) Update(c *gin.Context) {
	var chantier model.Chantier
	if err := h.db.Where("id_chantier = ?", c.Param("id")).First(&chantier).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chantier not found"})
		return
	}

	var req model.CreateChantierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dateDebut, err := parseDate(req.DateDebut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_debut"})
		return
	}
	dateFin, err := parseDate(req.DateFin)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_fin"})
		return
	}

	if req.IDClient != "" && req.IDClient != chantier.IDClient {
		var client model.Client
		if err := h.db.Where("id_client = ?", req.IDClient).First(&client).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "client not found"})
			return
		}
		chantier.IDClient = client.IDClient
		chantier.CodeClient = client.CodeClient
		chantier.NomClient = client.NomClient
	}

	if req.RefChantier != "" {
		chantier.RefChantier = req.RefChantier
	}
	chantier.DateDebut = dateDebut
	chantier.DateFin = dateFin
	chantier.BudgetPrevu = req.BudgetPrevu
	if req.TransCompta != "" {
		chantier.TransCompta = req.TransCompta
	}
	chantier.ResponsableChantier = req.ResponsableChantier
	chantier.PlanReference = req.PlanReference
	chantier.DocumentsATRC = req.DocumentsATRC
	chantier.VehiculeUtilise = req.VehiculeUtilise
	if req.Statut != "" {
		chantier.Statut = req.Statut
	}
	if req.VilleCode != "" {
		chantier.VilleCode = req.VilleCode
	}
	chantier.Adresse = req.Adresse
	chantier.Commentaire = req.Commentaire
	if req.MonteursLocaux != nil {
		chantier.MonteursLocaux = req.MonteursLocaux
	}

	if err := h.db.Save(&chantier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, chantier)
}

// Delete removes a chantier and its dependent records
func (h *ChantierHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id_chantier = ?", id).Delete(&model.AffectationMonteur{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id_chantier = ?", id).Delete(&model.LigneCout{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id_chantier = ?", id).Delete(&model.Versement{}).Error; err != nil {
			return err
		}
		return tx.Where("id_chantier = ?", id).Delete(&model.Chantier{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "chantier deleted"})
}

// ========== Affectations ==========

// ListAffectations returns the assignments of a chantier
func (h *ChantierHandler) ListAffectations(c *gin.Context) {
	var affectations []model.AffectationMonteur
	if err := h.db.Where("id_chantier = ?", c.Param("id")).Order("date_entree ASC").Find(&affectations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, affectations)
}

// CreateAffectation assigns a monteur to the chantier. The daily wage is
// snapshotted from the monteur row at this moment; later wage updates do
// not touch existing assignments.
func (h *ChantierHandler) CreateAffectation(c *gin.Context) {
	var chantier model.Chantier
	if err := h.db.Where("id_chantier = ?", c.Param("id")).First(&chantier).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chantier not found"})
		return
	}

	var req model.CreateAffectationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var monteur model.Monteur
	if err := h.db.First(&monteur, "matricule = ?", req.Matricule).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "monteur not found"})
		return
	}

	dateEntree, err := parseDate(req.DateEntree)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_entree"})
		return
	}
	dateSortie, err := parseDate(req.DateSortie)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_sortie"})
		return
	}

	affectation := model.AffectationMonteur{
		IDAffectation: uuid.NewString(),
		IDChantier:    chantier.IDChantier,
		Matricule:     monteur.Matricule,
		NomMonteur:    monteur.NomMonteur,
		SalaireJour:   monteur.SalaireJour,
		ZoneTravail:   req.ZoneTravail,
		DateEntree:    dateEntree,
		DateSortie:    dateSortie,
		JoursArret:    req.JoursArret,
	}

	if err := h.db.Create(&affectation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, affectation)
}

// DeleteAffectation removes an assignment
func (h *ChantierHandler) DeleteAffectation(c *gin.Context) {
	if err := h.db.Where("id_affectation = ?", c.Param("id")).Delete(&model.AffectationMonteur{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "affectation deleted"})
}

// ========== Lignes de coût ==========

// ListCouts returns the cost lines of a chantier
func (h *ChantierHandler) ListCouts(c *gin.Context) {
	var couts []model.LigneCout
	if err := h.db.Where("id_chantier = ?", c.Param("id")).Order("created_at ASC").Find(&couts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, couts)
}

// CreateCout records an expense line. The actual amount defaults to
// unit cost x quantity but stays independently stored.
func (h *ChantierHandler) CreateCout(c *gin.Context) {
	var chantier model.Chantier
	if err := h.db.Where("id_chantier = ?", c.Param("id")).First(&chantier).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chantier not found"})
		return
	}

	var req model.CreateCoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	montantReel := req.MontantReel
	if montantReel == 0 {
		montantReel = req.CoutUnitaire * req.Quantite
	}
	montantPrevu := req.MontantPrevu
	if montantPrevu == 0 {
		montantPrevu = montantReel
	}
	statut := req.Statut
	if statut == "" {
		statut = model.CoutEnAttente
	}

	cout := model.LigneCout{
		IDCout:       uuid.NewString(),
		IDChantier:   chantier.IDChantier,
		TypeCout:     req.TypeCout,
		MontantPrevu: montantPrevu,
		CoutUnitaire: req.CoutUnitaire,
		Quantite:     req.Quantite,
		MontantReel:  montantReel,
		Commentaire:  req.Commentaire,
		Statut:       statut,
	}

	if err := h.db.Create(&cout).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, cout)
}

// DeleteCout removes a cost line
func (h *ChantierHandler) DeleteCout(c *gin.Context) {
	if err := h.db.Where("id_cout = ?", c.Param("id")).Delete(&model.LigneCout{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cout deleted"})
}

// ========== Versements ==========

// ListVersements returns the payments received for a chantier
func (h *ChantierHandler) ListVersements(c *gin.Context) {
	var versements []model.Versement
	if err := h.db.Where("id_chantier = ?", c.Param("id")).Order("numero ASC").Find(&versements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, versements)
}

// CreateVersement records a payment with the next per-chantier sequence
// number.
func (h *ChantierHandler) CreateVersement(c *gin.Context) {
	var chantier model.Chantier
	if err := h.db.Where("id_chantier = ?", c.Param("id")).First(&chantier).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chantier not found"})
		return
	}

	var req model.CreateVersementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		date = parsed
	}

	var count int64
	h.db.Model(&model.Versement{}).Where("id_chantier = ?", chantier.IDChantier).Count(&count)

	versement := model.Versement{
		IDVersement: uuid.NewString(),
		IDChantier:  chantier.IDChantier,
		Montant:     req.Montant,
		Date:        date,
		Numero:      int(count) + 1,
	}

	if err := h.db.Create(&versement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, versement)
}

// DeleteVersement removes a payment
func (h *ChantierHandler) DeleteVersement(c *gin.Context) {
	if err := h.db.Where("id_versement = ?", c.Param("id")).Delete(&model.Versement{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "versement deleted"})
}
