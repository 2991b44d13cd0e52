package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gestibat/api/internal/model"
	"gestibat/api/internal/service"
)

// StockHandler manages inventory articles and the movement ledger
type StockHandler struct {
	db            *gorm.DB
	stockService  *service.StockService
	exportService *service.ExportService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(db *gorm.DB, stockService *service.StockService, exportService *service.ExportService) *StockHandler {
	return &StockHandler{db: db, stockService: stockService, exportService: exportService}
}

// RegisterRoutes registers stock routes
func (h *StockHandler) RegisterRoutes(r *gin.RouterGroup) {
	stock := r.Group("/stock")
	{
		stock.GET("/articles", h.ListArticles)
		stock.POST("/articles", h.CreateArticle)
		stock.GET("/articles/:id", h.GetArticle)
		stock.PUT("/articles/:id", h.UpdateArticle)
		stock.DELETE("/articles/:id", h.DeleteArticle)
		stock.GET("/articles/:id/mouvements", h.ListArticleMouvements)

		stock.GET("/mouvements", h.ListMouvements)
		stock.POST("/mouvements", h.CreateMouvement)
		stock.GET("/mouvements/export", h.ExportMouvements)

		stock.GET("/alertes", h.ListAlerts)
	}
}

// ListArticles returns the inventory
func (h *StockHandler) ListArticles(c *gin.Context) {
	db := h.db.Model(&model.ArticleStock{})
	if categorie := c.Query("categorie"); categorie != "" {
		db = db.Where("categorie = ?", categorie)
	}

	var articles []model.ArticleStock
	if err := db.Order("nom ASC").Find(&articles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, articles)
}

// GetArticle returns one article
func (h *StockHandler) GetArticle(c *gin.Context) {
	var article model.ArticleStock
	if err := h.db.Where("id_article = ?", c.Param("id")).First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	c.JSON(http.StatusOK, article)
}

// CreateArticle adds an inventory item with its initial quantity
// @Summary Create stock article
// @Tags Stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param article body model.CreateArticleRequest true "Article data"
// @Success 201 {object} model.ArticleStock
// @Failure 400 {object} map[string]string
// @Router /stock/articles [post]
func (h *StockHandler) CreateArticle(c *gin.Context) {
	var req model.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seuil := req.SeuilAlerte
	if seuil == 0 {
		seuil = 5
	}

	article := model.ArticleStock{
		IDArticle:   uuid.NewString(),
		Reference:   req.Reference,
		Nom:         req.Nom,
		Categorie:   req.Categorie,
		Quantite:    req.Quantite,
		Unite:       req.Unite,
		SeuilAlerte: seuil,
		Emplacement: req.Emplacement,
	}

	if err := h.db.Create(&article).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, article)
}

// UpdateArticle updates article metadata. The quantity is not reachable
// from here: only recorded movements may change it.
func (h *StockHandler) UpdateArticle(c *gin.Context) {
	var article model.ArticleStock
	if err := h.db.Where("id_article = ?", c.Param("id")).First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	var req model.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if req.Reference != "" {
		updates["reference"] = req.Reference
	}
	if req.Nom != "" {
		updates["nom"] = req.Nom
	}
	if req.Categorie != "" {
		updates["categorie"] = req.Categorie
	}
	if req.Unite != "" {
		updates["unite"] = req.Unite
	}
	if req.SeuilAlerte != nil {
		updates["seuil_alerte"] = *req.SeuilAlerte
	}
	if req.Emplacement != "" {
		updates["emplacement"] = req.Emplacement
	}

	if err := h.db.Model(&model.ArticleStock{}).Where("id_article = ?", article.IDArticle).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "article updated"})
}

// DeleteArticle removes an article and its movement history
func (h *StockHandler) DeleteArticle(c *gin.Context) {
	id := c.Param("id")
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id_article = ?", id).Delete(&model.MouvementStock{}).Error; err != nil {
			return err
		}
		return tx.Where("id_article = ?", id).Delete(&model.ArticleStock{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "article deleted"})
}

// CreateMouvement records a stock movement
// @Summary Record stock movement
// @Description Append a movement to the ledger and update the article quantity atomically
// @Tags Stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param mouvement body model.CreateMouvementRequest true "Movement data"
// @Success 201 {object} model.MouvementStock
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /stock/mouvements [post]
func (h *StockHandler) CreateMouvement(c *gin.Context) {
	var req model.CreateMouvementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mouvement, err := h.stockService.RecordMovement(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrArticleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidQuantity), errors.Is(err, service.ErrMissingDestination):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, mouvement)
}

// ListMouvements returns ledger history, newest first
// @Summary List stock movements
// @Tags Stock
// @Produce json
// @Security BearerAuth
// @Param id_article query string false "Filter by article"
// @Param id_chantier query string false "Filter by destination chantier"
// @Param type query string false "Filter by type (ENTREE or SORTIE)"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} model.MouvementStock
// @Router /stock/mouvements [get]
func (h *StockHandler) ListMouvements(c *gin.Context) {
	filter, err := mouvementFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mouvements, err := h.stockService.ListMovements(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, mouvements)
}

// ListArticleMouvements returns the ledger of one article
func (h *StockHandler) ListArticleMouvements(c *gin.Context) {
	mouvements, err := h.stockService.ListMovements(c.Request.Context(), &model.MouvementFilter{
		IDArticle: c.Param("id"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, mouvements)
}

// ListAlerts returns articles at or under their alert threshold
func (h *StockHandler) ListAlerts(c *gin.Context) {
	articles, err := h.stockService.LowStockArticles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, articles)
}

// ExportMouvements streams the movement register as a workbook
func (h *StockHandler) ExportMouvements(c *gin.Context) {
	filter, err := mouvementFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := h.exportService.MouvementsWorkbook(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("mouvements_stock_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func mouvementFilterFromQuery(c *gin.Context) (*model.MouvementFilter, error) {
	filter := &model.MouvementFilter{
		IDArticle:  c.Query("id_article"),
		IDChantier: c.Query("id_chantier"),
		Type:       c.Query("type"),
	}
	if from := c.Query("from"); from != "" {
		d, err := parseDate(from)
		if err != nil {
			return nil, fmt.Errorf("invalid from date %q", from)
		}
		filter.From = &d
	}
	if to := c.Query("to"); to != "" {
		d, err := parseDate(to)
		if err != nil {
			return nil, fmt.Errorf("invalid to date %q", to)
		}
		// inclusive end of day
		end := d.Add(24*time.Hour - time.Second)
		filter.To = &end
	}
	return filter, nil
}
