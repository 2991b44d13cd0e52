package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gestibat/api/internal/model"
)

// Ledger rejection reasons.
var (
	ErrArticleNotFound    = errors.New("article not found")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrMissingDestination = errors.New("sortie requires a destination chantier")
	ErrInsufficientStock  = errors.New("insufficient stock")
)

// StockService maintains the movement ledger and the derived quantity on
// each article. The two writes of a movement (ledger append + quantity
// update) always happen in one transaction: the article quantity equals its
// initial quantity plus the signed sum of all recorded movements, under
// partial failure included.
type StockService struct {
	db *gorm.DB
}

// NewStockService creates a new stock service
func NewStockService(db *gorm.DB) *StockService {
	return &StockService{db: db}
}

// RecordMovement appends a ledger entry and applies its delta to the
// article quantity. A SORTIE needs a destination chantier and may not drive
// the quantity negative; both writes roll back together on any failure.
func (s *StockService) RecordMovement(ctx context.Context, req *model.CreateMouvementRequest) (*model.MouvementStock, error) {
	if req.Quantite <= 0 {
		return nil, ErrInvalidQuantity
	}
	if req.Type == model.MouvementSortie && req.IDChantier == "" {
		return nil, ErrMissingDestination
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", req.Date)
			if err != nil {
				return nil, fmt.Errorf("invalid date %q", req.Date)
			}
		}
		date = parsed
	}

	mouvement := model.MouvementStock{
		IDMouvement: uuid.NewString(),
		IDArticle:   req.IDArticle,
		Type:        req.Type,
		Quantite:    req.Quantite,
		Date:        date,
		IDChantier:  req.IDChantier,
		Motif:       req.Motif,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article model.ArticleStock
		if err := tx.Where("id_article = ?", req.IDArticle).First(&article).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrArticleNotFound
			}
			return err
		}

		if err := tx.Create(&mouvement).Error; err != nil {
			return err
		}

		// The delta is applied as a guarded SQL expression rather than a
		// read-modify-write, so concurrent movements cannot lose updates.
		update := tx.Model(&model.ArticleStock{}).Where("id_article = ?", req.IDArticle)
		if req.Type == model.MouvementEntree {
			update = update.Update("quantite", gorm.Expr("quantite + ?", req.Quantite))
		} else {
			update = update.Where("quantite >= ?", req.Quantite).
				Update("quantite", gorm.Expr("quantite - ?", req.Quantite))
		}
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return ErrInsufficientStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &mouvement, nil
}

// ListMovements returns ledger history, newest first
func (s *StockService) ListMovements(ctx context.Context, filter *model.MouvementFilter) ([]model.MouvementStock, error) {
	query := s.db.WithContext(ctx).Model(&model.MouvementStock{})
	if filter != nil {
		if filter.IDArticle != "" {
			query = query.Where("id_article = ?", filter.IDArticle)
		}
		if filter.IDChantier != "" {
			query = query.Where("id_chantier = ?", filter.IDChantier)
		}
		if filter.Type != "" {
			query = query.Where("type = ?", filter.Type)
		}
		if filter.From != nil {
			query = query.Where("date >= ?", *filter.From)
		}
		if filter.To != nil {
			query = query.Where("date <= ?", *filter.To)
		}
	}

	var mouvements []model.MouvementStock
	err := query.Order("date DESC, created_at DESC").Find(&mouvements).Error
	return mouvements, err
}

// LowStockArticles returns articles at or under their alert threshold
func (s *StockService) LowStockArticles(ctx context.Context) ([]model.ArticleStock, error) {
	var articles []model.ArticleStock
	err := s.db.WithContext(ctx).
		Where("quantite <= seuil_alerte").
		Order("nom ASC").
		Find(&articles).Error
	return articles, err
}
