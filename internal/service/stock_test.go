package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gestibat/api/internal/model"
)

func setupStockDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ArticleStock{}, &model.MouvementStock{}))
	return db
}

func seedArticle(t *testing.T, db *gorm.DB, quantite float64) model.ArticleStock {
	t.Helper()
	article := model.ArticleStock{
		IDArticle:   "art-1",
		Reference:   "CAS-001",
		Nom:         "Casque de chantier",
		Categorie:   model.ArticleEPI,
		Quantite:    quantite,
		Unite:       "pièce",
		SeuilAlerte: 5,
	}
	require.NoError(t, db.Create(&article).Error)
	return article
}

func TestRecordMovementAppliesDelta(t *testing.T) {
	db := setupStockDB(t)
	svc := NewStockService(db)
	article := seedArticle(t, db, 12)

	_, err := svc.RecordMovement(context.Background(), &model.CreateMouvementRequest{
		IDArticle: article.IDArticle,
		Type:      model.MouvementEntree,
		Quantite:  20,
		Motif:     "réception fournisseur",
	})
	require.NoError(t, err)

	_, err = svc.RecordMovement(context.Background(), &model.CreateMouvementRequest{
		IDArticle:  article.IDArticle,
		Type:       model.MouvementSortie,
		Quantite:   8,
		IDChantier: "ch-1",
	})
	require.NoError(t, err)

	var got model.ArticleStock
	require.NoError(t, db.First(&got, "id_article = ?", article.IDArticle).Error)
	assert.Equal(t, 24.0, got.Quantite)

	// Quantity equals initial + signed sum of the ledger
	mouvements, err := svc.ListMovements(context.Background(), &model.MouvementFilter{IDArticle: article.IDArticle})
	require.NoError(t, err)
	require.Len(t, mouvements, 2)
	sum := 12.0
	for _, m := range mouvements {
		if m.Type == model.MouvementEntree {
			sum += m.Quantite
		} else {
			sum -= m.Quantite
		}
	}
	assert.Equal(t, got.Quantite, sum)
}

func TestRecordMovementSortieRequiresChantier(t *testing.T) {
	db := setupStockDB(t)
	svc := NewStockService(db)
	article := seedArticle(t, db, 10)

	_, err := svc.RecordMovement(context.Background(), &model.CreateMouvementRequest{
		IDArticle: article.IDArticle,
		Type:      model.MouvementSortie,
		Quantite:  3,
	})
	assert.ErrorIs(t, err, ErrMissingDestination)
}

func TestRecordMovementRejectsInsufficientStock(t *testing.T) {
	db := setupStockDB(t)
	svc := NewStockService(db)
	article := seedArticle(t, db, 5)

	_, err := svc.RecordMovement(context.Background(), &model.CreateMouvementRequest{
		IDArticle:  article.IDArticle,
		Type:       model.MouvementSortie,
		Quantite:   8,
		IDChantier: "ch-1",
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Both writes rolled back: quantity untouched, no ledger entry
	var got model.ArticleStock
	require.NoError(t, db.First(&got, "id_article = ?", article.IDArticle).Error)
	assert.Equal(t, 5.0, got.Quantite)

	var count int64
	db.Model(&model.MouvementStock{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRecordMovementUnknownArticle(t *testing.T) {
	db := setupStockDB(t)
	svc := NewStockService(db)

	_, err := svc.RecordMovement(context.Background(), &model.CreateMouvementRequest{
		IDArticle: "missing",
		Type:      model.MouvementEntree,
		Quantite:  1,
	})
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestRecordMovementRejectsNonPositiveQuantity(t *testing.T) {
	db := setupStockDB(t)
	svc := NewStockService(db)
	article := seedArticle(t, db, 10)

	for _, q := range []float64{0, -4} {
		_, err := svc.RecordMovement(context.Background(), &model.CreateMouvementRequest{
			IDArticle: article.IDArticle,
			Type:      model.MouvementEntree,
			Quantite:  q,
		})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
}

func TestLowStockArticles(t *testing.T) {
	db := setupStockDB(t)
	svc := NewStockService(db)

	require.NoError(t, db.Create(&model.ArticleStock{
		IDArticle: "low", Nom: "Gants", Categorie: model.ArticleEPI, Quantite: 3, SeuilAlerte: 5,
	}).Error)
	require.NoError(t, db.Create(&model.ArticleStock{
		IDArticle: "ok", Nom: "Visseuse", Categorie: model.ArticleOutillage, Quantite: 12, SeuilAlerte: 2,
	}).Error)

	articles, err := svc.LowStockArticles(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "low", articles[0].IDArticle)
}
