package service

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"gestibat/api/internal/model"
)

// Snapshot is the full dataset a client mirrors after login.
type Snapshot struct {
	Chantiers    []model.Chantier           `json:"chantiers"`
	Clients      []model.Client             `json:"clients"`
	Monteurs     []model.Monteur            `json:"monteurs"`
	Affectations []model.AffectationMonteur `json:"affectations"`
	LignesCouts  []model.LigneCout          `json:"lignes_couts"`
	Versements   []model.Versement          `json:"versements"`
	Articles     []model.ArticleStock       `json:"articles_stock"`
	Mouvements   []model.MouvementStock     `json:"mouvements_stock"`
	Profiles     []model.Profile            `json:"profiles"`
}

// SnapshotService bulk-loads every business collection in one call so the
// client can populate its mirror with a single round trip.
type SnapshotService struct {
	db *gorm.DB
}

// NewSnapshotService creates a new snapshot service
func NewSnapshotService(db *gorm.DB) *SnapshotService {
	return &SnapshotService{db: db}
}

// Load fetches all collections concurrently. Collections are independent:
// there is no ordering guarantee across them, only within (monteurs by
// name, movements newest first).
func (s *SnapshotService) Load(ctx context.Context) (*Snapshot, error) {
	snapshot := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.db.WithContext(gctx).Order("numero_ordre ASC").Find(&snapshot.Chantiers).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Order("nom_client ASC").Find(&snapshot.Clients).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Order("nom_monteur ASC").Find(&snapshot.Monteurs).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Find(&snapshot.Affectations).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Find(&snapshot.LignesCouts).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Find(&snapshot.Versements).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Order("nom ASC").Find(&snapshot.Articles).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Order("date DESC").Find(&snapshot.Mouvements).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Find(&snapshot.Profiles).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshot, nil
}
