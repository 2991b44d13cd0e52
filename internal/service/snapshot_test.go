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

func TestSnapshotLoadsAllCollections(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Chantier{}, &model.Client{}, &model.Monteur{},
		&model.AffectationMonteur{}, &model.LigneCout{}, &model.Versement{},
		&model.ArticleStock{}, &model.MouvementStock{}, &model.Profile{},
	))

	require.NoError(t, db.Create(&model.Client{IDClient: "cl-1", NomClient: "Zeta"}).Error)
	require.NoError(t, db.Create(&model.Client{IDClient: "cl-2", NomClient: "Alpha"}).Error)
	require.NoError(t, db.Create(&model.Chantier{IDChantier: "ch-2", NumeroOrdre: 2}).Error)
	require.NoError(t, db.Create(&model.Chantier{IDChantier: "ch-1", NumeroOrdre: 1}).Error)
	require.NoError(t, db.Create(&model.ArticleStock{IDArticle: "art-1", Nom: "Gants"}).Error)
	require.NoError(t, db.Create(&model.Profile{ID: "u-1", Email: "a@b.c", Role: model.RoleUser, IsActive: true}).Error)

	svc := NewSnapshotService(db)
	snapshot, err := svc.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, snapshot.Clients, 2)
	assert.Equal(t, "Alpha", snapshot.Clients[0].NomClient)
	require.Len(t, snapshot.Chantiers, 2)
	assert.Equal(t, 1, snapshot.Chantiers[0].NumeroOrdre)
	assert.Len(t, snapshot.Articles, 1)
	assert.Len(t, snapshot.Profiles, 1)
	// Empty collections come back as empty, never as an error
	assert.Empty(t, snapshot.Mouvements)
	assert.Empty(t, snapshot.Versements)
}
