package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gestibat/api/internal/model"
)

func day(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCountDays(t *testing.T) {
	assert.Equal(t, 1, CountDays(day("2026-03-10"), day("2026-03-10")))
	assert.Equal(t, 15, CountDays(day("2026-03-01"), day("2026-03-15")))
	// Reversed bounds still count
	assert.Equal(t, 15, CountDays(day("2026-03-15"), day("2026-03-01")))
}

func TestLaborCost(t *testing.T) {
	affectations := []model.AffectationMonteur{
		{DateEntree: day("2026-03-01"), DateSortie: day("2026-03-15"), SalaireJour: 300, JoursArret: 2},
	}
	locaux := model.MonteurLocalList{
		{NomComplet: "Aide local", SalaireJour: 250, JoursTravailles: 10},
	}

	// (15 - 2) * 300 + 10 * 250
	assert.Equal(t, 6400.0, LaborCost(affectations, locaux))
}

func TestSummarizeChantier(t *testing.T) {
	chantier := &model.Chantier{
		IDChantier:  "ch-1",
		RefChantier: "1-ACME-010326",
		NomClient:   "ACME",
		Statut:      model.ChantierActif,
		BudgetPrevu: 50940,
		MonteursLocaux: model.MonteurLocalList{
			{SalaireJour: 250, JoursTravailles: 10},
		},
	}
	affectations := []model.AffectationMonteur{
		{DateEntree: day("2026-03-01"), DateSortie: day("2026-03-15"), SalaireJour: 300, JoursArret: 2},
	}
	couts := []model.LigneCout{
		{TypeCout: model.CoutTransportCommun, MontantReel: 5000},
		{TypeCout: model.CoutHebergement, MontantReel: 8660},
	}
	versements := []model.Versement{
		{Montant: 15000},
		{Montant: 10000},
	}

	sum := SummarizeChantier(chantier, affectations, couts, versements)
	assert.Equal(t, 6400.0, sum.CoutMainOeuvre)
	assert.Equal(t, 13660.0, sum.CoutsDirects)
	assert.Equal(t, 20060.0, sum.CoutTotal)
	assert.Equal(t, 25000.0, sum.Versements)
	assert.Equal(t, 30880.0, sum.Marge)
	assert.InDelta(t, 60.62, sum.MargePercent, 0.01)
}

func TestSummarizeChantierWithoutBudget(t *testing.T) {
	chantier := &model.Chantier{IDChantier: "ch-2", BudgetPrevu: 0}
	couts := []model.LigneCout{{TypeCout: model.CoutRestauration, MontantReel: 1200}}

	sum := SummarizeChantier(chantier, nil, couts, nil)
	assert.Equal(t, -1200.0, sum.Marge)
	assert.Equal(t, 0.0, sum.MargePercent)
}

func TestBreakdownCostsGroupsTransports(t *testing.T) {
	couts := []model.LigneCout{
		{TypeCout: model.CoutTransportCommun, MontantReel: 1000},
		{TypeCout: model.CoutTransportLocal, MontantReel: 400},
		{TypeCout: model.CoutHebergement, MontantReel: 2000},
		{TypeCout: model.CoutRestauration, MontantReel: 600},
		{TypeCout: model.CoutOutillageAffecte, MontantReel: 300},
		{TypeCout: model.CoutSousTraitant, MontantReel: 5000},
	}

	b := BreakdownCosts(couts)
	assert.Equal(t, 1400.0, b.Transport)
	assert.Equal(t, 2000.0, b.Hebergement)
	assert.Equal(t, 600.0, b.Restauration)
	assert.Equal(t, 300.0, b.Outillage)
	assert.Equal(t, 5000.0, b.SousTraitance)
}

func TestAccumulateMonteurStats(t *testing.T) {
	affectations := []model.AffectationMonteur{
		{Matricule: 101, NomMonteur: "Karim", DateEntree: day("2026-01-05"), DateSortie: day("2026-01-09"), SalaireJour: 200},
		{Matricule: 101, NomMonteur: "Karim", DateEntree: day("2026-02-02"), DateSortie: day("2026-02-06"), SalaireJour: 200},
		{Matricule: 102, NomMonteur: "Youssef", DateEntree: day("2026-01-05"), DateSortie: day("2026-01-24"), SalaireJour: 350},
	}

	stats := AccumulateMonteurStats(affectations)
	require.Len(t, stats, 2)
	// Highest earner first
	assert.Equal(t, 102, stats[0].Matricule)
	assert.Equal(t, 7000.0, stats[0].Total)
	assert.Equal(t, 101, stats[1].Matricule)
	assert.Equal(t, 10.0, stats[1].Jours)
	assert.Equal(t, 2000.0, stats[1].Total)
}

func TestDashboard(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Chantier{}, &model.AffectationMonteur{}, &model.LigneCout{},
		&model.Versement{}, &model.ArticleStock{},
	))

	require.NoError(t, db.Create(&model.Chantier{
		IDChantier: "ch-1", NumeroOrdre: 1, Statut: model.ChantierActif, BudgetPrevu: 10000,
	}).Error)
	require.NoError(t, db.Create(&model.Chantier{
		IDChantier: "ch-2", NumeroOrdre: 2, Statut: model.ChantierTermine, BudgetPrevu: 20000,
	}).Error)
	require.NoError(t, db.Create(&model.LigneCout{
		IDCout: "c-1", IDChantier: "ch-1", TypeCout: model.CoutHebergement, MontantReel: 4000,
	}).Error)
	require.NoError(t, db.Create(&model.ArticleStock{
		IDArticle: "art-1", Nom: "Gants", Quantite: 1, SeuilAlerte: 5,
	}).Error)

	svc := NewReportService(db)
	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ActiveCount)
	assert.Equal(t, 1, stats.CompletedCount)
	assert.Equal(t, 30000.0, stats.TotalBudgetPrevu)
	assert.Equal(t, 4000.0, stats.TotalBudgetReel)
	assert.Equal(t, 26000.0, stats.GlobalDifference)
	// Mean of 60% (ch-1) and 100% (ch-2)
	assert.InDelta(t, 80.0, stats.MargeMoyenne, 0.01)
	assert.Equal(t, 1, stats.AlertCount)
}
