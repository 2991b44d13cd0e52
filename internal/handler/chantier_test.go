package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gestibat/api/internal/model"
)

func setupChantierEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Client{}, &model.Monteur{}, &model.Chantier{},
		&model.AffectationMonteur{}, &model.LigneCout{}, &model.Versement{},
	))

	require.NoError(t, db.Create(&model.Client{
		IDClient: "cl-1", NomClient: "ACME", CodeClient: "ACME", VilleCode: "CAS",
	}).Error)
	require.NoError(t, db.Create(&model.Monteur{
		Matricule: 101, NomMonteur: "Karim", RoleMonteur: model.MonteurOuvrier,
		SalaireJour: 300, TypeContrat: model.ContratCDI, Actif: true,
	}).Error)

	router := gin.New()
	api := router.Group("/api/v1")
	NewChantierHandler(db).RegisterRoutes(api)
	return router, db
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateChantierAssignsNumberAndReference(t *testing.T) {
	router, _ := setupChantierEnv(t)

	w := postJSON(router, "/api/v1/chantiers", model.CreateChantierRequest{
		IDClient:    "cl-1",
		DateDebut:   "2026-03-01",
		DateFin:     "2026-03-31",
		BudgetPrevu: 50940,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var first model.Chantier
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, 1, first.NumeroOrdre)
	assert.Equal(t, "1-ACME-010326", first.RefChantier)
	assert.Equal(t, "ACME", first.NomClient)
	assert.Equal(t, model.ChantierActif, first.Statut)
	assert.Equal(t, "CAS", first.VilleCode)

	// Second chantier gets the next number
	w = postJSON(router, "/api/v1/chantiers", model.CreateChantierRequest{
		IDClient:  "cl-1",
		DateDebut: "2026-04-01",
		DateFin:   "2026-04-15",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var second model.Chantier
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, 2, second.NumeroOrdre)
}

func TestCreateChantierRejectsUnknownClient(t *testing.T) {
	router, _ := setupChantierEnv(t)

	w := postJSON(router, "/api/v1/chantiers", model.CreateChantierRequest{
		IDClient:  "missing",
		DateDebut: "2026-03-01",
		DateFin:   "2026-03-31",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAffectationSnapshotsWage(t *testing.T) {
	router, db := setupChantierEnv(t)

	w := postJSON(router, "/api/v1/chantiers", model.CreateChantierRequest{
		IDClient:  "cl-1",
		DateDebut: "2026-03-01",
		DateFin:   "2026-03-31",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var chantier model.Chantier
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chantier))

	w = postJSON(router, fmt.Sprintf("/api/v1/chantiers/%s/affectations", chantier.IDChantier), model.CreateAffectationRequest{
		Matricule:  101,
		DateEntree: "2026-03-01",
		DateSortie: "2026-03-15",
		JoursArret: 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var affectation model.AffectationMonteur
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &affectation))
	assert.Equal(t, 300.0, affectation.SalaireJour)
	assert.Equal(t, "Karim", affectation.NomMonteur)

	// Raising the wage later must not touch the stored snapshot
	require.NoError(t, db.Model(&model.Monteur{}).
		Where("matricule = ?", 101).Update("salaire_jour", 400).Error)

	var stored model.AffectationMonteur
	require.NoError(t, db.First(&stored, "id_affectation = ?", affectation.IDAffectation).Error)
	assert.Equal(t, 300.0, stored.SalaireJour)
}

func TestCreateCoutDefaultsMontantReel(t *testing.T) {
	router, _ := setupChantierEnv(t)

	w := postJSON(router, "/api/v1/chantiers", model.CreateChantierRequest{
		IDClient:  "cl-1",
		DateDebut: "2026-03-01",
		DateFin:   "2026-03-31",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var chantier model.Chantier
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chantier))

	w = postJSON(router, fmt.Sprintf("/api/v1/chantiers/%s/couts", chantier.IDChantier), model.CreateCoutRequest{
		TypeCout:     model.CoutHebergement,
		CoutUnitaire: 433,
		Quantite:     20,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var cout model.LigneCout
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cout))
	assert.Equal(t, 8660.0, cout.MontantReel)
	assert.Equal(t, 8660.0, cout.MontantPrevu)
	assert.Equal(t, model.CoutEnAttente, cout.Statut)
}

func TestCreateVersementSequence(t *testing.T) {
	router, _ := setupChantierEnv(t)

	w := postJSON(router, "/api/v1/chantiers", model.CreateChantierRequest{
		IDClient:  "cl-1",
		DateDebut: "2026-03-01",
		DateFin:   "2026-03-31",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var chantier model.Chantier
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chantier))

	for i, montant := range []float64{15000, 10000} {
		w = postJSON(router, fmt.Sprintf("/api/v1/chantiers/%s/versements", chantier.IDChantier), model.CreateVersementRequest{
			Montant: montant,
			Date:    "2026-03-10",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var versement model.Versement
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &versement))
		assert.Equal(t, i+1, versement.Numero)
	}
}

func TestDeleteChantierCascades(t *testing.T) {
	router, db := setupChantierEnv(t)

	w := postJSON(router, "/api/v1/chantiers", model.CreateChantierRequest{
		IDClient:  "cl-1",
		DateDebut: "2026-03-01",
		DateFin:   "2026-03-31",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var chantier model.Chantier
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chantier))

	postJSON(router, fmt.Sprintf("/api/v1/chantiers/%s/affectations", chantier.IDChantier), model.CreateAffectationRequest{
		Matricule: 101, DateEntree: "2026-03-01", DateSortie: "2026-03-05",
	})
	postJSON(router, fmt.Sprintf("/api/v1/chantiers/%s/couts", chantier.IDChantier), model.CreateCoutRequest{
		TypeCout: model.CoutRestauration, MontantReel: 500,
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/chantiers/"+chantier.IDChantier, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	db.Model(&model.AffectationMonteur{}).Where("id_chantier = ?", chantier.IDChantier).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&model.LigneCout{}).Where("id_chantier = ?", chantier.IDChantier).Count(&count)
	assert.Equal(t, int64(0), count)
}
