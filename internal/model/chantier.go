package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Chantier statuses.
const (
	ChantierActif   = "actif"
	ChantierTermine = "terminé"
	ChantierArchive = "archivé"
)

// Cost line categories.
const (
	CoutTransportCommun  = "transport_commun"
	CoutTransportLocal   = "transport_local"
	CoutHebergement      = "hebergement"
	CoutRestauration     = "restauration"
	CoutOutillageAffecte = "outillage_affecte"
	CoutSousTraitant     = "sous_traitant"
)

// Cost line approval statuses.
const (
	CoutValide    = "validé"
	CoutEnAttente = "en attente"
)

// MonteurLocal is an ad-hoc temporary worker attached to a single chantier.
// Local workers are never first-class records: they live as an embedded list
// on the chantier row.
type MonteurLocal struct {
	ID              string  `json:"id"`
	NomComplet      string  `json:"nom_complet"`
	CIN             string  `json:"cin"`
	SalaireJour     float64 `json:"salaire_jour"`
	JoursTravailles float64 `json:"jours_travailles"`
}

// MonteurLocalList is a helper type for the embedded JSONB list
type MonteurLocalList []MonteurLocal

// Value implements driver.Valuer
func (l MonteurLocalList) Value() (driver.Value, error) {
	if l == nil {
		l = MonteurLocalList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *MonteurLocalList) Scan(value interface{}) error {
	if value == nil {
		*l = MonteurLocalList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for MonteurLocalList")
}

// Chantier represents a construction/installation site. Client name and code
// are denormalized onto the row at creation time.
type Chantier struct {
	IDChantier           string           `json:"id_chantier" gorm:"column:id_chantier;primaryKey;size:36"`
	NumeroOrdre          int              `json:"numero_ordre" gorm:"column:numero_ordre;index"`
	RefChantier          string           `json:"ref_chantier" gorm:"column:ref_chantier;size:50;index"`
	IDClient             string           `json:"id_client" gorm:"column:id_client;size:36;index"`
	CodeClient           string           `json:"code_client" gorm:"column:code_client;size:20"`
	NomClient            string           `json:"nom_client" gorm:"column:nom_client;size:100"`
	DateDebut            time.Time        `json:"date_debut" gorm:"column:date_debut;type:date"`
	DateFin              time.Time        `json:"date_fin" gorm:"column:date_fin;type:date"`
	BudgetPrevu          float64          `json:"budget_prevu" gorm:"column:budget_prevu"`
	TransCompta          string           `json:"trans_compta" gorm:"column:trans_compta;size:10;default:'Manuel'"`
	ResponsableChantier  string           `json:"responsable_chantier" gorm:"column:responsable_chantier;size:100"`
	PlanReference        string           `json:"plan_reference" gorm:"column:plan_reference;size:50"`
	DocumentsATRC        bool             `json:"documents_at_rc" gorm:"column:documents_at_rc"`
	VehiculeUtilise      bool             `json:"vehicule_utilise" gorm:"column:vehicule_utilise"`
	Statut               string           `json:"statut" gorm:"size:20;default:'actif';index"`
	VilleCode            string           `json:"ville_code" gorm:"column:ville_code;size:10"`
	Adresse              string           `json:"adresse,omitempty" gorm:"size:200"`
	Commentaire          string           `json:"commentaire,omitempty" gorm:"size:500"`
	MonteursLocaux       MonteurLocalList `json:"monteurs_locaux" gorm:"column:monteurs_locaux;type:jsonb"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

func (Chantier) TableName() string {
	return "chantiers"
}

// AffectationMonteur links a registered monteur to a chantier for a date
// range. SalaireJour is a snapshot of the monteur's wage at assignment time,
// never a live reference: historical labor cost must not drift when the wage
// is later updated.
type AffectationMonteur struct {
	IDAffectation string    `json:"id_affectation" gorm:"column:id_affectation;primaryKey;size:36"`
	IDChantier    string    `json:"id_chantier" gorm:"column:id_chantier;size:36;index"`
	Matricule     int       `json:"matricule" gorm:"index"`
	NomMonteur    string    `json:"nom_monteur" gorm:"column:nom_monteur;size:100"`
	SalaireJour   float64   `json:"salaire_jour" gorm:"column:salaire_jour"`
	ZoneTravail   string    `json:"zone_travail" gorm:"column:zone_travail;size:100"`
	DateEntree    time.Time `json:"date_entree" gorm:"column:date_entree;type:date"`
	DateSortie    time.Time `json:"date_sortie" gorm:"column:date_sortie;type:date"`
	JoursArret    float64   `json:"jours_arret" gorm:"column:jours_arret"`
	CreatedAt     time.Time `json:"created_at"`
}

func (AffectationMonteur) TableName() string {
	return "affectations"
}

// LigneCout is a recorded expense against a chantier. MontantReel is stored
// independently: it defaults to cout_unitaire x quantite but can be overridden.
type LigneCout struct {
	IDCout       string    `json:"id_cout" gorm:"column:id_cout;primaryKey;size:36"`
	IDChantier   string    `json:"id_chantier" gorm:"column:id_chantier;size:36;index"`
	TypeCout     string    `json:"type_cout" gorm:"column:type_cout;size:30;index"`
	MontantPrevu float64   `json:"montant_prevu" gorm:"column:montant_prevu"`
	CoutUnitaire float64   `json:"cout_unitaire" gorm:"column:cout_unitaire"`
	Quantite     float64   `json:"quantite"`
	MontantReel  float64   `json:"montant_reel" gorm:"column:montant_reel"`
	Commentaire  string    `json:"commentaire,omitempty" gorm:"size:300"`
	Statut       string    `json:"statut" gorm:"size:20;default:'en attente'"`
	CreatedAt    time.Time `json:"created_at"`
}

func (LigneCout) TableName() string {
	return "lignes_couts"
}

// Versement is a payment received from the client against a chantier budget.
type Versement struct {
	IDVersement string    `json:"id_versement" gorm:"column:id_versement;primaryKey;size:36"`
	IDChantier  string    `json:"id_chantier" gorm:"column:id_chantier;size:36;index"`
	Montant     float64   `json:"montant"`
	Date        time.Time `json:"date" gorm:"type:date"`
	Numero      int       `json:"numero"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Versement) TableName() string {
	return "versements"
}

// CreateChantierRequest is bound on POST /chantiers
type CreateChantierRequest struct {
	RefChantier         string           `json:"ref_chantier"`
	IDClient            string           `json:"id_client" binding:"required"`
	DateDebut           string           `json:"date_debut" binding:"required"`
	DateFin             string           `json:"date_fin" binding:"required"`
	BudgetPrevu         float64          `json:"budget_prevu"`
	TransCompta         string           `json:"trans_compta"`
	ResponsableChantier string           `json:"responsable_chantier"`
	PlanReference       string           `json:"plan_reference"`
	DocumentsATRC       bool             `json:"documents_at_rc"`
	VehiculeUtilise     bool             `json:"vehicule_utilise"`
	Statut              string           `json:"statut"`
	VilleCode           string           `json:"ville_code"`
	Adresse             string           `json:"adresse"`
	Commentaire         string           `json:"commentaire"`
	MonteursLocaux      MonteurLocalList `json:"monteurs_locaux"`
}

// CreateAffectationRequest is bound on POST /chantiers/:id/affectations.
// The wage snapshot is taken from the monteur row server-side.
type CreateAffectationRequest struct {
	Matricule   int     `json:"matricule" binding:"required"`
	ZoneTravail string  `json:"zone_travail"`
	DateEntree  string  `json:"date_entree" binding:"required"`
	DateSortie  string  `json:"date_sortie" binding:"required"`
	JoursArret  float64 `json:"jours_arret"`
}

// CreateCoutRequest is bound on POST /chantiers/:id/couts
type CreateCoutRequest struct {
	TypeCout     string  `json:"type_cout" binding:"required"`
	MontantPrevu float64 `json:"montant_prevu"`
	CoutUnitaire float64 `json:"cout_unitaire"`
	Quantite     float64 `json:"quantite"`
	MontantReel  float64 `json:"montant_reel"`
	Commentaire  string  `json:"commentaire"`
	Statut       string  `json:"statut"`
}

// CreateVersementRequest is bound on POST /chantiers/:id/versements
type CreateVersementRequest struct {
	Montant float64 `json:"montant" binding:"required"`
	Date    string  `json:"date"`
}
