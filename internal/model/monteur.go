package model

import "time"

// Monteur roles on site.
const (
	MonteurOuvrier      = "OUVRIER"
	MonteurChefChantier = "CHEF_CHANTIER"
)

// Contract types.
const (
	ContratCDI       = "CDI"
	ContratCDD       = "CDD"
	ContratAnapec    = "ANAPEC"
	ContratFreelance = "FREELANCE"
)

// Monteur represents a registered field worker. The matricule is assigned by
// HR, not generated by the store.
type Monteur struct {
	Matricule        int        `json:"matricule" gorm:"primaryKey;autoIncrement:false"`
	NomMonteur       string     `json:"nom_monteur" gorm:"column:nom_monteur;size:100;not null"`
	RoleMonteur      string     `json:"role_monteur,omitempty" gorm:"column:role_monteur;size:20;default:'OUVRIER'"`
	CIN              string     `json:"cin,omitempty" gorm:"column:cin;size:20"`
	DateNaissance    *time.Time `json:"date_naissance,omitempty" gorm:"column:date_naissance;type:date"`
	Telephone        string     `json:"telephone,omitempty" gorm:"size:30"`
	SalaireJour      float64    `json:"salaire_jour" gorm:"column:salaire_jour"`
	TypeContrat      string     `json:"type_contrat,omitempty" gorm:"column:type_contrat;size:20"`
	DateDebutContrat *time.Time `json:"date_debut_contrat,omitempty" gorm:"column:date_debut_contrat;type:date"`
	Actif            bool       `json:"actif" gorm:"default:true"`
	ScanCINRecto     string     `json:"scan_cin_recto,omitempty" gorm:"column:scan_cin_recto;size:255"`
	ScanCINVerso     string     `json:"scan_cin_verso,omitempty" gorm:"column:scan_cin_verso;size:255"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Monteur) TableName() string {
	return "monteurs"
}

// CreateMonteurRequest is bound on POST /monteurs
type CreateMonteurRequest struct {
	Matricule        int     `json:"matricule" binding:"required"`
	NomMonteur       string  `json:"nom_monteur" binding:"required"`
	RoleMonteur      string  `json:"role_monteur"`
	CIN              string  `json:"cin"`
	DateNaissance    string  `json:"date_naissance"`
	Telephone        string  `json:"telephone"`
	SalaireJour      float64 `json:"salaire_jour" binding:"required"`
	TypeContrat      string  `json:"type_contrat"`
	DateDebutContrat string  `json:"date_debut_contrat"`
	Actif            *bool   `json:"actif"`
	ScanCINRecto     string  `json:"scan_cin_recto"`
	ScanCINVerso     string  `json:"scan_cin_verso"`
}
