package model

import "time"

// Stock article categories.
const (
	ArticleEPI         = "EPI"
	ArticleOutillage   = "OUTILLAGE"
	ArticleConsommable = "CONSOMMABLE"
	ArticleMateriel    = "MATERIEL"
)

// Movement types.
const (
	MouvementEntree = "ENTREE"
	MouvementSortie = "SORTIE"
)

// ArticleStock is an inventory item. Quantite is a derived field: after
// creation it only changes through recorded movements, never through a
// direct update.
type ArticleStock struct {
	IDArticle   string    `json:"id_article" gorm:"column:id_article;primaryKey;size:36"`
	Reference   string    `json:"reference" gorm:"size:50;index"`
	Nom         string    `json:"nom" gorm:"size:100;not null"`
	Categorie   string    `json:"categorie" gorm:"size:20;index"`
	Quantite    float64   `json:"quantite"`
	Unite       string    `json:"unite" gorm:"size:20"`
	SeuilAlerte float64   `json:"seuil_alerte" gorm:"column:seuil_alerte"`
	Emplacement string    `json:"emplacement,omitempty" gorm:"size:100"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ArticleStock) TableName() string {
	return "articles_stock"
}

// MouvementStock is one append-only ledger entry against an article.
type MouvementStock struct {
	IDMouvement string    `json:"id_mouvement" gorm:"column:id_mouvement;primaryKey;size:36"`
	IDArticle   string    `json:"id_article" gorm:"column:id_article;size:36;index"`
	Type        string    `json:"type" gorm:"size:10;index"`
	Quantite    float64   `json:"quantite"`
	Date        time.Time `json:"date" gorm:"index"`
	IDChantier  string    `json:"id_chantier,omitempty" gorm:"column:id_chantier;size:36;index"`
	Motif       string    `json:"motif,omitempty" gorm:"size:200"`
	CreatedAt   time.Time `json:"created_at"`
}

func (MouvementStock) TableName() string {
	return "mouvements_stock"
}

// CreateArticleRequest is bound on POST /stock/articles
type CreateArticleRequest struct {
	Reference   string  `json:"reference"`
	Nom         string  `json:"nom" binding:"required"`
	Categorie   string  `json:"categorie" binding:"required"`
	Quantite    float64 `json:"quantite"`
	Unite       string  `json:"unite"`
	SeuilAlerte float64 `json:"seuil_alerte"`
	Emplacement string  `json:"emplacement"`
}

// UpdateArticleRequest updates article metadata. Quantity is deliberately
// absent: the ledger is the only writer.
type UpdateArticleRequest struct {
	Reference   string   `json:"reference"`
	Nom         string   `json:"nom"`
	Categorie   string   `json:"categorie"`
	Unite       string   `json:"unite"`
	SeuilAlerte *float64 `json:"seuil_alerte"`
	Emplacement string   `json:"emplacement"`
}

// CreateMouvementRequest is bound on POST /stock/mouvements
type CreateMouvementRequest struct {
	IDArticle  string  `json:"id_article" binding:"required"`
	Type       string  `json:"type" binding:"required,oneof=ENTREE SORTIE"`
	Quantite   float64 `json:"quantite" binding:"required,gt=0"`
	Date       string  `json:"date"`
	IDChantier string  `json:"id_chantier"`
	Motif      string  `json:"motif"`
}

// MouvementFilter narrows movement history queries
type MouvementFilter struct {
	IDArticle  string
	IDChantier string
	Type       string
	From       *time.Time
	To         *time.Time
}
