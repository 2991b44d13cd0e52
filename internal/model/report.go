package model

// ChantierSummary is the per-site financial fold: labor, direct costs,
// payments and margin against the planned budget.
type ChantierSummary struct {
	IDChantier     string  `json:"id_chantier"`
	RefChantier    string  `json:"ref_chantier"`
	NomClient      string  `json:"nom_client"`
	Statut         string  `json:"statut"`
	BudgetPrevu    float64 `json:"budget_prevu"`
	CoutMainOeuvre float64 `json:"cout_main_oeuvre"`
	CoutsDirects   float64 `json:"couts_directs"`
	CoutTotal      float64 `json:"cout_total"`
	Versements     float64 `json:"versements"`
	Marge          float64 `json:"marge"`
	MargePercent   float64 `json:"marge_percent"`
}

// GlobalSummary rolls the per-site summaries up across all chantiers.
type GlobalSummary struct {
	ChantierCount   int     `json:"chantier_count"`
	TotalBudget     float64 `json:"total_budget"`
	TotalCout       float64 `json:"total_cout"`
	TotalMarge      float64 `json:"total_marge"`
	MargePercent    float64 `json:"marge_percent"`
	TotalVersements float64 `json:"total_versements"`
}

// CostBreakdown buckets cost lines into the fixed display groups.
type CostBreakdown struct {
	Transport     float64 `json:"transport"`
	Hebergement   float64 `json:"hebergement"`
	Restauration  float64 `json:"restauration"`
	Outillage     float64 `json:"outillage"`
	SousTraitance float64 `json:"sous_traitance"`
}

// MonteurStats accumulates worked days and pay per monteur across
// affectations.
type MonteurStats struct {
	Matricule  int     `json:"matricule"`
	NomMonteur string  `json:"nom_monteur"`
	Jours      float64 `json:"jours"`
	Total      float64 `json:"total"`
}

// DashboardStats feeds the landing page counters.
type DashboardStats struct {
	ActiveCount      int     `json:"active_count"`
	CompletedCount   int     `json:"completed_count"`
	TotalBudgetPrevu float64 `json:"total_budget_prevu"`
	TotalBudgetReel  float64 `json:"total_budget_reel"`
	GlobalDifference float64 `json:"global_difference"`
	MargeMoyenne     float64 `json:"marge_moyenne"`
	AlertCount       int     `json:"alert_count"`
	TotalVersements  float64 `json:"total_versements"`
}
