package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"gestibat/api/internal/model"
)

// ReportService computes the financial summaries. The folds themselves are
// pure functions over loaded slices; nothing here persists state, every
// summary is recomputed on read.
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// CountDays returns the inclusive number of days between two dates.
func CountDays(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours()/24) + 1
}

// LaborCost folds assignments and embedded local workers into the total
// labor cost of a chantier. Assignment wages are the snapshots taken at
// assignment time.
func LaborCost(affectations []model.AffectationMonteur, locaux model.MonteurLocalList) float64 {
	var total float64
	for _, a := range affectations {
		days := float64(CountDays(a.DateEntree, a.DateSortie)) - a.JoursArret
		total += days * a.SalaireJour
	}
	for _, ml := range locaux {
		total += ml.JoursTravailles * ml.SalaireJour
	}
	return total
}

// SummarizeChantier folds one chantier's assignments, cost lines and
// payments into its financial summary. Margin percent is zero when no
// budget is planned.
func SummarizeChantier(ch *model.Chantier, affectations []model.AffectationMonteur, couts []model.LigneCout, versements []model.Versement) model.ChantierSummary {
	labor := LaborCost(affectations, ch.MonteursLocaux)

	var direct float64
	for _, c := range couts {
		direct += c.MontantReel
	}
	var paid float64
	for _, v := range versements {
		paid += v.Montant
	}

	total := labor + direct
	marge := ch.BudgetPrevu - total
	var margePercent float64
	if ch.BudgetPrevu > 0 {
		margePercent = marge / ch.BudgetPrevu * 100
	}

	return model.ChantierSummary{
		IDChantier:     ch.IDChantier,
		RefChantier:    ch.RefChantier,
		NomClient:      ch.NomClient,
		Statut:         ch.Statut,
		BudgetPrevu:    ch.BudgetPrevu,
		CoutMainOeuvre: labor,
		CoutsDirects:   direct,
		CoutTotal:      total,
		Versements:     paid,
		Marge:          marge,
		MargePercent:   margePercent,
	}
}

// SummarizeGlobal rolls per-chantier summaries up into one line.
func SummarizeGlobal(summaries []model.ChantierSummary) model.GlobalSummary {
	global := model.GlobalSummary{ChantierCount: len(summaries)}
	for _, s := range summaries {
		global.TotalBudget += s.BudgetPrevu
		global.TotalCout += s.CoutTotal
		global.TotalMarge += s.Marge
		global.TotalVersements += s.Versements
	}
	if global.TotalBudget > 0 {
		global.MargePercent = global.TotalMarge / global.TotalBudget * 100
	}
	return global
}

// BreakdownCosts buckets cost lines into the fixed display groups. Both
// transport categories land in the same bucket.
func BreakdownCosts(couts []model.LigneCout) model.CostBreakdown {
	var b model.CostBreakdown
	for _, c := range couts {
		switch c.TypeCout {
		case model.CoutTransportCommun, model.CoutTransportLocal:
			b.Transport += c.MontantReel
		case model.CoutHebergement:
			b.Hebergement += c.MontantReel
		case model.CoutRestauration:
			b.Restauration += c.MontantReel
		case model.CoutOutillageAffecte:
			b.Outillage += c.MontantReel
		case model.CoutSousTraitant:
			b.SousTraitance += c.MontantReel
		}
	}
	return b
}

// AccumulateMonteurStats sums worked days and pay per monteur across all
// assignments, highest earner first.
func AccumulateMonteurStats(affectations []model.AffectationMonteur) []model.MonteurStats {
	byMatricule := map[int]*model.MonteurStats{}
	for _, a := range affectations {
		days := float64(CountDays(a.DateEntree, a.DateSortie)) - a.JoursArret
		stat, ok := byMatricule[a.Matricule]
		if !ok {
			stat = &model.MonteurStats{Matricule: a.Matricule, NomMonteur: a.NomMonteur}
			byMatricule[a.Matricule] = stat
		}
		stat.Jours += days
		stat.Total += days * a.SalaireJour
	}

	stats := make([]model.MonteurStats, 0, len(byMatricule))
	for _, s := range byMatricule {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Total > stats[j].Total })
	return stats
}

// ChantierSummaries computes the summary of every chantier.
func (s *ReportService) ChantierSummaries(ctx context.Context) ([]model.ChantierSummary, error) {
	var chantiers []model.Chantier
	if err := s.db.WithContext(ctx).Order("numero_ordre ASC").Find(&chantiers).Error; err != nil {
		return nil, err
	}

	summaries := make([]model.ChantierSummary, 0, len(chantiers))
	for i := range chantiers {
		summary, err := s.summarize(ctx, &chantiers[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ChantierSummary computes the summary of a single chantier.
func (s *ReportService) ChantierSummary(ctx context.Context, idChantier string) (*model.ChantierSummary, error) {
	var chantier model.Chantier
	if err := s.db.WithContext(ctx).Where("id_chantier = ?", idChantier).First(&chantier).Error; err != nil {
		return nil, err
	}
	summary, err := s.summarize(ctx, &chantier)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *ReportService) summarize(ctx context.Context, chantier *model.Chantier) (model.ChantierSummary, error) {
	var affectations []model.AffectationMonteur
	if err := s.db.WithContext(ctx).Where("id_chantier = ?", chantier.IDChantier).Find(&affectations).Error; err != nil {
		return model.ChantierSummary{}, err
	}
	var couts []model.LigneCout
	if err := s.db.WithContext(ctx).Where("id_chantier = ?", chantier.IDChantier).Find(&couts).Error; err != nil {
		return model.ChantierSummary{}, err
	}
	var versements []model.Versement
	if err := s.db.WithContext(ctx).Where("id_chantier = ?", chantier.IDChantier).Find(&versements).Error; err != nil {
		return model.ChantierSummary{}, err
	}
	return SummarizeChantier(chantier, affectations, couts, versements), nil
}

// Global computes the rollup across all chantiers.
func (s *ReportService) Global(ctx context.Context) (*model.GlobalSummary, error) {
	summaries, err := s.ChantierSummaries(ctx)
	if err != nil {
		return nil, err
	}
	global := SummarizeGlobal(summaries)
	return &global, nil
}

// CostBreakdown buckets every recorded cost line.
func (s *ReportService) CostBreakdown(ctx context.Context) (*model.CostBreakdown, error) {
	var couts []model.LigneCout
	if err := s.db.WithContext(ctx).Find(&couts).Error; err != nil {
		return nil, err
	}
	breakdown := BreakdownCosts(couts)
	return &breakdown, nil
}

// MonteurStats computes cumulative pay per monteur.
func (s *ReportService) MonteurStats(ctx context.Context) ([]model.MonteurStats, error) {
	var affectations []model.AffectationMonteur
	if err := s.db.WithContext(ctx).Find(&affectations).Error; err != nil {
		return nil, err
	}
	return AccumulateMonteurStats(affectations), nil
}

// Dashboard computes the landing page counters.
func (s *ReportService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	summaries, err := s.ChantierSummaries(ctx)
	if err != nil {
		return nil, err
	}

	stats := model.DashboardStats{}
	var margeSum float64
	var budgeted int
	for _, sum := range summaries {
		switch sum.Statut {
		case model.ChantierActif:
			stats.ActiveCount++
		case model.ChantierTermine:
			stats.CompletedCount++
		}
		stats.TotalBudgetPrevu += sum.BudgetPrevu
		stats.TotalBudgetReel += sum.CoutTotal
		stats.TotalVersements += sum.Versements
		if sum.BudgetPrevu > 0 {
			margeSum += sum.MargePercent
			budgeted++
		}
	}
	stats.GlobalDifference = stats.TotalBudgetPrevu - stats.TotalBudgetReel
	if budgeted > 0 {
		stats.MargeMoyenne = margeSum / float64(budgeted)
	}

	var lowStock int64
	if err := s.db.WithContext(ctx).Model(&model.ArticleStock{}).
		Where("quantite <= seuil_alerte").Count(&lowStock).Error; err != nil {
		return nil, err
	}
	stats.AlertCount = int(lowStock)

	return &stats, nil
}
