package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"gestibat/api/internal/model"
)

// ExportService renders downloadable workbooks over already-persisted data.
type ExportService struct {
	db      *gorm.DB
	stock   *StockService
	reports *ReportService
}

// NewExportService creates a new export service
func NewExportService(db *gorm.DB, stock *StockService, reports *ReportService) *ExportService {
	return &ExportService{db: db, stock: stock, reports: reports}
}

// MouvementsWorkbook builds the stock movement register, newest first,
// honoring the same filters as the history view.
func (s *ExportService) MouvementsWorkbook(ctx context.Context, filter *model.MouvementFilter) (*excelize.File, error) {
	mouvements, err := s.stock.ListMovements(ctx, filter)
	if err != nil {
		return nil, err
	}

	var articles []model.ArticleStock
	if err := s.db.WithContext(ctx).Find(&articles).Error; err != nil {
		return nil, err
	}
	articleByID := make(map[string]model.ArticleStock, len(articles))
	for _, a := range articles {
		articleByID[a.IDArticle] = a
	}

	var chantiers []model.Chantier
	if err := s.db.WithContext(ctx).Find(&chantiers).Error; err != nil {
		return nil, err
	}
	chantierByID := make(map[string]model.Chantier, len(chantiers))
	for _, c := range chantiers {
		chantierByID[c.IDChantier] = c
	}

	f := excelize.NewFile()
	sheetName := "Mouvements"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"Date", "Type", "Article", "Référence", "Quantité", "Unité", "Chantier", "Motif"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, m := range mouvements {
		row := i + 2
		article := articleByID[m.IDArticle]
		destination := ""
		if m.IDChantier != "" {
			if ch, ok := chantierByID[m.IDChantier]; ok {
				destination = ch.RefChantier
			} else {
				destination = m.IDChantier
			}
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), m.Date.Format("02/01/2006 15:04"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), m.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), article.Nom)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), article.Reference)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), m.Quantite)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), article.Unite)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), destination)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), m.Motif)
	}

	return f, nil
}

// FinancialWorkbook builds the per-chantier financial report plus the
// global rollup line.
func (s *ExportService) FinancialWorkbook(ctx context.Context) (*excelize.File, error) {
	summaries, err := s.reports.ChantierSummaries(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Rapport Financier"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"Référence", "Client", "Statut", "Budget Prévu", "Main d'œuvre", "Coûts Directs", "Coût Total", "Versements", "Marge", "Marge %"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, sum := range summaries {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), sum.RefChantier)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), sum.NomClient)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), sum.Statut)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), sum.BudgetPrevu)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), sum.CoutMainOeuvre)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), sum.CoutsDirects)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), sum.CoutTotal)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), sum.Versements)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), sum.Marge)
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), fmt.Sprintf("%.1f%%", sum.MargePercent))
	}

	global := SummarizeGlobal(summaries)
	totalRow := len(summaries) + 3
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalRow), "TOTAL")
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", totalRow), global.TotalBudget)
	f.SetCellValue(sheetName, fmt.Sprintf("G%d", totalRow), global.TotalCout)
	f.SetCellValue(sheetName, fmt.Sprintf("H%d", totalRow), global.TotalVersements)
	f.SetCellValue(sheetName, fmt.Sprintf("I%d", totalRow), global.TotalMarge)
	f.SetCellValue(sheetName, fmt.Sprintf("J%d", totalRow), fmt.Sprintf("%.1f%%", global.MargePercent))

	return f, nil
}
