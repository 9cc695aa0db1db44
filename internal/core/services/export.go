package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"artefact-registry/internal/core/domain"
)

const exportSheet = "Artefactos"

var (
	exportHeaders   = []string{"Artefacto", "Descripción", "Versión", "Usuario", "Fecha cambio"}
	exportColWidths = []float64{20, 40, 10, 14, 20}
)

// ExportService renders catalog listings as spreadsheets.
type ExportService struct {
	catalog *CatalogService
}

func NewExportService(catalog *CatalogService) *ExportService {
	return &ExportService{catalog: catalog}
}

// ExportListing renders a department listing as an xlsx workbook.
func (s *ExportService) ExportListing(ctx context.Context, prefix string, sort domain.SortKey) (*excelize.File, string, error) {
	items, err := s.catalog.ListByPrefix(ctx, prefix, sort)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeListing(f, exportSheet, items); err != nil {
		f.Close()
		return nil, "", err
	}

	label := domain.NormalizeArtifactID(prefix)
	if label == "" {
		label = "TODOS"
	}
	return f, fmt.Sprintf("artefactos_%s.xlsx", domain.SecureFilename(label)), nil
}

func writeListing(f *excelize.File, sheet string, items []*domain.ArtifactSummary) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, it := range items {
		row := []interface{}{it.ID, it.Description, it.Version, it.User, it.ChangedAt.Format("2006-01-02 15:04:05")}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("write row %s: %w", it.ID, err)
		}
	}

	for i, w := range exportColWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}
