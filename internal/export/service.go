package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/shavaan/team2-Hack/constants"
	"github.com/shavaan/team2-Hack/internal/repository"
	"github.com/shavaan/team2-Hack/internal/utils"
)

const sheetName = "Law Changes"

// Service is a tiny façade over the change store that produces XLSX bytes for exports.
type Service struct {
	store  repository.ChangeStore
	logger *slog.Logger
}

func NewService(store repository.ChangeStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportLawChangesXLSX returns an XLSX workbook (as bytes) of stored law changes
// with from <= date_changed <= to. Nil bounds are open.
func (s *Service) ExportLawChangesXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	recs, err := s.store.ListRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("query law changes: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"ID",
		"Date Changed",
		"State",
		"Jurisdiction",
		"Summary",
		"Source URL",
		"Source PDF",
		"Extracted At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for i, r := range recs {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
		name, ok := constants.JurisdictionName(constants.Jurisdiction(r.Jurisdiction))
		if !ok {
			name = r.Jurisdiction
		}

		write(1, r.ID)
		write(2, r.Date())
		write(3, r.Jurisdiction)
		write(4, name)
		write(5, utils.Truncate(r.Summary, 500, "…"))
		write(6, r.SourceURL)
		write(7, r.SourcePDFFilename)
		write(8, r.ExtractedAt.UTC().Format(time.RFC3339))
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)  // id
	_ = f.SetColWidth(sheetName, "B", "C", 14) // date, code
	_ = f.SetColWidth(sheetName, "D", "D", 22) // jurisdiction
	_ = f.SetColWidth(sheetName, "E", "E", 80) // summary
	_ = f.SetColWidth(sheetName, "F", "F", 48) // url
	_ = f.SetColWidth(sheetName, "G", "H", 24)
	_ = f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
