package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/quoteflow-app/quoteflow/constants"
	"github.com/quoteflow-app/quoteflow/internal/repository"
)

// Service is a tiny façade over repositories that renders persisted
// documents into export formats. Every render is a pure function of the
// stored document plus the issuer profile; no extraction logic runs here.
type Service struct {
	docsRepo     repository.DocumentRepository
	profilesRepo repository.ProfileRepository
	logger       *slog.Logger
}

func NewService(docs repository.DocumentRepository, profiles repository.ProfileRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{docsRepo: docs, profilesRepo: profiles, logger: logger}
}

// DocumentsXLSX returns an XLSX workbook (as bytes) listing the owner's
// documents of the given type within the date window.
// If only from is provided -> from..today (inclusive).
// If neither is provided   -> all documents for the owner.
func (s *Service) DocumentsXLSX(ctx context.Context, ownerID uuid.UUID, docType constants.DocumentType, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	var fromDate, toDate *time.Time
	if from != nil {
		f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		fromDate = &f
	}
	if to != nil {
		t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
		toDate = &t
	}
	if fromDate != nil && toDate == nil {
		today := time.Now().UTC()
		t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		toDate = &t
	}

	docs, err := s.docsRepo.List(ctx, ownerID, repository.ListDocumentsFilter{
		Type:     docType,
		FromDate: fromDate,
		ToDate:   toDate,
	})
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Documents"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Number",
		"Type",
		"Status",
		"Client",
		"Issue Date",
		"Due Date",
		"Currency",
		"Subtotal",
		"Tax",
		"Total",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, d := range docs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, d.Number)
		write(2, string(d.Type))
		write(3, string(d.Status))
		write(4, d.ClientName)
		write(5, d.IssueDate.Format("2006-01-02"))
		if d.DueDate != nil {
			write(6, d.DueDate.Format("2006-01-02"))
		}
		write(7, d.CurrencyCode)
		if d.Subtotal != nil {
			write(8, *d.Subtotal)
		}
		if d.TaxAmount != nil {
			write(9, *d.TaxAmount)
		}
		write(10, d.Total)

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 16)
	_ = f.SetColWidth(sheet, "D", "D", 28)
	_ = f.SetColWidth(sheet, "E", "F", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"owner_id", ownerID,
		"documents", len(docs),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
